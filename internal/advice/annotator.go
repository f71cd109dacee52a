package advice

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/advice-forum/internal/repository"
)

// Job identifies one placeholder comment waiting for advice.
type Job struct {
	PostID    int64
	CommentID int64
	Content   string // the post content the advice is about
}

// Annotator consumes a bounded queue of advice jobs on a single background
// worker. Submit handlers enqueue a job only after the post row and the
// placeholder comment are durably written, so the worker can always resolve
// the comment id it is told to update.
type Annotator struct {
	jobs     chan Job
	comments *repository.CommentRepo
	gen      Generator
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewAnnotator builds an annotator with the given queue capacity.
func NewAnnotator(comments *repository.CommentRepo, gen Generator, queueSize int, logger *zap.Logger) *Annotator {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Annotator{
		jobs:     make(chan Job, queueSize),
		comments: comments,
		gen:      gen,
		logger:   logger,
	}
}

// Start launches the worker goroutine.
func (a *Annotator) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for job := range a.jobs {
			a.process(job)
		}
	}()
}

// Enqueue hands a job to the worker. It blocks if the queue is full rather
// than dropping the job; a placeholder comment must always be resolved,
// either with advice or with the error sentinel.
func (a *Annotator) Enqueue(job Job) {
	a.jobs <- job
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (a *Annotator) Stop() {
	close(a.jobs)
	a.wg.Wait()
}

// process resolves a single placeholder. RequestAdvice never fails, so the
// placeholder text is always overwritten; the only way it survives is a
// storage error on the update itself.
func (a *Annotator) process(job Job) {
	ctx := context.Background()
	text := RequestAdvice(ctx, a.gen, job.Content, a.logger)
	if err := a.comments.UpdateContent(ctx, job.CommentID, text); err != nil {
		a.logger.Error("advice comment update failed",
			zap.Int64("post_id", job.PostID),
			zap.Int64("comment_id", job.CommentID),
			zap.Error(err))
		return
	}
	a.logger.Info("advice posted",
		zap.Int64("post_id", job.PostID),
		zap.Int64("comment_id", job.CommentID))
}
