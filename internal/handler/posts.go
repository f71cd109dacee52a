package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/advice-forum/internal/advice"
	"github.com/iliyamo/advice-forum/internal/middleware"
	"github.com/iliyamo/advice-forum/internal/model"
	"github.com/iliyamo/advice-forum/internal/moderation"
	"github.com/iliyamo/advice-forum/internal/queue"
	"github.com/iliyamo/advice-forum/internal/repository"
)

// placeholderText is what the AI comment says until the annotator resolves it.
const placeholderText = "Loading, please wait!"

// PostHandler bundles dependencies for the content endpoints.
type PostHandler struct {
	Posts     *repository.PostRepo
	Comments  *repository.CommentRepo
	Mod       *moderation.Classifier
	Annotator *advice.Annotator
	Events    *queue.Publisher
}

func NewPostHandler(p *repository.PostRepo, cm *repository.CommentRepo, mod *moderation.Classifier, a *advice.Annotator, ev *queue.Publisher) *PostHandler {
	return &PostHandler{Posts: p, Comments: cm, Mod: mod, Annotator: a, Events: ev}
}

type commentReq struct {
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}

// SubmitPost stores a new post plus its AI placeholder comment, responds,
// and leaves advice generation to the background annotator. The request body
// is the raw post text.
func (h *PostHandler) SubmitPost(c echo.Context) error {
	username := middleware.Username(c)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Cannot read body")
	}
	content := string(body)
	if strings.TrimSpace(content) == "" {
		return c.String(http.StatusBadRequest, "Empty post")
	}
	if moderation.Blocked(h.Mod.Classify(content)) {
		return c.String(http.StatusForbidden, "Cannot say that")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	postID, err := h.Posts.NextID(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	commentID, err := h.Comments.NextID(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	now := time.Now().UTC().Unix()
	post := model.Post{ID: postID, Username: username, Content: content, Created: now}
	if err := h.Posts.Insert(ctx, post); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	placeholder := model.Comment{
		ID:       commentID,
		PostID:   postID,
		Username: model.AIUsername,
		Content:  placeholderText,
		Created:  now,
	}
	if err := h.Comments.Insert(ctx, placeholder); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	// Post and placeholder are committed; everything past this point is
	// detached from the response.
	go func() {
		_ = h.Events.PublishPostCreated(context.Background(), queue.PostCreatedEvent{
			PostID:    postID,
			Username:  username,
			Content:   content,
			CreatedAt: now,
		})
	}()
	h.Annotator.Enqueue(advice.Job{PostID: postID, CommentID: commentID, Content: content})

	return c.String(http.StatusOK, "OK, reload")
}

// AddComment attaches a comment to an existing post, authored by the
// session's user.
func (h *PostHandler) AddComment(c echo.Context) error {
	username := middleware.Username(c)

	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Posts.Exists(ctx, req.PostID)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	if !exists {
		return c.String(http.StatusNotFound, "No such post")
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.String(http.StatusBadRequest, "Empty comment")
	}
	if moderation.Blocked(h.Mod.Classify(req.Content)) {
		return c.String(http.StatusForbidden, "Cannot say that")
	}

	commentID, err := h.Comments.NextID(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	comment := model.Comment{
		ID:       commentID,
		PostID:   req.PostID,
		Username: username,
		Content:  req.Content,
		Created:  time.Now().UTC().Unix(),
	}
	if err := h.Comments.Insert(ctx, comment); err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusOK, "OK")
}

// GetPosts returns every post with its comments attached, ordered by
// ascending post id. A post with no comments serializes `comments` as null.
func (h *PostHandler) GetPosts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	comments, err := h.Comments.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	byPost := make(map[int64][]model.FeedComment, len(posts))
	for _, cm := range comments {
		byPost[cm.PostID] = append(byPost[cm.PostID], model.FeedComment{
			ID:       cm.ID,
			PostID:   cm.PostID,
			Username: cm.Username,
			Content:  cm.Content,
			Created:  cm.Created,
		})
	}

	feed := make([]model.FeedPost, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, model.FeedPost{
			ID:       p.ID,
			Username: p.Username,
			Content:  p.Content,
			Created:  p.Created,
			Comments: byPost[p.ID], // nil when the post has none
		})
	}
	return c.JSON(http.StatusOK, feed)
}
