package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/advice-forum/internal/advice"
	"github.com/iliyamo/advice-forum/internal/config"
	"github.com/iliyamo/advice-forum/internal/database"
	"github.com/iliyamo/advice-forum/internal/handler"
	"github.com/iliyamo/advice-forum/internal/middleware"
	"github.com/iliyamo/advice-forum/internal/moderation"
	"github.com/iliyamo/advice-forum/internal/queue"
	"github.com/iliyamo/advice-forum/internal/repository"
	"github.com/iliyamo/advice-forum/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	gen := newGenerator(cfg, logger)
	annotator := advice.NewAnnotator(comments, gen, cfg.AdviceQueue, logger)
	annotator.Start()
	defer annotator.Stop()

	publisher := queue.NewPublisher(cfg.AMQPUrl, logger)
	if cfg.ActivityConsumer && cfg.AMQPUrl != "" {
		go queue.StartActivityConsumer(cfg.AMQPUrl, logger)
	}

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	authHandler := handler.NewAuthHandler(users, sessions)
	postHandler := handler.NewPostHandler(posts, comments, moderation.NewClassifier(), annotator, publisher)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, authHandler, postHandler, sessions, limiter)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newGenerator picks the advice backend. Without an API key the annotator
// still runs, resolving every placeholder to the error sentinel instead of
// leaving it dangling.
func newGenerator(cfg config.Config, logger *zap.Logger) advice.Generator {
	if cfg.GenAIKey == "" {
		logger.Warn("GENAI_API_KEY not set, advice generation disabled")
		return advice.Disabled()
	}
	gen, err := advice.NewGeminiGenerator(context.Background(), cfg.GenAIKey, cfg.AdviceModel)
	if err != nil {
		logger.Warn("Gemini client init failed, advice generation disabled", zap.Error(err))
		return advice.Disabled()
	}
	return gen
}
