package config // package config loads application configuration from environment variables

import (
	"log" // log reports configuration errors and halts execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Optional integrations (Gemini advice, RabbitMQ events,
// Redis rate limiting) default to disabled or degraded when their variables
// are unset, so a bare APP_ENV/APP_PORT/DB_PATH environment is enough to run
// the forum locally.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBPath string // path of the SQLite database file

	GenAIKey    string // Gemini API key for the advice annotator (empty disables real calls)
	AdviceModel string // Gemini model used when requesting advice
	AdviceQueue int    // capacity of the in-process advice work queue

	FeedRequireAuth bool // when true, GET /api/get_posts requires a session token

	AMQPUrl          string // RabbitMQ URL for post.created events (empty disables publishing)
	ActivityConsumer bool   // when true, run the activity-log consumer alongside the server
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBPath: must("DB_PATH"),

		GenAIKey:    os.Getenv("GENAI_API_KEY"),
		AdviceModel: envStr("ADVICE_MODEL", "gemini-2.0-flash"),
		AdviceQueue: envInt("ADVICE_QUEUE_SIZE", 64),

		FeedRequireAuth: envBool("FEED_REQUIRE_AUTH", false),

		AMQPUrl:          os.Getenv("RABBITMQ_URL"),
		ActivityConsumer: envBool("ACTIVITY_CONSUMER", false),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
