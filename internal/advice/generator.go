// Package advice produces the AI comment attached to every post. A Generator
// wraps the external text-generation capability; RequestAdvice adds the retry
// policy and the "Error" fallback so callers never see a failure.
package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// promptTemplate frames the post content as a request for short advice.
const promptTemplate = `Depending on this message "%s", what advice would you give this person? Keep your advice under 4 sentences. Only respond with the advice.`

// maxAttempts bounds how often a single advice request is retried before the
// sentinel is returned.
const maxAttempts = 5

// ErrorSentinel is stored as the comment content when every attempt failed.
const ErrorSentinel = "Error"

// Generator turns post content into a piece of advice. Implementations are
// expected to be safe for concurrent use.
type Generator interface {
	Advise(ctx context.Context, content string) (string, error)
}

// RequestAdvice calls gen up to maxAttempts times and returns the first
// successful response. After exhausting retries it returns ErrorSentinel
// rather than an error; the annotator always has something to write into the
// placeholder comment.
func RequestAdvice(ctx context.Context, gen Generator, content string, logger *zap.Logger) string {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out, err := gen.Advise(ctx, content)
		if err == nil {
			return out
		}
		logger.Error("advice generation failed",
			zap.Int("attempt", attempt),
			zap.Error(err))
	}
	return ErrorSentinel
}

// GeminiGenerator generates advice through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Advise asks the model for advice on a single post.
func (g *GeminiGenerator) Advise(ctx context.Context, content string) (string, error) {
	prompt := fmt.Sprintf(promptTemplate, content)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}

// Disabled returns a Generator that always fails. Used when no API key is
// configured: placeholder comments then resolve to ErrorSentinel, the same
// behavior as an unreachable model.
func Disabled() Generator { return disabled{} }

type disabled struct{}

func (disabled) Advise(context.Context, string) (string, error) {
	return "", errors.New("advice generation disabled")
}
