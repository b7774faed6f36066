package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/generation"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of the genai Models service used by the
// generator. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to generate flashcards from document text.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	models         ContentGenerator
	limiter        *rate.Limiter

	// baseDelay is the first retry delay; later delays double.
	baseDelay time.Duration
}

// Ensure GeminiGenerator implements generation.Generator interface
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by a real Gemini client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return NewGeneratorWithClient(logger, cfg, client.Models)
}

// NewGeneratorWithClient creates a generator that sends requests through
// models. It validates the configuration and loads the prompt template.
func NewGeneratorWithClient(
	logger *slog.Logger,
	cfg config.LLMConfig,
	models ContentGenerator,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: content generator cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.FlashcardCount < 1 {
		return nil, fmt.Errorf("%w: flashcard count must be positive", generation.ErrInvalidConfig)
	}

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	if cfg.MaxRetries < 0 {
		logger.Warn("invalid max retries value, using default", slog.Int("max_retries", 3))
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelaySeconds < 1 {
		logger.Warn("invalid retry delay value, using default", slog.Int("retry_delay_seconds", 2))
		cfg.RetryDelaySeconds = 2
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: tmpl,
		models:         models,
		limiter:        limiter,
		baseDelay:      time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, text string) generation.Result {
	log := logger.FromContextOrDefault(ctx, g.logger)

	text = strings.TrimSpace(text)
	if text == "" {
		log.Warn("no document text to generate flashcards from")
		return generation.Unavailable(generation.ErrEmptyText)
	}

	prompt, err := renderPrompt(g.promptTemplate, promptData{Text: text, Count: g.config.FlashcardCount})
	if err != nil {
		log.Error("failed to render prompt", slog.String("error", err.Error()))
		return generation.Unavailable(fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err))
	}

	log.Debug("prompt generated",
		slog.Int("text_length", len(text)),
		slog.Int("prompt_length", len(prompt)))

	cards, err := g.callWithRetry(ctx, log, prompt)
	if err != nil {
		return generation.Unavailable(err)
	}

	log.Info("flashcards generated", slog.Int("count", len(cards)))
	return generation.Generated(cards)
}

// callWithRetry calls Gemini with exponential backoff for transient errors.
// Safety blocks and malformed responses are permanent and returned at once.
func (g *GeminiGenerator) callWithRetry(
	ctx context.Context,
	log *slog.Logger,
	prompt string,
) ([]domain.FlashcardContent, error) {
	maxRetries := g.config.MaxRetries

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		log.Info("making Gemini API call",
			slog.Int("attempt", attemptNum),
			slog.Int("max_attempts", maxRetries+1))

		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: rate limiter: %v", generation.ErrTransientFailure, err)
			}
		}

		cards, err := g.call(ctx, prompt)
		if err == nil {
			log.Info("Gemini API call successful", slog.Int("attempt", attemptNum))
			return cards, nil
		}

		log.Error("Gemini API call failed",
			slog.Int("attempt", attemptNum),
			slog.String("error", err.Error()))

		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			log.Warn("permanent error occurred, not retrying")
			return nil, err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}

		if attempt >= maxRetries {
			log.Warn("maximum retry attempts reached", slog.Int("max_retries", maxRetries))
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		delay := g.backoff(attempt)
		log.Info("retrying after delay",
			slog.Int("attempt", attemptNum),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			log.Warn("API call cancelled during retry delay", slog.Int("attempt", attemptNum))
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// backoff returns baseDelay * 2^attempt scaled by a jitter factor in [0.5, 1).
func (g *GeminiGenerator) backoff(attempt int) time.Duration {
	backoff := float64(g.baseDelay) * math.Pow(2, float64(attempt))
	jitter := 0.5 + rand.Float64()*0.5
	return time.Duration(backoff * jitter)
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) ([]domain.FlashcardContent, error) {
	resp, err := g.models.GenerateContent(ctx, g.config.ModelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	switch {
	case resp == nil:
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case len(resp.Candidates) == 0:
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	case resp.Candidates[0].Content == nil:
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return parseFlashcards(sb.String())
}

// parseFlashcards decodes the model's JSON array. Any pair missing a
// question or answer invalidates the whole response.
func parseFlashcards(raw string) ([]domain.FlashcardContent, error) {
	var parsed []flashcardSchema
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}

	cards := make([]domain.FlashcardContent, 0, len(parsed))
	for i, item := range parsed {
		question := strings.TrimSpace(item.Question)
		answer := strings.TrimSpace(item.Answer)
		if question == "" {
			return nil, fmt.Errorf("%w: flashcard %d missing question", generation.ErrInvalidResponse, i)
		}
		if answer == "" {
			return nil, fmt.Errorf("%w: flashcard %d missing answer", generation.ErrInvalidResponse, i)
		}
		cards = append(cards, domain.FlashcardContent{Question: question, Answer: answer})
	}
	return cards, nil
}
