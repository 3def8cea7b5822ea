package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/utils"
)

const (
	providerName          = "gemini"
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultMaxRetries     = 2
	baseBackoff           = time.Second
	maxRetryDelay         = 10 * time.Second
)

// sleep is replaced in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	return utils.WaitFor(ctx, d)
}

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*(?:s|sec|secs|seconds)\b`)

// modelsAPI is the subset of genai.Models used by the Generator.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Generator wraps the Google GenAI client to provide prompt-based generation and embeddings.
type Generator struct {
	models         modelsAPI
	model          string
	embeddingModel string
	dimension      int
	maxRetries     int
	logger         *zap.Logger
}

// Options configures a Generator.
type Options struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Dimension      int
	MaxRetries     int
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, opts Options, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts, logger), nil
}

func newGenerator(models modelsAPI, opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	embeddingModel := strings.TrimSpace(opts.EmbeddingModel)
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Generator{
		models:         models,
		model:          model,
		embeddingModel: embeddingModel,
		dimension:      opts.Dimension,
		maxRetries:     maxRetries,
		logger:         logger,
	}
}

// GenerateContent sends the system instruction and prompt to Gemini and returns the textual response.
// Transient API failures are retried up to maxRetries attempts in total.
func (g *Generator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var config *genai.GenerateContentConfig
	if system = strings.TrimSpace(system); system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	var resp *genai.GenerateContentResponse
	err := g.withRetries(ctx, "generate content", func(ctx context.Context) error {
		var callErr error
		resp, callErr = g.models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := responseText(resp)
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// Embed implements ai.Embedder using the embedding model.
// Call failures are reported as ErrEmbeddingUnavailable; a vector of the
// wrong length as ErrInvalidFeatureVector.
func (g *Generator) Embed(ctx context.Context, text string) ([]float64, error) {
	if g == nil || g.models == nil {
		return nil, domain.Errorf(domain.KindEmbeddingUnavailable, "gemini.embed", "gemini generator is not initialized")
	}

	var config *genai.EmbedContentConfig
	if g.dimension > 0 {
		config = &genai.EmbedContentConfig{OutputDimensionality: genai.Ptr(int32(g.dimension))}
	}

	var resp *genai.EmbedContentResponse
	err := g.withRetries(ctx, "embed content", func(ctx context.Context) error {
		var callErr error
		resp, callErr = g.models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), config)
		return callErr
	})
	if err != nil {
		return nil, domain.Wrap(err, domain.KindEmbeddingUnavailable, "gemini.embed")
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, domain.Errorf(domain.KindEmbeddingUnavailable, "gemini.embed", "gemini api returned no embeddings")
	}

	values := resp.Embeddings[0].Values
	if g.dimension > 0 && len(values) != g.dimension {
		return nil, domain.Errorf(domain.KindInvalidFeatureVector, "gemini.embed", "expected %d values, got %d", g.dimension, len(values))
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}

	return out, nil
}

func (g *Generator) withRetries(ctx context.Context, action string, call func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		err = call(ctx)
		if err == nil {
			return nil
		}

		delay, retryable := retryDelay(err, attempt)
		if !retryable || attempt == g.maxRetries {
			return err
		}

		g.logger.Debug("retrying gemini request",
			zap.String("action", action),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if waitErr := sleep(ctx, delay); waitErr != nil {
			return fmt.Errorf("%w (wait aborted: %v)", err, waitErr)
		}
	}
	return err
}

// retryDelay reports whether err is transient and how long to wait before the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return 0, false
		}
		apiErr = *ptr
	}

	backoff := baseBackoff * time.Duration(1<<(attempt-1))

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if suggested, ok := parseRetryAfter(apiErr.Message); ok {
			if suggested > maxRetryDelay {
				return 0, false
			}
			return suggested, true
		}
		return backoff, true
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff, true
	default:
		return 0, false
	}
}

func parseRetryAfter(msg string) (time.Duration, bool) {
	m := retryAfterPattern.FindStringSubmatch(msg)
	if len(m) < 2 {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

// Model returns the generation model name.
func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}

// EmbeddingModel returns the embedding model name.
func (g *Generator) EmbeddingModel() string {
	if g == nil {
		return ""
	}
	return g.embeddingModel
}

// Status describes the generator in its embedding role.
func (g *Generator) Status() ai.Status {
	if g == nil {
		return ai.Status{Name: "embedding", Reason: "generator is not configured"}
	}
	return ai.Status{
		Name:    "embedding",
		Enabled: true,
		Details: map[string]string{
			"provider":    providerName,
			"model":       g.embeddingModel,
			"dimension":   strconv.Itoa(g.dimension),
			"max_retries": strconv.Itoa(g.maxRetries),
		},
	}
}
