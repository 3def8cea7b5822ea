package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/ai/gemini"
	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/embedding"
	"github.com/spigell/hr-signals/internal/logger"
	"github.com/spigell/hr-signals/internal/metrics"
	"github.com/spigell/hr-signals/internal/pipeline"
	"github.com/spigell/hr-signals/internal/psych"
	"github.com/spigell/hr-signals/internal/risk"
	"github.com/spigell/hr-signals/internal/secrets"
)

const (
	providerHashing = "hashing"
	providerGemini  = "gemini"
	geminiKeyEnv    = "GEMINI_API_KEY"
)

// environment is everything a command needs to run analyses.
type environment struct {
	config  *Config
	logger  *zap.Logger
	service *pipeline.Service
	metrics *metrics.Manager
}

func newEnvironment(ctx context.Context, config *Config, log *zap.Logger) (*environment, error) {
	if config == nil {
		config = &Config{}
	}

	var m *metrics.Manager
	if config.Metrics != nil && config.Metrics.Enabled {
		m = metrics.NewManager(metrics.WithNamespace(config.Metrics.Namespace))
	}

	cat, err := newCatalog(config.Catalog)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	generator, err := newGenerator(ctx, config, log)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config.Embedding, generator)
	if err != nil {
		return nil, err
	}

	scorerCfg := config.Scorer
	if scorerCfg == nil {
		scorerCfg = &ScorerConfig{}
	}

	dim := embedding.DefaultDimension
	if config.Embedding != nil && config.Embedding.Dimension > 0 {
		dim = config.Embedding.Dimension
	}

	opts := []psych.ScorerOption{psych.WithDimension(dim), psych.WithHidden(scorerCfg.Hidden)}
	if scorerCfg.Seed != 0 {
		opts = append(opts, psych.WithSeed(scorerCfg.Seed))
	}
	scorer, err := psych.NewDenseScorer(opts...)
	if err != nil {
		return nil, fmt.Errorf("building psychological scorer: %w", err)
	}

	riskScorer, err := risk.NewDenseScorer(riskSeed(scorerCfg.Seed), scorerCfg.RiskHidden)
	if err != nil {
		return nil, fmt.Errorf("building risk scorer: %w", err)
	}
	predictor, err := risk.NewPredictor(risk.WithScorer(riskScorer), risk.WithCatalog(cat))
	if err != nil {
		return nil, fmt.Errorf("building risk predictor: %w", err)
	}

	service, err := pipeline.NewService(pipelineConfig(config.Pipeline), pipeline.Deps{
		Scorer:    scorer,
		Predictor: predictor,
		Embedder:  embedder,
		Narrator:  newNarrator(config.AI, generator, log),
		Catalog:   cat,
		Metrics:   m,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("building pipeline: %w", err)
	}

	for _, st := range service.Describe() {
		log.Debug("collaborator status",
			zap.String("name", st.Name),
			zap.Bool("enabled", st.Enabled),
			zap.String("reason", st.Reason),
			zap.Any("details", st.Details),
		)
	}

	return &environment{config: config, logger: log, service: service, metrics: m}, nil
}

func riskSeed(seed int64) int64 {
	if seed == 0 {
		return 42
	}
	return seed
}

func pipelineConfig(cfg *PipelineConfig) pipeline.Config {
	if cfg == nil {
		return pipeline.Config{}
	}
	return pipeline.Config{
		MaxBatchSize:     cfg.MaxBatchSize,
		Timeout:          cfg.Timeout,
		Horizons:         cfg.Horizons,
		SuccessThreshold: cfg.SuccessThreshold,
		IncludeNarrative: cfg.IncludeNarrative,
	}
}

var strategyCategories = []string{catalog.CategoryHighStress, catalog.CategoryLowSatisfaction, catalog.CategoryPoorEngagement}

func newCatalog(cfg *CatalogConfig) (*catalog.Catalog, error) {
	if cfg == nil {
		return catalog.Default(), nil
	}

	opts := []catalog.Option{
		catalog.WithExtraSkills(cfg.ExtraSkills),
		catalog.WithSkillDemand(cfg.SkillDemand, cfg.DefaultSkillDemand),
		catalog.WithUnitCost(cfg.InterventionUnitCost),
	}
	if len(cfg.HighDemandDepartments) > 0 {
		opts = append(opts, catalog.WithHighDemandDepartments(cfg.HighDemandDepartments))
	}
	for category, strategies := range cfg.Strategies {
		if !slices.Contains(strategyCategories, category) {
			return nil, fmt.Errorf("unknown strategy category %q (known: %s)", category, strings.Join(strategyCategories, ", "))
		}
		opts = append(opts, catalog.WithStrategies(category, strategies))
	}

	return catalog.New(opts...)
}

// newGenerator builds the Gemini client only when a component is configured to use it.
func newGenerator(ctx context.Context, config *Config, log *zap.Logger) (*gemini.Generator, error) {
	aiOn := config.AI != nil && config.AI.Enabled
	embedOn := config.Embedding != nil && strings.EqualFold(strings.TrimSpace(config.Embedding.Provider), providerGemini)
	if !aiOn && !embedOn {
		return nil, nil
	}

	if aiOn {
		provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
		if provider != "" && provider != providerGemini {
			return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
		}
	}

	gcfg := &GeminiConfig{}
	if config.AI != nil && config.AI.Gemini != nil {
		gcfg = config.AI.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: gcfg.APIKey,
		File:  gcfg.APIKeyFile,
		Env:   geminiKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiKeyEnv)
	}

	opts := gemini.Options{
		APIKey:     apiKey,
		Model:      gcfg.Model,
		MaxRetries: gcfg.MaxRetries,
	}
	if config.Embedding != nil {
		opts.EmbeddingModel = config.Embedding.Model
		opts.Dimension = config.Embedding.Dimension
	}
	if opts.Dimension <= 0 {
		opts.Dimension = embedding.DefaultDimension
	}

	return gemini.NewGenerator(ctx, opts, logger.WithCommonFields(log, providerGemini, gcfg.Model))
}

func newEmbedder(cfg *EmbeddingConfig, generator *gemini.Generator) (ai.Embedder, error) {
	if cfg == nil {
		return embedding.NewHashing(embedding.DefaultDimension), nil
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.Provider)); provider {
	case "", providerHashing:
		return embedding.NewHashing(cfg.Dimension), nil
	case providerGemini:
		if generator == nil {
			return nil, fmt.Errorf("gemini embedding provider requires a gemini client")
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

func newNarrator(cfg *AIConfig, generator *gemini.Generator, log *zap.Logger) ai.Narrator {
	if cfg == nil || !cfg.Enabled {
		return ai.Disabled{Reason: "ai.enabled is false"}
	}
	if generator == nil {
		return ai.Disabled{Reason: "gemini client is not configured"}
	}

	maxLogLength := 0
	if cfg.Gemini != nil {
		maxLogLength = cfg.Gemini.MaxLogLength
	}

	return gemini.NewNarrator(generator, logger.WithCommonFields(log, providerGemini, generator.Model()), maxLogLength)
}

// readInput decodes a JSON file into v. The path "-" reads stdin.
func readInput(path string, stdin io.Reader, v any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("input file is required (use -f <file> or -f - for stdin)")
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decoding input %s: %w", path, err)
	}

	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// flushMetrics writes the metrics file when one is configured.
func (e *environment) flushMetrics() {
	if e.metrics == nil || e.config.Metrics == nil || strings.TrimSpace(e.config.Metrics.OutputFile) == "" {
		return
	}

	path := strings.TrimSpace(e.config.Metrics.OutputFile)
	f, err := os.Create(path)
	if err != nil {
		e.logger.Warn("creating metrics file", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	if err := e.metrics.WriteText(f); err != nil {
		e.logger.Warn("writing metrics file", zap.String("path", path), zap.Error(err))
		return
	}

	e.logger.Info("metrics written", zap.String("path", path))
}
