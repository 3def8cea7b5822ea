// Package pipeline orchestrates the analysis components for single
// employees, candidates and batches of employee records.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/candidate"
	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/intervention"
	applog "github.com/spigell/hr-signals/internal/logger"
	"github.com/spigell/hr-signals/internal/metrics"
	"github.com/spigell/hr-signals/internal/psych"
	"github.com/spigell/hr-signals/internal/risk"
)

const DefaultMaxBatchSize = 10

// Stage names used for logging and latency metrics.
const (
	StagePsychology    = "psychology"
	StageRisk          = "risk"
	StageInterventions = "interventions"
	StageCandidate     = "candidate"
	StageBatch         = "batch"
)

// Collaborator names used for fallback metrics and status.
const (
	CollaboratorEmbedding = "embedding"
	CollaboratorNarrative = "narrative"
)

// Config holds the pipeline settings.
type Config struct {
	MaxBatchSize     int
	Timeout          time.Duration
	Horizons         []int
	SuccessThreshold float64
	IncludeNarrative bool
}

// Deps aggregates the components shared by every request.
// Nil scorer and predictor are replaced by the seeded dense defaults.
type Deps struct {
	Scorer    psych.Scorer
	Predictor *risk.Predictor
	Embedder  ai.Embedder
	Narrator  ai.Narrator
	Catalog   *catalog.Catalog
	Metrics   *metrics.Manager
	Logger    *zap.Logger
}

// Service is stateless between requests and safe for concurrent use.
type Service struct {
	cfg Config

	psych       *psych.Analyzer
	predictor   *risk.Predictor
	synthesizer *intervention.Synthesizer
	candidates  *candidate.Analyzer
	scorer      psych.Scorer
	embedder    ai.Embedder
	narrator    ai.Narrator
	metrics     *metrics.Manager
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

func NewService(cfg Config, deps Deps) (*Service, error) {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.SuccessThreshold == 0 {
		cfg.SuccessThreshold = intervention.DefaultThreshold
	}
	if cfg.SuccessThreshold < 0 || cfg.SuccessThreshold > 1 {
		return nil, fmt.Errorf("success threshold %v is outside (0,1]", cfg.SuccessThreshold)
	}

	horizons, err := risk.NormalizeHorizons(cfg.Horizons)
	if err != nil {
		return nil, fmt.Errorf("pipeline horizons: %w", err)
	}
	cfg.Horizons = horizons

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := deps.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	scorer := deps.Scorer
	if scorer == nil {
		dense, err := psych.NewDenseScorer()
		if err != nil {
			return nil, fmt.Errorf("create psychological scorer: %w", err)
		}
		scorer = dense
	}

	predictor := deps.Predictor
	if predictor == nil {
		predictor, err = risk.NewPredictor(risk.WithCatalog(cat))
		if err != nil {
			return nil, fmt.Errorf("create risk predictor: %w", err)
		}
	}

	analyzer, err := psych.NewAnalyzer(scorer, deps.Embedder, deps.Narrator, cat, applog.ForStage(logger, StagePsychology))
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:         cfg,
		psych:       analyzer,
		predictor:   predictor,
		synthesizer: intervention.NewSynthesizer(cat, deps.Narrator, applog.ForStage(logger, StageInterventions)),
		candidates:  candidate.NewAnalyzer(cat, deps.Narrator, applog.ForStage(logger, StageCandidate)),
		scorer:      scorer,
		embedder:    deps.Embedder,
		narrator:    deps.Narrator,
		metrics:     deps.Metrics,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}, nil
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	cfg := s.cfg
	cfg.Horizons = append([]int(nil), s.cfg.Horizons...)
	return cfg
}

// Describe reports the status of the pipeline and its collaborators.
func (s *Service) Describe() []ai.Status {
	horizons := make([]string, 0, len(s.cfg.Horizons))
	for _, h := range s.cfg.Horizons {
		horizons = append(horizons, strconv.Itoa(h))
	}

	statuses := []ai.Status{
		{
			Name:    "pipeline",
			Enabled: true,
			Details: map[string]string{
				"max_batch_size":    strconv.Itoa(s.cfg.MaxBatchSize),
				"timeout":           s.cfg.Timeout.String(),
				"horizons":          strings.Join(horizons, ","),
				"success_threshold": strconv.FormatFloat(s.cfg.SuccessThreshold, 'f', 2, 64),
				"include_narrative": strconv.FormatBool(s.cfg.IncludeNarrative),
			},
		},
		{
			Name:    "psych_scorer",
			Enabled: true,
			Details: map[string]string{"dimension": strconv.Itoa(s.scorer.Dim())},
		},
		ai.StatusOf(CollaboratorEmbedding, s.embedder),
		ai.StatusOf(CollaboratorNarrative, s.narrator),
	}

	metricsStatus := ai.Status{Name: "metrics", Enabled: s.metrics != nil}
	if s.metrics == nil {
		metricsStatus.Reason = "disabled in configuration"
	}

	return append(statuses, metricsStatus)
}

func (s *Service) observe(stage string, start time.Time) {
	s.metrics.ObserveStage(stage, time.Since(start))
}

func (s *Service) includeNarrative(override *bool) bool {
	if override != nil {
		return *override
	}
	return s.cfg.IncludeNarrative
}
