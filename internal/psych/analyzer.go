package psych

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/lexicon"
)

// Options tune a single analysis.
type Options struct {
	// Timeout bounds each collaborator call. Zero means no extra bound.
	Timeout time.Duration
	// IncludeNarrative asks the narrator for a qualitative profile.
	IncludeNarrative bool
}

// Analyzer builds psychological profiles. It holds only read-only
// collaborators and may be shared between requests.
type Analyzer struct {
	scorer   Scorer
	embedder ai.Embedder
	narrator ai.Narrator
	catalog  *catalog.Catalog
	logger   *zap.Logger
}

// NewAnalyzer wires an Analyzer. A nil embedder forces lexical scoring;
// a nil narrator forces the fallback narrative profile.
func NewAnalyzer(scorer Scorer, embedder ai.Embedder, narrator ai.Narrator, cat *catalog.Catalog, logger *zap.Logger) (*Analyzer, error) {
	if scorer == nil {
		return nil, errors.New("psychological scorer is required")
	}
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		scorer:   scorer,
		embedder: embedder,
		narrator: narrator,
		catalog:  cat,
		logger:   logger,
	}, nil
}

// Analyze scores the feedback text for one employee.
func (a *Analyzer) Analyze(ctx context.Context, text string, attrs domain.EmployeeAttributes, opts Options) (*domain.PsychProfile, error) {
	if err := domain.Validate("psych.analyze", attrs); err != nil {
		return nil, err
	}
	attrs = attrs.WithDefaults()

	lexical := lexicon.Extract(text, a.catalog.Traits())

	scores, mode, err := a.score(ctx, text, lexical, opts)
	if err != nil {
		return nil, err
	}

	profile := &domain.PsychProfile{
		Scores:  scores,
		Lexical: lexical,
		Predictions: domain.PerformancePredictions{
			Trajectory:          Trajectory(scores),
			GrowthPotential:     GrowthPotential(lexical),
			LeadershipReadiness: LeadershipReadiness(scores.Engagement, attrs.Performance(), attrs.TenureYears),
		},
		Engagement: domain.EngagementMetrics{
			Level:            scores.Engagement,
			ImprovementAreas: lexicon.ImprovementAreas(lexical),
			Strengths:        lexicon.Strengths(lexical),
		},
		Mode: mode,
	}

	profile.Narrative = a.narrative(ctx, text, attrs, profile, opts)

	a.logger.Debug("psychological profile built",
		zap.String("employee_id", attrs.ID),
		zap.String("scoring_mode", string(mode)),
		zap.String("narrative_source", string(profile.Narrative.Source)),
		zap.Float64("engagement", scores.Engagement),
	)

	return profile, nil
}

func (a *Analyzer) score(ctx context.Context, text string, lexical domain.TraitScores, opts Options) (domain.PsychologicalScoreSet, domain.ScoringMode, error) {
	team := lexical.Get(domain.TraitEngagement)

	vec, err := a.embed(ctx, text, opts.Timeout)
	if domain.KindOf(err) == domain.KindInvalidFeatureVector {
		return domain.PsychologicalScoreSet{}, "", err
	}
	if err != nil {
		a.logger.Warn("embedding unavailable, using lexical scores", zap.Error(err))
		return domain.NewPsychologicalScoreSet(
			lexical.Get(domain.TraitStress),
			lexical.Get(domain.TraitSatisfaction),
			lexical.Get(domain.TraitMotivation),
			lexical.Get(domain.TraitEngagement),
			team,
		), domain.ScoringModeLexical, nil
	}

	traits, err := a.scorer.Score(vec)
	if err != nil {
		return domain.PsychologicalScoreSet{}, "", err
	}

	return domain.NewPsychologicalScoreSet(traits.Stress, traits.Satisfaction, traits.Motivation, traits.Engagement, team),
		domain.ScoringModeEmbedding, nil
}

func (a *Analyzer) embed(ctx context.Context, text string, timeout time.Duration) ([]float64, error) {
	if a.embedder == nil {
		return nil, domain.Errorf(domain.KindEmbeddingUnavailable, "psych.embed", "no embedding provider configured")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	vec, err := a.embedder.Embed(ctx, text)
	if err != nil {
		if kind := domain.KindOf(err); kind != domain.KindEmbeddingUnavailable && kind != domain.KindInvalidFeatureVector {
			err = domain.Wrap(err, domain.KindEmbeddingUnavailable, "psych.embed")
		}
		return nil, err
	}

	return vec, nil
}

func (a *Analyzer) narrative(ctx context.Context, text string, attrs domain.EmployeeAttributes, profile *domain.PsychProfile, opts Options) *domain.NarrativeProfile {
	if !opts.IncludeNarrative || a.narrator == nil {
		return domain.FallbackNarrativeProfile()
	}

	outcome := ai.Resolve(ctx, opts.Timeout, domain.KindNarrativeUnavailable, "psych.narrative",
		func(ctx context.Context) (*domain.NarrativeProfile, error) {
			return a.narrator.Profile(ctx, ai.ProfileRequest{
				Feedback: text,
				Employee: attrs,
				Scores:   profile.Scores,
				Lexical:  profile.Lexical,
			})
		},
		func(p *domain.NarrativeProfile) bool { return p != nil },
		domain.FallbackNarrativeProfile,
	)
	if outcome.Degraded() {
		a.logger.Warn("narrative profile unavailable, using fallback",
			zap.String("employee_id", attrs.ID),
			zap.Error(outcome.Err),
		)
	}

	return outcome.Value
}

// Trajectory classifies the average of engagement and motivation.
func Trajectory(s domain.PsychologicalScoreSet) domain.Trajectory {
	avg := (s.Engagement + s.Motivation) / 2
	switch {
	case avg > 70:
		return domain.TrajectoryAscending
	case avg > 40:
		return domain.TrajectoryStable
	default:
		return domain.TrajectoryDeclining
	}
}

// GrowthPotential averages the lexical growth and motivation scores.
func GrowthPotential(lexical domain.TraitScores) float64 {
	return math.Min((lexical.Get(domain.TraitGrowth)+lexical.Get(domain.TraitMotivation))/2, 100)
}

// LeadershipReadiness weighs engagement, performance and a tenure bonus capped at 20.
func LeadershipReadiness(engagement, performance, tenureYears float64) float64 {
	tenureBonus := math.Min(tenureYears*5, 20)
	return math.Min(0.4*engagement+0.4*performance+0.2*tenureBonus, 100)
}
