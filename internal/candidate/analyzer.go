package candidate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
)

// Analysis is the full candidate result.
type Analysis struct {
	Profile        domain.CandidateProfile     `json:"candidate_profile"`
	Competitive    domain.CompetitiveAnalysis  `json:"competitive_analysis"`
	Assessment     domain.CandidateAssessment  `json:"assessment"`
	Scores         domain.CandidateScoreSet    `json:"scores"`
	Recommendation domain.HiringRecommendation `json:"hiring_recommendation"`
}

// Options tune one candidate analysis.
type Options struct {
	Timeout          time.Duration
	IncludeNarrative bool
}

// Analyzer runs extraction, market analysis, assessment and recommendation in sequence.
type Analyzer struct {
	extractor *Extractor
	market    *MarketAnalyzer
	narrator  ai.Narrator
	logger    *zap.Logger
}

func NewAnalyzer(cat *catalog.Catalog, narrator ai.Narrator, logger *zap.Logger) *Analyzer {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		extractor: NewExtractor(cat),
		market:    NewMarketAnalyzer(cat),
		narrator:  narrator,
		logger:    logger,
	}
}

// Analyze scores one resume. Only invalid attributes produce an error.
func (a *Analyzer) Analyze(ctx context.Context, resume string, attrs domain.CandidateAttributes, opts Options) (*Analysis, error) {
	if err := domain.Validate("candidate.analyze", attrs); err != nil {
		return nil, err
	}

	profile := a.extractor.Extract(resume, attrs)
	competitive := a.market.Analyze(profile)
	assessment := a.assessment(ctx, resume, profile, opts)

	result := &Analysis{
		Profile:        profile,
		Competitive:    competitive,
		Assessment:     *assessment,
		Scores:         Score(profile, competitive),
		Recommendation: Recommend(competitive, *assessment),
	}

	a.logger.Debug("candidate analyzed",
		zap.String("candidate_id", attrs.ID),
		zap.Int("skills", len(profile.Skills)),
		zap.Int("experience_years", profile.ExperienceYears),
		zap.Float64("final_score", result.Scores.Composite),
		zap.String("decision", string(result.Recommendation.Decision)),
	)

	return result, nil
}

func (a *Analyzer) assessment(ctx context.Context, resume string, profile domain.CandidateProfile, opts Options) *domain.CandidateAssessment {
	if !opts.IncludeNarrative || a.narrator == nil {
		return domain.FallbackCandidateAssessment()
	}

	outcome := ai.Resolve(ctx, opts.Timeout, domain.KindNarrativeUnavailable, "candidate.assessment",
		func(ctx context.Context) (*domain.CandidateAssessment, error) {
			return a.narrator.CandidateAssessment(ctx, ai.CandidateRequest{Resume: resume, Profile: profile})
		},
		func(v *domain.CandidateAssessment) bool { return v != nil },
		domain.FallbackCandidateAssessment,
	)
	if outcome.Degraded() {
		a.logger.Warn("candidate assessment unavailable, using fallback", zap.Error(outcome.Err))
	}
	return outcome.Value
}
