// Package intervention turns trait scores into a retention plan with
// success probability, cost and ROI projections.
package intervention

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/utils"
)

const (
	// DefaultThreshold is the success probability (as a fraction) a plan should reach.
	DefaultThreshold = 0.85

	baseSuccess          = 65.0
	maxSuccess           = 95.0
	perStrategyBonus     = 2.0
	maxStrategyBonus     = 10.0
	costSpread           = 0.2
	assumedInterventions = 3
	replacementFactor    = 1.5
	salaryPerPerfPoint   = 1000.0

	TimelineImmediate = "Immediate (within 1 week)"
	TimelineUrgent    = "Urgent (within 2-3 weeks)"
	TimelineStandard  = "Standard (within 4-6 weeks)"

	priorityWellness = "General wellness maintenance"
)

// Options tune one synthesis.
type Options struct {
	// Threshold in (0,1]. Zero selects DefaultThreshold.
	Threshold float64
	// Timeout bounds the narrator call.
	Timeout time.Duration
	// IncludeNarrative extends the plan with narrator strategies.
	IncludeNarrative bool
}

// Synthesizer is safe for concurrent use.
type Synthesizer struct {
	catalog  *catalog.Catalog
	narrator ai.Narrator
	logger   *zap.Logger
}

func NewSynthesizer(cat *catalog.Catalog, narrator ai.Narrator, logger *zap.Logger) *Synthesizer {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{catalog: cat, narrator: narrator, logger: logger}
}

// Synthesize builds the plan. Narrator failures are absorbed; only invalid
// input is reported as an error.
func (s *Synthesizer) Synthesize(ctx context.Context, scores domain.PsychologicalScoreSet, attrs domain.EmployeeAttributes, opts Options) (*domain.InterventionPlan, error) {
	if err := domain.Validate("intervention.synthesize", attrs); err != nil {
		return nil, err
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, domain.Errorf(domain.KindInvalidInput, "intervention.synthesize", "threshold %v is outside (0,1]", threshold)
	}

	attrs = attrs.WithDefaults()
	rules := s.RuleStrategies(scores)
	success := SuccessProbability(scores.Engagement, attrs.TenureYears, len(rules))

	plan := &domain.InterventionPlan{
		RuleStrategies:     rules,
		SuccessProbability: success,
		MeetsThreshold:     success/100 >= threshold,
		PriorityAreas:      PriorityAreas(scores),
		Timeline:           Timeline(scores),
		Cost:               s.Cost(len(rules)),
		ROI:                s.ROI(attrs.Performance(), success),
	}

	if opts.IncludeNarrative {
		outcome := s.narrative(ctx, scores, attrs, opts.Timeout)
		plan.NarrativeStrategies = outcome.Value
		plan.NarrativeSource = outcome.Source
	}

	plan.Strategies = make([]string, 0, len(rules)+len(plan.NarrativeStrategies))
	plan.Strategies = append(plan.Strategies, rules...)
	plan.Strategies = append(plan.Strategies, plan.NarrativeStrategies...)

	s.logger.Debug("intervention plan built",
		zap.String("employee_id", attrs.ID),
		zap.Int("rule_strategies", len(rules)),
		zap.Int("narrative_strategies", len(plan.NarrativeStrategies)),
		zap.Float64("success_probability", success),
		zap.String("timeline", plan.Timeline),
	)

	return plan, nil
}

func (s *Synthesizer) narrative(ctx context.Context, scores domain.PsychologicalScoreSet, attrs domain.EmployeeAttributes, timeout time.Duration) ai.Outcome[[]string] {
	fallback := s.catalog.FallbackStrategies
	if s.narrator == nil {
		return ai.Outcome[[]string]{
			Value:  fallback(),
			Source: domain.SourceFallback,
			Err:    domain.Errorf(domain.KindNarrativeUnavailable, "intervention.narrative", "no narrator configured"),
		}
	}

	outcome := ai.Resolve(ctx, timeout, domain.KindNarrativeUnavailable, "intervention.narrative",
		func(ctx context.Context) ([]string, error) {
			return s.narrator.Interventions(ctx, ai.InterventionRequest{Employee: attrs, Scores: scores})
		},
		func(v []string) bool { return len(v) > 0 },
		fallback,
	)
	if outcome.Degraded() {
		s.logger.Warn("narrative strategies unavailable, using fallback",
			zap.String("employee_id", attrs.ID),
			zap.Error(outcome.Err),
		)
	}
	return outcome
}

// RuleStrategies selects catalog strategies by category thresholds.
func (s *Synthesizer) RuleStrategies(scores domain.PsychologicalScoreSet) []string {
	var out []string
	if scores.Stress > 70 {
		out = append(out, s.catalog.Strategies(catalog.CategoryHighStress)...)
	}
	if scores.Satisfaction < 40 {
		out = append(out, s.catalog.Strategies(catalog.CategoryLowSatisfaction)...)
	}
	if scores.Engagement < 50 {
		out = append(out, s.catalog.Strategies(catalog.CategoryPoorEngagement)...)
	}
	return out
}

// SuccessProbability is bounded to [0,95].
func SuccessProbability(engagement, tenureYears float64, interventions int) float64 {
	p := baseSuccess
	switch {
	case engagement > 70:
		p += 15
	case engagement < 30:
		p -= 20
	}
	switch {
	case tenureYears > 3:
		p += 10
	case tenureYears < 1:
		p -= 10
	}
	p += min(float64(interventions)*perStrategyBonus, maxStrategyBonus)
	return domain.Clamp(p, 0, maxSuccess)
}

// Timeline picks how soon the plan should start.
func Timeline(scores domain.PsychologicalScoreSet) string {
	switch {
	case scores.Stress > 80 || scores.Satisfaction < 30:
		return TimelineImmediate
	case scores.Stress > 60 || scores.Satisfaction < 50:
		return TimelineUrgent
	default:
		return TimelineStandard
	}
}

// PriorityAreas never returns an empty list.
func PriorityAreas(scores domain.PsychologicalScoreSet) []string {
	var areas []string
	if scores.Stress > 70 {
		areas = append(areas, "Immediate stress reduction")
	}
	if scores.Satisfaction < 40 {
		areas = append(areas, "Job satisfaction improvement")
	}
	if scores.Engagement < 50 {
		areas = append(areas, "Engagement enhancement")
	}
	if len(areas) == 0 {
		return []string{priorityWellness}
	}
	return areas
}

// Cost prices count interventions with a ±20% range.
func (s *Synthesizer) Cost(count int) domain.CostEstimate {
	unit := s.catalog.UnitCost()
	total := unit * float64(count)
	lo, hi := total*(1-costSpread), total*(1+costSpread)
	return domain.CostEstimate{
		PerIntervention: unit,
		Total:           total,
		Min:             lo,
		Max:             hi,
		Range:           utils.FormatUSDRange(lo, hi),
	}
}

// ROI compares a fixed three-intervention spend with the replacement cost
// estimated from performance.
func (s *Synthesizer) ROI(performance, successProbability float64) domain.ROIProjection {
	replacement := performance * salaryPerPerfPoint * replacementFactor
	cost := s.catalog.UnitCost() * assumedInterventions
	savings := replacement * successProbability / 100

	breakEven := 100.0
	if replacement > 0 {
		breakEven = cost / replacement * 100
	}

	return domain.ROIProjection{
		InterventionCost:     cost,
		PotentialSavings:     savings,
		ROIPercent:           (savings - cost) / cost * 100,
		BreakEvenProbability: breakEven,
	}
}
