// Package domain holds the typed records exchanged between the analysis components.
// Records are built per request and not modified after construction.
package domain

import (
	"math"
	"strings"
)

// Trait categories produced by the lexical extractor.
const (
	TraitStress       = "stress"
	TraitSatisfaction = "satisfaction"
	TraitMotivation   = "motivation"
	TraitEngagement   = "engagement"
	TraitGrowth       = "growth"
)

// Defaults applied to optional employee fields.
const (
	DefaultEmployeeID       = "unknown"
	DefaultEmployeeName     = "Anonymous"
	DefaultPerformanceScore = 50.0
	DefaultRating           = 3.0
)

// EmployeeAttributes describes the employee a feedback text belongs to.
// Pointer fields are optional; WithDefaults resolves them explicitly.
type EmployeeAttributes struct {
	ID               string   `json:"employee_id,omitempty" mapstructure:"employee_id"`
	Name             string   `json:"name,omitempty" mapstructure:"name"`
	Department       string   `json:"department,omitempty" mapstructure:"department"`
	Position         string   `json:"position,omitempty" mapstructure:"position"`
	TenureYears      float64  `json:"tenure_years" mapstructure:"tenure_years" validate:"gte=0"`
	PerformanceScore *float64 `json:"performance_score,omitempty" mapstructure:"performance_score" validate:"omitempty,gte=0,lte=100"`
	Rating           *float64 `json:"rating,omitempty" mapstructure:"rating" validate:"omitempty,gte=0,lte=5"`
}

// WithDefaults returns a copy with every optional field resolved.
func (a EmployeeAttributes) WithDefaults() EmployeeAttributes {
	if strings.TrimSpace(a.ID) == "" {
		a.ID = DefaultEmployeeID
	}
	if strings.TrimSpace(a.Name) == "" {
		a.Name = DefaultEmployeeName
	}
	if a.PerformanceScore == nil {
		v := DefaultPerformanceScore
		a.PerformanceScore = &v
	}
	if a.Rating == nil {
		v := DefaultRating
		a.Rating = &v
	}
	return a
}

// Performance returns the performance score, or the default when unset.
func (a EmployeeAttributes) Performance() float64 {
	if a.PerformanceScore == nil {
		return DefaultPerformanceScore
	}
	return *a.PerformanceScore
}

// RatingValue returns the rating, or the default when unset.
func (a EmployeeAttributes) RatingValue() float64 {
	if a.Rating == nil {
		return DefaultRating
	}
	return *a.Rating
}

// TraitScore is a lexical score for one trait category.
type TraitScore struct {
	Trait string  `json:"trait"`
	Score float64 `json:"score"`
}

// TraitScores is an ordered list of lexical trait scores.
type TraitScores []TraitScore

// Get returns the score for trait, or 0 when absent.
func (t TraitScores) Get(trait string) float64 {
	for _, s := range t {
		if s.Trait == trait {
			return s.Score
		}
	}
	return 0
}

// PsychologicalScoreSet is the set of bounded trait scores for one employee.
type PsychologicalScoreSet struct {
	Stress            float64 `json:"stress_level"`
	Satisfaction      float64 `json:"satisfaction_level"`
	Motivation        float64 `json:"motivation_score"`
	Engagement        float64 `json:"engagement_level"`
	TeamCompatibility float64 `json:"team_compatibility"`
}

// NewPsychologicalScoreSet clamps every field into [0,100].
func NewPsychologicalScoreSet(stress, satisfaction, motivation, engagement, team float64) PsychologicalScoreSet {
	return PsychologicalScoreSet{
		Stress:            Clamp(stress, 0, 100),
		Satisfaction:      Clamp(satisfaction, 0, 100),
		Motivation:        Clamp(motivation, 0, 100),
		Engagement:        Clamp(engagement, 0, 100),
		TeamCompatibility: Clamp(team, 0, 100),
	}
}

// ScoringMode tells how the trait scores were obtained.
type ScoringMode string

const (
	ScoringModeEmbedding ScoringMode = "embedding"
	ScoringModeLexical   ScoringMode = "lexical"
)

// NarrativeSource tells whether qualitative content came from the augmenter or the built-in fallback.
type NarrativeSource string

const (
	SourceGenerated NarrativeSource = "generated"
	SourceFallback  NarrativeSource = "fallback"
)

// BigFive personality estimate, each in [0,100].
type BigFive struct {
	Openness          float64 `json:"openness" mapstructure:"openness"`
	Conscientiousness float64 `json:"conscientiousness" mapstructure:"conscientiousness"`
	Extraversion      float64 `json:"extraversion" mapstructure:"extraversion"`
	Agreeableness     float64 `json:"agreeableness" mapstructure:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism" mapstructure:"neuroticism"`
}

// NarrativeProfile is the qualitative profile attached to a psychological analysis.
type NarrativeProfile struct {
	BigFive             BigFive         `json:"big_five" mapstructure:"big_five"`
	CommunicationStyle  string          `json:"communication_style" mapstructure:"communication_style"`
	WorkPreferences     string          `json:"work_preferences" mapstructure:"work_preferences"`
	StressResponse      string          `json:"stress_response" mapstructure:"stress_response"`
	LeadershipPotential float64         `json:"leadership_potential" mapstructure:"leadership_potential"`
	TeamCompatibility   float64         `json:"team_compatibility" mapstructure:"team_compatibility"`
	Source              NarrativeSource `json:"source" mapstructure:"-"`
}

// FallbackNarrativeProfile is used whenever the augmenter is unavailable.
func FallbackNarrativeProfile() *NarrativeProfile {
	return &NarrativeProfile{
		BigFive: BigFive{
			Openness:          50,
			Conscientiousness: 50,
			Extraversion:      50,
			Agreeableness:     50,
			Neuroticism:       50,
		},
		CommunicationStyle:  "balanced",
		WorkPreferences:     "standard",
		StressResponse:      "moderate",
		LeadershipPotential: 50,
		TeamCompatibility:   50,
		Source:              SourceFallback,
	}
}

// Trajectory is the expected direction of performance.
type Trajectory string

const (
	TrajectoryAscending Trajectory = "ascending"
	TrajectoryStable    Trajectory = "stable"
	TrajectoryDeclining Trajectory = "declining"
)

// PerformancePredictions summarizes forward-looking profile fields.
type PerformancePredictions struct {
	Trajectory          Trajectory `json:"trajectory"`
	GrowthPotential     float64    `json:"growth_potential"`
	LeadershipReadiness float64    `json:"leadership_readiness"`
}

// EngagementMetrics lists engagement level plus lexical strengths and gaps.
type EngagementMetrics struct {
	Level            float64  `json:"level"`
	ImprovementAreas []string `json:"improvement_areas"`
	Strengths        []string `json:"strengths"`
}

// PsychProfile is the output of a psychological analysis.
type PsychProfile struct {
	Scores      PsychologicalScoreSet  `json:"psychological_traits"`
	Lexical     TraitScores            `json:"lexical_traits"`
	Narrative   *NarrativeProfile      `json:"narrative_profile"`
	Predictions PerformancePredictions `json:"performance_predictions"`
	Engagement  EngagementMetrics      `json:"engagement_metrics"`
	Mode        ScoringMode            `json:"scoring_mode"`
}

// RiskLevel buckets the 3-month attrition risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
	// RiskError marks a batch slot whose record failed.
	RiskError RiskLevel = "ERROR"
)

// HorizonRisk is the attrition risk percent for one horizon.
type HorizonRisk struct {
	Months  int     `json:"months"`
	Percent float64 `json:"percent"`
}

// TemporalRiskSet is the attrition forecast for one employee.
type TemporalRiskSet struct {
	Horizons          []HorizonRisk `json:"horizons"`
	RiskLevel         RiskLevel     `json:"overall_risk_level"`
	RiskFactors       []string      `json:"risk_factors"`
	ProtectiveFactors []string      `json:"protective_factors"`
}

// Risk returns the percent for the given horizon and whether it was forecast.
func (t TemporalRiskSet) Risk(months int) (float64, bool) {
	for _, h := range t.Horizons {
		if h.Months == months {
			return h.Percent, true
		}
	}
	return 0, false
}

// CostEstimate is the projected intervention spend.
type CostEstimate struct {
	PerIntervention float64 `json:"per_intervention"`
	Total           float64 `json:"total_cost"`
	Min             float64 `json:"min_cost"`
	Max             float64 `json:"max_cost"`
	Range           string  `json:"cost_range"`
}

// ROIProjection compares intervention cost with replacement cost.
type ROIProjection struct {
	InterventionCost     float64 `json:"intervention_cost"`
	PotentialSavings     float64 `json:"potential_savings"`
	ROIPercent           float64 `json:"roi_percentage"`
	BreakEvenProbability float64 `json:"break_even_probability"`
}

// InterventionPlan is the recommended set of retention actions.
type InterventionPlan struct {
	Strategies          []string        `json:"strategies"`
	RuleStrategies      []string        `json:"rule_strategies"`
	NarrativeStrategies []string        `json:"narrative_strategies"`
	NarrativeSource     NarrativeSource `json:"narrative_source,omitempty"`
	SuccessProbability  float64         `json:"success_probability"`
	MeetsThreshold      bool            `json:"meets_threshold"`
	PriorityAreas       []string        `json:"priority_areas"`
	Timeline            string          `json:"timeline"`
	Cost                CostEstimate    `json:"cost_estimate"`
	ROI                 ROIProjection   `json:"roi_projection"`
}

// Clamp bounds v into [lo,hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
