package domain

// CandidateAttributes is caller-supplied data about a candidate.
type CandidateAttributes struct {
	ID              string `json:"candidate_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Education       string `json:"education,omitempty"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0"`
}

// CandidateProfile holds features extracted from resume text.
type CandidateProfile struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Education       string   `json:"education"`
	Achievements    []string `json:"achievements"`
}

// Urgency is the hiring urgency ladder.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyModerate Urgency = "MODERATE"
	UrgencyStandard Urgency = "STANDARD"
)

// Advantage is the competitive advantage ladder.
type Advantage string

const (
	AdvantageTopTier  Advantage = "TOP_TIER"
	AdvantageHigh     Advantage = "HIGH"
	AdvantageModerate Advantage = "MODERATE"
	AdvantageAdvanced Advantage = "ADVANCED"
	AdvantageStandard Advantage = "STANDARD"
)

// SalaryRecommendation is the recommended salary band.
type SalaryRecommendation struct {
	Level           string  `json:"level"`
	Min             int     `json:"min"`
	Max             int     `json:"max"`
	Range           string  `json:"recommended_range"`
	Multiplier      float64 `json:"market_multiplier"`
	Competitiveness string  `json:"competitiveness"`
}

// CompetitiveAnalysis describes a candidate's market position.
type CompetitiveAnalysis struct {
	MarketValueIndex  float64              `json:"market_value_index"`
	ScarcityScore     float64              `json:"scarcity_score"`
	Urgency           Urgency              `json:"hiring_urgency"`
	Advantage         Advantage            `json:"competitive_advantage"`
	MarketPositioning string               `json:"market_positioning"`
	Salary            SalaryRecommendation `json:"salary_recommendation"`
}

// CandidateScoreSet is the weighted candidate score.
type CandidateScoreSet struct {
	SkillsScore      float64 `json:"skills_score"`
	ExperienceScore  float64 `json:"experience_score"`
	MarketValueScore float64 `json:"market_value_score"`
	ScarcityScore    float64 `json:"scarcity_score"`
	Composite        float64 `json:"final_score"`
	Percentile       string  `json:"percentile_ranking"`
}

// CandidateAssessment is the qualitative assessment of a candidate.
type CandidateAssessment struct {
	TechnicalCompetency   float64         `json:"technical_competency" mapstructure:"technical_competency"`
	CulturalFit           float64         `json:"cultural_fit" mapstructure:"cultural_fit"`
	GrowthTrajectory      string          `json:"growth_trajectory" mapstructure:"growth_trajectory"`
	LeadershipPotential   float64         `json:"leadership_potential" mapstructure:"leadership_potential"`
	InnovationCapability  float64         `json:"innovation_capability" mapstructure:"innovation_capability"`
	TeamCollaboration     float64         `json:"team_collaboration" mapstructure:"team_collaboration"`
	OverallRecommendation string          `json:"overall_recommendation" mapstructure:"overall_recommendation"`
	Source                NarrativeSource `json:"source" mapstructure:"-"`
}

// FallbackCandidateAssessment is used whenever the augmenter is unavailable.
func FallbackCandidateAssessment() *CandidateAssessment {
	return &CandidateAssessment{
		TechnicalCompetency:   75,
		CulturalFit:           70,
		GrowthTrajectory:      "positive",
		LeadershipPotential:   65,
		InnovationCapability:  70,
		TeamCollaboration:     75,
		OverallRecommendation: "consider",
		Source:                SourceFallback,
	}
}

// Decision is the hiring decision.
type Decision string

const (
	DecisionImmediateHire Decision = "IMMEDIATE HIRE"
	DecisionStrongHire    Decision = "STRONG HIRE"
	DecisionHire          Decision = "HIRE"
	DecisionConsider      Decision = "CONSIDER"
	DecisionPass          Decision = "PASS"
)

// HiringRecommendation is the final recommendation for a candidate.
type HiringRecommendation struct {
	Decision            Decision  `json:"decision"`
	Confidence          float64   `json:"confidence"`
	Urgency             Urgency   `json:"urgency_level"`
	Advantage           Advantage `json:"competitive_advantage"`
	NextSteps           []string  `json:"next_steps"`
	InterviewFocusAreas []string  `json:"interview_focus_areas"`
}
