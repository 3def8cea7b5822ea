package candidate

import (
	"math"

	"github.com/spigell/hr-signals/internal/domain"
)

var nextSteps = map[domain.Decision][]string{
	domain.DecisionImmediateHire: {
		"Schedule interview within 24 hours",
		"Prepare competitive offer package",
		"Fast-track reference checks",
		"Prepare counter-offer strategy",
	},
	domain.DecisionStrongHire: {
		"Schedule interview within 3 days",
		"Conduct thorough technical assessment",
		"Check references and background",
		"Prepare attractive offer package",
	},
	domain.DecisionHire: {
		"Schedule standard interview process",
		"Conduct comprehensive evaluation",
		"Compare with other candidates",
		"Make informed hiring decision",
	},
}

var pipelineSteps = []string{
	"Continue candidate search",
	"Keep in talent pipeline for future roles",
	"Provide constructive feedback if requested",
}

// Score computes the weighted composite score and its percentile bucket.
func Score(profile domain.CandidateProfile, analysis domain.CompetitiveAnalysis) domain.CandidateScoreSet {
	skills := math.Min(float64(len(profile.Skills))*8, 100)
	experience := math.Min(float64(profile.ExperienceYears)*15, 100)

	composite := 0.3*skills + 0.25*experience + 0.25*analysis.MarketValueIndex + 0.2*analysis.ScarcityScore

	return domain.CandidateScoreSet{
		SkillsScore:      skills,
		ExperienceScore:  experience,
		MarketValueScore: analysis.MarketValueIndex,
		ScarcityScore:    analysis.ScarcityScore,
		Composite:        composite,
		Percentile:       Percentile(composite),
	}
}

// Percentile buckets a composite score.
func Percentile(score float64) string {
	switch {
	case score >= 90:
		return "Top 5%"
	case score >= 80:
		return "Top 15%"
	case score >= 70:
		return "Top 30%"
	case score >= 60:
		return "Top 50%"
	default:
		return "Below average"
	}
}

// Decide applies the decision ladder in order. Only the first matching rule counts.
func Decide(advantage domain.Advantage, urgency domain.Urgency) (domain.Decision, float64) {
	switch {
	case advantage == domain.AdvantageTopTier && urgency == domain.UrgencyCritical:
		return domain.DecisionImmediateHire, 95
	case advantage == domain.AdvantageHigh && urgency == domain.UrgencyHigh:
		return domain.DecisionStrongHire, 85
	case advantage == domain.AdvantageModerate:
		return domain.DecisionHire, 75
	case advantage == domain.AdvantageAdvanced:
		return domain.DecisionConsider, 65
	default:
		return domain.DecisionPass, 40
	}
}

// NextSteps returns the static follow-up list for a decision.
func NextSteps(decision domain.Decision) []string {
	if steps, ok := nextSteps[decision]; ok {
		return append([]string(nil), steps...)
	}
	return append([]string(nil), pipelineSteps...)
}

// InterviewFocus selects interview topics from the qualitative assessment.
func InterviewFocus(a domain.CandidateAssessment) []string {
	focus := []string{"Technical problem-solving abilities"}
	if a.TechnicalCompetency < 80 {
		focus = append(focus, "Deep technical knowledge assessment")
	}
	if a.CulturalFit < 75 {
		focus = append(focus, "Cultural alignment and values assessment")
	}
	if a.LeadershipPotential > 70 {
		focus = append(focus, "Leadership scenarios and team management")
	}
	if a.InnovationCapability > 75 {
		focus = append(focus, "Creative problem-solving and innovation mindset")
	}
	return focus
}

// Recommend builds the hiring recommendation.
func Recommend(analysis domain.CompetitiveAnalysis, assessment domain.CandidateAssessment) domain.HiringRecommendation {
	decision, confidence := Decide(analysis.Advantage, analysis.Urgency)
	return domain.HiringRecommendation{
		Decision:            decision,
		Confidence:          confidence,
		Urgency:             analysis.Urgency,
		Advantage:           analysis.Advantage,
		NextSteps:           NextSteps(decision),
		InterviewFocusAreas: InterviewFocus(assessment),
	}
}
