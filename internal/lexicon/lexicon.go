// Package lexicon scores trait categories by counting indicator words in free text.
package lexicon

import (
	"strings"

	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
)

const (
	pointsPerIndicator = 20
	maxScore           = 100

	strongThreshold = 70
	weakThreshold   = 50

	sentinelImprovement = "General engagement improvement"
	sentinelStrength    = "Stable baseline performance"
)

// improvement labels for the categories that feed engagement improvement areas
var improvementLabels = []struct {
	trait string
	label string
}{
	{domain.TraitMotivation, "Motivation enhancement"},
	{domain.TraitEngagement, "Engagement initiatives"},
	{domain.TraitGrowth, "Professional development"},
}

// Extract counts, per trait, how many indicator words occur in text
// (case-insensitive substring match) and scores min(count*20, 100).
func Extract(text string, traits []catalog.Trait) domain.TraitScores {
	lower := strings.ToLower(text)
	scores := make(domain.TraitScores, 0, len(traits))

	for _, trait := range traits {
		count := 0
		if lower != "" {
			for _, indicator := range trait.Indicators {
				if strings.Contains(lower, strings.ToLower(indicator)) {
					count++
				}
			}
		}
		scores = append(scores, domain.TraitScore{Trait: trait.Name, Score: Score(count)})
	}

	return scores
}

// Score converts an indicator count into a bounded trait score.
func Score(count int) float64 {
	if count <= 0 {
		return 0
	}
	return float64(min(count*pointsPerIndicator, maxScore))
}

// ImprovementAreas lists the motivation, engagement and growth categories scoring below 50.
func ImprovementAreas(scores domain.TraitScores) []string {
	areas := make([]string, 0, len(improvementLabels))
	for _, l := range improvementLabels {
		if scores.Get(l.trait) < weakThreshold {
			areas = append(areas, l.label)
		}
	}
	if len(areas) == 0 {
		return []string{sentinelImprovement}
	}
	return areas
}

// Strengths lists every category scoring above 70, title-cased.
func Strengths(scores domain.TraitScores) []string {
	strengths := make([]string, 0, len(scores))
	for _, s := range scores {
		if s.Score > strongThreshold {
			strengths = append(strengths, titleCase(s.Trait))
		}
	}
	if len(strengths) == 0 {
		return []string{sentinelStrength}
	}
	return strengths
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
