// Package candidate scores resumes: feature extraction, competitive market
// analysis and the final hiring recommendation.
package candidate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
)

const (
	maxAchievements      = 5
	minAchievementLength = 20
)

var experiencePattern = regexp.MustCompile(`(\d{1,2})\s*(?:years?|yrs?)`)

// Extractor pulls skills, experience and achievements out of resume text.
type Extractor struct {
	catalog *catalog.Catalog
}

func NewExtractor(cat *catalog.Catalog) *Extractor {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Extractor{catalog: cat}
}

// Extract never fails; missing signals fall back to attrs.
func (e *Extractor) Extract(text string, attrs domain.CandidateAttributes) domain.CandidateProfile {
	lower := strings.ToLower(text)

	return domain.CandidateProfile{
		Skills:          e.Skills(lower),
		ExperienceYears: Experience(lower, attrs.ExperienceYears),
		Education:       strings.TrimSpace(attrs.Education),
		Achievements:    e.Achievements(text),
	}
}

// Skills matches the vocabulary as case-insensitive substrings, in vocabulary order.
func (e *Extractor) Skills(text string) []string {
	lower := strings.ToLower(text)
	skills := []string{}
	for _, skill := range e.catalog.Skills() {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// Experience returns the largest "<N> years" mention, or fallback when none is found.
func Experience(text string, fallback int) int {
	matches := experiencePattern.FindAllStringSubmatch(strings.ToLower(text), -1)
	if len(matches) == 0 {
		return max(fallback, 0)
	}

	best := 0
	for _, m := range matches {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}
	return best
}

// Achievements keeps up to five sentences that mention an achievement verb.
func (e *Extractor) Achievements(text string) []string {
	verbs := e.catalog.AchievementVerbs()
	achievements := []string{}

	for _, sentence := range strings.Split(text, ".") {
		lower := strings.ToLower(sentence)
		trimmed := strings.TrimSpace(sentence)
		if utf8.RuneCountInString(trimmed) <= minAchievementLength || !containsAny(lower, verbs) {
			continue
		}
		achievements = append(achievements, trimmed)
		if len(achievements) == maxAchievements {
			break
		}
	}
	return achievements
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
