package candidate

import (
	"math"

	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/utils"
)

const (
	baseScarcity       = 70.0
	scarcityPerSkill   = 2.0
	maxScarcity        = 95.0
	multiplierBaseline = 70.0
	minMultiplier      = 0.9
	maxMultiplier      = 1.3
	highCompetitive    = 1.1
)

// MarketAnalyzer positions a candidate profile against market demand.
type MarketAnalyzer struct {
	catalog *catalog.Catalog
}

func NewMarketAnalyzer(cat *catalog.Catalog) *MarketAnalyzer {
	if cat == nil {
		cat = catalog.Default()
	}
	return &MarketAnalyzer{catalog: cat}
}

// Analyze derives the market value, scarcity, ladders and salary band.
func (m *MarketAnalyzer) Analyze(profile domain.CandidateProfile) domain.CompetitiveAnalysis {
	value := m.MarketValueIndex(profile.Skills)
	scarcity := ScarcityScore(len(profile.Skills))

	return domain.CompetitiveAnalysis{
		MarketValueIndex:  value,
		ScarcityScore:     scarcity,
		Urgency:           UrgencyFor(value, scarcity),
		Advantage:         AdvantageFor(value),
		MarketPositioning: Positioning(value),
		Salary:            m.Salary(profile.ExperienceYears, value),
	}
}

// MarketValueIndex averages skill demand weights, 0.5 for an empty skill set.
func (m *MarketAnalyzer) MarketValueIndex(skills []string) float64 {
	avg := 0.5
	if len(skills) > 0 {
		var sum float64
		for _, s := range skills {
			sum += m.catalog.SkillDemand(s)
		}
		avg = sum / float64(len(skills))
	}
	return math.Min(avg*100, 100)
}

// ScarcityScore grows with the number of skills up to 95.
func ScarcityScore(skills int) float64 {
	return math.Min(baseScarcity+float64(skills)*scarcityPerSkill, maxScarcity)
}

// UrgencyFor evaluates the urgency ladder top-down.
func UrgencyFor(value, scarcity float64) domain.Urgency {
	switch {
	case value > 85 && scarcity > 80:
		return domain.UrgencyCritical
	case value > 75:
		return domain.UrgencyHigh
	case value > 65:
		return domain.UrgencyModerate
	default:
		return domain.UrgencyStandard
	}
}

// AdvantageFor evaluates the advantage ladder on market value alone.
func AdvantageFor(value float64) domain.Advantage {
	switch {
	case value > 90:
		return domain.AdvantageTopTier
	case value > 80:
		return domain.AdvantageHigh
	case value > 70:
		return domain.AdvantageModerate
	case value > 60:
		return domain.AdvantageAdvanced
	default:
		return domain.AdvantageStandard
	}
}

// Positioning describes the candidate's market position in one sentence.
func Positioning(value float64) string {
	switch {
	case value > 85:
		return "Top-tier talent with a strong competitive edge"
	case value > 75:
		return "High-value candidate with in-demand skills"
	case value > 65:
		return "Solid candidate with marketable capabilities"
	default:
		return "Standard market positioning"
	}
}

// Salary scales the experience band by a market multiplier clamped to [0.9,1.3].
func (m *MarketAnalyzer) Salary(years int, value float64) domain.SalaryRecommendation {
	band := m.catalog.SalaryBandFor(years)

	multiplier := domain.Clamp(1+(value-multiplierBaseline)/100, minMultiplier, maxMultiplier)
	lo := int(float64(band.Min) * multiplier)
	hi := int(float64(band.Max) * multiplier)

	competitiveness := "Standard"
	if multiplier > highCompetitive {
		competitiveness = "High"
	}

	return domain.SalaryRecommendation{
		Level:           band.Level,
		Min:             lo,
		Max:             hi,
		Range:           utils.FormatUSDRange(float64(lo), float64(hi)),
		Multiplier:      math.Round(multiplier*100) / 100,
		Competitiveness: competitiveness,
	}
}
