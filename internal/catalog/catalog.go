// Package catalog holds the process-wide read-only configuration used by the
// analysis components: vocabularies, strategy lists, salary bands and demand weights.
//
// A Catalog is built once at startup and never mutated afterwards. Accessors
// return copies, so it is safe to share between concurrent requests.
package catalog

import (
	"fmt"
	"strings"

	"github.com/spigell/hr-signals/internal/domain"
)

// Strategy categories of the intervention catalog.
const (
	CategoryHighStress       = "high_stress"
	CategoryLowSatisfaction  = "low_satisfaction"
	CategoryPoorEngagement   = "poor_engagement"
	defaultUnknownSkillValue = 0.5
	defaultUnitCost          = 1500
)

// Trait is a lexical trait category with its indicator words.
type Trait struct {
	Name       string
	Indicators []string
}

// SalaryBand is the base salary range of an experience level.
type SalaryBand struct {
	Level    string
	MinYears int
	Min      int
	Max      int
}

// Catalog is the shared configuration.
type Catalog struct {
	traits                []Trait
	strategies            map[string][]string
	fallbackStrategies    []string
	skills                []string
	achievementVerbs      []string
	skillDemand           map[string]float64
	defaultDemand         float64
	salaryBands           []SalaryBand
	highDemandDepartments map[string]struct{}
	unitCost              float64
}

// Option customizes a Catalog under construction.
type Option func(*Catalog)

// WithSkillDemand merges demand weights into the defaults. Non-positive weights are ignored.
func WithSkillDemand(weights map[string]float64, defaultWeight float64) Option {
	return func(c *Catalog) {
		for skill, w := range weights {
			skill = strings.TrimSpace(skill)
			if skill == "" || w <= 0 {
				continue
			}
			c.skillDemand[canonicalSkill(c.skills, skill)] = w
		}
		if defaultWeight > 0 {
			c.defaultDemand = defaultWeight
		}
	}
}

// WithHighDemandDepartments replaces the list of departments treated as high-demand.
func WithHighDemandDepartments(departments []string) Option {
	return func(c *Catalog) {
		if len(departments) == 0 {
			return
		}
		c.highDemandDepartments = make(map[string]struct{}, len(departments))
		for _, d := range departments {
			c.highDemandDepartments[strings.TrimSpace(d)] = struct{}{}
		}
	}
}

// WithUnitCost sets the cost of a single intervention.
func WithUnitCost(cost float64) Option {
	return func(c *Catalog) {
		if cost > 0 {
			c.unitCost = cost
		}
	}
}

// WithStrategies replaces the strategies of one catalog category.
func WithStrategies(category string, strategies []string) Option {
	return func(c *Catalog) {
		if len(strategies) == 0 {
			return
		}
		c.strategies[category] = append([]string(nil), strategies...)
	}
}

// WithExtraSkills appends skills to the recognized vocabulary, keeping order and skipping duplicates.
func WithExtraSkills(skills []string) Option {
	return func(c *Catalog) {
		for _, s := range skills {
			s = strings.TrimSpace(s)
			if s == "" || containsFold(c.skills, s) {
				continue
			}
			c.skills = append(c.skills, s)
		}
	}
}

// New builds a Catalog from the defaults plus options and validates it.
func New(opts ...Option) (*Catalog, error) {
	c := defaults()
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New()
	if err != nil {
		// built-in values are static
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	if len(c.traits) == 0 {
		return domain.Errorf(domain.KindInvalidInput, "catalog", "trait vocabulary is empty")
	}
	for _, cat := range []string{CategoryHighStress, CategoryLowSatisfaction, CategoryPoorEngagement} {
		if len(c.strategies[cat]) == 0 {
			return domain.Errorf(domain.KindInvalidInput, "catalog", "strategy category %q is empty", cat)
		}
	}
	if len(c.fallbackStrategies) == 0 {
		return domain.Errorf(domain.KindInvalidInput, "catalog", "fallback strategies are empty")
	}
	for i, b := range c.salaryBands {
		if b.Min <= 0 || b.Max < b.Min {
			return domain.Errorf(domain.KindInvalidInput, "catalog", "salary band %q has invalid range %d-%d", b.Level, b.Min, b.Max)
		}
		if i > 0 && b.MinYears <= c.salaryBands[i-1].MinYears {
			return domain.Errorf(domain.KindInvalidInput, "catalog", "salary bands must be ordered by experience")
		}
	}
	return nil
}

// Traits returns the trait vocabulary in evaluation order.
func (c *Catalog) Traits() []Trait {
	out := make([]Trait, len(c.traits))
	for i, t := range c.traits {
		out[i] = Trait{Name: t.Name, Indicators: append([]string(nil), t.Indicators...)}
	}
	return out
}

// Strategies returns the strategies of a category, or nil when unknown.
func (c *Catalog) Strategies(category string) []string {
	s, ok := c.strategies[category]
	if !ok {
		return nil
	}
	return append([]string(nil), s...)
}

// FallbackStrategies returns the strategies used when narrative generation fails.
func (c *Catalog) FallbackStrategies() []string {
	return append([]string(nil), c.fallbackStrategies...)
}

// Skills returns the technical skill vocabulary in match order.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.skills...)
}

// AchievementVerbs returns the keywords marking an achievement sentence.
func (c *Catalog) AchievementVerbs() []string {
	return append([]string(nil), c.achievementVerbs...)
}

// SkillDemand returns the demand weight of a skill, defaulting for unknown skills.
func (c *Catalog) SkillDemand(skill string) float64 {
	if w, ok := c.skillDemand[skill]; ok {
		return w
	}
	return c.defaultDemand
}

// SalaryBandFor returns the band matching the experience in years.
func (c *Catalog) SalaryBandFor(years int) SalaryBand {
	band := c.salaryBands[0]
	for _, b := range c.salaryBands {
		if years >= b.MinYears {
			band = b
		}
	}
	return band
}

// IsHighDemandDepartment reports whether department is in the high-demand list.
func (c *Catalog) IsHighDemandDepartment(department string) bool {
	_, ok := c.highDemandDepartments[strings.TrimSpace(department)]
	return ok
}

// UnitCost returns the cost of a single intervention.
func (c *Catalog) UnitCost() float64 {
	return c.unitCost
}

// String summarizes the catalog for debug logs.
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(traits=%d skills=%d demand=%d bands=%d unit_cost=%.0f)",
		len(c.traits), len(c.skills), len(c.skillDemand), len(c.salaryBands), c.unitCost)
}

func canonicalSkill(skills []string, name string) string {
	for _, s := range skills {
		if strings.EqualFold(s, name) {
			return s
		}
	}
	return name
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
