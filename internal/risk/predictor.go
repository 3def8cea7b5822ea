// Package risk forecasts attrition risk per time horizon.
package risk

import (
	"math"
	"slices"

	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/neural"
)

// FeatureCount is the length of the employee feature vector.
const FeatureCount = 10

const (
	levelHorizon       = 3
	maxHorizon         = 60
	defaultHidden      = 32
	defaultSeed        = 42
	noRiskFactors      = "No significant risk factors identified"
	baselineProtective = "Baseline stability factors"
)

// DefaultHorizons are forecast when the caller asks for none.
var DefaultHorizons = []int{1, 3, 6, 12}

// Scorer maps a feature vector and a horizon to a risk percent.
type Scorer interface {
	Score(features []float64, months int) (float64, error)
}

// DenseScorer conditions a seeded network on the horizon by appending months/12 to the features.
type DenseScorer struct {
	net *neural.Network
}

// NewDenseScorer builds the risk network once.
func NewDenseScorer(seed int64, hidden int) (*DenseScorer, error) {
	if hidden <= 0 {
		hidden = defaultHidden
	}
	net, err := neural.New(seed, []int{FeatureCount + 1, hidden, 1}, neural.ReLU, neural.Sigmoid)
	if err != nil {
		return nil, err
	}
	return &DenseScorer{net: net}, nil
}

func (s *DenseScorer) Score(features []float64, months int) (float64, error) {
	if err := neural.CheckVector(features, FeatureCount); err != nil {
		return 0, err
	}

	in := make([]float64, 0, FeatureCount+1)
	in = append(in, features...)
	in = append(in, float64(months)/12)

	out, err := s.net.Forward(in)
	if err != nil {
		return 0, err
	}
	return out[0] * 100, nil
}

// Option customizes a Predictor.
type Option func(*Predictor)

// WithScorer replaces the default dense scorer.
func WithScorer(s Scorer) Option {
	return func(p *Predictor) {
		if s != nil {
			p.scorer = s
		}
	}
}

// WithCatalog sets the catalog used for the high-demand department indicator.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *Predictor) {
		if c != nil {
			p.catalog = c
		}
	}
}

// Predictor is immutable after construction.
type Predictor struct {
	scorer  Scorer
	catalog *catalog.Catalog
}

// NewPredictor builds a Predictor with the seeded dense scorer unless one is supplied.
func NewPredictor(opts ...Option) (*Predictor, error) {
	p := &Predictor{}
	for _, opt := range opts {
		opt(p)
	}
	if p.catalog == nil {
		p.catalog = catalog.Default()
	}
	if p.scorer == nil {
		s, err := NewDenseScorer(defaultSeed, defaultHidden)
		if err != nil {
			return nil, err
		}
		p.scorer = s
	}
	return p, nil
}

// Input is everything a forecast depends on.
type Input struct {
	Scores         domain.PsychologicalScoreSet
	Employee       domain.EmployeeAttributes
	FeedbackLength int
}

// Predict forecasts risk for every requested horizon. The level always
// comes from the 3-month value, which is computed even when not requested.
func (p *Predictor) Predict(in Input, horizons []int) (*domain.TemporalRiskSet, error) {
	if err := domain.Validate("risk.predict", in.Employee); err != nil {
		return nil, err
	}

	horizons, err := NormalizeHorizons(horizons)
	if err != nil {
		return nil, err
	}

	emp := in.Employee.WithDefaults()
	features := Features(in.Scores, emp, in.FeedbackLength, p.catalog.IsHighDemandDepartment(emp.Department))

	set := &domain.TemporalRiskSet{Horizons: make([]domain.HorizonRisk, 0, len(horizons))}
	for _, months := range horizons {
		v, err := p.scorer.Score(features, months)
		if err != nil {
			return nil, err
		}
		set.Horizons = append(set.Horizons, domain.HorizonRisk{Months: months, Percent: domain.Clamp(v, 0, 100)})
	}

	levelRisk, ok := set.Risk(levelHorizon)
	if !ok {
		v, err := p.scorer.Score(features, levelHorizon)
		if err != nil {
			return nil, err
		}
		levelRisk = domain.Clamp(v, 0, 100)
	}

	set.RiskLevel = Level(levelRisk)
	set.RiskFactors = RiskFactors(in.Scores, emp)
	set.ProtectiveFactors = ProtectiveFactors(in.Scores, emp)

	return set, nil
}

// Features builds the 10-element vector fed to the scorer.
func Features(s domain.PsychologicalScoreSet, emp domain.EmployeeAttributes, feedbackLength int, highDemand bool) []float64 {
	demand := 0.0
	if highDemand {
		demand = 1
	}
	return []float64{
		s.Stress / 100,
		s.Satisfaction / 100,
		s.Motivation / 100,
		s.Engagement / 100,
		math.Min(emp.TenureYears/10, 1),
		emp.Performance() / 100,
		emp.RatingValue() / 5,
		math.Min(float64(feedbackLength)/1000, 1),
		demand,
		s.TeamCompatibility / 100,
	}
}

// NormalizeHorizons applies the default, validates the range and returns
// a sorted copy without duplicates.
func NormalizeHorizons(horizons []int) ([]int, error) {
	if len(horizons) == 0 {
		return slices.Clone(DefaultHorizons), nil
	}

	out := slices.Clone(horizons)
	for _, h := range out {
		if h < 1 || h > maxHorizon {
			return nil, domain.Errorf(domain.KindInvalidInput, "risk.horizons", "horizon %d is outside the supported 1..%d months (forecast policy limit)", h, maxHorizon)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Level buckets a 3-month risk percent.
func Level(risk float64) domain.RiskLevel {
	switch {
	case risk > 75:
		return domain.RiskCritical
	case risk > 50:
		return domain.RiskHigh
	case risk > 25:
		return domain.RiskModerate
	default:
		return domain.RiskLow
	}
}

// RiskFactors never returns an empty list.
func RiskFactors(s domain.PsychologicalScoreSet, emp domain.EmployeeAttributes) []string {
	var factors []string
	if s.Stress > 70 {
		factors = append(factors, "High stress levels")
	}
	if s.Satisfaction < 40 {
		factors = append(factors, "Low job satisfaction")
	}
	if emp.Performance() < 60 {
		factors = append(factors, "Below-average performance")
	}
	if emp.TenureYears < 1 {
		factors = append(factors, "New employee adjustment period")
	}
	if len(factors) == 0 {
		return []string{noRiskFactors}
	}
	return factors
}

// ProtectiveFactors never returns an empty list.
func ProtectiveFactors(s domain.PsychologicalScoreSet, emp domain.EmployeeAttributes) []string {
	var factors []string
	if s.Engagement > 70 {
		factors = append(factors, "High engagement levels")
	}
	if emp.Performance() > 80 {
		factors = append(factors, "Excellent performance record")
	}
	if emp.TenureYears > 3 {
		factors = append(factors, "Strong organizational commitment")
	}
	if s.Satisfaction > 70 {
		factors = append(factors, "High job satisfaction")
	}
	if len(factors) == 0 {
		return []string{baselineProtective}
	}
	return factors
}
