// Package psych turns employee feedback into bounded psychological trait
// scores and the derived profile fields.
package psych

import (
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/neural"
)

const (
	defaultDimension = 384
	defaultHidden    = 64
	defaultSeed      = 42
)

// Traits is the output of a Scorer, each value in [0,100].
type Traits struct {
	Stress       float64
	Satisfaction float64
	Motivation   float64
	Engagement   float64
}

// Scorer maps an embedding vector to trait scores. Implementations must be
// deterministic and safe for concurrent use.
type Scorer interface {
	Dim() int
	Score(vec []float64) (Traits, error)
}

// DenseScorer is an untrained seeded network: dim -> hidden ReLU -> 4 sigmoid heads.
type DenseScorer struct {
	net *neural.Network
}

// ScorerOption customizes a DenseScorer.
type ScorerOption func(*scorerConfig)

type scorerConfig struct {
	dim    int
	hidden int
	seed   int64
}

// WithDimension sets the expected embedding length.
func WithDimension(dim int) ScorerOption {
	return func(c *scorerConfig) {
		if dim > 0 {
			c.dim = dim
		}
	}
}

// WithHidden sets the hidden layer width.
func WithHidden(hidden int) ScorerOption {
	return func(c *scorerConfig) {
		if hidden > 0 {
			c.hidden = hidden
		}
	}
}

// WithSeed sets the weight seed.
func WithSeed(seed int64) ScorerOption {
	return func(c *scorerConfig) {
		c.seed = seed
	}
}

// NewDenseScorer builds the network once. The result is immutable.
func NewDenseScorer(opts ...ScorerOption) (*DenseScorer, error) {
	cfg := scorerConfig{dim: defaultDimension, hidden: defaultHidden, seed: defaultSeed}
	for _, opt := range opts {
		opt(&cfg)
	}

	net, err := neural.New(cfg.seed, []int{cfg.dim, cfg.hidden, 4}, neural.ReLU, neural.Sigmoid)
	if err != nil {
		return nil, err
	}

	return &DenseScorer{net: net}, nil
}

func (s *DenseScorer) Dim() int { return s.net.In() }

// Score fails with ErrInvalidFeatureVector on malformed input.
func (s *DenseScorer) Score(vec []float64) (Traits, error) {
	out, err := s.net.Forward(vec)
	if err != nil {
		return Traits{}, err
	}

	return Traits{
		Stress:       domain.Clamp(out[0]*100, 0, 100),
		Satisfaction: domain.Clamp(out[1]*100, 0, 100),
		Motivation:   domain.Clamp(out[2]*100, 0, 100),
		Engagement:   domain.Clamp(out[3]*100, 0, 100),
	}, nil
}
