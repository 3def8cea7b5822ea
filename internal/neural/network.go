// Package neural provides small seeded feed-forward networks used as
// placeholder feature scorers. Weights are drawn once at construction and
// never change, so a Network is safe for concurrent Forward calls.
package neural

import (
	"math"
	"math/rand"

	"github.com/spigell/hr-signals/internal/domain"
)

// Activation is an element-wise transfer function.
type Activation func(float64) float64

// ReLU returns max(0, x).
func ReLU(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// Sigmoid squashes x into (0,1).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

type layer struct {
	weights [][]float64
	bias    []float64
	act     Activation
}

// Network is a dense multi-layer perceptron.
type Network struct {
	in     int
	layers []layer
}

// New builds a network with the given layer sizes, including input and output.
// Hidden layers use hidden, the output layer uses out. The same seed always
// yields the same weights.
func New(seed int64, sizes []int, hidden, out Activation) (*Network, error) {
	if len(sizes) < 2 {
		return nil, domain.Errorf(domain.KindInvalidInput, "neural.new", "need at least input and output sizes, got %v", sizes)
	}
	for _, s := range sizes {
		if s <= 0 {
			return nil, domain.Errorf(domain.KindInvalidInput, "neural.new", "layer sizes must be positive, got %v", sizes)
		}
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic weights

	n := &Network{in: sizes[0]}
	for i := 1; i < len(sizes); i++ {
		fanIn, fanOut := sizes[i-1], sizes[i]
		scale := math.Sqrt(2 / float64(fanIn))

		l := layer{
			weights: make([][]float64, fanOut),
			bias:    make([]float64, fanOut),
			act:     hidden,
		}
		if i == len(sizes)-1 {
			l.act = out
		}
		for j := range l.weights {
			row := make([]float64, fanIn)
			for k := range row {
				row[k] = rng.NormFloat64() * scale
			}
			l.weights[j] = row
			l.bias[j] = rng.NormFloat64() * 0.1
		}
		n.layers = append(n.layers, l)
	}

	return n, nil
}

// In returns the expected input length.
func (n *Network) In() int { return n.in }

// Out returns the output length.
func (n *Network) Out() int { return len(n.layers[len(n.layers)-1].bias) }

// Forward evaluates the network. Inputs of the wrong length or containing
// NaN or infinite values fail with ErrInvalidFeatureVector.
func (n *Network) Forward(x []float64) ([]float64, error) {
	if err := CheckVector(x, n.in); err != nil {
		return nil, err
	}

	cur := x
	for _, l := range n.layers {
		next := make([]float64, len(l.bias))
		for j, row := range l.weights {
			sum := l.bias[j]
			for k, w := range row {
				sum += w * cur[k]
			}
			if l.act != nil {
				sum = l.act(sum)
			}
			next[j] = sum
		}
		cur = next
	}

	return cur, nil
}

// CheckVector validates length and finiteness of a feature vector.
func CheckVector(x []float64, dim int) error {
	if len(x) != dim {
		return domain.Errorf(domain.KindInvalidFeatureVector, "neural.forward", "expected %d features, got %d", dim, len(x))
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Errorf(domain.KindInvalidFeatureVector, "neural.forward", "feature %d is not finite", i)
		}
	}
	return nil
}
