package neural

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/spigell/hr-signals/internal/domain"
)

func TestNetworkDeterministic(t *testing.T) {
	a, err := New(42, []int{8, 4, 2}, ReLU, Sigmoid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := New(42, []int{8, 4, 2}, ReLU, Sigmoid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := []float64{0.1, -0.2, 0.3, 0, 1, 0.5, -1, 0.25}

	outA, err := a.Forward(x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outB, _ := b.Forward(x)

	if !reflect.DeepEqual(outA, outB) {
		t.Fatalf("same seed produced different outputs: %v vs %v", outA, outB)
	}
	if len(outA) != 2 || a.Out() != 2 || a.In() != 8 {
		t.Fatalf("unexpected shape: in=%d out=%d len=%d", a.In(), a.Out(), len(outA))
	}
	for _, v := range outA {
		if v <= 0 || v >= 1 {
			t.Fatalf("sigmoid output out of range: %v", v)
		}
	}

	c, _ := New(7, []int{8, 4, 2}, ReLU, Sigmoid)
	outC, _ := c.Forward(x)
	if reflect.DeepEqual(outA, outC) {
		t.Fatalf("different seeds produced identical outputs")
	}
}

func TestNetworkRejectsInvalidVectors(t *testing.T) {
	n, err := New(1, []int{3, 2, 1}, ReLU, Sigmoid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string][]float64{
		"too short": {1, 2},
		"too long":  {1, 2, 3, 4},
		"nan":       {1, math.NaN(), 3},
		"inf":       {1, 2, math.Inf(-1)},
		"nil":       nil,
	}

	for name, x := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := n.Forward(x); !errors.Is(err, domain.ErrInvalidFeatureVector) {
				t.Fatalf("expected ErrInvalidFeatureVector, got %v", err)
			}
		})
	}
}

func TestNewRejectsBadSizes(t *testing.T) {
	for _, sizes := range [][]int{nil, {4}, {4, 0, 1}, {-1, 2}} {
		if _, err := New(1, sizes, ReLU, Sigmoid); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("sizes %v: expected ErrInvalidInput, got %v", sizes, err)
		}
	}
}

func TestActivations(t *testing.T) {
	if ReLU(-3) != 0 || ReLU(2.5) != 2.5 {
		t.Fatalf("unexpected relu values")
	}
	if Sigmoid(0) != 0.5 {
		t.Fatalf("expected sigmoid(0)=0.5, got %v", Sigmoid(0))
	}
}
