package risk

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
)

type stubScorer struct {
	byMonths map[int]float64
	err      error
	calls    []int
	features []float64
}

func (s *stubScorer) Score(features []float64, months int) (float64, error) {
	s.calls = append(s.calls, months)
	s.features = features
	if s.err != nil {
		return 0, s.err
	}
	return s.byMonths[months], nil
}

func ptr(v float64) *float64 { return &v }

func newPredictor(t *testing.T, scorer Scorer) *Predictor {
	t.Helper()
	p, err := NewPredictor(WithScorer(scorer), WithCatalog(catalog.Default()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestPredictCriticalAtThreeMonths(t *testing.T) {
	scorer := &stubScorer{byMonths: map[int]float64{1: 60, 3: 80, 6: 140, 12: -5}}
	p := newPredictor(t, scorer)

	set, err := p.Predict(Input{
		Scores:   domain.NewPsychologicalScoreSet(85, 30, 20, 40, 20),
		Employee: domain.EmployeeAttributes{TenureYears: 0.5, PerformanceScore: ptr(55)},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.RiskLevel != domain.RiskCritical {
		t.Fatalf("expected CRITICAL, got %s", set.RiskLevel)
	}

	want := []domain.HorizonRisk{{Months: 1, Percent: 60}, {Months: 3, Percent: 80}, {Months: 6, Percent: 100}, {Months: 12, Percent: 0}}
	if !reflect.DeepEqual(set.Horizons, want) {
		t.Fatalf("unexpected horizons: %+v", set.Horizons)
	}

	wantFactors := []string{"High stress levels", "Low job satisfaction", "Below-average performance", "New employee adjustment period"}
	if !reflect.DeepEqual(set.RiskFactors, wantFactors) {
		t.Fatalf("unexpected risk factors: %v", set.RiskFactors)
	}
	if !reflect.DeepEqual(set.ProtectiveFactors, []string{"Baseline stability factors"}) {
		t.Fatalf("unexpected protective factors: %v", set.ProtectiveFactors)
	}
}

func TestPredictComputesLevelHorizonWhenNotRequested(t *testing.T) {
	scorer := &stubScorer{byMonths: map[int]float64{12: 90, 3: 30}}
	p := newPredictor(t, scorer)

	set, err := p.Predict(Input{Employee: domain.EmployeeAttributes{}}, []int{12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Horizons) != 1 || set.Horizons[0].Months != 12 {
		t.Fatalf("expected only the requested horizon, got %+v", set.Horizons)
	}
	if set.RiskLevel != domain.RiskModerate {
		t.Fatalf("expected level from 3-month value, got %s", set.RiskLevel)
	}
	if !reflect.DeepEqual(scorer.calls, []int{12, 3}) {
		t.Fatalf("unexpected scorer calls: %v", scorer.calls)
	}
}

func TestPredictFeatureVector(t *testing.T) {
	scorer := &stubScorer{byMonths: map[int]float64{}}
	p := newPredictor(t, scorer)

	_, err := p.Predict(Input{
		Scores:         domain.NewPsychologicalScoreSet(50, 40, 30, 20, 10),
		Employee:       domain.EmployeeAttributes{Department: "Engineering", TenureYears: 25, PerformanceScore: ptr(70), Rating: ptr(4)},
		FeedbackLength: 2500,
	}, []int{3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{0.5, 0.4, 0.3, 0.2, 1, 0.7, 0.8, 1, 1, 0.1}
	if !reflect.DeepEqual(scorer.features, want) {
		t.Fatalf("unexpected features: %v", scorer.features)
	}
}

func TestPredictErrors(t *testing.T) {
	t.Run("scorer error", func(t *testing.T) {
		p := newPredictor(t, &stubScorer{err: domain.ErrInvalidFeatureVector})
		if _, err := p.Predict(Input{}, nil); !errors.Is(err, domain.ErrInvalidFeatureVector) {
			t.Fatalf("expected ErrInvalidFeatureVector, got %v", err)
		}
	})

	t.Run("invalid horizon", func(t *testing.T) {
		p := newPredictor(t, &stubScorer{})
		if _, err := p.Predict(Input{}, []int{3, 0}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("invalid attributes", func(t *testing.T) {
		p := newPredictor(t, &stubScorer{})
		if _, err := p.Predict(Input{Employee: domain.EmployeeAttributes{TenureYears: -1}}, nil); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestNormalizeHorizons(t *testing.T) {
	got, err := NormalizeHorizons([]int{12, 3, 12, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 3, 12}) {
		t.Fatalf("unexpected horizons: %v", got)
	}

	def, _ := NormalizeHorizons(nil)
	def[0] = 99
	if DefaultHorizons[0] != 1 {
		t.Fatalf("default horizons were mutated")
	}

	_, err = NormalizeHorizons([]int{61})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "policy limit") {
		t.Fatalf("expected the message to name the policy limit, got %q", err.Error())
	}
	if _, err := NormalizeHorizons([]int{0}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 0, got %v", err)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		risk float64
		want domain.RiskLevel
	}{
		{80, domain.RiskCritical},
		{75.01, domain.RiskCritical},
		{75, domain.RiskHigh},
		{50, domain.RiskModerate},
		{25, domain.RiskLow},
		{0, domain.RiskLow},
	}
	for _, tt := range tests {
		if got := Level(tt.risk); got != tt.want {
			t.Fatalf("risk=%v: expected %s, got %s", tt.risk, tt.want, got)
		}
	}
}

func TestProtectiveFactors(t *testing.T) {
	got := ProtectiveFactors(
		domain.NewPsychologicalScoreSet(0, 75, 0, 90, 0),
		domain.EmployeeAttributes{TenureYears: 5, PerformanceScore: ptr(95)},
	)
	want := []string{"High engagement levels", "Excellent performance record", "Strong organizational commitment", "High job satisfaction"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected protective factors: %v", got)
	}

	none := RiskFactors(domain.NewPsychologicalScoreSet(10, 60, 0, 0, 0), domain.EmployeeAttributes{TenureYears: 2, PerformanceScore: ptr(70)})
	if !reflect.DeepEqual(none, []string{"No significant risk factors identified"}) {
		t.Fatalf("unexpected risk factors: %v", none)
	}
}

func TestDenseScorerDeterministicAndBounded(t *testing.T) {
	a, err := NewDenseScorer(42, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := NewDenseScorer(42, 0)

	features := Features(domain.NewPsychologicalScoreSet(80, 20, 30, 40, 40), domain.EmployeeAttributes{}.WithDefaults(), 300, true)
	for _, months := range DefaultHorizons {
		va, err := a.Score(features, months)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		vb, _ := b.Score(features, months)
		if va != vb {
			t.Fatalf("months=%d: same seed produced %v and %v", months, va, vb)
		}
		if va < 0 || va > 100 {
			t.Fatalf("months=%d: risk out of range: %v", months, va)
		}
	}

	if _, err := a.Score(features[:9], 3); !errors.Is(err, domain.ErrInvalidFeatureVector) {
		t.Fatalf("expected ErrInvalidFeatureVector, got %v", err)
	}
}
