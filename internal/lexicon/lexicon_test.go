package lexicon

import (
	"reflect"
	"testing"

	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
)

func TestExtractStressOnly(t *testing.T) {
	scores := Extract("Lately I feel OVERWHELMED and honestly burned out.", catalog.Default().Traits())

	if got := scores.Get(domain.TraitStress); got != 40 {
		t.Fatalf("expected stress 40, got %v", got)
	}
	for _, trait := range []string{domain.TraitSatisfaction, domain.TraitMotivation, domain.TraitEngagement, domain.TraitGrowth} {
		if got := scores.Get(trait); got != 0 {
			t.Fatalf("expected %s 0, got %v", trait, got)
		}
	}
}

func TestExtractEmptyText(t *testing.T) {
	scores := Extract("", catalog.Default().Traits())

	if len(scores) != 5 {
		t.Fatalf("expected a score for every trait, got %d", len(scores))
	}
	for _, s := range scores {
		if s.Score != 0 {
			t.Fatalf("expected zero for %s, got %v", s.Trait, s.Score)
		}
	}
}

func TestExtractSaturates(t *testing.T) {
	text := "motivated excited passionate driven inspired motivated"
	scores := Extract(text, catalog.Default().Traits())

	if got := scores.Get(domain.TraitMotivation); got != 100 {
		t.Fatalf("expected motivation capped at 100, got %v", got)
	}
}

func TestScoreBounds(t *testing.T) {
	for c := -1; c <= 10; c++ {
		got := Score(c)
		if got < 0 || got > 100 {
			t.Fatalf("count=%d produced out-of-range score %v", c, got)
		}
		want := float64(min(max(c, 0)*20, 100))
		if got != want {
			t.Fatalf("count=%d: expected %v, got %v", c, want, got)
		}
	}
}

func TestImprovementAreasAndStrengths(t *testing.T) {
	tests := []struct {
		name         string
		scores       domain.TraitScores
		improvements []string
		strengths    []string
	}{
		{
			name: "all zero",
			scores: domain.TraitScores{
				{Trait: domain.TraitStress}, {Trait: domain.TraitMotivation}, {Trait: domain.TraitEngagement}, {Trait: domain.TraitGrowth},
			},
			improvements: []string{"Motivation enhancement", "Engagement initiatives", "Professional development"},
			strengths:    []string{"Stable baseline performance"},
		},
		{
			name: "strong everywhere",
			scores: domain.TraitScores{
				{Trait: domain.TraitStress, Score: 80},
				{Trait: domain.TraitMotivation, Score: 100},
				{Trait: domain.TraitEngagement, Score: 60},
				{Trait: domain.TraitGrowth, Score: 80},
			},
			improvements: []string{"General engagement improvement"},
			strengths:    []string{"Stress", "Motivation", "Growth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImprovementAreas(tt.scores); !reflect.DeepEqual(got, tt.improvements) {
				t.Fatalf("unexpected improvement areas: %v", got)
			}
			if got := Strengths(tt.scores); !reflect.DeepEqual(got, tt.strengths) {
				t.Fatalf("unexpected strengths: %v", got)
			}
		})
	}
}
