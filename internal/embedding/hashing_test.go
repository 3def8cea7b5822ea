package embedding

import (
	"context"
	"math"
	"reflect"
	"testing"
)

func TestHashingDeterministic(t *testing.T) {
	h := NewHashing(64)

	a, err := h.Embed(context.Background(), "I feel overwhelmed, but motivated.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := h.Embed(context.Background(), "i FEEL overwhelmed but motivated")

	if len(a) != 64 {
		t.Fatalf("expected 64 dims, got %d", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected tokenization to ignore case and punctuation")
	}

	var norm float64
	for _, v := range a {
		norm += v * v
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Fatalf("expected unit norm, got %v", norm)
	}
}

func TestHashingEmptyText(t *testing.T) {
	h := NewHashing(0)

	vec, err := h.Embed(context.Background(), "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != DefaultDimension || h.Dim() != DefaultDimension {
		t.Fatalf("expected default dimension, got %d", len(vec))
	}
	for _, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector")
		}
	}
}

func TestHashingStatus(t *testing.T) {
	st := NewHashing(8).Status()
	if !st.Enabled || st.Details["provider"] != "hashing" || st.Details["dimension"] != "8" {
		t.Fatalf("unexpected status: %+v", st)
	}
}
