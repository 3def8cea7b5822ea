// Package ai defines the contracts of the external text collaborators:
// the embedding provider and the generative narrative augmenter.
package ai

import (
	"context"

	"github.com/spigell/hr-signals/internal/domain"
)

// Embedder turns text into a fixed-length numeric vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Narrator produces optional qualitative content. Every method may fail;
// callers substitute their documented fallback.
type Narrator interface {
	Profile(ctx context.Context, req ProfileRequest) (*domain.NarrativeProfile, error)
	Interventions(ctx context.Context, req InterventionRequest) ([]string, error)
	CandidateAssessment(ctx context.Context, req CandidateRequest) (*domain.CandidateAssessment, error)
}

// ProfileRequest is the context for a narrative psychological profile.
type ProfileRequest struct {
	Feedback string
	Employee domain.EmployeeAttributes
	Scores   domain.PsychologicalScoreSet
	Lexical  domain.TraitScores
}

// InterventionRequest is the context for narrative intervention strategies.
type InterventionRequest struct {
	Employee domain.EmployeeAttributes
	Scores   domain.PsychologicalScoreSet
}

// CandidateRequest is the context for a narrative candidate assessment.
type CandidateRequest struct {
	Resume  string
	Profile domain.CandidateProfile
}
