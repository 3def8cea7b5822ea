package ai

import (
	"context"

	"github.com/spigell/hr-signals/internal/domain"
)

// Disabled is the narrator used when augmentation is turned off.
// It always fails so that callers take their fallback branch.
type Disabled struct {
	Reason string
}

func (d Disabled) err(op string) error {
	reason := d.Reason
	if reason == "" {
		reason = "narrative augmentation is disabled"
	}
	return domain.Errorf(domain.KindNarrativeUnavailable, op, "%s", reason)
}

func (d Disabled) Profile(context.Context, ProfileRequest) (*domain.NarrativeProfile, error) {
	return nil, d.err("narrative.profile")
}

func (d Disabled) Interventions(context.Context, InterventionRequest) ([]string, error) {
	return nil, d.err("narrative.interventions")
}

func (d Disabled) CandidateAssessment(context.Context, CandidateRequest) (*domain.CandidateAssessment, error) {
	return nil, d.err("narrative.candidate")
}

func (d Disabled) Status() Status {
	reason := d.Reason
	if reason == "" {
		reason = "narrative augmentation is disabled"
	}
	return Status{Name: "narrative", Enabled: false, Reason: reason}
}
