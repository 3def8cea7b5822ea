package ai

// Status is runtime information about a collaborator.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// StatusProvider is implemented by collaborators that can describe themselves.
type StatusProvider interface {
	Status() Status
}

// StatusOf asks v for its status. Collaborators that cannot describe
// themselves are reported as enabled; a nil collaborator as disabled.
func StatusOf(name string, v any) Status {
	if v == nil {
		return Status{Name: name, Reason: "not configured"}
	}
	sp, ok := v.(StatusProvider)
	if !ok {
		return Status{Name: name, Enabled: true}
	}
	st := sp.Status()
	st.Name = name
	return st
}
