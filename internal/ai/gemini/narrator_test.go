package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/domain"
)

type stubGenerator struct {
	response   string
	err        error
	lastSystem string
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func perf(v float64) *float64 { return &v }

func TestNarratorProfile(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"Big Five\": {\"Openness\": \"80\", \"neuroticism\": 130}, \"communication-style\": \"direct\", \"leadership_potential\": \"72%\"}\n```"}
	narrator := NewNarrator(stub, zap.NewNop(), 0)

	profile, err := narrator.Profile(context.Background(), ai.ProfileRequest{
		Feedback: "I love mentoring the new hires.",
		Employee: domain.EmployeeAttributes{Name: "Dana", Department: "Engineering", TenureYears: 2, PerformanceScore: perf(88)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Source != domain.SourceGenerated {
		t.Fatalf("expected generated source, got %s", profile.Source)
	}
	if profile.BigFive.Openness != 80 {
		t.Fatalf("expected openness 80, got %v", profile.BigFive.Openness)
	}
	if profile.BigFive.Neuroticism != 100 {
		t.Fatalf("expected neuroticism clamped to 100, got %v", profile.BigFive.Neuroticism)
	}
	if profile.BigFive.Agreeableness != 50 {
		t.Fatalf("expected missing field to keep default, got %v", profile.BigFive.Agreeableness)
	}
	if profile.CommunicationStyle != "direct" {
		t.Fatalf("unexpected communication style: %q", profile.CommunicationStyle)
	}
	if profile.LeadershipPotential != 72 {
		t.Fatalf("expected leadership 72, got %v", profile.LeadershipPotential)
	}

	for _, want := range []string{"Name: Dana", "Department: Engineering", "Position: Unknown", "Performance score: 88.0/100", "I love mentoring the new hires."} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, stub.lastPrompt)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("unreplaced placeholder in prompt:\n%s", stub.lastPrompt)
	}
	if stub.lastSystem == "" {
		t.Fatalf("expected system instruction to be sent")
	}
}

func TestNarratorProfileFailures(t *testing.T) {
	tests := []struct {
		name string
		stub *stubGenerator
	}{
		{name: "generator error", stub: &stubGenerator{err: errors.New("boom")}},
		{name: "not json", stub: &stubGenerator{response: "I cannot help with that."}},
		{name: "no known fields", stub: &stubGenerator{response: `{"mood": "sunny"}`}},
		{name: "wrong types", stub: &stubGenerator{response: `{"big_five": "high"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrator := NewNarrator(tt.stub, zap.NewNop(), 0)

			_, err := narrator.Profile(context.Background(), ai.ProfileRequest{Feedback: "ok"})
			if !errors.Is(err, domain.ErrNarrativeUnavailable) {
				t.Fatalf("expected ErrNarrativeUnavailable, got %v", err)
			}
		})
	}
}

func TestNarratorInterventions(t *testing.T) {
	stub := &stubGenerator{response: "Here are the strategies:\n\n- Offer a quarterly career check-in.\n* Rotate on-call duties.\n1. Fund a conference trip.\n**Pair with a senior mentor**\n- Extra one\n- Extra two\n"}
	narrator := NewNarrator(stub, zap.NewNop(), 0)

	strategies, err := narrator.Interventions(context.Background(), ai.InterventionRequest{
		Scores: domain.NewPsychologicalScoreSet(75, 30, 40, 45, 0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"Offer a quarterly career check-in.",
		"Rotate on-call duties.",
		"Fund a conference trip.",
		"Pair with a senior mentor",
		"Extra one",
	}
	if !reflect.DeepEqual(strategies, want) {
		t.Fatalf("unexpected strategies: %#v", strategies)
	}

	if !strings.Contains(stub.lastPrompt, "Stress level: 75.0") || !strings.Contains(stub.lastPrompt, "Generate 3 ") {
		t.Fatalf("unexpected prompt:\n%s", stub.lastPrompt)
	}
}

func TestNarratorInterventionsEmpty(t *testing.T) {
	narrator := NewNarrator(&stubGenerator{response: "Strategies:\n\n"}, zap.NewNop(), 0)

	if _, err := narrator.Interventions(context.Background(), ai.InterventionRequest{}); !errors.Is(err, domain.ErrNarrativeUnavailable) {
		t.Fatalf("expected ErrNarrativeUnavailable, got %v", err)
	}
}

func TestNarratorCandidateAssessment(t *testing.T) {
	stub := &stubGenerator{response: `Sure! {"technical_competency": 91, "cultural_fit": "64/100", "overall_recommendation": "hire"} Hope this helps.`}
	narrator := NewNarrator(stub, zap.NewNop(), 0)

	resume := strings.Repeat("a", 1500)
	assessment, err := narrator.CandidateAssessment(context.Background(), ai.CandidateRequest{
		Resume:  resume,
		Profile: domain.CandidateProfile{Skills: []string{"Python", "Go"}, ExperienceYears: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.TechnicalCompetency != 91 || assessment.CulturalFit != 64 {
		t.Fatalf("unexpected scores: %+v", assessment)
	}
	if assessment.LeadershipPotential != 65 {
		t.Fatalf("expected default leadership potential, got %v", assessment.LeadershipPotential)
	}
	if assessment.OverallRecommendation != "hire" || assessment.Source != domain.SourceGenerated {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}

	if strings.Contains(stub.lastPrompt, resume) {
		t.Fatalf("expected resume to be truncated in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "Skills: Python, Go") || !strings.Contains(stub.lastPrompt, "Education: Unknown") {
		t.Fatalf("unexpected prompt:\n%s", stub.lastPrompt)
	}
}

func TestNarratorLogsPreviews(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: "- Offer flexible hours"}
	narrator := NewNarrator(stub, zap.New(core), 10)

	if _, err := narrator.Interventions(context.Background(), ai.InterventionRequest{Employee: domain.EmployeeAttributes{ID: "e-7"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := observed.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["employee_id"] != "e-7" {
		t.Fatalf("expected employee id field, got %v", fields["employee_id"])
	}
	if preview, _ := fields["prompt_preview"].(string); len([]rune(preview)) != 13 {
		t.Fatalf("expected truncated preview, got %q", preview)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"prefix {\"a\":{\"b\":2}} suffix", `{"a":{"b":2}}`},
		{"no json here", "no json here"},
	}

	for _, tt := range tests {
		if got := extractJSON(tt.raw); got != tt.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	g := newGenerator(&fakeModels{}, Options{Model: "gemini-test", Dimension: 16, MaxRetries: 2}, zap.NewNop())

	st := g.Status()
	if !st.Enabled || st.Details["model"] != defaultEmbeddingModel || st.Details["dimension"] != "16" || st.Details["max_retries"] != "2" {
		t.Fatalf("unexpected generator status: %+v", st)
	}

	st = NewNarrator(g, nil, 100).Status()
	if !st.Enabled || st.Details["model"] != "gemini-test" || st.Details["max_log_length"] != "100" {
		t.Fatalf("unexpected narrator status: %+v", st)
	}

	var missing *Generator
	if st := missing.Status(); st.Enabled {
		t.Fatalf("nil generator must report disabled: %+v", st)
	}
	if st := NewNarrator(nil, nil, 0).Status(); st.Enabled {
		t.Fatalf("narrator without generator must report disabled: %+v", st)
	}
}
