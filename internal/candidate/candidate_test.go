package candidate

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/catalog"
	"github.com/spigell/hr-signals/internal/domain"
)

const sampleResume = "Senior engineer with 9 years of experience in Python, AWS, Machine Learning and Kubernetes. " +
	"Led a team of 6 engineers to deliver a fraud detection platform. " +
	"Reduced infrastructure costs by 30% through careful optimization. Hobbies: chess."

type stubNarrator struct {
	ai.Disabled
	assessment *domain.CandidateAssessment
	err        error
	wait       bool
}

func (s stubNarrator) CandidateAssessment(ctx context.Context, _ ai.CandidateRequest) (*domain.CandidateAssessment, error) {
	if s.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.assessment, s.err
}

func TestExtract(t *testing.T) {
	e := NewExtractor(catalog.Default())

	profile := e.Extract(sampleResume, domain.CandidateAttributes{Education: " MSc Computer Science ", ExperienceYears: 3})

	wantSkills := []string{"Python", "AWS", "Kubernetes", "Machine Learning"}
	if !reflect.DeepEqual(profile.Skills, wantSkills) {
		t.Fatalf("unexpected skills: %v", profile.Skills)
	}
	if profile.ExperienceYears != 9 {
		t.Fatalf("expected 9 years from resume text, got %d", profile.ExperienceYears)
	}
	if profile.Education != "MSc Computer Science" {
		t.Fatalf("unexpected education: %q", profile.Education)
	}
	wantAchievements := []string{
		"Led a team of 6 engineers to deliver a fraud detection platform",
		"Reduced infrastructure costs by 30% through careful optimization",
	}
	if !reflect.DeepEqual(profile.Achievements, wantAchievements) {
		t.Fatalf("unexpected achievements: %#v", profile.Achievements)
	}
}

func TestExperience(t *testing.T) {
	tests := []struct {
		text     string
		fallback int
		want     int
	}{
		{"3 years at Acme, then 7 yrs at Globex", 0, 7},
		{"1 year internship", 5, 1},
		{"10+ years", 2, 2},
		{"no numbers here", 4, 4},
		{"no numbers here", -1, 0},
		{"12YEARS of Go", 0, 12},
	}
	for _, tt := range tests {
		if got := Experience(tt.text, tt.fallback); got != tt.want {
			t.Fatalf("Experience(%q, %d) = %d, want %d", tt.text, tt.fallback, got, tt.want)
		}
	}
}

func TestAchievementsCap(t *testing.T) {
	e := NewExtractor(nil)

	text := ""
	for i := 0; i < 8; i++ {
		text += "Designed and launched a new internal service. "
	}
	text += "Led it."

	if got := e.Achievements(text); len(got) != 5 {
		t.Fatalf("expected 5 achievements, got %d", len(got))
	}
}

func TestAchievementsCountCharacters(t *testing.T) {
	e := NewExtractor(nil)

	// 19 characters but 32 bytes
	if got := e.Achievements("Led команду из пяти."); len(got) != 0 {
		t.Fatalf("expected short multibyte sentence to be dropped, got %q", got)
	}

	got := e.Achievements("Led команду из восьми.")
	if len(got) != 1 || got[0] != "Led команду из восьми" {
		t.Fatalf("expected 21-character sentence to be kept, got %q", got)
	}
}

func TestMarketAnalyzer(t *testing.T) {
	m := NewMarketAnalyzer(catalog.Default())

	if got := m.MarketValueIndex(nil); got != 50 {
		t.Fatalf("expected 50 for no skills, got %v", got)
	}
	if got := m.MarketValueIndex([]string{"Python", "Cobol"}); math.Abs(got-70) > 1e-9 {
		t.Fatalf("expected 70 with default demand, got %v", got)
	}

	analysis := m.Analyze(domain.CandidateProfile{Skills: []string{"Machine Learning"}, ExperienceYears: 1})
	if analysis.ScarcityScore != 72 {
		t.Fatalf("unexpected scarcity: %v", analysis.ScarcityScore)
	}
	if analysis.Advantage != domain.AdvantageTopTier || analysis.Urgency != domain.UrgencyHigh {
		t.Fatalf("unexpected ladders: %s / %s", analysis.Advantage, analysis.Urgency)
	}
	if analysis.MarketPositioning != "Top-tier talent with a strong competitive edge" {
		t.Fatalf("unexpected positioning: %q", analysis.MarketPositioning)
	}
	if analysis.Salary.Level != "Junior" {
		t.Fatalf("unexpected level: %s", analysis.Salary.Level)
	}
}

func TestScarcityScoreCap(t *testing.T) {
	if got := ScarcityScore(20); got != 95 {
		t.Fatalf("expected cap at 95, got %v", got)
	}
}

func TestLadders(t *testing.T) {
	urgency := []struct {
		value, scarcity float64
		want            domain.Urgency
	}{
		{86, 81, domain.UrgencyCritical},
		{86, 80, domain.UrgencyHigh},
		{75.5, 95, domain.UrgencyHigh},
		{66, 95, domain.UrgencyModerate},
		{65, 95, domain.UrgencyStandard},
	}
	for _, tt := range urgency {
		if got := UrgencyFor(tt.value, tt.scarcity); got != tt.want {
			t.Fatalf("urgency(%v,%v) = %s, want %s", tt.value, tt.scarcity, got, tt.want)
		}
	}

	advantage := []struct {
		value float64
		want  domain.Advantage
	}{
		{91, domain.AdvantageTopTier},
		{90, domain.AdvantageHigh},
		{80, domain.AdvantageModerate},
		{70, domain.AdvantageAdvanced},
		{60, domain.AdvantageStandard},
	}
	for _, tt := range advantage {
		if got := AdvantageFor(tt.value); got != tt.want {
			t.Fatalf("advantage(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestSalary(t *testing.T) {
	m := NewMarketAnalyzer(nil)

	tests := []struct {
		years int
		value float64
		want  domain.SalaryRecommendation
	}{
		{
			years: 0, value: 70,
			want: domain.SalaryRecommendation{Level: "Junior", Min: 65000, Max: 85000, Range: "$65,000 - $85,000", Multiplier: 1, Competitiveness: "Standard"},
		},
		{
			years: 3, value: 100,
			want: domain.SalaryRecommendation{Level: "Mid-Level", Min: 110500, Max: 156000, Range: "$110,500 - $156,000", Multiplier: 1.3, Competitiveness: "High"},
		},
		{
			years: 10, value: 40,
			want: domain.SalaryRecommendation{Level: "Lead", Min: 144000, Max: 180000, Range: "$144,000 - $180,000", Multiplier: 0.9, Competitiveness: "Standard"},
		},
	}
	for _, tt := range tests {
		if got := m.Salary(tt.years, tt.value); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("years=%d value=%v: got %+v, want %+v", tt.years, tt.value, got, tt.want)
		}
	}
}

func TestScoreScenario(t *testing.T) {
	profile := domain.CandidateProfile{Skills: []string{"a", "b", "c", "d", "e"}, ExperienceYears: 6}
	analysis := domain.CompetitiveAnalysis{MarketValueIndex: 88, ScarcityScore: 80}

	scores := Score(profile, analysis)
	if math.Abs(scores.Composite-72.5) > 1e-9 {
		t.Fatalf("expected composite 72.5, got %v", scores.Composite)
	}
	if scores.Percentile != "Top 30%" {
		t.Fatalf("expected Top 30%%, got %s", scores.Percentile)
	}
	if scores.SkillsScore != 40 || scores.ExperienceScore != 90 {
		t.Fatalf("unexpected component scores: %+v", scores)
	}
}

func TestPercentile(t *testing.T) {
	tests := map[float64]string{
		95: "Top 5%", 90: "Top 5%", 85: "Top 15%", 70: "Top 30%", 60: "Top 50%", 59.9: "Below average",
	}
	for score, want := range tests {
		if got := Percentile(score); got != want {
			t.Fatalf("Percentile(%v) = %s, want %s", score, got, want)
		}
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		advantage  domain.Advantage
		urgency    domain.Urgency
		decision   domain.Decision
		confidence float64
	}{
		{domain.AdvantageTopTier, domain.UrgencyCritical, domain.DecisionImmediateHire, 95},
		{domain.AdvantageHigh, domain.UrgencyHigh, domain.DecisionStrongHire, 85},
		{domain.AdvantageModerate, domain.UrgencyCritical, domain.DecisionHire, 75},
		{domain.AdvantageAdvanced, domain.UrgencyModerate, domain.DecisionConsider, 65},
		{domain.AdvantageStandard, domain.UrgencyStandard, domain.DecisionPass, 40},
		// the ladder is evaluated in order; these combinations match no rule
		{domain.AdvantageTopTier, domain.UrgencyHigh, domain.DecisionPass, 40},
		{domain.AdvantageHigh, domain.UrgencyCritical, domain.DecisionPass, 40},
	}
	for _, tt := range tests {
		decision, confidence := Decide(tt.advantage, tt.urgency)
		if decision != tt.decision || confidence != tt.confidence {
			t.Fatalf("Decide(%s,%s) = %s/%v, want %s/%v", tt.advantage, tt.urgency, decision, confidence, tt.decision, tt.confidence)
		}
	}
}

func TestNextStepsReturnsCopies(t *testing.T) {
	steps := NextSteps(domain.DecisionHire)
	steps[0] = "mutated"
	if NextSteps(domain.DecisionHire)[0] == "mutated" {
		t.Fatalf("next steps were mutated through the returned slice")
	}
	if !reflect.DeepEqual(NextSteps(domain.DecisionConsider), NextSteps(domain.DecisionPass)) {
		t.Fatalf("consider and pass should share the pipeline steps")
	}
}

func TestInterviewFocus(t *testing.T) {
	fallback := InterviewFocus(*domain.FallbackCandidateAssessment())
	want := []string{
		"Technical problem-solving abilities",
		"Deep technical knowledge assessment",
		"Cultural alignment and values assessment",
	}
	if !reflect.DeepEqual(fallback, want) {
		t.Fatalf("unexpected fallback focus: %v", fallback)
	}

	strong := InterviewFocus(domain.CandidateAssessment{TechnicalCompetency: 90, CulturalFit: 90, LeadershipPotential: 80, InnovationCapability: 80})
	want = []string{
		"Technical problem-solving abilities",
		"Leadership scenarios and team management",
		"Creative problem-solving and innovation mindset",
	}
	if !reflect.DeepEqual(strong, want) {
		t.Fatalf("unexpected focus: %v", strong)
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(catalog.Default(), nil, nil)

	result, err := a.Analyze(context.Background(), sampleResume, domain.CandidateAttributes{ID: "c-1"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Recommendation.Decision != domain.DecisionStrongHire || result.Recommendation.Confidence != 85 {
		t.Fatalf("unexpected recommendation: %+v", result.Recommendation)
	}
	if result.Competitive.ScarcityScore != 78 || result.Competitive.Salary.Level != "Lead" {
		t.Fatalf("unexpected competitive analysis: %+v", result.Competitive)
	}
	if result.Scores.Percentile != "Top 30%" {
		t.Fatalf("unexpected percentile: %s (%v)", result.Scores.Percentile, result.Scores.Composite)
	}
	if result.Assessment.Source != domain.SourceFallback {
		t.Fatalf("expected fallback assessment, got %s", result.Assessment.Source)
	}
}

func TestAnalyzeAssessmentOutcomes(t *testing.T) {
	generated := &domain.CandidateAssessment{TechnicalCompetency: 95, CulturalFit: 90, Source: domain.SourceGenerated}

	tests := []struct {
		name     string
		narrator stubNarrator
		source   domain.NarrativeSource
		focus    int
	}{
		{name: "generated", narrator: stubNarrator{assessment: generated}, source: domain.SourceGenerated, focus: 1},
		{name: "error", narrator: stubNarrator{err: errors.New("boom")}, source: domain.SourceFallback, focus: 3},
		{name: "timeout", narrator: stubNarrator{wait: true}, source: domain.SourceFallback, focus: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(nil, tt.narrator, nil)

			result, err := a.Analyze(context.Background(), sampleResume, domain.CandidateAttributes{}, Options{
				Timeout:          20 * time.Millisecond,
				IncludeNarrative: true,
			})
			if err != nil {
				t.Fatalf("assessment failures must not surface, got %v", err)
			}
			if result.Assessment.Source != tt.source {
				t.Fatalf("expected %s assessment, got %s", tt.source, result.Assessment.Source)
			}
			if len(result.Recommendation.InterviewFocusAreas) != tt.focus {
				t.Fatalf("unexpected focus areas: %v", result.Recommendation.InterviewFocusAreas)
			}
		})
	}
}

func TestAnalyzeRejectsInvalidAttributes(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil)

	_, err := a.Analyze(context.Background(), sampleResume, domain.CandidateAttributes{ExperienceYears: -2}, Options{})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
