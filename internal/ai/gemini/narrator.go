package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/ai"
	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

const (
	defaultMaxLogLength  = 200
	defaultStrategyCount = 3
	maxStrategies        = 5
	maxResumeRunes       = 1000

	systemInstruction = "You are an organizational psychologist and technical recruiter. " +
		"Follow the requested output format exactly. Use numbers in the 0-100 range for scores."
)

//go:embed prompts/profile.md
var profileTemplate string

//go:embed prompts/interventions.md
var interventionsTemplate string

//go:embed prompts/candidate.md
var candidateTemplate string

var listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// Narrator implements ai.Narrator on top of a Gemini content generator.
type Narrator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Narrator = (*Narrator)(nil)

func NewNarrator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Narrator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Narrator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (n *Narrator) Status() ai.Status {
	if n == nil || n.generator == nil {
		return ai.Status{Name: "narrative", Reason: "generator is not configured"}
	}
	details := map[string]string{
		"provider":       providerName,
		"max_log_length": strconv.Itoa(n.maxLogLen),
	}
	if m, ok := n.generator.(interface{ Model() string }); ok {
		details["model"] = m.Model()
	}
	return ai.Status{Name: "narrative", Enabled: true, Details: details}
}

// Profile asks the model for a Big Five based narrative profile.
func (n *Narrator) Profile(ctx context.Context, req ai.ProfileRequest) (*domain.NarrativeProfile, error) {
	const op = "gemini.profile"

	emp := req.Employee.WithDefaults()
	prompt := fill(profileTemplate, map[string]string{
		"NAME":        emp.Name,
		"DEPARTMENT":  orUnknown(emp.Department),
		"POSITION":    orUnknown(emp.Position),
		"TENURE":      formatNumber(emp.TenureYears),
		"PERFORMANCE": formatNumber(emp.Performance()),
		"SCORES":      formatScores(req.Scores),
		"FEEDBACK":    strings.TrimSpace(req.Feedback),
	})

	raw, err := n.generate(ctx, op, prompt, zap.String("employee_id", emp.ID))
	if err != nil {
		return nil, err
	}

	data, err := parseObject(raw)
	if err != nil {
		return nil, domain.Wrap(err, domain.KindNarrativeUnavailable, op)
	}

	profile := domain.FallbackNarrativeProfile()
	if err := decode(data, profile); err != nil {
		return nil, domain.Wrap(err, domain.KindNarrativeUnavailable, op)
	}

	profile.BigFive = domain.BigFive{
		Openness:          domain.Clamp(profile.BigFive.Openness, 0, 100),
		Conscientiousness: domain.Clamp(profile.BigFive.Conscientiousness, 0, 100),
		Extraversion:      domain.Clamp(profile.BigFive.Extraversion, 0, 100),
		Agreeableness:     domain.Clamp(profile.BigFive.Agreeableness, 0, 100),
		Neuroticism:       domain.Clamp(profile.BigFive.Neuroticism, 0, 100),
	}
	profile.LeadershipPotential = domain.Clamp(profile.LeadershipPotential, 0, 100)
	profile.TeamCompatibility = domain.Clamp(profile.TeamCompatibility, 0, 100)
	profile.Source = domain.SourceGenerated

	return profile, nil
}

// Interventions asks the model for personalized retention strategies, one per line.
func (n *Narrator) Interventions(ctx context.Context, req ai.InterventionRequest) ([]string, error) {
	const op = "gemini.interventions"

	emp := req.Employee.WithDefaults()
	prompt := fill(interventionsTemplate, map[string]string{
		"COUNT":        fmt.Sprint(defaultStrategyCount),
		"STRESS":       formatNumber(req.Scores.Stress),
		"SATISFACTION": formatNumber(req.Scores.Satisfaction),
		"ENGAGEMENT":   formatNumber(req.Scores.Engagement),
		"MOTIVATION":   formatNumber(req.Scores.Motivation),
		"DEPARTMENT":   orUnknown(emp.Department),
		"POSITION":     orUnknown(emp.Position),
		"TENURE":       formatNumber(emp.TenureYears),
		"PERFORMANCE":  formatNumber(emp.Performance()),
	})

	raw, err := n.generate(ctx, op, prompt, zap.String("employee_id", emp.ID))
	if err != nil {
		return nil, err
	}

	strategies := parseStrategies(raw)
	if len(strategies) == 0 {
		return nil, domain.Errorf(domain.KindNarrativeUnavailable, op, "no strategies in response")
	}

	return strategies, nil
}

// CandidateAssessment asks the model for a qualitative candidate assessment.
func (n *Narrator) CandidateAssessment(ctx context.Context, req ai.CandidateRequest) (*domain.CandidateAssessment, error) {
	const op = "gemini.candidate"

	skills := "none"
	if len(req.Profile.Skills) > 0 {
		skills = strings.Join(req.Profile.Skills, ", ")
	}

	prompt := fill(candidateTemplate, map[string]string{
		"RESUME":     utils.TruncateForLog(req.Resume, maxResumeRunes),
		"SKILLS":     skills,
		"EXPERIENCE": fmt.Sprint(req.Profile.ExperienceYears),
		"EDUCATION":  orUnknown(req.Profile.Education),
	})

	raw, err := n.generate(ctx, op, prompt)
	if err != nil {
		return nil, err
	}

	data, err := parseObject(raw)
	if err != nil {
		return nil, domain.Wrap(err, domain.KindNarrativeUnavailable, op)
	}

	assessment := domain.FallbackCandidateAssessment()
	if err := decode(data, assessment); err != nil {
		return nil, domain.Wrap(err, domain.KindNarrativeUnavailable, op)
	}

	assessment.TechnicalCompetency = domain.Clamp(assessment.TechnicalCompetency, 0, 100)
	assessment.CulturalFit = domain.Clamp(assessment.CulturalFit, 0, 100)
	assessment.LeadershipPotential = domain.Clamp(assessment.LeadershipPotential, 0, 100)
	assessment.InnovationCapability = domain.Clamp(assessment.InnovationCapability, 0, 100)
	assessment.TeamCollaboration = domain.Clamp(assessment.TeamCollaboration, 0, 100)
	assessment.Source = domain.SourceGenerated

	return assessment, nil
}

func (n *Narrator) generate(ctx context.Context, op, prompt string, fields ...zap.Field) (string, error) {
	if n == nil || n.generator == nil {
		return "", domain.Errorf(domain.KindNarrativeUnavailable, op, "generator is not configured")
	}

	n.logger.Debug("gemini generate content request", append(fields,
		zap.String("op", op),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.Preview(prompt, n.maxLogLen)),
	)...)

	raw, err := n.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return "", domain.Wrap(err, domain.KindNarrativeUnavailable, op)
	}

	n.logger.Debug("gemini generate content response", append(fields,
		zap.String("op", op),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.Preview(raw, n.maxLogLen)),
	)...)

	return raw, nil
}

// fill substitutes {{KEY}} placeholders in a single pass, so values are never re-expanded.
func fill(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func formatScores(s domain.PsychologicalScoreSet) string {
	return fmt.Sprintf("- Stress: %s\n- Satisfaction: %s\n- Motivation: %s\n- Engagement: %s\n- Team compatibility: %s",
		formatNumber(s.Stress), formatNumber(s.Satisfaction), formatNumber(s.Motivation),
		formatNumber(s.Engagement), formatNumber(s.TeamCompatibility))
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Unknown"
	}
	return s
}

func parseObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("empty response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	return normalizeKeys(data), nil
}

// extractJSON strips markdown fences and any prose around the outermost JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}

// normalizeKeys lowercases keys and maps spaces and dashes to underscores, recursively.
func normalizeKeys(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		k := strings.ToLower(strings.TrimSpace(key))
		k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
		if _, isString := value.(string); !isString {
			if nested, err := cast.ToStringMapE(value); err == nil {
				value = normalizeKeys(nested)
			}
		}
		out[k] = value
	}
	return out
}

// decode weakly decodes data into out. Fields missing from data keep their current value.
func decode(data map[string]any, out any) error {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           out,
		DecodeHook:       scoreHook,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}

	if len(md.Keys) == 0 {
		return errors.New("response has no recognized fields")
	}

	return nil
}

// scoreHook accepts scores written as "75", "75%" or "75/100".
func scoreHook(_, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Float64 {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if idx := strings.Index(s, "/"); idx != -1 {
		s = strings.TrimSpace(s[:idx])
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return data, nil
	}
	return v, nil
}

func parseStrategies(raw string) []string {
	var strategies []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		line = strings.Trim(line, "*")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") {
			continue
		}
		strategies = append(strategies, line)
		if len(strategies) == maxStrategies {
			break
		}
	}
	return strategies
}
