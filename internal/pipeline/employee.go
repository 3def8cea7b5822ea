package pipeline

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/domain"
	"github.com/spigell/hr-signals/internal/intervention"
	applog "github.com/spigell/hr-signals/internal/logger"
	"github.com/spigell/hr-signals/internal/psych"
	"github.com/spigell/hr-signals/internal/risk"
)

// EmployeeRequest asks for a full employee analysis.
type EmployeeRequest struct {
	Employee domain.EmployeeAttributes `json:"employee_data"`
	Feedback string                    `json:"feedback_text"`
	// IncludeNarrative overrides the configured default when set.
	IncludeNarrative *bool `json:"include_narrative,omitempty"`
	// Horizons overrides the configured forecast horizons when non-empty.
	Horizons []int `json:"horizons,omitempty"`
}

// PredictiveAnalytics condenses the headline numbers of an employee analysis.
type PredictiveAnalytics struct {
	Attrition3Months               float64           `json:"attrition_probability_3_months"`
	Attrition6Months               float64           `json:"attrition_probability_6_months"`
	Attrition12Months              float64           `json:"attrition_probability_12_months"`
	Trajectory                     domain.Trajectory `json:"performance_trajectory"`
	EngagementLevel                float64           `json:"engagement_level"`
	InterventionSuccessProbability float64           `json:"intervention_success_probability"`
}

// EmployeeAnalysis is the result of AnalyzeEmployee.
type EmployeeAnalysis struct {
	AnalysisID    string                   `json:"analysis_id"`
	Profile       *domain.PsychProfile     `json:"psychological_profile"`
	Risk          *domain.TemporalRiskSet  `json:"temporal_risk_assessment"`
	Interventions *domain.InterventionPlan `json:"intervention_plan"`
	Analytics     PredictiveAnalytics      `json:"predictive_analytics"`
	ProcessedAt   time.Time                `json:"processed_at"`
}

// AnalyzePsychology scores the feedback text of one employee.
func (s *Service) AnalyzePsychology(ctx context.Context, req EmployeeRequest) (*domain.PsychProfile, error) {
	defer s.observe(StagePsychology, time.Now())

	narrative := s.includeNarrative(req.IncludeNarrative)
	profile, err := s.psych.Analyze(ctx, req.Feedback, req.Employee, psych.Options{
		Timeout:          s.cfg.Timeout,
		IncludeNarrative: narrative,
	})
	if err != nil {
		return nil, err
	}

	if profile.Mode == domain.ScoringModeLexical && s.embedder != nil {
		s.metrics.RecordFallback(CollaboratorEmbedding)
	}
	if narrative && profile.Narrative.Source == domain.SourceFallback {
		s.metrics.RecordFallback(CollaboratorNarrative)
	}

	return profile, nil
}

// PredictRisk forecasts attrition risk. Empty horizons select the configured ones.
func (s *Service) PredictRisk(in risk.Input, horizons []int) (*domain.TemporalRiskSet, error) {
	defer s.observe(StageRisk, time.Now())

	if len(horizons) == 0 {
		horizons = s.cfg.Horizons
	}
	return s.predictor.Predict(in, horizons)
}

// SynthesizeInterventions builds a retention plan. A zero threshold selects the configured one.
func (s *Service) SynthesizeInterventions(ctx context.Context, scores domain.PsychologicalScoreSet, attrs domain.EmployeeAttributes, threshold float64, includeNarrative *bool) (*domain.InterventionPlan, error) {
	defer s.observe(StageInterventions, time.Now())

	if threshold == 0 {
		threshold = s.cfg.SuccessThreshold
	}
	narrative := s.includeNarrative(includeNarrative)

	plan, err := s.synthesizer.Synthesize(ctx, scores, attrs, intervention.Options{
		Threshold:        threshold,
		Timeout:          s.cfg.Timeout,
		IncludeNarrative: narrative,
	})
	if err != nil {
		return nil, err
	}

	if narrative && plan.NarrativeSource == domain.SourceFallback {
		s.metrics.RecordFallback(CollaboratorNarrative)
	}

	return plan, nil
}

// AnalyzeEmployee runs psychology, risk and interventions in sequence.
func (s *Service) AnalyzeEmployee(ctx context.Context, req EmployeeRequest) (result *EmployeeAnalysis, err error) {
	defer func() { s.metrics.RecordAnalysis("employee", err) }()

	profile, err := s.AnalyzePsychology(ctx, req)
	if err != nil {
		return nil, err
	}

	forecast, err := s.PredictRisk(risk.Input{
		Scores:         profile.Scores,
		Employee:       req.Employee,
		FeedbackLength: utf8.RuneCountInString(req.Feedback),
	}, req.Horizons)
	if err != nil {
		return nil, err
	}

	plan, err := s.SynthesizeInterventions(ctx, profile.Scores, req.Employee, 0, req.IncludeNarrative)
	if err != nil {
		return nil, err
	}

	result = &EmployeeAnalysis{
		AnalysisID:    s.newID(),
		Profile:       profile,
		Risk:          forecast,
		Interventions: plan,
		Analytics:     Analytics(profile, forecast, plan),
		ProcessedAt:   s.now(),
	}

	s.logger.Debug("employee analyzed",
		zap.String(applog.FieldAnalysisID, result.AnalysisID),
		zap.String(applog.FieldEmployeeID, req.Employee.WithDefaults().ID),
		zap.String("risk_level", string(forecast.RiskLevel)),
		zap.Float64("engagement", profile.Engagement.Level),
	)

	return result, nil
}

// Analytics builds the predictive analytics block. Horizons that were not forecast read as 0.
func Analytics(profile *domain.PsychProfile, forecast *domain.TemporalRiskSet, plan *domain.InterventionPlan) PredictiveAnalytics {
	r3, _ := forecast.Risk(3)
	r6, _ := forecast.Risk(6)
	r12, _ := forecast.Risk(12)

	return PredictiveAnalytics{
		Attrition3Months:               r3,
		Attrition6Months:               r6,
		Attrition12Months:              r12,
		Trajectory:                     profile.Predictions.Trajectory,
		EngagementLevel:                profile.Engagement.Level,
		InterventionSuccessProbability: plan.SuccessProbability,
	}
}
