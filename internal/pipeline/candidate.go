package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/candidate"
	"github.com/spigell/hr-signals/internal/domain"
	applog "github.com/spigell/hr-signals/internal/logger"
)

// CandidateRequest asks for a candidate analysis.
type CandidateRequest struct {
	Candidate        domain.CandidateAttributes `json:"candidate_data"`
	Resume           string                     `json:"resume_text"`
	IncludeNarrative *bool                      `json:"include_narrative,omitempty"`
}

// CandidateAnalysis is the result of AnalyzeCandidate.
type CandidateAnalysis struct {
	AnalysisID string `json:"analysis_id"`
	candidate.Analysis
	ProcessedAt time.Time `json:"processed_at"`
}

// AnalyzeCandidate scores one resume.
func (s *Service) AnalyzeCandidate(ctx context.Context, req CandidateRequest) (result *CandidateAnalysis, err error) {
	defer s.observe(StageCandidate, time.Now())
	defer func() { s.metrics.RecordAnalysis("candidate", err) }()

	narrative := s.includeNarrative(req.IncludeNarrative)
	analysis, err := s.candidates.Analyze(ctx, req.Resume, req.Candidate, candidate.Options{
		Timeout:          s.cfg.Timeout,
		IncludeNarrative: narrative,
	})
	if err != nil {
		return nil, err
	}

	if narrative && analysis.Assessment.Source == domain.SourceFallback {
		s.metrics.RecordFallback(CollaboratorNarrative)
	}

	result = &CandidateAnalysis{
		AnalysisID:  s.newID(),
		Analysis:    *analysis,
		ProcessedAt: s.now(),
	}

	s.logger.Debug("candidate analysis finished",
		zap.String(applog.FieldAnalysisID, result.AnalysisID),
		zap.String("decision", string(analysis.Recommendation.Decision)),
	)

	return result, nil
}
