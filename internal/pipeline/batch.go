package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/hr-signals/internal/domain"
	applog "github.com/spigell/hr-signals/internal/logger"
)

const insightSize = 3

// BatchRecord is one employee in a batch: the attributes plus the feedback text.
type BatchRecord struct {
	domain.EmployeeAttributes
	Feedback *string `json:"feedback,omitempty"`
}

// BatchItem is the result slot of one record. Failed slots carry Error and RiskLevel ERROR.
type BatchItem struct {
	Index           int               `json:"index"`
	EmployeeID      string            `json:"employee_id"`
	Name            string            `json:"name"`
	RiskLevel       domain.RiskLevel  `json:"risk_level"`
	EngagementScore float64           `json:"engagement_score"`
	ThreeMonthRisk  float64           `json:"three_month_risk"`
	Analysis        *EmployeeAnalysis `json:"analysis,omitempty"`
	Error           *domain.Wire      `json:"error,omitempty"`
}

// Failed reports whether the slot is an error placeholder.
func (b BatchItem) Failed() bool { return b.RiskLevel == domain.RiskError }

// BatchRef points at a batch slot from the insights.
type BatchRef struct {
	Index           int              `json:"index"`
	EmployeeID      string           `json:"employee_id"`
	Name            string           `json:"name"`
	RiskLevel       domain.RiskLevel `json:"risk_level"`
	EngagementScore float64          `json:"engagement_score"`
	ThreeMonthRisk  float64          `json:"three_month_risk"`
}

// BatchSummary aggregates a batch. Failed records count as zero engagement.
type BatchSummary struct {
	Total             int       `json:"total_employees"`
	Critical          int       `json:"critical_risk_employees"`
	Failed            int       `json:"failed_records"`
	AverageEngagement float64   `json:"average_engagement"`
	ProcessedAt       time.Time `json:"processing_timestamp"`
}

// BatchInsights highlights the records that need attention.
type BatchInsights struct {
	MostAtRisk             []BatchRef `json:"most_at_risk"`
	HighestEngagement      []BatchRef `json:"highest_engagement"`
	InterventionPriorities []BatchRef `json:"intervention_priorities"`
}

// BatchResult always holds exactly one item per input record, in input order.
type BatchResult struct {
	BatchID  string        `json:"batch_id"`
	Summary  BatchSummary  `json:"batch_summary"`
	Items    []BatchItem   `json:"individual_results"`
	Insights BatchInsights `json:"insights"`
}

func (r *BatchResult) Len() int {
	return len(r.Items)
}

// ReportByRiskLevel groups the batch slots under their risk level.
func (r *BatchResult) ReportByRiskLevel() map[domain.RiskLevel][]map[string]string {
	report := make(map[domain.RiskLevel][]map[string]string)
	for _, item := range r.Items {
		entry := map[string]string{
			"employee_id":      item.EmployeeID,
			"name":             item.Name,
			"engagement_score": fmt.Sprintf("%.1f", item.EngagementScore),
			"three_month_risk": fmt.Sprintf("%.1f%%", item.ThreeMonthRisk),
		}
		if item.Error != nil {
			entry["error"] = item.Error.Message
		}
		report[item.RiskLevel] = append(report[item.RiskLevel], entry)
	}
	return report
}

// BatchAnalyze analyzes every record independently. A batch larger than
// maxBatchSize is rejected before any record is processed; a non-positive
// maxBatchSize selects the configured limit.
func (s *Service) BatchAnalyze(ctx context.Context, records []BatchRecord, maxBatchSize int) (result *BatchResult, err error) {
	const op = "pipeline.batch"

	defer s.observe(StageBatch, time.Now())
	defer func() { s.metrics.RecordAnalysis("batch", err) }()

	if maxBatchSize <= 0 {
		maxBatchSize = s.cfg.MaxBatchSize
	}
	if len(records) > maxBatchSize {
		return nil, domain.Errorf(domain.KindBatchSizeExceeded, op, "batch of %d records exceeds the limit of %d", len(records), maxBatchSize)
	}

	items := make([]BatchItem, len(records))
	for i, rec := range records {
		items[i] = s.processRecord(ctx, i, rec)
	}

	result = &BatchResult{
		BatchID:  s.newID(),
		Summary:  Summarize(items, s.now()),
		Items:    items,
		Insights: Insights(items),
	}

	s.logger.Info("batch analysis completed",
		zap.String("batch_id", result.BatchID),
		zap.Int("total", result.Summary.Total),
		zap.Int("critical", result.Summary.Critical),
		zap.Int("failed", result.Summary.Failed),
	)

	return result, nil
}

func (s *Service) processRecord(ctx context.Context, index int, rec BatchRecord) (item BatchItem) {
	emp := rec.EmployeeAttributes.WithDefaults()
	item = BatchItem{Index: index, EmployeeID: emp.ID, Name: emp.Name}

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = &domain.Error{Kind: domain.KindRecordProcessingFailed, Op: "pipeline.batch", Msg: "record processing failed", Err: err}
			item = failedItem(item, err)
			s.logger.Warn("batch record failed",
				zap.Int("index", index),
				zap.String(applog.FieldEmployeeID, emp.ID),
				zap.Error(err),
			)
		}
		s.metrics.RecordBatchRecord(err)
	}()

	if rec.Feedback == nil {
		err = errors.New("feedback is missing")
		return item
	}

	analysis, err := s.AnalyzeEmployee(ctx, EmployeeRequest{Employee: rec.EmployeeAttributes, Feedback: *rec.Feedback})
	if err != nil {
		return item
	}

	item.Analysis = analysis
	item.RiskLevel = analysis.Risk.RiskLevel
	item.EngagementScore = analysis.Profile.Engagement.Level
	item.ThreeMonthRisk = analysis.Analytics.Attrition3Months

	return item
}

func failedItem(item BatchItem, err error) BatchItem {
	wire := domain.WireFrom(err)
	return BatchItem{
		Index:      item.Index,
		EmployeeID: item.EmployeeID,
		Name:       item.Name,
		RiskLevel:  domain.RiskError,
		Error:      &wire,
	}
}

// Summarize aggregates batch items.
func Summarize(items []BatchItem, at time.Time) BatchSummary {
	summary := BatchSummary{Total: len(items), ProcessedAt: at}

	var engagement float64
	for _, item := range items {
		switch {
		case item.Failed():
			summary.Failed++
		case item.RiskLevel == domain.RiskCritical:
			summary.Critical++
		}
		engagement += item.EngagementScore
	}
	if len(items) > 0 {
		summary.AverageEngagement = engagement / float64(len(items))
	}

	return summary
}

// Insights picks the top records by 3-month risk and by engagement, and
// lists every CRITICAL or HIGH record. Ties keep input order.
func Insights(items []BatchItem) BatchInsights {
	refs := make([]BatchRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, BatchRef{
			Index:           item.Index,
			EmployeeID:      item.EmployeeID,
			Name:            item.Name,
			RiskLevel:       item.RiskLevel,
			EngagementScore: item.EngagementScore,
			ThreeMonthRisk:  item.ThreeMonthRisk,
		})
	}

	byRisk := slices.Clone(refs)
	slices.SortStableFunc(byRisk, func(a, b BatchRef) int { return cmp.Compare(b.ThreeMonthRisk, a.ThreeMonthRisk) })

	byEngagement := slices.Clone(refs)
	slices.SortStableFunc(byEngagement, func(a, b BatchRef) int { return cmp.Compare(b.EngagementScore, a.EngagementScore) })

	priorities := []BatchRef{}
	for _, ref := range refs {
		if ref.RiskLevel == domain.RiskCritical || ref.RiskLevel == domain.RiskHigh {
			priorities = append(priorities, ref)
		}
	}

	return BatchInsights{
		MostAtRisk:             byRisk[:min(insightSize, len(byRisk))],
		HighestEngagement:      byEngagement[:min(insightSize, len(byEngagement))],
		InterventionPriorities: priorities,
	}
}
