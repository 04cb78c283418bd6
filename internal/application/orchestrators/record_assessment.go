package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ironhall/internal/domain/assessment"
)

// AssessmentStoreForRecord defines the store interface needed by RecordAssessment.
type AssessmentStoreForRecord interface {
	Save(ctx context.Context, r assessment.Record) error
}

// RecordAssessmentInput carries input for the assessment orchestrator.
type RecordAssessmentInput struct {
	ClientID string // Empty for anonymous public scoring
	Input    assessment.Input
}

// RecordAssessmentDeps holds dependencies for RecordAssessment.
type RecordAssessmentDeps struct {
	AssessmentStore AssessmentStoreForRecord
	Now             func() time.Time
}

// ExecuteRecordAssessment scores a strength assessment and, for logged-in
// clients, appends it to their history. Anonymous submissions are scored
// without being stored.
// PRE: Input passes domain validation
// POST: Result returned; record saved when ClientID is set
func ExecuteRecordAssessment(ctx context.Context, input RecordAssessmentInput, deps RecordAssessmentDeps) (assessment.Result, error) {
	result, err := assessment.Score(input.Input)
	if err != nil {
		return assessment.Result{}, err
	}

	if input.ClientID != "" {
		record := assessment.Record{
			ID:        uuid.New().String(),
			ClientID:  input.ClientID,
			Input:     input.Input,
			Result:    result,
			CreatedAt: deps.Now(),
		}
		if err := deps.AssessmentStore.Save(ctx, record); err != nil {
			return assessment.Result{}, err
		}
		slog.Info("assessment_event", "event", "assessment_recorded", "client_id", input.ClientID,
			"overall_score", result.OverallScore, "weakest_lift", result.WeakestLift)
	}

	return result, nil
}
