package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ironhall/internal/domain/enrollment"
)

// EnrollmentStoreForSweep defines the store interface needed by the maintenance sweep.
type EnrollmentStoreForSweep interface {
	Save(ctx context.Context, e enrollment.Enrollment) error
	ListByStatus(ctx context.Context, status string) ([]enrollment.Enrollment, error)
}

// SweepDeps holds dependencies for the enrollment sweep.
type SweepDeps struct {
	EnrollmentStore EnrollmentStoreForSweep
	Now             func() time.Time
}

// SweepResult reports what a single sweep changed.
type SweepResult struct {
	Expired   int
	Completed int
}

// ExecuteEnrollmentSweep expires stale pending applications and completes
// active enrollments whose end date has passed.
// POST: Pending older than PendingTTL become expired; active past EndsAt become completed
func ExecuteEnrollmentSweep(ctx context.Context, deps SweepDeps) (SweepResult, error) {
	now := deps.Now()
	var result SweepResult

	pending, err := deps.EnrollmentStore.ListByStatus(ctx, enrollment.StatusPending)
	if err != nil {
		return result, fmt.Errorf("list pending enrollments: %w", err)
	}
	for _, enr := range pending {
		if !enr.Expire(now) {
			continue
		}
		if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
			slog.Error("enrollment_event", "event", "expire_save_failed", "enrollment_id", enr.ID, "error", err.Error())
			continue
		}
		result.Expired++
		slog.Info("enrollment_event", "event", "application_expired", "enrollment_id", enr.ID, "applied_at", enr.AppliedAt)
	}

	active, err := deps.EnrollmentStore.ListByStatus(ctx, enrollment.StatusActive)
	if err != nil {
		return result, fmt.Errorf("list active enrollments: %w", err)
	}
	for _, enr := range active {
		if !enr.DueForCompletion(now) {
			continue
		}
		if err := enr.Complete(now); err != nil {
			continue
		}
		if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
			slog.Error("enrollment_event", "event", "complete_save_failed", "enrollment_id", enr.ID, "error", err.Error())
			continue
		}
		result.Completed++
		slog.Info("enrollment_event", "event", "enrollment_completed", "enrollment_id", enr.ID, "ended_at", enr.EndsAt)
	}

	return result, nil
}

// StartEnrollmentMaintenanceWorker runs the sweep on a ticker until stopCh closes.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartEnrollmentMaintenanceWorker(deps SweepDeps, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if _, err := ExecuteEnrollmentSweep(ctx, deps); err != nil {
					slog.Error("enrollment_sweep_failed", "error", err.Error())
				}
				cancel()
			case <-stopCh:
				slog.Info("enrollment_maintenance_worker_stopped")
				return
			}
		}
	}()
}
