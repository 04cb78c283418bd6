package assessment

import (
	"context"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/assessment"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AssessmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an assessment Record. The full per-lift breakdown is
// recomputed from the stored input on read, so only the summary columns
// are persisted.
// PRE: record input has been validated and scored
// POST: Record is persisted
func (s *SQLiteStore) Save(ctx context.Context, r domain.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assessment_record (id, client_id, sex, bodyweight_kg, squat_kg, bench_kg, deadlift_kg, press_kg, overall_score, overall_tier, weakest_lift, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.ClientID, r.Input.Sex, r.Input.BodyweightKg, r.Input.SquatKg,
		r.Input.BenchKg, r.Input.DeadliftKg, r.Input.PressKg,
		r.Result.OverallScore, r.Result.OverallTier, r.Result.WeakestLift,
		r.CreatedAt.Format(dateLayout),
	)
	return err
}

// ListByClient returns a client's assessment history, newest first.
// PRE: clientID is non-empty
// POST: Returns records with summary results populated
func (s *SQLiteStore) ListByClient(ctx context.Context, clientID string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_id, sex, bodyweight_kg, squat_kg, bench_kg, deadlift_kg, press_kg, overall_score, overall_tier, weakest_lift, created_at
		 FROM assessment_record WHERE client_id = ? ORDER BY created_at DESC`,
		clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		var r domain.Record
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ClientID, &r.Input.Sex, &r.Input.BodyweightKg,
			&r.Input.SquatKg, &r.Input.BenchKg, &r.Input.DeadliftKg, &r.Input.PressKg,
			&r.Result.OverallScore, &r.Result.OverallTier, &r.Result.WeakestLift,
			&createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(dateLayout, createdAt)
		results = append(results, r)
	}
	return results, rows.Err()
}
