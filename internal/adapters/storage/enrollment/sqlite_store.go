package enrollment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/enrollment"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new EnrollmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const enrollmentColumns = `id, client_id, program_id, goals, preferred_schedule, discount_percent, status, decision_note, decided_by, applied_at, decided_at, started_at, ends_at, closed_at`

// GetByID retrieves an Enrollment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Enrollment, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+enrollmentColumns+" FROM enrollment WHERE id = ?", id)
	e, err := scanEnrollmentFrom(row)
	if err == sql.ErrNoRows {
		return domain.Enrollment{}, fmt.Errorf("enrollment not found: %w", err)
	}
	return e, err
}

// Save persists an Enrollment to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Enrollment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollment (id, client_id, program_id, goals, preferred_schedule, discount_percent, status, decision_note, decided_by, applied_at, decided_at, started_at, ends_at, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   goals=excluded.goals, preferred_schedule=excluded.preferred_schedule,
		   discount_percent=excluded.discount_percent, status=excluded.status,
		   decision_note=excluded.decision_note, decided_by=excluded.decided_by,
		   decided_at=excluded.decided_at, started_at=excluded.started_at,
		   ends_at=excluded.ends_at, closed_at=excluded.closed_at`,
		e.ID, e.ClientID, e.ProgramID, e.Goals, e.PreferredSchedule, e.DiscountPercent,
		e.Status, e.DecisionNote, e.DecidedBy, e.AppliedAt.Format(dateLayout),
		formatNullable(e.DecidedAt), formatNullable(e.StartedAt),
		formatNullable(e.EndsAt), formatNullable(e.ClosedAt),
	)
	return err
}

// Delete removes an Enrollment from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM enrollment WHERE id = ?", id)
	return err
}

// ListByClient returns a client's enrollments, newest first.
func (s *SQLiteStore) ListByClient(ctx context.Context, clientID string) ([]domain.Enrollment, error) {
	return s.list(ctx, "SELECT "+enrollmentColumns+" FROM enrollment WHERE client_id = ? ORDER BY applied_at DESC", clientID)
}

// ListByStatus returns enrollments in the given status, oldest first.
func (s *SQLiteStore) ListByStatus(ctx context.Context, status string) ([]domain.Enrollment, error) {
	return s.list(ctx, "SELECT "+enrollmentColumns+" FROM enrollment WHERE status = ? ORDER BY applied_at", status)
}

// GetOpenByClientAndProgram returns the client's open enrollment for a program.
// PRE: clientID and programID are non-empty
// POST: Returns the open enrollment or sql.ErrNoRows-wrapped error
func (s *SQLiteStore) GetOpenByClientAndProgram(ctx context.Context, clientID, programID string) (domain.Enrollment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+enrollmentColumns+` FROM enrollment
		 WHERE client_id = ? AND program_id = ? AND status IN ('pending', 'approved', 'active')
		 ORDER BY applied_at DESC LIMIT 1`,
		clientID, programID)
	e, err := scanEnrollmentFrom(row)
	if err == sql.ErrNoRows {
		return domain.Enrollment{}, fmt.Errorf("no open enrollment: %w", err)
	}
	return e, err
}

func (s *SQLiteStore) list(ctx context.Context, query string, args ...any) ([]domain.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollmentFrom(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnrollmentFrom(sc rowScanner) (domain.Enrollment, error) {
	var e domain.Enrollment
	var appliedAt string
	var decidedAt, startedAt, endsAt, closedAt sql.NullString
	err := sc.Scan(&e.ID, &e.ClientID, &e.ProgramID, &e.Goals, &e.PreferredSchedule,
		&e.DiscountPercent, &e.Status, &e.DecisionNote, &e.DecidedBy, &appliedAt,
		&decidedAt, &startedAt, &endsAt, &closedAt)
	if err != nil {
		return domain.Enrollment{}, err
	}
	e.AppliedAt, _ = time.Parse(dateLayout, appliedAt)
	e.DecidedAt = parseNullable(decidedAt)
	e.StartedAt = parseNullable(startedAt)
	e.EndsAt = parseNullable(endsAt)
	e.ClosedAt = parseNullable(closedAt)
	return e, nil
}

func formatNullable(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseNullable(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, s.String)
	return t
}
