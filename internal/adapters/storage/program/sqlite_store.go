package program

import (
	"context"
	"database/sql"
	"fmt"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/program"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ProgramStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const programColumns = `id, slug, name, level, duration_weeks, price_cents, description, active, display_order`

// GetByID retrieves a Program by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Program, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+programColumns+" FROM program WHERE id = ?", id)
	return scanProgram(row)
}

// GetBySlug retrieves a Program by its URL slug.
// PRE: slug is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetBySlug(ctx context.Context, slug string) (domain.Program, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+programColumns+" FROM program WHERE slug = ?", slug)
	return scanProgram(row)
}

// Save persists a Program to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, p domain.Program) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO program (id, slug, name, level, duration_weeks, price_cents, description, active, display_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   slug=excluded.slug, name=excluded.name, level=excluded.level,
		   duration_weeks=excluded.duration_weeks, price_cents=excluded.price_cents,
		   description=excluded.description, active=excluded.active, display_order=excluded.display_order`,
		p.ID, p.Slug, p.Name, p.Level, p.DurationWeeks, p.PriceCents, p.Description,
		boolToInt(p.Active), p.DisplayOrder,
	)
	return err
}

// Delete removes a Program from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM program WHERE id = ?", id)
	return err
}

// List retrieves all Programs in display order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Program, error) {
	return s.list(ctx, "SELECT "+programColumns+" FROM program ORDER BY display_order, name")
}

// ListActive retrieves the Programs shown on the public site.
func (s *SQLiteStore) ListActive(ctx context.Context) ([]domain.Program, error) {
	return s.list(ctx, "SELECT "+programColumns+" FROM program WHERE active = 1 ORDER BY display_order, name")
}

func (s *SQLiteStore) list(ctx context.Context, query string) ([]domain.Program, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Program
	for rows.Next() {
		var p domain.Program
		var active int
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Level, &p.DurationWeeks,
			&p.PriceCents, &p.Description, &active, &p.DisplayOrder); err != nil {
			return nil, err
		}
		p.Active = active != 0
		results = append(results, p)
	}
	return results, rows.Err()
}

func scanProgram(row *sql.Row) (domain.Program, error) {
	var p domain.Program
	var active int
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Level, &p.DurationWeeks,
		&p.PriceCents, &p.Description, &active, &p.DisplayOrder)
	if err == sql.ErrNoRows {
		return domain.Program{}, fmt.Errorf("program not found: %w", err)
	}
	if err != nil {
		return domain.Program{}, err
	}
	p.Active = active != 0
	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
