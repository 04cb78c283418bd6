package testimonial

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/testimonial"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new TestimonialStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const testimonialColumns = `id, author, quote, rating, published, display_order, created_at`

// GetByID retrieves a Testimonial by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Testimonial, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+testimonialColumns+" FROM testimonial WHERE id = ?", id)
	var tm domain.Testimonial
	var published int
	var createdAt string
	err := row.Scan(&tm.ID, &tm.Author, &tm.Quote, &tm.Rating, &published, &tm.DisplayOrder, &createdAt)
	if err == sql.ErrNoRows {
		return domain.Testimonial{}, fmt.Errorf("testimonial not found: %w", err)
	}
	if err != nil {
		return domain.Testimonial{}, err
	}
	tm.Published = published != 0
	tm.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return tm, nil
}

// Save persists a Testimonial to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, tm domain.Testimonial) error {
	published := 0
	if tm.Published {
		published = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO testimonial (id, author, quote, rating, published, display_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   author=excluded.author, quote=excluded.quote, rating=excluded.rating,
		   published=excluded.published, display_order=excluded.display_order`,
		tm.ID, tm.Author, tm.Quote, tm.Rating, published, tm.DisplayOrder,
		tm.CreatedAt.Format(dateLayout),
	)
	return err
}

// Delete removes a Testimonial from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM testimonial WHERE id = ?", id)
	return err
}

// List retrieves all Testimonials in display order.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Testimonial, error) {
	return s.list(ctx, "SELECT "+testimonialColumns+" FROM testimonial ORDER BY display_order, created_at")
}

// ListPublished retrieves the Testimonials shown on the public site.
func (s *SQLiteStore) ListPublished(ctx context.Context) ([]domain.Testimonial, error) {
	return s.list(ctx, "SELECT "+testimonialColumns+" FROM testimonial WHERE published = 1 ORDER BY display_order, created_at")
}

func (s *SQLiteStore) list(ctx context.Context, query string) ([]domain.Testimonial, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Testimonial
	for rows.Next() {
		var tm domain.Testimonial
		var published int
		var createdAt string
		if err := rows.Scan(&tm.ID, &tm.Author, &tm.Quote, &tm.Rating, &published, &tm.DisplayOrder, &createdAt); err != nil {
			return nil, err
		}
		tm.Published = published != 0
		tm.CreatedAt, _ = time.Parse(dateLayout, createdAt)
		results = append(results, tm)
	}
	return results, rows.Err()
}
