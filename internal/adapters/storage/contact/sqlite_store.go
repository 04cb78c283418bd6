package contact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/contact"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ContactStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const messageColumns = `id, name, email, subject, body, status, created_at, replied_at`

// GetByID retrieves a Message by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Message, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM contact_message WHERE id = ?", id)
	m, err := scanMessageFrom(row)
	if err == sql.ErrNoRows {
		return domain.Message{}, fmt.Errorf("contact message not found: %w", err)
	}
	return m, err
}

// Save persists a Message to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, m domain.Message) error {
	repliedAt := ""
	if !m.RepliedAt.IsZero() {
		repliedAt = m.RepliedAt.Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact_message (id, name, email, subject, body, status, created_at, replied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status=excluded.status, replied_at=excluded.replied_at`,
		m.ID, m.Name, m.Email, m.Subject, m.Body, m.Status,
		m.CreatedAt.Format(dateLayout), repliedAt,
	)
	return err
}

// Delete removes a Message from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM contact_message WHERE id = ?", id)
	return err
}

// List returns messages filtered by status ("" for all), newest first.
func (s *SQLiteStore) List(ctx context.Context, status string) ([]domain.Message, error) {
	query := "SELECT " + messageColumns + " FROM contact_message"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Message
	for rows.Next() {
		m, err := scanMessageFrom(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessageFrom(sc rowScanner) (domain.Message, error) {
	var m domain.Message
	var createdAt string
	var repliedAt sql.NullString
	err := sc.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Status, &createdAt, &repliedAt)
	if err != nil {
		return domain.Message{}, err
	}
	m.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	if repliedAt.Valid && repliedAt.String != "" {
		m.RepliedAt, _ = time.Parse(dateLayout, repliedAt.String)
	}
	return m, nil
}
