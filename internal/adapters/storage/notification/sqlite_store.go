package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/notification"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new NotificationStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Notification by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, client_id, kind, title, body, read_at, created_at FROM notification WHERE id = ?", id)
	n, err := scanNotificationFrom(row)
	if err == sql.ErrNoRows {
		return domain.Notification{}, fmt.Errorf("notification not found: %w", err)
	}
	return n, err
}

// Save persists a Notification to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, n domain.Notification) error {
	readAt := ""
	if !n.ReadAt.IsZero() {
		readAt = n.ReadAt.Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notification (id, client_id, kind, title, body, read_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET read_at=excluded.read_at`,
		n.ID, n.ClientID, n.Kind, n.Title, n.Body, readAt, n.CreatedAt.Format(dateLayout),
	)
	return err
}

// ListByClient returns a client's notifications, newest first.
// PRE: clientID is non-empty
func (s *SQLiteStore) ListByClient(ctx context.Context, clientID string, unreadOnly bool) ([]domain.Notification, error) {
	query := "SELECT id, client_id, kind, title, body, read_at, created_at FROM notification WHERE client_id = ?"
	if unreadOnly {
		query += " AND (read_at IS NULL OR read_at = '')"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Notification
	for rows.Next() {
		n, err := scanNotificationFrom(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, n)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotificationFrom(sc rowScanner) (domain.Notification, error) {
	var n domain.Notification
	var readAt sql.NullString
	var createdAt string
	err := sc.Scan(&n.ID, &n.ClientID, &n.Kind, &n.Title, &n.Body, &readAt, &createdAt)
	if err != nil {
		return domain.Notification{}, err
	}
	if readAt.Valid && readAt.String != "" {
		n.ReadAt, _ = time.Parse(dateLayout, readAt.String)
	}
	n.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return n, nil
}
