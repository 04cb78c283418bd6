package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/client"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new ClientStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const clientColumns = `id, account_id, email, name, phone, date_of_birth, goals, emergency_contact, status, email_on_decision, promo_opt_in, created_at`

// GetByID retrieves a Client by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Client, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM client WHERE id = ?", id)
	return scanClient(row)
}

// GetByAccountID retrieves the Client linked to an account.
// PRE: accountID is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByAccountID(ctx context.Context, accountID string) (domain.Client, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM client WHERE account_id = ?", accountID)
	return scanClient(row)
}

// GetByEmail retrieves a Client by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Client, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+clientColumns+" FROM client WHERE email = ?", email)
	return scanClient(row)
}

// Save persists a Client to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client (id, account_id, email, name, phone, date_of_birth, goals, emergency_contact, status, email_on_decision, promo_opt_in, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   account_id=excluded.account_id, email=excluded.email, name=excluded.name,
		   phone=excluded.phone, date_of_birth=excluded.date_of_birth, goals=excluded.goals,
		   emergency_contact=excluded.emergency_contact, status=excluded.status,
		   email_on_decision=excluded.email_on_decision, promo_opt_in=excluded.promo_opt_in`,
		c.ID, c.AccountID, c.Email, c.Name, c.Phone, c.DateOfBirth, c.Goals,
		c.EmergencyContact, c.Status, boolToInt(c.EmailOnDecision), boolToInt(c.PromoOptIn),
		c.CreatedAt.Format(dateLayout),
	)
	return err
}

// Delete removes a Client from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM client WHERE id = ?", id)
	return err
}

// List retrieves all Clients ordered by name.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+clientColumns+" FROM client ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Client
	for rows.Next() {
		c, err := scanClientFrom(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row *sql.Row) (domain.Client, error) {
	c, err := scanClientFrom(row)
	if err == sql.ErrNoRows {
		return domain.Client{}, fmt.Errorf("client not found: %w", err)
	}
	return c, err
}

func scanClientFrom(sc rowScanner) (domain.Client, error) {
	var c domain.Client
	var accountID sql.NullString
	var createdAt string
	var emailOnDecision, promoOptIn int
	err := sc.Scan(&c.ID, &accountID, &c.Email, &c.Name, &c.Phone, &c.DateOfBirth,
		&c.Goals, &c.EmergencyContact, &c.Status, &emailOnDecision, &promoOptIn, &createdAt)
	if err != nil {
		return domain.Client{}, err
	}
	c.AccountID = accountID.String
	c.EmailOnDecision = emailOnDecision != 0
	c.PromoOptIn = promoOptIn != 0
	c.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
