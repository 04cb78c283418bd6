package discount

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/discount"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new DiscountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const tokenColumns = `id, email, code_hash, percent, issued_at, expires_at, used, redeemed_at`

// GetByID retrieves a Token by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Token, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tokenColumns+" FROM discount_token WHERE id = ?", id)
	t, err := scanTokenFrom(row)
	if err == sql.ErrNoRows {
		return domain.Token{}, fmt.Errorf("discount token not found: %w", err)
	}
	return t, err
}

// GetByCodeHash retrieves a Token by its sha256 digest.
// PRE: codeHash is the hex digest of a normalized code
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByCodeHash(ctx context.Context, codeHash string) (domain.Token, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tokenColumns+" FROM discount_token WHERE code_hash = ?", codeHash)
	t, err := scanTokenFrom(row)
	if err == sql.ErrNoRows {
		return domain.Token{}, fmt.Errorf("discount token not found: %w", err)
	}
	return t, err
}

// Save persists a Token to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, t domain.Token) error {
	redeemedAt := ""
	if !t.RedeemedAt.IsZero() {
		redeemedAt = t.RedeemedAt.Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO discount_token (id, email, code_hash, percent, issued_at, expires_at, used, redeemed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   used=excluded.used, redeemed_at=excluded.redeemed_at`,
		t.ID, strings.ToLower(t.Email), t.CodeHash, t.Percent,
		t.IssuedAt.Format(dateLayout), t.ExpiresAt.Format(dateLayout),
		boolToInt(t.Used), redeemedAt,
	)
	return err
}

// GetLiveByEmail returns the newest unused, unexpired token for an email.
// PRE: email is non-empty
// POST: Returns the token or an error if none is live
func (s *SQLiteStore) GetLiveByEmail(ctx context.Context, email string, now time.Time) (domain.Token, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+tokenColumns+` FROM discount_token
		 WHERE email = ? AND used = 0 AND expires_at > ?
		 ORDER BY issued_at DESC LIMIT 1`,
		strings.ToLower(email), now.Format(dateLayout))
	t, err := scanTokenFrom(row)
	if err == sql.ErrNoRows {
		return domain.Token{}, fmt.Errorf("no live discount token: %w", err)
	}
	return t, err
}

// LastRedemption returns the most recent redemption time for an email.
// PRE: email is non-empty
// POST: Returns the zero time if the email has never redeemed
func (s *SQLiteStore) LastRedemption(ctx context.Context, email string) (time.Time, error) {
	var redeemedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(redeemed_at) FROM discount_token WHERE email = ? AND used = 1",
		strings.ToLower(email)).Scan(&redeemedAt)
	if err != nil {
		return time.Time{}, err
	}
	if !redeemedAt.Valid || redeemedAt.String == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, redeemedAt.String)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// List returns all tokens, newest first (admin view).
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Token, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+tokenColumns+" FROM discount_token ORDER BY issued_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Token
	for rows.Next() {
		t, err := scanTokenFrom(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTokenFrom(sc rowScanner) (domain.Token, error) {
	var t domain.Token
	var issuedAt, expiresAt string
	var redeemedAt sql.NullString
	var used int
	err := sc.Scan(&t.ID, &t.Email, &t.CodeHash, &t.Percent, &issuedAt, &expiresAt, &used, &redeemedAt)
	if err != nil {
		return domain.Token{}, err
	}
	t.Used = used != 0
	t.IssuedAt, _ = time.Parse(dateLayout, issuedAt)
	t.ExpiresAt, _ = time.Parse(dateLayout, expiresAt)
	if redeemedAt.Valid && redeemedAt.String != "" {
		t.RedeemedAt, _ = time.Parse(dateLayout, redeemedAt.String)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
