package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ironhall/internal/adapters/storage"
	domain "ironhall/internal/domain/account"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AccountStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const accountColumns = `id, email, password_hash, role, status, created_at, failed_logins, locked_until, password_change_required`

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE id = ?", id)
	return scanAccount(row)
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+accountColumns+" FROM account WHERE email = ?", email)
	return scanAccount(row)
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Account) error {
	lockedUntil := ""
	if !a.LockedUntil.IsZero() {
		lockedUntil = a.LockedUntil.Format(dateLayout)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account (id, email, password_hash, role, status, created_at, failed_logins, locked_until, password_change_required)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email=excluded.email, password_hash=excluded.password_hash, role=excluded.role,
		   status=excluded.status, failed_logins=excluded.failed_logins,
		   locked_until=excluded.locked_until, password_change_required=excluded.password_change_required`,
		a.ID, a.Email, a.PasswordHash, a.Role, a.Status, a.CreatedAt.Format(dateLayout),
		a.FailedLogins, lockedUntil, boolToInt(a.PasswordChangeRequired),
	)
	return err
}

// Delete removes an Account from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return err
}

// List retrieves all Accounts ordered by email.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+accountColumns+" FROM account ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		a, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&n)
	return n, err
}

// SaveActivationToken persists an activation token.
// PRE: token fields are populated, TokenHash is a sha256 digest
// POST: Token is persisted (insert or update)
func (s *SQLiteStore) SaveActivationToken(ctx context.Context, t domain.ActivationToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activation_token (id, account_id, token_hash, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET used=excluded.used`,
		t.ID, t.AccountID, t.TokenHash, t.ExpiresAt.Format(dateLayout),
		boolToInt(t.Used), t.CreatedAt.Format(dateLayout),
	)
	return err
}

// GetActivationTokenByHash retrieves a token by its sha256 digest.
// PRE: tokenHash is non-empty
// POST: Returns the token or an error if not found
func (s *SQLiteStore) GetActivationTokenByHash(ctx context.Context, tokenHash string) (domain.ActivationToken, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_id, token_hash, expires_at, used, created_at FROM activation_token WHERE token_hash = ?",
		tokenHash)

	var t domain.ActivationToken
	var expiresAt, createdAt string
	var used int
	err := row.Scan(&t.ID, &t.AccountID, &t.TokenHash, &expiresAt, &used, &createdAt)
	if err == sql.ErrNoRows {
		return domain.ActivationToken{}, fmt.Errorf("activation token not found: %w", err)
	}
	if err != nil {
		return domain.ActivationToken{}, err
	}
	t.Used = used != 0
	t.ExpiresAt, _ = time.Parse(dateLayout, expiresAt)
	t.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return t, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	a, err := scanAccountFrom(row)
	if err == sql.ErrNoRows {
		return domain.Account{}, fmt.Errorf("account not found: %w", err)
	}
	return a, err
}

func scanAccountRows(rows *sql.Rows) (domain.Account, error) {
	return scanAccountFrom(rows)
}

func scanAccountFrom(sc rowScanner) (domain.Account, error) {
	var a domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	var pwChange int
	err := sc.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.Status, &createdAt,
		&a.FailedLogins, &lockedUntil, &pwChange)
	if err != nil {
		return domain.Account{}, err
	}
	a.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		a.LockedUntil, _ = time.Parse(dateLayout, lockedUntil.String)
	}
	a.PasswordChangeRequired = pwChange != 0
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
