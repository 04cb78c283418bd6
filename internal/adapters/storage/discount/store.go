package discount

import (
	"context"
	"time"

	domain "ironhall/internal/domain/discount"
)

// Store persists discount tokens. Codes are never stored in plaintext;
// lookups go through the sha256 digest.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Token, error)
	GetByCodeHash(ctx context.Context, codeHash string) (domain.Token, error)
	Save(ctx context.Context, t domain.Token) error

	// GetLiveByEmail returns the newest unused, unexpired token for an
	// email, if one exists.
	GetLiveByEmail(ctx context.Context, email string, now time.Time) (domain.Token, error)

	// LastRedemption returns the most recent redemption time for an email,
	// or the zero time if the email has never redeemed.
	LastRedemption(ctx context.Context, email string) (time.Time, error)

	// List returns all tokens, newest first (admin view).
	List(ctx context.Context, limit int) ([]domain.Token, error)
}
