package discount

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

// Token lifetime and cooldown rules.
const (
	TokenTTL           = 72 * time.Hour
	RedemptionCooldown = 30 * 24 * time.Hour
	DefaultPercent     = 15
)

// codeAlphabet deliberately omits 0/O, 1/I/L and vowels to avoid
// transcription mistakes and accidental words.
const codeAlphabet = "23456789BCDFGHJKMNPQRSTVWXZ"

const codePrefix = "IH"

// Domain errors
var (
	ErrTokenUsed      = errors.New("discount token has already been redeemed")
	ErrTokenExpired   = errors.New("discount token has expired")
	ErrEmailMismatch  = errors.New("discount token was issued to a different email")
	ErrCooldownActive = errors.New("a discount was already redeemed for this email this month")
	ErrInvalidPercent = errors.New("percent must be between 1 and 100")
)

// Token is a single-use, time-boxed discount code issued to one email
// address. The plaintext code exists only in transit; storage holds the
// sha256 digest.
type Token struct {
	ID         string
	Email      string
	CodeHash   string
	Percent    int
	IssuedAt   time.Time
	ExpiresAt  time.Time
	Used       bool
	RedeemedAt time.Time
}

// GenerateCode mints a fresh plaintext code of the form IH-XXXX-XXXX-XXXX.
// PRE: none
// POST: Returns a code drawn from crypto/rand, never an error under a
// working OS entropy source
func GenerateCode() (string, error) {
	raw := make([]byte, 12)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(codePrefix)
	for i, r := range raw {
		if i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(codeAlphabet[int(r)%len(codeAlphabet)])
	}
	return b.String(), nil
}

// NormalizeCode canonicalizes user input: trims, uppercases, and strips
// separators, so "ih-abcd efgh jkmn" matches its issued form.
func NormalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "-", "")
	code = strings.ReplaceAll(code, " ", "")
	return code
}

// HashCode returns the hex sha256 digest of the normalized code.
// INVARIANT: Two codes differing only in case or separators hash identically
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(NormalizeCode(code)))
	return hex.EncodeToString(sum[:])
}

// MatchesCode reports whether the plaintext code belongs to this token,
// using a constant-time digest comparison.
// INVARIANT: Token fields are not mutated
func (t *Token) MatchesCode(code string) bool {
	return subtle.ConstantTimeCompare([]byte(t.CodeHash), []byte(HashCode(code))) == 1
}

// Validate checks if the Token has valid data.
// PRE: Token struct is populated
// POST: Returns error if validation fails, nil otherwise
func (t *Token) Validate() error {
	if t.Email == "" || !strings.Contains(t.Email, "@") {
		return errors.New("token email must be valid")
	}
	if t.CodeHash == "" {
		return errors.New("token code hash is required")
	}
	if t.Percent < 1 || t.Percent > 100 {
		return ErrInvalidPercent
	}
	if t.IssuedAt.IsZero() || t.ExpiresAt.IsZero() {
		return errors.New("token issue and expiry times are required")
	}
	return nil
}

// IsExpired returns true once the token's window has closed.
// INVARIANT: Token fields are not mutated
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsLive returns true for an unused token still inside its window.
// INVARIANT: Token fields are not mutated
func (t *Token) IsLive(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}

// CanRedeem checks every redemption precondition without consuming the
// token. Callers must additionally check the email's redemption cooldown,
// which needs store access.
// PRE: email is the address presented at redemption
// INVARIANT: Token fields are not mutated
func (t *Token) CanRedeem(email string, now time.Time) error {
	if t.Used {
		return ErrTokenUsed
	}
	if t.IsExpired(now) {
		return ErrTokenExpired
	}
	if !strings.EqualFold(strings.TrimSpace(email), t.Email) {
		return ErrEmailMismatch
	}
	return nil
}

// Redeem consumes the token.
// PRE: CanRedeem returned nil
// POST: Used is true, RedeemedAt is set
func (t *Token) Redeem(email string, now time.Time) error {
	if err := t.CanRedeem(email, now); err != nil {
		return err
	}
	t.Used = true
	t.RedeemedAt = now
	return nil
}

// CooldownActive reports whether a past redemption still blocks this email.
// PRE: lastRedeemed is the most recent redemption for the email, zero if none
func CooldownActive(lastRedeemed, now time.Time) bool {
	if lastRedeemed.IsZero() {
		return false
	}
	return now.Sub(lastRedeemed) < RedemptionCooldown
}
