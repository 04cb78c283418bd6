package discount_test

import (
	"strings"
	"testing"
	"time"

	"ironhall/internal/domain/discount"
)

// TestGenerateCodeFormat verifies code shape and uniqueness.
func TestGenerateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := discount.GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode failed: %v", err)
		}
		if !strings.HasPrefix(code, "IH-") {
			t.Fatalf("code %q missing IH- prefix", code)
		}
		parts := strings.Split(code, "-")
		if len(parts) != 4 || len(parts[1]) != 4 || len(parts[2]) != 4 || len(parts[3]) != 4 {
			t.Fatalf("code %q not in IH-XXXX-XXXX-XXXX form", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code generated: %q", code)
		}
		seen[code] = true
	}
}

// TestHashNormalization verifies case and separator insensitivity.
func TestHashNormalization(t *testing.T) {
	a := discount.HashCode("IH-ABCD-EFGH-JKMN")
	b := discount.HashCode("ih abcd efgh jkmn ")
	if a != b {
		t.Error("hash differs across equivalent spellings")
	}
	c := discount.HashCode("IH-ABCD-EFGH-JKMX")
	if a == c {
		t.Error("hash collision across different codes")
	}
}

func liveToken(t *testing.T, email string, now time.Time) (discount.Token, string) {
	t.Helper()
	code, err := discount.GenerateCode()
	if err != nil {
		t.Fatal(err)
	}
	return discount.Token{
		ID:        "t1",
		Email:     email,
		CodeHash:  discount.HashCode(code),
		Percent:   discount.DefaultPercent,
		IssuedAt:  now,
		ExpiresAt: now.Add(discount.TokenTTL),
	}, code
}

// TestMatchesCode verifies digest matching.
func TestMatchesCode(t *testing.T) {
	now := time.Now()
	tok, code := liveToken(t, "jo@example.com", now)

	if !tok.MatchesCode(code) {
		t.Error("token does not match its own code")
	}
	if !tok.MatchesCode(strings.ToLower(code)) {
		t.Error("match is case sensitive")
	}
	if tok.MatchesCode("IH-2222-3333-4444") {
		t.Error("token matches a foreign code")
	}
}

// TestRedeemLifecycle covers single-use, expiry, and email binding.
func TestRedeemLifecycle(t *testing.T) {
	now := time.Now()
	tok, _ := liveToken(t, "jo@example.com", now)

	if err := tok.CanRedeem("someone@else.com", now); err != discount.ErrEmailMismatch {
		t.Errorf("CanRedeem wrong email = %v, want ErrEmailMismatch", err)
	}
	if err := tok.CanRedeem("JO@Example.com", now); err != nil {
		t.Errorf("CanRedeem should be email case-insensitive, got %v", err)
	}
	if err := tok.CanRedeem("jo@example.com", now.Add(discount.TokenTTL+time.Minute)); err != discount.ErrTokenExpired {
		t.Errorf("CanRedeem after expiry = %v, want ErrTokenExpired", err)
	}

	if err := tok.Redeem("jo@example.com", now); err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if !tok.Used || tok.RedeemedAt.IsZero() {
		t.Error("Redeem did not consume token")
	}
	if err := tok.Redeem("jo@example.com", now); err != discount.ErrTokenUsed {
		t.Errorf("second Redeem = %v, want ErrTokenUsed", err)
	}
}

// TestValidate verifies token field validation.
func TestValidate(t *testing.T) {
	now := time.Now()
	tok, _ := liveToken(t, "jo@example.com", now)
	if err := tok.Validate(); err != nil {
		t.Errorf("valid token failed validation: %v", err)
	}

	bad := tok
	bad.Percent = 0
	if err := bad.Validate(); err != discount.ErrInvalidPercent {
		t.Errorf("Validate percent=0 = %v, want ErrInvalidPercent", err)
	}

	bad = tok
	bad.Email = "nope"
	if bad.Validate() == nil {
		t.Error("Validate accepted bad email")
	}
}

// TestCooldownActive verifies the monthly redemption cooldown window.
func TestCooldownActive(t *testing.T) {
	now := time.Now()
	if discount.CooldownActive(time.Time{}, now) {
		t.Error("cooldown active with no prior redemption")
	}
	if !discount.CooldownActive(now.Add(-29*24*time.Hour), now) {
		t.Error("cooldown inactive 29 days after redemption")
	}
	if discount.CooldownActive(now.Add(-31*24*time.Hour), now) {
		t.Error("cooldown active 31 days after redemption")
	}
}
