package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"ironhall/internal/domain/client"
	"ironhall/internal/domain/discount"
	"ironhall/internal/domain/notification"
	outboxDomain "ironhall/internal/domain/outbox"
)

// mockDiscountStore implements DiscountStoreForIssue for testing.
type mockDiscountStore struct {
	tokens map[string]discount.Token // keyed by ID
}

func newMockDiscountStore() *mockDiscountStore {
	return &mockDiscountStore{tokens: make(map[string]discount.Token)}
}

func (m *mockDiscountStore) GetByCodeHash(_ context.Context, hash string) (discount.Token, error) {
	for _, t := range m.tokens {
		if t.CodeHash == hash {
			return t, nil
		}
	}
	return discount.Token{}, errors.New("not found")
}

func (m *mockDiscountStore) Save(_ context.Context, t discount.Token) error {
	t.Email = strings.ToLower(t.Email)
	m.tokens[t.ID] = t
	return nil
}

func (m *mockDiscountStore) GetLiveByEmail(_ context.Context, email string, now time.Time) (discount.Token, error) {
	for _, t := range m.tokens {
		if t.Email == strings.ToLower(email) && t.IsLive(now) {
			return t, nil
		}
	}
	return discount.Token{}, errors.New("not found")
}

func (m *mockDiscountStore) LastRedemption(_ context.Context, email string) (time.Time, error) {
	var last time.Time
	for _, t := range m.tokens {
		if t.Email == strings.ToLower(email) && t.Used && t.RedeemedAt.After(last) {
			last = t.RedeemedAt
		}
	}
	return last, nil
}

// mockOutboxStore implements OutboxStoreForQueue for testing.
type mockOutboxStore struct {
	entries []outboxDomain.Entry
}

func (m *mockOutboxStore) Save(_ context.Context, e outboxDomain.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

var discountFixedTime = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func discountNow() time.Time { return discountFixedTime }

// --- ExecuteIssueDiscount tests ---

// TestExecuteIssueDiscount_HappyPath verifies a fresh email gets a hashed token and an email.
func TestExecuteIssueDiscount_HappyPath(t *testing.T) {
	store := newMockDiscountStore()
	outbox := &mockOutboxStore{}

	result, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{
		Email: "Jo@Example.com",
		Name:  "Jo",
	}, IssueDiscountDeps{DiscountStore: store, OutboxStore: outbox, Now: discountNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(result.Code, "IH-") {
		t.Errorf("code = %q, want IH- prefix", result.Code)
	}
	if result.Percent != discount.DefaultPercent {
		t.Errorf("percent = %d, want %d", result.Percent, discount.DefaultPercent)
	}
	if !result.ExpiresAt.Equal(discountFixedTime.Add(discount.TokenTTL)) {
		t.Errorf("ExpiresAt = %v", result.ExpiresAt)
	}

	saved, ok := store.tokens[result.TokenID]
	if !ok {
		t.Fatal("token not persisted")
	}
	if saved.Email != "jo@example.com" {
		t.Errorf("stored email = %q, want lowercased", saved.Email)
	}
	if saved.CodeHash != discount.HashCode(result.Code) {
		t.Error("stored hash does not match issued code")
	}
	if saved.CodeHash == result.Code {
		t.Error("raw code stored instead of digest")
	}

	if len(outbox.entries) != 1 {
		t.Fatalf("queued %d emails, want 1", len(outbox.entries))
	}
	var payload EmailPayload
	if err := json.Unmarshal([]byte(outbox.entries[0].Payload), &payload); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if payload.To != "jo@example.com" {
		t.Errorf("email to = %q", payload.To)
	}
	if !strings.Contains(payload.HTML, result.Code) {
		t.Error("email body does not contain the code")
	}
}

// TestExecuteIssueDiscount_RefusesWhileLiveTokenExists verifies no second live token is minted.
func TestExecuteIssueDiscount_RefusesWhileLiveTokenExists(t *testing.T) {
	store := newMockDiscountStore()
	outbox := &mockOutboxStore{}
	deps := IssueDiscountDeps{DiscountStore: store, OutboxStore: outbox, Now: discountNow}

	if _, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"}, deps); err != nil {
		t.Fatal(err)
	}

	_, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "JO@example.com"}, deps)
	if !errors.Is(err, ErrNotEligible) {
		t.Errorf("err = %v, want ErrNotEligible", err)
	}
	if len(store.tokens) != 1 {
		t.Errorf("token count = %d, want 1", len(store.tokens))
	}
}

// TestExecuteIssueDiscount_RefusesDuringCooldown verifies the 30-day window blocks reissue.
func TestExecuteIssueDiscount_RefusesDuringCooldown(t *testing.T) {
	store := newMockDiscountStore()
	redeemed := discount.Token{
		ID: "tok-old", Email: "jo@example.com", CodeHash: discount.HashCode("IH-OLD1-OLD1-OLD1"),
		Percent: 15, IssuedAt: discountFixedTime.Add(-20 * 24 * time.Hour),
		ExpiresAt: discountFixedTime.Add(-19 * 24 * time.Hour),
		Used:      true, RedeemedAt: discountFixedTime.Add(-10 * 24 * time.Hour),
	}
	store.tokens[redeemed.ID] = redeemed

	_, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"},
		IssueDiscountDeps{DiscountStore: store, OutboxStore: &mockOutboxStore{}, Now: discountNow})
	if !errors.Is(err, ErrNotEligible) {
		t.Errorf("err = %v, want ErrNotEligible", err)
	}
}

// TestExecuteIssueDiscount_AllowedAfterCooldown verifies issuance resumes after 30 days.
func TestExecuteIssueDiscount_AllowedAfterCooldown(t *testing.T) {
	store := newMockDiscountStore()
	redeemed := discount.Token{
		ID: "tok-old", Email: "jo@example.com", CodeHash: discount.HashCode("IH-OLD1-OLD1-OLD1"),
		Percent: 15, IssuedAt: discountFixedTime.Add(-40 * 24 * time.Hour),
		ExpiresAt: discountFixedTime.Add(-37 * 24 * time.Hour),
		Used:      true, RedeemedAt: discountFixedTime.Add(-31 * 24 * time.Hour),
	}
	store.tokens[redeemed.ID] = redeemed

	if _, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"},
		IssueDiscountDeps{DiscountStore: store, OutboxStore: &mockOutboxStore{}, Now: discountNow}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// --- ExecuteRedeemDiscount tests ---

func issuedToken(t *testing.T, store *mockDiscountStore) (string, IssueDiscountResult) {
	t.Helper()
	result, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"},
		IssueDiscountDeps{DiscountStore: store, OutboxStore: &mockOutboxStore{}, Now: discountNow})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	return result.Code, result
}

// TestExecuteRedeemDiscount_HappyPath verifies a valid code is spent exactly once.
func TestExecuteRedeemDiscount_HappyPath(t *testing.T) {
	store := newMockDiscountStore()
	code, issued := issuedToken(t, store)
	deps := RedeemDiscountDeps{DiscountStore: store, Now: discountNow}

	result, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code:  code,
		Email: "jo@example.com",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Percent != issued.Percent {
		t.Errorf("percent = %d, want %d", result.Percent, issued.Percent)
	}

	saved := store.tokens[issued.TokenID]
	if !saved.Used {
		t.Error("token not marked used")
	}

	// Second redemption must fail generically.
	if _, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code: code, Email: "jo@example.com",
	}, deps); !errors.Is(err, ErrCodeInvalid) {
		t.Errorf("second redeem err = %v, want ErrCodeInvalid", err)
	}
}

// TestExecuteRedeemDiscount_NormalizesCode verifies lowercase/dashless input matches.
func TestExecuteRedeemDiscount_NormalizesCode(t *testing.T) {
	store := newMockDiscountStore()
	code, _ := issuedToken(t, store)

	sloppy := strings.ToLower(strings.ReplaceAll(code, "-", " "))
	if _, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code: sloppy, Email: "jo@example.com",
	}, RedeemDiscountDeps{DiscountStore: store, Now: discountNow}); err != nil {
		t.Errorf("sloppy code rejected: %v", err)
	}
}

// TestExecuteRedeemDiscount_VerifyOnlyDoesNotSpend verifies the dry-run path.
func TestExecuteRedeemDiscount_VerifyOnlyDoesNotSpend(t *testing.T) {
	store := newMockDiscountStore()
	code, issued := issuedToken(t, store)
	deps := RedeemDiscountDeps{DiscountStore: store, Now: discountNow}

	result, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code: code, Email: "jo@example.com", VerifyOnly: true,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Percent != issued.Percent {
		t.Errorf("percent = %d", result.Percent)
	}
	if store.tokens[issued.TokenID].Used {
		t.Error("verify-only spent the token")
	}

	// The real redemption still works afterwards.
	if _, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code: code, Email: "jo@example.com",
	}, deps); err != nil {
		t.Errorf("redeem after verify failed: %v", err)
	}
}

// TestExecuteRedeemDiscount_GenericRefusals verifies every refusal collapses to ErrCodeInvalid.
func TestExecuteRedeemDiscount_GenericRefusals(t *testing.T) {
	store := newMockDiscountStore()
	code, _ := issuedToken(t, store)
	deps := RedeemDiscountDeps{DiscountStore: store, Now: discountNow}

	cases := []struct {
		name  string
		input RedeemDiscountInput
	}{
		{"unknown code", RedeemDiscountInput{Code: "IH-ZZZZ-ZZZZ-ZZZZ", Email: "jo@example.com"}},
		{"wrong email", RedeemDiscountInput{Code: code, Email: "other@example.com"}},
		{"empty code", RedeemDiscountInput{Email: "jo@example.com"}},
		{"empty email", RedeemDiscountInput{Code: code}},
	}
	for _, tc := range cases {
		if _, err := ExecuteRedeemDiscount(context.Background(), tc.input, deps); !errors.Is(err, ErrCodeInvalid) {
			t.Errorf("%s: err = %v, want ErrCodeInvalid", tc.name, err)
		}
	}
}

// sloppyHashDiscountStore returns its single token for any hash lookup,
// standing in for a store whose index is looser than the digest.
type sloppyHashDiscountStore struct {
	*mockDiscountStore
	token discount.Token
}

func (s *sloppyHashDiscountStore) GetByCodeHash(_ context.Context, _ string) (discount.Token, error) {
	return s.token, nil
}

// TestExecuteRedeemDiscount_DigestMismatchRefused verifies redemption
// re-checks the presented code against the stored digest even when the
// store lookup returned a token.
func TestExecuteRedeemDiscount_DigestMismatchRefused(t *testing.T) {
	inner := newMockDiscountStore()
	_, issued := issuedToken(t, inner)
	store := &sloppyHashDiscountStore{mockDiscountStore: inner, token: inner.tokens[issued.TokenID]}

	_, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code: "IH-WRNG-WRNG-WRNG", Email: "jo@example.com",
	}, RedeemDiscountDeps{DiscountStore: store, Now: discountNow})
	if !errors.Is(err, ErrCodeInvalid) {
		t.Errorf("err = %v, want ErrCodeInvalid", err)
	}
	if inner.tokens[issued.TokenID].Used {
		t.Error("mismatched code spent the token")
	}
}

// TestExecuteRedeemDiscount_ExpiredToken verifies expiry refuses redemption.
func TestExecuteRedeemDiscount_ExpiredToken(t *testing.T) {
	store := newMockDiscountStore()
	code, issued := issuedToken(t, store)

	stale := store.tokens[issued.TokenID]
	stale.ExpiresAt = discountFixedTime.Add(-time.Hour)
	store.tokens[issued.TokenID] = stale

	if _, err := ExecuteRedeemDiscount(context.Background(), RedeemDiscountInput{
		Code: code, Email: "jo@example.com",
	}, RedeemDiscountDeps{DiscountStore: store, Now: discountNow}); !errors.Is(err, ErrCodeInvalid) {
		t.Errorf("err = %v, want ErrCodeInvalid", err)
	}
}

// TestExecuteIssueDiscount_MemberNotification verifies a member email also
// gets a dashboard notification, while strangers only get the email.
func TestExecuteIssueDiscount_MemberNotification(t *testing.T) {
	store := newMockDiscountStore()
	outbox := &mockOutboxStore{}
	clients := &mockClientStore{clients: map[string]client.Client{
		"client-1": {ID: "client-1", Email: "jo@example.com", Name: "Jo", Status: client.StatusActive},
	}}
	notifications := &mockNotificationStore{}

	deps := IssueDiscountDeps{
		DiscountStore:     store,
		OutboxStore:       outbox,
		ClientStore:       clients,
		NotificationStore: notifications,
		Now:               discountNow,
	}

	if _, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"}, deps); err != nil {
		t.Fatalf("issue for member: %v", err)
	}
	if len(notifications.saved) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications.saved))
	}
	n := notifications.saved[0]
	if n.ClientID != "client-1" || n.Kind != notification.KindDiscountIssued {
		t.Errorf("unexpected notification: client=%q kind=%q", n.ClientID, n.Kind)
	}

	if _, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "stranger@example.com"}, deps); err != nil {
		t.Fatalf("issue for stranger: %v", err)
	}
	if len(notifications.saved) != 1 {
		t.Errorf("stranger issuance must not add notifications, got %d", len(notifications.saved))
	}
}
