package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ironhall/internal/domain/client"
	"ironhall/internal/domain/discount"
	"ironhall/internal/domain/notification"
)

// DiscountStoreForIssue defines the store interface needed by discount orchestrators.
type DiscountStoreForIssue interface {
	GetByCodeHash(ctx context.Context, hash string) (discount.Token, error)
	Save(ctx context.Context, t discount.Token) error
	GetLiveByEmail(ctx context.Context, email string, now time.Time) (discount.Token, error)
	LastRedemption(ctx context.Context, email string) (time.Time, error)
}

// ClientStoreForDiscount resolves an email to a client profile so issuance
// can leave a dashboard notification for members.
type ClientStoreForDiscount interface {
	GetByEmail(ctx context.Context, email string) (client.Client, error)
}

var (
	// ErrNotEligible is the only issuance error callers see. The precise
	// refusal reason goes to the log, not the response.
	ErrNotEligible = errors.New("this email is not eligible for a discount right now")

	// ErrCodeInvalid is the only redemption error callers see.
	ErrCodeInvalid = errors.New("discount code is invalid or expired")
)

// IssueDiscountInput carries input for the issue orchestrator.
type IssueDiscountInput struct {
	Email   string
	Name    string // For the email greeting; falls back to the address
	Percent int    // 0 means discount.DefaultPercent
}

// IssueDiscountDeps holds dependencies for IssueDiscount. ClientStore and
// NotificationStore are optional; when set, members get a dashboard
// notification alongside the email.
type IssueDiscountDeps struct {
	DiscountStore     DiscountStoreForIssue
	OutboxStore       OutboxStoreForQueue
	ClientStore       ClientStoreForDiscount
	NotificationStore NotificationStoreForEnroll
	Now               func() time.Time
}

// IssueDiscountResult carries the outcome of a successful issuance.
type IssueDiscountResult struct {
	TokenID   string
	Code      string // Raw code; only ever stored hashed
	Percent   int
	ExpiresAt time.Time
}

// ExecuteIssueDiscount mints a single-use discount code and emails it to the address.
// Issuance is refused while the email has a live token or is inside the
// 30-day redemption cooldown. Only the SHA-256 digest of the code is persisted.
// PRE: Email is non-empty
// POST: Token saved hashed; code emailed via the outbox
// INVARIANT: At most one live token per email
func ExecuteIssueDiscount(ctx context.Context, input IssueDiscountInput, deps IssueDiscountDeps) (IssueDiscountResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return IssueDiscountResult{}, ErrNotEligible
	}
	now := deps.Now()

	lastRedeemed, err := deps.DiscountStore.LastRedemption(ctx, email)
	if err != nil {
		return IssueDiscountResult{}, err
	}
	if discount.CooldownActive(lastRedeemed, now) {
		slog.Info("discount_event", "event", "issue_refused", "email", email, "reason", "cooldown", "last_redeemed", lastRedeemed)
		return IssueDiscountResult{}, ErrNotEligible
	}

	if live, err := deps.DiscountStore.GetLiveByEmail(ctx, email, now); err == nil {
		slog.Info("discount_event", "event", "issue_refused", "email", email, "reason", "live_token_exists", "token_id", live.ID)
		return IssueDiscountResult{}, ErrNotEligible
	}

	code, err := discount.GenerateCode()
	if err != nil {
		return IssueDiscountResult{}, err
	}

	percent := input.Percent
	if percent == 0 {
		percent = discount.DefaultPercent
	}

	token := discount.Token{
		ID:        uuid.New().String(),
		Email:     email,
		CodeHash:  discount.HashCode(code),
		Percent:   percent,
		IssuedAt:  now,
		ExpiresAt: now.Add(discount.TokenTTL),
	}
	if err := token.Validate(); err != nil {
		return IssueDiscountResult{}, err
	}
	if err := deps.DiscountStore.Save(ctx, token); err != nil {
		return IssueDiscountResult{}, err
	}

	name := input.Name
	if name == "" {
		name = email
	}
	if html, err := BuildDiscountEmail(name, code, percent, token.ExpiresAt); err == nil {
		if err := QueueEmail(ctx, deps.OutboxStore, email, "Your Iron Hall discount code", html); err != nil {
			slog.Error("discount_event", "event", "email_queue_failed", "token_id", token.ID, "error", err.Error())
		}
	}

	if deps.ClientStore != nil && deps.NotificationStore != nil {
		if cl, err := deps.ClientStore.GetByEmail(ctx, email); err == nil {
			notif := notification.Notification{
				ID:        uuid.New().String(),
				ClientID:  cl.ID,
				Kind:      notification.KindDiscountIssued,
				Title:     "Your discount code is on its way",
				Body:      "Check your email for a single-use code. It expires in 72 hours.",
				CreatedAt: now,
			}
			if err := deps.NotificationStore.Save(ctx, notif); err != nil {
				slog.Error("discount_event", "event", "notification_save_failed", "token_id", token.ID, "error", err.Error())
			}
		}
	}

	slog.Info("discount_event", "event", "token_issued", "token_id", token.ID, "email", email, "percent", percent, "expires_at", token.ExpiresAt)

	return IssueDiscountResult{
		TokenID:   token.ID,
		Code:      code,
		Percent:   percent,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// RedeemDiscountInput carries input for the redeem orchestrator.
type RedeemDiscountInput struct {
	Code  string
	Email string
	// VerifyOnly checks eligibility without spending the token.
	VerifyOnly bool
}

// RedeemDiscountDeps holds dependencies for RedeemDiscount.
type RedeemDiscountDeps struct {
	DiscountStore DiscountStoreForIssue
	Now           func() time.Time
}

// RedeemDiscountResult carries the outcome of a successful redemption or verification.
type RedeemDiscountResult struct {
	TokenID string
	Percent int
}

// ExecuteRedeemDiscount validates and (unless VerifyOnly) spends a discount code.
// Every refusal surfaces as ErrCodeInvalid; the precise reason is logged so
// the endpoint leaks nothing about which codes or emails exist.
// PRE: Code and email are non-empty
// POST: On redeem, token marked used with redemption time
// INVARIANT: A token is spent at most once
func ExecuteRedeemDiscount(ctx context.Context, input RedeemDiscountInput, deps RedeemDiscountDeps) (RedeemDiscountResult, error) {
	if input.Code == "" || input.Email == "" {
		return RedeemDiscountResult{}, ErrCodeInvalid
	}
	now := deps.Now()
	email := strings.ToLower(strings.TrimSpace(input.Email))

	token, err := deps.DiscountStore.GetByCodeHash(ctx, discount.HashCode(input.Code))
	if err != nil {
		slog.Info("discount_event", "event", "redeem_refused", "email", email, "reason", "code_not_found")
		return RedeemDiscountResult{}, ErrCodeInvalid
	}
	// Constant-time confirmation of the presented code against the stored
	// digest, independent of how the store looked it up.
	if !token.MatchesCode(input.Code) {
		slog.Info("discount_event", "event", "redeem_refused", "email", email, "token_id", token.ID, "reason", "code_mismatch")
		return RedeemDiscountResult{}, ErrCodeInvalid
	}

	if err := token.CanRedeem(email, now); err != nil {
		slog.Info("discount_event", "event", "redeem_refused", "email", email, "token_id", token.ID, "reason", err.Error())
		return RedeemDiscountResult{}, ErrCodeInvalid
	}

	lastRedeemed, err := deps.DiscountStore.LastRedemption(ctx, email)
	if err != nil {
		return RedeemDiscountResult{}, err
	}
	if discount.CooldownActive(lastRedeemed, now) {
		slog.Info("discount_event", "event", "redeem_refused", "email", email, "token_id", token.ID, "reason", "cooldown", "last_redeemed", lastRedeemed)
		return RedeemDiscountResult{}, ErrCodeInvalid
	}

	if input.VerifyOnly {
		slog.Info("discount_event", "event", "token_verified", "token_id", token.ID, "email", email)
		return RedeemDiscountResult{TokenID: token.ID, Percent: token.Percent}, nil
	}

	if err := token.Redeem(email, now); err != nil {
		slog.Info("discount_event", "event", "redeem_refused", "email", email, "token_id", token.ID, "reason", err.Error())
		return RedeemDiscountResult{}, ErrCodeInvalid
	}
	if err := deps.DiscountStore.Save(ctx, token); err != nil {
		return RedeemDiscountResult{}, err
	}

	slog.Info("discount_event", "event", "token_redeemed", "token_id", token.ID, "email", email, "percent", token.Percent)
	return RedeemDiscountResult{TokenID: token.ID, Percent: token.Percent}, nil
}
