package orchestrators

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ironhall/internal/domain/account"
	"ironhall/internal/domain/client"
)

// ActivationTokenTTL is how long an emailed activation link stays valid.
const ActivationTokenTTL = 48 * time.Hour

// AccountStoreForSignup defines the store interface needed by Signup.
type AccountStoreForSignup interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	SaveActivationToken(ctx context.Context, t account.ActivationToken) error
	GetActivationTokenByHash(ctx context.Context, hash string) (account.ActivationToken, error)
}

// ClientStoreForSignup defines the client profile store interface needed by Signup.
type ClientStoreForSignup interface {
	Save(ctx context.Context, c client.Client) error
	GetByAccountID(ctx context.Context, accountID string) (client.Client, error)
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Goals    string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	AccountStore AccountStoreForSignup
	ClientStore  ClientStoreForSignup
	OutboxStore  OutboxStoreForQueue
	BaseURL      string // e.g. "https://ironhallstrength.co.nz"
}

// ExecuteSignup creates a pending account plus client profile and emails an activation link.
// The raw activation token is never stored; only its SHA-256 digest is.
// PRE: Email is unused, password >= 12 chars, name is non-empty
// POST: Account is pending_activation; activation email is queued
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (string, error) {
	if input.Name == "" {
		return "", errors.New("name is required")
	}

	accountID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Role:     account.RoleClient,
		Status:   account.StatusPendingActivation,
	}, CreateAccountDeps{AccountStore: accountStoreCountShim{deps.AccountStore}})
	if err != nil {
		return "", err
	}

	profile := client.Client{
		ID:              uuid.New().String(),
		AccountID:       accountID,
		Email:           input.Email,
		Name:            input.Name,
		Phone:           input.Phone,
		Goals:           input.Goals,
		Status:          client.StatusActive,
		EmailOnDecision: true,
		CreatedAt:       time.Now(),
	}
	if err := profile.Validate(); err != nil {
		return "", err
	}
	if err := deps.ClientStore.Save(ctx, profile); err != nil {
		return "", err
	}

	if err := issueActivationToken(ctx, accountID, input.Email, input.Name, deps); err != nil {
		// The account exists; the user can request a fresh link later.
		slog.Error("auth_event", "event", "activation_email_failed", "email", input.Email, "error", err.Error())
	}

	slog.Info("auth_event", "event", "signup", "email", input.Email)
	return accountID, nil
}

// accountStoreCountShim adapts the signup store to the create-account interface.
// Signup never seeds, so Count is unused.
type accountStoreCountShim struct {
	AccountStoreForSignup
}

func (accountStoreCountShim) Count(context.Context) (int, error) { return 1, nil }

func issueActivationToken(ctx context.Context, accountID, email, name string, deps SignupDeps) error {
	raw, err := generateActivationToken()
	if err != nil {
		return err
	}

	token := account.ActivationToken{
		ID:        uuid.New().String(),
		AccountID: accountID,
		TokenHash: hashActivationToken(raw),
		ExpiresAt: time.Now().Add(ActivationTokenTTL),
		CreatedAt: time.Now(),
	}
	if err := deps.AccountStore.SaveActivationToken(ctx, token); err != nil {
		return err
	}

	activationURL := fmt.Sprintf("%s/activate?token=%s", deps.BaseURL, raw)
	html, err := BuildActivationEmail(name, activationURL)
	if err != nil {
		return err
	}
	return QueueEmail(ctx, deps.OutboxStore, email, "Activate your Iron Hall account", html)
}

// ExecuteResendActivation issues a fresh activation link for a pending account.
// Unknown emails and already-active accounts succeed silently so the endpoint
// cannot be used to probe which addresses have accounts.
func ExecuteResendActivation(ctx context.Context, email string, deps SignupDeps) error {
	acct, err := deps.AccountStore.GetByEmail(ctx, email)
	if err != nil || !acct.IsPendingActivation() {
		slog.Info("auth_event", "event", "resend_activation_skipped", "email", email)
		return nil
	}

	name := email
	if profile, err := deps.ClientStore.GetByAccountID(ctx, acct.ID); err == nil {
		name = profile.Name
	}
	return issueActivationToken(ctx, acct.ID, acct.Email, name, deps)
}

var ErrActivationInvalid = errors.New("activation link is invalid or has expired")

// ExecuteActivate redeems an activation token and sets the account live.
// PRE: rawToken came from the emailed link
// POST: Account status is active, token is single-use spent
func ExecuteActivate(ctx context.Context, rawToken string, deps SignupDeps) error {
	if rawToken == "" {
		return ErrActivationInvalid
	}

	token, err := deps.AccountStore.GetActivationTokenByHash(ctx, hashActivationToken(rawToken))
	if err != nil {
		slog.Info("auth_event", "event", "activation_failed", "reason", "not_found")
		return ErrActivationInvalid
	}
	if token.Used || token.IsExpired(time.Now()) {
		slog.Info("auth_event", "event", "activation_failed", "reason", "spent_or_expired", "token_id", token.ID)
		return ErrActivationInvalid
	}

	acct, err := deps.AccountStore.GetByID(ctx, token.AccountID)
	if err != nil {
		return ErrActivationInvalid
	}
	if err := acct.Activate(); err != nil {
		return ErrActivationInvalid
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	token.Invalidate()
	if err := deps.AccountStore.SaveActivationToken(ctx, token); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "account_activated", "account_id", acct.ID)
	return nil
}

func generateActivationToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func hashActivationToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
