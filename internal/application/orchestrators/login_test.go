package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"ironhall/internal/domain/account"
)

func loginFixture(t *testing.T) (LoginDeps, *mockAccountStore) {
	t.Helper()
	store := newMockAccountStore()
	if _, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "jo@example.com",
		Password: "a long enough password",
		Role:     account.RoleClient,
	}, CreateAccountDeps{AccountStore: store}); err != nil {
		t.Fatal(err)
	}
	return LoginDeps{AccountStore: store}, store
}

// TestExecuteLogin_Valid verifies good credentials return the account info.
func TestExecuteLogin_Valid(t *testing.T) {
	deps, _ := loginFixture(t)

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "jo@example.com",
		Password: "a long enough password",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Role != account.RoleClient || result.Email != "jo@example.com" {
		t.Errorf("result = %+v", result)
	}
	if result.Staff {
		t.Error("client login marked as staff")
	}
}

// TestExecuteLogin_StaffFlag verifies admins and trainers are flagged for
// the staff landing page while clients are not.
func TestExecuteLogin_StaffFlag(t *testing.T) {
	store := newMockAccountStore()
	for email, role := range map[string]string{
		"boss@example.com":    account.RoleAdmin,
		"trainer@example.com": account.RoleTrainer,
	} {
		if _, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
			Email:    email,
			Password: "a long enough password",
			Role:     role,
		}, CreateAccountDeps{AccountStore: store}); err != nil {
			t.Fatal(err)
		}

		result, err := ExecuteLogin(context.Background(), LoginInput{
			Email: email, Password: "a long enough password",
		}, LoginDeps{AccountStore: store})
		if err != nil {
			t.Fatalf("%s: %v", email, err)
		}
		if !result.Staff {
			t.Errorf("%s login not marked as staff", email)
		}
	}
}

// TestExecuteLogin_WrongPassword verifies the generic error and failure counting.
func TestExecuteLogin_WrongPassword(t *testing.T) {
	deps, store := loginFixture(t)

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "jo@example.com",
		Password: "wrong password entirely",
	}, deps)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}

	acct, _ := store.GetByEmail(context.Background(), "jo@example.com")
	if acct.FailedLogins != 1 {
		t.Errorf("FailedLogins = %d, want 1", acct.FailedLogins)
	}
}

// TestExecuteLogin_LockoutAfterFiveFailures verifies the lockout window engages.
func TestExecuteLogin_LockoutAfterFiveFailures(t *testing.T) {
	deps, store := loginFixture(t)

	for i := 0; i < 5; i++ {
		_, _ = ExecuteLogin(context.Background(), LoginInput{
			Email: "jo@example.com", Password: "wrong password entirely",
		}, deps)
	}

	acct, _ := store.GetByEmail(context.Background(), "jo@example.com")
	if !acct.IsLocked() {
		t.Fatal("account not locked after five failures")
	}
	if time.Until(acct.LockedUntil) <= 0 {
		t.Error("LockedUntil not in the future")
	}

	// Even correct credentials are refused while locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "jo@example.com", Password: "a long enough password",
	}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("err = %v, want ErrAccountLocked", err)
	}
}

// TestExecuteLogin_PendingActivationBlocked verifies unactivated accounts cannot log in.
func TestExecuteLogin_PendingActivationBlocked(t *testing.T) {
	store := newMockAccountStore()
	if _, err := ExecuteCreateAccount(context.Background(), CreateAccountInput{
		Email:    "new@example.com",
		Password: "a long enough password",
		Role:     account.RoleClient,
		Status:   account.StatusPendingActivation,
	}, CreateAccountDeps{AccountStore: store}); err != nil {
		t.Fatal(err)
	}

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "new@example.com", Password: "a long enough password",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrPendingActivation) {
		t.Errorf("err = %v, want ErrPendingActivation", err)
	}
}

// TestExecuteChangePassword verifies the happy path and wrong-current refusal.
func TestExecuteChangePassword(t *testing.T) {
	deps, store := loginFixture(t)
	acct, _ := store.GetByEmail(context.Background(), "jo@example.com")
	cpDeps := ChangePasswordDeps{AccountStore: store}

	err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       acct.ID,
		CurrentPassword: "not my password at all",
		NewPassword:     "a brand new password here",
	}, cpDeps)
	if !errors.Is(err, ErrCurrentPasswordWrong) {
		t.Errorf("err = %v, want ErrCurrentPasswordWrong", err)
	}

	if err := ExecuteChangePassword(context.Background(), ChangePasswordInput{
		AccountID:       acct.ID,
		CurrentPassword: "a long enough password",
		NewPassword:     "a brand new password here",
	}, cpDeps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ExecuteLogin(context.Background(), LoginInput{
		Email: "jo@example.com", Password: "a brand new password here",
	}, deps); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}
