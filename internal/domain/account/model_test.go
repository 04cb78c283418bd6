package account_test

import (
	"testing"
	"time"

	"ironhall/internal/domain/account"
)

// TestAccountValidation tests validation of Account.
func TestAccountValidation(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{
			name:    "valid admin",
			account: account.Account{Email: "studio@ironhall.fit", Role: account.RoleAdmin},
			wantErr: false,
		},
		{
			name:    "valid client",
			account: account.Account{Email: "jo@example.com", Role: account.RoleClient},
			wantErr: false,
		},
		{
			name:    "empty email",
			account: account.Account{Email: "", Role: account.RoleClient},
			wantErr: true,
		},
		{
			name:    "email without at sign",
			account: account.Account{Email: "not-an-email", Role: account.RoleClient},
			wantErr: true,
		},
		{
			name:    "invalid role",
			account: account.Account{Email: "jo@example.com", Role: "superuser"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestSetAndCheckPassword verifies bcrypt round-trip and minimum length.
func TestSetAndCheckPassword(t *testing.T) {
	a := account.Account{Email: "jo@example.com", Role: account.RoleClient}

	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("SetPassword(empty) = %v, want ErrEmptyPassword", err)
	}

	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword(correct) = %v, want nil", err)
	}
	if err := a.CheckPassword("wrong password here"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestLockout verifies the failed-login lockout rules.
func TestLockout(t *testing.T) {
	a := account.Account{Email: "jo@example.com", Role: account.RoleClient}

	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked after 4 failures, want unlocked")
	}

	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after 5 failures")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("ResetFailedLogins did not clear lock state")
	}
}

// TestActivate verifies the pending -> active transition.
func TestActivate(t *testing.T) {
	a := account.Account{Email: "jo@example.com", Role: account.RoleClient, Status: account.StatusPendingActivation}
	if err := a.Activate(); err != nil {
		t.Fatalf("Activate failed: %v", err)
	}
	if a.Status != account.StatusActive {
		t.Errorf("Status = %q, want active", a.Status)
	}
	if err := a.Activate(); err != account.ErrAlreadyActivated {
		t.Errorf("second Activate = %v, want ErrAlreadyActivated", err)
	}
}

// TestActivationTokenExpiry verifies the expiry check.
func TestActivationTokenExpiry(t *testing.T) {
	now := time.Now()
	tok := account.ActivationToken{ExpiresAt: now.Add(48 * time.Hour)}
	if tok.IsExpired(now) {
		t.Error("fresh token reported expired")
	}
	if !tok.IsExpired(now.Add(49 * time.Hour)) {
		t.Error("stale token reported valid")
	}
	tok.Invalidate()
	if !tok.Used {
		t.Error("Invalidate did not mark token used")
	}
}

// TestRoleHelpers verifies role predicates.
func TestRoleHelpers(t *testing.T) {
	admin := account.Account{Role: account.RoleAdmin}
	trainer := account.Account{Role: account.RoleTrainer}
	client := account.Account{Role: account.RoleClient}

	if !admin.IsAdmin() || !admin.IsStaff() {
		t.Error("admin predicates wrong")
	}
	if trainer.IsAdmin() || !trainer.IsStaff() {
		t.Error("trainer predicates wrong")
	}
	if client.IsAdmin() || client.IsStaff() {
		t.Error("client predicates wrong")
	}
}
