package enrollment_test

import (
	"testing"
	"time"

	"ironhall/internal/domain/enrollment"
)

func validEnrollment() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:        "e1",
		ClientID:  "c1",
		ProgramID: "p1",
		Goals:     "Get stronger for climbing season",
		Status:    enrollment.StatusPending,
		AppliedAt: time.Now(),
	}
}

// TestEnrollmentValidation tests validation of Enrollment.
func TestEnrollmentValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*enrollment.Enrollment)
		wantErr bool
	}{
		{name: "valid", mutate: func(e *enrollment.Enrollment) {}, wantErr: false},
		{name: "no client", mutate: func(e *enrollment.Enrollment) { e.ClientID = "" }, wantErr: true},
		{name: "no program", mutate: func(e *enrollment.Enrollment) { e.ProgramID = "" }, wantErr: true},
		{name: "empty goals", mutate: func(e *enrollment.Enrollment) { e.Goals = "  " }, wantErr: true},
		{name: "discount out of range", mutate: func(e *enrollment.Enrollment) { e.DiscountPercent = 101 }, wantErr: true},
		{name: "missing applied_at", mutate: func(e *enrollment.Enrollment) { e.AppliedAt = time.Time{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEnrollment()
			tt.mutate(&e)
			err := e.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestApproveDecline verifies review decisions and their guards.
func TestApproveDecline(t *testing.T) {
	now := time.Now()

	e := validEnrollment()
	if err := e.Approve("admin1", "welcome aboard", now); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if e.Status != enrollment.StatusApproved || e.DecidedBy != "admin1" {
		t.Errorf("approve did not record decision: %+v", e)
	}
	if err := e.Approve("admin1", "", now); err != enrollment.ErrNotPending {
		t.Errorf("second Approve = %v, want ErrNotPending", err)
	}

	d := validEnrollment()
	if err := d.Decline("admin1", "", now); err != enrollment.ErrDeclineNoReason {
		t.Errorf("Decline without reason = %v, want ErrDeclineNoReason", err)
	}
	if err := d.Decline("admin1", "no capacity this term", now); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if d.Status != enrollment.StatusDeclined || d.ClosedAt.IsZero() {
		t.Errorf("decline did not close enrollment: %+v", d)
	}
}

// TestStartCompleteCancel verifies the approved -> active -> completed path.
func TestStartCompleteCancel(t *testing.T) {
	now := time.Now()

	e := validEnrollment()
	if err := e.Start(now, 8); err != enrollment.ErrNotApproved {
		t.Errorf("Start on pending = %v, want ErrNotApproved", err)
	}
	if err := e.Approve("admin1", "", now); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(now, 8); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	wantEnd := now.Add(8 * 7 * 24 * time.Hour)
	if !e.EndsAt.Equal(wantEnd) {
		t.Errorf("EndsAt = %v, want %v", e.EndsAt, wantEnd)
	}

	if !e.DueForCompletion(wantEnd.Add(time.Hour)) {
		t.Error("DueForCompletion false past end date")
	}
	if e.DueForCompletion(now) {
		t.Error("DueForCompletion true before end date")
	}

	if err := e.Complete(wantEnd.Add(time.Hour)); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if err := e.Cancel(now); err != enrollment.ErrAlreadyDecided {
		t.Errorf("Cancel on completed = %v, want ErrAlreadyDecided", err)
	}
}

// TestExpire verifies the pending-application TTL sweep rule.
func TestExpire(t *testing.T) {
	now := time.Now()

	fresh := validEnrollment()
	if fresh.Expire(now) {
		t.Error("fresh application expired")
	}

	stale := validEnrollment()
	stale.AppliedAt = now.Add(-enrollment.PendingTTL - time.Hour)
	if !stale.Expire(now) {
		t.Error("stale application not expired")
	}
	if stale.Status != enrollment.StatusExpired {
		t.Errorf("Status = %q, want expired", stale.Status)
	}

	// Only pending applications expire.
	approved := validEnrollment()
	approved.AppliedAt = now.Add(-30 * 24 * time.Hour)
	if err := approved.Approve("admin1", "", now); err != nil {
		t.Fatal(err)
	}
	if approved.Expire(now) {
		t.Error("approved enrollment expired")
	}
}
