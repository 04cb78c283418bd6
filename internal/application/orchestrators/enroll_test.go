package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ironhall/internal/domain/client"
	"ironhall/internal/domain/enrollment"
	"ironhall/internal/domain/notification"
	"ironhall/internal/domain/program"
)

// mockEnrollmentStore implements the enrollment store interfaces for testing.
type mockEnrollmentStore struct {
	enrollments map[string]enrollment.Enrollment
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{enrollments: make(map[string]enrollment.Enrollment)}
}

func (m *mockEnrollmentStore) GetByID(_ context.Context, id string) (enrollment.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return enrollment.Enrollment{}, errors.New("not found")
	}
	return e, nil
}

func (m *mockEnrollmentStore) Save(_ context.Context, e enrollment.Enrollment) error {
	m.enrollments[e.ID] = e
	return nil
}

func (m *mockEnrollmentStore) GetOpenByClientAndProgram(_ context.Context, clientID, programID string) (enrollment.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.ClientID == clientID && e.ProgramID == programID && e.IsOpen() {
			return e, nil
		}
	}
	return enrollment.Enrollment{}, errors.New("not found")
}

func (m *mockEnrollmentStore) ListByStatus(_ context.Context, status string) ([]enrollment.Enrollment, error) {
	var out []enrollment.Enrollment
	for _, e := range m.enrollments {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockClientStore implements ClientStoreForEnroll.
type mockClientStore struct {
	clients map[string]client.Client
}

func (m *mockClientStore) GetByID(_ context.Context, id string) (client.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return client.Client{}, errors.New("not found")
	}
	return c, nil
}

func (m *mockClientStore) GetByEmail(_ context.Context, email string) (client.Client, error) {
	for _, c := range m.clients {
		if c.Email == email {
			return c, nil
		}
	}
	return client.Client{}, errors.New("not found")
}

// mockProgramStore implements ProgramStoreForEnroll.
type mockProgramStore struct {
	programs map[string]program.Program
}

func (m *mockProgramStore) GetByID(_ context.Context, id string) (program.Program, error) {
	p, ok := m.programs[id]
	if !ok {
		return program.Program{}, errors.New("not found")
	}
	return p, nil
}

// mockNotificationStore implements NotificationStoreForEnroll.
type mockNotificationStore struct {
	saved []notification.Notification
}

func (m *mockNotificationStore) Save(_ context.Context, n notification.Notification) error {
	m.saved = append(m.saved, n)
	return nil
}

var enrollFixedTime = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func enrollNow() time.Time { return enrollFixedTime }

func enrollFixture() (ApplyEnrollmentDeps, *mockEnrollmentStore, *mockDiscountStore) {
	enrollments := newMockEnrollmentStore()
	discounts := newMockDiscountStore()
	clients := &mockClientStore{clients: map[string]client.Client{
		"client-1": {ID: "client-1", AccountID: "acc-1", Email: "jo@example.com", Name: "Jo",
			Status: client.StatusActive, EmailOnDecision: true},
	}}
	programs := &mockProgramStore{programs: map[string]program.Program{
		"prog-1": {ID: "prog-1", Slug: "strength-block", Name: "Strength Block",
			Level: program.LevelIntermediate, DurationWeeks: 12, PriceCents: 64900, Active: true},
		"prog-closed": {ID: "prog-closed", Slug: "retired", Name: "Retired",
			Level: program.LevelFoundation, DurationWeeks: 8, PriceCents: 44900, Active: false},
	}}
	return ApplyEnrollmentDeps{
		EnrollmentStore: enrollments,
		ClientStore:     clients,
		ProgramStore:    programs,
		DiscountStore:   discounts,
		Now:             enrollNow,
	}, enrollments, discounts
}

// --- ExecuteApplyEnrollment tests ---

// TestExecuteApplyEnrollment_HappyPath verifies a pending application is created.
func TestExecuteApplyEnrollment_HappyPath(t *testing.T) {
	deps, store, _ := enrollFixture()

	id, err := ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID:          "client-1",
		ProgramID:         "prog-1",
		Goals:             "squat 2x bodyweight",
		PreferredSchedule: "weekday mornings",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enr := store.enrollments[id]
	if enr.Status != enrollment.StatusPending {
		t.Errorf("status = %s, want pending", enr.Status)
	}
	if enr.DiscountPercent != 0 {
		t.Errorf("discount = %d, want 0", enr.DiscountPercent)
	}
	if !enr.AppliedAt.Equal(enrollFixedTime) {
		t.Errorf("AppliedAt = %v", enr.AppliedAt)
	}
}

// TestExecuteApplyEnrollment_WithDiscountCode verifies the code is spent and the percent locked in.
func TestExecuteApplyEnrollment_WithDiscountCode(t *testing.T) {
	deps, store, discounts := enrollFixture()

	issued, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"},
		IssueDiscountDeps{DiscountStore: discounts, OutboxStore: &mockOutboxStore{}, Now: enrollNow})
	if err != nil {
		t.Fatal(err)
	}

	id, err := ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID:     "client-1",
		ProgramID:    "prog-1",
		Goals:        "first powerlifting meet",
		DiscountCode: issued.Code,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.enrollments[id].DiscountPercent != issued.Percent {
		t.Errorf("locked percent = %d, want %d", store.enrollments[id].DiscountPercent, issued.Percent)
	}
	if !discounts.tokens[issued.TokenID].Used {
		t.Error("discount token not spent at application time")
	}
}

// TestExecuteApplyEnrollment_RejectedApplicationKeepsTokenLive verifies an
// application that fails validation never spends the discount code.
func TestExecuteApplyEnrollment_RejectedApplicationKeepsTokenLive(t *testing.T) {
	deps, store, discounts := enrollFixture()

	issued, err := ExecuteIssueDiscount(context.Background(), IssueDiscountInput{Email: "jo@example.com"},
		IssueDiscountDeps{DiscountStore: discounts, OutboxStore: &mockOutboxStore{}, Now: enrollNow})
	if err != nil {
		t.Fatal(err)
	}

	_, err = ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID:     "client-1",
		ProgramID:    "prog-1",
		Goals:        "   ",
		DiscountCode: issued.Code,
	}, deps)
	if err == nil {
		t.Fatal("expected validation error for blank goals")
	}
	if discounts.tokens[issued.TokenID].Used {
		t.Error("rejected application spent the discount token")
	}
	if len(store.enrollments) != 0 {
		t.Errorf("expected no saved enrollments, got %d", len(store.enrollments))
	}

	// The same token still works for a correct application afterwards.
	id, err := ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID:     "client-1",
		ProgramID:    "prog-1",
		Goals:        "first powerlifting meet",
		DiscountCode: issued.Code,
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.enrollments[id].DiscountPercent != issued.Percent {
		t.Errorf("locked percent = %d, want %d", store.enrollments[id].DiscountPercent, issued.Percent)
	}
}

// TestExecuteApplyEnrollment_BadDiscountCodeRejectsApplication verifies nothing is saved on a bad code.
func TestExecuteApplyEnrollment_BadDiscountCodeRejectsApplication(t *testing.T) {
	deps, store, _ := enrollFixture()

	_, err := ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID:     "client-1",
		ProgramID:    "prog-1",
		Goals:        "goals",
		DiscountCode: "IH-FAKE-FAKE-FAKE",
	}, deps)
	if !errors.Is(err, ErrCodeInvalid) {
		t.Errorf("err = %v, want ErrCodeInvalid", err)
	}
	if len(store.enrollments) != 0 {
		t.Error("enrollment saved despite invalid code")
	}
}

// TestExecuteApplyEnrollment_DuplicateOpen verifies one open application per client/program pair.
func TestExecuteApplyEnrollment_DuplicateOpen(t *testing.T) {
	deps, _, _ := enrollFixture()
	input := ApplyEnrollmentInput{ClientID: "client-1", ProgramID: "prog-1", Goals: "goals"}

	if _, err := ExecuteApplyEnrollment(context.Background(), input, deps); err != nil {
		t.Fatal(err)
	}
	if _, err := ExecuteApplyEnrollment(context.Background(), input, deps); !errors.Is(err, ErrAlreadyApplied) {
		t.Errorf("err = %v, want ErrAlreadyApplied", err)
	}
}

// TestExecuteApplyEnrollment_InactiveProgram verifies closed programs refuse applications.
func TestExecuteApplyEnrollment_InactiveProgram(t *testing.T) {
	deps, _, _ := enrollFixture()

	_, err := ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID: "client-1", ProgramID: "prog-closed", Goals: "goals",
	}, deps)
	if !errors.Is(err, ErrProgramInactive) {
		t.Errorf("err = %v, want ErrProgramInactive", err)
	}
}

// --- ExecuteReviewEnrollment tests ---

func reviewFixture(t *testing.T) (ReviewEnrollmentDeps, *mockEnrollmentStore, *mockNotificationStore, *mockOutboxStore, string) {
	t.Helper()
	applyDeps, store, _ := enrollFixture()
	id, err := ExecuteApplyEnrollment(context.Background(), ApplyEnrollmentInput{
		ClientID: "client-1", ProgramID: "prog-1", Goals: "goals",
	}, applyDeps)
	if err != nil {
		t.Fatal(err)
	}

	notifications := &mockNotificationStore{}
	outbox := &mockOutboxStore{}
	deps := ReviewEnrollmentDeps{
		EnrollmentStore:   store,
		ClientStore:       applyDeps.ClientStore,
		ProgramStore:      applyDeps.ProgramStore,
		NotificationStore: notifications,
		OutboxStore:       outbox,
		Now:               enrollNow,
	}
	return deps, store, notifications, outbox, id
}

// TestExecuteReviewEnrollment_Approve verifies approval records the decision and notifies.
func TestExecuteReviewEnrollment_Approve(t *testing.T) {
	deps, store, notifications, outbox, id := reviewFixture(t)

	err := ExecuteReviewEnrollment(context.Background(), ReviewEnrollmentInput{
		EnrollmentID: id, ReviewerID: "trainer-1", Approve: true, Note: "see you Monday",
	}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enr := store.enrollments[id]
	if enr.Status != enrollment.StatusApproved {
		t.Errorf("status = %s, want approved", enr.Status)
	}
	if enr.DecidedBy != "trainer-1" {
		t.Errorf("DecidedBy = %s", enr.DecidedBy)
	}
	if len(notifications.saved) != 1 || notifications.saved[0].Kind != notification.KindEnrollmentDecision {
		t.Errorf("notifications = %+v", notifications.saved)
	}
	if len(outbox.entries) != 1 {
		t.Errorf("queued %d emails, want 1", len(outbox.entries))
	}
	if !strings.Contains(outbox.entries[0].Payload, "approved") {
		t.Error("decision email does not mention approval")
	}
}

// TestExecuteReviewEnrollment_DeclineRequiresReason verifies decline without a note fails.
func TestExecuteReviewEnrollment_DeclineRequiresReason(t *testing.T) {
	deps, store, _, _, id := reviewFixture(t)

	err := ExecuteReviewEnrollment(context.Background(), ReviewEnrollmentInput{
		EnrollmentID: id, ReviewerID: "trainer-1", Approve: false,
	}, deps)
	if !errors.Is(err, enrollment.ErrDeclineNoReason) {
		t.Errorf("err = %v, want ErrDeclineNoReason", err)
	}
	if store.enrollments[id].Status != enrollment.StatusPending {
		t.Error("status changed despite failed decline")
	}
}

// TestExecuteReviewEnrollment_EmailPreferenceRespected verifies opted-out clients get no email.
func TestExecuteReviewEnrollment_EmailPreferenceRespected(t *testing.T) {
	deps, _, notifications, outbox, id := reviewFixture(t)
	cs := deps.ClientStore.(*mockClientStore)
	cl := cs.clients["client-1"]
	cl.EmailOnDecision = false
	cs.clients["client-1"] = cl

	err := ExecuteReviewEnrollment(context.Background(), ReviewEnrollmentInput{
		EnrollmentID: id, ReviewerID: "trainer-1", Approve: false, Note: "waitlist full",
	}, deps)
	if err != nil {
		t.Fatal(err)
	}
	if len(outbox.entries) != 0 {
		t.Error("email queued despite opt-out")
	}
	// The dashboard notification still lands.
	if len(notifications.saved) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifications.saved))
	}
}

// --- ExecuteStartEnrollment / ExecuteCancelEnrollment tests ---

// TestExecuteStartEnrollment verifies activation stamps the program-length end date.
func TestExecuteStartEnrollment(t *testing.T) {
	deps, store, _, _, id := reviewFixture(t)
	if err := ExecuteReviewEnrollment(context.Background(), ReviewEnrollmentInput{
		EnrollmentID: id, ReviewerID: "trainer-1", Approve: true,
	}, deps); err != nil {
		t.Fatal(err)
	}

	if err := ExecuteStartEnrollment(context.Background(), StartEnrollmentInput{EnrollmentID: id}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	enr := store.enrollments[id]
	if enr.Status != enrollment.StatusActive {
		t.Errorf("status = %s, want active", enr.Status)
	}
	want := enrollFixedTime.Add(12 * 7 * 24 * time.Hour)
	if !enr.EndsAt.Equal(want) {
		t.Errorf("EndsAt = %v, want %v", enr.EndsAt, want)
	}
}

// TestExecuteCancelEnrollment_OwnershipEnforced verifies a client cannot cancel someone else's enrollment.
func TestExecuteCancelEnrollment_OwnershipEnforced(t *testing.T) {
	deps, store, _, _, id := reviewFixture(t)
	cancelDeps := CancelEnrollmentDeps{EnrollmentStore: deps.EnrollmentStore.(*mockEnrollmentStore), Now: enrollNow}

	if err := ExecuteCancelEnrollment(context.Background(), CancelEnrollmentInput{
		EnrollmentID: id, ClientID: "client-2",
	}, cancelDeps); err == nil {
		t.Error("foreign cancel succeeded")
	}

	if err := ExecuteCancelEnrollment(context.Background(), CancelEnrollmentInput{
		EnrollmentID: id, ClientID: "client-1",
	}, cancelDeps); err != nil {
		t.Fatalf("own cancel failed: %v", err)
	}
	if store.enrollments[id].Status != enrollment.StatusCancelled {
		t.Errorf("status = %s, want cancelled", store.enrollments[id].Status)
	}
}

// --- ExecuteEnrollmentSweep tests ---

// TestExecuteEnrollmentSweep verifies stale pending expiry and past-end completion.
func TestExecuteEnrollmentSweep(t *testing.T) {
	store := newMockEnrollmentStore()

	stale := enrollment.Enrollment{
		ID: "enr-stale", ClientID: "client-1", ProgramID: "prog-1", Goals: "goals",
		Status: enrollment.StatusPending, AppliedAt: enrollFixedTime.Add(-enrollment.PendingTTL - time.Hour),
	}
	fresh := enrollment.Enrollment{
		ID: "enr-fresh", ClientID: "client-2", ProgramID: "prog-1", Goals: "goals",
		Status: enrollment.StatusPending, AppliedAt: enrollFixedTime.Add(-time.Hour),
	}
	finished := enrollment.Enrollment{
		ID: "enr-done", ClientID: "client-3", ProgramID: "prog-1", Goals: "goals",
		Status: enrollment.StatusActive, AppliedAt: enrollFixedTime.Add(-100 * 24 * time.Hour),
		StartedAt: enrollFixedTime.Add(-90 * 24 * time.Hour), EndsAt: enrollFixedTime.Add(-24 * time.Hour),
	}
	running := enrollment.Enrollment{
		ID: "enr-running", ClientID: "client-4", ProgramID: "prog-1", Goals: "goals",
		Status: enrollment.StatusActive, AppliedAt: enrollFixedTime.Add(-10 * 24 * time.Hour),
		StartedAt: enrollFixedTime.Add(-7 * 24 * time.Hour), EndsAt: enrollFixedTime.Add(30 * 24 * time.Hour),
	}
	for _, e := range []enrollment.Enrollment{stale, fresh, finished, running} {
		store.enrollments[e.ID] = e
	}

	result, err := ExecuteEnrollmentSweep(context.Background(), SweepDeps{EnrollmentStore: store, Now: enrollNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Expired != 1 || result.Completed != 1 {
		t.Errorf("result = %+v, want 1 expired, 1 completed", result)
	}
	if store.enrollments["enr-stale"].Status != enrollment.StatusExpired {
		t.Error("stale pending not expired")
	}
	if store.enrollments["enr-fresh"].Status != enrollment.StatusPending {
		t.Error("fresh pending touched")
	}
	if store.enrollments["enr-done"].Status != enrollment.StatusCompleted {
		t.Error("finished active not completed")
	}
	if store.enrollments["enr-running"].Status != enrollment.StatusActive {
		t.Error("running active touched")
	}
}
