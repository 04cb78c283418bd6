package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ironhall/internal/domain/client"
	"ironhall/internal/domain/enrollment"
	"ironhall/internal/domain/notification"
	"ironhall/internal/domain/program"
)

// EnrollmentStoreForApply defines the store interface needed by enrollment orchestrators.
type EnrollmentStoreForApply interface {
	GetByID(ctx context.Context, id string) (enrollment.Enrollment, error)
	Save(ctx context.Context, e enrollment.Enrollment) error
	GetOpenByClientAndProgram(ctx context.Context, clientID, programID string) (enrollment.Enrollment, error)
}

// ClientStoreForEnroll looks up client profiles for enrollment flows.
type ClientStoreForEnroll interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
}

// ProgramStoreForEnroll looks up programs for enrollment flows.
type ProgramStoreForEnroll interface {
	GetByID(ctx context.Context, id string) (program.Program, error)
}

// NotificationStoreForEnroll records dashboard notifications.
type NotificationStoreForEnroll interface {
	Save(ctx context.Context, n notification.Notification) error
}

var (
	ErrAlreadyApplied  = errors.New("you already have an open application for this program")
	ErrProgramInactive = errors.New("this program is not open for enrollment")
	ErrClientInactive  = errors.New("client profile is not active")
)

// ApplyEnrollmentInput carries input for the application orchestrator.
type ApplyEnrollmentInput struct {
	ClientID          string
	ProgramID         string
	Goals             string
	PreferredSchedule string
	DiscountCode      string // Optional; spent here so the locked-in percent survives the review queue
}

// ApplyEnrollmentDeps holds dependencies for ApplyEnrollment.
type ApplyEnrollmentDeps struct {
	EnrollmentStore EnrollmentStoreForApply
	ClientStore     ClientStoreForEnroll
	ProgramStore    ProgramStoreForEnroll
	DiscountStore   DiscountStoreForIssue
	Now             func() time.Time
}

// ExecuteApplyEnrollment submits a client's application for a program.
// A valid discount code is redeemed immediately and its percent recorded on
// the enrollment, so later pricing uses the rate in force at application time.
// PRE: Client is active, program is active, no open application for the pair
// POST: Pending enrollment saved; discount token spent if one was given
func ExecuteApplyEnrollment(ctx context.Context, input ApplyEnrollmentInput, deps ApplyEnrollmentDeps) (string, error) {
	cl, err := deps.ClientStore.GetByID(ctx, input.ClientID)
	if err != nil {
		return "", errors.New("client not found")
	}
	if !cl.IsActive() {
		return "", ErrClientInactive
	}

	prog, err := deps.ProgramStore.GetByID(ctx, input.ProgramID)
	if err != nil {
		return "", errors.New("program not found")
	}
	if !prog.Active {
		return "", ErrProgramInactive
	}

	if _, err := deps.EnrollmentStore.GetOpenByClientAndProgram(ctx, input.ClientID, input.ProgramID); err == nil {
		return "", ErrAlreadyApplied
	}

	now := deps.Now()
	enr := enrollment.Enrollment{
		ID:                uuid.New().String(),
		ClientID:          input.ClientID,
		ProgramID:         input.ProgramID,
		Goals:             input.Goals,
		PreferredSchedule: input.PreferredSchedule,
		Status:            enrollment.StatusPending,
		AppliedAt:         now,
	}
	if err := enr.Validate(); err != nil {
		return "", err
	}

	// The token is spent only once the application itself is acceptable,
	// so a rejected application never consumes a single-use code.
	if input.DiscountCode != "" {
		result, err := ExecuteRedeemDiscount(ctx, RedeemDiscountInput{
			Code:  input.DiscountCode,
			Email: cl.Email,
		}, RedeemDiscountDeps{DiscountStore: deps.DiscountStore, Now: deps.Now})
		if err != nil {
			return "", err
		}
		enr.DiscountPercent = result.Percent
	}

	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return "", err
	}

	slog.Info("enrollment_event", "event", "application_submitted", "enrollment_id", enr.ID,
		"client_id", input.ClientID, "program_id", input.ProgramID, "discount_percent", enr.DiscountPercent)
	return enr.ID, nil
}

// ReviewEnrollmentInput carries input for the approve/decline orchestrator.
type ReviewEnrollmentInput struct {
	EnrollmentID string
	ReviewerID   string
	Approve      bool
	Note         string // Required when declining
}

// ReviewEnrollmentDeps holds dependencies for ReviewEnrollment.
type ReviewEnrollmentDeps struct {
	EnrollmentStore   EnrollmentStoreForApply
	ClientStore       ClientStoreForEnroll
	ProgramStore      ProgramStoreForEnroll
	NotificationStore NotificationStoreForEnroll
	OutboxStore       OutboxStoreForQueue
	Now               func() time.Time
}

// ExecuteReviewEnrollment records a staff decision and notifies the client.
// The dashboard notification is always written; the email respects the
// client's EmailOnDecision preference.
// PRE: Enrollment is pending; decline carries a reason
// POST: Status is approved or declined with reviewer and note recorded
func ExecuteReviewEnrollment(ctx context.Context, input ReviewEnrollmentInput, deps ReviewEnrollmentDeps) error {
	enr, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID)
	if err != nil {
		return errors.New("enrollment not found")
	}

	now := deps.Now()
	if input.Approve {
		err = enr.Approve(input.ReviewerID, input.Note, now)
	} else {
		err = enr.Decline(input.ReviewerID, input.Note, now)
	}
	if err != nil {
		return err
	}
	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return err
	}

	decision := "declined"
	if input.Approve {
		decision = "approved"
	}
	slog.Info("enrollment_event", "event", "application_"+decision, "enrollment_id", enr.ID,
		"reviewer_id", input.ReviewerID)

	cl, err := deps.ClientStore.GetByID(ctx, enr.ClientID)
	if err != nil {
		slog.Error("enrollment_event", "event", "notify_lookup_failed", "enrollment_id", enr.ID, "error", err.Error())
		return nil
	}
	programName := enr.ProgramID
	if prog, err := deps.ProgramStore.GetByID(ctx, enr.ProgramID); err == nil {
		programName = prog.Name
	}

	notif := notification.Notification{
		ID:        uuid.New().String(),
		ClientID:  cl.ID,
		Kind:      notification.KindEnrollmentDecision,
		Title:     "Application " + decision,
		Body:      "Your application for " + programName + " was " + decision + ".",
		CreatedAt: now,
	}
	if err := deps.NotificationStore.Save(ctx, notif); err != nil {
		slog.Error("enrollment_event", "event", "notification_save_failed", "enrollment_id", enr.ID, "error", err.Error())
	}

	if cl.EmailOnDecision {
		if html, err := BuildEnrollmentDecisionEmail(cl.Name, programName, input.Approve, input.Note); err == nil {
			subject := "Your Iron Hall application was " + decision
			if err := QueueEmail(ctx, deps.OutboxStore, cl.Email, subject, html); err != nil {
				slog.Error("enrollment_event", "event", "email_queue_failed", "enrollment_id", enr.ID, "error", err.Error())
			}
		}
	}

	return nil
}

// StartEnrollmentInput carries input for activating an approved enrollment.
type StartEnrollmentInput struct {
	EnrollmentID string
}

// ExecuteStartEnrollment moves an approved enrollment to active, stamping the
// end date from the program's duration.
// PRE: Enrollment is approved
// POST: Status active, EndsAt = now + duration
func ExecuteStartEnrollment(ctx context.Context, input StartEnrollmentInput, deps ReviewEnrollmentDeps) error {
	enr, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID)
	if err != nil {
		return errors.New("enrollment not found")
	}
	prog, err := deps.ProgramStore.GetByID(ctx, enr.ProgramID)
	if err != nil {
		return errors.New("program not found")
	}

	if err := enr.Start(deps.Now(), prog.DurationWeeks); err != nil {
		return err
	}
	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return err
	}

	slog.Info("enrollment_event", "event", "enrollment_started", "enrollment_id", enr.ID, "ends_at", enr.EndsAt)
	return nil
}

// CancelEnrollmentInput carries input for the client-side cancel orchestrator.
type CancelEnrollmentInput struct {
	EnrollmentID string
	ClientID     string // Must own the enrollment
}

// CancelEnrollmentDeps holds dependencies for CancelEnrollment.
type CancelEnrollmentDeps struct {
	EnrollmentStore EnrollmentStoreForApply
	Now             func() time.Time
}

// ExecuteCancelEnrollment lets a client withdraw an open or active enrollment.
// PRE: Enrollment belongs to the client and is pending, approved or active
// POST: Status cancelled with close time recorded
func ExecuteCancelEnrollment(ctx context.Context, input CancelEnrollmentInput, deps CancelEnrollmentDeps) error {
	enr, err := deps.EnrollmentStore.GetByID(ctx, input.EnrollmentID)
	if err != nil {
		return errors.New("enrollment not found")
	}
	if enr.ClientID != input.ClientID {
		return errors.New("enrollment not found")
	}

	if err := enr.Cancel(deps.Now()); err != nil {
		return err
	}
	if err := deps.EnrollmentStore.Save(ctx, enr); err != nil {
		return err
	}

	slog.Info("enrollment_event", "event", "enrollment_cancelled", "enrollment_id", enr.ID, "client_id", input.ClientID)
	return nil
}
