package enrollment

import (
	"errors"
	"strings"
	"time"
)

// Status constants for the enrollment lifecycle.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusExpired   = "expired"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// PendingTTL is how long an application may sit unreviewed before the
// maintenance sweep expires it.
const PendingTTL = 14 * 24 * time.Hour

// Max length constants for user-editable fields.
const (
	MaxGoalsLength    = 2000
	MaxScheduleLength = 500
)

// Domain errors
var (
	ErrNotPending       = errors.New("enrollment is not pending review")
	ErrNotApproved      = errors.New("enrollment is not approved")
	ErrNotActive        = errors.New("enrollment is not active")
	ErrDeclineNoReason  = errors.New("a decline reason is required")
	ErrAlreadyDecided   = errors.New("enrollment has already been decided")
	ErrEmptyGoals       = errors.New("a goals statement is required")
)

// Enrollment is a client's application to a program and its subsequent
// progress through it.
type Enrollment struct {
	ID                string
	ClientID          string
	ProgramID         string
	Goals             string // applicant's goals statement, markdown
	PreferredSchedule string
	DiscountPercent   int    // locked in at application time, 0 if none
	Status            string
	DecisionNote      string // reviewer note (approve) or reason (decline)
	DecidedBy         string // account ID of the reviewer
	AppliedAt         time.Time
	DecidedAt         time.Time
	StartedAt         time.Time
	EndsAt            time.Time // StartedAt + program duration
	ClosedAt          time.Time
}

// Validate checks if the Enrollment has valid data.
// PRE: Enrollment struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (e *Enrollment) Validate() error {
	if e.ClientID == "" {
		return errors.New("client ID is required")
	}
	if e.ProgramID == "" {
		return errors.New("program ID is required")
	}
	if strings.TrimSpace(e.Goals) == "" {
		return ErrEmptyGoals
	}
	if len(e.Goals) > MaxGoalsLength {
		return errors.New("goals cannot exceed 2000 characters")
	}
	if len(e.PreferredSchedule) > MaxScheduleLength {
		return errors.New("preferred schedule cannot exceed 500 characters")
	}
	if e.DiscountPercent < 0 || e.DiscountPercent > 100 {
		return errors.New("discount percent must be between 0 and 100")
	}
	if e.AppliedAt.IsZero() {
		return errors.New("applied_at must be set")
	}
	return nil
}

// IsOpen returns true while the application still needs attention
// (pending review, approved but not started, or in progress).
// INVARIANT: Enrollment fields are not mutated
func (e *Enrollment) IsOpen() bool {
	return e.Status == StatusPending || e.Status == StatusApproved || e.Status == StatusActive
}

// Approve records an approval decision.
// PRE: Enrollment is pending
// POST: Status approved, reviewer and decision time recorded
func (e *Enrollment) Approve(reviewerID, note string, now time.Time) error {
	if e.Status != StatusPending {
		return ErrNotPending
	}
	e.Status = StatusApproved
	e.DecidedBy = reviewerID
	e.DecisionNote = note
	e.DecidedAt = now
	return nil
}

// Decline records a decline decision. A reason is mandatory.
// PRE: Enrollment is pending, reason is non-empty
// POST: Status declined, reviewer, reason, and decision time recorded
func (e *Enrollment) Decline(reviewerID, reason string, now time.Time) error {
	if e.Status != StatusPending {
		return ErrNotPending
	}
	if strings.TrimSpace(reason) == "" {
		return ErrDeclineNoReason
	}
	e.Status = StatusDeclined
	e.DecidedBy = reviewerID
	e.DecisionNote = reason
	e.DecidedAt = now
	e.ClosedAt = now
	return nil
}

// Start activates an approved enrollment for the given program length.
// PRE: Enrollment is approved, durationWeeks > 0
// POST: Status active, StartedAt and EndsAt set
func (e *Enrollment) Start(now time.Time, durationWeeks int) error {
	if e.Status != StatusApproved {
		return ErrNotApproved
	}
	e.Status = StatusActive
	e.StartedAt = now
	e.EndsAt = now.Add(time.Duration(durationWeeks) * 7 * 24 * time.Hour)
	return nil
}

// Complete closes an active enrollment that ran its course.
// PRE: Enrollment is active
// POST: Status completed, ClosedAt set
func (e *Enrollment) Complete(now time.Time) error {
	if e.Status != StatusActive {
		return ErrNotActive
	}
	e.Status = StatusCompleted
	e.ClosedAt = now
	return nil
}

// Cancel closes an open enrollment at the client's request.
// PRE: Enrollment is open
// POST: Status cancelled, ClosedAt set
func (e *Enrollment) Cancel(now time.Time) error {
	if !e.IsOpen() {
		return ErrAlreadyDecided
	}
	e.Status = StatusCancelled
	e.ClosedAt = now
	return nil
}

// Expire closes a pending application that sat unreviewed past the TTL.
// PRE: Enrollment is pending
// POST: Status expired if stale, unchanged otherwise; returns true if expired
func (e *Enrollment) Expire(now time.Time) bool {
	if e.Status != StatusPending {
		return false
	}
	if now.Sub(e.AppliedAt) < PendingTTL {
		return false
	}
	e.Status = StatusExpired
	e.ClosedAt = now
	return true
}

// DueForCompletion returns true for active enrollments past their end date.
// INVARIANT: Enrollment fields are not mutated
func (e *Enrollment) DueForCompletion(now time.Time) bool {
	return e.Status == StatusActive && !e.EndsAt.IsZero() && now.After(e.EndsAt)
}
