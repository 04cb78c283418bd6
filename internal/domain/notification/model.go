package notification

import (
	"errors"
	"strings"
	"time"
)

// Kind constants for dashboard notifications.
const (
	KindEnrollmentDecision = "enrollment_decision"
	KindDiscountIssued     = "discount_issued"
	KindGeneral            = "general"
)

// Notification is an in-app message shown on a client's dashboard.
type Notification struct {
	ID        string
	ClientID  string
	Kind      string
	Title     string
	Body      string
	ReadAt    time.Time
	CreatedAt time.Time
}

// Validate checks if the Notification has valid data.
// PRE: Notification struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (n *Notification) Validate() error {
	if n.ClientID == "" {
		return errors.New("client ID is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("notification title is required")
	}
	return nil
}

// IsRead returns true once the client has seen the notification.
// INVARIANT: Notification fields are not mutated
func (n *Notification) IsRead() bool {
	return !n.ReadAt.IsZero()
}

// MarkRead records when the client saw the notification.
// POST: ReadAt is set if not already
func (n *Notification) MarkRead(now time.Time) {
	if n.ReadAt.IsZero() {
		n.ReadAt = now
	}
}
