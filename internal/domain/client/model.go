package client

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxGoalsLength = 2000
)

// Business rule constants
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusArchived = "archived"
)

// Domain errors
var (
	ErrAlreadyArchived = errors.New("client is already archived")
	ErrNotArchived     = errors.New("client is not archived")
)

// Client holds the profile for a training client.
type Client struct {
	ID               string
	AccountID        string
	Email            string
	Name             string
	Phone            string
	DateOfBirth      string // YYYY-MM-DD, optional
	Goals            string // markdown
	EmergencyContact string
	Status           string
	EmailOnDecision  bool // notify by email when an enrollment is decided
	PromoOptIn       bool // promotional email opt-in
	CreatedAt        time.Time
}

// Validate checks if the Client has valid data.
// PRE: Client struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("client name cannot be empty")
	}
	if len(c.Name) > MaxNameLength {
		return errors.New("client name cannot exceed 100 characters")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("client email must be valid")
	}
	if len(c.Goals) > MaxGoalsLength {
		return errors.New("goals cannot exceed 2000 characters")
	}
	if c.Status != StatusActive && c.Status != StatusInactive && c.Status != StatusArchived {
		return errors.New("status must be 'active', 'inactive', or 'archived'")
	}
	return nil
}

// IsActive returns true if the client is currently active.
// INVARIANT: Status field is not mutated
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// Archive sets the client status to archived.
// PRE: Client is not already archived
// POST: Status is set to archived
func (c *Client) Archive() error {
	if c.Status == StatusArchived {
		return ErrAlreadyArchived
	}
	c.Status = StatusArchived
	return nil
}

// Restore sets the client status back to active.
// PRE: Client is currently archived
// POST: Status is set to active
func (c *Client) Restore() error {
	if c.Status != StatusArchived {
		return ErrNotArchived
	}
	c.Status = StatusActive
	return nil
}
