package contact

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxBodyLength    = 5000
)

// Status constants for the contact inbox.
const (
	StatusNew      = "new"
	StatusReplied  = "replied"
	StatusArchived = "archived"
)

// Domain errors
var (
	ErrEmptyName    = errors.New("name is required")
	ErrEmptyMessage = errors.New("a message is required")
	ErrInvalidEmail = errors.New("a valid email address is required")
)

// Message is a submission from the public contact form.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	Status    string
	CreatedAt time.Time
	RepliedAt time.Time
}

// Validate checks if the Message has valid data.
// PRE: Message struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	if !strings.Contains(m.Email, "@") || strings.TrimSpace(m.Email) == "" {
		return ErrInvalidEmail
	}
	if len(m.Subject) > MaxSubjectLength {
		return errors.New("subject cannot exceed 200 characters")
	}
	if strings.TrimSpace(m.Body) == "" {
		return ErrEmptyMessage
	}
	if len(m.Body) > MaxBodyLength {
		return errors.New("message cannot exceed 5000 characters")
	}
	return nil
}

// MarkReplied records that the studio answered this message.
// POST: Status replied, RepliedAt set
func (m *Message) MarkReplied(now time.Time) {
	m.Status = StatusReplied
	m.RepliedAt = now
}

// MarkArchived moves the message out of the inbox.
// POST: Status archived
func (m *Message) MarkArchived() {
	m.Status = StatusArchived
}
