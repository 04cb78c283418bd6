package email

import (
	"context"
	"time"
)

// SendRequest carries everything the delivery provider needs for one email.
type SendRequest struct {
	To      []string // Recipient addresses
	From    string   // Sender address (e.g. "Iron Hall Strength <noreply@ironhallstrength.co.nz>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // Reply-to address, optional
}

// SendResult is the provider's acknowledgement of an accepted send.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
