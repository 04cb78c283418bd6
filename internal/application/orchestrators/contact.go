package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ironhall/internal/domain/contact"
)

// ContactStoreForSubmit defines the store interface needed by SubmitContact.
type ContactStoreForSubmit interface {
	Save(ctx context.Context, m contact.Message) error
}

// SubmitContactInput carries input for the contact form orchestrator.
type SubmitContactInput struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// SubmitContactDeps holds dependencies for SubmitContact.
type SubmitContactDeps struct {
	ContactStore ContactStoreForSubmit
	OutboxStore  OutboxStoreForQueue
	ContactInbox string // Staff address that receives form submissions
}

// ExecuteSubmitContact stores a contact message and queues both notification emails.
// PRE: Name, email and body are present and within length caps
// POST: Message saved with status new; ack + staff emails queued
func ExecuteSubmitContact(ctx context.Context, input SubmitContactInput, deps SubmitContactDeps) (string, error) {
	msg := contact.Message{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Body:      input.Body,
		Status:    contact.StatusNew,
		CreatedAt: time.Now(),
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}
	if err := deps.ContactStore.Save(ctx, msg); err != nil {
		return "", err
	}

	// Email failures are logged, never surfaced: the message is already saved.
	if html, err := BuildContactAckEmail(msg.Name); err == nil {
		if err := QueueEmail(ctx, deps.OutboxStore, msg.Email, "We got your message", html); err != nil {
			slog.Error("contact_event", "event", "ack_queue_failed", "message_id", msg.ID, "error", err.Error())
		}
	}
	if deps.ContactInbox != "" {
		if html, err := BuildContactNotifyEmail(msg.Name, msg.Email, msg.Subject, msg.Body); err == nil {
			if err := QueueEmail(ctx, deps.OutboxStore, deps.ContactInbox, "New contact message: "+msg.Subject, html); err != nil {
				slog.Error("contact_event", "event", "notify_queue_failed", "message_id", msg.ID, "error", err.Error())
			}
		}
	}

	slog.Info("contact_event", "event", "message_received", "message_id", msg.ID, "email", msg.Email)
	return msg.ID, nil
}
