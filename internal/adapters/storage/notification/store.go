package notification

import (
	"context"

	domain "ironhall/internal/domain/notification"
)

// Store persists dashboard notifications.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Notification, error)
	Save(ctx context.Context, n domain.Notification) error

	// ListByClient returns a client's notifications, newest first.
	ListByClient(ctx context.Context, clientID string, unreadOnly bool) ([]domain.Notification, error)
}
