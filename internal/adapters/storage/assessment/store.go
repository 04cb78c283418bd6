package assessment

import (
	"context"

	domain "ironhall/internal/domain/assessment"
)

// Store persists assessment history for authenticated clients.
type Store interface {
	Save(ctx context.Context, r domain.Record) error

	// ListByClient returns a client's assessment history, newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.Record, error)
}
