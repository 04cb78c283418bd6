package contact

import (
	"context"

	domain "ironhall/internal/domain/contact"
)

// Store persists contact form submissions.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Message, error)
	Save(ctx context.Context, m domain.Message) error
	Delete(ctx context.Context, id string) error

	// List returns messages filtered by status ("" for all), newest first.
	List(ctx context.Context, status string) ([]domain.Message, error)
}
