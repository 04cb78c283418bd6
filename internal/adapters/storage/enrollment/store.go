package enrollment

import (
	"context"

	domain "ironhall/internal/domain/enrollment"
)

// Store persists Enrollment state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Enrollment, error)
	Save(ctx context.Context, e domain.Enrollment) error
	Delete(ctx context.Context, id string) error

	// ListByClient returns a client's enrollments, newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.Enrollment, error)

	// ListByStatus returns enrollments in the given status, oldest first.
	ListByStatus(ctx context.Context, status string) ([]domain.Enrollment, error)

	// GetOpenByClientAndProgram returns the client's open enrollment for a
	// program (pending, approved, or active), if any.
	GetOpenByClientAndProgram(ctx context.Context, clientID, programID string) (domain.Enrollment, error)
}
