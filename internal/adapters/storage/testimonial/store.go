package testimonial

import (
	"context"

	domain "ironhall/internal/domain/testimonial"
)

// Store persists Testimonial state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Testimonial, error)
	Save(ctx context.Context, tm domain.Testimonial) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Testimonial, error)
	ListPublished(ctx context.Context) ([]domain.Testimonial, error)
}
