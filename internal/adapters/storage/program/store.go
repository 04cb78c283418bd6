package program

import (
	"context"

	domain "ironhall/internal/domain/program"
)

// Store persists Program state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Program, error)
	GetBySlug(ctx context.Context, slug string) (domain.Program, error)
	Save(ctx context.Context, p domain.Program) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Program, error)
	ListActive(ctx context.Context) ([]domain.Program, error)
}
