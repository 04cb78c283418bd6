package client

import (
	"context"

	domain "ironhall/internal/domain/client"
)

// Store persists Client state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Client, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Client, error)
	GetByEmail(ctx context.Context, email string) (domain.Client, error)
	Save(ctx context.Context, c domain.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Client, error)
}
