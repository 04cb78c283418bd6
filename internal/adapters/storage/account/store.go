package account

import (
	"context"

	domain "ironhall/internal/domain/account"
)

// Store persists Account state and activation tokens.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, a domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Account, error)
	Count(ctx context.Context) (int, error)

	SaveActivationToken(ctx context.Context, t domain.ActivationToken) error
	GetActivationTokenByHash(ctx context.Context, tokenHash string) (domain.ActivationToken, error)
}
