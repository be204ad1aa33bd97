package ports

import (
	"context"

	"github.com/pairprep/identity/internal/core/domain"
)

// UserRepository defines the interface for credential-store persistence.
// Implementations must enforce at-most-one record per email atomically at
// insert time: of two concurrent Creates with the same email, exactly one
// succeeds and the other fails with domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, update domain.UserUpdate) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]domain.User, error)
}
