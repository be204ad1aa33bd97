package ports

import (
	"context"

	"github.com/pairprep/identity/internal/core/domain"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	// UpdateProfile changes username and/or password for the given user.
	// Empty strings mean "leave unchanged"; both empty is an error.
	UpdateProfile(ctx context.Context, id, username, password string) error
	// Delete removes targetID. Actors may not delete their own record.
	Delete(ctx context.Context, actorID, targetID string) error
}
