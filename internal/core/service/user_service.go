package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/core/ports"
)

// UserService implements profile reads, self-service updates, and the
// admin-only list and delete operations.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListAll(ctx)
}

// UpdateProfile applies a username and/or password change. A new password is
// held to the same strength rule as registration.
func (s *UserService) UpdateProfile(ctx context.Context, id, username, password string) error {
	if username == "" && password == "" {
		return domain.ErrNothingToUpdate
	}

	update := domain.UserUpdate{Username: username}
	if password != "" {
		if !domain.ValidPassword(password) {
			return domain.ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		update.PasswordHash = string(hash)
	}

	return s.repo.Update(ctx, id, update)
}

// Delete removes targetID on behalf of actorID. Deleting one's own record is
// refused so an admin cannot lock themselves out mid-session.
func (s *UserService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrSelfDelete
	}
	return s.repo.Delete(ctx, targetID)
}
