package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/core/ports"
	"github.com/pairprep/identity/internal/token"
)

// emailPattern accepts the usual local@domain.tld shape: no whitespace, no
// second @, at least one dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements registration and login on top of the credential
// store and the token codec.
type AuthService struct {
	repo     ports.UserRepository
	codec    *token.Codec
	throttle ports.LoginThrottle
}

// NewAuthService wires an AuthService. throttle may be nil, in which case
// login attempts are not rate limited.
func NewAuthService(repo ports.UserRepository, codec *token.Codec, throttle ports.LoginThrottle) *AuthService {
	return &AuthService{repo: repo, codec: codec, throttle: throttle}
}

// Register validates in a fixed order, first failure wins: both fields
// present, email not already registered, email well formed, password strong
// enough. The raw password is hashed and discarded.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrMissingCredentials
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	if !emailPattern.MatchString(email) {
		return "", domain.ErrInvalidEmail
	}
	if !domain.ValidPassword(password) {
		return "", domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	// The store enforces email uniqueness atomically; a racing duplicate
	// surfaces here as ErrEmailTaken even though the lookup above passed.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// Login verifies credentials and mints a token. Unknown email and wrong
// password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	if email == "" || password == "" {
		return "", "", domain.ErrMissingCredentials
	}

	if over := s.throttled(ctx, email); over {
		return "", "", domain.ErrTooManyLogins
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", "", domain.ErrInvalidCredentials
	}

	signed, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, email)
	}
	return signed, user.Role, nil
}

// throttled checks the failure budget, failing open when the throttle
// backend is down or absent.
func (s *AuthService) throttled(ctx context.Context, email string) bool {
	if s.throttle == nil {
		return false
	}
	over, err := s.throttle.TooMany(ctx, email)
	return err == nil && over
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle != nil {
		_ = s.throttle.RecordFailure(ctx, email)
	}
}
