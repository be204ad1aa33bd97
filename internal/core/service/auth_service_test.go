package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pairprep/identity/internal/core/domain"
	"github.com/pairprep/identity/internal/token"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update domain.UserUpdate) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if update.Username != "" {
		u.Username = update.Username
	}
	if update.PasswordHash != "" {
		u.PasswordHash = update.PasswordHash
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *cloneUser(u))
	}
	return all, nil
}

type stubThrottle struct {
	failures map[string]int
	limit    int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{failures: make(map[string]int), limit: limit}
}

func (t *stubThrottle) TooMany(_ context.Context, email string) (bool, error) {
	return t.failures[email] >= t.limit, nil
}

func (t *stubThrottle) RecordFailure(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	return nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *token.Codec) {
	codec, _ := token.NewCodec("test-secret", time.Hour)
	return NewAuthService(repo, codec, nil), codec
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	id, err := svc.Register(context.Background(), "alice", "alice@example.com", "Password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected user id, got empty")
	}

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("find after register: %v", err)
	}
	if stored.PasswordHash == "Password1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Password1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, stored.Role)
	}
}

func TestAuthService_Register_ValidationOrder(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "u", "", "Password1"); err != domain.ErrMissingCredentials {
		t.Fatalf("missing email: expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.Register(ctx, "u", "u@example.com", ""); err != domain.ErrMissingCredentials {
		t.Fatalf("missing password: expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.Register(ctx, "u", "not-an-email", "Password1"); err != domain.ErrInvalidEmail {
		t.Fatalf("bad email: expected ErrInvalidEmail, got %v", err)
	}
	if _, err := svc.Register(ctx, "u", "u@example.com", "Short1"); err != domain.ErrWeakPassword {
		t.Fatalf("short password: expected ErrWeakPassword, got %v", err)
	}
	if _, err := svc.Register(ctx, "u", "u@example.com", "alllowercase1"); err != domain.ErrWeakPassword {
		t.Fatalf("no uppercase: expected ErrWeakPassword, got %v", err)
	}
}

func TestAuthService_Register_DuplicateWinsOverFormat(t *testing.T) {
	// The duplicate check runs before the format and strength checks, so a
	// re-registration with a bad password still reports the conflict.
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "Password1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "bob@example.com", "short"); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, codec := newTestAuthService(repo)
	ctx := context.Background()

	id, err := svc.Register(ctx, "carol", "carol@example.com", "S3cretPass")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	signed, role, err := svc.Login(ctx, "carol@example.com", "S3cretPass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if role != domain.RoleUser {
		t.Fatalf("expected role %q, got %q", domain.RoleUser, role)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != id || claims.Email != "carol@example.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "dave", "dave@example.com", "GoodPass1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, wrongPass := svc.Login(ctx, "dave@example.com", "badpass")
	_, _, unknown := svc.Login(ctx, "ghost@example.com", "whatever")
	if wrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if unknown != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Login(context.Background(), "", "pass"); err != domain.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	codec, _ := token.NewCodec("test-secret", time.Hour)
	throttle := newStubThrottle(3)
	svc := NewAuthService(repo, codec, throttle)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "eve", "eve@example.com", "GoodPass1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Login(ctx, "eve@example.com", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}

	// Budget exhausted: even the right password is refused.
	if _, _, err := svc.Login(ctx, "eve@example.com", "GoodPass1"); err != domain.ErrTooManyLogins {
		t.Fatalf("expected ErrTooManyLogins, got %v", err)
	}

	// A success elsewhere clears the counter for that email only.
	throttle.Reset(ctx, "eve@example.com")
	if _, _, err := svc.Login(ctx, "eve@example.com", "GoodPass1"); err != nil {
		t.Fatalf("login after reset failed: %v", err)
	}
}
