package ports

import "context"

type AuthService interface {
	// Register validates and creates an account, returning the new user id.
	Register(ctx context.Context, username, email, password string) (string, error)
	// Login verifies credentials and returns a signed identity token plus
	// the user's role.
	Login(ctx context.Context, email, password string) (token string, role string, err error)
}
