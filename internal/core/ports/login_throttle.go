package ports

import "context"

// LoginThrottle tracks failed login attempts per email so repeated failures
// can be slowed down. Backend errors are advisory: a broken throttle must
// never block logins.
type LoginThrottle interface {
	// TooMany reports whether the email has exceeded the failure budget.
	TooMany(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt against the email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, email string) error
}
