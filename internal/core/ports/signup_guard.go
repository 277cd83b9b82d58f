package ports

import "context"

// SignupGuard serialises sign-ups for the same email. Acquire blocks until
// the lock is held or ctx is done; the returned func releases it.
type SignupGuard interface {
	Acquire(ctx context.Context, email string) (release func(), err error)
}
