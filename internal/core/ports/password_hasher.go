package ports

import "context"

// PasswordHasher produces and checks self-describing password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, storedHash, plaintext string) (bool, error)
}
