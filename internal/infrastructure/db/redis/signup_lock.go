package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/user-directory/internal/core/ports"
)

const (
	signupLockTTL   = 30 * time.Second
	signupLockRetry = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SignupLock serialises sign-ups per email using SET NX with a TTL.
// Key format: signup:<email>
type SignupLock struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SignupGuard = (*SignupLock)(nil)

// NewSignupLock creates a SignupLock wrapping the given Redis client.
func NewSignupLock(client *redis.Client) *SignupLock {
	return &SignupLock{client: client, ttl: signupLockTTL}
}

// Acquire polls until the lock for email is free or ctx is done.
func (l *SignupLock) Acquire(ctx context.Context, email string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	key := l.key(email)

	ticker := time.NewTicker(signupLockRetry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("signup lock: %w", err)
		}
		if ok {
			return func() {
				// Use a fresh context: the request may already be cancelled.
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *SignupLock) key(email string) string {
	return fmt.Sprintf("signup:%s", email)
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("signup lock token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
