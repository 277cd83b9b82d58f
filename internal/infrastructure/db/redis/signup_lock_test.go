package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLock(t *testing.T) (*SignupLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSignupLock(client), mr
}

func TestSignupLock_Key(t *testing.T) {
	l := NewSignupLock(nil)
	if got := l.key("a@x.com"); got != "signup:a@x.com" {
		t.Fatalf("unexpected key: %s", got)
	}
	if l.ttl != signupLockTTL {
		t.Fatalf("unexpected ttl: %v", l.ttl)
	}
}

func TestSignupLock_AcquireAndRelease(t *testing.T) {
	l, mr := newTestLock(t)

	release, err := l.Acquire(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !mr.Exists("signup:a@x.com") {
		t.Fatalf("expected lock key to be set")
	}
	if ttl := mr.TTL("signup:a@x.com"); ttl <= 0 || ttl > signupLockTTL {
		t.Fatalf("unexpected ttl: %v", ttl)
	}

	release()
	if mr.Exists("signup:a@x.com") {
		t.Fatalf("expected lock key to be deleted on release")
	}
}

func TestSignupLock_SecondAcquireWaitsForRelease(t *testing.T) {
	l, _ := newTestLock(t)

	release, err := l.Acquire(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	acquired := make(chan func(), 1)
	errs := make(chan error, 1)
	go func() {
		r, err := l.Acquire(context.Background(), "a@x.com")
		if err != nil {
			errs <- err
			return
		}
		acquired <- r
	}()

	select {
	case <-acquired:
		t.Fatalf("second acquire must wait while the lock is held")
	case err := <-errs:
		t.Fatalf("second acquire: %v", err)
	case <-time.After(3 * signupLockRetry):
	}

	release()

	select {
	case r := <-acquired:
		r()
	case err := <-errs:
		t.Fatalf("second acquire: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("second acquire did not proceed after release")
	}
}

func TestSignupLock_OtherEmailDoesNotWait(t *testing.T) {
	l, _ := newTestLock(t)

	release, err := l.Acquire(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), signupLockRetry/2)
	defer cancel()
	other, err := l.Acquire(ctx, "b@x.com")
	if err != nil {
		t.Fatalf("different email should acquire immediately: %v", err)
	}
	other()
}

func TestSignupLock_ReleaseKeepsAnotherHoldersKey(t *testing.T) {
	l, mr := newTestLock(t)

	release, err := l.Acquire(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	// Our lock expired and another instance took it over.
	if err := mr.Set("signup:a@x.com", "other-token"); err != nil {
		t.Fatalf("set: %v", err)
	}

	release()

	got, err := mr.Get("signup:a@x.com")
	if err != nil {
		t.Fatalf("expected key to survive release: %v", err)
	}
	if got != "other-token" {
		t.Fatalf("unexpected holder: %q", got)
	}
}

func TestSignupLock_WaitingAcquireHonoursContext(t *testing.T) {
	l, _ := newTestLock(t)

	release, err := l.Acquire(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 3*signupLockRetry)
	defer cancel()

	if _, err := l.Acquire(ctx, "a@x.com"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestSignupLock_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := NewSignupLock(client).Acquire(ctx, "a@x.com"); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}

func TestNewToken_Unique(t *testing.T) {
	a, err := newToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	b, _ := newToken()
	if a == b || len(a) != 32 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}
