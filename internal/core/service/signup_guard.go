package service

import (
	"context"
	"hash/fnv"
	"sync"
)

const defaultGuardShards = 64

// LocalSignupGuard is an in-process ports.SignupGuard. Emails are mapped to a
// fixed set of shards by consistent hashing, so the same email always
// contends on the same lock. Distinct emails may share a shard.
type LocalSignupGuard struct {
	shards []chan struct{}
}

// NewLocalSignupGuard creates a guard with n shards. If n <= 0,
// defaultGuardShards is used.
func NewLocalSignupGuard(n int) *LocalSignupGuard {
	if n <= 0 {
		n = defaultGuardShards
	}
	g := &LocalSignupGuard{shards: make([]chan struct{}, n)}
	for i := range g.shards {
		g.shards[i] = make(chan struct{}, 1)
	}
	return g
}

func (g *LocalSignupGuard) Acquire(ctx context.Context, email string) (func(), error) {
	shard := g.shards[g.shardIndex(email)]

	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-shard })
	}, nil
}

// shardIndex maps an email deterministically to a shard.
func (g *LocalSignupGuard) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(g.shards)))
}
