package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-directory/internal/core/domain"
)

func records(emails ...string) []domain.UserRecord {
	out := make([]domain.UserRecord, 0, len(emails))
	for i, e := range emails {
		out = append(out, domain.UserRecord{Email: e, PasswordHash: "h", CreationTimestamp: int64(i + 1)})
	}
	return out
}

func TestLoad_FetchesOnce(t *testing.T) {
	var calls int32
	c := New(func(context.Context) ([]domain.UserRecord, error) {
		atomic.AddInt32(&calls, 1)
		return records("a@x.com", "b@x.com"), nil
	})

	for i := 0; i < 3; i++ {
		got, err := c.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, c.Loaded())
}

func TestLoad_ConcurrentFirstCallsShareFetch(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := New(func(context.Context) ([]domain.UserRecord, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return records("a@x.com"), nil
	})

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.Load(context.Background())
			if err == nil && len(got) != 1 {
				err = errors.New("unexpected record count")
			}
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoad_FailureLeavesCacheEmpty(t *testing.T) {
	fail := true
	c := New(func(context.Context) ([]domain.UserRecord, error) {
		if fail {
			return nil, errors.New("store down")
		}
		return records("a@x.com"), nil
	})

	_, err := c.Load(context.Background())
	require.Error(t, err)
	assert.False(t, c.Loaded())

	fail = false
	got, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestLoad_ReturnsSnapshot(t *testing.T) {
	c := New(func(context.Context) ([]domain.UserRecord, error) {
		return records("a@x.com"), nil
	})

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	got[0].Email = "mutated@x.com"

	again, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", again[0].Email)
}

func TestLoad_CallerCancelled(t *testing.T) {
	release := make(chan struct{})
	c := New(func(context.Context) ([]domain.UserRecord, error) {
		<-release
		return records("a@x.com"), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	got, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAppend(t *testing.T) {
	c := New(func(context.Context) ([]domain.UserRecord, error) {
		return records("a@x.com"), nil
	})

	err := c.Append(domain.UserRecord{Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = c.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.Append(domain.UserRecord{Email: "b@x.com"}))

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a@x.com", got[0].Email)
	assert.Equal(t, "b@x.com", got[1].Email)
	assert.Equal(t, 2, c.Len())
}

func TestPopulate_MergesByEmail(t *testing.T) {
	c := New(nil)
	c.populate(records("a@x.com", "b@x.com"))
	c.populate(append(records("b@x.com", "c@x.com"), domain.UserRecord{Email: "c@x.com"}))

	got, ok := c.snapshot()
	require.True(t, ok)
	emails := make([]string, 0, len(got))
	for _, r := range got {
		emails = append(emails, r.Email)
	}
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, emails)
}
