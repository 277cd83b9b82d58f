package service

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-directory/internal/core/cache"
	"github.com/99minutos/user-directory/internal/core/domain"
	"github.com/99minutos/user-directory/internal/core/ports"
)

var _ ports.DirectoryService = (*DirectoryService)(nil)

// DirectoryService implements login and sign-up against a remote directory
// store, reading through an owned in-process cache.
type DirectoryService struct {
	store   ports.DirectoryStore
	hasher  ports.PasswordHasher
	guard   ports.SignupGuard
	cache   *cache.DirectoryCache
	metrics ports.DirectoryMetrics
	now     func() time.Time
	log     zerolog.Logger
}

// Option customises a DirectoryService.
type Option func(*DirectoryService)

// WithSignupGuard replaces the default in-process guard.
func WithSignupGuard(g ports.SignupGuard) Option {
	return func(s *DirectoryService) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithMetrics reports login, sign-up and cache activity to m.
func WithMetrics(m ports.DirectoryMetrics) Option {
	return func(s *DirectoryService) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *DirectoryService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewDirectoryService(store ports.DirectoryStore, hasher ports.PasswordHasher, log zerolog.Logger, opts ...Option) *DirectoryService {
	s := &DirectoryService{
		store:   store,
		hasher:  hasher,
		guard:   NewLocalSignupGuard(0),
		metrics: nopMetrics{},
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = cache.New(s.fetchAll)
	return s
}

// Cache exposes the directory cache for health reporting.
func (s *DirectoryService) Cache() *cache.DirectoryCache {
	return s.cache
}

// LogIn returns the record for creds.Email if the password matches.
func (s *DirectoryService) LogIn(ctx context.Context, creds domain.Credentials) (*domain.UserRecord, error) {
	records, err := s.cache.Load(ctx)
	if err != nil {
		s.metrics.Login(ports.OutcomeError)
		return nil, err
	}

	for i := range records {
		if records[i].Email != creds.Email {
			continue
		}

		ok, err := s.hasher.Verify(ctx, records[i].PasswordHash, creds.Password)
		if err != nil {
			s.metrics.Login(ports.OutcomeError)
			return nil, pkgerrors.Wrapf(err, "verify password for %s", creds.Email)
		}
		if !ok {
			s.metrics.Login(ports.OutcomeIncorrectPassword)
			return nil, domain.IncorrectPassword(creds.Email)
		}

		s.metrics.Login(ports.OutcomeSuccess)
		user := records[i]
		return &user, nil
	}

	s.metrics.Login(ports.OutcomeUserNotFound)
	return nil, domain.UserNotFound(creds.Email)
}

// SignUp creates a record for creds.Email. The remote write happens before
// the cache is touched; if it fails the cache is unchanged.
func (s *DirectoryService) SignUp(ctx context.Context, creds domain.Credentials) (*domain.UserRecord, error) {
	user, err := s.signUp(ctx, creds)
	switch {
	case err == nil:
		s.metrics.Signup(ports.OutcomeSuccess)
	case errors.Is(err, domain.ErrUserExists):
		s.metrics.Signup(ports.OutcomeUserExists)
	default:
		s.metrics.Signup(ports.OutcomeError)
	}
	return user, err
}

func (s *DirectoryService) signUp(ctx context.Context, creds domain.Credentials) (*domain.UserRecord, error) {
	release, err := s.guard.Acquire(ctx, creds.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "acquire signup lock")
	}
	defer release()

	records, err := s.cache.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Email == creds.Email {
			return nil, domain.UserExists(creds.Email)
		}
	}

	hash, err := s.hasher.Hash(ctx, creds.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}

	record := domain.UserRecord{
		Email:             creds.Email,
		PasswordHash:      hash,
		CreationTimestamp: s.now().UnixMilli(),
	}

	start := time.Now()
	created, err := s.store.Create(ctx, record)
	s.metrics.RemoteCall(ports.OpCreate, time.Since(start))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create directory record")
	}
	if created != nil {
		record.ID = created.ID
	}

	if err := s.cache.Append(record); err != nil {
		// Load succeeded above, so the cache is populated.
		return nil, pkgerrors.Wrap(err, "mirror created record")
	}
	s.metrics.CacheSize(s.cache.Len())

	s.log.Info().
		Str("email", record.Email).
		Str("id", record.ID).
		Msg("user registered")

	return &record, nil
}

func (s *DirectoryService) fetchAll(ctx context.Context) ([]domain.UserRecord, error) {
	start := time.Now()
	records, err := s.store.FetchAll(ctx)
	s.metrics.RemoteCall(ports.OpFetchAll, time.Since(start))
	s.metrics.CacheLoad(err)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetch directory records")
	}
	s.metrics.CacheSize(len(records))
	s.log.Debug().Int("records", len(records)).Msg("directory cache populated")
	return records, nil
}

type nopMetrics struct{}

func (nopMetrics) Login(string)                     {}
func (nopMetrics) Signup(string)                    {}
func (nopMetrics) CacheLoad(error)                  {}
func (nopMetrics) CacheSize(int)                    {}
func (nopMetrics) RemoteCall(string, time.Duration) {}
