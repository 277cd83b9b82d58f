// @title        User Directory API
// @version      1.0
// @description  Registers and authenticates users against a remote directory table.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/user-directory/internal/api"
	"github.com/99minutos/user-directory/internal/api/handler"
	"github.com/99minutos/user-directory/internal/api/metrics"
	"github.com/99minutos/user-directory/internal/core/hasher"
	"github.com/99minutos/user-directory/internal/core/ports"
	"github.com/99minutos/user-directory/internal/core/service"
	"github.com/99minutos/user-directory/internal/infrastructure/config"
	"github.com/99minutos/user-directory/internal/infrastructure/db/memory"
	"github.com/99minutos/user-directory/internal/infrastructure/db/mongo"
	"github.com/99minutos/user-directory/internal/infrastructure/db/redis"
	"github.com/99minutos/user-directory/internal/infrastructure/store/airtable"
	"github.com/99minutos/user-directory/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "user-directory",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	pingers := make(map[string]handler.Pinger)

	store, closeStore, err := openStore(ctx, cfg, pingers)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := []service.Option{service.WithMetrics(metrics.Recorder{})}
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		pingers["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		opts = append(opts, service.WithSignupGuard(redis.NewSignupLock(rdb)))
	}

	directory := service.NewDirectoryService(store, hasher.New(hasher.DefaultParams), log, opts...)

	e := api.NewRouter(api.Deps{
		Directory:   directory,
		Cache:       directory.Cache(),
		Pingers:     pingers,
		RedirectURL: cfg.RedirectURL,
		Log:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, pingers map[string]handler.Pinger) (ports.DirectoryStore, func(), error) {
	switch cfg.Backend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongo.NewDirectoryRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		pingers["mongodb"] = repo
		return repo, disconnect(client), nil

	case config.BackendMemory:
		s := memory.NewDirectoryStore()
		pingers["memory"] = s
		return s, func() {}, nil

	default:
		s, err := airtable.New(airtable.Config{
			APIKey:  cfg.Airtable.APIKey,
			BaseID:  cfg.Airtable.BaseID,
			TableID: cfg.Airtable.TableID,
			BaseURL: cfg.Airtable.BaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		pingers["airtable"] = s
		return s, func() {}, nil
	}
}

func disconnect(client *mongodriver.Client) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
}
