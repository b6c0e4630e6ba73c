package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/kcal/internal/config"
	"github.com/zjrosen/kcal/internal/coordinator"
	"github.com/zjrosen/kcal/internal/log"
	"github.com/zjrosen/kcal/internal/persistence"
	"github.com/zjrosen/kcal/internal/storage"
	"github.com/zjrosen/kcal/internal/storage/backend"
	"github.com/zjrosen/kcal/internal/tracing"
)

// shutdownTimeout bounds how long pending spans may take to flush on exit.
const shutdownTimeout = 5 * time.Second

// session is everything one kcal invocation opens from the loaded config.
type session struct {
	id       string
	store    *persistence.Adapter
	backend  storage.Store
	provider *tracing.Provider
	cleanup  func()
}

// openSession validates cfg and opens logging, tracing and the configured
// storage backend. On error everything opened so far is released.
func openSession(ctx context.Context) (_ *session, err error) {
	cleanupLog, err := initLogging()
	if err != nil {
		return nil, err
	}
	s := &session{id: uuid.NewString(), cleanup: cleanupLog}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s.provider, err = tracing.NewProvider(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		FilePath:     cfg.Tracing.FilePath,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	s.backend, err = backend.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage.Backend, err)
	}
	s.store = persistence.New(s.backend, cfg.Storage.Key)

	log.Info(log.CatConfig, "Session opened",
		"session", s.id,
		"backend", cfg.Storage.Backend,
		"key", s.store.Key(),
		"tracing", s.provider.Enabled())
	return s, nil
}

func (s *session) coordinatorOptions() []coordinator.Option {
	return []coordinator.Option{
		coordinator.WithSessionID(s.id),
		coordinator.WithTracer(s.provider.Tracer()),
	}
}

// Close releases in reverse order of opening. It is safe on a partially
// opened session.
func (s *session) Close() {
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			log.ErrorErr(log.CatStore, "Failed to close store", err)
		}
	}
	if s.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := s.provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to shut down tracing", err)
		}
		cancel()
	}
	if s.cleanup != nil {
		s.cleanup()
	}
}
