// Package bootstrap verifies the database before the service accepts traffic.
//
// The database container is frequently still starting when the service
// comes up, so the sequencer retries a liveness query plus schema creation
// on a fixed schedule and gives up with ErrRetriesExhausted once the attempt
// ceiling is reached.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxRetries is the attempt ceiling used when Config leaves it unset.
	DefaultMaxRetries = 10
	// DefaultDelay is the pause between failed attempts.
	DefaultDelay = 5 * time.Second
)

// ErrRetriesExhausted is returned by Run when every attempt failed.
var ErrRetriesExhausted = errors.New("database bootstrap retries exhausted")

// Store is the part of the persistence layer the sequencer drives.
type Store interface {
	// Ping runs a trivial liveness query.
	Ping(ctx context.Context) error
	// EnsureSchema creates the required tables if they are absent.
	EnsureSchema(ctx context.Context) error
}

// Recorder receives one observation per attempt: "success" or "failure".
type Recorder interface {
	BootstrapAttempt(result string)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Config controls the retry schedule.
type Config struct {
	MaxRetries int
	Delay      time.Duration
	// AttemptTimeout bounds a single ping+schema attempt. Zero means no bound.
	AttemptTimeout time.Duration
}

// Sequencer runs the startup retry loop.
type Sequencer struct {
	store    Store
	cfg      Config
	log      *zap.Logger
	recorder Recorder
	sleep    Sleeper
}

// Option customizes a Sequencer.
type Option func(*Sequencer)

// WithRecorder reports attempt outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(s *Sequencer) { s.recorder = r }
}

// WithSleeper replaces the wait between attempts.
func WithSleeper(fn Sleeper) Option {
	return func(s *Sequencer) { s.sleep = fn }
}

// New creates a Sequencer. Zero MaxRetries falls back to DefaultMaxRetries.
// A negative Delay is treated as zero.
func New(store Store, cfg Config, log *zap.Logger, opts ...Option) *Sequencer {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	s := &Sequencer{
		store: store,
		cfg:   cfg,
		log:   log,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until the store answers and the schema exists, the retry
// ceiling is reached, or ctx is cancelled during a wait.
func (s *Sequencer) Run(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		s.log.Info("connecting to database",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", s.cfg.MaxRetries),
		)

		lastErr = s.attempt(ctx)
		if lastErr == nil {
			s.record("success")
			s.log.Info("database initialized", zap.Int("attempt", attempt))
			return nil
		}

		s.record("failure")
		s.log.Error("database initialization failed",
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt == s.cfg.MaxRetries {
			break
		}

		s.log.Info("waiting before next attempt", zap.Duration("delay", s.cfg.Delay))
		if err := s.sleep(ctx, s.cfg.Delay); err != nil {
			return fmt.Errorf("database bootstrap interrupted: %w", err)
		}
	}

	s.log.Error("maximum number of attempts exceeded, check the database connection",
		zap.Int("max_retries", s.cfg.MaxRetries),
	)
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, s.cfg.MaxRetries, lastErr)
}

func (s *Sequencer) attempt(ctx context.Context) error {
	if s.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		defer cancel()
	}

	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("liveness query: %w", err)
	}
	if err := s.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Sequencer) record(result string) {
	if s.recorder != nil {
		s.recorder.BootstrapAttempt(result)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
