package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/oauthcore/internal/auth/store"
)

// HousekeepingService periodically deletes expired tokens so the token table
// does not grow without bound. Tokens are never mutated on expiry; this is
// the only path that removes them.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Clock    func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		Clock:    time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
		s.Logger.Info("housekeeping service started", "interval", s.Interval)
	})
}

// Stop shuts down the background worker and waits for an in-progress
// cleanup to finish. It is safe to call more than once, and before Start.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if !s.started.Load() {
			return
		}
		<-s.doneCh
		s.Logger.Info("housekeeping service stopped")
	})
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes every token that has expired as of now and returns the
// number removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	now := s.Clock().UTC()

	deleted, err := s.Store.Tokens().DeleteExpiredTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired tokens", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_tokens", deleted)
	return deleted
}
