package service

import (
	"log/slog"
	"time"
)

// Sweeper drops expired panel sessions and idle pooled transports.
// panelsdk.Factory implements it.
type Sweeper interface {
	Sweep(now time.Time) (sessions, transports int)
}

// HousekeepingService periodically evicts expired panel sessions and idle
// transports so long-running processes do not keep state for panels nobody
// talks to anymore.
type HousekeepingService struct {
	Sweeper  Sweeper
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 5 minutes.
func NewHousekeepingService(sweeper Sweeper, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &HousekeepingService{
		Sweeper:  sweeper,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until the worker has finished any in-progress sweep.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	sessions, transports := s.Sweeper.Sweep(time.Now())
	s.Logger.Info("housekeeping cleanup completed",
		"expired_sessions", sessions,
		"idle_transports", transports,
	)
}
