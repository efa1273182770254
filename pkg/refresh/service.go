// Package refresh periodically reloads the masking policy.
package refresh

import (
	"context"
	"log/slog"
	"time"
)

// ReloadFunc rebuilds the policy from its sources.
type ReloadFunc func(ctx context.Context) error

// Service periodically reloads the policy. With a database policy store it
// catches changes whose notifications were missed while a replica was
// disconnected. Reloads are idempotent and safe to run from multiple pods.
type Service struct {
	interval time.Duration
	reload   ReloadFunc

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new refresh service.
func NewService(interval time.Duration, reload ReloadFunc) *Service {
	return &Service{
		interval: interval,
		reload:   reload,
	}
}

// Start launches the background refresh loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Policy refresh service started", "interval", s.interval)
}

// Stop signals the refresh loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Policy refresh service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.reload(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Periodic policy reload failed, keeping previous policy", "error", err)
			}
		}
	}
}
