// Package sync periodically exports every note to backup destinations.
package sync

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Destination is the interface for a sync target (S3, local file).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// SessionPurger removes sessions that expired before now.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs periodic syncs to one or more destinations.
type Scheduler struct {
	source       Source
	destinations []Destination
	purger       SessionPurger
	interval     time.Duration
	logger       *slog.Logger
	now          func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from src to the given
// destinations at the specified interval.
func NewScheduler(src Source, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		source:       src,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
		now:          time.Now,
	}
}

// PurgeSessions makes every run also delete expired sessions through p.
// It must be called before Start.
func (s *Scheduler) PurgeSessions(p SessionPurger) *Scheduler {
	s.purger = p
	return s
}

// Start begins periodic sync. It runs an initial sync immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.syncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *Scheduler) syncOnce(ctx context.Context) {
	if s.purger != nil {
		n, err := s.purger.DeleteExpiredSessions(ctx, s.now())
		if err != nil {
			s.logger.Error("purge expired sessions failed", "err", err)
		} else if n > 0 {
			s.logger.Info("purged expired sessions", "count", n)
		}
	}

	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.source, &buf); err != nil {
		s.logger.Error("sync export failed", "err", err)
		return
	}
	data := buf.Bytes()

	failed := 0
	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			failed++
			s.logger.Error("sync destination write failed", "destination", destinationName(i, dest), "err", err)
		}
	}

	s.logger.Info("sync completed", "destinations", len(s.destinations), "failed", failed, "bytes", len(data))
}

func destinationName(i int, d Destination) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%d", i)
}
