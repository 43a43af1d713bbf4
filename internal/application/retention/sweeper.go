package retention

import (
	"context"
	"log"
	"sync"
	"time"

	"ytd/internal/metrics"
)

const (
	defaultInterval = 30 * time.Minute
	defaultWindow   = 2 * time.Hour
)

// Store lists and deletes aged artifacts.
type Store interface {
	ListOlderThan(cutoff time.Time) ([]string, error)
	Remove(name string) error
}

// Sweeper periodically deletes artifacts older than the retention
// window. It runs as a single background goroutine, so at most one
// sweep is active at a time and request handling is never blocked.
type Sweeper struct {
	store    Store
	logger   *log.Logger
	interval time.Duration
	window   time.Duration
	now      func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewSweeper creates a retention sweeper over store.
func NewSweeper(store Store, logger *log.Logger, interval, window time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &Sweeper{
		store:    store,
		logger:   logger,
		interval: interval,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop. Subsequent calls are no-ops.
func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.logger.Printf("retention sweeper started: interval=%s window=%s", s.interval, s.window)
		go s.run(ctx)
	})
}

// Stop terminates the loop and waits for any in-flight sweep to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep runs one retention pass and reports how many artifacts were
// deleted. One file's deletion failure does not abort the rest.
func (s *Sweeper) Sweep() int {
	cutoff := s.now().Add(-s.window)
	names, err := s.store.ListOlderThan(cutoff)
	if err != nil {
		s.logger.Printf("retention scan failed: %v", err)
		return 0
	}

	deleted := 0
	for _, name := range names {
		if err := s.store.Remove(name); err != nil {
			s.logger.Printf("retention delete failed: %s: %v", name, err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Printf("retention sweep deleted %d artifact(s)", deleted)
		metrics.RecordRetentionDeletions(deleted)
	}
	return deleted
}
