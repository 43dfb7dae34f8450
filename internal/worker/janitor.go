// Package worker runs background maintenance alongside the API.
package worker

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/quran-bff/internal/core/ports/driven"
)

// DefaultInterval is the sweep period when none is configured
const DefaultInterval = time.Hour

// Janitor periodically removes expired sessions from stores that do not
// expire entries on their own.
type Janitor struct {
	cleaners map[string]driven.ExpiredSessionCleaner
	interval time.Duration
	logger   *slog.Logger

	// Internal state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// JanitorConfig holds configuration for the janitor.
type JanitorConfig struct {
	// Cleaners are swept in name order; nil entries are skipped
	Cleaners map[string]driven.ExpiredSessionCleaner
	Interval time.Duration
	Logger   *slog.Logger
}

// NewJanitor creates a new janitor.
func NewJanitor(cfg JanitorConfig) *Janitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	cleaners := make(map[string]driven.ExpiredSessionCleaner, len(cfg.Cleaners))
	for name, c := range cfg.Cleaners {
		if c != nil {
			cleaners[name] = c
		}
	}

	return &Janitor{
		cleaners: cleaners,
		interval: interval,
		logger:   logger,
	}
}

// Start sweeps once immediately and then on every tick, until Stop is
// called or ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return
	}
	j.running = true
	j.stopCh = make(chan struct{})
	j.doneCh = make(chan struct{})
	stopCh, doneCh := j.stopCh, j.doneCh
	j.mu.Unlock()

	j.logger.Info("janitor starting", "interval", j.interval, "stores", len(j.cleaners))

	go func() {
		defer close(doneCh)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.Sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				j.Sweep(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopCh)
	doneCh := j.doneCh
	j.mu.Unlock()

	<-doneCh

	j.mu.Lock()
	j.running = false
	j.mu.Unlock()

	j.logger.Info("janitor stopped")
}

// Wait blocks until the loop exits.
func (j *Janitor) Wait() {
	j.mu.Lock()
	doneCh := j.doneCh
	j.mu.Unlock()
	if doneCh != nil {
		<-doneCh
	}
}

// Sweep runs every cleaner once and returns the rows removed per store.
// A failing store is logged and does not stop the others.
func (j *Janitor) Sweep(ctx context.Context) map[string]int64 {
	names := make([]string, 0, len(j.cleaners))
	for name := range j.cleaners {
		names = append(names, name)
	}
	sort.Strings(names)

	removed := make(map[string]int64, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		n, err := j.cleaners[name].Cleanup(ctx)
		if err != nil {
			j.logger.Error("session cleanup failed", "store", name, "error", err)
			continue
		}
		removed[name] = n
		if n > 0 {
			j.logger.Info("expired sessions removed", "store", name, "count", n, "duration", time.Since(start))
		}
	}
	return removed
}
