// Package daemon hosts the background pieces of the launcher: the periodic
// index rebuild and the launcher terminal spawn.
package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/quicklaunch/internal/search"
)

// IndexerConfig holds configuration for the background indexer.
type IndexerConfig struct {
	Roots     []string
	IndexPath string
	Interval  time.Duration
	Logger    *slog.Logger
}

// Indexer periodically rebuilds the file index so queries stay fresh.
type Indexer struct {
	mu        sync.Mutex
	roots     []string
	indexPath string
	interval  time.Duration

	logger *slog.Logger
}

// NewIndexer creates an indexer with the given configuration.
func NewIndexer(cfg IndexerConfig) *Indexer {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Indexer{
		roots:     cfg.Roots,
		indexPath: cfg.IndexPath,
		interval:  interval,
		logger:    logger,
	}
}

// Run starts the rebuild loop with an immediate first build. Blocks until
// the context is cancelled.
func (ix *Indexer) Run(ctx context.Context) {
	ix.logger.Info("indexer started", "interval", ix.currentInterval(), "roots", ix.currentRoots())

	ix.rebuild()

	ticker := time.NewTicker(ix.currentInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ix.logger.Info("indexer stopped")
			return
		case <-ticker.C:
			ix.rebuild()
			// Pick up an interval changed by UpdateConfig.
			ticker.Reset(ix.currentInterval())
		}
	}
}

// RebuildNow triggers an immediate rebuild pass.
func (ix *Indexer) RebuildNow() {
	ix.rebuild()
}

// UpdateConfig applies reloaded search settings. Roots and path apply to the
// next rebuild; a changed interval takes effect after the next tick.
func (ix *Indexer) UpdateConfig(roots []string, indexPath string, interval time.Duration) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.roots = roots
	if indexPath != "" {
		ix.indexPath = indexPath
	}
	if interval > 0 {
		ix.interval = interval
	}
}

func (ix *Indexer) currentInterval() time.Duration {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.interval
}

func (ix *Indexer) currentRoots() []string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return append([]string(nil), ix.roots...)
}

// rebuild performs a single build-and-save pass.
func (ix *Indexer) rebuild() {
	// Recover from panics to prevent crashing the daemon.
	defer func() {
		if err := recover(); err != nil {
			ix.logger.Error("indexer panic recovered", "error", err)
		}
	}()

	ix.mu.Lock()
	roots := append([]string(nil), ix.roots...)
	indexPath := ix.indexPath
	ix.mu.Unlock()

	started := time.Now()
	idx, err := search.Build(roots)
	if err != nil {
		ix.logger.Error("indexer: build failed", "error", err)
		return
	}
	if err := idx.Save(indexPath); err != nil {
		ix.logger.Error("indexer: save failed", "error", err)
		return
	}

	ix.logger.Info("index rebuilt", "entries", idx.Len(), "took", time.Since(started))
}
