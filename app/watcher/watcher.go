package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/footwire/transferwatch/app/club"
	"github.com/footwire/transferwatch/app/notify"
	"github.com/footwire/transferwatch/app/policy"
	"github.com/footwire/transferwatch/app/seen"
	"github.com/footwire/transferwatch/app/source"
)

// BackfillMode selects how missed items are recovered at startup.
type BackfillMode int

const (
	// BackfillExpanding re-fetches growing windows (1, 2, ... up to the
	// limit) and stops at the first window that produces a post. Used for
	// ordered streams like Telegram channels and RSS feeds.
	BackfillExpanding BackfillMode = iota

	// BackfillSweep does a single fixed-size fetch and processes
	// everything in it. Used for Reddit, where the source already fans
	// out over subreddits internally.
	BackfillSweep
)

type Options struct {
	Mode          BackfillMode
	BackfillLimit int

	// StreamRetryWait is the pause after a live stream drops before the
	// first reconnect attempt. ReconnectWait is the pause between failed
	// reconnect attempts. Both exist as options so tests can shrink them.
	StreamRetryWait time.Duration
	ReconnectWait   time.Duration
}

// Stats is a point-in-time snapshot of the watcher's counters.
type Stats struct {
	State      string    `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	Processed  uint64    `json:"processed"`
	Duplicates uint64    `json:"duplicates"`
	Accepted   uint64    `json:"accepted"`
	Rejected   uint64    `json:"rejected"`
	Notified   uint64    `json:"notified"`
	SeenCount  int       `json:"seen_count"`
}

// Watcher drives the full pipeline: backfill missed items, then follow the
// live stream, routing every item through seen-check, policy evaluation and
// notification.
type Watcher struct {
	src      source.Source
	policy   policy.Policy
	store    *seen.Store
	notifier *notify.Notifier
	catalog  *club.Catalog
	opts     Options

	state atomic.Int32

	// Set once in New; Stats reads it concurrently with Run.
	startedAt time.Time

	processed  atomic.Uint64
	duplicates atomic.Uint64
	accepted   atomic.Uint64
	rejected   atomic.Uint64
	notified   atomic.Uint64
}

func New(src source.Source, pol policy.Policy, store *seen.Store,
	notifier *notify.Notifier, catalog *club.Catalog, opts Options) *Watcher {
	if opts.BackfillLimit <= 0 {
		opts.BackfillLimit = 50
	}
	if opts.StreamRetryWait <= 0 {
		opts.StreamRetryWait = 30 * time.Second
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = 60 * time.Second
	}

	return &Watcher{
		src:       src,
		policy:    pol,
		store:     store,
		notifier:  notifier,
		catalog:   catalog,
		opts:      opts,
		startedAt: time.Now().UTC(),
	}
}

// Run connects the source, performs backfill, then follows the live stream
// until ctx is cancelled. A connect failure is fatal; stream failures are
// retried forever. The seen store is flushed and the source disconnected on
// every exit path.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.shutdown()

	if err := w.src.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", w.src.Name(), err)
	}
	w.setState(StateConnected)
	slog.Info("Source connected", "source", w.src.Name())

	if err := w.store.Load(); err != nil {
		slog.Warn("Starting with empty seen store", "error", err)
	}

	w.setState(StateBackfillScanning)
	w.backfill(ctx)

	if err := w.store.Flush(); err != nil {
		slog.Error("Failed to persist seen IDs after backfill", "error", err)
	}

	if ctx.Err() != nil {
		return nil
	}

	w.setState(StateMonitoring)
	w.monitor(ctx)

	return nil
}

func (w *Watcher) backfill(ctx context.Context) {
	switch w.opts.Mode {
	case BackfillSweep:
		w.backfillSweep(ctx)
	default:
		w.backfillExpanding(ctx)
	}
}

// backfillExpanding grows the fetch window one item at a time until a window
// yields a post or the limit is reached. Already-seen items are skipped by
// processItem, so re-fetching overlapping windows is cheap.
func (w *Watcher) backfillExpanding(ctx context.Context) {
	for limit := 1; limit <= w.opts.BackfillLimit; limit++ {
		if ctx.Err() != nil {
			return
		}

		items, err := w.src.FetchRecent(ctx, limit)
		if err != nil {
			slog.Error("Backfill fetch failed", "limit", limit, "error", err)
			return
		}

		// FetchRecent is newest-first; replay the window oldest-to-newest.
		posted := false
		for i := len(items) - 1; i >= 0; i-- {
			if w.processItem(ctx, items[i]) {
				posted = true
			}
		}

		if posted {
			slog.Info("Backfill complete", "window", limit)
			return
		}
	}

	slog.Info("Backfill complete, no postable items", "limit", w.opts.BackfillLimit)
}

func (w *Watcher) backfillSweep(ctx context.Context) {
	items, err := w.src.FetchRecent(ctx, w.opts.BackfillLimit)
	if err != nil {
		slog.Error("Backfill fetch failed", "error", err)
		return
	}

	for i := len(items) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return
		}
		w.processItem(ctx, items[i])
	}

	slog.Info("Backfill complete", "items", len(items))
}

// monitor follows the live stream, reconnecting forever on failure. It
// returns only when ctx is cancelled.
func (w *Watcher) monitor(ctx context.Context) {
	for {
		err := w.src.Subscribe(ctx, func(item source.Item) {
			w.processItem(ctx, item)
		})

		if ctx.Err() != nil {
			return
		}

		slog.Error("Stream dropped, reconnecting", "source", w.src.Name(), "error", err)
		if !sleepCtx(ctx, w.opts.StreamRetryWait) {
			return
		}

		for {
			err := w.src.Connect(ctx)
			if err == nil {
				slog.Info("Source reconnected", "source", w.src.Name())
				break
			}
			slog.Error("Reconnect failed", "source", w.src.Name(), "error", err)
			if !sleepCtx(ctx, w.opts.ReconnectWait) {
				return
			}
		}
	}
}

// processItem runs one item through the pipeline and reports whether it was
// accepted for posting. Every non-duplicate item is marked seen, accepted or
// not, so it is never re-evaluated.
func (w *Watcher) processItem(ctx context.Context, item source.Item) bool {
	w.processed.Add(1)

	if w.store.Contains(item.ID) {
		w.duplicates.Add(1)
		return false
	}

	decision := w.policy.Evaluate(item)
	w.store.Mark(item.ID)

	if !decision.Post {
		w.rejected.Add(1)
		slog.Debug("Item rejected", "item_id", item.ID, "reason", decision.Reason)
		return false
	}

	w.accepted.Add(1)
	slog.Info("Item accepted",
		"item_id", item.ID,
		"clubs", decision.Clubs,
		"tier", decision.Tier,
		"confidence", decision.Confidence)

	for _, key := range decision.Clubs {
		c, ok := w.catalog.Get(key)
		if !ok {
			slog.Error("Unknown club key in decision", "club", key, "item_id", item.ID)
			continue
		}

		result := w.notifier.Send(ctx, notify.Message{Item: item, Club: c})
		if result.Delivered() {
			w.notified.Add(1)
		}
	}

	return true
}

func (w *Watcher) shutdown() {
	w.setState(StateShuttingDown)

	if err := w.store.Flush(); err != nil {
		slog.Error("Failed to persist seen IDs on shutdown", "error", err)
	}
	if err := w.src.Disconnect(); err != nil {
		slog.Error("Failed to disconnect source", "source", w.src.Name(), "error", err)
	}

	w.setState(StateDisconnected)
	slog.Info("Watcher stopped", "source", w.src.Name())
}

// Stats returns a snapshot of the watcher's counters for the stats endpoint.
func (w *Watcher) Stats() Stats {
	return Stats{
		State:      w.State().String(),
		StartedAt:  w.startedAt,
		Processed:  w.processed.Load(),
		Duplicates: w.duplicates.Load(),
		Accepted:   w.accepted.Load(),
		Rejected:   w.rejected.Load(),
		Notified:   w.notified.Load(),
		SeenCount:  w.store.Len(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
