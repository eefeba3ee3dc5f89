package weather

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Status is a point-in-time view of a Fetcher.
type Status struct {
	City     string
	Loading  bool
	Snapshot *Snapshot
	Err      error
	Seq      uint64
}

// NotFound reports whether the last applied fetch found no such city.
func (s Status) NotFound() bool {
	return errors.Is(s.Err, ErrNotFound)
}

// Fetcher tracks the latest weather request for a widget. Only the result
// of the most recent Begin is applied; earlier ones are discarded.
type Fetcher struct {
	mu     sync.Mutex
	parent context.Context
	cancel context.CancelFunc
	status Status
	log    *slog.Logger
}

// NewFetcher returns an idle fetcher. Request contexts derive from ctx.
func NewFetcher(ctx context.Context, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{parent: ctx, log: log}
}

// Begin starts a fetch for city, cancelling any fetch still in flight. The
// returned sequence number must be passed back to Complete.
func (f *Fetcher) Begin(city string) (uint64, context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(f.parent)
	f.cancel = cancel

	f.status.Seq++
	f.status.City = city
	f.status.Loading = true
	f.log.Debug("weather fetch begin", "city", city, "seq", f.status.Seq)
	return f.status.Seq, ctx
}

// Complete applies the result of fetch seq. It returns false, changing
// nothing, when a newer fetch has begun since.
//
// A not-found result clears the snapshot. Any other error keeps the previous
// snapshot and records the error.
func (f *Fetcher) Complete(seq uint64, snap *Snapshot, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.status.Seq {
		f.log.Debug("weather fetch stale", "seq", seq, "latest", f.status.Seq)
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.status.Loading = false

	switch {
	case err == nil:
		f.status.Snapshot = snap
		f.status.Err = nil
	case errors.Is(err, ErrNotFound):
		f.status.Snapshot = nil
		f.status.Err = err
	default:
		f.status.Err = err
	}
	return true
}

// Cancel abandons the in-flight fetch, if any. Its result will be treated
// as stale.
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.status.Loading {
		f.status.Seq++
		f.status.Loading = false
	}
}

// Status returns the current state.
func (f *Fetcher) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}
