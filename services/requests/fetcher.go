package requests

import (
	"context"
	"sync"
	"time"

	"carelink/models"

	"go.uber.org/zap"
)

// Snapshot is the fetcher's current view of a provider's pending requests.
// Err carries the last fetch failure without discarding the stale list.
type Snapshot struct {
	Requests  []models.BookingRequest
	FetchedAt time.Time
	Loaded    bool
	Err       string
}

// Fetcher keeps one provider's pending booking requests refreshed on a fixed
// interval. A fetch failure never clears previously loaded data; overlapping
// refreshes resolve last-write-wins, which is acceptable for read-only
// display state.
type Fetcher struct {
	source     Source
	providerID string
	interval   time.Duration
	idleAfter  time.Duration
	logger     *zap.Logger

	mu         sync.RWMutex
	requests   []models.BookingRequest
	fetchedAt  time.Time
	loaded     bool
	lastError  string
	lastAccess time.Time
}

// NewFetcher creates a fetcher for one provider. It does not fetch until
// Run is started or Refresh is called.
func NewFetcher(source Source, providerID string, interval, idleAfter time.Duration, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Fetcher{
		source:     source,
		providerID: providerID,
		interval:   interval,
		idleAfter:  idleAfter,
		logger:     logger,
		lastAccess: time.Now(),
	}
}

// Run polls until ctx is cancelled or the fetcher has gone unread for longer
// than idleAfter. Cancellation replaces the legacy view's clear-interval-on-
// unmount teardown.
func (f *Fetcher) Run(ctx context.Context) {
	if err := f.Refresh(ctx); err != nil {
		f.logger.Warn("initial pending fetch failed",
			zap.String("providerID", f.providerID), zap.Error(err))
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if f.idle() {
				f.logger.Debug("stopping idle pending-request poller",
					zap.String("providerID", f.providerID))
				return
			}
			if err := f.Refresh(ctx); err != nil {
				f.logger.Warn("pending fetch failed, keeping previous list",
					zap.String("providerID", f.providerID), zap.Error(err))
			}
		}
	}
}

// Refresh fetches the pending list once. On error the previous list stays
// visible and the error string is recorded in the snapshot.
func (f *Fetcher) Refresh(ctx context.Context) error {
	list, err := f.source.ListPending(ctx, f.providerID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.lastError = err.Error()
		return err
	}
	f.requests = list
	f.fetchedAt = time.Now()
	f.loaded = true
	f.lastError = ""
	return nil
}

// Snapshot returns the current view state and marks the fetcher as read.
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAccess = time.Now()

	out := make([]models.BookingRequest, len(f.requests))
	copy(out, f.requests)
	return Snapshot{
		Requests:  out,
		FetchedAt: f.fetchedAt,
		Loaded:    f.loaded,
		Err:       f.lastError,
	}
}

// Prune drops one booking from the local list ahead of the next refetch, so
// an actioned item disappears immediately.
func (f *Fetcher) Prune(bookingID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.requests[:0]
	for _, req := range f.requests {
		if req.ID != bookingID {
			kept = append(kept, req)
		}
	}
	f.requests = kept
}

func (f *Fetcher) idle() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.idleAfter > 0 && time.Since(f.lastAccess) > f.idleAfter
}
