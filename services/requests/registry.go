package requests

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns one polling fetcher per signed-in provider. Fetchers start on
// first use and stop on sign-out or after going unread past the idle window.
type Registry struct {
	source    Source
	interval  time.Duration
	idleAfter time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	fetcher *Fetcher
	cancel  context.CancelFunc
}

// NewRegistry creates a fetcher registry backed by the given source.
func NewRegistry(source Source, interval, idleAfter time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.L()
	}
	return &Registry{
		source:    source,
		interval:  interval,
		idleAfter: idleAfter,
		logger:    logger,
		entries:   make(map[string]*registryEntry),
	}
}

// Ensure returns the provider's fetcher, starting its poll loop if needed.
func (r *Registry) Ensure(providerID string) *Fetcher {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[providerID]; ok {
		return entry.fetcher
	}

	fetcher := NewFetcher(r.source, providerID, r.interval, r.idleAfter, r.logger)
	ctx, cancel := context.WithCancel(context.Background())
	r.entries[providerID] = &registryEntry{fetcher: fetcher, cancel: cancel}

	go func() {
		fetcher.Run(ctx)
		cancel()
		r.mu.Lock()
		if entry, ok := r.entries[providerID]; ok && entry.fetcher == fetcher {
			delete(r.entries, providerID)
		}
		r.mu.Unlock()
	}()

	return fetcher
}

// Get returns the provider's fetcher without starting one.
func (r *Registry) Get(providerID string) (*Fetcher, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[providerID]
	if !ok {
		return nil, false
	}
	return entry.fetcher, true
}

// Stop cancels the provider's poll loop, if any.
func (r *Registry) Stop(providerID string) {
	r.mu.Lock()
	entry, ok := r.entries[providerID]
	if ok {
		delete(r.entries, providerID)
	}
	r.mu.Unlock()
	if ok {
		entry.cancel()
	}
}

// StopAll cancels every poll loop. Called on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.cancel()
	}
}
