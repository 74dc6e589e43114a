package offload

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// scopeRecord holds one scope's entries and its expiry deadline.
type scopeRecord struct {
	entries  map[string]string
	deadline time.Time
}

// Options configures the in-memory store behavior.
type Options struct {
	// TTL controls how long a scope survives after its last write.
	// Defaults to DefaultTTL.
	TTL time.Duration
	// SweepInterval controls how often expired scopes are reaped.
	SweepInterval time.Duration
}

// InMemoryStore is an in-memory implementation of Store. A background sweeper
// reaps expired scopes; expiry is also checked on read so a Get never returns
// stale data between sweeps.
type InMemoryStore struct {
	mu     sync.RWMutex
	scopes map[string]*scopeRecord
	opts   Options
	stopCh chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewInMemoryStore creates a new in-memory store with default options.
func NewInMemoryStore() *InMemoryStore {
	return NewInMemoryStoreWithOptions(Options{})
}

// NewInMemoryStoreWithOptions creates a new in-memory store with options.
func NewInMemoryStoreWithOptions(opts Options) *InMemoryStore {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 30 * time.Second
	}
	s := &InMemoryStore{
		scopes: make(map[string]*scopeRecord),
		opts:   opts,
		stopCh: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// Put implements Store.
func (s *InMemoryStore) Put(ctx context.Context, scope string, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	rec, ok := s.scopes[scope]
	if !ok || time.Now().After(rec.deadline) {
		rec = &scopeRecord{entries: make(map[string]string)}
		s.scopes[scope] = rec
	}
	rec.entries[key] = value
	rec.deadline = time.Now().Add(s.opts.TTL)
	return nil
}

// Get implements Store.
func (s *InMemoryStore) Get(ctx context.Context, scope string, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.scopes[scope]
	if !ok || time.Now().After(rec.deadline) {
		return "", ErrNotFound
	}
	v, ok := rec.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Keys implements Store.
func (s *InMemoryStore) Keys(ctx context.Context, scope string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.scopes[scope]
	if !ok || time.Now().After(rec.deadline) {
		return nil, nil
	}
	keys := make([]string, 0, len(rec.entries))
	for k := range rec.entries {
		keys = append(keys, k)
	}
	return keys, nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(ctx context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, scope)
	return nil
}

// Close stops the sweeper and drops all scopes.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.scopes = make(map[string]*scopeRecord)
	s.mu.Unlock()
	close(s.stopCh)
	s.wg.Wait()
	return nil
}

// sweepLoop reaps expired scopes on a fixed interval.
func (s *InMemoryStore) sweepLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for scope, rec := range s.scopes {
				if now.After(rec.deadline) {
					delete(s.scopes, scope)
				}
			}
			s.mu.Unlock()
		}
	}
}
