// Package metrics counts distinct users and exported PDFs.
package metrics

import (
	"context"
	"log"
	"sync"
	"time"
)

// Counter names shared by every Store implementation.
const (
	CounterUsers = "users_total"
	CounterPDFs  = "pdfs_total"
)

// SeenClientTTL is how long a client id stays counted before it may be counted again.
const SeenClientTTL = 365 * 24 * time.Hour

// Totals is a snapshot of both counters.
type Totals struct {
	UsersTotal int64 `json:"usersTotal"`
	PDFsTotal  int64 `json:"pdfsTotal"`
}

// Store persists metrics counters.
type Store interface {
	// MarkClientSeen records id and reports whether it was counted as a new user.
	MarkClientSeen(ctx context.Context, clientID string) (bool, error)
	IncrementPDFs(ctx context.Context) error
	Totals(ctx context.Context) (Totals, error)
}

// RecordPDF increments the PDF counter. Failures are logged and never reach the caller.
func RecordPDF(ctx context.Context, store Store) {
	if store == nil {
		return
	}
	if err := store.IncrementPDFs(ctx); err != nil {
		log.Printf("[metrics] failed to increment %s: %v", CounterPDFs, err)
	}
}

// MemoryStore keeps counters in process memory. Counts are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	counters map[string]int64
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:     make(map[string]time.Time),
		counters: make(map[string]int64),
		now:      time.Now,
	}
}

func (m *MemoryStore) MarkClientSeen(ctx context.Context, clientID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expires, ok := m.seen[clientID]; ok && now.Before(expires) {
		return false, nil
	}
	m.seen[clientID] = now.Add(SeenClientTTL)
	m.counters[CounterUsers]++
	return true, nil
}

func (m *MemoryStore) IncrementPDFs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[CounterPDFs]++
	return nil
}

func (m *MemoryStore) Totals(ctx context.Context) (Totals, error) {
	if err := ctx.Err(); err != nil {
		return Totals{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Totals{
		UsersTotal: m.counters[CounterUsers],
		PDFsTotal:  m.counters[CounterPDFs],
	}, nil
}
