// Package sinkmock provides an in-memory ledger sink for tests. Entries can
// be mutated through the exported slice to simulate tampering.
package sinkmock

import (
	"context"
	"sync"

	domain "validator-engine/internal/domain/ledger"
)

// Sink satisfies ledger.Sink. Function fields override the in-memory
// behavior when a test needs to inject failures.
type Sink struct {
	AppendFn  func(ctx context.Context, e *domain.Entry) error
	ReadAllFn func(ctx context.Context) ([]domain.Entry, error)

	mu      sync.Mutex
	Entries []domain.Entry
}

func (m *Sink) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uint64(len(m.Entries) + 1)
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Sink) ReadAll(ctx context.Context) ([]domain.Entry, error) {
	if m.ReadAllFn != nil {
		return m.ReadAllFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}
