// Package ledger implements the append-only, hash-chained audit log. One
// Service instance serves the whole process: entries from concurrent
// validations interleave in a single global chain, distinguished by their
// submission id, giving one tamper-evidence guarantee across the service.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	domain "validator-engine/internal/domain/ledger"

	"github.com/google/uuid"
)

// Service appends hash-chained entries through a Sink. Appends are
// serialized behind one mutex (single-writer discipline); verification
// reads the sink under the same lock.
type Service struct {
	mu   sync.Mutex
	sink domain.Sink
	tail string
	log  *slog.Logger
	now  func() time.Time
}

func NewService(sink domain.Sink, log *slog.Logger) *Service {
	return &Service{
		sink: sink,
		tail: domain.GenesisHash,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Resume re-seeds the in-memory tail from the sink so a restarted process
// extends the persisted chain instead of forking a second genesis.
func (s *Service) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.sink.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("ledger resume: %w", err)
	}
	if len(entries) > 0 {
		s.tail = entries[len(entries)-1].EntryHash
	}
	return nil
}

// Append creates, hashes, and persists one entry. The entry's previous-hash
// is the current chain tail; the tail advances only after the sink accepts
// the entry.
func (s *Service) Append(ctx context.Context, eventType string, payload any, submissionID, performedBy string) (*domain.Entry, error) {
	data, err := domain.Canonicalize(payload)
	if err != nil {
		return nil, fmt.Errorf("ledger append: canonicalize payload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := &domain.Entry{
		EntryID:      uuid.NewString(),
		Timestamp:    s.now().Format(time.RFC3339Nano),
		EventType:    eventType,
		SubmissionID: submissionID,
		EventData:    data,
		PerformedBy:  performedBy,
		PreviousHash: s.tail,
	}
	hash, err := e.ComputeHash()
	if err != nil {
		return nil, fmt.Errorf("ledger append: hash entry: %w", err)
	}
	e.EntryHash = hash

	if err := s.sink.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("ledger append: sink: %w", err)
	}
	s.tail = hash

	s.log.Debug("ledger entry appended",
		slog.String("event_type", eventType),
		slog.String("submission_id", submissionID),
		slog.String("entry_hash", hash[:16]),
	)
	return e, nil
}

// VerifyChain replays the stored sequence from genesis. It reports rather
// than throws: ok is false when the chain is broken, badIndex is the
// position of the first bad entry (-1 when the chain is intact), and err is
// only non-nil when the sink itself cannot be read.
func (s *Service) VerifyChain(ctx context.Context) (ok bool, badIndex int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.sink.ReadAll(ctx)
	if err != nil {
		return false, -1, fmt.Errorf("ledger verify: %w", err)
	}

	prev := domain.GenesisHash
	for i := range entries {
		e := &entries[i]
		if e.PreviousHash != prev {
			s.log.Error("ledger chain broken: previous-hash mismatch",
				slog.Int("index", i), slog.String("entry_id", e.EntryID))
			return false, i, nil
		}
		recomputed, herr := e.ComputeHash()
		if herr != nil || recomputed != e.EntryHash {
			s.log.Error("ledger chain broken: entry hash mismatch",
				slog.Int("index", i), slog.String("entry_id", e.EntryID))
			return false, i, nil
		}
		prev = e.EntryHash
	}
	return true, -1, nil
}

// Entries returns the full chain in insertion order.
func (s *Service) Entries(ctx context.Context) ([]domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.ReadAll(ctx)
}
