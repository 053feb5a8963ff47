package ledger

import "context"

// Sink is the persistence port for ledger entries. Implementations must
// preserve insertion order exactly and never rewrite a stored entry.
type Sink interface {
	Append(ctx context.Context, e *Entry) error
	ReadAll(ctx context.Context) ([]Entry, error)
}
