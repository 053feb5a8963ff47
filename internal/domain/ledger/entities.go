package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// GenesisHash roots the chain: the previous-hash of the first entry.
var GenesisHash = strings.Repeat("0", 64)

// Entry is one append-only ledger record. Entries form a singly-linked hash
// chain; once written they are never mutated or deleted. EventData holds the
// canonical JSON serialization of the step payload (see Canonicalize).
type Entry struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntryID      string          `gorm:"size:36;uniqueIndex:ux_ledger_entry_id" json:"entryId"`
	Timestamp    string          `gorm:"size:40" json:"timestamp"`
	EventType    string          `gorm:"size:64;index:idx_ledger_event_type" json:"eventType"`
	SubmissionID string          `gorm:"size:64;index:idx_ledger_submission" json:"submissionId"`
	EventData    json.RawMessage `gorm:"type:text" json:"eventData"`
	PerformedBy  string          `gorm:"size:64" json:"performedBy"`
	PreviousHash string          `gorm:"size:64" json:"previousHash"`
	EntryHash    string          `gorm:"size:64" json:"entryHash"`
}

func (Entry) TableName() string { return "ledger_entries" }

// ComputeHash returns the SHA-256 of the entry's canonical serialization.
// The hash field itself is excluded; map keys serialize in sorted order, so
// hashing the same entry twice always yields the same digest and any change
// to previous-hash or payload changes it.
func (e *Entry) ComputeHash() (string, error) {
	var payload any
	if len(e.EventData) > 0 {
		if err := json.Unmarshal(e.EventData, &payload); err != nil {
			return "", err
		}
	}
	doc := map[string]any{
		"timestamp":     e.Timestamp,
		"event_type":    e.EventType,
		"submission_id": e.SubmissionID,
		"event_data":    payload,
		"performed_by":  e.PerformedBy,
		"previous_hash": e.PreviousHash,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// Canonicalize round-trips v through JSON so that the stored payload and the
// payload recomputed from storage hash identically (numbers decode to
// float64, keys sort on marshal).
func Canonicalize(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, err
	}
	return json.Marshal(plain)
}
