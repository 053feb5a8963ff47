package submission

import "time"

type MediaType string

const (
	TypeImage    MediaType = "IMAGE"
	TypeVideo    MediaType = "VIDEO"
	TypeDocument MediaType = "DOCUMENT"
)

// GPSPoint is a nullable coordinate pair. Lat/Lng are pointers because the
// upstream payload distinguishes "no fix" from (0, 0).
type GPSPoint struct {
	Lat *float64 `json:"gpsLat"`
	Lng *float64 `json:"gpsLng"`
}

func (p GPSPoint) Present() bool { return p.Lat != nil && p.Lng != nil }

// MediaItem is one evidentiary artifact. FileKey is a storage key or a full
// (possibly presigned) URL; bytes are fetched lazily by the storage
// collaborator. The boolean hints come from the capturing client or a
// pre-processing stage. Read-only throughout the pipeline.
type MediaItem struct {
	Type        MediaType `json:"type"`
	FileKey     string    `json:"fileKey"`
	MimeType    string    `json:"mimeType"`
	SizeInBytes *int64    `json:"sizeInBytes,omitempty"`

	CapturedAt *string  `json:"capturedAt,omitempty"`
	GPSLat     *float64 `json:"gpsLat,omitempty"`
	GPSLng     *float64 `json:"gpsLng,omitempty"`

	HasExif               *bool `json:"hasExif,omitempty"`
	HasGPSExif            *bool `json:"hasGpsExif,omitempty"`
	IsScreenshot          *bool `json:"isScreenshot,omitempty"`
	IsPrintedPhotoSuspect *bool `json:"isPrintedPhotoSuspect,omitempty"`
}

// CapturedTime parses the capture timestamp. Second return is false when the
// timestamp is absent or unparseable.
func (m MediaItem) CapturedTime() (time.Time, bool) {
	if m.CapturedAt == nil || *m.CapturedAt == "" {
		return time.Time{}, false
	}
	t, err := parseUpstreamTime(*m.CapturedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type LoanDetails struct {
	AssetType      string   `json:"assetType"`
	SanctionDate   *string  `json:"sanctionDate,omitempty"`
	SanctionAmount *float64 `json:"sanctionAmount,omitempty"`
	MinAmount      *float64 `json:"minAmount,omitempty"`
	MaxAmount      *float64 `json:"maxAmount,omitempty"`
}

// Submission is the immutable input to one validation run. Constructed once
// per request; never mutated during evaluation.
type Submission struct {
	SubmissionID string         `json:"submissionId"`
	LoanID       string         `json:"loanId"`
	TenantID     string         `json:"tenantId"`
	RuleSetID    string         `json:"rullsetid,omitempty"`
	RuleDoc      map[string]any `json:"rullset"` // upstream wire name, kept for compatibility
	LoanDetails  LoanDetails    `json:"loanDetails"`
	GPS          GPSPoint       `json:"gps"`

	SanctionDate          *string  `json:"sanctionDate,omitempty"`
	ExpectedInvoiceAmount *float64 `json:"expectedInvoiceAmount,omitempty"`

	Media []MediaItem `json:"media"`
}

// ResolvedSanctionDate applies the precedence rule: the loan-level sanction
// date wins over the submission-level override when both are present.
func (s *Submission) ResolvedSanctionDate() (time.Time, bool) {
	for _, raw := range []*string{s.LoanDetails.SanctionDate, s.SanctionDate} {
		if raw == nil || *raw == "" {
			continue
		}
		if t, err := parseUpstreamTime(*raw); err == nil {
			return t, true
		}
		// Present but unparseable still resolves: the time check owns the
		// INVALID_SANCTION_DATE flag, so hand the raw value through.
		return time.Time{}, true
	}
	return time.Time{}, false
}

// RawSanctionDate returns the sanction date string under the same precedence.
func (s *Submission) RawSanctionDate() (string, bool) {
	if s.LoanDetails.SanctionDate != nil && *s.LoanDetails.SanctionDate != "" {
		return *s.LoanDetails.SanctionDate, true
	}
	if s.SanctionDate != nil && *s.SanctionDate != "" {
		return *s.SanctionDate, true
	}
	return "", false
}

// ResolvedExpectedAmount: loan sanction amount wins over the
// submission-level expected invoice amount.
func (s *Submission) ResolvedExpectedAmount() (float64, bool) {
	if s.LoanDetails.SanctionAmount != nil {
		return *s.LoanDetails.SanctionAmount, true
	}
	if s.ExpectedInvoiceAmount != nil {
		return *s.ExpectedInvoiceAmount, true
	}
	return 0, false
}

// Images returns the IMAGE items in submission order.
func (s *Submission) Images() []MediaItem {
	var out []MediaItem
	for _, m := range s.Media {
		if m.Type == TypeImage {
			out = append(out, m)
		}
	}
	return out
}

// Documents returns the DOCUMENT items in submission order.
func (s *Submission) Documents() []MediaItem {
	var out []MediaItem
	for _, m := range s.Media {
		if m.Type == TypeDocument {
			out = append(out, m)
		}
	}
	return out
}

// parseUpstreamTime accepts RFC3339/RFC3339Nano; a trailing "Z" is already
// valid RFC3339 so no rewrite is needed on the Go side.
func parseUpstreamTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
