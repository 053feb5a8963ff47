// Package ruleset gives a typed, default-filled view over the tenant's raw
// rule document. Only the top-level "rules" key is mandatory; every group is
// optional and an absent group decodes to its zero value with Present=false,
// so checks can gate themselves off and fall back to documented defaults.
package ruleset

import (
	"encoding/json"
	"errors"
)

// ErrMissingRules marks a client configuration error: the rule document is
// absent or has no "rules" key. Rejected before the pipeline starts.
var ErrMissingRules = errors.New("rule document missing mandatory \"rules\" key")

// Defaults applied when a tenant's group omits a value.
const (
	DefaultMaxDistanceKM       = 5.0
	DefaultMaxDaysAfterSanct   = 30
	DefaultMinResolutionWidth  = 800
	DefaultMinResolutionHeight = 600
	DefaultMaxBlurVariance     = 120.0
	DefaultMaxHashDistance     = 8
	DefaultConfidence          = 0.8
	DefaultFlagWeight          = 5
	DefaultAutoApproveMaxRisk  = 20
	DefaultHighRiskMinRisk     = 60
)

type MediaRequirements struct {
	Present         bool `json:"-"`
	MinPhotos       *int `json:"min_photos"`
	MinVideoSeconds *int `json:"min_video_seconds"`
}

type GPSRules struct {
	Present        bool     `json:"-"`
	MaxDistanceKM  *float64 `json:"max_distance_km"`
	RequireExifGPS bool     `json:"require_exif_gps"`
}

func (g GPSRules) MaxDistance() float64 {
	if g.MaxDistanceKM != nil {
		return *g.MaxDistanceKM
	}
	return DefaultMaxDistanceKM
}

type TimeRules struct {
	Present              bool `json:"-"`
	MaxDaysAfterSanction *int `json:"max_days_after_sanction"`
	AllowBeforeSanction  bool `json:"allow_before_sanction"`
}

func (t TimeRules) MaxDaysAfter() int {
	if t.MaxDaysAfterSanction != nil {
		return *t.MaxDaysAfterSanction
	}
	return DefaultMaxDaysAfterSanct
}

type Resolution struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

type ImageQualityRules struct {
	Present             bool       `json:"-"`
	MinResolution       Resolution `json:"min_resolution"`
	MaxBlurVariance     *float64   `json:"max_blur_variance"`
	RejectScreenshots   *bool      `json:"reject_screenshots"`
	RejectPrintedPhotos *bool      `json:"reject_printed_photos"`
}

func (q ImageQualityRules) MinWidth() int {
	if q.MinResolution.Width != nil {
		return *q.MinResolution.Width
	}
	return DefaultMinResolutionWidth
}

func (q ImageQualityRules) MinHeight() int {
	if q.MinResolution.Height != nil {
		return *q.MinResolution.Height
	}
	return DefaultMinResolutionHeight
}

func (q ImageQualityRules) BlurThreshold() float64 {
	if q.MaxBlurVariance != nil {
		return *q.MaxBlurVariance
	}
	return DefaultMaxBlurVariance
}

// Screenshot and printed-photo rejection default to on.
func (q ImageQualityRules) ScreenshotsRejected() bool {
	return q.RejectScreenshots == nil || *q.RejectScreenshots
}

func (q ImageQualityRules) PrintedPhotosRejected() bool {
	return q.RejectPrintedPhotos == nil || *q.RejectPrintedPhotos
}

type FraudDetectionRules struct {
	Present            bool `json:"-"`
	DuplicateDetection bool `json:"duplicate_detection"`
	MaxHashDistance    *int `json:"max_hash_distance"`
	ELATamperingCheck  bool `json:"ela_tampering_check"`
}

func (f FraudDetectionRules) HashDistance() int {
	if f.MaxHashDistance != nil {
		return *f.MaxHashDistance
	}
	return DefaultMaxHashDistance
}

type AssetRules struct {
	Present             bool     `json:"-"`
	ClassifierRequired  bool     `json:"classifier_required"`
	AllowedAssetTypes   []string `json:"allowed_asset_types"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
}

func (a AssetRules) Confidence() float64 {
	if a.ConfidenceThreshold != nil {
		return *a.ConfidenceThreshold
	}
	return DefaultConfidence
}

type DocumentRules struct {
	Present               bool `json:"-"`
	RequireInvoice        bool `json:"require_invoice"`
	InvoiceOCRMatchAmount bool `json:"invoice_ocr_match_amount"`
	InvoiceOCRMatchDate   bool `json:"invoice_ocr_match_date"`
}

// RiskWeights maps a flag code to its score weight.
type RiskWeights map[string]int

// Weight returns the tenant weight for a flag, or the default when omitted.
func (w RiskWeights) Weight(flag string) int {
	if v, ok := w[flag]; ok {
		return v
	}
	return DefaultFlagWeight
}

type Thresholds struct {
	Present            bool `json:"-"`
	AutoApproveMaxRisk *int `json:"auto_approve_max_risk"`
	HighRiskMinRisk    *int `json:"high_risk_min_risk"`
}

func (t Thresholds) ApproveMax() int {
	if t.AutoApproveMaxRisk != nil {
		return *t.AutoApproveMaxRisk
	}
	return DefaultAutoApproveMaxRisk
}

func (t Thresholds) HighRiskMin() int {
	if t.HighRiskMinRisk != nil {
		return *t.HighRiskMinRisk
	}
	return DefaultHighRiskMinRisk
}

// RuleSet is the typed view over one tenant rule document.
type RuleSet struct {
	Media     MediaRequirements
	GPS       GPSRules
	Time      TimeRules
	Quality   ImageQualityRules
	Fraud     FraudDetectionRules
	Asset     AssetRules
	Document  DocumentRules
	Weights   RiskWeights
	Threshold Thresholds
}

// Parse builds a RuleSet from the raw rule document. The only fatal condition
// is a missing document or missing "rules" key; malformed groups degrade to
// their zero value so a bad group never aborts a validation run.
func Parse(doc map[string]any) (*RuleSet, error) {
	if doc == nil {
		return nil, ErrMissingRules
	}
	raw, ok := doc["rules"]
	if !ok {
		return nil, ErrMissingRules
	}
	groups, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrMissingRules
	}

	rs := &RuleSet{Weights: RiskWeights{}}
	rs.Media.Present = decodeGroup(groups, "media_requirements", &rs.Media)
	rs.GPS.Present = decodeGroup(groups, "gps_rules", &rs.GPS)
	rs.Time.Present = decodeGroup(groups, "time_rules", &rs.Time)
	rs.Quality.Present = decodeGroup(groups, "image_quality_rules", &rs.Quality)
	rs.Fraud.Present = decodeGroup(groups, "fraud_detection_rules", &rs.Fraud)
	rs.Asset.Present = decodeGroup(groups, "asset_rules", &rs.Asset)
	rs.Document.Present = decodeGroup(groups, "document_rules", &rs.Document)
	rs.Threshold.Present = decodeGroup(groups, "thresholds", &rs.Threshold)
	decodeGroup(groups, "risk_weights", &rs.Weights)
	return rs, nil
}

// decodeGroup json-round-trips one group into its typed struct. Returns true
// when the group is present and is a non-empty object.
func decodeGroup(groups map[string]any, name string, dst any) bool {
	raw, ok := groups[name]
	if !ok || raw == nil {
		return false
	}
	obj, ok := raw.(map[string]any)
	if !ok || len(obj) == 0 {
		return false
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false
	}
	return true
}
