// Package check defines the uniform contract every pipeline check fulfils:
// consume the immutable submission plus its rule-group slice, produce a set
// of flag codes and a map of named diagnostic features. Per-item failures
// inside a check degrade into a dedicated flag and feature; a check never
// aborts the pipeline.
package check

// Flag is a short, stable code signaling one anomaly or policy violation.
type Flag = string

const (
	FlagExifMissing         Flag = "EXIF_MISSING"
	FlagExifGPSMissing      Flag = "EXIF_GPS_MISSING"
	FlagExifEditingSoftware Flag = "EXIF_EDITING_SOFTWARE"
	FlagGPSMissing          Flag = "GPS_MISSING"
	FlagGPSMismatch         Flag = "GPS_MISMATCH"
	FlagInvalidSanctionDate Flag = "INVALID_SANCTION_DATE"
	FlagPhotoBeforeSanction Flag = "PHOTO_BEFORE_SANCTION"
	FlagPhotoTooLate        Flag = "PHOTO_TOO_LATE"
	FlagLowQuality          Flag = "LOW_QUALITY"
	FlagScreenshotDetected  Flag = "SCREENSHOT_DETECTED"
	FlagPrintedPhoto        Flag = "PRINTED_PHOTO_DETECTED"
	FlagDuplicateImage      Flag = "DUPLICATE_IMAGE"
	FlagELATampered         Flag = "ELA_TAMPERED"
	FlagNoImage             Flag = "NO_IMAGE"
	FlagUnknownAsset        Flag = "UNKNOWN_ASSET"
	FlagLowConfidence       Flag = "LOW_CONFIDENCE"
	FlagClassifierError     Flag = "CLASSIFIER_ERROR"
	FlagInvoiceMissing      Flag = "INVOICE_MISSING"
	FlagInvoiceMismatch     Flag = "INVOICE_AMOUNT_MISMATCH"
	FlagInvoiceOCRError     Flag = "INVOICE_OCR_ERROR"
	FlagLowMediaCount       Flag = "LOW_MEDIA_COUNT"
	FlagVideoMissing        Flag = "VIDEO_MISSING"
)

// Known feature keys. The feature map stays open for forward compatibility;
// these constants enumerate the keys the built-in checks write so that
// collisions are declared, not accidental.
const (
	FeatExifDetails        = "exif_details"
	FeatExifAnyPresent     = "exif_any_present"
	FeatExifAnyGPSPresent  = "exif_any_gps_present"
	FeatGPSHomeVsAssetKM   = "gps_home_vs_asset_km"
	FeatAssetLocation      = "asset_location"
	FeatHomeLocation       = "home_location"
	FeatEarliestCapture    = "earliest_capture_date"
	FeatLatestCapture      = "latest_capture_date"
	FeatSanctionDate       = "sanction_date"
	FeatDaysAfterSanction  = "days_after_sanction"
	FeatAvgBlurVariance    = "avg_blur_variance"
	FeatImageResolutions   = "image_resolutions"
	FeatScreenshotCount    = "screenshot_count"
	FeatPrintedCount       = "printed_suspect_count"
	FeatDuplicateMatches   = "duplicate_matches"
	FeatELAAvgScore        = "ela_avg_score"
	FeatClassifierLabels   = "classifier_labels"
	FeatClassifierBest     = "classifier_predicted"
	FeatClassifierConf     = "classifier_confidence"
	FeatClassifierError    = "classifier_error"
	FeatAssetMatches       = "asset_matches"
	FeatInvoicePresent     = "invoice_present"
	FeatInvoiceAmountOCR   = "invoice_amount_ocr"
	FeatInvoiceOCRText     = "invoice_ocr_text"
	FeatImageCount         = "image_count"
	FeatVideoPresent       = "video_present"
)

// Features is the named diagnostic map a check produces. Values are plain
// JSON-representable types so ledger payloads hash deterministically.
type Features = map[string]any

// Result is the uniform check output. Flags keeps occurrence order and
// multiplicity; deduplication happens once, at the end of the pipeline
// (scoring deliberately consumes the raw multiset).
type Result struct {
	Flags    []Flag   `json:"flags"`
	Features Features `json:"features"`
}

// NewResult returns an empty result with an allocated feature map.
func NewResult() Result {
	return Result{Flags: []Flag{}, Features: Features{}}
}

func (r *Result) AddFlag(f Flag) { r.Flags = append(r.Flags, f) }

func (r *Result) SetFeature(key string, v any) { r.Features[key] = v }
