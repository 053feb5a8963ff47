package checks

// DuplicateMatch re-exports duplicateMatch for the external test package.
type DuplicateMatch = duplicateMatch

const OCRTextFeatureLimit = ocrTextFeatureLimit

var WholeDaysBetween = wholeDaysBetween
