package model

import "time"

// MaxCorrectionConfidence caps how far reaffirmation can raise a correction.
const MaxCorrectionConfidence = 1.0

// Correction is a human-confirmed mapping from noisy extracted text to a
// canonical item name, unique on (original text, corrected name). Confidence
// rises each time the same correction is reaffirmed, capped at
// MaxCorrectionConfidence.
type Correction struct {
	CreatedAt     time.Time
	OriginalText  string
	CorrectedName string
	Category      ItemCategory
	Confidence    float64
	ID            int64
}
