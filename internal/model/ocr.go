package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// BoundingBox is the pixel rectangle an OCR line was read from.
type BoundingBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

// OcrLine is a single line of text extracted by the OCR provider, in tooltip
// reading order. Immutable once created.
type OcrLine struct {
	Text       string
	Confidence float64 // [0,1]
	Box        BoundingBox
	Index      int
}

// IsEmpty reports whether the line carries no visible text.
func (l OcrLine) IsEmpty() bool {
	return strings.TrimSpace(l.Text) == ""
}

// NumericToken is a numeric value extracted from a line of tooltip text.
type NumericToken struct {
	Value        float64
	IsPercentage bool
}

// NormalizedLine is an OcrLine plus its canonicalized text and the extracted
// numeric candidate, if any. Derived, owned by one assembly pass.
type NormalizedLine struct {
	Value *NumericToken
	// Text is the canonical form: ASCII-folded, lowercased, whitespace
	// collapsed, decoration stripped.
	Text string
	// MatchText is Text with all numeric tokens removed; this is what the
	// matcher compares against catalog names.
	MatchText string
	Source    OcrLine
	// ExtraNumerics counts numeric tokens beyond the first. They lower the
	// match confidence but never reject the line.
	ExtraNumerics int
}

// ContentHash produces the cache key for a raw OCR extraction. It covers the
// ordered (text, bbox) tuples only; confidence is deliberately excluded so
// two runs of the OCR engine over the same screenshot hash identically.
func ContentHash(lines []OcrLine) string {
	h := sha256.New()
	for _, l := range lines {
		fmt.Fprintf(h, "%s:%d,%d,%d,%d\n", l.Text, l.Box.X, l.Box.Y, l.Box.Width, l.Box.Height)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
