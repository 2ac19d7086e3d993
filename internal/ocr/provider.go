// Package ocr adapts external OCR engines to the pipeline's provider
// contract. The pipeline never runs OCR itself; it consumes already-extracted
// line data.
package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/brianjleepub/diablo4-item-comparer/internal/common"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// ocrLineJSON mirrors the dump format the OCR proof of concept writes: one
// record per recognized line with its confidence and pixel position.
type ocrLineJSON struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Position   struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"position"`
}

// FileProvider reads OCR extractions from JSON dump files. It exists for the
// CLI and for tests; a live engine would sit behind the same interface.
type FileProvider struct{}

// NewFileProvider creates a file-backed OCR provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// ExtractLines decodes the dump at source and returns the lines in vertical
// reading order.
func (p *FileProvider) ExtractLines(ctx context.Context, source string) ([]model.OcrLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read dump: %v", common.ErrOCRUnavailable, err)
	}

	var raw []ocrLineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse OCR dump %s: %w", source, err)
	}

	lines := make([]model.OcrLine, len(raw))
	for i, r := range raw {
		lines[i] = model.OcrLine{
			Text:       r.Text,
			Confidence: r.Confidence,
			Box: model.BoundingBox{
				X:      r.Position.X,
				Y:      r.Position.Y,
				Width:  r.Position.Width,
				Height: r.Position.Height,
			},
		}
	}

	// Dumps are usually already top-to-bottom, but the contract promises
	// vertical reading order, so enforce it.
	sort.SliceStable(lines, func(a, b int) bool {
		if lines[a].Box.Y != lines[b].Box.Y {
			return lines[a].Box.Y < lines[b].Box.Y
		}
		return lines[a].Box.X < lines[b].Box.X
	})
	for i := range lines {
		lines[i].Index = i
	}

	return lines, nil
}
