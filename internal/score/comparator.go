package score

import (
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// DefaultTieEpsilon is the score delta below which two items are considered
// equivalent.
const DefaultTieEpsilon = 0.01

// Compare renders a verdict between two already-computed breakdowns under the
// same build. Pure and symmetric: it never recomputes scores, so a comparison
// can be replayed from stored breakdowns for audit.
func Compare(a, b model.ScoreBreakdown, epsilon float64) model.ComparisonResult {
	delta := a.Total - b.Total

	winner := model.WinnerTie
	switch {
	case delta > epsilon:
		winner = model.WinnerA
	case delta < -epsilon:
		winner = model.WinnerB
	}

	return model.ComparisonResult{
		ItemAHash:  a.ItemHash,
		ItemBHash:  b.ItemHash,
		BuildID:    a.BuildID,
		ScoreA:     a.Total,
		ScoreB:     b.Total,
		Delta:      delta,
		Winner:     winner,
		BreakdownA: a,
		BreakdownB: b,
	}
}
