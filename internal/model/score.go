package model

import "time"

// Winner identifies the better item in a comparison. The values match the
// comparison history schema.
type Winner string

// Comparison verdicts.
const (
	WinnerA   Winner = "item_a"
	WinnerB   Winner = "item_b"
	WinnerTie Winner = "tie"
)

// Contribution is one affix's share of an item score.
type Contribution struct {
	AffixName      string
	AffixID        int
	Weight         float64
	Roll           float64
	NormalizedRoll float64
	Value          float64
	Required       bool
	Missing        bool
}

// ScoreBreakdown is the auditable result of scoring one item against one
// build profile. Contributions are ordered by affix id so two runs over the
// same inputs produce identical output.
type ScoreBreakdown struct {
	ItemHash      string
	Contributions []Contribution
	BuildID       int
	Total         float64
}

// ComparisonResult is the verdict of comparing two scored items under the
// same build.
type ComparisonResult struct {
	CreatedAt  time.Time
	ID         string
	ItemAHash  string
	ItemBHash  string
	Winner     Winner
	BreakdownA ScoreBreakdown
	BreakdownB ScoreBreakdown
	BuildID    int
	ScoreA     float64
	ScoreB     float64
	Delta      float64
}
