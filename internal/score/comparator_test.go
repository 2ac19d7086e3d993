package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

func breakdown(hash string, total float64) model.ScoreBreakdown {
	return model.ScoreBreakdown{ItemHash: hash, BuildID: 7, Total: total}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name       string
		scoreA     float64
		scoreB     float64
		epsilon    float64
		wantWinner model.Winner
		wantDelta  float64
	}{
		{name: "clear winner a", scoreA: 120, scoreB: 80, epsilon: 0.01, wantWinner: model.WinnerA, wantDelta: 40},
		{name: "clear winner b", scoreA: 80, scoreB: 120, epsilon: 0.01, wantWinner: model.WinnerB, wantDelta: -40},
		{name: "tie within epsilon", scoreA: 100.005, scoreB: 100, epsilon: 0.01, wantWinner: model.WinnerTie, wantDelta: 0.005},
		{name: "exact tie", scoreA: 100, scoreB: 100, epsilon: 0.01, wantWinner: model.WinnerTie, wantDelta: 0},
		{name: "exact tie with zero epsilon", scoreA: 100, scoreB: 100, epsilon: 0, wantWinner: model.WinnerTie, wantDelta: 0},
		{name: "negative scores", scoreA: -150, scoreB: -90, epsilon: 0.01, wantWinner: model.WinnerB, wantDelta: -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(breakdown("a", tt.scoreA), breakdown("b", tt.scoreB), tt.epsilon)

			assert.Equal(t, tt.wantWinner, got.Winner)
			assert.InDelta(t, tt.wantDelta, got.Delta, 1e-9)
			assert.Equal(t, "a", got.ItemAHash)
			assert.Equal(t, "b", got.ItemBHash)
			assert.Equal(t, 7, got.BuildID)
		})
	}
}

func TestCompare_Symmetry(t *testing.T) {
	a := breakdown("a", 130.5)
	b := breakdown("b", 88.25)

	forward := Compare(a, b, DefaultTieEpsilon)
	backward := Compare(b, a, DefaultTieEpsilon)

	assert.InDelta(t, forward.Delta, -backward.Delta, 1e-9, "deltas are inverse")
	assert.Equal(t, model.WinnerA, forward.Winner)
	assert.Equal(t, model.WinnerB, backward.Winner, "winner swaps with argument order")
}

func TestCompare_SelfIsAlwaysTie(t *testing.T) {
	a := breakdown("a", 99.99)

	for _, eps := range []float64{0, 0.01, 1, 1000} {
		got := Compare(a, a, eps)
		assert.Equal(t, model.WinnerTie, got.Winner, "epsilon %v", eps)
		assert.InDelta(t, 0, got.Delta, 1e-9)
	}
}
