package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantText      string
		wantMatchText string
		wantValue     *model.NumericToken
		wantExtra     int
	}{
		{
			name:          "plain affix with percentage roll",
			input:         "+8.5% Critical Strike Chance",
			wantText:      "+8.5% critical strike chance",
			wantMatchText: "critical strike chance",
			wantValue:     &model.NumericToken{Value: 8.5, IsPercentage: true},
		},
		{
			name:          "integer roll with plus prefix",
			input:         "+120 Intelligence",
			wantText:      "+120 intelligence",
			wantMatchText: "intelligence",
			wantValue:     &model.NumericToken{Value: 120},
		},
		{
			name:          "decorative bullets are stripped",
			input:         "● +42 Maximum Life ●",
			wantText:      "+42 maximum life",
			wantMatchText: "maximum life",
			wantValue:     &model.NumericToken{Value: 42},
		},
		{
			name:          "comma decimal separator",
			input:         "+7,5% Attack Speed",
			wantText:      "+7,5% attack speed",
			wantMatchText: "attack speed",
			wantValue:     &model.NumericToken{Value: 7.5, IsPercentage: true},
		},
		{
			name:          "whitespace collapse",
			input:         "  Lucky   Hit:\tUp to a   5% Chance ",
			wantText:      "lucky hit: up to a 5% chance",
			wantMatchText: "lucky hit: up to a chance",
			wantValue:     &model.NumericToken{Value: 5, IsPercentage: true},
			wantExtra:     0,
		},
		{
			name:          "multiple numeric tokens keep the first",
			input:         "+26 Dexterity [22 - 31]",
			wantText:      "+26 dexterity [22 - 31]",
			wantMatchText: "dexterity [ - ]",
			wantValue:     &model.NumericToken{Value: 26},
			wantExtra:     2,
		},
		{
			name:          "accent folding",
			input:         "Résistance to All Éléments",
			wantText:      "resistance to all elements",
			wantMatchText: "resistance to all elements",
		},
		{
			name:          "no numeric token",
			input:         "Empty Socket",
			wantText:      "empty socket",
			wantMatchText: "empty socket",
		},
		{
			name:          "negative value",
			input:         "-12% Damage Taken",
			wantText:      "-12% damage taken",
			wantMatchText: "damage taken",
			wantValue:     &model.NumericToken{Value: -12, IsPercentage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Line(model.OcrLine{Text: tt.input, Confidence: 0.9})

			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantMatchText, got.MatchText)
			assert.Equal(t, tt.wantExtra, got.ExtraNumerics)

			if tt.wantValue == nil {
				assert.Nil(t, got.Value)
			} else {
				require.NotNil(t, got.Value)
				assert.InDelta(t, tt.wantValue.Value, got.Value.Value, 1e-9)
				assert.Equal(t, tt.wantValue.IsPercentage, got.Value.IsPercentage)
			}
		})
	}
}

func TestLine_Deterministic(t *testing.T) {
	line := model.OcrLine{Text: "★ +8.5% Critical Strike Chance ★", Confidence: 0.95, Index: 3}

	first := Line(line)
	second := Line(line)

	assert.Equal(t, first, second)
	assert.Equal(t, line, first.Source, "source line is carried unchanged")
}
