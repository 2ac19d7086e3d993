package assemble

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianjleepub/diablo4-item-comparer/internal/common"
	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func testSnapshot() *dictionary.Snapshot {
	affixes := []model.ReferenceAffix{
		{ID: 1, Name: "Critical Strike Chance", MinValue: floatPtr(1), MaxValue: floatPtr(10), IsPercentage: true},
		{ID: 2, Name: "Critical Strike Damage", MinValue: floatPtr(5), MaxValue: floatPtr(40), IsPercentage: true},
		{ID: 3, Name: "Maximum Life", MinValue: floatPtr(100), MaxValue: floatPtr(1000)},
		{ID: 4, Name: "Intelligence", MinValue: floatPtr(10), MaxValue: floatPtr(150), AllowDuplicate: true},
		{ID: 6, Name: "Block Chance", MinValue: floatPtr(10), MaxValue: floatPtr(20), IsPercentage: true},
	}
	aspects := []model.ReferenceAspect{
		{ID: 1, Name: "Aspect of the Protector"},
	}
	itemTypes := []model.ItemType{
		{ID: 1, Name: "Sword", Slot: "MainHand", IsWeapon: true},
		{ID: 3, Name: "Helm", Slot: "Head", IsArmor: true},
	}
	classes := []model.Class{
		{ID: 1, Name: "Barbarian"},
	}
	return dictionary.NewSnapshot(affixes, aspects, itemTypes, classes)
}

func tooltip(texts ...string) []model.OcrLine {
	lines := make([]model.OcrLine, len(texts))
	for i, t := range texts {
		lines[i] = model.OcrLine{
			Text:       t,
			Confidence: 0.95,
			Box:        model.BoundingBox{X: 10, Y: 10 + i*30, Width: 300, Height: 24},
			Index:      i,
		}
	}
	return lines
}

func TestItem(t *testing.T) {
	snap := testSnapshot()

	lines := tooltip(
		"Doombringer",
		"Ancestral Unique Sword",
		"750 Item Power",
		"+17.5% Block Chance",
		"----------",
		"+8.5% Critical Strike Chance",
		"+620 Maximum Life",
		"Empty Socket",
		"Requires Level 60",
		"Account Bound",
	)

	item, err := Item(lines, snap, Config{})
	require.NoError(t, err)

	assert.Equal(t, "Doombringer", item.Name)
	assert.Equal(t, model.ContentHash(lines), item.Hash)
	assert.Equal(t, model.RarityUnique, item.Rarity)
	assert.Equal(t, "Sword", item.ItemTypeName)
	assert.Equal(t, 750, item.ItemPower)
	assert.Equal(t, 60, item.LevelRequirement)
	assert.True(t, item.Flags.Ancestral)
	assert.True(t, item.Flags.Unique)
	assert.True(t, item.Flags.AccountBound)
	assert.Equal(t, 1, item.SocketCount())
	assert.True(t, item.Sockets[0].IsEmpty)
	assert.Empty(t, item.UnresolvedLines)
	assert.InDelta(t, 1.0, item.Completeness, 1e-9)

	require.Len(t, item.Affixes, 3)
	assert.Equal(t, 6, item.Affixes[0].AffixID, "implicit affix sorts first")
	assert.True(t, item.Affixes[0].IsImplicit)
	assert.Equal(t, 1, item.Affixes[1].AffixID)
	assert.False(t, item.Affixes[1].IsImplicit)
	assert.InDelta(t, 8.5, item.Affixes[1].Roll, 1e-9)
	assert.Equal(t, 3, item.Affixes[2].AffixID)
	assert.InDelta(t, 620, item.Affixes[2].Roll, 1e-9)
}

func TestItem_Deterministic(t *testing.T) {
	snap := testSnapshot()
	lines := tooltip(
		"Doombringer",
		"Unique Sword",
		"+8.5% Critical Strike Chance",
		"+620 Maximum Life",
	)

	first, err := Item(lines, snap, Config{})
	require.NoError(t, err)
	second, err := Item(lines, snap, Config{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestItem_RangeInvariant(t *testing.T) {
	snap := testSnapshot()
	lines := tooltip(
		"Doombringer",
		"Unique Sword",
		"750 Item Power",
		"+1200% Critical Strike Chance", // out of the 1-10 range
		"+620 Maximum Life",
		"Requires Level 42",
	)

	item, err := Item(lines, snap, Config{})
	require.NoError(t, err)

	require.Len(t, item.Affixes, 1)
	assert.Equal(t, 3, item.Affixes[0].AffixID)
	assert.Equal(t, []string{"+1200% Critical Strike Chance"}, item.UnresolvedLines)

	for _, m := range item.Affixes {
		affix, ok := snap.Affix(m.AffixID)
		require.True(t, ok)
		assert.True(t, affix.InRange(m.Roll))
	}
}

func TestItem_CompletenessGate(t *testing.T) {
	snap := testSnapshot()
	lines := tooltip(
		"Some Item",
		"+8.5% Critical Strike Chance",
		"+620 Maximum Life",
		"+26 Intelligence",
		"xq zvk wpf",
		"qqq www eee",
		"zzz yyy xxx",
		"mmm nnn ooo",
		"ppp rrr sss",
		"ttt uuu vvv",
	)

	_, err := Item(lines, snap, Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInsufficientMatch)

	var insufficientErr *InsufficientMatchError
	require.True(t, errors.As(err, &insufficientErr))
	assert.InDelta(t, 0.4, insufficientErr.Completeness, 1e-9)
	assert.Len(t, insufficientErr.UnresolvedLines, 6)
}

func TestItem_EmptyInput(t *testing.T) {
	snap := testSnapshot()

	_, err := Item(nil, snap, Config{})
	assert.ErrorIs(t, err, common.ErrEmptyInput)

	_, err = Item(tooltip("", "   ", "\t"), snap, Config{})
	assert.ErrorIs(t, err, common.ErrEmptyInput)
}

func TestItem_DuplicateAffixClaims(t *testing.T) {
	snap := testSnapshot()

	t.Run("ordinary affix claimed once", func(t *testing.T) {
		lines := tooltip(
			"Twin Rolls",
			"Rare Helm",
			"+620 Maximum Life",
			"+700 Maximum Life",
		)
		item, err := Item(lines, snap, Config{})
		require.NoError(t, err)

		require.Len(t, item.Affixes, 1)
		assert.Equal(t, []string{"+700 Maximum Life"}, item.UnresolvedLines)
	})

	t.Run("allow duplicate affix claimed twice", func(t *testing.T) {
		lines := tooltip(
			"Twin Rolls",
			"Rare Helm",
			"+26 Intelligence",
			"+31 Intelligence",
		)
		item, err := Item(lines, snap, Config{})
		require.NoError(t, err)

		require.Len(t, item.Affixes, 2)
		assert.Equal(t, 4, item.Affixes[0].AffixID)
		assert.Equal(t, 4, item.Affixes[1].AffixID)
	})
}

func TestItem_AspectAndUniquePower(t *testing.T) {
	snap := testSnapshot()
	lines := tooltip(
		"Harlequin Crest",
		"Mythic Unique Helm",
		"+620 Maximum Life",
		"Aspect of the Protector",
		"Unique Power",
		"Gain a barrier when injured.",
	)

	item, err := Item(lines, snap, Config{})
	require.NoError(t, err)

	assert.Equal(t, model.RarityMythic, item.Rarity)
	assert.True(t, item.Flags.Mythic)
	assert.True(t, item.Flags.Unique)
	require.Len(t, item.Aspects, 1)
	assert.Equal(t, 1, item.Aspects[0].AspectID)
	assert.Equal(t, "Gain a barrier when injured.", item.UniquePowerText)
	assert.Empty(t, item.UnresolvedLines)
}

func TestItem_GreaterAffixMarker(t *testing.T) {
	snap := testSnapshot()
	lines := tooltip(
		"Starfall",
		"Legendary Sword",
		"+8.5% Critical Strike Chance ★",
		"+620 Maximum Life",
	)

	item, err := Item(lines, snap, Config{})
	require.NoError(t, err)

	require.Len(t, item.Affixes, 2)
	assert.True(t, item.Affixes[0].IsGreater)
	assert.False(t, item.Affixes[1].IsGreater)
}

func TestItem_NoDictionary(t *testing.T) {
	_, err := Item(tooltip("anything"), nil, Config{})
	assert.ErrorIs(t, err, common.ErrNoDictionary)
}
