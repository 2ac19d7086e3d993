package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianjleepub/diablo4-item-comparer/internal/common"
	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
)

func floatPtr(f float64) *float64 { return &f }

func seedStorage(t *testing.T) *mockStorage {
	t.Helper()
	ctx := context.Background()
	st := newMockStorage()

	require.NoError(t, st.SaveAffixes(ctx, []model.ReferenceAffix{
		{ID: 101, Name: "Maximum Life", MinValue: floatPtr(400), MaxValue: floatPtr(1000)},
		{ID: 102, Name: "Dexterity", MinValue: floatPtr(20), MaxValue: floatPtr(60)},
		{ID: 103, Name: "Critical Strike Chance", IsPercentage: true, MinValue: floatPtr(1), MaxValue: floatPtr(12)},
	}))
	require.NoError(t, st.SaveAspects(ctx, []model.ReferenceAspect{
		{ID: 501, Name: "Aspect of the Umbral"},
	}))
	require.NoError(t, st.SaveItemTypes(ctx, []model.ItemType{
		{ID: 1, Name: "Sword", IsWeapon: true},
		{ID: 2, Name: "Helm", IsArmor: true},
	}))
	require.NoError(t, st.SaveClasses(ctx, []model.Class{
		{ID: 1, Name: "Barbarian"},
	}))
	return st
}

func tooltipLines(confidence float64) []model.OcrLine {
	texts := []string{
		"Doombringer",
		"Ancestral Unique Sword",
		"750 Item Power",
		"+620 Maximum Life",
		"+4.5% Critical Strike Chance",
		"Requires Level 60",
	}
	lines := make([]model.OcrLine, len(texts))
	for i, text := range texts {
		lines[i] = model.OcrLine{
			Text:       text,
			Confidence: confidence,
			Box:        model.BoundingBox{X: 10, Y: 20 * (i + 1), Width: 200, Height: 18},
			Index:      i,
		}
	}
	return lines
}

func TestIngestLines(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	eng := New(st, newMockProvider(), dictionary.NewHolder())

	item, err := eng.IngestLines(ctx, tooltipLines(0.97))
	require.NoError(t, err)

	assert.Equal(t, "Doombringer", item.Name)
	assert.Equal(t, model.RarityUnique, item.Rarity)
	assert.Equal(t, 750, item.ItemPower)
	assert.Equal(t, 60, item.LevelRequirement)
	require.Len(t, item.Affixes, 2)
	assert.True(t, item.HasAffix(101))
	assert.True(t, item.HasAffix(103))
	assert.InDelta(t, 1.0, item.Completeness, 1e-9)

	// Ingestion persists under the content hash.
	stored, err := st.GetItemByHash(ctx, item.Hash)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, item.Name, stored.Name)
}

func TestIngestLinesCachedAcrossConfidences(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	eng := New(st, newMockProvider(), dictionary.NewHolder())

	// Same text and boxes, different OCR confidence: both runs hash
	// identically and the second must reuse the first assembly.
	first, err := eng.IngestLines(ctx, tooltipLines(0.97))
	require.NoError(t, err)
	second, err := eng.IngestLines(ctx, tooltipLines(0.62))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, st.items, 1)
}

func TestIngestAcquiresFromProvider(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	provider := newMockProvider()
	provider.dumps["screenshot.json"] = tooltipLines(0.95)
	eng := New(st, provider, dictionary.NewHolder())

	item, err := eng.Ingest(ctx, "screenshot.json")
	require.NoError(t, err)
	assert.Equal(t, "Doombringer", item.Name)
	assert.Equal(t, 1, provider.calls)
}

func TestIngestRetriesAcquisition(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	provider := newMockProvider()
	provider.err = errors.New("engine busy")

	cfg := DefaultConfig()
	cfg.Retry = service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}
	eng := NewWithConfig(st, provider, dictionary.NewHolder(), cfg)

	_, err := eng.Ingest(ctx, "screenshot.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 2, provider.calls)
}

func TestScore(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	eng := New(st, newMockProvider(), dictionary.NewHolder())

	item, err := eng.IngestLines(ctx, tooltipLines(0.97))
	require.NoError(t, err)

	build, err := st.CreateBuild(ctx, "HotA Barbarian", "", 1)
	require.NoError(t, err)
	require.NoError(t, st.SetBuildWeights(ctx, build.BuildID, []model.AffixWeight{
		{AffixID: 101, Weight: 80},
		{AffixID: 102, Weight: 40, Required: true},
	}))

	breakdown, err := eng.Score(ctx, item.Hash, build.BuildID)
	require.NoError(t, err)

	assert.Equal(t, item.Hash, breakdown.ItemHash)
	assert.Equal(t, build.BuildID, breakdown.BuildID)
	// Maximum Life rolled 620 in [400,1000]: 80 * (220/600).
	// Dexterity is required but absent: -(40 * 2).
	expected := 80*(220.0/600.0) - 80.0
	assert.InDelta(t, expected, breakdown.Total, 1e-9)
}

func TestScoreNotFound(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	eng := New(st, newMockProvider(), dictionary.NewHolder())

	_, err := eng.Score(ctx, "deadbeef", 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	item, err := eng.IngestLines(ctx, tooltipLines(0.97))
	require.NoError(t, err)

	_, err = eng.Score(ctx, item.Hash, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestComparePersistsResult(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	eng := New(st, newMockProvider(), dictionary.NewHolder())

	strong, err := eng.IngestLines(ctx, tooltipLines(0.97))
	require.NoError(t, err)

	weakTexts := tooltipLines(0.97)
	weakTexts[3].Text = "+410 Maximum Life"
	weak, err := eng.IngestLines(ctx, weakTexts)
	require.NoError(t, err)
	require.NotEqual(t, strong.Hash, weak.Hash)

	build, err := st.CreateBuild(ctx, "HotA Barbarian", "", 1)
	require.NoError(t, err)
	require.NoError(t, st.SetBuildWeights(ctx, build.BuildID, []model.AffixWeight{
		{AffixID: 101, Weight: 80},
	}))

	result, err := eng.Compare(ctx, strong.Hash, weak.Hash, build.BuildID)
	require.NoError(t, err)

	assert.Equal(t, model.WinnerA, result.Winner)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.CreatedAt.IsZero())
	assert.Equal(t, strong.Hash, result.ItemAHash)
	assert.Equal(t, weak.Hash, result.ItemBHash)

	history, err := st.GetComparisonsByBuild(ctx, build.BuildID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.ID, history[0].ID)
}

func TestRefreshDictionarySwapsSnapshot(t *testing.T) {
	ctx := context.Background()
	st := seedStorage(t)
	holder := dictionary.NewHolder()
	eng := New(st, newMockProvider(), holder)

	require.Nil(t, holder.Snapshot())
	require.NoError(t, eng.RefreshDictionary(ctx))

	snap := holder.Snapshot()
	require.NotNil(t, snap)
	affixes, aspects, itemTypes, classes := snap.Stats()
	assert.Equal(t, 3, affixes)
	assert.Equal(t, 1, aspects)
	assert.Equal(t, 2, itemTypes)
	assert.Equal(t, 1, classes)

	// A refresh after the catalog grows swaps in a fresh snapshot.
	require.NoError(t, st.SaveAffixes(ctx, []model.ReferenceAffix{
		{ID: 101, Name: "Maximum Life"},
	}))
	require.NoError(t, eng.RefreshDictionary(ctx))
	assert.NotSame(t, snap, holder.Snapshot())
	affixes, _, _, _ = holder.Snapshot().Stats()
	assert.Equal(t, 1, affixes)
}
