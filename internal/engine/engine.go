// Package engine orchestrates the item ingestion and comparison pipeline.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brianjleepub/diablo4-item-comparer/internal/assemble"
	"github.com/brianjleepub/diablo4-item-comparer/internal/cache"
	"github.com/brianjleepub/diablo4-item-comparer/internal/common"
	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/match"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/score"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
)

// IngestionEngine runs OCR extractions through normalization, matching,
// assembly and scoring. One engine serves concurrent ingestions over a shared
// read-only dictionary snapshot.
type IngestionEngine struct {
	storage  service.Storage
	provider service.OCRProvider
	dict     *dictionary.Holder
	cache    *cache.ResultCache
	config   Config
}

// Config holds the pipeline's tunable thresholds.
type Config struct {
	MatchThreshold        float64
	CompletenessThreshold float64
	RequiredPenaltyFactor float64
	TieEpsilon            float64
	// OCRTimeout bounds one acquisition attempt so a stalled OCR engine
	// cannot wedge the pipeline.
	OCRTimeout time.Duration
	Retry      service.RetryOptions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:        match.DefaultThreshold,
		CompletenessThreshold: assemble.DefaultCompletenessThreshold,
		RequiredPenaltyFactor: score.DefaultRequiredPenaltyFactor,
		TieEpsilon:            score.DefaultTieEpsilon,
		OCRTimeout:            10 * time.Second,
	}
}

// New creates an ingestion engine with the default configuration.
func New(storage service.Storage, provider service.OCRProvider, dict *dictionary.Holder) *IngestionEngine {
	return NewWithConfig(storage, provider, dict, DefaultConfig())
}

// NewWithConfig creates an ingestion engine with custom configuration.
func NewWithConfig(storage service.Storage, provider service.OCRProvider, dict *dictionary.Holder, config Config) *IngestionEngine {
	return &IngestionEngine{
		storage:  storage,
		provider: provider,
		dict:     dict,
		cache:    cache.New(),
		config:   config,
	}
}

// RefreshDictionary loads the reference catalog from storage, builds a fresh
// snapshot and atomically swaps it in. In-flight ingestions keep the snapshot
// they started with.
func (e *IngestionEngine) RefreshDictionary(ctx context.Context) error {
	affixes, err := e.storage.GetAffixes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load affixes: %w", err)
	}
	aspects, err := e.storage.GetAspects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load aspects: %w", err)
	}
	itemTypes, err := e.storage.GetItemTypes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load item types: %w", err)
	}
	classes, err := e.storage.GetClasses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load classes: %w", err)
	}

	snap := dictionary.NewSnapshot(affixes, aspects, itemTypes, classes)
	e.dict.Swap(snap)

	slog.Info("Reference dictionary refreshed",
		"affixes", len(affixes),
		"aspects", len(aspects),
		"item_types", len(itemTypes),
		"classes", len(classes))
	return nil
}

// Ingest acquires an OCR extraction for source and assembles it into a
// structured item, persisting the result. Identical raw inputs hit the result
// cache and skip assembly entirely.
func (e *IngestionEngine) Ingest(ctx context.Context, source string) (*model.StructuredItem, error) {
	lines, err := e.acquire(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("ocr acquisition failed: %w", err)
	}

	return e.IngestLines(ctx, lines)
}

// IngestLines assembles already-acquired OCR lines into a structured item.
func (e *IngestionEngine) IngestLines(ctx context.Context, lines []model.OcrLine) (*model.StructuredItem, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	hash := model.ContentHash(lines)

	item, err := e.cache.GetOrCompute(hash, func() (*model.StructuredItem, error) {
		slog.Debug("Assembling item", "hash", hash, "lines", len(lines))
		return assemble.Item(lines, snap, assemble.Config{
			MatchThreshold:        e.config.MatchThreshold,
			CompletenessThreshold: e.config.CompletenessThreshold,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := e.storage.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to persist item: %w", err)
	}

	slog.Info("Item ingested",
		"hash", hash,
		"name", item.Name,
		"rarity", item.Rarity.String(),
		"affixes", len(item.Affixes),
		"unresolved", len(item.UnresolvedLines),
		"completeness", item.Completeness)
	return item, nil
}

// Score evaluates a stored item against a stored build profile.
func (e *IngestionEngine) Score(ctx context.Context, itemHash string, buildID int) (model.ScoreBreakdown, error) {
	snap, err := e.snapshot(ctx)
	if err != nil {
		return model.ScoreBreakdown{}, err
	}

	item, err := e.storage.GetItemByHash(ctx, itemHash)
	if err != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("failed to load item %s: %w", itemHash, err)
	}
	if item == nil {
		return model.ScoreBreakdown{}, fmt.Errorf("item %s: %w", itemHash, common.ErrNotFound)
	}

	profile, err := e.storage.GetBuildProfile(ctx, buildID)
	if err != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("failed to load build %d: %w", buildID, err)
	}
	if profile == nil {
		return model.ScoreBreakdown{}, fmt.Errorf("build %d: %w", buildID, common.ErrNotFound)
	}

	return score.Breakdown(item, profile, snap, score.Config{
		RequiredPenaltyFactor: e.config.RequiredPenaltyFactor,
	}), nil
}

// Compare scores two stored items under the same build, persists the verdict
// to the comparison history and returns it.
func (e *IngestionEngine) Compare(ctx context.Context, hashA, hashB string, buildID int) (*model.ComparisonResult, error) {
	breakdownA, err := e.Score(ctx, hashA, buildID)
	if err != nil {
		return nil, err
	}
	breakdownB, err := e.Score(ctx, hashB, buildID)
	if err != nil {
		return nil, err
	}

	result := score.Compare(breakdownA, breakdownB, e.config.TieEpsilon)
	result.ID = uuid.NewString()
	result.CreatedAt = time.Now().UTC()

	if err := e.storage.SaveComparison(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to persist comparison: %w", err)
	}

	slog.Info("Comparison recorded",
		"id", result.ID,
		"build", buildID,
		"winner", result.Winner,
		"delta", result.Delta)
	return &result, nil
}

// acquire runs the OCR provider under the configured timeout and retry
// policy. This is the only call in the pipeline that can stall.
func (e *IngestionEngine) acquire(ctx context.Context, source string) ([]model.OcrLine, error) {
	var lines []model.OcrLine

	err := common.WithRetry(ctx, func() error {
		callCtx := ctx
		if e.config.OCRTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, e.config.OCRTimeout)
			defer cancel()
		}

		extracted, err := e.provider.ExtractLines(callCtx, source)
		if err != nil {
			return err
		}
		lines = extracted
		return nil
	}, e.config.Retry)

	return lines, err
}

// snapshot returns the current dictionary snapshot, loading it from storage
// on first use.
func (e *IngestionEngine) snapshot(ctx context.Context) (*dictionary.Snapshot, error) {
	if snap := e.dict.Snapshot(); snap != nil {
		return snap, nil
	}
	if err := e.RefreshDictionary(ctx); err != nil {
		return nil, err
	}
	snap := e.dict.Snapshot()
	if snap == nil {
		return nil, common.ErrNoDictionary
	}
	return snap, nil
}
