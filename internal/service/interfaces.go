// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// OCRProvider is the external engine that turns a screenshot into ordered
// text lines. Acquisition can stall, so callers always pass a context with a
// deadline.
type OCRProvider interface {
	// ExtractLines returns the tooltip's text lines in vertical reading order.
	ExtractLines(ctx context.Context, source string) ([]model.OcrLine, error)
}

// ItemFilter defines filtering options for item queries.
type ItemFilter struct {
	Rarity *model.Rarity
	Limit  int
	Offset int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Reference data operations
	SaveItemTypes(ctx context.Context, types []model.ItemType) error
	GetItemTypes(ctx context.Context) ([]model.ItemType, error)
	SaveClasses(ctx context.Context, classes []model.Class) error
	GetClasses(ctx context.Context) ([]model.Class, error)
	SaveAffixes(ctx context.Context, affixes []model.ReferenceAffix) error
	GetAffixes(ctx context.Context) ([]model.ReferenceAffix, error)
	SaveAspects(ctx context.Context, aspects []model.ReferenceAspect) error
	GetAspects(ctx context.Context) ([]model.ReferenceAspect, error)

	// Build operations
	CreateBuild(ctx context.Context, name, description string, classID int) (*model.BuildWeightProfile, error)
	GetBuilds(ctx context.Context) ([]model.BuildWeightProfile, error)
	GetBuildProfile(ctx context.Context, buildID int) (*model.BuildWeightProfile, error)
	SetBuildWeights(ctx context.Context, buildID int, weights []model.AffixWeight) error

	// Item operations
	SaveItem(ctx context.Context, item *model.StructuredItem) error
	GetItemByHash(ctx context.Context, hash string) (*model.StructuredItem, error)
	GetItems(ctx context.Context, filter ItemFilter) ([]model.StructuredItem, error)

	// Comparison history
	SaveComparison(ctx context.Context, result *model.ComparisonResult) error
	GetComparisonsByBuild(ctx context.Context, buildID int) ([]model.ComparisonResult, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for flaky operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ReferenceStats summarizes the loaded reference catalog.
type ReferenceStats struct {
	ItemTypes int
	Classes   int
	Affixes   int
	Aspects   int
}
