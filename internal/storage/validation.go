package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidItem     = errors.New("invalid item")
	ErrInvalidBuild    = errors.New("invalid build")
	ErrInvalidVerdict  = errors.New("invalid comparison verdict")
	ErrUnknownBuild    = errors.New("build does not exist")
	ErrDuplicateBuild  = errors.New("build name already exists")
	ErrInvalidCatalog  = errors.New("invalid catalog entry")
	ErrInvalidPosition = errors.New("pagination offset and limit must be non-negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItem validates a structured item before persistence.
func validateItem(item *model.StructuredItem) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	return nil
}

// validateWeights validates build weight rows before persistence.
func validateWeights(weights []model.AffixWeight) error {
	for i, w := range weights {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: weight at index %d: %v", ErrInvalidBuild, i, err)
		}
	}
	return nil
}

// validateComparison validates a comparison result before persistence.
func validateComparison(result *model.ComparisonResult) error {
	if result == nil {
		return fmt.Errorf("%w: result", ErrNilParameter)
	}
	if result.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidVerdict)
	}
	switch result.Winner {
	case model.WinnerA, model.WinnerB, model.WinnerTie:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidVerdict, result.Winner)
	}
	return nil
}
