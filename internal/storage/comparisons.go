package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// SaveComparison appends a comparison verdict to the history. Breakdowns are
// stored as JSON so the full audit trail survives catalog changes.
func (s *SQLiteStorage) SaveComparison(ctx context.Context, result *model.ComparisonResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateComparison(result); err != nil {
		return err
	}

	breakdownA, err := json.Marshal(result.BreakdownA)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown A: %w", err)
	}
	breakdownB, err := json.Marshal(result.BreakdownB)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown B: %w", err)
	}

	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO comparisons (
			id, build_id, item_a_hash, item_b_hash, score_a, score_b,
			delta, winner, breakdown_a, breakdown_b, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.BuildID, result.ItemAHash, result.ItemBHash,
		result.ScoreA, result.ScoreB, result.Delta, string(result.Winner),
		string(breakdownA), string(breakdownB), createdAt); err != nil {
		return fmt.Errorf("failed to save comparison %s: %w", result.ID, err)
	}

	slog.Debug("saved comparison", "id", result.ID, "winner", result.Winner)
	return nil
}

// GetComparisonsByBuild returns the comparison history for one build, newest
// first.
func (s *SQLiteStorage) GetComparisonsByBuild(ctx context.Context, buildID int) ([]model.ComparisonResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, build_id, item_a_hash, item_b_hash, score_a, score_b,
			delta, winner, breakdown_a, breakdown_b, created_at
		FROM comparisons
		WHERE build_id = ?
		ORDER BY created_at DESC, id`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var results []model.ComparisonResult
	for rows.Next() {
		var r model.ComparisonResult
		var winner string
		var breakdownA, breakdownB string
		if err := rows.Scan(&r.ID, &r.BuildID, &r.ItemAHash, &r.ItemBHash,
			&r.ScoreA, &r.ScoreB, &r.Delta, &winner,
			&breakdownA, &breakdownB, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		r.Winner = model.Winner(winner)
		if err := json.Unmarshal([]byte(breakdownA), &r.BreakdownA); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown A for %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(breakdownB), &r.BreakdownB); err != nil {
			return nil, fmt.Errorf("failed to decode breakdown B for %s: %w", r.ID, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparisons: %w", err)
	}
	return results, nil
}
