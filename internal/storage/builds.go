package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// CreateBuild inserts a new build weight profile with an empty weight set.
func (s *SQLiteStorage) CreateBuild(ctx context.Context, name, description string, classID int) (*model.BuildWeightProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (name, description, class_id)
		VALUES (?, ?, ?)`,
		name, description, classID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBuild, name)
		}
		return nil, fmt.Errorf("failed to create build: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get build id: %w", err)
	}

	slog.Info("Created build", "id", id, "name", name)
	return &model.BuildWeightProfile{
		BuildID:     int(id),
		Name:        name,
		Description: description,
		ClassID:     classID,
		Weights:     make(map[int]model.AffixWeight),
	}, nil
}

// GetBuilds returns all build profiles with their weights, ordered by name.
func (s *SQLiteStorage) GetBuilds(ctx context.Context) ([]model.BuildWeightProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, class_id
		FROM builds
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	defer rows.Close()

	var builds []model.BuildWeightProfile
	for rows.Next() {
		var b model.BuildWeightProfile
		var description sql.NullString
		if err := rows.Scan(&b.BuildID, &b.Name, &description, &b.ClassID); err != nil {
			return nil, fmt.Errorf("failed to scan build: %w", err)
		}
		b.Description = description.String
		builds = append(builds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating builds: %w", err)
	}

	for i := range builds {
		weights, err := s.getBuildWeights(ctx, builds[i].BuildID)
		if err != nil {
			return nil, err
		}
		builds[i].Weights = weights
	}
	return builds, nil
}

// GetBuildProfile returns one build with its weights, or nil if it does not
// exist.
func (s *SQLiteStorage) GetBuildProfile(ctx context.Context, buildID int) (*model.BuildWeightProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var b model.BuildWeightProfile
	var description sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, class_id
		FROM builds
		WHERE id = ?`, buildID).Scan(&b.BuildID, &b.Name, &description, &b.ClassID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query build %d: %w", buildID, err)
	}
	b.Description = description.String

	weights, err := s.getBuildWeights(ctx, buildID)
	if err != nil {
		return nil, err
	}
	b.Weights = weights
	return &b, nil
}

// SetBuildWeights replaces a build's full weight set atomically.
func (s *SQLiteStorage) SetBuildWeights(ctx context.Context, buildID int, weights []model.AffixWeight) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWeights(weights); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM builds WHERE id = ?`, buildID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check build %d: %w", buildID, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownBuild, buildID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM build_affix_weights WHERE build_id = ?`, buildID); err != nil {
		return fmt.Errorf("failed to clear build weights: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO build_affix_weights (build_id, affix_id, weight, priority, required, notes)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare weight insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range weights {
		if _, err := stmt.ExecContext(ctx, buildID, w.AffixID, w.Weight, w.Priority, w.Required, w.Notes); err != nil {
			return fmt.Errorf("failed to save weight for affix %d: %w", w.AffixID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit build weights: %w", err)
	}

	slog.Info("Updated build weights", "build", buildID, "affixes", len(weights))
	return nil
}

func (s *SQLiteStorage) getBuildWeights(ctx context.Context, buildID int) (map[int]model.AffixWeight, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT affix_id, weight, priority, required, notes
		FROM build_affix_weights
		WHERE build_id = ?`, buildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query build weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[int]model.AffixWeight)
	for rows.Next() {
		var w model.AffixWeight
		var notes sql.NullString
		if err := rows.Scan(&w.AffixID, &w.Weight, &w.Priority, &w.Required, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan build weight: %w", err)
		}
		w.Notes = notes.String
		weights[w.AffixID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating build weights: %w", err)
	}
	return weights, nil
}
