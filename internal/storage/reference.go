package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// encodeIDSet renders an id set as a comma-joined string for storage. Empty
// sets store as NULL so "no restriction" round-trips cleanly.
func encodeIDSet(s model.IDSet) sql.NullString {
	if s.IsEmpty() {
		return sql.NullString{}
	}
	ids := s.Slice()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return sql.NullString{String: strings.Join(parts, ","), Valid: true}
}

// decodeIDSet parses a stored comma-joined id list back into a set.
func decodeIDSet(raw sql.NullString) (model.IDSet, error) {
	if !raw.Valid || raw.String == "" {
		return model.IDSet{}, nil
	}
	parts := strings.Split(raw.String, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("malformed id list %q: %w", raw.String, err)
		}
		ids = append(ids, id)
	}
	return model.NewIDSet(ids...), nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatFromNull(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}

// SaveItemTypes upserts the item type catalog. Existing rows are replaced so
// re-imports are idempotent.
func (s *SQLiteStorage) SaveItemTypes(ctx context.Context, types []model.ItemType) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO item_types (id, internal_id, name, slot, is_weapon, is_armor)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			internal_id = excluded.internal_id,
			name = excluded.name,
			slot = excluded.slot,
			is_weapon = excluded.is_weapon,
			is_armor = excluded.is_armor`)
	if err != nil {
		return fmt.Errorf("failed to prepare item type upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range types {
		if t.Name == "" {
			return fmt.Errorf("%w: item type %d has no name", ErrInvalidCatalog, t.ID)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.InternalID, t.Name, t.Slot, t.IsWeapon, t.IsArmor); err != nil {
			return fmt.Errorf("failed to save item type %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item types: %w", err)
	}

	slog.Debug("saved item types", "count", len(types))
	return nil
}

// GetItemTypes returns the full item type catalog ordered by id.
func (s *SQLiteStorage) GetItemTypes(ctx context.Context) ([]model.ItemType, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, internal_id, name, slot, is_weapon, is_armor
		FROM item_types
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query item types: %w", err)
	}
	defer rows.Close()

	var types []model.ItemType
	for rows.Next() {
		var t model.ItemType
		var slot sql.NullString
		if err := rows.Scan(&t.ID, &t.InternalID, &t.Name, &slot, &t.IsWeapon, &t.IsArmor); err != nil {
			return nil, fmt.Errorf("failed to scan item type: %w", err)
		}
		t.Slot = slot.String
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item types: %w", err)
	}
	return types, nil
}

// SaveClasses upserts the playable class catalog.
func (s *SQLiteStorage) SaveClasses(ctx context.Context, classes []model.Class) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classes (id, internal_id, name)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			internal_id = excluded.internal_id,
			name = excluded.name`)
	if err != nil {
		return fmt.Errorf("failed to prepare class upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range classes {
		if c.Name == "" {
			return fmt.Errorf("%w: class %d has no name", ErrInvalidCatalog, c.ID)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.InternalID, c.Name); err != nil {
			return fmt.Errorf("failed to save class %d: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit classes: %w", err)
	}
	return nil
}

// GetClasses returns the class catalog ordered by id.
func (s *SQLiteStorage) GetClasses(ctx context.Context) ([]model.Class, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, internal_id, name
		FROM classes
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.InternalID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating classes: %w", err)
	}
	return classes, nil
}

// SaveAffixes upserts the affix catalog.
func (s *SQLiteStorage) SaveAffixes(ctx context.Context, affixes []model.ReferenceAffix) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO affixes (
			id, internal_id, name, category, magic_type, priority_tier,
			min_value, max_value, is_percentage, is_implicit, is_tempering,
			allow_duplicate, allowed_item_types, allowed_classes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			internal_id = excluded.internal_id,
			name = excluded.name,
			category = excluded.category,
			magic_type = excluded.magic_type,
			priority_tier = excluded.priority_tier,
			min_value = excluded.min_value,
			max_value = excluded.max_value,
			is_percentage = excluded.is_percentage,
			is_implicit = excluded.is_implicit,
			is_tempering = excluded.is_tempering,
			allow_duplicate = excluded.allow_duplicate,
			allowed_item_types = excluded.allowed_item_types,
			allowed_classes = excluded.allowed_classes`)
	if err != nil {
		return fmt.Errorf("failed to prepare affix upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range affixes {
		if a.Name == "" {
			return fmt.Errorf("%w: affix %d has no name", ErrInvalidCatalog, a.ID)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.InternalID, a.Name, a.Category, int(a.MagicType), a.PriorityTier,
			nullFloat(a.MinValue), nullFloat(a.MaxValue), a.IsPercentage, a.IsImplicit,
			a.IsTempering, a.AllowDuplicate,
			encodeIDSet(a.AllowedItemTypes), encodeIDSet(a.AllowedClasses)); err != nil {
			return fmt.Errorf("failed to save affix %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit affixes: %w", err)
	}

	slog.Debug("saved affixes", "count", len(affixes))
	return nil
}

// GetAffixes returns the full affix catalog ordered by id.
func (s *SQLiteStorage) GetAffixes(ctx context.Context) ([]model.ReferenceAffix, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, internal_id, name, category, magic_type, priority_tier,
			min_value, max_value, is_percentage, is_implicit, is_tempering,
			allow_duplicate, allowed_item_types, allowed_classes
		FROM affixes
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query affixes: %w", err)
	}
	defer rows.Close()

	var affixes []model.ReferenceAffix
	for rows.Next() {
		var a model.ReferenceAffix
		var category sql.NullString
		var magicType int
		var minVal, maxVal sql.NullFloat64
		var itemTypes, classes sql.NullString
		if err := rows.Scan(&a.ID, &a.InternalID, &a.Name, &category, &magicType,
			&a.PriorityTier, &minVal, &maxVal, &a.IsPercentage, &a.IsImplicit,
			&a.IsTempering, &a.AllowDuplicate, &itemTypes, &classes); err != nil {
			return nil, fmt.Errorf("failed to scan affix: %w", err)
		}
		a.Category = category.String
		a.MagicType = model.MagicType(magicType)
		a.MinValue = floatFromNull(minVal)
		a.MaxValue = floatFromNull(maxVal)
		if a.AllowedItemTypes, err = decodeIDSet(itemTypes); err != nil {
			return nil, fmt.Errorf("affix %d: %w", a.ID, err)
		}
		if a.AllowedClasses, err = decodeIDSet(classes); err != nil {
			return nil, fmt.Errorf("affix %d: %w", a.ID, err)
		}
		affixes = append(affixes, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating affixes: %w", err)
	}
	return affixes, nil
}

// SaveAspects upserts the aspect catalog.
func (s *SQLiteStorage) SaveAspects(ctx context.Context, aspects []model.ReferenceAspect) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO aspects (
			id, internal_id, name, category, scaling_formula, is_unique_power,
			min_value, max_value, allowed_item_types, allowed_classes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			internal_id = excluded.internal_id,
			name = excluded.name,
			category = excluded.category,
			scaling_formula = excluded.scaling_formula,
			is_unique_power = excluded.is_unique_power,
			min_value = excluded.min_value,
			max_value = excluded.max_value,
			allowed_item_types = excluded.allowed_item_types,
			allowed_classes = excluded.allowed_classes`)
	if err != nil {
		return fmt.Errorf("failed to prepare aspect upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range aspects {
		if a.Name == "" {
			return fmt.Errorf("%w: aspect %d has no name", ErrInvalidCatalog, a.ID)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.InternalID, a.Name, a.Category, a.ScalingFormula, a.IsUniquePower,
			nullFloat(a.MinValue), nullFloat(a.MaxValue),
			encodeIDSet(a.AllowedItemTypes), encodeIDSet(a.AllowedClasses)); err != nil {
			return fmt.Errorf("failed to save aspect %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit aspects: %w", err)
	}

	slog.Debug("saved aspects", "count", len(aspects))
	return nil
}

// GetAspects returns the full aspect catalog ordered by id.
func (s *SQLiteStorage) GetAspects(ctx context.Context) ([]model.ReferenceAspect, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, internal_id, name, category, scaling_formula, is_unique_power,
			min_value, max_value, allowed_item_types, allowed_classes
		FROM aspects
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query aspects: %w", err)
	}
	defer rows.Close()

	var aspects []model.ReferenceAspect
	for rows.Next() {
		var a model.ReferenceAspect
		var category, formula sql.NullString
		var minVal, maxVal sql.NullFloat64
		var itemTypes, classes sql.NullString
		if err := rows.Scan(&a.ID, &a.InternalID, &a.Name, &category, &formula,
			&a.IsUniquePower, &minVal, &maxVal, &itemTypes, &classes); err != nil {
			return nil, fmt.Errorf("failed to scan aspect: %w", err)
		}
		a.Category = category.String
		a.ScalingFormula = formula.String
		a.MinValue = floatFromNull(minVal)
		a.MaxValue = floatFromNull(maxVal)
		if a.AllowedItemTypes, err = decodeIDSet(itemTypes); err != nil {
			return nil, fmt.Errorf("aspect %d: %w", a.ID, err)
		}
		if a.AllowedClasses, err = decodeIDSet(classes); err != nil {
			return nil, fmt.Errorf("aspect %d: %w", a.ID, err)
		}
		aspects = append(aspects, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aspects: %w", err)
	}
	return aspects, nil
}
