package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
)

// SaveItem persists a structured item and its child rows. Saving the same
// hash twice replaces the previous rows, so re-ingestion is idempotent.
func (s *SQLiteStorage) SaveItem(ctx context.Context, item *model.StructuredItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Child rows cascade on delete, so a replace starts clean.
	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE hash = ?`, item.Hash); err != nil {
		return fmt.Errorf("failed to clear previous item rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO items (
			hash, name, item_type_id, item_type_name, class_id, rarity,
			item_power, level_requirement, completeness, unique_power_text,
			is_ancestral, is_unique, is_mythic, is_sanctified, is_account_bound
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Hash, item.Name, item.ItemTypeID, item.ItemTypeName, item.ClassID,
		int(item.Rarity), item.ItemPower, item.LevelRequirement, item.Completeness,
		item.UniquePowerText, item.Flags.Ancestral, item.Flags.Unique,
		item.Flags.Mythic, item.Flags.Sanctified, item.Flags.AccountBound); err != nil {
		return fmt.Errorf("failed to save item %s: %w", item.Hash, err)
	}

	for _, a := range item.Affixes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_affixes (
				item_hash, affix_id, line_text, roll, similarity, confidence,
				display_order, is_implicit, is_greater, is_tempered
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.Hash, a.AffixID, a.Line.Text, a.Roll, a.Similarity, a.Confidence,
			a.Order, a.IsImplicit, a.IsGreater, a.IsTempered); err != nil {
			return fmt.Errorf("failed to save affix %d: %w", a.AffixID, err)
		}
	}

	for _, a := range item.Aspects {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_aspects (item_hash, aspect_id, line_text, roll, similarity, confidence)
			VALUES (?, ?, ?, ?, ?, ?)`,
			item.Hash, a.AspectID, a.Line.Text, nullFloat(a.Roll), a.Similarity, a.Confidence); err != nil {
			return fmt.Errorf("failed to save aspect %d: %w", a.AspectID, err)
		}
	}

	for _, sock := range item.Sockets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_sockets (item_hash, socket_index, gem_type, is_empty)
			VALUES (?, ?, ?, ?)`,
			item.Hash, sock.Index, sock.GemType, sock.IsEmpty); err != nil {
			return fmt.Errorf("failed to save socket %d: %w", sock.Index, err)
		}
	}

	for i, line := range item.UnresolvedLines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO item_unresolved_lines (item_hash, display_order, line_text)
			VALUES (?, ?, ?)`,
			item.Hash, i, line); err != nil {
			return fmt.Errorf("failed to save unresolved line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item: %w", err)
	}

	slog.Debug("saved item", "hash", item.Hash, "name", item.Name)
	return nil
}

// GetItemByHash loads one item with all child rows, or nil if it does not
// exist.
func (s *SQLiteStorage) GetItemByHash(ctx context.Context, hash string) (*model.StructuredItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(hash, "hash"); err != nil {
		return nil, err
	}

	var item model.StructuredItem
	var rarity int
	var typeName, powerText sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT hash, name, item_type_id, item_type_name, class_id, rarity,
			item_power, level_requirement, completeness, unique_power_text,
			is_ancestral, is_unique, is_mythic, is_sanctified, is_account_bound
		FROM items
		WHERE hash = ?`, hash).Scan(
		&item.Hash, &item.Name, &item.ItemTypeID, &typeName, &item.ClassID, &rarity,
		&item.ItemPower, &item.LevelRequirement, &item.Completeness, &powerText,
		&item.Flags.Ancestral, &item.Flags.Unique, &item.Flags.Mythic,
		&item.Flags.Sanctified, &item.Flags.AccountBound)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item %s: %w", hash, err)
	}
	item.Rarity = model.Rarity(rarity)
	item.ItemTypeName = typeName.String
	item.UniquePowerText = powerText.String

	if err := s.loadItemChildren(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItems returns stored items matching the filter, newest first.
func (s *SQLiteStorage) GetItems(ctx context.Context, filter service.ItemFilter) ([]model.StructuredItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, ErrInvalidPosition
	}

	query := `
		SELECT hash FROM items`
	args := []any{}
	if filter.Rarity != nil {
		query += ` WHERE rarity = ?`
		args = append(args, int(*filter.Rarity))
	}
	query += ` ORDER BY created_at DESC, hash`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan item hash: %w", err)
		}
		hashes = append(hashes, hash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	items := make([]model.StructuredItem, 0, len(hashes))
	for _, hash := range hashes {
		item, err := s.GetItemByHash(ctx, hash)
		if err != nil {
			return nil, err
		}
		if item != nil {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (s *SQLiteStorage) loadItemChildren(ctx context.Context, item *model.StructuredItem) error {
	affixRows, err := s.db.QueryContext(ctx, `
		SELECT affix_id, line_text, roll, similarity, confidence,
			display_order, is_implicit, is_greater, is_tempered
		FROM item_affixes
		WHERE item_hash = ?
		ORDER BY is_implicit DESC, display_order`, item.Hash)
	if err != nil {
		return fmt.Errorf("failed to query item affixes: %w", err)
	}
	defer affixRows.Close()

	for affixRows.Next() {
		var a model.AffixMatch
		var lineText sql.NullString
		if err := affixRows.Scan(&a.AffixID, &lineText, &a.Roll, &a.Similarity,
			&a.Confidence, &a.Order, &a.IsImplicit, &a.IsGreater, &a.IsTempered); err != nil {
			return fmt.Errorf("failed to scan item affix: %w", err)
		}
		a.Line = model.NormalizedLine{Text: lineText.String}
		item.Affixes = append(item.Affixes, a)
	}
	if err := affixRows.Err(); err != nil {
		return fmt.Errorf("error iterating item affixes: %w", err)
	}

	aspectRows, err := s.db.QueryContext(ctx, `
		SELECT aspect_id, line_text, roll, similarity, confidence
		FROM item_aspects
		WHERE item_hash = ?`, item.Hash)
	if err != nil {
		return fmt.Errorf("failed to query item aspects: %w", err)
	}
	defer aspectRows.Close()

	for aspectRows.Next() {
		var a model.AspectMatch
		var lineText sql.NullString
		var roll sql.NullFloat64
		if err := aspectRows.Scan(&a.AspectID, &lineText, &roll, &a.Similarity, &a.Confidence); err != nil {
			return fmt.Errorf("failed to scan item aspect: %w", err)
		}
		a.Line = model.NormalizedLine{Text: lineText.String}
		a.Roll = floatFromNull(roll)
		item.Aspects = append(item.Aspects, a)
	}
	if err := aspectRows.Err(); err != nil {
		return fmt.Errorf("error iterating item aspects: %w", err)
	}

	socketRows, err := s.db.QueryContext(ctx, `
		SELECT socket_index, gem_type, is_empty
		FROM item_sockets
		WHERE item_hash = ?
		ORDER BY socket_index`, item.Hash)
	if err != nil {
		return fmt.Errorf("failed to query item sockets: %w", err)
	}
	defer socketRows.Close()

	for socketRows.Next() {
		var sock model.Socket
		var gemType sql.NullString
		if err := socketRows.Scan(&sock.Index, &gemType, &sock.IsEmpty); err != nil {
			return fmt.Errorf("failed to scan item socket: %w", err)
		}
		sock.GemType = gemType.String
		item.Sockets = append(item.Sockets, sock)
	}
	if err := socketRows.Err(); err != nil {
		return fmt.Errorf("error iterating item sockets: %w", err)
	}

	lineRows, err := s.db.QueryContext(ctx, `
		SELECT line_text
		FROM item_unresolved_lines
		WHERE item_hash = ?
		ORDER BY display_order`, item.Hash)
	if err != nil {
		return fmt.Errorf("failed to query unresolved lines: %w", err)
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var line string
		if err := lineRows.Scan(&line); err != nil {
			return fmt.Errorf("failed to scan unresolved line: %w", err)
		}
		item.UnresolvedLines = append(item.UnresolvedLines, line)
	}
	if err := lineRows.Err(); err != nil {
		return fmt.Errorf("error iterating unresolved lines: %w", err)
	}

	return nil
}
