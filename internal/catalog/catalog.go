// Package catalog loads reference seed files as scraped from the game data
// dumps and converts them into the domain model.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// Catalog is the decoded content of one seed file.
type Catalog struct {
	ItemTypes []model.ItemType
	Classes   []model.Class
	Affixes   []model.ReferenceAffix
	Aspects   []model.ReferenceAspect
}

// Size returns the total number of catalog entries across all sections.
func (c *Catalog) Size() int {
	return len(c.ItemTypes) + len(c.Classes) + len(c.Affixes) + len(c.Aspects)
}

type seedFile struct {
	ItemTypes []itemTypeJSON `json:"item_types"`
	Classes   []classJSON    `json:"classes"`
	Affixes   []affixJSON    `json:"affixes"`
	Aspects   []aspectJSON   `json:"aspects"`
}

type itemTypeJSON struct {
	InternalID string `json:"internal_id"`
	Name       string `json:"name"`
	Slot       string `json:"slot"`
	ID         int    `json:"id"`
	IsWeapon   bool   `json:"is_weapon"`
	IsArmor    bool   `json:"is_armor"`
}

type classJSON struct {
	InternalID string `json:"internal_id"`
	Name       string `json:"name"`
	ID         int    `json:"id"`
}

type affixJSON struct {
	MinValue       *float64 `json:"min_value"`
	MaxValue       *float64 `json:"max_value"`
	InternalID     string   `json:"internal_id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	ItemTypes      []int    `json:"item_types"`
	Classes        []int    `json:"classes"`
	ID             int      `json:"id"`
	MagicType      int      `json:"magic_type"`
	Priority       int      `json:"priority"`
	IsPercentage   bool     `json:"is_percentage"`
	IsImplicit     bool     `json:"is_implicit"`
	IsTempering    bool     `json:"is_tempering"`
	AllowDuplicate bool     `json:"allow_duplicate"`
}

type aspectJSON struct {
	MinValue       *float64 `json:"min_value"`
	MaxValue       *float64 `json:"max_value"`
	InternalID     string   `json:"internal_id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	ScalingFormula string   `json:"scaling_formula"`
	ItemTypes      []int    `json:"item_types"`
	Classes        []int    `json:"classes"`
	ID             int      `json:"id"`
	IsUniquePower  bool     `json:"is_unique_power"`
}

// Load reads and decodes a seed file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed file content.
func Parse(data []byte) (*Catalog, error) {
	var f seedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	cat := &Catalog{}
	for _, t := range f.ItemTypes {
		if t.Name == "" {
			return nil, fmt.Errorf("item type %d has no name", t.ID)
		}
		cat.ItemTypes = append(cat.ItemTypes, model.ItemType{
			ID:         t.ID,
			InternalID: t.InternalID,
			Name:       t.Name,
			Slot:       t.Slot,
			IsWeapon:   t.IsWeapon,
			IsArmor:    t.IsArmor,
		})
	}
	for _, c := range f.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("class %d has no name", c.ID)
		}
		cat.Classes = append(cat.Classes, model.Class{
			ID:         c.ID,
			InternalID: c.InternalID,
			Name:       c.Name,
		})
	}
	for _, a := range f.Affixes {
		if a.Name == "" {
			return nil, fmt.Errorf("affix %d has no name", a.ID)
		}
		cat.Affixes = append(cat.Affixes, model.ReferenceAffix{
			ID:               a.ID,
			InternalID:       a.InternalID,
			Name:             a.Name,
			Category:         a.Category,
			MagicType:        model.MagicType(a.MagicType),
			PriorityTier:     a.Priority,
			MinValue:         a.MinValue,
			MaxValue:         a.MaxValue,
			IsPercentage:     a.IsPercentage,
			IsImplicit:       a.IsImplicit,
			IsTempering:      a.IsTempering,
			AllowDuplicate:   a.AllowDuplicate,
			AllowedItemTypes: model.NewIDSet(a.ItemTypes...),
			AllowedClasses:   model.NewIDSet(a.Classes...),
		})
	}
	for _, a := range f.Aspects {
		if a.Name == "" {
			return nil, fmt.Errorf("aspect %d has no name", a.ID)
		}
		cat.Aspects = append(cat.Aspects, model.ReferenceAspect{
			ID:               a.ID,
			InternalID:       a.InternalID,
			Name:             a.Name,
			Category:         a.Category,
			ScalingFormula:   a.ScalingFormula,
			IsUniquePower:    a.IsUniquePower,
			MinValue:         a.MinValue,
			MaxValue:         a.MaxValue,
			AllowedItemTypes: model.NewIDSet(a.ItemTypes...),
			AllowedClasses:   model.NewIDSet(a.Classes...),
		})
	}
	return cat, nil
}
