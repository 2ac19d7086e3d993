package model

import "fmt"

// Rarity is the item quality on the game's 0-8 scale.
type Rarity int

// Rarity tiers in ascending order of quality.
const (
	RarityUnknown   Rarity = -1
	RarityCommon    Rarity = 0
	RarityMagic     Rarity = 1
	RarityRare      Rarity = 2
	RarityLegendary Rarity = 4
	RarityUnique    Rarity = 6
	RarityMythic    Rarity = 8
)

// String returns the tooltip keyword for the rarity tier.
func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityMagic:
		return "magic"
	case RarityRare:
		return "rare"
	case RarityLegendary:
		return "legendary"
	case RarityUnique:
		return "unique"
	case RarityMythic:
		return "mythic"
	default:
		return "unknown"
	}
}

// Stars returns the 1-4 star display count for the rarity tier, 0 if unknown.
func (r Rarity) Stars() int {
	switch r {
	case RarityCommon, RarityMagic:
		return 1
	case RarityRare:
		return 2
	case RarityLegendary:
		return 3
	case RarityUnique, RarityMythic:
		return 4
	default:
		return 0
	}
}

// AffixMatch binds one tooltip line to one catalog affix with its roll.
type AffixMatch struct {
	Line       NormalizedLine
	AffixID    int
	Roll       float64
	Similarity float64
	// Confidence is similarity scaled by the OCR engine's confidence for the line.
	Confidence float64
	Order      int // display order on the tooltip
	IsImplicit bool
	IsGreater  bool
	IsTempered bool
}

// AspectMatch binds an aspect line to a catalog aspect. Roll is nil for
// aspects without variable scaling.
type AspectMatch struct {
	Roll       *float64
	Line       NormalizedLine
	AspectID   int
	Similarity float64
	Confidence float64
}

// Socket is one gem socket on an item.
type Socket struct {
	GemType string
	Index   int
	IsEmpty bool
}

// ItemFlags are the boolean markers read off the tooltip.
type ItemFlags struct {
	Ancestral    bool
	Unique       bool
	Mythic       bool
	Sanctified   bool
	AccountBound bool
}

// StructuredItem is the assembled result of one ingestion. Immutable after
// assembly; identified by the content hash of its source OCR lines.
type StructuredItem struct {
	Hash             string
	Name             string
	ItemTypeName     string
	UniquePowerText  string
	Affixes          []AffixMatch // implicit affixes first, then explicit, tooltip order
	Aspects          []AspectMatch
	Sockets          []Socket
	UnresolvedLines  []string
	Completeness     float64
	ItemTypeID       int
	ClassID          int
	ItemPower        int
	LevelRequirement int
	Rarity           Rarity
	Flags            ItemFlags
}

// SocketCount returns the number of sockets detected on the item.
func (i *StructuredItem) SocketCount() int {
	return len(i.Sockets)
}

// HasAffix reports whether the item carries a match for the given affix id.
func (i *StructuredItem) HasAffix(affixID int) bool {
	for _, m := range i.Affixes {
		if m.AffixID == affixID {
			return true
		}
	}
	return false
}

// Validate checks structural invariants after assembly.
func (i *StructuredItem) Validate() error {
	if i.Hash == "" {
		return fmt.Errorf("item hash is required")
	}
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	if i.Completeness < 0 || i.Completeness > 1 {
		return fmt.Errorf("completeness must be between 0.0 and 1.0, got %.2f", i.Completeness)
	}
	return nil
}
