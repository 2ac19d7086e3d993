// Package model defines the core domain types shared across the pipeline.
package model

// MagicType distinguishes ordinary affixes from legendary/unique/mythic powers.
type MagicType int

// Magic type values as scraped from the reference data.
const (
	MagicTypeAffix     MagicType = 0
	MagicTypeLegendary MagicType = 1
	MagicTypeUnique    MagicType = 2
	MagicTypeMythic    MagicType = 4
)

// IDSet is a set of reference ids with O(1) membership tests.
type IDSet map[int]struct{}

// NewIDSet builds a set from a list of ids.
func NewIDSet(ids ...int) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// IsEmpty reports whether the set has no members. An empty restriction set
// means "no restriction".
func (s IDSet) IsEmpty() bool {
	return len(s) == 0
}

// Slice returns the members in unspecified order.
func (s IDSet) Slice() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

// ReferenceAffix is one entry in the affix catalog. Immutable for the
// lifetime of a dictionary snapshot.
type ReferenceAffix struct {
	AllowedItemTypes IDSet
	AllowedClasses   IDSet
	MinValue         *float64
	MaxValue         *float64
	InternalID       string
	Name             string
	Category         string
	ID               int
	PriorityTier     int // 1 highest .. 10 lowest
	MagicType        MagicType
	IsPercentage     bool
	IsImplicit       bool
	IsTempering      bool
	AllowDuplicate   bool
}

// HasRange reports whether the affix has a usable numeric range.
func (a *ReferenceAffix) HasRange() bool {
	return a.MinValue != nil && a.MaxValue != nil && *a.MaxValue > *a.MinValue
}

// InRange reports whether a roll value is valid for this affix. Affixes
// without a defined range accept any value.
func (a *ReferenceAffix) InRange(roll float64) bool {
	if a.MinValue != nil && roll < *a.MinValue {
		return false
	}
	if a.MaxValue != nil && roll > *a.MaxValue {
		return false
	}
	return true
}

// AllowedFor reports whether the affix may appear on the given item type and
// class. Zero ids mean "not yet known" and always pass.
func (a *ReferenceAffix) AllowedFor(itemTypeID, classID int) bool {
	if itemTypeID != 0 && !a.AllowedItemTypes.IsEmpty() && !a.AllowedItemTypes.Contains(itemTypeID) {
		return false
	}
	if classID != 0 && !a.AllowedClasses.IsEmpty() && !a.AllowedClasses.Contains(classID) {
		return false
	}
	return true
}

// ReferenceAspect is one entry in the aspect catalog.
type ReferenceAspect struct {
	AllowedItemTypes IDSet
	AllowedClasses   IDSet
	MinValue         *float64
	MaxValue         *float64
	InternalID       string
	Name             string
	Category         string
	ScalingFormula   string
	ID               int
	IsUniquePower    bool
}

// InRange reports whether a roll value is valid for this aspect.
func (a *ReferenceAspect) InRange(roll float64) bool {
	if a.MinValue != nil && roll < *a.MinValue {
		return false
	}
	if a.MaxValue != nil && roll > *a.MaxValue {
		return false
	}
	return true
}

// AllowedFor reports whether the aspect may appear on the given item type and
// class.
func (a *ReferenceAspect) AllowedFor(itemTypeID, classID int) bool {
	if itemTypeID != 0 && !a.AllowedItemTypes.IsEmpty() && !a.AllowedItemTypes.Contains(itemTypeID) {
		return false
	}
	if classID != 0 && !a.AllowedClasses.IsEmpty() && !a.AllowedClasses.Contains(classID) {
		return false
	}
	return true
}

// ItemType is an equipment slot classification (Helm, Sword, Ring, ...).
type ItemType struct {
	Name       string
	InternalID string
	Slot       string
	ID         int
	IsWeapon   bool
	IsArmor    bool
}

// Class is a playable character class.
type Class struct {
	Name       string
	InternalID string
	ID         int
}

// AffixCategory groups affixes (Offensive, Defensive, Utility, ...).
type AffixCategory struct {
	Name        string
	Description string
	ID          int
}
