// Package dictionary holds the immutable reference-catalog snapshot the
// pipeline matches against. A snapshot is built once from store data and
// shared read-only across all concurrent ingestions; refreshing it is a
// whole-snapshot atomic swap, never an in-place mutation.
package dictionary

import (
	"sort"
	"strings"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/normalize"
)

// Snapshot is one immutable view of the reference catalog with the lookup
// structures precomputed: normalized canonical names, a trigram index for
// candidate preselection, and keyword tables for item types and classes.
type Snapshot struct {
	affixes        map[int]model.ReferenceAffix
	aspects        map[int]model.ReferenceAspect
	affixNames     map[int]string
	aspectNames    map[int]string
	affixTrigrams  map[string][]int
	aspectTrigrams map[string][]int
	typeKeywords   map[string]int
	classKeywords  map[string]int
	affixIDs       []int
	aspectIDs      []int
	itemTypes      []model.ItemType
	classes        []model.Class
}

// NewSnapshot builds a snapshot from store rows. The index work happens here,
// once, so match calls never touch the full catalog.
func NewSnapshot(affixes []model.ReferenceAffix, aspects []model.ReferenceAspect, itemTypes []model.ItemType, classes []model.Class) *Snapshot {
	s := &Snapshot{
		affixes:        make(map[int]model.ReferenceAffix, len(affixes)),
		aspects:        make(map[int]model.ReferenceAspect, len(aspects)),
		affixNames:     make(map[int]string, len(affixes)),
		aspectNames:    make(map[int]string, len(aspects)),
		affixTrigrams:  make(map[string][]int),
		aspectTrigrams: make(map[string][]int),
		typeKeywords:   make(map[string]int, len(itemTypes)),
		classKeywords:  make(map[string]int, len(classes)),
		itemTypes:      itemTypes,
		classes:        classes,
	}

	for _, a := range affixes {
		s.affixes[a.ID] = a
		name := normalize.Text(a.Name)
		s.affixNames[a.ID] = name
		s.affixIDs = append(s.affixIDs, a.ID)
		for _, tri := range trigrams(name) {
			s.affixTrigrams[tri] = append(s.affixTrigrams[tri], a.ID)
		}
	}
	sort.Ints(s.affixIDs)

	for _, a := range aspects {
		s.aspects[a.ID] = a
		name := normalize.Text(a.Name)
		s.aspectNames[a.ID] = name
		s.aspectIDs = append(s.aspectIDs, a.ID)
		for _, tri := range trigrams(name) {
			s.aspectTrigrams[tri] = append(s.aspectTrigrams[tri], a.ID)
		}
	}
	sort.Ints(s.aspectIDs)

	for _, t := range itemTypes {
		s.typeKeywords[normalize.Text(t.Name)] = t.ID
	}
	for _, c := range classes {
		s.classKeywords[normalize.Text(c.Name)] = c.ID
	}

	return s
}

// Affix returns the affix with the given id.
func (s *Snapshot) Affix(id int) (model.ReferenceAffix, bool) {
	a, ok := s.affixes[id]
	return a, ok
}

// Aspect returns the aspect with the given id.
func (s *Snapshot) Aspect(id int) (model.ReferenceAspect, bool) {
	a, ok := s.aspects[id]
	return a, ok
}

// AffixName returns the normalized canonical name for an affix id.
func (s *Snapshot) AffixName(id int) string {
	return s.affixNames[id]
}

// AspectName returns the normalized canonical name for an aspect id.
func (s *Snapshot) AspectName(id int) string {
	return s.aspectNames[id]
}

// AffixCandidates returns the ids of affixes sharing at least one trigram
// with the given normalized text, ascending. Text too short to carry a
// trigram falls back to the full catalog.
func (s *Snapshot) AffixCandidates(text string) []int {
	return candidates(text, s.affixTrigrams, s.affixIDs)
}

// AspectCandidates is AffixCandidates for the aspect half of the catalog.
func (s *Snapshot) AspectCandidates(text string) []int {
	return candidates(text, s.aspectTrigrams, s.aspectIDs)
}

// ItemTypes returns all known item types.
func (s *Snapshot) ItemTypes() []model.ItemType {
	return s.itemTypes
}

// Classes returns all known character classes.
func (s *Snapshot) Classes() []model.Class {
	return s.classes
}

// DetectItemType scans a normalized line for an item-type keyword and returns
// the matching type, longest keyword first so "two-handed sword" beats "sword".
func (s *Snapshot) DetectItemType(text string) (model.ItemType, bool) {
	bestID, bestLen := 0, 0
	for keyword, id := range s.typeKeywords {
		if keyword != "" && strings.Contains(text, keyword) && len(keyword) > bestLen {
			bestID, bestLen = id, len(keyword)
		}
	}
	if bestID == 0 {
		return model.ItemType{}, false
	}
	for _, t := range s.itemTypes {
		if t.ID == bestID {
			return t, true
		}
	}
	return model.ItemType{}, false
}

// DetectClass scans a normalized line for a class-restriction keyword.
func (s *Snapshot) DetectClass(text string) (model.Class, bool) {
	for keyword, id := range s.classKeywords {
		if keyword != "" && strings.Contains(text, keyword) {
			for _, c := range s.classes {
				if c.ID == id {
					return c, true
				}
			}
		}
	}
	return model.Class{}, false
}

// Stats reports catalog sizes.
func (s *Snapshot) Stats() (affixes, aspects, itemTypes, classes int) {
	return len(s.affixes), len(s.aspects), len(s.itemTypes), len(s.classes)
}

func candidates(text string, index map[string][]int, all []int) []int {
	tris := trigrams(text)
	if len(tris) == 0 {
		return all
	}

	seen := make(map[int]struct{})
	for _, tri := range tris {
		for _, id := range index[tri] {
			seen[id] = struct{}{}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// trigrams returns the deduplicated rune trigrams of s.
func trigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 3 {
		return nil
	}

	seen := make(map[string]struct{}, len(runes))
	out := make([]string, 0, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		tri := string(runes[i : i+3])
		if _, ok := seen[tri]; ok {
			continue
		}
		seen[tri] = struct{}{}
		out = append(out, tri)
	}
	return out
}
