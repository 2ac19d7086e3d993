// Package assemble turns an ordered OCR extraction into one structured item
// record.
package assemble

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/brianjleepub/diablo4-item-comparer/internal/common"
	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/match"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/normalize"
)

// DefaultCompletenessThreshold is the minimum resolved/non-empty ratio below
// which assembly fails instead of returning a near-empty item.
const DefaultCompletenessThreshold = 0.5

// Config tunes one assembly pass.
type Config struct {
	// MatchThreshold is the matcher acceptance similarity; zero uses
	// match.DefaultThreshold.
	MatchThreshold float64
	// CompletenessThreshold is the assembly gate; zero uses
	// DefaultCompletenessThreshold.
	CompletenessThreshold float64
}

func (c Config) completeness() float64 {
	if c.CompletenessThreshold > 0 {
		return c.CompletenessThreshold
	}
	return DefaultCompletenessThreshold
}

// InsufficientMatchError reports an assembly whose completeness fell below
// the gate. It carries the unresolved lines so the user can retry with a
// better screenshot or correct them by hand.
type InsufficientMatchError struct {
	UnresolvedLines []string
	Completeness    float64
}

func (e *InsufficientMatchError) Error() string {
	return fmt.Sprintf("only %.0f%% of lines resolved (%d unresolved)",
		e.Completeness*100, len(e.UnresolvedLines))
}

func (e *InsufficientMatchError) Unwrap() error {
	return common.ErrInsufficientMatch
}

var (
	dividerPattern = regexp.MustCompile(`^[-_=~*•● ]{3,}$`)
	levelPattern   = regexp.MustCompile(`requires level (\d+)`)
)

var rarityKeywords = []struct {
	keyword string
	rarity  model.Rarity
}{
	// Mythic before unique: "mythic unique" tooltips carry both words.
	{"mythic", model.RarityMythic},
	{"unique", model.RarityUnique},
	{"legendary", model.RarityLegendary},
	{"rare", model.RarityRare},
	{"magic", model.RarityMagic},
	{"common", model.RarityCommon},
}

var gemKeywords = []string{"ruby", "emerald", "diamond", "sapphire", "topaz", "amethyst", "skull"}

// Item assembles the ordered OCR lines of one tooltip into a StructuredItem.
// Per-line failures are absorbed as unresolved lines; only an empty input or
// a completeness gate failure is fatal.
func Item(lines []model.OcrLine, snap *dictionary.Snapshot, cfg Config) (*model.StructuredItem, error) {
	if snap == nil {
		return nil, common.ErrNoDictionary
	}

	nonEmpty := make([]model.OcrLine, 0, len(lines))
	for _, l := range lines {
		if !l.IsEmpty() {
			nonEmpty = append(nonEmpty, l)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, common.ErrEmptyInput
	}

	item := &model.StructuredItem{
		Hash:   model.ContentHash(lines),
		Name:   strings.TrimSpace(nonEmpty[0].Text),
		Rarity: model.RarityUnknown,
		Flags:  model.ItemFlags{AccountBound: true},
	}

	used := make(model.IDSet)
	usedAspects := make(model.IDSet)
	resolved := 1 // the name line
	seenDivider := false
	inUniquePower := false
	var unresolved []string

	for _, raw := range nonEmpty[1:] {
		if dividerPattern.MatchString(strings.TrimSpace(raw.Text)) {
			seenDivider = true
			resolved++
			continue
		}

		line := normalize.Line(raw)

		if consumeStructural(line, snap, item, &seenDivider, &inUniquePower) {
			resolved++
			continue
		}

		opts := match.Options{
			Threshold:  cfg.MatchThreshold,
			ItemTypeID: item.ItemTypeID,
			ClassID:    item.ClassID,
			UsedIDs:    used,
		}

		if strings.Contains(line.MatchText, "aspect") {
			if m := match.Aspect(line, snap, match.Options{
				Threshold:  cfg.MatchThreshold,
				ItemTypeID: item.ItemTypeID,
				ClassID:    item.ClassID,
				UsedIDs:    usedAspects,
			}); m != nil && aspectRollValid(snap, m) {
				usedAspects[m.AspectID] = struct{}{}
				item.Aspects = append(item.Aspects, *m)
				resolved++
				continue
			}
		}

		if m := match.Affix(line, snap, opts); m != nil && affixRollValid(snap, m) {
			m.IsImplicit = !seenDivider
			m.IsGreater = isGreaterAffix(raw.Text, line.Text)
			m.IsTempered = strings.Contains(line.Text, "tempered")
			used[m.AffixID] = struct{}{}
			item.Affixes = append(item.Affixes, *m)
			resolved++
			continue
		}

		// Lines following a "Unique Power" marker that resolve to nothing
		// are the power's prose description, not noise.
		if inUniquePower {
			if item.UniquePowerText != "" {
				item.UniquePowerText += " "
			}
			item.UniquePowerText += strings.TrimSpace(raw.Text)
			resolved++
			continue
		}

		unresolved = append(unresolved, raw.Text)
	}

	completeness := float64(resolved) / float64(len(nonEmpty))
	item.Completeness = completeness
	item.UnresolvedLines = unresolved

	if completeness < cfg.completeness() {
		return nil, &InsufficientMatchError{
			UnresolvedLines: unresolved,
			Completeness:    completeness,
		}
	}

	// Implicit affixes first, then explicit, each half in tooltip order.
	sort.SliceStable(item.Affixes, func(a, b int) bool {
		if item.Affixes[a].IsImplicit != item.Affixes[b].IsImplicit {
			return item.Affixes[a].IsImplicit
		}
		return item.Affixes[a].Order < item.Affixes[b].Order
	})

	return item, nil
}

// consumeStructural recognizes the non-affix tooltip lines: rarity/type
// header, item power, level requirement, sockets, class restriction, flag
// markers. Returns true when the line was consumed.
func consumeStructural(line model.NormalizedLine, snap *dictionary.Snapshot, item *model.StructuredItem, seenDivider, inUniquePower *bool) bool {
	text := line.Text

	if strings.Contains(text, "item power") && line.Value != nil {
		item.ItemPower = int(line.Value.Value)
		return true
	}

	if m := levelPattern.FindStringSubmatch(text); m != nil && line.Value != nil {
		item.LevelRequirement = int(line.Value.Value)
		return true
	}

	if rarity, itemType, ok := parseHeader(text, snap); ok {
		item.Rarity = rarity
		if itemType.ID != 0 {
			item.ItemTypeID = itemType.ID
			item.ItemTypeName = itemType.Name
		}
		item.Flags.Ancestral = item.Flags.Ancestral || strings.Contains(text, "ancestral")
		item.Flags.Unique = item.Flags.Unique || rarity == model.RarityUnique || rarity == model.RarityMythic
		item.Flags.Mythic = item.Flags.Mythic || rarity == model.RarityMythic
		return true
	}

	if strings.Contains(text, "socket") {
		socket := model.Socket{Index: len(item.Sockets), IsEmpty: true}
		for _, gem := range gemKeywords {
			if strings.Contains(text, gem) {
				socket.GemType = gem
				socket.IsEmpty = false
				break
			}
		}
		item.Sockets = append(item.Sockets, socket)
		return true
	}

	if strings.Contains(text, "unique power") || strings.Contains(text, "legendary power") {
		*seenDivider = true
		*inUniquePower = true
		return true
	}

	if strings.Contains(text, "sanctified") {
		item.Flags.Sanctified = true
		return true
	}
	if strings.Contains(text, "not account bound") {
		item.Flags.AccountBound = false
		return true
	}
	if strings.Contains(text, "account bound") {
		return true
	}

	if c, ok := snap.DetectClass(text); ok && strings.Contains(text, "only") {
		item.ClassID = c.ID
		return true
	}

	return false
}

// parseHeader recognizes the rarity/type line, e.g. "ancestral legendary helm".
func parseHeader(text string, snap *dictionary.Snapshot) (model.Rarity, model.ItemType, bool) {
	for _, rk := range rarityKeywords {
		if !strings.Contains(text, rk.keyword) {
			continue
		}
		itemType, _ := snap.DetectItemType(text)
		return rk.rarity, itemType, true
	}

	// A bare type line ("two-handed sword") still pins the item type.
	if itemType, ok := snap.DetectItemType(text); ok {
		return model.RarityUnknown, itemType, true
	}

	return model.RarityUnknown, model.ItemType{}, false
}

// affixRollValid enforces the range invariant: a roll outside the catalog
// range rejects the match, and ranged affixes need a roll at all.
func affixRollValid(snap *dictionary.Snapshot, m *model.AffixMatch) bool {
	affix, ok := snap.Affix(m.AffixID)
	if !ok {
		return false
	}
	if m.Line.Value == nil {
		return !affix.HasRange()
	}
	return affix.InRange(m.Roll)
}

func aspectRollValid(snap *dictionary.Snapshot, m *model.AspectMatch) bool {
	aspect, ok := snap.Aspect(m.AspectID)
	if !ok {
		return false
	}
	if m.Roll == nil {
		return true
	}
	return aspect.InRange(*m.Roll)
}

// isGreaterAffix checks the raw line for the greater-affix star (stripped by
// normalization) or the spelled-out marker.
func isGreaterAffix(raw, normalized string) bool {
	return strings.ContainsAny(raw, "★✦") || strings.Contains(normalized, "greater affix")
}
