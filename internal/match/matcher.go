// Package match resolves normalized tooltip lines against the reference
// catalog using fuzzy string similarity.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// DefaultThreshold is the acceptance similarity below which a line stays
// unresolved.
const DefaultThreshold = 0.80

// extraNumericPenalty is the confidence multiplier applied per unparsed
// numeric token left on the line.
const extraNumericPenalty = 0.95

// Options carries the per-item state the matcher needs.
type Options struct {
	// UsedIDs holds reference ids already claimed by earlier lines of the
	// same item. A claimed id is skipped unless the catalog entry allows
	// duplicates.
	UsedIDs model.IDSet
	// Threshold overrides DefaultThreshold when > 0.
	Threshold float64
	// ItemTypeID and ClassID restrict candidates when already known;
	// zero means unknown and applies no filter.
	ItemTypeID int
	ClassID    int
}

func (o Options) threshold() float64 {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return DefaultThreshold
}

// Affix matches one normalized line against the affix half of the catalog.
// A nil result means the line stays unresolved; there is no error path.
func Affix(line model.NormalizedLine, snap *dictionary.Snapshot, opts Options) *model.AffixMatch {
	if line.MatchText == "" {
		return nil
	}

	bestID := 0
	bestSim := 0.0
	bestInRange := false

	// Candidates arrive in ascending id order, so on exact similarity ties
	// the lower id wins unless range containment breaks the tie.
	for _, id := range snap.AffixCandidates(line.MatchText) {
		affix, ok := snap.Affix(id)
		if !ok {
			continue
		}
		if !affix.AllowedFor(opts.ItemTypeID, opts.ClassID) {
			continue
		}
		if opts.UsedIDs.Contains(id) && !affix.AllowDuplicate {
			continue
		}

		sim := Similarity(line.MatchText, snap.AffixName(id))
		inRange := line.Value != nil && affix.InRange(line.Value.Value)

		if sim > bestSim || (sim == bestSim && bestID != 0 && inRange && !bestInRange) {
			bestID, bestSim, bestInRange = id, sim, inRange
		}
	}

	if bestID == 0 || bestSim < opts.threshold() {
		return nil
	}

	var roll float64
	if line.Value != nil {
		roll = line.Value.Value
	}

	return &model.AffixMatch{
		AffixID:    bestID,
		Line:       line,
		Roll:       roll,
		Similarity: bestSim,
		Confidence: confidence(bestSim, line),
		Order:      line.Source.Index,
	}
}

// Aspect matches one normalized line against the aspect half of the catalog.
func Aspect(line model.NormalizedLine, snap *dictionary.Snapshot, opts Options) *model.AspectMatch {
	if line.MatchText == "" {
		return nil
	}

	bestID := 0
	bestSim := 0.0
	bestInRange := false

	for _, id := range snap.AspectCandidates(line.MatchText) {
		aspect, ok := snap.Aspect(id)
		if !ok {
			continue
		}
		if !aspect.AllowedFor(opts.ItemTypeID, opts.ClassID) {
			continue
		}
		if opts.UsedIDs.Contains(id) {
			continue
		}

		sim := Similarity(line.MatchText, snap.AspectName(id))
		inRange := line.Value != nil && aspect.InRange(line.Value.Value)

		if sim > bestSim || (sim == bestSim && bestID != 0 && inRange && !bestInRange) {
			bestID, bestSim, bestInRange = id, sim, inRange
		}
	}

	if bestID == 0 || bestSim < opts.threshold() {
		return nil
	}

	var roll *float64
	if line.Value != nil {
		v := line.Value.Value
		roll = &v
	}

	return &model.AspectMatch{
		AspectID:   bestID,
		Line:       line,
		Roll:       roll,
		Similarity: bestSim,
		Confidence: confidence(bestSim, line),
	}
}

// Similarity scores two normalized strings in [0,1], combining token-set
// overlap (Sørensen-Dice over unique tokens) with normalized edit distance.
// Taking the better of the two keeps single-character typos above the
// acceptance threshold while still tolerating token reordering.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	sim := diceTokens(a, b)
	if lev := levenshteinSimilarity(a, b); lev > sim {
		sim = lev
	}
	return sim
}

func confidence(similarity float64, line model.NormalizedLine) float64 {
	c := similarity * line.Source.Confidence
	for i := 0; i < line.ExtraNumerics; i++ {
		c *= extraNumericPenalty
	}
	return c
}

func diceTokens(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	overlap := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(setA)+len(setB))
}

func levenshteinSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}
