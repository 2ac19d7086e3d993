// Package score evaluates structured items against build weight profiles and
// compares the results.
package score

import (
	"sort"

	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

// DefaultRequiredPenaltyFactor multiplies the weight of a required-but-missing
// affix into a negative contribution, harsher than the stat's best possible
// positive contribution so missing must-haves visibly tank the score.
const DefaultRequiredPenaltyFactor = 2.0

// Config tunes scoring.
type Config struct {
	// RequiredPenaltyFactor overrides DefaultRequiredPenaltyFactor when > 0.
	RequiredPenaltyFactor float64
}

func (c Config) penaltyFactor() float64 {
	if c.RequiredPenaltyFactor > 0 {
		return c.RequiredPenaltyFactor
	}
	return DefaultRequiredPenaltyFactor
}

// Breakdown scores one item against one build profile. Pure: every input
// combination yields a defined numeric result, and contributions come out
// ordered by affix id so identical inputs produce identical breakdowns.
func Breakdown(item *model.StructuredItem, profile *model.BuildWeightProfile, snap *dictionary.Snapshot, cfg Config) model.ScoreBreakdown {
	bd := model.ScoreBreakdown{
		ItemHash: item.Hash,
		BuildID:  profile.BuildID,
	}

	profileIDs := make([]int, 0, len(profile.Weights))
	for id := range profile.Weights {
		profileIDs = append(profileIDs, id)
	}
	sort.Ints(profileIDs)

	for _, id := range profileIDs {
		w := profile.Weights[id]

		affix, known := snap.Affix(id)
		if !known {
			// Dictionary/version skew: an unknown affix id contributes 0,
			// required or not.
			bd.Contributions = append(bd.Contributions, model.Contribution{
				AffixID:   id,
				AffixName: "(unknown affix)",
				Weight:    w.Weight,
				Required:  w.Required,
				Missing:   !item.HasAffix(id),
			})
			continue
		}

		best, found := bestRoll(item, &affix)
		if !found {
			c := model.Contribution{
				AffixID:   id,
				AffixName: affix.Name,
				Weight:    w.Weight,
				Required:  w.Required,
				Missing:   true,
			}
			if w.Required {
				c.Value = -(w.Weight * cfg.penaltyFactor())
			}
			bd.Contributions = append(bd.Contributions, c)
			bd.Total += c.Value
			continue
		}

		norm := normalizedRoll(&affix, best)
		c := model.Contribution{
			AffixID:        id,
			AffixName:      affix.Name,
			Weight:         w.Weight,
			Roll:           best,
			NormalizedRoll: norm,
			Required:       w.Required,
			Value:          w.Weight * norm,
		}
		bd.Contributions = append(bd.Contributions, c)
		bd.Total += c.Value
	}

	// Item affixes the profile does not weight are informational only.
	for _, m := range item.Affixes {
		if _, weighted := profile.Weights[m.AffixID]; weighted {
			continue
		}
		if containsAffix(bd.Contributions, m.AffixID) {
			continue
		}
		name := "(unknown affix)"
		var norm float64
		if affix, ok := snap.Affix(m.AffixID); ok {
			name = affix.Name
			norm = normalizedRoll(&affix, m.Roll)
		}
		bd.Contributions = append(bd.Contributions, model.Contribution{
			AffixID:        m.AffixID,
			AffixName:      name,
			Roll:           m.Roll,
			NormalizedRoll: norm,
		})
	}

	return bd
}

// bestRoll returns the highest roll the item carries for the affix. Items can
// legitimately carry the same affix twice when the catalog allows duplicates.
func bestRoll(item *model.StructuredItem, affix *model.ReferenceAffix) (float64, bool) {
	best := 0.0
	found := false
	for _, m := range item.Affixes {
		if m.AffixID != affix.ID {
			continue
		}
		if !found || m.Roll > best {
			best = m.Roll
			found = true
		}
	}
	return best, found
}

// normalizedRoll scales a roll to [0,1] within the affix range, or returns
// the raw roll when the affix has no usable range.
func normalizedRoll(affix *model.ReferenceAffix, roll float64) float64 {
	if !affix.HasRange() {
		return roll
	}
	norm := (roll - *affix.MinValue) / (*affix.MaxValue - *affix.MinValue)
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

func containsAffix(contributions []model.Contribution, id int) bool {
	for _, c := range contributions {
		if c.AffixID == id {
			return true
		}
	}
	return false
}
