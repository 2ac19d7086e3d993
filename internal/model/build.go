package model

import "fmt"

// AffixWeight is one build's priority for one catalog affix.
type AffixWeight struct {
	Notes    string
	AffixID  int
	Weight   float64 // [0,100]
	Priority int     // 1 highest
	Required bool
}

// Validate checks the weight row against the catalog constraints.
func (w *AffixWeight) Validate() error {
	if w.AffixID <= 0 {
		return fmt.Errorf("affix id is required")
	}
	if w.Weight < 0 || w.Weight > 100 {
		return fmt.Errorf("weight must be between 0 and 100, got %.2f", w.Weight)
	}
	return nil
}

// BuildWeightProfile is a user-defined build's affix weighting. Read-only
// input to the scoring engine.
type BuildWeightProfile struct {
	Weights     map[int]AffixWeight
	Name        string
	Description string
	BuildID     int
	ClassID     int
}

// Validate checks every weight row.
func (p *BuildWeightProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("build name is required")
	}
	for id, w := range p.Weights {
		if id != w.AffixID {
			return fmt.Errorf("weight keyed by %d carries affix id %d", id, w.AffixID)
		}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("affix %d: %w", id, err)
		}
	}
	return nil
}
