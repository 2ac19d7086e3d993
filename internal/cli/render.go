package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
)

// NameFunc resolves a catalog id to a display name. A nil NameFunc falls back
// to the raw id.
type NameFunc func(id int) string

func resolveName(names NameFunc, id int) string {
	if names != nil {
		if name := names(id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// FormatItem renders an ingested item the way its tooltip reads.
func FormatItem(item *model.StructuredItem, names NameFunc) string {
	var b strings.Builder

	b.WriteString(RarityStyle(item.Rarity).Render(item.Name))
	b.WriteString("\n")

	header := item.Rarity.String()
	if item.Flags.Ancestral {
		header = "Ancestral " + header
	}
	if item.ItemTypeName != "" {
		header += " " + item.ItemTypeName
	}
	b.WriteString(SubtleStyle.Render(header))
	b.WriteString("\n")

	if item.ItemPower > 0 {
		fmt.Fprintf(&b, "%d Item Power\n", item.ItemPower)
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, a := range item.Affixes {
		marker := "+"
		if a.IsGreater {
			marker = StarIcon
		}
		kind := ""
		switch {
		case a.IsImplicit:
			kind = "implicit"
		case a.IsTempered:
			kind = "tempered"
		}
		fmt.Fprintf(w, "  %s %s\t%.1f\t%s\n", marker, resolveName(names, a.AffixID), a.Roll, kind)
	}
	_ = w.Flush()

	for _, a := range item.Aspects {
		line := "  " + SuccessStyle.Render(resolveName(names, a.AspectID))
		if a.Roll != nil {
			line += fmt.Sprintf(" (%.1f)", *a.Roll)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if item.UniquePowerText != "" {
		b.WriteString("  " + SubtleStyle.Render(item.UniquePowerText))
		b.WriteString("\n")
	}

	if n := item.SocketCount(); n > 0 {
		fmt.Fprintf(&b, "  %d socket(s)\n", n)
	}
	if item.LevelRequirement > 0 {
		fmt.Fprintf(&b, "Requires Level %d\n", item.LevelRequirement)
	}

	if len(item.UnresolvedLines) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("%s %d unresolved line(s)", WarningIcon, len(item.UnresolvedLines))))
		b.WriteString("\n")
		for _, line := range item.UnresolvedLines {
			b.WriteString(SubtleStyle.Render("    " + line))
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "%s\n", SubtleStyle.Render(fmt.Sprintf("hash %s · completeness %.0f%%", shortHash(item.Hash), item.Completeness*100)))
	return b.String()
}

// FormatBreakdown renders one item's score against a build as a table.
func FormatBreakdown(breakdown model.ScoreBreakdown) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("Item %s vs build %d", shortHash(breakdown.ItemHash), breakdown.BuildID)))
	b.WriteString("\n")

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AFFIX\tWEIGHT\tROLL\tNORM\tVALUE")
	for _, c := range breakdown.Contributions {
		name := c.AffixName
		if name == "" {
			name = fmt.Sprintf("#%d", c.AffixID)
		}
		switch {
		case c.Missing:
			fmt.Fprintf(w, "%s\t%.0f\tmissing\t-\t%.2f\n", name, c.Weight, c.Value)
		default:
			fmt.Fprintf(w, "%s\t%.0f\t%.1f\t%.2f\t%.2f\n", name, c.Weight, c.Roll, c.NormalizedRoll, c.Value)
		}
	}
	_ = w.Flush()

	b.WriteString(BoldStyle.Render(fmt.Sprintf("Total: %.2f", breakdown.Total)))
	b.WriteString("\n")
	return b.String()
}

// FormatComparison renders a comparison verdict with both breakdowns.
func FormatComparison(result *model.ComparisonResult) string {
	var b strings.Builder

	b.WriteString(FormatBreakdown(result.BreakdownA))
	b.WriteString("\n")
	b.WriteString(FormatBreakdown(result.BreakdownB))
	b.WriteString("\n")

	var verdict string
	switch result.Winner {
	case model.WinnerA:
		verdict = SuccessStyle.Render(fmt.Sprintf("%s Item A (%s) wins by %.2f", SwordIcon, shortHash(result.ItemAHash), result.Delta))
	case model.WinnerB:
		verdict = SuccessStyle.Render(fmt.Sprintf("%s Item B (%s) wins by %.2f", SwordIcon, shortHash(result.ItemBHash), -result.Delta))
	default:
		verdict = WarningStyle.Render("Tie: the items score within the tie margin")
	}
	b.WriteString(verdict)
	b.WriteString("\n")
	return b.String()
}

// FormatBuilds renders the build list as a table.
func FormatBuilds(builds []model.BuildWeightProfile, classNames NameFunc) string {
	if len(builds) == 0 {
		return SubtleStyle.Render("No builds defined.") + "\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLASS\tAFFIXES\tDESCRIPTION")
	for _, build := range builds {
		class := "-"
		if build.ClassID != 0 {
			class = resolveName(classNames, build.ClassID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", build.BuildID, build.Name, class, len(build.Weights), build.Description)
	}
	_ = w.Flush()
	return b.String()
}

// FormatBuildProfile renders one build's weight table, highest weight first.
func FormatBuildProfile(profile *model.BuildWeightProfile, names NameFunc) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(profile.Name))
	b.WriteString("\n")
	if profile.Description != "" {
		b.WriteString(SubtleStyle.Render(profile.Description))
		b.WriteString("\n")
	}

	weights := make([]model.AffixWeight, 0, len(profile.Weights))
	for _, w := range profile.Weights {
		weights = append(weights, w)
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].Weight != weights[j].Weight {
			return weights[i].Weight > weights[j].Weight
		}
		return weights[i].AffixID < weights[j].AffixID
	})

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AFFIX\tWEIGHT\tPRIORITY\tREQUIRED\tNOTES")
	for _, weight := range weights {
		required := ""
		if weight.Required {
			required = SuccessIcon
		}
		fmt.Fprintf(w, "%s\t%.0f\t%d\t%s\t%s\n",
			resolveName(names, weight.AffixID), weight.Weight, weight.Priority, required, weight.Notes)
	}
	_ = w.Flush()
	return b.String()
}

// FormatReferenceStats renders catalog counts.
func FormatReferenceStats(stats service.ReferenceStats) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATALOG\tENTRIES")
	fmt.Fprintf(w, "Affixes\t%d\n", stats.Affixes)
	fmt.Fprintf(w, "Aspects\t%d\n", stats.Aspects)
	fmt.Fprintf(w, "Item types\t%d\n", stats.ItemTypes)
	fmt.Fprintf(w, "Classes\t%d\n", stats.Classes)
	_ = w.Flush()
	return b.String()
}
