// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

var (
	// PrimaryColor is the main theme color (sanctuary gold).
	PrimaryColor = lipgloss.Color("#D4A843")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4") // Teal
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666") // Gray

	// Rarity colors follow the in-game tooltip palette.
	magicColor     = lipgloss.Color("#6969FF")
	rareColor      = lipgloss.Color("#FFFF00")
	legendaryColor = lipgloss.Color("#FF8000")
	uniqueColor    = lipgloss.Color("#C7B377")
	mythicColor    = lipgloss.Color("#B658C4")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠"
	SwordIcon   = "⚔"
	StarIcon    = "★"
)

// RarityStyle returns the lipgloss style for an item rarity tier.
func RarityStyle(r model.Rarity) lipgloss.Style {
	switch r {
	case model.RarityMagic:
		return lipgloss.NewStyle().Foreground(magicColor)
	case model.RarityRare:
		return lipgloss.NewStyle().Foreground(rareColor)
	case model.RarityLegendary:
		return lipgloss.NewStyle().Foreground(legendaryColor)
	case model.RarityUnique:
		return lipgloss.NewStyle().Foreground(uniqueColor).Bold(true)
	case model.RarityMythic:
		return lipgloss.NewStyle().Foreground(mythicColor).Bold(true)
	default:
		return lipgloss.NewStyle()
	}
}
