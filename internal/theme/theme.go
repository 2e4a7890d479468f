// Package theme provides color themes for the TUI.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazytree/internal/models"
)

// Theme defines all colors used in the application UI.
type Theme struct {
	Background   lipgloss.Color
	Accent       lipgloss.Color
	AccentFg     lipgloss.Color // Foreground color for text on Accent background
	SelectionBg  lipgloss.Color // Background of the selected tree row
	BarBg        lipgloss.Color // Status bar background
	Border       lipgloss.Color
	MutedFg      lipgloss.Color
	TextFg       lipgloss.Color
	SuccessFg    lipgloss.Color
	WarnFg       lipgloss.Color
	ErrorFg      lipgloss.Color
	InfoFg       lipgloss.Color
	DirFg        lipgloss.Color
	SymlinkFg    lipgloss.Color
	MarkedFg     lipgloss.Color // Favorite marker
	StagedFg     lipgloss.Color
	ModifiedFg   lipgloss.Color
	UntrackedFg  lipgloss.Color
	ConflictedFg lipgloss.Color
}

// Theme names.
const (
	DraculaName     = "dracula"
	CleanLightName  = "clean-light"
	NordName        = "nord"
	GruvboxDarkName = "gruvbox-dark"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Background:   lipgloss.Color("#282A36"), // Background
		Accent:       lipgloss.Color("#BD93F9"), // Purple (primary accent)
		AccentFg:     lipgloss.Color("#282A36"), // Dark text on accent
		SelectionBg:  lipgloss.Color("#44475A"), // Current Line / Selection
		BarBg:        lipgloss.Color("#343746"), // Slightly raised bar
		Border:       lipgloss.Color("#6272A4"), // Comment (subtle borders)
		MutedFg:      lipgloss.Color("#6272A4"), // Comment (muted text)
		TextFg:       lipgloss.Color("#F8F8F2"), // Foreground (primary text)
		SuccessFg:    lipgloss.Color("#50FA7B"), // Green
		WarnFg:       lipgloss.Color("#FFB86C"), // Orange
		ErrorFg:      lipgloss.Color("#FF5555"), // Red
		InfoFg:       lipgloss.Color("#8BE9FD"), // Cyan
		DirFg:        lipgloss.Color("#BD93F9"), // Purple
		SymlinkFg:    lipgloss.Color("#8BE9FD"), // Cyan
		MarkedFg:     lipgloss.Color("#FFB86C"), // Orange
		StagedFg:     lipgloss.Color("#50FA7B"), // Green
		ModifiedFg:   lipgloss.Color("#F1FA8C"), // Yellow
		UntrackedFg:  lipgloss.Color("#FF5555"), // Red
		ConflictedFg: lipgloss.Color("#FF79C6"), // Pink
	}
}

// CleanLight returns a theme optimized for light terminal backgrounds.
func CleanLight() *Theme {
	return &Theme{
		Background:   lipgloss.Color("#FFFFFF"), // Pure White
		Accent:       lipgloss.Color("#C6DBE5"), // Pale cyan
		AccentFg:     lipgloss.Color("#24292F"), // Dark text on accent
		SelectionBg:  lipgloss.Color("#DDF4FF"), // Very light blue wash
		BarBg:        lipgloss.Color("#F6F8FA"), // Soft gray bar
		Border:       lipgloss.Color("#D0D7DE"), // Subtle cool gray
		MutedFg:      lipgloss.Color("#6E7781"), // Muted gray text
		TextFg:       lipgloss.Color("#24292F"), // Deep charcoal
		SuccessFg:    lipgloss.Color("#1A7F37"), // Green
		WarnFg:       lipgloss.Color("#9A6700"), // Brown/orange
		ErrorFg:      lipgloss.Color("#CF222E"), // Red
		InfoFg:       lipgloss.Color("#0598BC"), // Cyan
		DirFg:        lipgloss.Color("#0969DA"), // Blue
		SymlinkFg:    lipgloss.Color("#0598BC"), // Cyan
		MarkedFg:     lipgloss.Color("#BC4C00"), // Orange
		StagedFg:     lipgloss.Color("#1A7F37"), // Green
		ModifiedFg:   lipgloss.Color("#9A6700"), // Brown/orange
		UntrackedFg:  lipgloss.Color("#CF222E"), // Red
		ConflictedFg: lipgloss.Color("#BF3989"), // Pink
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Background:   lipgloss.Color("#2E3440"),
		Accent:       lipgloss.Color("#88C0D0"),
		AccentFg:     lipgloss.Color("#2E3440"), // Dark text on accent
		SelectionBg:  lipgloss.Color("#3B4252"),
		BarBg:        lipgloss.Color("#434C5E"),
		Border:       lipgloss.Color("#4C566A"),
		MutedFg:      lipgloss.Color("#81A1C1"),
		TextFg:       lipgloss.Color("#E5E9F0"),
		SuccessFg:    lipgloss.Color("#A3BE8C"),
		WarnFg:       lipgloss.Color("#EBCB8B"),
		ErrorFg:      lipgloss.Color("#BF616A"),
		InfoFg:       lipgloss.Color("#88C0D0"),
		DirFg:        lipgloss.Color("#81A1C1"),
		SymlinkFg:    lipgloss.Color("#8FBCBB"),
		MarkedFg:     lipgloss.Color("#D08770"),
		StagedFg:     lipgloss.Color("#A3BE8C"),
		ModifiedFg:   lipgloss.Color("#EBCB8B"),
		UntrackedFg:  lipgloss.Color("#BF616A"),
		ConflictedFg: lipgloss.Color("#B48EAD"),
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Background:   lipgloss.Color("#282828"),
		Accent:       lipgloss.Color("#FABD2F"),
		AccentFg:     lipgloss.Color("#282828"), // Dark text on yellow accent
		SelectionBg:  lipgloss.Color("#3C3836"),
		BarBg:        lipgloss.Color("#32302F"),
		Border:       lipgloss.Color("#504945"),
		MutedFg:      lipgloss.Color("#928374"),
		TextFg:       lipgloss.Color("#EBDBB2"),
		SuccessFg:    lipgloss.Color("#B8BB26"),
		WarnFg:       lipgloss.Color("#FABD2F"),
		ErrorFg:      lipgloss.Color("#FB4934"),
		InfoFg:       lipgloss.Color("#83A598"),
		DirFg:        lipgloss.Color("#83A598"),
		SymlinkFg:    lipgloss.Color("#8EC07C"),
		MarkedFg:     lipgloss.Color("#FE8019"),
		StagedFg:     lipgloss.Color("#B8BB26"),
		ModifiedFg:   lipgloss.Color("#FABD2F"),
		UntrackedFg:  lipgloss.Color("#FB4934"),
		ConflictedFg: lipgloss.Color("#D3869B"),
	}
}

// StatusColor returns the color for a file's status marker.
func (t *Theme) StatusColor(code models.StatusCode) lipgloss.Color {
	switch code {
	case models.StatusAdded, models.StatusRenamed:
		return t.StagedFg
	case models.StatusModified:
		return t.ModifiedFg
	case models.StatusDeleted:
		return t.ErrorFg
	case models.StatusUntracked:
		return t.UntrackedFg
	case models.StatusConflicted:
		return t.ConflictedFg
	default:
		return t.TextFg
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case CleanLightName:
		return CleanLight()
	case NordName:
		return Nord()
	case GruvboxDarkName:
		return GruvboxDark()
	default:
		return Dracula()
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	return name == CleanLightName
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return CleanLightName
}

// Detect picks the default theme for the terminal's background color.
func Detect() string {
	if lipgloss.HasDarkBackground() {
		return DefaultDark()
	}
	return DefaultLight()
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		CleanLightName,
		NordName,
		GruvboxDarkName,
	}
}
