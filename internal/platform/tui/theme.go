package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme contains the visual styles of menus and the scoreboard.
type Theme struct {
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuControls    lipgloss.Style

	Border       lipgloss.Color
	SelectedFg   lipgloss.Color
	SelectedBg   lipgloss.Color
	EmptyMessage lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Amber
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true), // Diamond cyan
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuControls:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Border:       lipgloss.Color("240"),
		SelectedFg:   lipgloss.Color("229"),
		SelectedBg:   lipgloss.Color("94"), // Dirt brown
		EmptyMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4),
	}
}

// MonochromeTheme returns a grayscale theme.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	theme.SelectedBg = lipgloss.Color("238")
	return theme
}

// ThemeByName returns the named theme. Unknown names return false.
func ThemeByName(name string) (Theme, bool) {
	switch strings.ToLower(name) {
	case "", "default":
		return DefaultTheme(), true
	case "mono", "monochrome":
		return MonochromeTheme(), true
	}
	return Theme{}, false
}

var (
	themeMu sync.RWMutex
	theme   = DefaultTheme()
)

// SetTheme sets the global theme.
func SetTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	theme = t
}

// CurrentTheme returns the current global theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return theme
}
