package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rockfall/internal/registry"
)

// LevelMenuModel is the level picker for games with a level list.
// Item 0 starts from the beginning; item i selects levels[i-1].
type LevelMenuModel struct {
	title        string
	levels       []registry.LevelInfo
	cursor       int
	width        int
	height       int
	keyMapper    *KeyMapper
	choosing     bool
	quitting     bool
	back         bool
	scrollOffset int
}

// NewLevelMenuModel creates a level selection model.
func NewLevelMenuModel(title string, levels []registry.LevelInfo, width, height int) LevelMenuModel {
	return LevelMenuModel{
		title:     title,
		levels:    levels,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.levels) {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		m.choosing = false
	case MenuActionBack:
		m.back = true
	}
	return m, nil
}

func (m LevelMenuModel) visibleItems() int {
	return max(3, m.height-10)
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *LevelMenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the level selection.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}
	theme := CurrentTheme()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(theme.MenuTitle.Render(m.title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(theme.MenuDescription.Render("Select a level:"), m.width))
	b.WriteString("\n\n")

	end := min(m.scrollOffset+m.visibleItems(), len(m.levels)+1)
	if m.scrollOffset > 0 {
		b.WriteString(centerText(theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		label := "Start from the beginning"
		if i > 0 {
			label = fmt.Sprintf("%2d. %s", i, m.levels[i-1].Name)
		}
		cursor := "  "
		style := theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = theme.MenuItemActive
		}
		b.WriteString(centerText(style.Render(cursor+label), m.width))
		b.WriteString("\n")
	}
	if end < len(m.levels)+1 {
		b.WriteString(centerText(theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(theme.MenuControls.Render("Up/Down: Navigate  |  Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen level ID and whether a choice was made.
// An empty ID means start from the beginning.
func (m LevelMenuModel) Selected() (string, bool) {
	if m.choosing || m.back || m.quitting {
		return "", false
	}
	if m.cursor == 0 {
		return "", true
	}
	return m.levels[m.cursor-1].ID, true
}

// IsQuitting returns true if user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelMenuModel) WantsBack() bool {
	return m.back
}
