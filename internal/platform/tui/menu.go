package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/registry"
)

// MenuItem represents a selectable game mode in the menu.
type MenuItem struct {
	GameID string
	Title  string
}

// MenuModel is the Bubble Tea model for the mode picker.
// Picking a game that offers a level list opens the level picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	levelMenu      *LevelMenuModel
	quitting       bool
	selected       *MenuItem
	levelID        string
	levelChosen    bool
	openScoreboard bool
}

// NewMenuModel creates a new menu model listing every registered game.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title})
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.levelMenu != nil {
		return m.updateLevels(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

// updateLevels forwards messages to the level picker.
func (m MenuModel) updateLevels(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.levelMenu.Update(msg)
	lm, ok := next.(LevelMenuModel)
	if !ok {
		return m, cmd
	}
	m.levelMenu = &lm

	switch {
	case lm.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case lm.WantsBack():
		m.levelMenu = nil
		m.selected = nil
		return m, nil
	}
	if id, ok := lm.Selected(); ok {
		m.levelID = id
		m.levelChosen = true
		return m, tea.Quit
	}
	return m, cmd
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		selected := m.items[m.cursor]
		m.selected = &selected
		if levels := levelsOf(selected.GameID); len(levels) > 0 {
			lm := NewLevelMenuModel(strings.ToUpper(selected.Title), levels, m.width, m.height)
			m.levelMenu = &lm
			return m, nil
		}
		return m, tea.Quit

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// levelsOf returns the level list of a game, or nil if it has none.
func levelsOf(gameID string) []registry.LevelInfo {
	g, err := registry.Create(gameID)
	if err != nil {
		return nil
	}
	if sel, ok := g.(registry.LevelSelector); ok {
		return sel.Levels()
	}
	return nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	if m.levelMenu != nil {
		return m.levelMenu.View()
	}

	theme := CurrentTheme()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(theme.MenuTitle.Render("R O C K F A L L"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(theme.MenuDescription.Render("Dig for diamonds. Mind the boulders."), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = theme.MenuItemActive
		}
		b.WriteString(centerText(style.Render(cursor+item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(theme.MenuControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Done reports whether a game (and its level, if it has a list) was chosen.
func (m MenuModel) Done() bool {
	return m.selected != nil && (m.levelMenu == nil || m.levelChosen)
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, measuring printable cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	LevelID         string // Empty to start from the beginning
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result summarizes the final menu state.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting() || !m.Done():
		result.Quit = true
	default:
		result.GameID = m.selected.GameID
		result.LevelID = m.levelID
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
