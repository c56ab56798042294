package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/clock"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/progress"
	"github.com/vovakirdan/ascent/internal/storage"
)

// MapItem is one entry of the map picker.
type MapItem struct {
	Key    string // storage key
	Title  string
	Path   string // empty for the practice map
	Locked bool
	Best   string // formatted best time, empty if never finished
}

// MenuModel is the Bubble Tea model for the map picker.
type MenuModel struct {
	items     []MapItem
	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MapItem
	openTimes bool
}

// NewMenuModel lists the catalog maps followed by the practice map. Maps past
// the player's progress are locked. catalog, store and tracker may be nil.
func NewMenuModel(catalog *levels.Catalog, store *storage.Store, tracker *progress.Tracker, cfg core.RuntimeConfig) MenuModel {
	items := MapItems(catalog, store, tracker)

	cursor := 0
	if tracker != nil {
		last := levels.Key(levels.Name(tracker.Progress().Last))
		for i, it := range items {
			if it.Key == last && !it.Locked {
				cursor = i
			}
		}
	}

	return MenuModel{
		items:     items,
		cursor:    cursor,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// MapItems builds the picker entries.
func MapItems(catalog *levels.Catalog, store *storage.Store, tracker *progress.Tracker) []MapItem {
	p := progress.Fresh()
	if tracker != nil {
		p = tracker.Progress()
	}

	var items []MapItem
	if catalog != nil {
		ids, err := catalog.List()
		if err == nil {
			for _, id := range ids {
				path, err := catalog.Path(id)
				if err != nil {
					continue
				}
				items = append(items, MapItem{
					Key:    levels.Key(path),
					Title:  fmt.Sprintf("Map %d", id),
					Path:   path,
					Locked: !p.Unlocked(id),
				})
			}
		}
	}
	items = append(items, MapItem{Key: levels.PracticeKey, Title: "Practice"})

	if store != nil {
		for i := range items {
			if best, ok, err := store.BestTime(items[i].Key); err == nil && ok {
				items[i].Best = clock.Format(best)
			}
		}
	}
	return items
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
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
		if len(m.items) > 0 && !m.items[m.cursor].Locked {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionTimes:
		m.openTimes = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  A S C E N T  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a map", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		status := item.Best
		if item.Locked {
			status = "locked"
		} else if status == "" {
			status = "--:--.---"
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, item.Title, status)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Times  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected map, or nil if none was selected.
func (m MenuModel) Selected() *MapItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsTimes returns true if user requested the best-times table.
func (m MenuModel) WantsTimes() bool {
	return m.openTimes
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	MapPath    string
	Config     core.RuntimeConfig
	WantsTimes bool
	Quit       bool
}

// RunMenu runs the map picker and returns the selection result.
func RunMenu(catalog *levels.Catalog, store *storage.Store, tracker *progress.Tracker, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(catalog, store, tracker, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsTimes():
		result.WantsTimes = true
	case m.Selected() != nil:
		result.MapPath = m.Selected().Path
	default:
		result.Quit = true
	}
	return result, nil
}
