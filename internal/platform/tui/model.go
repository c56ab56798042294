package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent"
	"github.com/vovakirdan/ascent/internal/games/ascent/clock"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/progress"
	"github.com/vovakirdan/ascent/internal/storage"
)

// Options wires persistence and map navigation into the play model. Every
// field may be left empty.
type Options struct {
	Store    *storage.Store
	Progress *progress.Tracker
	Catalog  *levels.Catalog
	Logger   *log.Logger

	// Watch reloads the map when its file changes on disk.
	Watch bool

	// Embedded is set when the model runs inside a SessionModel, which
	// decides when the program ends.
	Embedded bool
}

// Model is the Bubble Tea model for playing one map at a time.
type Model struct {
	game      *ascent.Game
	screen    *core.Screen
	config    core.RuntimeConfig
	opts      Options
	keyMapper *KeyMapper

	// Terminals report key presses but no releases, so a movement key
	// counts as held for a few frames after each press or repeat.
	held  map[core.Action]int
	pulse core.InputFrame

	// rejump drops jump for one frame so a press after the apex is seen
	// as a new jump rather than a continued hold.
	rejump bool

	menu      overlay
	gameState core.GameState
	watcher   *MapWatcher
	runSaved  bool // whether the current completion has been recorded

	quitting   bool
	backToMenu bool
}

// NewModel creates a play model for game. cfg.MapPath selects the map.
func NewModel(game *ascent.Game, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	m := Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		opts:      opts,
		keyMapper: NewKeyMapper(),
		held:      make(map[core.Action]int),
		pulse:     core.NewInputFrame(),
	}
	m.watch(cfg.MapPath)
	return m
}

// Init loads the map and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.rememberMap()
	return tea.Batch(tickCmd(m.config.TickRate), waitForChange(m.watcher))
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		m.game.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()

	case mapChangedMsg:
		if err := m.game.Reload(); err != nil {
			m.opts.Logger.Warn("map reload failed", "path", msg.path, "error", err)
		} else {
			m.opts.Logger.Debug("map reloaded", "path", msg.path)
			m.menu = overlay{}
			m.runSaved = false
		}
		return m, waitForChange(m.watcher)

	case watchErrMsg:
		m.opts.Logger.Warn("map watcher", "error", msg.err)
		return m, waitForChange(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if m.menu.kind != overlayNone {
		return m.handleMenuKey(msg)
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.quit()
	}
	switch {
	case IsMovement(action):
		m.hold(action)
	case action != core.ActionNone:
		m.pulse.Set(action)
	}
	return m, nil
}

// hold marks a movement action as held. Pressing one direction releases the
// other. Jump stays held for the whole ascent, since terminals repeat keys
// too slowly to keep it down and a release cuts the jump short.
func (m *Model) hold(a core.Action) {
	timing := m.game.Config().Timing
	frames := timing.InputBuffer
	if a == core.ActionJump {
		frames = timing.JumpHold
		if m.held[a] > 0 && m.game.Body() != nil && m.game.Body().Velocity().Y >= 0 {
			m.rejump = true
		}
	}
	m.held[a] = max(frames, 1)
	switch a {
	case core.ActionLeft:
		delete(m.held, core.ActionRight)
	case core.ActionRight:
		delete(m.held, core.ActionLeft)
	}
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m.quit()
	case MenuActionUp:
		m.menu.up()
	case MenuActionDown:
		m.menu.down()
	case MenuActionSelect:
		return m.apply(m.menu.selected())
	case MenuActionBack:
		if m.menu.kind == overlayPause {
			return m.apply(itemResume)
		}
	}
	return m, nil
}

// apply runs a menu entry.
func (m Model) apply(item overlayItem) (tea.Model, tea.Cmd) {
	switch item {
	case itemResume:
		m.game.Resume()
		m.menu = overlay{}
	case itemRestart:
		m.game.Restart()
		m.resetRun()
	case itemReplay:
		m.game.Reset(m.config)
		m.resetRun()
	case itemNextMap:
		if id, ok := m.mapID(); ok && m.opts.Catalog != nil {
			next, found, err := m.opts.Catalog.Next(id)
			if err != nil || !found {
				m.opts.Logger.Warn("no next map", "after", id, "error", err)
				return m, nil
			}
			return m, m.loadMap(next)
		}
	case itemFromStart:
		if m.opts.Catalog != nil {
			ids, err := m.opts.Catalog.List()
			if err != nil || len(ids) == 0 {
				m.opts.Logger.Warn("no maps to restart from", "error", err)
				return m, nil
			}
			return m, m.loadMap(ids[0])
		}
	case itemMaps:
		m.backToMenu = true
		if !m.opts.Embedded {
			return m, tea.Quit
		}
	case itemQuit:
		return m.quit()
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return m, tea.Quit
}

// loadMap switches to catalog map id. The returned command listens to a
// new file watcher, if one was started.
func (m *Model) loadMap(id int) tea.Cmd {
	path, err := m.opts.Catalog.Path(id)
	if err != nil {
		m.opts.Logger.Warn("cannot load map", "id", id, "error", err)
		return nil
	}
	m.config.MapPath = path
	m.game.Reset(m.config)
	if err := m.game.Err(); err != nil {
		m.opts.Logger.Warn("map failed to load", "path", path, "error", err)
	}
	m.resetRun()
	m.rememberMap()
	if m.watch(path) {
		return waitForChange(m.watcher)
	}
	return nil
}

func (m *Model) resetRun() {
	m.menu = overlay{}
	m.runSaved = false
	clear(m.held)
	m.rejump = false
	m.pulse.Clear()
}

// watch points the file watcher at path, replacing any previous watcher.
// It reports whether a new watcher was started.
func (m *Model) watch(path string) bool {
	if !m.opts.Watch || path == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if m.watcher != nil {
		if m.watcher.Path() == abs {
			return false
		}
		_ = m.watcher.Close()
		m.watcher = nil
	}
	w, err := NewMapWatcher(path)
	if err != nil {
		m.opts.Logger.Warn("cannot watch map", "path", path, "error", err)
		return false
	}
	m.watcher = w
	return true
}

// rememberMap records the map being played in the progress tracker.
func (m *Model) rememberMap() {
	if m.opts.Progress == nil {
		return
	}
	if id, ok := m.mapID(); ok {
		if err := m.opts.Progress.SetLast(id); err != nil {
			m.opts.Logger.Warn("cannot save progress", "error", err)
		}
	}
}

// mapID returns the catalog id of the current map.
func (m Model) mapID() (int, bool) {
	if m.game.MapPath() == "" {
		return 0, false
	}
	return levels.ParseName(m.game.MapPath())
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	frame := m.frame()
	result := m.game.Step(frame)
	m.gameState = result.State
	m.release()

	switch {
	case m.gameState.Paused && m.menu.kind == overlayNone:
		m.menu = pauseOverlay()
	case !m.gameState.Paused && m.menu.kind == overlayPause:
		m.menu = overlay{}
	}

	if m.gameState.Completed && !m.runSaved {
		m.complete()
	}

	return m, tickCmd(m.config.TickRate)
}

// frame collects this tick's input. Nothing reaches the game while a menu
// is open.
func (m Model) frame() core.InputFrame {
	in := core.NewInputFrame()
	if m.menu.kind != overlayNone {
		return in
	}
	for a, n := range m.held {
		if n > 0 && !(a == core.ActionJump && m.rejump) {
			in.Set(a)
		}
	}
	for a, on := range m.pulse.Actions {
		if on {
			in.Set(a)
		}
	}
	return in
}

// release ages held keys and drops one-frame actions.
func (m *Model) release() {
	for a := range m.held {
		m.held[a]--
		if m.held[a] <= 0 {
			delete(m.held, a)
		}
	}
	m.rejump = false
	m.pulse.Clear()
}

// complete records a finished run and opens the level-complete menu.
func (m *Model) complete() {
	m.runSaved = true
	elapsed := m.game.Elapsed()
	key := levels.Key(m.game.MapPath())

	lines := []string{
		"Time    " + clock.Format(elapsed),
		"Deaths  " + strconv.Itoa(m.gameState.Deaths),
	}

	if m.opts.Store != nil {
		best, ok, err := m.opts.Store.BestTime(key)
		if err != nil {
			m.opts.Logger.Warn("cannot read best time", "map", key, "error", err)
		}
		if _, err := m.opts.Store.SaveRun(key, elapsed, m.gameState.Deaths); err != nil {
			m.opts.Logger.Warn("cannot save run", "map", key, "error", err)
		}
		if !ok || elapsed < best {
			lines = append(lines, "New best time!")
		} else {
			lines = append(lines, "Best    "+clock.Format(best))
		}
	}

	id, hasID := m.mapID()
	if hasID && m.opts.Progress != nil {
		if err := m.opts.Progress.MarkCompleted(id); err != nil {
			m.opts.Logger.Warn("cannot save progress", "error", err)
		}
	}

	if !hasID || m.opts.Catalog == nil {
		m.menu = completeOverlay(lines)
		m.menu.items = []overlayItem{itemReplay, itemMaps, itemQuit}
		return
	}
	last, err := m.opts.Catalog.IsLast(id)
	if err != nil {
		m.opts.Logger.Warn("cannot list maps", "error", err)
	}
	if last {
		m.menu = congratsOverlay(lines)
	} else {
		m.menu = completeOverlay(lines)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)
	m.menu.draw(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".ascent", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.opts.Logger.Warn("cannot create screenshot dir", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", levels.Key(m.game.MapPath()), timestamp)
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.opts.Logger.Warn("cannot save screenshot", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
	m.menu.draw(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if the player asked to leave the program.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if the player asked for the map picker.
func (m Model) BackToMenu() bool { return m.backToMenu }

// Close releases the file watcher.
func (m Model) Close() {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}

// PlayResult is how a Run ended.
type PlayResult struct {
	BackToMenu bool
	MapPath    string // the map on screen when the program ended
}

// Run plays cfg.MapPath until the player quits or asks for the map picker.
func Run(game *ascent.Game, cfg core.RuntimeConfig, opts Options) (PlayResult, error) {
	opts.Embedded = false
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	model.Close()
	if err != nil {
		return PlayResult{}, err
	}

	m, ok := final.(Model)
	if !ok {
		return PlayResult{}, nil
	}
	m.Close()
	return PlayResult{BackToMenu: m.BackToMenu(), MapPath: m.game.MapPath()}, nil
}
