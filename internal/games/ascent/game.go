// Package ascent wires the tile map, the player body and the run clock into
// a registry.Game. The same simulation serves two paths: "ascent" for people
// at a terminal and "ascent_train" for headless agents, which differ only in
// delays, camera behaviour and where input comes from.
package ascent

import (
	"fmt"
	"time"

	"github.com/vovakirdan/ascent/internal/config"
	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/clock"
	"github.com/vovakirdan/ascent/internal/games/ascent/player"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
	"github.com/vovakirdan/ascent/internal/registry"
)

// Registry IDs.
const (
	IDHuman = "ascent"
	IDTrain = "ascent_train"
)

// Mode selects the human or the training path.
type Mode int

const (
	ModeHuman Mode = iota
	ModeTrain
)

func (m Mode) String() string {
	if m == ModeTrain {
		return "train"
	}
	return "human"
}

// ParseMode accepts "human" or "train".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "human", "":
		return ModeHuman, nil
	case "train":
		return ModeTrain, nil
	}
	return ModeHuman, fmt.Errorf("ascent: unknown mode %q", s)
}

func init() {
	registry.Register(IDHuman, func() registry.Game { return New(ModeHuman) })
	registry.Register(IDTrain, func() registry.Game { return New(ModeTrain) })
}

// Spawn position used when a map has no spawner.
var fallbackSpawn = core.Vec{X: 10, Y: 10}

// Game is one play session on one map.
type Game struct {
	mode   Mode
	cfg    config.AscentConfig
	phys   config.PhysicsConfig
	rc     core.RuntimeConfig
	glyphs Glyphs

	level   *tilemap.Tilemap
	mapPath string
	loadErr error

	body  *player.Body
	input player.Input

	clock     *clock.Clock
	virtual   time.Time // frame-driven time source for the training path
	finalTime time.Duration
	started   bool

	frame       int
	countFrames int // frames since death or finish
	deaths      int

	paused    bool
	completed bool
	debug     bool

	cam core.Vec // top-left of the viewport in world pixels
}

// New creates a game with the default configuration.
func New(mode Mode) *Game {
	return NewWithConfig(mode, config.DefaultAscentConfig())
}

// NewWithConfig creates a game with cfg. Physics values are scaled to the
// configured tile size.
func NewWithConfig(mode Mode, cfg config.AscentConfig) *Game {
	g := &Game{
		mode:   mode,
		glyphs: DefaultGlyphs(),
		rc:     core.DefaultConfig(),
	}
	g.Configure(cfg)
	if mode == ModeTrain {
		g.virtual = time.Unix(0, 0)
		g.clock = clock.New(func() time.Time { return g.virtual })
	} else {
		g.clock = clock.New(nil)
	}
	return g
}

// Configure replaces the configuration. It takes effect on the next map load.
func (g *Game) Configure(cfg config.AscentConfig) {
	g.cfg = cfg
	g.phys = cfg.Physics.Scaled(cfg.TileSize)
}

// ID returns the registry id of the game's mode.
func (g *Game) ID() string {
	if g.mode == ModeTrain {
		return IDTrain
	}
	return IDHuman
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeTrain {
		return "Ascent (training)"
	}
	return "Ascent"
}

// Mode returns the path this game runs on.
func (g *Game) Mode() Mode { return g.mode }

// Config returns the active configuration.
func (g *Game) Config() config.AscentConfig { return g.cfg }

// Resize changes the viewport without restarting the attempt.
func (g *Game) Resize(w, h int) {
	g.rc.ScreenW = w
	g.rc.ScreenH = h
	g.snapCamera()
}

// Reset starts a fresh attempt. A new cfg.MapPath is loaded first; when
// loading fails the built-in practice map is used and Err reports why.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rc = cfg
	if cfg.MapPath != "" && cfg.MapPath != g.mapPath {
		if err := g.LoadFile(cfg.MapPath); err != nil {
			g.loadErr = err
		}
	}
	if g.level == nil {
		g.SetLevel(PracticeLevel(g.cfg.TileSize), "")
	}
	g.deaths = 0
	g.restart()
}

// LoadFile loads a map from disk and puts the body on its spawner.
func (g *Game) LoadFile(path string) error {
	m, err := tilemap.LoadFile(path, g.cfg.TileSize)
	if err != nil {
		return err
	}
	g.SetLevel(m, path)
	g.loadErr = nil
	return nil
}

// SetLevel swaps in an already loaded map. path is informational.
func (g *Game) SetLevel(m *tilemap.Tilemap, path string) {
	m.SetSpikeSize(g.cfg.Spikes.Width, g.cfg.Spikes.Height)
	g.level = m
	g.mapPath = path

	spawn, ok := m.SpawnPoint()
	if !ok {
		spawn = fallbackSpawn
	}
	ts := m.TileSize()
	g.body = player.New(spawn, ts, ts, g.phys)
	g.restart()
}

// Reload re-reads the current map file, keeping the death count. It is used
// when the file changes on disk.
func (g *Game) Reload() error {
	if g.mapPath == "" {
		return nil
	}
	deaths := g.deaths
	if err := g.LoadFile(g.mapPath); err != nil {
		return fmt.Errorf("ascent: reload %s: %w", g.mapPath, err)
	}
	g.deaths = deaths
	return nil
}

// restart puts the body back on the spawner and clears the run.
func (g *Game) restart() {
	if g.body == nil {
		return
	}
	g.body.Reset()
	g.input = player.Input{}
	g.countFrames = 0
	g.frame = 0
	g.paused = false
	g.completed = false
	g.started = false
	g.finalTime = 0
	g.clock.Reset()
	g.snapCamera()
}

// Step advances the session by one frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.body == nil {
		return core.StepResult{State: g.State()}
	}
	if g.mode == ModeTrain {
		g.virtual = g.virtual.Add(g.frameDuration())
	} else if done := g.handleHumanInput(in); done {
		return core.StepResult{State: g.State()}
	}

	g.updateClock()

	var res core.StepResult
	switch {
	case g.body.Dead():
		g.countFrames++
		if g.countFrames >= g.deathDelay() {
			g.restart()
			res.EpisodeEnded = g.mode == ModeTrain
			res.State = g.State()
			return res
		}
	case g.body.Finished():
		g.countFrames++
		if g.countFrames >= g.finishDelay() {
			if g.mode == ModeTrain {
				g.restart()
				res.EpisodeEnded = true
				res.State = g.State()
				return res
			}
			g.completed = true
		}
	}

	if !g.paused && !g.completed {
		g.frame++
		for _, ev := range g.body.Update(g.level, g.input, g.countFrames) {
			if ev == player.EventDeath {
				g.deaths++
			}
			res.Events = append(res.Events, string(ev))
		}
		g.followCamera()
	}

	res.State = g.State()
	return res
}

// handleHumanInput maps platform actions. It reports whether the frame was
// consumed by a restart.
func (g *Game) handleHumanInput(in core.InputFrame) bool {
	if in.Has(core.ActionDebug) {
		g.debug = !g.debug
	}
	if in.Has(core.ActionRestart) {
		g.restart()
		return true
	}
	if in.Has(core.ActionPause) && !g.body.Dead() && !g.body.Finished() {
		g.paused = !g.paused
	}
	if g.paused {
		g.input = player.Input{}
		return false
	}
	g.input = player.Input{
		Left:  in.Has(core.ActionLeft),
		Right: in.Has(core.ActionRight),
		Jump:  in.Has(core.ActionJump),
	}
	return false
}

// Resume closes the pause menu.
func (g *Game) Resume() { g.paused = false }

// Restart begins a new attempt on the current map.
func (g *Game) Restart() { g.restart() }

// updateClock starts timing on the first movement key, pauses with the menu
// and stops on the finish.
func (g *Game) updateClock() {
	if !g.started && (g.input.Left || g.input.Right || g.input.Jump) {
		g.started = true
		g.clock.Start()
	}
	if g.mode == ModeHuman {
		switch {
		case g.paused && !g.clock.Paused():
			g.clock.Pause()
		case !g.paused && g.clock.Paused() && !g.body.Dead() && !g.body.Finished():
			g.clock.Resume()
		}
	}
	if g.body.Finished() && g.clock.Running() {
		g.finalTime = g.clock.Stop()
	}
	g.clock.Update()
}

func (g *Game) frameDuration() time.Duration {
	rate := g.rc.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

func (g *Game) deathDelay() int {
	if g.mode == ModeTrain {
		return g.cfg.Timing.TrainDeathDelay
	}
	return g.cfg.Timing.DeathDelay
}

func (g *Game) finishDelay() int {
	if g.mode == ModeTrain {
		return g.cfg.Timing.TrainFinishDelay
	}
	return g.cfg.Timing.FinishDelay
}

// viewport returns the visible world area in pixels. One tile takes two
// columns and one row; the top row is the HUD.
func (g *Game) viewport() core.Vec {
	ts := float64(g.level.TileSize())
	return core.Vec{
		X: float64(g.rc.ScreenW) / 2 * ts,
		Y: float64(max(g.rc.ScreenH-1, 1)) * ts,
	}
}

func (g *Game) cameraTarget() core.Vec {
	return g.body.Center().Sub(g.viewport().Scale(0.5))
}

func (g *Game) snapCamera() {
	if g.level == nil || g.body == nil {
		return
	}
	g.cam = g.cameraTarget()
}

// followCamera eases toward the body for people and snaps for agents.
func (g *Game) followCamera() {
	target := g.cameraTarget()
	if g.mode == ModeTrain || g.cfg.Camera.Smoothing <= 1 {
		g.cam = target
		return
	}
	g.cam = g.cam.Add(target.Sub(g.cam).Scale(1 / g.cfg.Camera.Smoothing))
}

// State returns the coarse session state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Frame:     g.frame,
		Deaths:    g.deaths,
		Elapsed:   g.Elapsed().Seconds(),
		Paused:    g.paused,
		Completed: g.completed,
	}
}

// Elapsed returns the run time, frozen once the map is finished.
func (g *Game) Elapsed() time.Duration {
	if g.body != nil && g.body.Finished() && !g.clock.Running() {
		return g.finalTime
	}
	return g.clock.Elapsed()
}

// Body exposes the player for rendering and inspection.
func (g *Game) Body() *player.Body { return g.body }

// Level returns the loaded map.
func (g *Game) Level() *tilemap.Tilemap { return g.level }

// MapPath returns the file the map was loaded from, empty for built-in maps.
func (g *Game) MapPath() string { return g.mapPath }

// Err returns the last map load error, if any.
func (g *Game) Err() error { return g.loadErr }

// Debug reports whether the hitbox overlay is on.
func (g *Game) Debug() bool { return g.debug }

// Camera returns the viewport origin in world pixels.
func (g *Game) Camera() core.Vec { return g.cam }
