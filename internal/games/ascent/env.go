package ascent

import (
	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/player"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

// ActionSpaceSize is the number of discrete agent actions: every combination
// of left, right and jump.
const ActionSpaceSize = 8

// FeatureCount is the length of Normalized.
const FeatureCount = 12

// Observation is what an agent sees after a step.
type Observation struct {
	Center     core.Vec // hitbox center in world pixels
	Velocity   core.Vec
	Grounded   bool
	AirTime    int
	Collisions player.Collisions
	Finished   bool
	Dead       bool
	Solids     []core.Rect
	Hazards    []tilemap.Interactive
	Camera     core.Vec
}

// Observe snapshots the body and its surroundings.
func (g *Game) Observe() Observation {
	b := g.body
	cx, cy := b.Rect().Center()
	return Observation{
		Center:     core.Vec{X: float64(cx), Y: float64(cy)},
		Velocity:   b.Velocity(),
		Grounded:   b.Grounded(),
		AirTime:    b.AirTime(),
		Collisions: b.Collisions(),
		Finished:   b.Finished(),
		Dead:       b.Dead(),
		Solids:     g.level.PhysicsRectsAround(b.Pos()),
		Hazards:    g.level.InteractiveRectsAround(b.Pos()),
		Camera:     g.cam,
	}
}

// Normalized flattens the observation into FeatureCount values, each roughly
// in [-1, 1]: position, velocity, grounded, air time, the four collision
// sides, finished and dead.
func (g *Game) Normalized() []float64 {
	o := g.Observe()
	out := make([]float64, 0, FeatureCount)
	out = append(out,
		o.Center.X/1000,
		o.Center.Y/1000,
		core.ClampF(o.Velocity.X/10, -1, 1),
		core.ClampF(o.Velocity.Y/10, -1, 1),
		flag(o.Grounded),
		min(1, float64(o.AirTime)/60),
		flag(o.Collisions.Up),
		flag(o.Collisions.Down),
		flag(o.Collisions.Left),
		flag(o.Collisions.Right),
		flag(o.Finished),
		flag(o.Dead),
	)
	return out
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Reward scores the current frame: a penalty on death, a bonus with a time
// component on finish, and otherwise a small pull to the right minus a step
// cost.
func (g *Game) Reward() float64 {
	r := g.cfg.Rewards
	switch {
	case g.body.Dead():
		return r.Death
	case g.body.Finished():
		return r.Finish + max(0, r.TimeBonus-g.Elapsed().Seconds())
	}
	return g.body.Pos().X*r.ProgressWeight - r.StepPenalty
}

// Done reports whether the episode has reached a terminal frame.
func (g *Game) Done() bool {
	return g.body.Dead() || g.body.Finished()
}

// ActionSpaceSize returns the number of discrete actions.
func (g *Game) ActionSpaceSize() int { return ActionSpaceSize }

// DecodeAction maps an action index to keys: bit 0 is left, bit 1 right,
// bit 2 jump. Indices outside the action space decode to no input.
func DecodeAction(a int) player.Input {
	if a < 0 || a >= ActionSpaceSize {
		return player.Input{}
	}
	return player.Input{
		Left:  a&1 != 0,
		Right: a&2 != 0,
		Jump:  a&4 != 0,
	}
}

// SetInput sets the keys held on the next Step of the training path.
func (g *Game) SetInput(in player.Input) {
	if g.mode == ModeTrain {
		g.input = in
	}
}
