package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/ascent/internal/config"
	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

// stubLevel implements TileQuery with explicit rect lists so each test
// controls exactly what the body can touch.
type stubLevel struct {
	solids  []core.Rect
	hazards []tilemap.Interactive
	bottom  float64 // IsBelowMap threshold; 0 disables it
}

func (s *stubLevel) PhysicsRectsAround(core.Vec) []core.Rect { return s.solids }

func (s *stubLevel) InteractiveRectsAround(core.Vec) []tilemap.Interactive { return s.hazards }

func (s *stubLevel) IsBelowMap(y float64) bool { return s.bottom > 0 && y > s.bottom }

const tile = 36

var phys = config.DefaultPhysicsConfig()

func newBody(x, y float64) *Body {
	return New(core.Vec{X: x, Y: y}, tile, tile, phys)
}

// floor is a wide solid strip whose top edge is at y.
func floor(y int) core.Rect {
	return core.NewRect(-10*tile, y, 100*tile, tile)
}

func run(b *Body, q TileQuery, in Input, frames int) []Event {
	var all []Event
	for range frames {
		all = append(all, b.Update(q, in, 0)...)
	}
	return all
}

// =============================================================================
// Horizontal movement
// =============================================================================

func TestGroundedAccelerationNeverOvershoots(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)

	prev := 0.0
	for frame := range 60 {
		b.Update(level, Input{Right: true}, 0)
		vx := b.Velocity().X
		require.LessOrEqual(t, vx, phys.MaxXSpeed, "frame %d", frame)
		require.GreaterOrEqual(t, vx, prev, "frame %d: velocity decreased", frame)
		require.True(t, b.Grounded(), "frame %d: body left the floor", frame)
		prev = vx
	}
	assert.Equal(t, phys.MaxXSpeed, prev)
	assert.Equal(t, 0.0, b.Pos().Y)
	assert.Equal(t, ActionRun, b.Action())
}

func TestReleaseDecaysVelocity(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)
	run(b, level, Input{Right: true}, 20)

	prev := b.Velocity().X
	for range 30 {
		b.Update(level, Input{}, 0)
		vx := b.Velocity().X
		require.Less(t, vx, prev)
		require.GreaterOrEqual(t, vx, 0.0)
		prev = vx
	}
	assert.Equal(t, ActionIdle, b.Action())
}

func TestSharpReversalSnapsOnGround(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(200, 0)
	run(b, level, Input{Right: true}, 20)
	require.Equal(t, phys.MaxXSpeed, b.Velocity().X)

	b.Update(level, Input{Left: true}, 0)

	want := -phys.PlayerSpeed * (1 - phys.Acceleration)
	assert.InDelta(t, want, b.Velocity().X, 1e-9)
	assert.False(t, b.FacingRight())
}

// =============================================================================
// Vertical movement and jumping
// =============================================================================

func TestJumpFromGround(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)
	b.Update(level, Input{}, 0)
	require.True(t, b.Grounded())

	events := b.Update(level, Input{Jump: true}, 0)

	assert.Contains(t, events, EventJump)
	assert.Equal(t, -phys.JumpSpeed, b.Velocity().Y)
	assert.False(t, b.Grounded())
	assert.Equal(t, phys.CoyoteFrames+1, b.AirTime())
	assert.False(t, b.Collisions().Down)
	assert.Equal(t, JumpAnticipation, b.JumpState())
	assert.Equal(t, ActionJumpAnticipation, b.Action())
}

func TestHeldJumpDoesNotRetrigger(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)

	events := run(b, level, Input{Jump: true}, 120)
	jumps := 0
	for _, e := range events {
		if e == EventJump {
			jumps++
		}
	}
	assert.Equal(t, 1, jumps, "holding jump must only jump once")
	require.True(t, b.Grounded(), "body should have landed")

	b.Update(level, Input{}, 0)
	events = b.Update(level, Input{Jump: true}, 0)
	assert.Contains(t, events, EventJump, "releasing and pressing again jumps")
}

func TestShortHopCut(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)
	b.Update(level, Input{Jump: true}, 0)
	require.Less(t, b.Velocity().Y, 0.0)

	b.Update(level, Input{}, 0)
	assert.Equal(t, 0.0, b.Velocity().Y)
}

func TestAsymmetricGravity(t *testing.T) {
	level := &stubLevel{}

	held := newBody(0, 0)
	held.vel.Y = 2
	held.grounded, held.airTime = false, 10
	held.Update(level, Input{Jump: true}, 0)
	assert.InDelta(t, 2+phys.GravityDown, held.Velocity().Y, 1e-9)

	free := newBody(0, 0)
	free.vel.Y = 2
	free.Update(level, Input{}, 0)
	assert.InDelta(t, 2+phys.GravityUp, free.Velocity().Y, 1e-9)

	fall := newBody(0, 0)
	run(fall, level, Input{}, 200)
	assert.Equal(t, phys.MaxYSpeed, fall.Velocity().Y)
}

func TestCoyoteTime(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)
	b.Update(level, Input{}, 0)

	// The floor vanishes; the body keeps its jump for a few frames.
	level.solids = nil
	for frame := 1; frame < phys.CoyoteFrames; frame++ {
		b.Update(level, Input{}, 0)
		require.True(t, b.Grounded(), "frame %d", frame)
	}
	events := b.Update(level, Input{Jump: true}, 0)
	assert.Contains(t, events, EventJump)

	late := newBody(0, 0)
	late.Update(&stubLevel{solids: []core.Rect{floor(tile)}}, Input{}, 0)
	run(late, &stubLevel{}, Input{}, phys.CoyoteFrames)
	events = late.Update(&stubLevel{}, Input{Jump: true}, 0)
	assert.NotContains(t, events, EventJump)
}

func TestLandingEvent(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(5 * tile)}}
	b := newBody(0, 0)

	var events []Event
	for range 60 {
		events = append(events, b.Update(level, Input{}, 0)...)
		if b.Grounded() && b.Collisions().Down {
			break
		}
	}
	assert.Contains(t, events, EventLand)
	assert.Equal(t, JumpLanding, b.JumpState())
	assert.Equal(t, float64(4*tile), b.Pos().Y)

	// Landing lasts a fixed number of frames, then clears.
	run(b, level, Input{}, phys.LandingFrames)
	assert.Equal(t, JumpNone, b.JumpState())
	assert.Equal(t, ActionIdle, b.Action())
}

func TestJumpStateTimeline(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{floor(tile)}}
	b := newBody(0, 0)
	b.Update(level, Input{}, 0)

	b.Update(level, Input{Jump: true}, 0)
	for range phys.AnticipationFrames - 1 {
		b.Update(level, Input{Jump: true}, 0)
		require.Equal(t, JumpAnticipation, b.JumpState())
	}
	b.Update(level, Input{Jump: true}, 0)
	require.Equal(t, JumpRising, b.JumpState())

	seen := map[JumpState]bool{}
	for range 120 {
		b.Update(level, Input{Jump: true}, 0)
		seen[b.JumpState()] = true
		if b.JumpState() == JumpLanding {
			break
		}
	}
	assert.True(t, seen[JumpPeak], "jump should pass through the peak")
	assert.True(t, seen[JumpFalling], "jump should fall before landing")
	assert.True(t, seen[JumpLanding])
}

// =============================================================================
// Collision
// =============================================================================

func TestCollisionNonPenetration(t *testing.T) {
	wall := core.NewRect(3*tile, -5*tile, tile, 10*tile)
	level := &stubLevel{solids: []core.Rect{floor(tile), wall}}
	b := newBody(0, 0)

	for frame := range 60 {
		b.Update(level, Input{Right: true}, 0)
		require.False(t, b.Rect().Intersects(wall), "frame %d overlaps the wall", frame)
		require.False(t, b.Rect().Intersects(floor(tile)), "frame %d overlaps the floor", frame)
	}
	assert.Equal(t, float64(2*tile), b.Pos().X)
	assert.True(t, b.Collisions().Right)
	assert.Equal(t, ActionWallCollide, b.Action())
}

func TestCeilingBump(t *testing.T) {
	ceiling := core.NewRect(-tile, -2*tile, 3*tile, tile)
	level := &stubLevel{solids: []core.Rect{floor(tile), ceiling}}
	b := newBody(0, 0)
	b.Update(level, Input{}, 0)

	for range 10 {
		b.Update(level, Input{Jump: true}, 0)
		if b.Collisions().Up {
			break
		}
	}

	assert.True(t, b.Collisions().Up)
	assert.Equal(t, float64(-tile), b.Pos().Y)
	assert.Equal(t, 0.0, b.Velocity().Y)
}

// The X pass runs before the Y pass and stops at the first overlapping rect,
// so a falling body whose feet are already inside a tile's row hits the side
// of that tile instead of landing on it.
func TestAxisOrderCatchesCorners(t *testing.T) {
	ledge := core.NewRect(tile, 2*tile, tile, tile)
	level := &stubLevel{solids: []core.Rect{ledge}}
	b := newBody(0, 40)
	b.vel = core.Vec{X: 8, Y: 2}
	b.grounded = false

	b.Update(level, Input{Right: true}, 0)

	assert.True(t, b.Collisions().Right)
	assert.False(t, b.Collisions().Down)
	assert.Equal(t, 0.0, b.Pos().X)
}

func TestHitboxRoundsHalfToEven(t *testing.T) {
	b := newBody(2.5, 3.5)
	assert.Equal(t, core.NewRect(2, 4, tile, tile), b.Rect())
}

// =============================================================================
// Walls
// =============================================================================

// pressIntoWall leaves the body airborne with its right side on wall.
func pressIntoWall(t *testing.T, level *stubLevel, b *Body) {
	t.Helper()
	run(b, level, Input{Right: true}, phys.CoyoteFrames+4)
	require.False(t, b.Grounded())
	require.True(t, b.Collisions().Right)
}

func TestWallJump(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{core.NewRect(3*tile, -20*tile, tile, 40*tile)}}
	b := newBody(2*tile, 0)
	pressIntoWall(t, level, b)

	events := b.Update(level, Input{Right: true, Jump: true}, 0)

	assert.Contains(t, events, EventWallJumpRight)
	assert.Equal(t, core.Vec{X: -phys.WallJumpX, Y: -phys.WallJumpY}, b.Velocity())
	sb := b.Setback()
	assert.Equal(t, phys.SetbackFrames, sb.Frames)
	assert.Equal(t, -1.0, sb.Direction)
	assert.True(t, sb.SuperSpeed)
	assert.Equal(t, JumpRising, b.JumpState())
}

func TestWallJumpOffLeftWall(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{core.NewRect(-tile, -20*tile, tile, 40*tile)}}
	b := newBody(0, 0)
	run(b, level, Input{Left: true}, phys.CoyoteFrames+4)
	require.True(t, b.Collisions().Left)

	events := b.Update(level, Input{Left: true, Jump: true}, 0)
	assert.Contains(t, events, EventWallJumpLeft)
	assert.Equal(t, phys.WallJumpX, b.Velocity().X)
	assert.Equal(t, 1.0, b.Setback().Direction)
}

func TestSetbackDecaysAndExpires(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{core.NewRect(3*tile, -20*tile, tile, 40*tile)}}
	b := newBody(2*tile, 0)
	pressIntoWall(t, level, b)
	b.Update(level, Input{Right: true, Jump: true}, 0)

	prev := -b.Velocity().X
	for frame := 1; frame <= phys.SetbackFrames; frame++ {
		b.Update(level, Input{}, 0)
		speed := -b.Velocity().X
		require.Less(t, speed, prev, "frame %d: setback speed did not decay", frame)
		require.Greater(t, speed, 0.0)
		prev = speed

		if frame < phys.SetbackFrames {
			require.True(t, b.Setback().SuperSpeed, "frame %d: super cap dropped early", frame)
		}
	}
	assert.Equal(t, Setback{}, b.Setback(), "setback must clear exactly when the timer expires")
}

func TestSetbackIgnoresInput(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{core.NewRect(3*tile, -20*tile, tile, 40*tile)}}
	b := newBody(2*tile, 0)
	pressIntoWall(t, level, b)
	b.Update(level, Input{Right: true, Jump: true}, 0)

	b.Update(level, Input{Right: true}, 0)
	assert.Less(t, b.Velocity().X, -phys.MaxXSpeed/2, "holding toward the wall must not cancel the push")
}

func TestLandingClearsSetback(t *testing.T) {
	b := newBody(0, 0)
	b.setback = Setback{Frames: 5, Direction: -1, SuperSpeed: true}
	b.grounded = false
	b.airTime = 10

	b.Update(&stubLevel{solids: []core.Rect{floor(tile)}}, Input{}, 0)

	assert.True(t, b.Grounded())
	assert.Equal(t, Setback{}, b.Setback())
}

func TestWallSlideCapsDescent(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{core.NewRect(3*tile, -20*tile, tile, 40*tile)}}
	b := newBody(2*tile, 0)

	for frame := range 40 {
		b.Update(level, Input{Right: true}, 0)
		if frame > phys.CoyoteFrames+1 {
			require.LessOrEqual(t, b.Velocity().Y, phys.WallSlideSpeed, "frame %d", frame)
		}
	}
	assert.Equal(t, ActionWallSlide, b.Action())
}

func TestWallMomentumPreserve(t *testing.T) {
	wall := core.NewRect(tile, -20*tile, tile, 40*tile)
	level := &stubLevel{solids: []core.Rect{floor(tile), wall}}
	b := newBody(0, 0)
	b.Update(level, Input{}, 0)

	// Jumping while pushing against the wall damps the ascent instead of
	// cancelling it.
	b.Update(level, Input{Right: true, Jump: true}, 0)
	assert.InDelta(t, -phys.JumpSpeed*phys.WallMomentumPreserve, b.Velocity().Y, 1e-9)
	assert.Less(t, b.Velocity().Y, 0.0)
}

func TestWallCollideEventOnlyOnFirstContact(t *testing.T) {
	wall := core.NewRect(2*tile, -20*tile, tile, 40*tile)
	level := &stubLevel{solids: []core.Rect{floor(tile), wall}}
	b := newBody(0, 0)

	events := run(b, level, Input{Right: true}, 30)
	count := 0
	for _, e := range events {
		if e == EventWallCollide {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// =============================================================================
// Death and finish
// =============================================================================

func TestKillTile(t *testing.T) {
	level := &stubLevel{
		solids:  []core.Rect{floor(tile)},
		hazards: []tilemap.Interactive{{Rect: core.NewRect(20, 0, tile, tile), Kind: tilemap.KindKill}},
	}
	b := newBody(0, 0)

	events := b.Update(level, Input{Right: true}, 0)
	require.Contains(t, events, EventDeath)
	require.True(t, b.Dead())
	assert.Equal(t, core.Vec{}, b.Velocity())
	assert.Equal(t, ActionDeath, b.Action())

	pos := b.Pos()
	for frame := 1; frame <= phys.GraceFrames+10; frame++ {
		events := b.Update(level, Input{Right: true, Jump: true}, frame)
		require.Empty(t, events, "frame %d", frame)
		require.Equal(t, pos, b.Pos(), "frame %d", frame)
		require.Equal(t, core.Vec{}, b.Velocity(), "frame %d", frame)
	}
}

func TestSpikeKillsFromAbove(t *testing.T) {
	spikes := tilemap.Interactive{Rect: core.NewRect(4, 2*tile+27, 28, 9), Kind: tilemap.KindSpikes}
	level := &stubLevel{solids: []core.Rect{floor(3 * tile)}, hazards: []tilemap.Interactive{spikes}}
	b := newBody(0, 0)

	events := run(b, level, Input{}, 60)
	assert.Contains(t, events, EventDeath)
	assert.True(t, b.Dead())
}

func TestBelowMapKills(t *testing.T) {
	level := &stubLevel{bottom: 200}
	b := newBody(0, 0)

	events := run(b, level, Input{}, 60)
	deaths := 0
	for _, e := range events {
		if e == EventDeath {
			deaths++
		}
	}
	assert.Equal(t, 1, deaths)
	assert.True(t, b.Dead())
	assert.Equal(t, core.Vec{}, b.Velocity())
}

func TestFinishFreezesBody(t *testing.T) {
	gate := tilemap.Interactive{Rect: core.NewRect(60, -tile, tile, 2*tile), Kind: tilemap.KindFinish}
	level := &stubLevel{solids: []core.Rect{floor(tile)}, hazards: []tilemap.Interactive{gate}}
	b := newBody(0, 0)

	events := run(b, level, Input{Right: true}, 30)
	assert.Contains(t, events, EventFinish)
	assert.True(t, b.Finished())
	assert.False(t, b.Dead())
	assert.Equal(t, ActionFinish, b.Action())

	pos := b.Pos()
	assert.Empty(t, b.Update(level, Input{Right: true}, 0))
	assert.Equal(t, pos, b.Pos())
}

func TestResetRestoresSpawn(t *testing.T) {
	level := &stubLevel{bottom: 100}
	b := newBody(10, 20)
	run(b, level, Input{Right: true}, 30)
	require.True(t, b.Dead())

	b.Reset()
	assert.Equal(t, core.Vec{X: 10, Y: 20}, b.Pos())
	assert.Equal(t, core.Vec{}, b.Velocity())
	assert.False(t, b.Dead())
	assert.True(t, b.Grounded())
	assert.True(t, b.FacingRight())
	assert.Equal(t, Setback{}, b.Setback())
	assert.Equal(t, JumpNone, b.JumpState())
}

func TestDeterministicReplay(t *testing.T) {
	level := &stubLevel{solids: []core.Rect{
		floor(4 * tile),
		core.NewRect(8*tile, -10*tile, tile, 14*tile),
	}}
	inputs := make([]Input, 400)
	for i := range inputs {
		inputs[i] = Input{Right: i%90 < 70, Left: i%90 >= 80, Jump: i%37 < 12}
	}

	a, b := newBody(0, 0), newBody(0, 0)
	for i, in := range inputs {
		ea := a.Update(level, in, 0)
		eb := b.Update(level, in, 0)
		require.Equal(t, ea, eb, "frame %d events", i)
		require.Equal(t, a.Pos(), b.Pos(), "frame %d position", i)
		require.Equal(t, a.Velocity(), b.Velocity(), "frame %d velocity", i)
	}
}
