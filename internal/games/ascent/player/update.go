package player

import (
	"math"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

// Velocities at or below this magnitude do not move the body.
const moveEpsilon = 0.01

// Vertical speed band treated as the top of a jump.
const peakBand = 1.0

// Horizontal speed above which the body shows the run animation.
const runThreshold = 0.5

// Update advances the body by one frame. deathFrames is the number of frames
// the caller has counted since the body died; once it passes the grace
// window the body is frozen.
func (b *Body) Update(q TileQuery, in Input, deathFrames int) []Event {
	var events []Event

	if q.IsBelowMap(b.pos.Y) {
		if !b.dead {
			events = append(events, EventDeath)
		}
		b.dead = true
		b.vel = core.Vec{}
		b.action = ActionDeath
		return events
	}
	if b.finished || deathFrames > b.phys.GraceFrames {
		return nil
	}
	if b.dead {
		b.vel = core.Vec{}
		return nil
	}

	b.wasGrounded = b.grounded
	prevWall := b.wallContact
	b.collisions = Collisions{}

	b.tickSetback()
	b.integrateX(in)
	b.integrateY(in)
	b.moveX(q)
	b.moveY(q)

	if b.touchInteractive(q, &events) {
		return events
	}

	switch {
	case in.Right && !in.Left:
		b.facingRight = true
	case in.Left && !in.Right:
		b.facingRight = false
	}

	c := b.collisions
	if !prevWall && ((c.Right && b.facingRight) || (c.Left && !b.facingRight)) {
		events = append(events, EventWallCollide)
	}
	b.wallContact = c.Wall()

	b.airTime++
	if c.Down {
		b.airTime = 0
	}
	b.grounded = b.airTime <= b.phys.CoyoteFrames

	if b.grounded && !b.wasGrounded && b.vel.Y >= 0 {
		events = append(events, EventLand)
		b.setJumpState(JumpLanding)
		b.setback = Setback{}
	}

	wallJumped := b.handleJump(in, &events)
	b.advanceJumpState()
	if !wallJumped {
		b.wallSlide(prevWall)
	}

	// Releasing jump while rising cuts the jump short.
	if !in.Jump && b.vel.Y < 0 {
		b.vel.Y = 0
	}

	b.action = b.selectAction()
	return events
}

func (b *Body) tickSetback() {
	if b.setback.Frames <= 0 {
		return
	}
	b.setback.Frames--
	if b.setback.Frames == 0 {
		b.setback = Setback{}
	}
}

func (b *Body) integrateX(in Input) {
	dir := 0.0
	if in.Right {
		dir++
	}
	if in.Left {
		dir--
	}

	// Reversing on the ground drops the old momentum at once.
	if b.grounded && dir != 0 && b.vel.X != 0 && core.Sign(b.vel.X) != dir {
		b.vel.X = 0
	}

	if b.setback.Active() {
		strength := float64(b.setback.Frames) / float64(b.phys.SetbackFrames)
		force := b.setback.Direction * b.phys.WallJumpX * strength * b.phys.SetbackDecay
		if !b.grounded {
			force *= 0.5
		}
		b.vel.X += force
	} else {
		b.vel.X += dir * b.phys.PlayerSpeed
	}

	if dir == 0 {
		b.vel.X *= 1 - b.phys.Deceleration
	} else {
		b.vel.X *= 1 - b.phys.Acceleration
	}

	limit := b.phys.MaxXSpeed
	if b.setback.SuperSpeed {
		limit = b.phys.SuperMaxXSpeed
	}
	b.vel.X = core.ClampF(b.vel.X, -limit, limit)
}

func (b *Body) integrateY(in Input) {
	g := b.phys.GravityUp
	if b.vel.Y > 0 && in.Jump {
		g = b.phys.GravityDown
	}
	b.vel.Y = core.ClampF(b.vel.Y+g, -b.phys.MaxYSpeed, b.phys.MaxYSpeed)
}

// moveX applies horizontal velocity and resolves against the first
// overlapping solid rect only. Fast bodies can catch on corners this way.
func (b *Body) moveX(q TileQuery) {
	if math.Abs(b.vel.X) <= moveEpsilon {
		return
	}
	b.pos.X += b.vel.X
	r := b.Rect()
	for _, solid := range q.PhysicsRectsAround(b.pos) {
		if !r.Intersects(solid) {
			continue
		}
		if b.vel.X > 0 {
			r.SetRight(solid.X)
			b.collisions.Right = true
		} else {
			r.X = solid.Right()
			b.collisions.Left = true
		}
		b.pos.X = float64(r.X)
		b.vel.X = 0
		return
	}
}

func (b *Body) moveY(q TileQuery) {
	if math.Abs(b.vel.Y) <= moveEpsilon {
		return
	}
	b.pos.Y += b.vel.Y
	r := b.Rect()
	for _, solid := range q.PhysicsRectsAround(b.pos) {
		if !r.Intersects(solid) {
			continue
		}
		if b.vel.Y > 0 {
			r.SetBottom(solid.Y)
			b.collisions.Down = true
		} else {
			r.Y = solid.Bottom()
			b.collisions.Up = true
		}
		b.pos.Y = float64(r.Y)
		b.vel.Y = 0
		return
	}
}

// touchInteractive reports whether a hazard killed the body.
func (b *Body) touchInteractive(q TileQuery, events *[]Event) bool {
	r := b.Rect()
	for _, it := range q.InteractiveRectsAround(b.pos) {
		if !r.Intersects(it.Rect) {
			continue
		}
		if it.Lethal() {
			b.dead = true
			b.vel = core.Vec{}
			b.action = ActionDeath
			*events = append(*events, EventDeath)
			return true
		}
		if it.Kind == tilemap.KindFinish && !b.finished {
			b.finished = true
			*events = append(*events, EventFinish)
		}
	}
	return false
}

// handleJump starts a jump on a fresh press. It reports whether the jump was
// a wall jump.
func (b *Body) handleJump(in Input, events *[]Event) bool {
	if !in.Jump {
		b.jumpReady = true
		return false
	}
	if !b.jumpReady {
		return false
	}
	b.jumpReady = false

	c := b.collisions
	if !b.grounded && c.Left != c.Right {
		b.vel.Y = -b.phys.WallJumpY
		if c.Right {
			b.vel.X = -b.phys.WallJumpX
			b.setback = Setback{Frames: b.phys.SetbackFrames, Direction: -1, SuperSpeed: true}
			*events = append(*events, EventWallJumpRight)
		} else {
			b.vel.X = b.phys.WallJumpX
			b.setback = Setback{Frames: b.phys.SetbackFrames, Direction: 1, SuperSpeed: true}
			*events = append(*events, EventWallJumpLeft)
		}
		b.setJumpState(JumpRising)
		return true
	}

	if b.grounded {
		b.vel.Y = -b.phys.JumpSpeed
		b.airTime = b.phys.CoyoteFrames + 1
		b.grounded = false
		b.collisions.Down = false
		b.setJumpState(JumpAnticipation)
		*events = append(*events, EventJump)
	}
	return false
}

func (b *Body) setJumpState(s JumpState) {
	if b.jumpState != s {
		b.jumpState = s
		b.jumpStateTimer = 0
	}
}

// advanceJumpState runs the timed phases first. Anticipation and landing
// hold until their timers expire; otherwise an airborne body is classified
// by vertical speed.
func (b *Body) advanceJumpState() {
	switch b.jumpState {
	case JumpAnticipation:
		b.jumpStateTimer++
		if b.jumpStateTimer <= b.phys.AnticipationFrames {
			return
		}
		b.setJumpState(JumpRising)
	case JumpLanding:
		b.jumpStateTimer++
		if b.jumpStateTimer > b.phys.LandingFrames {
			b.setJumpState(JumpNone)
		}
		return
	}

	if b.grounded {
		return
	}
	switch vy := b.vel.Y; {
	case vy < -peakBand:
		b.setJumpState(JumpRising)
	case vy > peakBand:
		b.setJumpState(JumpFalling)
	default:
		if b.jumpState == JumpFalling {
			return
		}
		b.setJumpState(JumpPeak)
		b.jumpStateTimer++
		if b.jumpStateTimer > b.phys.PeakFrames {
			b.setJumpState(JumpFalling)
		}
	}
}

// wallSlide damps a rising body for a few frames after it meets a wall and
// caps the descent speed afterwards.
func (b *Body) wallSlide(prevWall bool) {
	if b.grounded || !b.collisions.Wall() {
		return
	}
	if !prevWall {
		b.wallFrames = 0
		b.wallMomentum = b.vel.Y < 0
	}
	b.wallFrames++

	if b.wallMomentum && b.wallFrames <= b.phys.WallMomentumFrames {
		b.vel.Y *= b.phys.WallMomentumPreserve
		return
	}
	b.wallMomentum = false
	if b.vel.Y > 0 {
		b.vel.Y = math.Min(b.phys.WallSlideSpeed, b.vel.Y)
	}
}

func (b *Body) selectAction() Action {
	c := b.collisions
	switch {
	case b.dead:
		return ActionDeath
	case b.finished:
		return ActionFinish
	case c.Wall() && b.vel.Y > 0 && !b.grounded:
		return ActionWallSlide
	case c.Wall():
		return ActionWallCollide
	case b.jumpState != JumpNone:
		return jumpActions[b.jumpState]
	case math.Abs(b.vel.X) > runThreshold:
		return ActionRun
	}
	return ActionIdle
}
