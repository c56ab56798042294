// Package player implements the kinematic body the level is played with:
// fixed-step velocity integration, axis-separated tile collision, jumps,
// wall jumps and wall slides, and the death and finish transitions.
//
// The body knows nothing about rendering, audio or input devices. Each call to
// Update advances exactly one frame and returns the events that frame raised.
package player

import (
	"github.com/vovakirdan/ascent/internal/config"
	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

// TileQuery is the level lookup the body collides against.
type TileQuery interface {
	PhysicsRectsAround(pos core.Vec) []core.Rect
	InteractiveRectsAround(pos core.Vec) []tilemap.Interactive
	IsBelowMap(y float64) bool
}

// Body is the player's physical state.
type Body struct {
	phys  config.PhysicsConfig
	spawn core.Vec
	w, h  int

	pos        core.Vec
	vel        core.Vec
	collisions Collisions

	airTime     int
	grounded    bool
	wasGrounded bool
	facingRight bool
	jumpReady   bool
	dead        bool
	finished    bool

	wallContact    bool // touched a wall during the previous frame
	wallFrames     int
	wallMomentum   bool
	setback        Setback
	jumpState      JumpState
	jumpStateTimer int
	action         Action
}

// New creates a body at spawn. Width and height are the hitbox in pixels.
func New(spawn core.Vec, w, h int, phys config.PhysicsConfig) *Body {
	b := &Body{phys: phys, spawn: spawn, w: w, h: h}
	b.Reset()
	return b
}

// Reset returns the body to its spawn state.
func (b *Body) Reset() {
	*b = Body{
		phys:        b.phys,
		spawn:       b.spawn,
		w:           b.w,
		h:           b.h,
		pos:         b.spawn,
		grounded:    true,
		wasGrounded: true,
		facingRight: true,
		jumpReady:   true,
		action:      ActionRun,
	}
}

// SetSpawn moves the spawn point. It takes effect on the next Reset.
func (b *Body) SetSpawn(p core.Vec) {
	b.spawn = p
}

// Pos returns the authoritative float position of the hitbox's top-left.
func (b *Body) Pos() core.Vec { return b.pos }

// Velocity returns the current velocity in pixels per frame.
func (b *Body) Velocity() core.Vec { return b.vel }

// Collisions returns the sides that hit a solid tile this frame.
func (b *Body) Collisions() Collisions { return b.collisions }

// Grounded reports whether the body counts as standing (coyote time included).
func (b *Body) Grounded() bool { return b.grounded }

// AirTime returns the number of frames since the last floor contact.
func (b *Body) AirTime() int { return b.airTime }

// Dead reports whether the body has died.
func (b *Body) Dead() bool { return b.dead }

// Finished reports whether the body has reached the finish.
func (b *Body) Finished() bool { return b.finished }

// FacingRight reports the direction the body is facing.
func (b *Body) FacingRight() bool { return b.facingRight }

// Action returns the animation chosen by the last update.
func (b *Body) Action() Action { return b.action }

// JumpState returns the current jump animation phase.
func (b *Body) JumpState() JumpState { return b.jumpState }

// Setback returns the wall-jump push state.
func (b *Body) Setback() Setback { return b.setback }

// Size returns the hitbox dimensions.
func (b *Body) Size() (int, int) { return b.w, b.h }

// Rect returns the integer hitbox. Coordinates are rounded half to even.
func (b *Body) Rect() core.Rect {
	return core.NewRect(core.RoundHalfEven(b.pos.X), core.RoundHalfEven(b.pos.Y), b.w, b.h)
}

// Center returns the center of the hitbox in world pixels.
func (b *Body) Center() core.Vec {
	return core.Vec{X: b.pos.X + float64(b.w)/2, Y: b.pos.Y + float64(b.h)/2}
}
