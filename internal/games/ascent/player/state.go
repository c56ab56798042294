package player

// Event is a one-shot side effect of a frame, usually mapped to a sound.
type Event string

const (
	EventJump          Event = "jump"
	EventLand          Event = "land"
	EventWallJumpLeft  Event = "wall_jump_left"  // jumped off a wall on the left
	EventWallJumpRight Event = "wall_jump_right" // jumped off a wall on the right
	EventWallCollide   Event = "wall_collide"
	EventDeath         Event = "death"
	EventFinish        Event = "finish"
)

// JumpState is the animation phase of a jump. It never feeds back into
// physics.
type JumpState uint8

const (
	JumpNone JumpState = iota
	JumpAnticipation
	JumpRising
	JumpPeak
	JumpFalling
	JumpLanding
)

func (s JumpState) String() string {
	switch s {
	case JumpAnticipation:
		return "anticipation"
	case JumpRising:
		return "rising"
	case JumpPeak:
		return "peak"
	case JumpFalling:
		return "falling"
	case JumpLanding:
		return "landing"
	}
	return "none"
}

// Action is the animation the body should show this frame.
type Action string

const (
	ActionIdle             Action = "idle"
	ActionRun              Action = "run"
	ActionDeath            Action = "death"
	ActionFinish           Action = "finish"
	ActionWallSlide        Action = "wallslide"
	ActionWallCollide      Action = "wallcollide"
	ActionJumpAnticipation Action = "jump_anticipation"
	ActionJumpRising       Action = "jump_rising"
	ActionJumpPeak         Action = "jump_peak"
	ActionJumpFalling      Action = "jump_falling"
	ActionJumpLanding      Action = "jump_landing"
)

var jumpActions = [...]Action{
	JumpAnticipation: ActionJumpAnticipation,
	JumpRising:       ActionJumpRising,
	JumpPeak:         ActionJumpPeak,
	JumpFalling:      ActionJumpFalling,
	JumpLanding:      ActionJumpLanding,
}

// Input is the held state of the three movement keys for one frame.
type Input struct {
	Left, Right, Jump bool
}

// Collisions records which sides of the hitbox hit a solid tile this frame.
type Collisions struct {
	Up, Down, Left, Right bool
}

// Wall reports whether either side touched a wall.
func (c Collisions) Wall() bool {
	return c.Left || c.Right
}

// Setback describes the push away from a wall after a wall jump.
type Setback struct {
	Frames     int     // frames left, 0 when inactive
	Direction  float64 // -1 pushes left, 1 pushes right
	SuperSpeed bool    // raised horizontal cap in effect
}

// Active reports whether the push is still being applied.
func (s Setback) Active() bool {
	return s.Frames > 0
}
