// Package config provides YAML-based configuration for the platformer:
// physics constants, death/finish timing, hitbox sizes and the reward
// shaping used by the training path.
package config

// ReferenceTileSize is the tile size the physics constants are tuned for.
// Other tile sizes scale every distance and speed proportionally.
const ReferenceTileSize = 36

// AscentConfig contains all configuration for the game.
type AscentConfig struct {
	TileSize int            `yaml:"tile_size"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Timing   TimingConfig   `yaml:"timing"`
	Spikes   SpikeConfig    `yaml:"spikes"`
	Training TrainingConfig `yaml:"training"`
	Rewards  RewardConfig   `yaml:"rewards"`
	Camera   CameraConfig   `yaml:"camera"`
}

// PhysicsConfig holds the per-frame movement constants, in pixels per frame
// at ReferenceTileSize.
type PhysicsConfig struct {
	PlayerSpeed    float64 `yaml:"player_speed"`
	JumpSpeed      float64 `yaml:"jump_speed"`
	WallSlideSpeed float64 `yaml:"wallslide_speed"`
	WallJumpX      float64 `yaml:"walljump_x"`
	WallJumpY      float64 `yaml:"walljump_y"`
	GravityUp      float64 `yaml:"gravity_up"`
	GravityDown    float64 `yaml:"gravity_down"`
	Acceleration   float64 `yaml:"acceleration"` // velocity loss per frame while input is held
	Deceleration   float64 `yaml:"deceleration"` // velocity loss per frame with no input
	MaxXSpeed      float64 `yaml:"max_x_speed"`
	SuperMaxXSpeed float64 `yaml:"super_max_x_speed"`
	MaxYSpeed      float64 `yaml:"max_y_speed"`

	WallMomentumPreserve float64 `yaml:"wall_momentum_preserve"`
	WallMomentumFrames   int     `yaml:"wall_momentum_frames"`
	SetbackFrames        int     `yaml:"setback_frames"`
	SetbackDecay         float64 `yaml:"setback_decay"`
	CoyoteFrames         int     `yaml:"coyote_frames"`
	GraceFrames          int     `yaml:"grace_frames"`

	AnticipationFrames int `yaml:"anticipation_frames"`
	PeakFrames         int `yaml:"peak_frames"`
	LandingFrames      int `yaml:"landing_frames"`
}

// TimingConfig holds the delays between a death or finish and the reset.
type TimingConfig struct {
	DeathDelay       int `yaml:"death_delay"`
	FinishDelay      int `yaml:"finish_delay"`
	TrainDeathDelay  int `yaml:"train_death_delay"`
	TrainFinishDelay int `yaml:"train_finish_delay"`
	InputBuffer      int `yaml:"input_buffer"` // frames a key press counts as held
	JumpHold         int `yaml:"jump_hold"`    // same for jump, long enough to reach the apex
}

// SpikeConfig sets the spike hitbox as fractions of a tile.
type SpikeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// TrainingConfig controls headless episode runs.
type TrainingConfig struct {
	MaxEpisodeFrames int   `yaml:"max_episode_frames"`
	Seed             int64 `yaml:"seed"`
}

// RewardConfig shapes the per-step reward.
type RewardConfig struct {
	Death          float64 `yaml:"death"`
	Finish         float64 `yaml:"finish"`
	TimeBonus      float64 `yaml:"time_bonus"` // seconds subtracted from this on finish
	ProgressWeight float64 `yaml:"progress_weight"`
	StepPenalty    float64 `yaml:"step_penalty"`
}

// CameraConfig controls how the view follows the player.
type CameraConfig struct {
	Smoothing float64 `yaml:"smoothing"` // divisor of the remaining distance per frame
}

// Scaled returns the physics constants converted to the given tile size.
// Speeds, gravity and the acceleration/deceleration factors scale with the
// tile; frame counts and momentum factors are unchanged.
func (p PhysicsConfig) Scaled(tileSize int) PhysicsConfig {
	if tileSize <= 0 || tileSize == ReferenceTileSize {
		return p
	}
	k := float64(tileSize) / ReferenceTileSize
	p.PlayerSpeed *= k
	p.JumpSpeed *= k
	p.WallSlideSpeed *= k
	p.WallJumpX *= k
	p.WallJumpY *= k
	p.GravityUp *= k
	p.GravityDown *= k
	p.Acceleration *= k
	p.Deceleration *= k
	p.MaxXSpeed *= k
	p.SuperMaxXSpeed *= k
	p.MaxYSpeed *= k
	return p
}
