package config

import (
	_ "embed"
)

//go:embed defaults/ascent.yaml
var defaultAscentYAML []byte

// DefaultPhysicsConfig returns the tuned movement constants.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		PlayerSpeed:    0.8,
		JumpSpeed:      14,
		WallSlideSpeed: 0.7,
		WallJumpX:      9,
		WallJumpY:      12,
		GravityUp:      0.55,
		GravityDown:    0.3,
		Acceleration:   0.001,
		Deceleration:   0.1,
		MaxXSpeed:      8,
		SuperMaxXSpeed: 12,
		MaxYSpeed:      11,

		WallMomentumPreserve: 0.15,
		WallMomentumFrames:   3,
		SetbackFrames:        8,
		SetbackDecay:         0.15,
		CoyoteFrames:         4,
		GraceFrames:          40,

		AnticipationFrames: 3,
		PeakFrames:         6,
		LandingFrames:      8,
	}
}

// DefaultAscentConfig returns the hardcoded configuration, used when neither
// a file nor the embedded YAML can be read.
func DefaultAscentConfig() AscentConfig {
	return AscentConfig{
		TileSize: ReferenceTileSize,
		Physics:  DefaultPhysicsConfig(),
		Timing: TimingConfig{
			DeathDelay:       120,
			FinishDelay:      90,
			TrainDeathDelay:  0,
			TrainFinishDelay: 30,
			InputBuffer:      5,
			JumpHold:         30,
		},
		Spikes: SpikeConfig{
			Width:  0.8,
			Height: 0.25,
		},
		Training: TrainingConfig{
			MaxEpisodeFrames: 3600,
		},
		Rewards: RewardConfig{
			Death:          -100,
			Finish:         1000,
			TimeBonus:      100,
			ProgressWeight: 0.01,
			StepPenalty:    0.1,
		},
		Camera: CameraConfig{
			Smoothing: 8,
		},
	}
}
