package core

// RuntimeConfig is passed to games at reset time.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second (default 60)
	Seed     int64  // RNG seed for training policies
	MapPath  string // Level file to load; empty means the first bundled level
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the coarse status the platform layer needs after each tick.
type GameState struct {
	Frame     int     // Ticks since the current attempt started
	Deaths    int     // Deaths since the map was loaded
	Elapsed   float64 // Run timer in seconds
	Paused    bool    // Pause menu open
	Completed bool    // Level-complete screen shown (human path)
	GameOver  bool    // Session is over and the platform may leave the game
}

// StepResult is returned by Game.Step after each simulation tick.
type StepResult struct {
	State        GameState
	Events       []string // Sound triggers emitted this tick
	EpisodeEnded bool     // Training path: an episode finished this tick
}
