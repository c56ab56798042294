// Package training drives the "ascent_train" path without a terminal: a
// policy picks a discrete action each frame and the episode ends on death,
// on the finish or after a frame limit.
package training

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent"
	"github.com/vovakirdan/ascent/internal/storage"
)

// Action bits as understood by ascent.DecodeAction.
const (
	actLeft  = 1 << 0
	actRight = 1 << 1
	actJump  = 1 << 2
)

// Policy chooses the next action from an observation.
type Policy interface {
	Name() string
	Act(obs ascent.Observation) int
}

// RandomPolicy picks uniformly from the action space.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy seeds a random policy. The same seed replays the same
// actions.
func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (p *RandomPolicy) Name() string { return "random" }

func (p *RandomPolicy) Act(ascent.Observation) int {
	return p.rng.IntN(ascent.ActionSpaceSize)
}

// RightPolicy runs right and jumps whenever it stands on the ground. The
// jump bit is dropped in the air so every landing can jump again.
type RightPolicy struct{}

func (RightPolicy) Name() string { return "right" }

func (RightPolicy) Act(obs ascent.Observation) int {
	if obs.Grounded {
		return actRight | actJump
	}
	return actRight
}

// NewPolicy returns the policy called name.
func NewPolicy(name string, seed int64) (Policy, error) {
	switch name {
	case "random":
		return NewRandomPolicy(seed), nil
	case "right":
		return RightPolicy{}, nil
	}
	return nil, fmt.Errorf("training: unknown policy %q", name)
}

// Result describes one finished episode.
type Result struct {
	Steps   int
	Reward  float64
	Outcome storage.Outcome
	Elapsed float64 // run clock in seconds at the end
}

// RunEpisode plays one episode on g, which must be in training mode and
// already reset. Step rewards are summed until the body dies, finishes or
// maxFrames pass; the terminal reward is counted once. The game is then
// stepped through its reset so the next episode starts on the spawner.
func RunEpisode(g *ascent.Game, p Policy, maxFrames int) Result {
	var res Result
	idle := core.NewInputFrame()

	for {
		g.SetInput(ascent.DecodeAction(p.Act(g.Observe())))
		g.Step(idle)
		res.Steps++
		res.Reward += g.Reward()

		if g.Done() {
			res.Outcome = storage.OutcomeFinish
			if g.Observe().Dead {
				res.Outcome = storage.OutcomeDeath
			}
			break
		}
		if maxFrames > 0 && res.Steps >= maxFrames {
			res.Outcome = storage.OutcomeTimeout
			break
		}
	}
	res.Elapsed = g.Elapsed().Seconds()

	if res.Outcome == storage.OutcomeTimeout {
		g.Restart()
		return res
	}
	// Let the game run its own death or finish delay.
	g.SetInput(ascent.DecodeAction(0))
	for guard := 0; guard < 10_000; guard++ {
		if g.Step(idle).EpisodeEnded {
			break
		}
	}
	return res
}

// Recorder receives every finished episode.
type Recorder interface {
	SaveEpisode(e storage.Episode) (int64, error)
}

// Config controls a batch of episodes.
type Config struct {
	MapKey    string
	Episodes  int
	MaxFrames int
	Seed      int64
}

// Run plays cfg.Episodes episodes, passing each to onEpisode and rec when
// they are not nil. It stops early when ctx is cancelled.
func Run(ctx context.Context, g *ascent.Game, p Policy, cfg Config, rec Recorder, onEpisode func(n int, r Result)) ([]Result, error) {
	if g.Mode() != ascent.ModeTrain {
		return nil, fmt.Errorf("training: game must be in %s mode", ascent.ModeTrain)
	}

	results := make([]Result, 0, max(cfg.Episodes, 0))
	for n := range cfg.Episodes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r := RunEpisode(g, p, cfg.MaxFrames)
		results = append(results, r)

		if rec != nil {
			_, err := rec.SaveEpisode(storage.Episode{
				MapID:   cfg.MapKey,
				Policy:  p.Name(),
				Seed:    cfg.Seed,
				Steps:   r.Steps,
				Reward:  r.Reward,
				Outcome: r.Outcome,
			})
			if err != nil {
				return results, fmt.Errorf("training: record episode %d: %w", n, err)
			}
		}
		if onEpisode != nil {
			onEpisode(n, r)
		}
	}
	return results, nil
}
