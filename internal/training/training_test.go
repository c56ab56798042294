package training

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
	"github.com/vovakirdan/ascent/internal/storage"
)

const ts = tilemap.DefaultTileSize

func runway(finishX int) *tilemap.Tilemap {
	m := tilemap.New(ts)
	for x := -2; x < 30; x++ {
		m.Place(tilemap.NewTile(tilemap.KindGrass, 0, tilemap.GridPos{X: x, Y: 2}))
	}
	m.Place(tilemap.NewTile(tilemap.KindSpawners, 0, tilemap.GridPos{X: 1, Y: 1}))
	if finishX > 0 {
		m.PlaceMulti(tilemap.KindFinish, 0, tilemap.GridPos{X: finishX, Y: 0})
	}
	m.RecomputeLowestY()
	return m
}

func void() *tilemap.Tilemap {
	m := tilemap.New(ts)
	m.Place(tilemap.NewTile(tilemap.KindSpawners, 0, tilemap.GridPos{X: 0, Y: 0}))
	return m
}

func trainGame(level *tilemap.Tilemap) *ascent.Game {
	g := ascent.New(ascent.ModeTrain)
	g.Reset(core.DefaultConfig())
	g.SetLevel(level, "")
	return g
}

type memRecorder struct {
	episodes []storage.Episode
}

func (r *memRecorder) SaveEpisode(e storage.Episode) (int64, error) {
	r.episodes = append(r.episodes, e)
	return int64(len(r.episodes)), nil
}

func TestNewPolicy(t *testing.T) {
	for _, name := range []string{"random", "right"} {
		p, err := NewPolicy(name, 1)
		if err != nil {
			t.Fatalf("NewPolicy(%q) failed: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("Name() = %q, want %q", p.Name(), name)
		}
	}
	if _, err := NewPolicy("greedy", 1); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}

func TestRightPolicyJumpsOnlyWhenGrounded(t *testing.T) {
	p := RightPolicy{}
	if got := ascent.DecodeAction(p.Act(ascent.Observation{Grounded: true})); !got.Right || !got.Jump || got.Left {
		t.Errorf("grounded action = %+v", got)
	}
	if got := ascent.DecodeAction(p.Act(ascent.Observation{})); !got.Right || got.Jump {
		t.Errorf("airborne action = %+v", got)
	}
}

func TestRandomPolicyInRange(t *testing.T) {
	p := NewRandomPolicy(42)
	seen := make(map[int]bool)
	for range 1000 {
		a := p.Act(ascent.Observation{})
		if a < 0 || a >= ascent.ActionSpaceSize {
			t.Fatalf("action %d out of range", a)
		}
		seen[a] = true
	}
	if len(seen) != ascent.ActionSpaceSize {
		t.Errorf("only %d of %d actions drawn", len(seen), ascent.ActionSpaceSize)
	}
}

func TestEpisodeDeath(t *testing.T) {
	g := trainGame(void())
	r := RunEpisode(g, RightPolicy{}, 10_000)

	if r.Outcome != storage.OutcomeDeath {
		t.Fatalf("Outcome = %s, want death", r.Outcome)
	}
	if r.Steps == 0 || r.Steps >= 10_000 {
		t.Errorf("Steps = %d", r.Steps)
	}
	if g.Done() {
		t.Error("game should be reset for the next episode")
	}
	if g.State().Deaths != 1 {
		t.Errorf("Deaths = %d, want 1", g.State().Deaths)
	}
}

func TestEpisodeFinish(t *testing.T) {
	g := trainGame(runway(6))
	r := RunEpisode(g, RightPolicy{}, 10_000)

	if r.Outcome != storage.OutcomeFinish {
		t.Fatalf("Outcome = %s, want finish", r.Outcome)
	}
	// The finish bonus is counted once on top of the step rewards.
	if r.Reward < 1000 || r.Reward > 1200 {
		t.Errorf("Reward = %v, want one finish bonus", r.Reward)
	}
	if g.Done() {
		t.Error("game should be reset after the finish delay")
	}
}

func TestEpisodeTimeout(t *testing.T) {
	g := trainGame(runway(0))
	r := RunEpisode(g, RightPolicy{}, 50)

	if r.Outcome != storage.OutcomeTimeout {
		t.Fatalf("Outcome = %s, want timeout", r.Outcome)
	}
	if r.Steps != 50 {
		t.Errorf("Steps = %d, want 50", r.Steps)
	}
	if g.State().Frame != 0 {
		t.Errorf("Frame = %d after timeout, want a fresh attempt", g.State().Frame)
	}
}

func TestRunRecordsEpisodes(t *testing.T) {
	g := trainGame(void())
	rec := &memRecorder{}
	var seen []int

	results, err := Run(context.Background(), g, NewRandomPolicy(3),
		Config{MapKey: "void", Episodes: 3, MaxFrames: 2000, Seed: 3},
		rec, func(n int, _ Result) { seen = append(seen, n) })
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(results) != 3 || len(rec.episodes) != 3 {
		t.Fatalf("got %d results and %d records", len(results), len(rec.episodes))
	}
	if !slices.Equal(seen, []int{0, 1, 2}) {
		t.Errorf("callbacks = %v", seen)
	}
	for _, e := range rec.episodes {
		if e.MapID != "void" || e.Policy != "random" || e.Seed != 3 {
			t.Errorf("unexpected record %+v", e)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	play := func() []Result {
		g := trainGame(runway(20))
		res, err := Run(context.Background(), g, NewRandomPolicy(7),
			Config{Episodes: 3, MaxFrames: 300}, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := play(), play()
	if !slices.Equal(a, b) {
		t.Errorf("same seed gave different episodes:\n%v\n%v", a, b)
	}
}

func TestRunRejectsHumanMode(t *testing.T) {
	g := ascent.New(ascent.ModeHuman)
	g.Reset(core.DefaultConfig())
	if _, err := Run(context.Background(), g, RightPolicy{}, Config{Episodes: 1}, nil, nil); err == nil {
		t.Error("expected an error for a human-mode game")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := trainGame(void())
	res, err := Run(ctx, g, RightPolicy{}, Config{Episodes: 5}, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(res) != 0 {
		t.Errorf("ran %d episodes after cancel", len(res))
	}
}
