package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/registry"
	"github.com/vovakirdan/ascent/internal/storage"
	"github.com/vovakirdan/ascent/internal/training"
)

var (
	flagEpisodes int
	flagPolicy   string
	flagSeed     int64
	flagHistory  int
	flagNoSave   bool
)

var trainCmd = &cobra.Command{
	Use:   "train [map]",
	Short: "Run training episodes headlessly",
	Long: `Run episodes of the training path without a terminal. A built-in policy
drives the player; every episode is logged and saved to the database.

Episodes end on death, on the finish or after training.max_episode_frames.
The run clock follows simulation frames, so a seed replays exactly.

Policies:
  random - uniform over the 8 actions (seeded)
  right  - run right, jump whenever grounded

Examples:
  ascent train 0 --episodes 50
  ascent train ./maps/tower.json --policy right
  ascent train 0 --episodes 1000 --policy random --seed 7 --log-level warn
  ascent train --history 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagEpisodes, "episodes", 10, "Number of episodes to run")
	trainCmd.Flags().StringVar(&flagPolicy, "policy", "random", "Policy: random, right")
	trainCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Policy seed (0 = training.seed from config)")
	trainCmd.Flags().IntVar(&flagHistory, "history", 0, "Print the N most recent episodes and exit")
	trainCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record episodes in the database")
}

func runTrain(_ *cobra.Command, args []string) error {
	logger := newLogger("train")
	cfg := loadConfig(logger)

	if flagHistory > 0 {
		return printHistory(flagHistory)
	}

	mapPath := ""
	if len(args) == 1 {
		p, err := resolveMap(args[0], openCatalog(logger))
		if err != nil {
			return err
		}
		mapPath = p
	}

	g, err := registry.Create(ascent.IDTrain)
	if err != nil {
		return err
	}
	game, ok := g.(*ascent.Game)
	if !ok {
		return errors.New("training game has an unexpected type")
	}
	game.Configure(cfg)

	rc := core.DefaultConfig()
	rc.TickRate = flagFPS
	rc.MapPath = mapPath
	game.Reset(rc)
	if err := game.Err(); err != nil {
		return fmt.Errorf("load map: %w", err)
	}

	seed := flagSeed
	if seed == 0 {
		seed = cfg.Training.Seed
	}
	policy, err := training.NewPolicy(flagPolicy, seed)
	if err != nil {
		return err
	}

	var rec training.Recorder
	var store *storage.Store
	if !flagNoSave {
		store = openStore(logger)
		if store != nil {
			defer store.Close()
			rec = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapKey := levels.Key(mapPath)
	logger.Info("training", "map", mapKey, "policy", policy.Name(), "seed", seed, "episodes", flagEpisodes)

	results, err := training.Run(ctx, game, policy, training.Config{
		MapKey:    mapKey,
		Episodes:  flagEpisodes,
		MaxFrames: cfg.Training.MaxEpisodeFrames,
		Seed:      seed,
	}, rec, func(n int, r training.Result) {
		logger.Info("episode",
			"n", n+1,
			"outcome", r.Outcome,
			"steps", r.Steps,
			"reward", fmt.Sprintf("%.2f", r.Reward),
		)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	var finishes, deaths int
	var total float64
	for _, r := range results {
		total += r.Reward
		switch r.Outcome {
		case storage.OutcomeFinish:
			finishes++
		case storage.OutcomeDeath:
			deaths++
		}
	}
	if len(results) > 0 {
		logger.Info("done",
			"episodes", len(results),
			"finishes", finishes,
			"deaths", deaths,
			"avg_reward", fmt.Sprintf("%.2f", total/float64(len(results))),
		)
	}

	if store != nil {
		if sum, err := store.EpisodeSummary(mapKey); err == nil && sum.Episodes > 0 {
			logger.Info("all time",
				"map", mapKey,
				"episodes", sum.Episodes,
				"finishes", sum.Finishes,
				"best_reward", fmt.Sprintf("%.2f", sum.BestReward),
				"avg_steps", fmt.Sprintf("%.0f", sum.AvgSteps),
			)
		}
	}
	return nil
}

// printHistory lists the latest recorded episodes.
func printHistory(n int) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	episodes, err := store.RecentEpisodes(n)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Println("No training episodes recorded yet.")
		return nil
	}

	fmt.Printf("  %-6s  %-10s  %-8s  %-8s  %6s  %10s  %s\n", "ID", "Map", "Policy", "Outcome", "Steps", "Reward", "Date")
	for _, e := range episodes {
		fmt.Printf("  %-6d  %-10s  %-8s  %-8s  %6d  %10.2f  %s\n",
			e.ID, e.MapID, e.Policy, e.Outcome, e.Steps, e.Reward, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
