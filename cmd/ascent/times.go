package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascent/internal/games/ascent/clock"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/platform/tui"
	"github.com/vovakirdan/ascent/internal/storage"
)

var (
	flagClear bool
	flagTUI   bool
)

var timesCmd = &cobra.Command{
	Use:   "times [map]",
	Short: "Show best times",
	Long: `Display the ten fastest runs of a map, or a summary of every map.

The map is a number from the maps directory, a map file path or "practice".

Examples:
  ascent times
  ascent times 0
  ascent times practice
  ascent times 3 --clear
  ascent times --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimes,
}

func init() {
	timesCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all runs of the map")
	timesCmd.Flags().BoolVar(&flagTUI, "tui", false, "Browse times interactively")
}

func runTimes(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	key := ""
	if len(args) == 1 {
		key = mapKeyArg(args[0])
	}

	if flagTUI {
		logger := newLogger("ascent")
		items := tui.MapItems(openCatalog(logger), store, nil)
		rc := runtimeConfig()
		_, err := tui.RunTimes(store, items, key, rc.ScreenW, rc.ScreenH)
		return err
	}

	if key == "" {
		return printAllTimes(store)
	}

	if flagClear {
		if err := store.ClearRuns(key); err != nil {
			return err
		}
		fmt.Printf("Cleared runs of map %s.\n", key)
		return nil
	}

	runs, err := store.BestTimes(key, 10)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Printf("Best Times - map %s\n\n", key)
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'ascent play %s' to set the first time!\n", key)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "Rank", "Time", "Deaths", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %s\n", "----", "----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-10s  %-6d  %s\n", i+1, clock.Format(r.Time), r.Deaths, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.MapStats(key); err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Average: %s  Deaths: %d\n", stats.Runs, clock.Format(stats.Average), stats.Deaths)
	}
	return nil
}

// mapKeyArg maps a command argument to a storage key.
func mapKeyArg(arg string) string {
	if arg == levels.PracticeKey {
		return arg
	}
	if _, ok := levels.ParseName(arg + levels.Ext); ok {
		return levels.Key(arg + levels.Ext)
	}
	return levels.Key(arg)
}

func printAllTimes(store *storage.Store) error {
	all, err := store.AllMapStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fmt.Printf("  %-10s  %-10s  %-10s  %-5s  %-6s  %s\n", "Map", "Best", "Average", "Runs", "Deaths", "Last played")
	for _, k := range keys {
		s := all[k]
		fmt.Printf("  %-10s  %-10s  %-10s  %-5d  %-6d  %s\n",
			k, clock.Format(s.Best), clock.Format(s.Average), s.Runs, s.Deaths, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
