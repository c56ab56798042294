package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascent/internal/platform/tui"
	"github.com/vovakirdan/ascent/internal/progress"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the numbered maps",
	Long:  `Shows the maps in the maps directory with their best times and lock state.`,
	RunE:  runMaps,
}

func runMaps(_ *cobra.Command, _ []string) error {
	logger := newLogger("ascent")

	catalog := openCatalog(logger)
	if catalog == nil {
		fmt.Printf("No maps directory at %s.\n", flagMapsDir)
		fmt.Println("Run 'ascent map new' to create the first map.")
		return nil
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	tracker, err := progress.Open(progress.AppName)
	if err != nil {
		logger.Warn("could not load progress", "error", err)
	}

	items := tui.MapItems(catalog, store, tracker)
	if len(items) <= 1 {
		fmt.Printf("No maps in %s.\n", flagMapsDir)
		return nil
	}

	fmt.Printf("Maps in %s:\n\n", catalog.Dir())
	fmt.Printf("  %-10s  %-10s  %s\n", "Map", "Best", "File")
	fmt.Printf("  %-10s  %-10s  %s\n", "---", "----", "----")
	for _, it := range items {
		best := it.Best
		switch {
		case it.Locked:
			best = "locked"
		case best == "":
			best = "-"
		}
		file := it.Path
		if file == "" {
			file = "(built in)"
		}
		fmt.Printf("  %-10s  %-10s  %s\n", it.Title, best, file)
	}
	fmt.Println()
	fmt.Println("Run 'ascent play <number>' to play a map.")
	return nil
}
