package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascent/internal/games/ascent"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/platform/tui"
	"github.com/vovakirdan/ascent/internal/progress"
)

var flagWatch bool

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play a map",
	Long: `Play a map in the terminal. The map is a number from the maps directory
or a path to a map file. Without a map the map picker opens.

Controls:
  A/D, Left/Right  - Run
  Space/W/Up       - Jump (hold for a higher jump)
  P/Esc            - Pause menu
  R                - Restart the map
  F3               - Toggle hitbox overlay
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Examples:
  ascent play
  ascent play 0
  ascent play ./maps/tower.json --watch=false
  ascent play 2 --config ./floaty.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagWatch, "watch", true, "Reload the map when its file changes")
}

func runPlay(_ *cobra.Command, args []string) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	cfg := loadConfig(logger)
	catalog := openCatalog(logger)

	mapPath := ""
	if len(args) == 1 {
		p, err := resolveMap(args[0], catalog)
		if err != nil {
			return err
		}
		mapPath = p
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	tracker, err := progress.Open(progress.AppName)
	if err != nil {
		logger.Warn("could not load progress", "error", err)
	}
	if tracker == nil {
		tracker = progress.NewTracker(nil)
	}

	opts := tui.Options{
		Store:    store,
		Progress: tracker,
		Catalog:  catalog,
		Logger:   logger,
		Watch:    flagWatch,
	}
	rc := runtimeConfig()
	pick := len(args) == 0

	for {
		if pick {
			res, err := tui.RunMenu(catalog, store, tracker, rc)
			if err != nil {
				return fmt.Errorf("map picker: %w", err)
			}
			rc = res.Config
			if res.Quit {
				return nil
			}
			if res.WantsTimes {
				items := tui.MapItems(catalog, store, nil)
				goBack, err := tui.RunTimes(store, items, levels.Key(mapPath), rc.ScreenW, rc.ScreenH)
				if err != nil {
					return fmt.Errorf("times: %w", err)
				}
				if !goBack {
					return nil
				}
				continue
			}
			mapPath = res.MapPath
		}

		rc.MapPath = mapPath
		game := ascent.NewWithConfig(ascent.ModeHuman, cfg)
		result, err := tui.Run(game, rc, opts)
		if err != nil {
			return fmt.Errorf("running game: %w", err)
		}
		if err := game.Err(); err != nil {
			logger.Warn("map failed to load, played the practice map", "path", mapPath, "error", err)
		}
		if !result.BackToMenu {
			return nil
		}
		mapPath = result.MapPath
		pick = true
	}
}
