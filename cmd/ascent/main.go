// ascent is a precision platformer for the terminal with a headless training
// path for agents.
//
// Usage:
//
//	ascent maps                 - List the maps in the maps directory
//	ascent play [map]           - Play a map, or pick one from the menu
//	ascent train [map]          - Run training episodes without a terminal
//	ascent times [map]          - Show best times
//	ascent serve                - Start SSH server for remote play
//	ascent map new|autotile|import|info
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--db <path>         - Set database path (default: ~/.ascent/ascent.db)
//	--config <path>     - Custom ascent.yaml
//	--maps <dir>        - Directory of numbered maps (default: maps)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ascent/internal/config"
	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagDBPath   string
	flagConfig   string
	flagMapsDir  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ascent",
	Short: "Ascent - a precision platformer in your terminal",
	Long: `Ascent is a tile-based platformer with wall jumps, coyote time and a
run timer. The same simulation powers a headless training path for agents.

Available commands:
  maps     - List the numbered maps
  play     - Play a map
  train    - Run training episodes headlessly
  times    - View best times
  serve    - Start SSH server for remote play
  map      - Create, autotile, import and inspect map files

Examples:
  ascent play
  ascent play 3
  ascent play ./maps/tower.json
  ascent train 0 --episodes 100 --policy random --seed 7
  ascent map import level.tmx`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom ascent.yaml")
	rootCmd.PersistentFlags().StringVar(&flagMapsDir, "maps", "maps", "Directory of numbered maps")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mapCmd)
}

// newLogger creates the charm logger for command output.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
	}
	return logger
}

// fileLogger writes to ~/.ascent/ascent.log so logging does not draw over
// the game screen. It falls back to a discarding logger.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".ascent")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "ascent.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "ascent"})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger, func() { f.Close() }
}

// loadConfig reads the game configuration, warning and falling back to the
// defaults when a custom file is broken.
func loadConfig(logger *log.Logger) config.AscentConfig {
	cfg, err := config.LoadAscent(flagConfig)
	if err != nil {
		logger.Warn("using default configuration", "error", err)
	}
	return cfg
}

// openStore opens the runs database. Without it the game still works.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		return nil
	}
	return store
}

// openCatalog opens the maps directory, or returns nil if it is missing.
func openCatalog(logger *log.Logger) *levels.Catalog {
	catalog, err := levels.Open(flagMapsDir)
	if err != nil {
		logger.Debug("no maps directory", "dir", flagMapsDir, "error", err)
		return nil
	}
	return catalog
}

// resolveMap turns a map argument into a file path: a number is looked up
// in the catalog, anything else is taken as a path.
func resolveMap(arg string, catalog *levels.Catalog) (string, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if catalog == nil {
			return "", fmt.Errorf("map %d: no maps directory at %s", id, flagMapsDir)
		}
		return catalog.Path(id)
	}
	if _, err := os.Stat(arg); err != nil {
		return "", fmt.Errorf("map %s: %w", arg, err)
	}
	return arg, nil
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	return cfg
}
