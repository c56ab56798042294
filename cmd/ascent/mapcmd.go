package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascent/internal/games/ascent/levels"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Create, autotile, import and inspect map files",
}

var mapNewCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Create an empty map",
	Long: `Create an empty map. Without a file name the next free number in the
maps directory is used.

Examples:
  ascent map new
  ascent map new ./drafts/tower.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMapNew,
}

var mapAutotileCmd = &cobra.Command{
	Use:   "autotile <file>",
	Short: "Pick terrain variants from neighbours",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapAutotile,
}

var mapImportCmd = &cobra.Command{
	Use:   "import <file.tmx> [out]",
	Short: "Convert a Tiled map",
	Long: `Convert a Tiled TMX map. Tileset tiles need a "kind" property and may set
"variant" and "rotation"; the first object of the "spawn" group is the
spawner. Without an output file the next free number in the maps directory
is used.

Examples:
  ascent map import ./tiled/level.tmx
  ascent map import ./tiled/level.tmx ./maps/4.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMapImport,
}

var mapInfoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a map",
	Args:  cobra.ExactArgs(1),
	RunE:  runMapInfo,
}

func init() {
	mapCmd.AddCommand(mapNewCmd, mapAutotileCmd, mapImportCmd, mapInfoCmd)
}

// nextMapPath returns the next free numbered file in the maps directory,
// creating the directory if needed.
func nextMapPath() (string, error) {
	if err := os.MkdirAll(flagMapsDir, 0o755); err != nil {
		return "", err
	}
	catalog, err := levels.Open(flagMapsDir)
	if err != nil {
		return "", err
	}
	name, err := catalog.NextFreeName()
	if err != nil {
		return "", err
	}
	return filepath.Join(catalog.Dir(), name), nil
}

func tileSize() int {
	return loadConfig(newLogger("map")).TileSize
}

func runMapNew(_ *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	} else {
		p, err := nextMapPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := tilemap.New(tileSize()).SaveFile(path); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func runMapAutotile(_ *cobra.Command, args []string) error {
	m, err := tilemap.LoadFile(args[0], tileSize())
	if err != nil {
		return err
	}
	changed := m.Autotile()
	if err := m.SaveFile(args[0]); err != nil {
		return err
	}
	fmt.Printf("Updated %d tiles in %s\n", changed, args[0])
	return nil
}

func runMapImport(_ *cobra.Command, args []string) error {
	src := args[0]
	m, err := tilemap.ImportTMX(os.DirFS(filepath.Dir(src)), filepath.Base(src), tileSize())
	if err != nil {
		return err
	}

	out := ""
	if len(args) == 2 {
		out = args[1]
	} else {
		if out, err = nextMapPath(); err != nil {
			return err
		}
	}
	if err := m.SaveFile(out); err != nil {
		return err
	}
	fmt.Printf("Imported %s -> %s (%d tiles)\n", src, out, m.Len())
	return nil
}

func runMapInfo(_ *cobra.Command, args []string) error {
	m, err := tilemap.LoadFile(args[0], tileSize())
	if err != nil {
		if errors.Is(err, tilemap.ErrInvalidMap) {
			return fmt.Errorf("%s is not a valid map: %w", args[0], err)
		}
		return err
	}

	counts := make(map[tilemap.Kind]int)
	for _, t := range m.Tiles() {
		counts[t.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	slices.Sort(kinds)

	fmt.Printf("Map %s\n\n", args[0])
	fmt.Printf("  Tiles:    %d\n", m.Len())
	for _, k := range kinds {
		fmt.Printf("    %-10s %d\n", k, counts[tilemap.Kind(k)])
	}
	fmt.Printf("  Off-grid: %d\n", len(m.Offgrid()))
	fmt.Printf("  Lowest y: %d\n", m.LowestY())
	if spawn, ok := m.SpawnPoint(); ok {
		fmt.Printf("  Spawn:    %.0f, %.0f\n", spawn.X, spawn.Y)
	} else {
		fmt.Println("  Spawn:    none")
	}

	var notes []string
	if counts[tilemap.KindFinish] == 0 {
		notes = append(notes, "no finish gate")
	}
	if counts[tilemap.KindSpawners] == 0 {
		notes = append(notes, "no spawner")
	}
	if len(notes) > 0 {
		fmt.Printf("\n  Warning: %s\n", strings.Join(notes, ", "))
	}
	return nil
}
