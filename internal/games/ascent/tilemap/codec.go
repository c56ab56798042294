package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vovakirdan/ascent/internal/core"
)

// ErrInvalidMap is returned when a level file does not follow the schema.
var ErrInvalidMap = errors.New("tilemap: invalid map")

type wireGridTile struct {
	Type     string `json:"type"`
	Variant  int    `json:"variant"`
	Pos      [2]int `json:"pos"`
	Rotation *int   `json:"rotation,omitempty"`
}

type wireOffgridTile struct {
	Type     string     `json:"type"`
	Variant  int        `json:"variant"`
	Pos      [2]float64 `json:"pos"`
	Rotation *int       `json:"rotation,omitempty"`
}

type wireMap struct {
	Tilemap map[string]wireGridTile `json:"tilemap"`
	Offgrid []wireOffgridTile       `json:"offgrid"`
	LowestY int                     `json:"lowest_y"`
}

// Load decodes a level from r. Duplicate spawners are collapsed.
func Load(r io.Reader, tileSize int) (*Tilemap, error) {
	var w wireMap
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("tilemap: cannot decode map: %w", err)
	}
	if w.Tilemap == nil {
		return nil, fmt.Errorf("%w: missing tilemap section", ErrInvalidMap)
	}

	m := New(tileSize)
	for key, wt := range w.Tilemap {
		pos, err := ParseGridKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMap, err)
		}
		if pos != (GridPos{X: wt.Pos[0], Y: wt.Pos[1]}) {
			return nil, fmt.Errorf("%w: cell %s holds a tile at %v", ErrInvalidMap, key, wt.Pos)
		}
		kind, role := parseWireType(wt.Type)
		t := Tile{Kind: kind, Role: role, Variant: wt.Variant, Pos: pos}
		if wt.Rotation != nil {
			t.Rotation = *wt.Rotation
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMap, err)
		}
		m.grid[pos] = t
	}

	for _, wt := range w.Offgrid {
		rot := 0
		if wt.Rotation != nil {
			rot = *wt.Rotation
		}
		kind, _ := parseWireType(wt.Type)
		if err := validateRotation(kind, rot); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidMap, err)
		}
		m.offgrid = append(m.offgrid, OffgridTile{
			Kind:     kind,
			Variant:  wt.Variant,
			Pos:      core.Vec{X: wt.Pos[0], Y: wt.Pos[1]},
			Rotation: rot,
		})
	}

	m.lowestY = w.LowestY
	m.CollapseSpawners()
	return m, nil
}

// LoadFile reads and decodes a level file.
func LoadFile(path string, tileSize int) (*Tilemap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tilemap: cannot open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Load(f, tileSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Save recomputes LowestY, collapses spawners and encodes the map.
func (m *Tilemap) Save(w io.Writer) error {
	m.RecomputeLowestY()
	m.CollapseSpawners()

	out := wireMap{
		Tilemap: make(map[string]wireGridTile, len(m.grid)),
		Offgrid: make([]wireOffgridTile, 0, len(m.offgrid)),
		LowestY: m.lowestY,
	}
	for pos, t := range m.grid {
		wt := wireGridTile{Type: t.wireType(), Variant: t.Variant, Pos: [2]int{pos.X, pos.Y}}
		if t.Kind == KindSpikes {
			rot := t.Rotation
			wt.Rotation = &rot
		}
		out.Tilemap[pos.Key()] = wt
	}
	for _, t := range m.offgrid {
		wt := wireOffgridTile{Type: string(t.Kind), Variant: t.Variant, Pos: [2]float64{t.Pos.X, t.Pos.Y}}
		if t.Kind == KindSpikes {
			rot := t.Rotation
			wt.Rotation = &rot
		}
		out.Offgrid = append(out.Offgrid, wt)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("tilemap: cannot encode map: %w", err)
	}
	return nil
}

// SaveFile writes the map to path, creating parent directories.
func (m *Tilemap) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("tilemap: cannot create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tilemap: cannot create %s: %w", path, err)
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
