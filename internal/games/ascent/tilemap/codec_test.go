package tilemap

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/ascent/internal/core"
)

const legacyMap = `{
    "tilemap": {
        "0;5": {"type": "grass", "variant": 1, "pos": [0, 5]},
        "1;5": {"type": "grass", "variant": 1, "pos": [1, 5]},
        "2;4": {"type": "spikes", "variant": 0, "pos": [2, 4], "rotation": 90},
        "6;3": {"type": "finish up", "variant": 0, "pos": [6, 3]},
        "6;4": {"type": "finish down", "variant": 0, "pos": [6, 4]},
        "1;1": {"type": "spawners", "variant": 0, "pos": [1, 1]},
        "4;1": {"type": "spawners", "variant": 1, "pos": [4, 1]}
    },
    "offgrid": [
        {"type": "decor", "variant": 2, "pos": [3.5, 2.25]}
    ],
    "lowest_y": 5
}`

func TestLoadLegacyMap(t *testing.T) {
	m, err := Load(strings.NewReader(legacyMap), 36)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	up, _ := m.Get(GridPos{X: 6, Y: 3})
	down, _ := m.Get(GridPos{X: 6, Y: 4})
	if up.Kind != KindFinish || up.Role != RoleAnchor || down.Role != RoleCompanion {
		t.Errorf("finish halves decoded as %+v / %+v", up, down)
	}
	if spike, _ := m.Get(GridPos{X: 2, Y: 4}); spike.Rotation != 90 {
		t.Errorf("spike rotation = %d", spike.Rotation)
	}
	if m.LowestY() != 5 {
		t.Errorf("LowestY() = %d", m.LowestY())
	}

	// The two spawners collapse to the first one in row order.
	spawners := m.Extract(spawnerSelectors, true)
	if len(spawners) != 1 {
		t.Fatalf("spawners after load: %+v", spawners)
	}
	if spawners[0].Cell != (GridPos{X: 1, Y: 1}) {
		t.Errorf("kept spawner at %s, want 1;1", spawners[0].Cell.Key())
	}

	if off := m.Offgrid(); len(off) != 1 || off[0].Pos != (core.Vec{X: 3.5, Y: 2.25}) {
		t.Errorf("offgrid = %+v", off)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m, err := Load(strings.NewReader(legacyMap), 36)
	if err != nil {
		t.Fatal(err)
	}
	mustPlace(t, m, NewTile(KindStone, 0, GridPos{X: 0, Y: 9}))

	path := filepath.Join(t.TempDir(), "levels", "7.json")
	if err := m.SaveFile(path); err != nil {
		t.Fatalf("SaveFile() failed: %v", err)
	}
	if m.LowestY() != 9 {
		t.Errorf("Save should recompute LowestY, got %d", m.LowestY())
	}

	back, err := LoadFile(path, 36)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if back.Len() != m.Len() || back.LowestY() != 9 {
		t.Errorf("round trip: %d tiles lowest %d, want %d tiles lowest 9", back.Len(), back.LowestY(), m.Len())
	}
	for _, tile := range m.Tiles() {
		got, ok := back.Get(tile.Pos)
		if !ok || got != tile {
			t.Errorf("cell %s: got %+v, want %+v", tile.Pos.Key(), got, tile)
		}
	}
}

func TestSaveWritesLegacyTypeNames(t *testing.T) {
	m := New(36)
	mustPlace(t, m, NewTile(KindFinish, 0, GridPos{X: 0, Y: 0}))

	var buf bytes.Buffer
	if err := m.Save(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"finish up"`, `"finish down"`, `"0;1"`, `"lowest_y": 1`} {
		if !strings.Contains(out, want) {
			t.Errorf("saved map is missing %s:\n%s", want, out)
		}
	}
}

func TestLoadRejectsMalformedMaps(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"tilemap": `},
		{"missing tilemap", `{"offgrid": []}`},
		{"bad key", `{"tilemap": {"a;b": {"type": "grass", "variant": 0, "pos": [0, 0]}}}`},
		{"key and pos disagree", `{"tilemap": {"1;1": {"type": "grass", "variant": 0, "pos": [2, 2]}}}`},
		{"bad spike rotation", `{"tilemap": {"0;0": {"type": "spikes", "variant": 0, "pos": [0, 0], "rotation": 30}}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tc.data), 36); err == nil {
				t.Error("expected an error")
			}
		})
	}

	_, err := Load(strings.NewReader(`{"offgrid": []}`), 36)
	if !errors.Is(err, ErrInvalidMap) {
		t.Errorf("missing tilemap should wrap ErrInvalidMap, got %v", err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), 36); err == nil {
		t.Error("LoadFile on a missing file should fail")
	}
}
