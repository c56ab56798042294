package tilemap

import (
	"errors"
	"testing"

	"github.com/vovakirdan/ascent/internal/core"
)

func mustPlace(t *testing.T, m *Tilemap, tiles ...Tile) {
	t.Helper()
	for _, tile := range tiles {
		if err := m.Place(tile); err != nil {
			t.Fatalf("Place(%+v) failed: %v", tile, err)
		}
	}
}

func TestTilesAroundOrder(t *testing.T) {
	m := New(36)
	// Fill the whole 3x3 window around cell (5,5) with distinct variants.
	for i, off := range neighborOffsets {
		mustPlace(t, m, NewTile(KindStone, i, GridPos{X: 5 + off.X, Y: 5 + off.Y}))
	}
	mustPlace(t, m, NewTile(KindStone, 99, GridPos{X: 7, Y: 5})) // outside the window

	got := m.TilesAround(core.Vec{X: 5*36 + 10, Y: 5*36 + 35.9})
	if len(got) != 9 {
		t.Fatalf("TilesAround returned %d tiles, expected 9", len(got))
	}
	for i, tile := range got {
		if tile.Variant != i {
			t.Errorf("position %d holds variant %d, expected %d", i, tile.Variant, i)
		}
	}
}

func TestTilesAroundNegativeCoordinates(t *testing.T) {
	m := New(36)
	mustPlace(t, m, NewTile(KindGrass, 0, GridPos{X: -1, Y: -1}))

	// -0.5 floors into cell -1, so the tile is the (0,0) offset.
	got := m.TilesAround(core.Vec{X: -0.5, Y: -0.5})
	if len(got) != 1 || got[0].Pos != (GridPos{X: -1, Y: -1}) {
		t.Fatalf("unexpected tiles %+v", got)
	}

	// 0.5 sits in cell 0; (-1,-1) is still inside the window.
	if got := m.TilesAround(core.Vec{X: 0.5, Y: 0.5}); len(got) != 1 {
		t.Fatalf("expected the diagonal neighbor, got %+v", got)
	}
	if got := m.TilesAround(core.Vec{X: 36, Y: 36}); len(got) != 0 {
		t.Fatalf("cell (1,1) window should not reach (-1,-1), got %+v", got)
	}
}

func TestTileValidation(t *testing.T) {
	if _, err := NewSpike(0, GridPos{}, 45); !errors.Is(err, ErrInvalidTile) {
		t.Errorf("rotation 45 should be rejected, got %v", err)
	}
	if _, err := NewSpike(0, GridPos{}, 270); err != nil {
		t.Errorf("rotation 270 should be accepted, got %v", err)
	}

	m := New(36)
	bad := Tile{Kind: KindGrass, Pos: GridPos{}, Rotation: 90}
	if err := m.Place(bad); !errors.Is(err, ErrInvalidTile) {
		t.Errorf("rotation on grass should be rejected, got %v", err)
	}
	if _, err := NewOffgridTile(KindStone, 0, core.Vec{X: 1.5, Y: 2}, 0); !errors.Is(err, ErrInvalidTile) {
		t.Errorf("physics tile off-grid should be rejected, got %v", err)
	}
	if err := m.PlaceOffgrid(OffgridTile{Kind: KindGrass}); !errors.Is(err, ErrInvalidTile) {
		t.Errorf("PlaceOffgrid should reject physics kinds, got %v", err)
	}
}

func TestMultiCellPlaceAndDelete(t *testing.T) {
	tests := []struct {
		name   string
		delete GridPos
	}{
		{"delete anchor", GridPos{X: 3, Y: 3}},
		{"delete companion", GridPos{X: 3, Y: 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := New(36)
			mustPlace(t, m, NewTile(KindFinish, 0, GridPos{X: 3, Y: 3}))

			up, ok := m.Get(GridPos{X: 3, Y: 3})
			if !ok || up.Role != RoleAnchor {
				t.Fatalf("anchor missing: %+v", up)
			}
			down, ok := m.Get(GridPos{X: 3, Y: 4})
			if !ok || down.Role != RoleCompanion {
				t.Fatalf("companion missing: %+v", down)
			}

			if !m.Delete(tc.delete) {
				t.Fatal("Delete returned false")
			}
			if m.Len() != 0 {
				t.Errorf("pair not removed, %d tiles left", m.Len())
			}
		})
	}
}

func TestPlacingOverHalfOfPairRemovesPair(t *testing.T) {
	m := New(36)
	mustPlace(t, m, NewTile(KindPortal, 0, GridPos{X: 0, Y: 0}))
	mustPlace(t, m, NewTile(KindStone, 0, GridPos{X: 0, Y: 1}))

	if _, ok := m.Get(GridPos{X: 0, Y: 0}); ok {
		t.Error("anchor should be removed when its companion is overwritten")
	}
	if tile, _ := m.Get(GridPos{X: 0, Y: 1}); tile.Kind != KindStone {
		t.Errorf("cell holds %+v", tile)
	}
}

func TestExtract(t *testing.T) {
	m := New(36)
	mustPlace(t, m,
		NewTile(KindGrass, 1, GridPos{X: 0, Y: 0}),
		NewTile(KindGrass, 2, GridPos{X: 1, Y: 0}),
		NewTile(KindFinish, 0, GridPos{X: 4, Y: 2}),
	)
	if err := m.PlaceOffgrid(OffgridTile{Kind: KindDecor, Variant: 1, Pos: core.Vec{X: 2.5, Y: 1}}); err != nil {
		t.Fatal(err)
	}

	t.Run("keep leaves the map intact", func(t *testing.T) {
		got := m.Extract([]KindVariant{{KindGrass, 1}, {KindFinish, 0}}, true)
		if len(got) != 2 {
			t.Fatalf("expected 2 matches, got %+v", got)
		}
		if got[0].Kind != KindGrass || got[0].WorldPos != (core.Vec{X: 0, Y: 0}) {
			t.Errorf("first match = %+v", got[0])
		}
		if got[1].Kind != KindFinish || got[1].WorldPos != (core.Vec{X: 144, Y: 72}) {
			t.Errorf("finish match = %+v", got[1])
		}
		if m.Len() != 4 {
			t.Errorf("map changed: %d tiles", m.Len())
		}
	})

	t.Run("offgrid matches come first in world pixels", func(t *testing.T) {
		got := m.Extract([]KindVariant{{KindDecor, 1}, {KindGrass, 2}}, true)
		if len(got) != 2 || !got[0].Offgrid {
			t.Fatalf("unexpected matches %+v", got)
		}
		if got[0].WorldPos != (core.Vec{X: 90, Y: 36}) {
			t.Errorf("offgrid world pos = %+v", got[0].WorldPos)
		}
	})

	t.Run("remove takes both halves", func(t *testing.T) {
		got := m.Extract([]KindVariant{{KindFinish, 0}}, false)
		if len(got) != 1 {
			t.Fatalf("expected a single finish match, got %+v", got)
		}
		if _, ok := m.Get(GridPos{X: 4, Y: 3}); ok {
			t.Error("companion left behind")
		}
		if m.Len() != 2 {
			t.Errorf("expected 2 grass tiles left, got %d", m.Len())
		}
	})
}

func TestCollapseSpawners(t *testing.T) {
	m := New(36)
	// Bypass Place, which already refuses to create duplicates.
	m.grid[GridPos{X: 2, Y: 2}] = NewTile(KindSpawners, 0, GridPos{X: 2, Y: 2})
	m.grid[GridPos{X: 8, Y: 1}] = NewTile(KindSpawners, 1, GridPos{X: 8, Y: 1})
	m.offgrid = append(m.offgrid, OffgridTile{Kind: KindSpawners, Pos: core.Vec{X: 5.7, Y: 3.2}})

	m.CollapseSpawners()

	spawners := m.Extract(spawnerSelectors, true)
	if len(spawners) != 1 {
		t.Fatalf("expected one spawner, got %+v", spawners)
	}
	// The off-grid spawner is found first and lands on its truncated cell.
	if spawners[0].Offgrid || spawners[0].Cell != (GridPos{X: 5, Y: 3}) {
		t.Errorf("kept spawner = %+v", spawners[0])
	}

	// Idempotent
	m.CollapseSpawners()
	if got := m.Extract(spawnerSelectors, true); len(got) != 1 || got[0].Cell != spawners[0].Cell {
		t.Errorf("second collapse changed the spawner: %+v", got)
	}
}

func TestPlaceSpawnerReplacesExisting(t *testing.T) {
	m := New(36)
	mustPlace(t, m,
		NewTile(KindSpawners, 0, GridPos{X: 1, Y: 1}),
		NewTile(KindSpawners, 0, GridPos{X: 9, Y: 4}),
	)
	pos, ok := m.SpawnPoint()
	if !ok || pos != (core.Vec{X: 9 * 36, Y: 4 * 36}) {
		t.Errorf("SpawnPoint() = %+v, %v", pos, ok)
	}
	if m.Len() != 1 {
		t.Errorf("expected only the new spawner, got %d tiles", m.Len())
	}
}

func TestRotateSpikes(t *testing.T) {
	m := New(36)
	spike, _ := NewSpike(0, GridPos{X: 0, Y: 0}, 0)
	mustPlace(t, m, spike, NewTile(KindStone, 0, GridPos{X: 1, Y: 0}))

	want := []int{270, 180, 90, 0}
	for _, rot := range want {
		if !m.RotateSpikes(GridPos{}) {
			t.Fatal("RotateSpikes returned false for a spike")
		}
		if got, _ := m.Get(GridPos{}); got.Rotation != rot {
			t.Errorf("rotation = %d, want %d", got.Rotation, rot)
		}
	}
	if m.RotateSpikes(GridPos{X: 1, Y: 0}) {
		t.Error("RotateSpikes should ignore non-spike tiles")
	}
}

func TestIsBelowMapMonotonic(t *testing.T) {
	m := New(36)
	mustPlace(t, m, NewTile(KindStone, 0, GridPos{X: 0, Y: 10}))
	m.RecomputeLowestY()

	if m.LowestY() != 10 {
		t.Fatalf("LowestY() = %d", m.LowestY())
	}
	threshold := float64(12 * 36)
	if m.IsBelowMap(threshold) {
		t.Error("the threshold itself is not below the map")
	}
	prev := false
	for y := threshold - 50; y < threshold+50; y += 0.5 {
		got := m.IsBelowMap(y)
		if prev && !got {
			t.Fatalf("IsBelowMap flipped back to false at y=%v", y)
		}
		prev = got
	}
	if !prev {
		t.Error("expected positions past the threshold to be below the map")
	}
}

func TestDeleteOffgridAt(t *testing.T) {
	m := New(36)
	for _, p := range []core.Vec{{X: 1.2, Y: 1.2}, {X: 4, Y: 4}} {
		if err := m.PlaceOffgrid(OffgridTile{Kind: KindDecor, Pos: p}); err != nil {
			t.Fatal(err)
		}
	}
	if n := m.DeleteOffgridAt(core.Vec{X: 2, Y: 2}); n != 1 {
		t.Errorf("DeleteOffgridAt removed %d tiles", n)
	}
	if left := m.Offgrid(); len(left) != 1 || left[0].Pos.X != 4 {
		t.Errorf("remaining offgrid = %+v", left)
	}
}
