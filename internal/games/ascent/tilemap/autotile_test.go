package tilemap

import "testing"

func TestClassifyTable(t *testing.T) {
	const (
		r = NeighborRight
		l = NeighborLeft
		u = NeighborUp
		d = NeighborDown
	)
	tests := []struct {
		name string
		set  NeighborSet
		want int
		ok   bool
	}{
		{"top-left corner", r | d, 0, true},
		{"top edge", r | d | l, 1, true},
		{"top-right corner", l | d, 2, true},
		{"right edge", l | u | d, 3, true},
		{"bottom-right corner", l | u, 4, true},
		{"bottom edge", l | u | r, 5, true},
		{"bottom-left corner", r | u, 6, true},
		{"left edge", r | u | d, 7, true},
		{"interior", r | l | u | d, 8, true},
		{"isolated", 0, 0, false},
		{"horizontal bar", r | l, 0, false},
		{"vertical bar", u | d, 0, false},
		{"single right", r, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Classify(tc.set)
			if ok != tc.ok {
				t.Fatalf("Classify(%04b) ok = %v, want %v", tc.set, ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("Classify(%04b) = %d, want %d", tc.set, got, tc.want)
			}
		})
	}
}

func TestAutotileBlock(t *testing.T) {
	m := New(36)
	// 3x3 block of grass with a stone tile touching its right side.
	for y := range 3 {
		for x := range 3 {
			mustPlace(t, m, NewTile(KindGrass, 0, GridPos{X: x, Y: y}))
		}
	}
	mustPlace(t, m, NewTile(KindStone, 4, GridPos{X: 3, Y: 1}))

	m.Autotile()

	want := map[GridPos]int{
		{0, 0}: 0, {1, 0}: 1, {2, 0}: 2,
		{0, 1}: 7, {1, 1}: 8, {2, 1}: 3,
		{0, 2}: 6, {1, 2}: 5, {2, 2}: 4,
	}
	for pos, variant := range want {
		tile, _ := m.Get(pos)
		if tile.Variant != variant {
			t.Errorf("%s variant = %d, want %d", pos.Key(), tile.Variant, variant)
		}
	}

	// Isolated stone has no matching pattern and keeps its variant.
	if stone, _ := m.Get(GridPos{X: 3, Y: 1}); stone.Variant != 4 {
		t.Errorf("stone variant changed to %d", stone.Variant)
	}
}

func TestAutotileSkipsNonTerrain(t *testing.T) {
	m := New(36)
	for x := range 2 {
		for y := range 2 {
			mustPlace(t, m, NewTile(KindDecor, 3, GridPos{X: x, Y: y}))
		}
	}
	if n := m.Autotile(); n != 0 {
		t.Errorf("Autotile changed %d decor tiles", n)
	}
}

func TestAutotileIdempotent(t *testing.T) {
	m := New(36)
	for x := range 4 {
		mustPlace(t, m, NewTile(KindKill, 0, GridPos{X: x, Y: 0}), NewTile(KindKill, 0, GridPos{X: x, Y: 1}))
	}
	m.Autotile()
	if n := m.Autotile(); n != 0 {
		t.Errorf("second pass changed %d tiles", n)
	}
}
