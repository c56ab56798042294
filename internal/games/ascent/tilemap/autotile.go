package tilemap

// NeighborSet is a bitmask of same-kind cardinal neighbors.
type NeighborSet uint8

const (
	NeighborRight NeighborSet = 1 << iota
	NeighborLeft
	NeighborUp
	NeighborDown
)

var cardinals = [4]struct {
	off GridPos
	bit NeighborSet
}{
	{GridPos{1, 0}, NeighborRight},
	{GridPos{-1, 0}, NeighborLeft},
	{GridPos{0, -1}, NeighborUp},
	{GridPos{0, 1}, NeighborDown},
}

// autotileVariants maps a neighbor mask to a sprite variant; -1 means the
// pattern has no dedicated sprite.
var autotileVariants = [16]int{
	-1, -1, -1, -1, -1,
	NeighborRight | NeighborUp:                                   6,
	NeighborLeft | NeighborUp:                                    4,
	NeighborRight | NeighborLeft | NeighborUp:                    5,
	-1,
	NeighborRight | NeighborDown:                                 0,
	NeighborLeft | NeighborDown:                                  2,
	NeighborRight | NeighborLeft | NeighborDown:                  1,
	-1,
	NeighborRight | NeighborUp | NeighborDown:                    7,
	NeighborLeft | NeighborUp | NeighborDown:                     3,
	NeighborRight | NeighborLeft | NeighborUp | NeighborDown:     8,
}

// Classify maps a neighbor pattern to a variant.
func Classify(n NeighborSet) (int, bool) {
	v := autotileVariants[n&0x0f]
	return v, v >= 0
}

// NeighborsOf collects the same-kind, same-role cardinal neighbors of the
// tile at pos.
func (m *Tilemap) NeighborsOf(pos GridPos) NeighborSet {
	t, ok := m.grid[pos]
	if !ok {
		return 0
	}
	var set NeighborSet
	for _, c := range cardinals {
		n, ok := m.grid[GridPos{X: pos.X + c.off.X, Y: pos.Y + c.off.Y}]
		if ok && n.Kind == t.Kind && n.Role == t.Role {
			set |= c.bit
		}
	}
	return set
}

// Autotile rewrites the variant of every terrain tile from its neighbors.
// Tiles whose pattern has no sprite keep their current variant. It returns
// the number of tiles changed.
func (m *Tilemap) Autotile() int {
	changed := 0
	for pos, t := range m.grid {
		if !t.Kind.IsAutotile() {
			continue
		}
		v, ok := Classify(m.NeighborsOf(pos))
		if !ok || v == t.Variant {
			continue
		}
		t.Variant = v
		m.grid[pos] = t
		changed++
	}
	return changed
}
