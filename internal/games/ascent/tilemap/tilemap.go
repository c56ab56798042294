// Package tilemap holds the sparse tile grid a level is made of, the
// rectangle queries the physics runs against, the autotiler and the level
// file formats.
package tilemap

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/ascent/internal/core"
)

// DefaultTileSize is the tile edge in world pixels.
const DefaultTileSize = 36

// Neighbor window around a cell. The order is part of the collision
// contract: the first overlapping rect wins, so it must never change.
var neighborOffsets = [9]GridPos{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {0, 0}, {-1, 1}, {0, 1}, {1, 1},
}

var spawnerSelectors = []KindVariant{{KindSpawners, 0}, {KindSpawners, 1}}

// Tilemap is a sparse grid of tiles plus decorative off-grid tiles.
type Tilemap struct {
	tileSize int
	grid     map[GridPos]Tile
	offgrid  []OffgridTile
	lowestY  int

	spikeW, spikeH float64 // spike hitbox as a fraction of the tile
}

// New returns an empty map with the given tile size.
func New(tileSize int) *Tilemap {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &Tilemap{
		tileSize: tileSize,
		grid:     make(map[GridPos]Tile),
		spikeW:   0.8,
		spikeH:   0.25,
	}
}

// TileSize returns the tile edge in pixels.
func (m *Tilemap) TileSize() int {
	return m.tileSize
}

// SetSpikeSize overrides the spike hitbox fractions.
func (m *Tilemap) SetSpikeSize(w, h float64) {
	if w > 0 && w <= 1 {
		m.spikeW = w
	}
	if h > 0 && h <= 1 {
		m.spikeH = h
	}
}

// Len returns the number of occupied grid cells.
func (m *Tilemap) Len() int {
	return len(m.grid)
}

// Get returns the tile stored at pos.
func (m *Tilemap) Get(pos GridPos) (Tile, bool) {
	t, ok := m.grid[pos]
	return t, ok
}

// Tiles returns all grid tiles ordered by row, then column.
func (m *Tilemap) Tiles() []Tile {
	tiles := make([]Tile, 0, len(m.grid))
	for _, t := range m.grid {
		tiles = append(tiles, t)
	}
	slices.SortFunc(tiles, func(a, b Tile) int {
		return compareCells(a.Pos, b.Pos)
	})
	return tiles
}

// Offgrid returns a copy of the off-grid tiles.
func (m *Tilemap) Offgrid() []OffgridTile {
	return slices.Clone(m.offgrid)
}

func compareCells(a, b GridPos) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

// LowestY returns the deepest grid row recorded for the map.
func (m *Tilemap) LowestY() int {
	return m.lowestY
}

// RecomputeLowestY sets LowestY to the maximum row of any grid tile.
func (m *Tilemap) RecomputeLowestY() {
	lowest := 0
	first := true
	for pos := range m.grid {
		if first || pos.Y > lowest {
			lowest = pos.Y
			first = false
		}
	}
	m.lowestY = lowest
}

// IsBelowMap reports whether a world y lies more than two rows below the
// deepest tile.
func (m *Tilemap) IsBelowMap(y float64) bool {
	return y > float64((m.lowestY+2)*m.tileSize)
}

// CellAt returns the grid cell containing a world position.
func (m *Tilemap) CellAt(pos core.Vec) GridPos {
	return GridPos{X: core.FloorDiv(pos.X, m.tileSize), Y: core.FloorDiv(pos.Y, m.tileSize)}
}

// TilesAround returns the occupied cells of the 3x3 window centered on the
// cell containing pos, in neighbor-window order.
func (m *Tilemap) TilesAround(pos core.Vec) []Tile {
	center := m.CellAt(pos)
	tiles := make([]Tile, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		if t, ok := m.grid[GridPos{X: center.X + off.X, Y: center.Y + off.Y}]; ok {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Place stores a tile, replacing whatever occupied the cell. Multi-cell
// kinds are expanded into an anchor/companion pair and placing a spawner
// removes every other spawner first.
func (m *Tilemap) Place(t Tile) error {
	if t.Kind.IsMultiCell() {
		return m.PlaceMulti(t.Kind, t.Variant, t.Pos)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Kind == KindSpawners {
		m.Extract(spawnerSelectors, false)
	}
	m.Delete(t.Pos)
	m.grid[t.Pos] = t
	return nil
}

// PlaceMulti places a two-cell tile with its anchor at pos.
func (m *Tilemap) PlaceMulti(kind Kind, variant int, pos GridPos) error {
	if !kind.IsMultiCell() {
		return fmt.Errorf("%w: %s is a single-cell kind", ErrInvalidTile, kind)
	}
	m.Delete(pos)
	m.Delete(pos.Below())
	m.grid[pos] = Tile{Kind: kind, Role: RoleAnchor, Variant: variant, Pos: pos}
	m.grid[pos.Below()] = Tile{Kind: kind, Role: RoleCompanion, Variant: variant, Pos: pos.Below()}
	return nil
}

// Delete removes the tile at pos together with its other half, if any.
func (m *Tilemap) Delete(pos GridPos) bool {
	t, ok := m.grid[pos]
	if !ok {
		return false
	}
	delete(m.grid, pos)

	var partner GridPos
	switch t.Role {
	case RoleAnchor:
		partner = pos.Below()
	case RoleCompanion:
		partner = pos.Above()
	default:
		return true
	}
	if other, ok := m.grid[partner]; ok && other.Kind == t.Kind && other.Role != t.Role {
		delete(m.grid, partner)
	}
	return true
}

// PlaceOffgrid appends a decorative tile.
func (m *Tilemap) PlaceOffgrid(t OffgridTile) error {
	if t.Kind.IsPhysics() {
		return fmt.Errorf("%w: %s cannot be placed off-grid", ErrInvalidTile, t.Kind)
	}
	if err := validateRotation(t.Kind, t.Rotation); err != nil {
		return err
	}
	if t.Kind == KindSpawners {
		m.Extract(spawnerSelectors, false)
	}
	m.offgrid = append(m.offgrid, t)
	return nil
}

// DeleteOffgridAt removes every off-grid tile whose one-tile footprint
// contains pos (in tile units). It returns the number removed.
func (m *Tilemap) DeleteOffgridAt(pos core.Vec) int {
	before := len(m.offgrid)
	m.offgrid = slices.DeleteFunc(m.offgrid, func(t OffgridTile) bool {
		return pos.X >= t.Pos.X && pos.X < t.Pos.X+1 && pos.Y >= t.Pos.Y && pos.Y < t.Pos.Y+1
	})
	return before - len(m.offgrid)
}

// RotateSpikes turns the spike at pos by -90 degrees.
func (m *Tilemap) RotateSpikes(pos GridPos) bool {
	t, ok := m.grid[pos]
	if !ok || t.Kind != KindSpikes {
		return false
	}
	t.Rotation = ((t.Rotation-90)%360 + 360) % 360
	m.grid[pos] = t
	return true
}

func selected(sel []KindVariant, kind Kind, variant int) bool {
	for _, s := range sel {
		if s.Kind == kind && s.Variant == variant {
			return true
		}
	}
	return false
}

// Extract returns every tile matching one of the selectors, off-grid tiles
// first, then grid tiles by row and column. Unless keep is set, matches are
// removed from the map. A two-cell tile matches once, through its anchor.
func (m *Tilemap) Extract(sel []KindVariant, keep bool) []Match {
	var matches []Match
	ts := float64(m.tileSize)

	kept := m.offgrid[:0:0]
	for _, t := range m.offgrid {
		if !selected(sel, t.Kind, t.Variant) {
			kept = append(kept, t)
			continue
		}
		matches = append(matches, Match{
			Kind:     t.Kind,
			Variant:  t.Variant,
			WorldPos: t.Pos.Scale(ts),
			Cell:     GridPos{X: int(t.Pos.X), Y: int(t.Pos.Y)},
			Rotation: t.Rotation,
			Offgrid:  true,
		})
		if keep {
			kept = append(kept, t)
		}
	}
	m.offgrid = kept

	for _, t := range m.Tiles() {
		if t.Role == RoleCompanion || !selected(sel, t.Kind, t.Variant) {
			continue
		}
		matches = append(matches, Match{
			Kind:     t.Kind,
			Variant:  t.Variant,
			WorldPos: core.Vec{X: float64(t.Pos.X) * ts, Y: float64(t.Pos.Y) * ts},
			Cell:     t.Pos,
			Rotation: t.Rotation,
		})
		if !keep {
			m.Delete(t.Pos)
		}
	}
	return matches
}

// CollapseSpawners enforces the single-spawner rule: when several exist, the
// first one found is kept on the grid and all others are dropped.
func (m *Tilemap) CollapseSpawners() {
	found := m.Extract(spawnerSelectors, true)
	if len(found) <= 1 {
		return
	}
	m.Extract(spawnerSelectors, false)
	first := found[0]
	m.Delete(first.Cell)
	m.grid[first.Cell] = Tile{Kind: first.Kind, Variant: first.Variant, Pos: first.Cell}
}

// SpawnPoint returns the world position of the spawner.
func (m *Tilemap) SpawnPoint() (core.Vec, bool) {
	found := m.Extract(spawnerSelectors, true)
	if len(found) == 0 {
		return core.Vec{}, false
	}
	return found[0].WorldPos, true
}
