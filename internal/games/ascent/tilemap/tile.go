package tilemap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/ascent/internal/core"
)

// Kind is the base type of a tile.
type Kind string

const (
	KindGrass    Kind = "grass"
	KindStone    Kind = "stone"
	KindPinkrock Kind = "pinkrock"
	KindKill     Kind = "kill"
	KindSpikes   Kind = "spikes"
	KindFinish   Kind = "finish"
	KindPortal   Kind = "portal"
	KindSpawners Kind = "spawners"
	KindDecor    Kind = "decor"
)

// IsPhysics reports whether tiles of this kind block movement.
func (k Kind) IsPhysics() bool {
	switch k {
	case KindGrass, KindStone, KindPinkrock:
		return true
	}
	return false
}

// IsAutotile reports whether the autotiler rewrites variants of this kind.
func (k Kind) IsAutotile() bool {
	return k.IsPhysics() || k == KindKill
}

// IsMultiCell reports whether the kind occupies two vertically stacked cells.
func (k Kind) IsMultiCell() bool {
	return k == KindFinish || k == KindPortal
}

// IsInteractive reports whether overlapping the tile triggers death or finish.
// Portals occupy two cells but have no effect on the body.
func (k Kind) IsInteractive() bool {
	switch k {
	case KindFinish, KindSpikes, KindKill:
		return true
	}
	return false
}

// Role distinguishes the two halves of a multi-cell tile.
type Role uint8

const (
	RoleSingle    Role = iota
	RoleAnchor         // top cell of a multi-cell tile
	RoleCompanion      // cell directly below its anchor
)

// Legacy level files mark the halves with a suffix on the type string.
const (
	anchorSuffix    = " up"
	companionSuffix = " down"
)

// Valid spike rotations in degrees.
var spikeRotations = [...]int{0, 90, 180, 270}

// ErrInvalidTile is returned when a tile violates its construction rules.
var ErrInvalidTile = errors.New("tilemap: invalid tile")

// GridPos is an integer cell coordinate.
type GridPos struct {
	X, Y int
}

// Key returns the "x;y" form used as the JSON object key.
func (p GridPos) Key() string {
	return strconv.Itoa(p.X) + ";" + strconv.Itoa(p.Y)
}

// Below returns the cell directly underneath p.
func (p GridPos) Below() GridPos {
	return GridPos{X: p.X, Y: p.Y + 1}
}

// Above returns the cell directly above p.
func (p GridPos) Above() GridPos {
	return GridPos{X: p.X, Y: p.Y - 1}
}

// ParseGridKey parses an "x;y" key.
func ParseGridKey(s string) (GridPos, error) {
	xs, ys, ok := strings.Cut(s, ";")
	if !ok {
		return GridPos{}, fmt.Errorf("tilemap: malformed cell key %q", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return GridPos{}, fmt.Errorf("tilemap: malformed cell key %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return GridPos{}, fmt.Errorf("tilemap: malformed cell key %q: %w", s, err)
	}
	return GridPos{X: x, Y: y}, nil
}

// Tile is a grid-aligned tile. Rotation is only meaningful for spikes.
type Tile struct {
	Kind     Kind
	Role     Role
	Variant  int
	Pos      GridPos
	Rotation int
}

// NewTile builds a single-cell tile without rotation.
func NewTile(kind Kind, variant int, pos GridPos) Tile {
	return Tile{Kind: kind, Variant: variant, Pos: pos}
}

// NewSpike builds a spike tile with the given rotation in degrees.
func NewSpike(variant int, pos GridPos, rotation int) (Tile, error) {
	t := Tile{Kind: KindSpikes, Variant: variant, Pos: pos, Rotation: rotation}
	return t, t.Validate()
}

// Validate checks the rotation and role rules of a tile.
func (t Tile) Validate() error {
	if t.Kind == "" {
		return fmt.Errorf("%w: empty kind at %s", ErrInvalidTile, t.Pos.Key())
	}
	if err := validateRotation(t.Kind, t.Rotation); err != nil {
		return err
	}
	if t.Role != RoleSingle && !t.Kind.IsMultiCell() {
		return fmt.Errorf("%w: %s cannot span two cells", ErrInvalidTile, t.Kind)
	}
	return nil
}

func validateRotation(kind Kind, rotation int) error {
	if kind != KindSpikes {
		if rotation != 0 {
			return fmt.Errorf("%w: rotation on %s", ErrInvalidTile, kind)
		}
		return nil
	}
	for _, r := range spikeRotations {
		if r == rotation {
			return nil
		}
	}
	return fmt.Errorf("%w: spike rotation %d", ErrInvalidTile, rotation)
}

// wireType renders the kind and role the way level files spell them.
func (t Tile) wireType() string {
	switch t.Role {
	case RoleAnchor:
		return string(t.Kind) + anchorSuffix
	case RoleCompanion:
		return string(t.Kind) + companionSuffix
	}
	return string(t.Kind)
}

// parseWireType splits "finish up" into its kind and role.
func parseWireType(s string) (Kind, Role) {
	if base, ok := strings.CutSuffix(s, anchorSuffix); ok {
		return Kind(base), RoleAnchor
	}
	if base, ok := strings.CutSuffix(s, companionSuffix); ok {
		return Kind(base), RoleCompanion
	}
	return Kind(s), RoleSingle
}

// OffgridTile is a decorative tile at a fractional tile coordinate.
type OffgridTile struct {
	Kind     Kind
	Variant  int
	Pos      core.Vec // in tile units
	Rotation int
}

// NewOffgridTile builds an off-grid tile. Physics kinds are rejected since
// off-grid tiles never take part in collision.
func NewOffgridTile(kind Kind, variant int, pos core.Vec, rotation int) (OffgridTile, error) {
	if kind.IsPhysics() {
		return OffgridTile{}, fmt.Errorf("%w: %s cannot be placed off-grid", ErrInvalidTile, kind)
	}
	if err := validateRotation(kind, rotation); err != nil {
		return OffgridTile{}, err
	}
	return OffgridTile{Kind: kind, Variant: variant, Pos: pos, Rotation: rotation}, nil
}

// KindVariant selects tiles in Extract.
type KindVariant struct {
	Kind    Kind
	Variant int
}

// Match is a tile returned by Extract. WorldPos is in pixels; Cell is the
// grid cell for grid tiles and the truncated tile coordinate for off-grid ones.
type Match struct {
	Kind     Kind
	Variant  int
	WorldPos core.Vec
	Cell     GridPos
	Rotation int
	Offgrid  bool
}
