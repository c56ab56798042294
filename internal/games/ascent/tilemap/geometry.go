package tilemap

import "github.com/vovakirdan/ascent/internal/core"

// Interactive is a rectangle that kills or finishes the level on contact.
type Interactive struct {
	Rect    core.Rect
	Kind    Kind
	Variant int
}

// Lethal reports whether touching the rect kills the body.
func (i Interactive) Lethal() bool {
	return i.Kind == KindSpikes || i.Kind == KindKill
}

func (m *Tilemap) cellRect(pos GridPos, rows int) core.Rect {
	return core.NewRect(pos.X*m.tileSize, pos.Y*m.tileSize, m.tileSize, m.tileSize*rows)
}

// PhysicsRectsAround returns the solid tile rects near pos in neighbor-window
// order.
func (m *Tilemap) PhysicsRectsAround(pos core.Vec) []core.Rect {
	var rects []core.Rect
	for _, t := range m.TilesAround(pos) {
		if t.Kind.IsPhysics() {
			rects = append(rects, m.cellRect(t.Pos, 1))
		}
	}
	return rects
}

// InteractiveRectsAround returns hazard and finish rects near pos.
func (m *Tilemap) InteractiveRectsAround(pos core.Vec) []Interactive {
	var out []Interactive
	for _, t := range m.TilesAround(pos) {
		if !t.Kind.IsInteractive() {
			continue
		}
		switch t.Kind {
		case KindFinish:
			if t.Role != RoleCompanion {
				out = append(out, Interactive{Rect: m.cellRect(t.Pos, 2), Kind: t.Kind, Variant: t.Variant})
				continue
			}
			// An orphaned lower half still counts as a one-cell gate.
			if up, ok := m.grid[t.Pos.Above()]; ok && up.Kind == KindFinish && up.Role == RoleAnchor {
				continue
			}
			out = append(out, Interactive{Rect: m.cellRect(t.Pos, 1), Kind: t.Kind, Variant: t.Variant})
		case KindSpikes:
			out = append(out, Interactive{Rect: m.SpikeRect(t), Kind: t.Kind, Variant: t.Variant})
		case KindKill:
			out = append(out, Interactive{Rect: m.cellRect(t.Pos, 1), Kind: t.Kind, Variant: t.Variant})
		}
	}
	return out
}

// SpikeRect returns the reduced hitbox of a spike tile. The long side lies
// flush against the edge the spike is mounted on; the other axis is centered.
func (m *Tilemap) SpikeRect(t Tile) core.Rect {
	ts := m.tileSize
	w := int(float64(ts) * m.spikeW)
	h := int(float64(ts) * m.spikeH)
	x, y := t.Pos.X*ts, t.Pos.Y*ts

	switch t.Rotation {
	case 90:
		return core.NewRect(x+ts-h, y+(ts-w)/2, h, w)
	case 180:
		return core.NewRect(x+(ts-w)/2, y, w, h)
	case 270:
		return core.NewRect(x, y+(ts-w)/2, h, w)
	default:
		return core.NewRect(x+(ts-w)/2, y+ts-h, w, h)
	}
}
