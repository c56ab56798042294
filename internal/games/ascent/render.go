package ascent

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/vovakirdan/ascent/internal/core"
	"github.com/vovakirdan/ascent/internal/games/ascent/clock"
	"github.com/vovakirdan/ascent/internal/games/ascent/player"
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

// Glyph is how one tile looks on screen: two columns, one row.
type Glyph struct {
	Runes [2]rune
	Color core.Color
}

func glyph(s string, c core.Color) Glyph {
	r := []rune(s)
	return Glyph{Runes: [2]rune{r[0], r[1]}, Color: c}
}

// Glyphs is the terminal look of a level. Each renderer owns its own copy.
type Glyphs struct {
	Tiles   map[tilemap.Kind]Glyph
	Tops    map[tilemap.Kind]Glyph // exposed top surface of autotiled kinds
	Spikes  [4]Glyph               // by rotation / 90
	Finish  [2]Glyph               // anchor, companion
	Portal  [2]Glyph
	Spawner Glyph
	Unknown Glyph
	Player  map[player.Action]Glyph // facing right; mirrored when facing left
}

// DefaultGlyphs returns the stock glyph set.
func DefaultGlyphs() Glyphs {
	return Glyphs{
		Tiles: map[tilemap.Kind]Glyph{
			tilemap.KindGrass:    glyph("▓▓", core.ColorBrown),
			tilemap.KindStone:    glyph("██", core.ColorGray),
			tilemap.KindPinkrock: glyph("▒▒", core.ColorPink),
			tilemap.KindKill:     glyph("░░", core.ColorRed),
			tilemap.KindDecor:    glyph("··", core.ColorDim),
		},
		Tops: map[tilemap.Kind]Glyph{
			tilemap.KindGrass: glyph("▀▀", core.ColorGreen),
		},
		Spikes: [4]Glyph{
			glyph("▲▲", core.ColorWhite),
			glyph(" ◀", core.ColorWhite),
			glyph("▼▼", core.ColorWhite),
			glyph("▶ ", core.ColorWhite),
		},
		Finish:  [2]Glyph{glyph("╔╗", core.ColorBrightGreen), glyph("╚╝", core.ColorBrightGreen)},
		Portal:  [2]Glyph{glyph("╭╮", core.ColorMagenta), glyph("╰╯", core.ColorMagenta)},
		Spawner: glyph("<>", core.ColorDim),
		Unknown: glyph("??", core.ColorDim),
		Player: map[player.Action]Glyph{
			player.ActionIdle:             glyph("@ ", core.ColorBrightYellow),
			player.ActionRun:              glyph("@>", core.ColorBrightYellow),
			player.ActionDeath:            glyph("xx", core.ColorBrightRed),
			player.ActionFinish:           glyph("\\o", core.ColorBrightGreen),
			player.ActionWallSlide:        glyph("@|", core.ColorYellow),
			player.ActionWallCollide:      glyph("@|", core.ColorBrightYellow),
			player.ActionJumpAnticipation: glyph("@_", core.ColorBrightYellow),
			player.ActionJumpRising:       glyph("@^", core.ColorBrightYellow),
			player.ActionJumpPeak:         glyph("@-", core.ColorBrightYellow),
			player.ActionJumpFalling:      glyph("@v", core.ColorBrightYellow),
			player.ActionJumpLanding:      glyph("@_", core.ColorBrightYellow),
		},
	}
}

var mirrored = map[rune]rune{'>': '<', '<': '>', '|': '|', '\\': '/', '/': '\\'}

// mirror flips a right-facing glyph.
func (gl Glyph) mirror() Glyph {
	a, b := gl.Runes[1], gl.Runes[0]
	if m, ok := mirrored[a]; ok {
		a = m
	}
	if m, ok := mirrored[b]; ok {
		b = m
	}
	return Glyph{Runes: [2]rune{a, b}, Color: gl.Color}
}

// SetGlyphs replaces the glyph set.
func (g *Game) SetGlyphs(gl Glyphs) { g.glyphs = gl }

// hudRows is the number of screen rows above the world view.
const hudRows = 1

// toScreen converts a world pixel position to a screen cell.
func (g *Game) toScreen(w core.Vec) (int, int) {
	ts := float64(g.level.TileSize())
	col := int(math.Floor((w.X - math.Floor(g.cam.X)) * 2 / ts))
	row := int(math.Floor((w.Y-math.Floor(g.cam.Y))/ts)) + hudRows
	return col, row
}

func (g *Game) drawGlyph(dst *core.Screen, w core.Vec, gl Glyph) {
	col, row := g.toScreen(w)
	if row < hudRows {
		return
	}
	for i, r := range gl.Runes {
		if r != ' ' {
			dst.SetColored(col+i, row, r, gl.Color)
		}
	}
}

// Render draws the map, the player and the HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.level == nil || g.body == nil {
		dst.DrawTextCentered(dst.Height()/2, "no map loaded", core.ColorBrightRed)
		return
	}

	for _, o := range g.level.Offgrid() {
		g.drawGlyph(dst, g.tileWorld(o.Pos), g.tileGlyph(tilemap.Tile{Kind: o.Kind, Variant: o.Variant, Rotation: o.Rotation}))
	}
	for _, t := range g.level.Tiles() {
		if t.Kind == tilemap.KindSpawners && !g.debug {
			continue
		}
		world := g.tileWorld(core.Vec{X: float64(t.Pos.X), Y: float64(t.Pos.Y)})
		if !g.onScreen(dst, world) {
			continue
		}
		g.drawGlyph(dst, world, g.tileGlyph(t))
	}

	pg, ok := g.glyphs.Player[g.body.Action()]
	if !ok {
		pg = g.glyphs.Player[player.ActionIdle]
	}
	if !g.body.FacingRight() {
		pg = pg.mirror()
	}
	g.drawGlyph(dst, g.body.Pos(), pg)

	if g.debug {
		g.renderDebug(dst)
	}
	g.renderHUD(dst)
}

func (g *Game) tileWorld(cell core.Vec) core.Vec {
	return cell.Scale(float64(g.level.TileSize()))
}

func (g *Game) onScreen(dst *core.Screen, w core.Vec) bool {
	col, row := g.toScreen(w)
	return col > -2 && col < dst.Width() && row >= hudRows && row < dst.Height()
}

func (g *Game) tileGlyph(t tilemap.Tile) Glyph {
	gl := g.glyphs
	switch t.Kind {
	case tilemap.KindSpikes:
		return gl.Spikes[(t.Rotation/90)%4]
	case tilemap.KindFinish:
		if t.Role == tilemap.RoleCompanion {
			return gl.Finish[1]
		}
		return gl.Finish[0]
	case tilemap.KindPortal:
		if t.Role == tilemap.RoleCompanion {
			return gl.Portal[1]
		}
		return gl.Portal[0]
	case tilemap.KindSpawners:
		return gl.Spawner
	}
	if top, ok := gl.Tops[t.Kind]; ok && g.level.NeighborsOf(t.Pos)&tilemap.NeighborUp == 0 {
		return top
	}
	if tg, ok := gl.Tiles[t.Kind]; ok {
		return tg
	}
	return gl.Unknown
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := " " + clock.Format(g.Elapsed())
	dst.DrawTextColored(0, 0, hud, core.ColorBrightWhite)

	name := "practice"
	if g.mapPath != "" {
		name = filepath.Base(g.mapPath)
	}
	right := fmt.Sprintf("%s  deaths %d ", name, g.deaths)
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorGray)

	if g.loadErr != nil {
		dst.DrawTextCentered(hudRows, g.loadErr.Error(), core.ColorBrightRed)
	}
}

// renderDebug marks hazard hitboxes near the body and prints body state.
func (g *Game) renderDebug(dst *core.Screen) {
	for _, it := range g.level.InteractiveRectsAround(g.body.Pos()) {
		c := core.ColorYellow
		switch it.Kind {
		case tilemap.KindFinish:
			c = core.ColorBrightGreen
		case tilemap.KindKill:
			c = core.ColorOrange
		}
		g.outline(dst, it.Rect, c)
	}
	g.outline(dst, g.body.Rect(), core.ColorRed)

	b := g.body
	line := fmt.Sprintf(" pos %.1f,%.1f vel %.2f,%.2f %s air %d",
		b.Pos().X, b.Pos().Y, b.Velocity().X, b.Velocity().Y, b.JumpState(), b.AirTime())
	dst.DrawTextColored(0, dst.Height()-1, line, core.ColorBrightYellow)
}

// outline recolors the cells a world rect covers without changing their runes.
func (g *Game) outline(dst *core.Screen, r core.Rect, c core.Color) {
	x0, y0 := g.toScreen(core.Vec{X: float64(r.X), Y: float64(r.Y)})
	x1, y1 := g.toScreen(core.Vec{X: float64(r.Right() - 1), Y: float64(r.Bottom() - 1)})
	for y := max(y0, hudRows); y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cell := dst.GetCell(x, y)
			ch := cell.Rune
			if ch == ' ' {
				ch = '·'
			}
			dst.SetColored(x, y, ch, c)
		}
	}
}
