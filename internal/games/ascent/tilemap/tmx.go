package tilemap

import (
	"fmt"
	"io/fs"
	"math"

	"github.com/lafriks/go-tiled"
)

// Tiled layer and object group names recognized by ImportTMX.
const (
	tmxTileLayer  = "tiles"
	tmxSpawnGroup = "spawn"
)

// ImportTMX converts a Tiled map into a Tilemap. Each tileset tile carries a
// "kind" property plus optional "variant" and "rotation"; the first object of
// the "spawn" group becomes the spawner. It takes an fs.FS so callers can pass
// embed.FS or os.DirFS. Terrain is autotiled after import.
func ImportTMX(fsys fs.FS, tmxPath string, tileSize int) (*Tilemap, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("tilemap: load TMX %s: %w", tmxPath, err)
	}

	m := New(tileSize)
	imported := 0
	for _, layer := range levelMap.Layers {
		if layer.Name != tmxTileLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				lt := layer.Tiles[y*levelMap.Width+x]
				if lt.IsNil() {
					continue
				}
				tt, err := lt.Tileset.GetTilesetTile(lt.ID)
				if err != nil {
					continue
				}
				kind := Kind(tt.Properties.GetString("kind"))
				if kind == "" {
					continue
				}
				pos := GridPos{X: x, Y: y}
				variant := tt.Properties.GetInt("variant")

				if kind.IsMultiCell() {
					// Two-cell sprites are usually painted on both rows.
					if up, ok := m.grid[pos.Above()]; ok && up.Kind == kind && up.Role == RoleAnchor {
						continue
					}
					if err := m.PlaceMulti(kind, variant, pos); err != nil {
						return nil, fmt.Errorf("tilemap: %s cell %s: %w", tmxPath, pos.Key(), err)
					}
					imported++
					continue
				}

				t := Tile{Kind: kind, Variant: variant, Pos: pos}
				if kind == KindSpikes {
					t.Rotation = tt.Properties.GetInt("rotation")
				}
				if err := m.Place(t); err != nil {
					return nil, fmt.Errorf("tilemap: %s cell %s: %w", tmxPath, pos.Key(), err)
				}
				imported++
			}
		}
		break
	}
	if imported == 0 {
		return nil, fmt.Errorf("%w: %s has no %q layer tiles", ErrInvalidMap, tmxPath, tmxTileLayer)
	}

	for _, og := range levelMap.ObjectGroups {
		if og.Name != tmxSpawnGroup || len(og.Objects) == 0 {
			continue
		}
		o := og.Objects[0]
		cell := GridPos{
			X: int(math.Floor(o.X / float64(levelMap.TileWidth))),
			Y: int(math.Floor(o.Y / float64(levelMap.TileHeight))),
		}
		if err := m.Place(NewTile(KindSpawners, 0, cell)); err != nil {
			return nil, err
		}
	}

	m.Autotile()
	m.RecomputeLowestY()
	return m, nil
}
