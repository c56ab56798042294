package ascent

import (
	"github.com/vovakirdan/ascent/internal/games/ascent/tilemap"
)

const practiceFloorY = 8

// PracticeLevel builds the small map used when no map file is given: a floor
// with a step, a spike strip, a pit and the finish gate.
func PracticeLevel(tileSize int) *tilemap.Tilemap {
	m := tilemap.New(tileSize)

	for x := range 40 {
		if x >= 24 && x <= 25 {
			continue
		}
		m.Place(tilemap.NewTile(tilemap.KindGrass, 0, tilemap.GridPos{X: x, Y: practiceFloorY}))
	}
	for x := 24; x <= 25; x++ {
		m.Place(tilemap.NewTile(tilemap.KindKill, 0, tilemap.GridPos{X: x, Y: practiceFloorY + 1}))
	}
	for y := practiceFloorY - 6; y < practiceFloorY; y++ {
		m.Place(tilemap.NewTile(tilemap.KindStone, 0, tilemap.GridPos{X: -1, Y: y}))
	}
	m.Place(tilemap.NewTile(tilemap.KindStone, 0, tilemap.GridPos{X: 12, Y: practiceFloorY - 1}))
	m.Place(tilemap.NewTile(tilemap.KindStone, 0, tilemap.GridPos{X: 13, Y: practiceFloorY - 1}))
	m.Place(tilemap.NewTile(tilemap.KindStone, 0, tilemap.GridPos{X: 13, Y: practiceFloorY - 2}))

	for x := 18; x <= 19; x++ {
		if spike, err := tilemap.NewSpike(0, tilemap.GridPos{X: x, Y: practiceFloorY - 1}, 0); err == nil {
			m.Place(spike)
		}
	}

	m.Place(tilemap.NewTile(tilemap.KindSpawners, 0, tilemap.GridPos{X: 2, Y: practiceFloorY - 1}))
	m.PlaceMulti(tilemap.KindFinish, 0, tilemap.GridPos{X: 34, Y: practiceFloorY - 2})

	m.Autotile()
	m.RecomputeLowestY()
	return m
}
