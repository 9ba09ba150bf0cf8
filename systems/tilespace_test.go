package systems

import (
	"testing"

	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func floorTiles(y, width int) []messages.TileUpdate {
	tiles := make([]messages.TileUpdate, 0, width)
	for x := 0; x < width; x++ {
		tiles = append(tiles, messages.TileUpdate{TileX: x, TileY: y, Solid: true, TileType: 1})
	}
	return tiles
}

func TestCreateTileMapFromInitialData(t *testing.T) {
	w := donburi.NewWorld()
	entry := CreateTileMap(w, messages.InitialGameData{
		TileSize: 16, Width: 10, Height: 12,
		Tiles: floorTiles(10, 10),
	})
	tm := components.TileMap.Get(entry)

	assert.Equal(t, 16, tm.TileSize)
	assert.Len(t, tm.Solids, 10)
	assert.Len(t, tm.Space.Objects(), 10)
	assert.True(t, IsSolid(tm, 3, 10))
	assert.False(t, IsSolid(tm, 3, 9))
}

func TestTileUpdatesFromSnapshots(t *testing.T) {
	w := donburi.NewWorld()
	entry := CreateTileMap(w, messages.InitialGameData{Width: 4, Height: 4, Tiles: floorTiles(3, 4)})
	tm := components.TileMap.Get(entry)
	assert.Equal(t, defaultTileSize, tm.TileSize)

	a := NewStateApplier(w, nil, nil)
	s := netsync.NewSnapshot(1, nil, nil, netsync.Events{Tiles: []messages.TileUpdate{
		{TileX: 1, TileY: 3, Solid: false},
		{TileX: 0, TileY: 0, Solid: true, TileType: 7},
		{TileX: 0, TileY: 0, Solid: true, TileType: 7},
	}})
	require.NoError(t, a.Apply(s))
	assert.True(t, IsSolid(tm, 1, 3), "applied only when events are processed")

	events.ProcessAllEvents(w)

	assert.False(t, IsSolid(tm, 1, 3))
	assert.True(t, IsSolid(tm, 0, 0))
	assert.Equal(t, uint16(7), tm.Types[components.TileKey{X: 0, Y: 0}])
	assert.Len(t, tm.Space.Objects(), 4)
}
