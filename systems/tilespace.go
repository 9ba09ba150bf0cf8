package systems

import (
	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

const defaultTileSize = 16

// CreateTileMap adds the level grid singleton, seeded from the initial game
// data, and subscribes it to tile update events.
func CreateTileMap(w donburi.World, msg messages.InitialGameData) *donburi.Entry {
	size := msg.TileSize
	if size <= 0 {
		size = defaultTileSize
	}

	entry := w.Entry(w.Create(components.TileMap))
	tm := components.TileMap.Get(entry)
	tm.TileSize = size
	tm.Width = msg.Width
	tm.Height = msg.Height
	tm.Space = resolv.NewSpace(max(msg.Width, 1)*size, max(msg.Height, 1)*size, size, size)
	tm.Solids = make(map[components.TileKey]*resolv.Object)
	tm.Types = make(map[components.TileKey]uint16)

	for _, t := range msg.Tiles {
		SetTile(tm, t)
	}

	TileEvents.Subscribe(w, onTileUpdate)
	return entry
}

func onTileUpdate(w donburi.World, t messages.TileUpdate) {
	entry, ok := components.TileMap.First(w)
	if !ok {
		return
	}
	SetTile(components.TileMap.Get(entry), t)
}

// SetTile replaces one grid cell, adding or removing its collision object.
func SetTile(tm *components.TileMapData, t messages.TileUpdate) {
	key := components.TileKey{X: t.TileX, Y: t.TileY}
	tm.Types[key] = t.TileType

	obj, solid := tm.Solids[key]
	if t.Solid == solid {
		return
	}
	if !t.Solid {
		tm.Space.Remove(obj)
		delete(tm.Solids, key)
		return
	}

	size := float64(tm.TileSize)
	obj = resolv.NewObject(float64(t.TileX)*size, float64(t.TileY)*size, size, size, tags.ResolvSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, size, size))
	tm.Space.Add(obj)
	tm.Solids[key] = obj
}

func IsSolid(tm *components.TileMapData, tx, ty int) bool {
	_, ok := tm.Solids[components.TileKey{X: tx, Y: ty}]
	return ok
}
