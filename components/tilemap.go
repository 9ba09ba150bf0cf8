package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

type TileKey struct {
	X, Y int
}

// TileMapData is the level grid as last reported by the server. Solid tiles
// live in Space so local prediction can collide against them.
type TileMapData struct {
	TileSize      int
	Width, Height int // in tiles
	Space         *resolv.Space
	Solids        map[TileKey]*resolv.Object
	Types         map[TileKey]uint16
}

var TileMap = donburi.NewComponentType[TileMapData]()
