package messages

import (
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// GameState is the per-tick snapshot body of a wire.KindGameState packet.
//
// Entities only lists entities with changes; an entity missing here is
// unchanged, not gone. Removals are always explicit.
type GameState struct {
	Tick     uint32
	Entities []EntityUpdate
	Removed  []Removal

	Hits  []HitEvent
	Heals []HealEvent
	Tiles []TileUpdate
	Chat  []ChatMessage
}

// EntityUpdate carries the msgpack-encoded components that changed for one
// entity. A newly visible entity carries every component it has.
type EntityUpdate struct {
	ID         esync.NetworkId
	Components map[netcomponents.ComponentID][]byte
}

// Removal drops an entity from the client. Destroyed distinguishes a death
// from simply leaving view range.
type Removal struct {
	ID        esync.NetworkId
	Destroyed bool
}

// HitEvent is sent when an attack connects
type HitEvent struct {
	AttackerID esync.NetworkId
	TargetID   esync.NetworkId
	Damage     int
	X, Y       float64
}

// HealEvent is sent when an entity regains health
type HealEvent struct {
	HealerID esync.NetworkId // 0 for natural regeneration
	TargetID esync.NetworkId
	Amount   int
}

// TileUpdate replaces one tile of the level grid.
type TileUpdate struct {
	TileX, TileY int
	Solid        bool
	TileType     uint16
}

// ChatMessage is a chat line, either standalone (wire.KindChat) or bundled in
// a game-state packet.
type ChatMessage struct {
	SenderID esync.NetworkId
	Sender   string
	Text     string
}
