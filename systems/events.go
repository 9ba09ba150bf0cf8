package systems

import (
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi/features/events"
)

// EntityRemoved is published for every explicit removal in a snapshot.
// Destroyed separates deaths (teardown effects) from entities that simply
// left view range.
type EntityRemoved struct {
	ID        esync.NetworkId
	Destroyed bool
	Local     bool
	// Last known position, if the entity had one.
	X, Y   float64
	HasPos bool
}

// One-shot snapshot events. They are published when a snapshot is applied
// and delivered once by events.ProcessAllEvents at the end of the frame.
var (
	HitEvents           = events.NewEventType[messages.HitEvent]()
	HealEvents          = events.NewEventType[messages.HealEvent]()
	TileEvents          = events.NewEventType[messages.TileUpdate]()
	ChatEvents          = events.NewEventType[messages.ChatMessage]()
	EntityRemovedEvents = events.NewEventType[EntityRemoved]()
)
