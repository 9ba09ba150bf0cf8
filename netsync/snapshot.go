package netsync

import (
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// EntityPayload holds the decoded component values sent for one entity.
type EntityPayload map[netcomponents.ComponentID]any

// EntityState is one entity of a snapshot, in wire order.
type EntityState struct {
	ID         esync.NetworkId
	Components EntityPayload
}

// Events are the one-shot lists of a snapshot. They are dispatched once when
// the snapshot is promoted and never replayed.
type Events struct {
	Hits  []messages.HitEvent
	Heals []messages.HealEvent
	Tiles []messages.TileUpdate
	Chat  []messages.ChatMessage
}

func (e Events) Empty() bool {
	return len(e.Hits) == 0 && len(e.Heals) == 0 && len(e.Tiles) == 0 && len(e.Chat) == 0
}

// PacketSnapshot is the decoded state of the world as of one server tick.
// It is immutable once built; callers must not modify returned payloads.
type PacketSnapshot struct {
	tick     uint32
	entities []EntityState
	byID     map[esync.NetworkId]int
	removed  []messages.Removal
	events   Events
}

// NewSnapshot builds a snapshot. Entity IDs must be unique.
func NewSnapshot(tick uint32, entities []EntityState, removed []messages.Removal, events Events) *PacketSnapshot {
	s := &PacketSnapshot{
		tick:     tick,
		entities: entities,
		byID:     make(map[esync.NetworkId]int, len(entities)),
		removed:  removed,
		events:   events,
	}
	for i, e := range entities {
		s.byID[e.ID] = i
	}
	return s
}

func (s *PacketSnapshot) Tick() uint32 {
	return s.tick
}

// Entities returns the entity updates in the order the server sent them.
func (s *PacketSnapshot) Entities() []EntityState {
	return s.entities
}

// Entity returns the payload sent for id, if any.
func (s *PacketSnapshot) Entity(id esync.NetworkId) (EntityPayload, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return s.entities[i].Components, true
}

func (s *PacketSnapshot) Removed() []messages.Removal {
	return s.removed
}

func (s *PacketSnapshot) Events() Events {
	return s.events
}
