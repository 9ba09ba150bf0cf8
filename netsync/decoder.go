package netsync

import (
	"fmt"

	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/protocol"
	"github.com/automoto/doomerang-netclient/shared/wire"
	"github.com/leap-fish/necs/esync"
)

// Decoder turns game-state packets into PacketSnapshots. Decoding never
// touches the entity store, so it can run before the game has started.
type Decoder struct {
	registry *protocol.Registry
}

func NewDecoder(registry *protocol.Registry) *Decoder {
	return &Decoder{registry: registry}
}

func (d *Decoder) Decode(data []byte) (*PacketSnapshot, error) {
	var gs messages.GameState
	if err := wire.Unmarshal(data, wire.KindGameState, &gs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return d.FromMessage(gs)
}

// FromMessage decodes the component blobs of an already unpacked game state.
func (d *Decoder) FromMessage(gs messages.GameState) (*PacketSnapshot, error) {
	entities := make([]EntityState, 0, len(gs.Entities))
	seen := make(map[esync.NetworkId]struct{}, len(gs.Entities))

	for _, ent := range gs.Entities {
		if _, dup := seen[ent.ID]; dup {
			return nil, fmt.Errorf("%w: tick %d: entity %d listed twice", ErrProtocolViolation, gs.Tick, ent.ID)
		}
		seen[ent.ID] = struct{}{}

		payload := make(EntityPayload, len(ent.Components))
		for id, raw := range ent.Components {
			b, ok := d.registry.Lookup(id)
			if !ok {
				return nil, fmt.Errorf("%w: tick %d: entity %d: unknown component id %d", ErrProtocolViolation, gs.Tick, ent.ID, id)
			}
			v, err := b.Decode(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: tick %d: entity %d: %v", ErrMalformedPacket, gs.Tick, ent.ID, err)
			}
			payload[id] = v
		}
		entities = append(entities, EntityState{ID: ent.ID, Components: payload})
	}

	events := Events{
		Hits:  gs.Hits,
		Heals: gs.Heals,
		Tiles: gs.Tiles,
		Chat:  gs.Chat,
	}
	return NewSnapshot(gs.Tick, entities, gs.Removed, events), nil
}
