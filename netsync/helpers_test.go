package netsync

import (
	"testing"
	"time"

	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/shared/protocol"
	"github.com/automoto/doomerang-netclient/shared/wire"
	"github.com/leap-fish/necs/esync"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingApplier struct {
	ticks []uint32
	err   error
}

func (r *recordingApplier) Apply(s *PacketSnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.ticks = append(r.ticks, s.Tick())
	return nil
}

// testConfig uses one tick per send interval so ticks map 1:1 to packets.
func testConfig(depth int) netconfig.SyncConfig {
	cfg := netconfig.DefaultSync()
	cfg.TickRate = 30
	cfg.SendRate = 30
	cfg.BufferDepth = depth
	return cfg
}

func snap(tick uint32) *PacketSnapshot {
	return NewSnapshot(tick, nil, nil, Events{})
}

func bufferOf(ticks ...uint32) *SnapshotBuffer {
	b := NewSnapshotBuffer(2)
	for _, tick := range ticks {
		b.Push(snap(tick))
	}
	return b
}

func gameStatePacket(t *testing.T, gs messages.GameState) []byte {
	t.Helper()
	data, err := wire.Marshal(wire.KindGameState, gs)
	require.NoError(t, err)
	return data
}

func tickPacket(t *testing.T, tick uint32) []byte {
	t.Helper()
	return gameStatePacket(t, messages.GameState{Tick: tick})
}

func positionUpdate(t *testing.T, id esync.NetworkId, x, y float64) messages.EntityUpdate {
	t.Helper()
	comps, err := protocol.EncodeComponents(map[netcomponents.ComponentID]any{
		netcomponents.IDNetPosition: netcomponents.NetPositionData{X: x, Y: y},
	})
	require.NoError(t, err)
	return messages.EntityUpdate{ID: id, Components: comps}
}

func newTestSession(cfg netconfig.SyncConfig, applier Applier) *Session {
	return NewSession(Options{Config: cfg, Applier: applier})
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
