package systems

import (
	"testing"

	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

func TestRenderPositionInterpolatesRemoteEntities(t *testing.T) {
	w := donburi.NewWorld()
	a := NewStateApplier(w, nil, localID(1))
	require.NoError(t, a.Apply(snapshot(100, entity(1, pos(0, 0)), entity(2, pos(0, 0)), entity(3, pos(4, 4)))))

	next := snapshot(102, entity(1, pos(100, 0)), entity(2, pos(10, 20)))

	tests := []struct {
		name     string
		id       esync.NetworkId
		fraction float64
		want     math.Vec2
	}{
		{"remote halfway", 2, 0.5, math.NewVec2(5, 10)},
		{"remote at current", 2, 0, math.NewVec2(0, 0)},
		{"remote at next", 2, 1, math.NewVec2(10, 20)},
		{"local player uses prediction", 1, 0.5, math.NewVec2(0, 0)},
		{"not in next snapshot", 3, 0.5, math.NewVec2(4, 4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry := find(t, w, tc.id)
			got, ok := RenderPositionOf(entry, next, tc.fraction)
			assert.True(t, ok)
			assert.InDelta(t, tc.want.X, got.X, 1e-9)
			assert.InDelta(t, tc.want.Y, got.Y, 1e-9)
		})
	}
}

func TestRenderPositionWithoutPosition(t *testing.T) {
	w := donburi.NewWorld()
	a := NewStateApplier(w, nil, nil)
	require.NoError(t, a.Apply(snapshot(1, entity(9, health(1)))))

	_, ok := RenderPositionOf(find(t, w, 9), nil, 0.5)
	assert.False(t, ok)
}

func TestUpdateRenderPositions(t *testing.T) {
	w := donburi.NewWorld()
	a := NewStateApplier(w, nil, nil)
	current := snapshot(10, entity(1, pos(0, 0)))
	require.NoError(t, a.Apply(current))

	UpdateRenderPositions(w, netsync.FrameState{
		Current:  current,
		Next:     snapshot(12, entity(1, pos(8, 0))),
		Fraction: 0.25,
	})

	rp := components.RenderPosition.Get(find(t, w, 1))
	assert.True(t, rp.Valid)
	assert.InDelta(t, 2.0, rp.Position.X, 1e-9)

	// Starved window: next == current, frozen at the current position.
	UpdateRenderPositions(w, netsync.FrameState{Current: current, Next: current})
	assert.InDelta(t, 0.0, rp.Position.X, 1e-9)
	assert.Equal(t, pos(0, 0), *netcomponents.NetPosition.Get(find(t, w, 1)))
}
