package systems

import (
	"testing"

	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func intent(seq uint32, dir int) messages.PlayerIntention {
	i := messages.NewPlayerIntention(seq)
	i.Direction = dir
	return i
}

func TestPredictionLandsOnTiles(t *testing.T) {
	w := donburi.NewWorld()
	tm := components.TileMap.Get(CreateTileMap(w, messages.InitialGameData{
		TileSize: 16, Width: 20, Height: 12,
		Tiles: floorTiles(10, 20),
	}))

	p := NewNetPrediction(16, 16)
	p.InitCollision(tm, 64, 100)

	position := pos(64, 100)
	for seq := uint32(1); seq <= 60; seq++ {
		p.PredictStep(intent(seq, 0), &position)
	}

	assert.True(t, p.OnGround)
	assert.InDelta(t, 160-16, position.Y, 1)
	assert.Equal(t, 64.0, position.X)
	assert.Equal(t, uint32(61), p.Buffer.NextSeq())
}

func TestPredictionJumpIsEdgeTriggered(t *testing.T) {
	p := NewNetPrediction(16, 16)
	position := pos(0, 0)

	jump := intent(1, 0)
	jump.Actions[netconfig.ActionJump] = true
	p.PredictStep(jump, &position)
	assert.False(t, p.OnGround)
	assert.Less(t, p.VelY, 0.0)

	// Holding jump after landing does not jump again.
	p.OnGround = true
	p.VelY = 0
	held := intent(2, 0)
	held.Actions[netconfig.ActionJump] = true
	p.PredictStep(held, &position)
	assert.Greater(t, p.VelY, 0.0)
}

func TestReconcileWithinThresholdKeepsPrediction(t *testing.T) {
	p := NewNetPrediction(16, 16)
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(netcomponents.NetPosition))
	position := netcomponents.NetPosition.Get(entry)

	for seq := uint32(1); seq <= 5; seq++ {
		p.PredictStep(intent(seq, 1), position)
	}
	before := *position
	rec, ok := p.Buffer.Get(3)
	require.True(t, ok)

	p.ReconcileLocal(entry, pos(rec.PredictedX+1, rec.PredictedY), nil, 3)

	assert.Equal(t, before, *position)
	assert.Equal(t, 0, p.Corrections)
}

func TestReconcileReplaysUnacknowledged(t *testing.T) {
	p := NewNetPrediction(16, 16)
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(netcomponents.NetPosition))
	position := netcomponents.NetPosition.Get(entry)

	for seq := uint32(1); seq <= 5; seq++ {
		p.PredictStep(intent(seq, 1), position)
	}
	before := *position

	p.ReconcileLocal(entry, pos(-100, 0), nil, 3)

	assert.Equal(t, 1, p.Corrections)
	assert.NotEqual(t, before, *position)
	assert.Less(t, position.X, 0.0)
	rec, ok := p.Buffer.Get(5)
	require.True(t, ok)
	assert.Equal(t, position.X, rec.PredictedX, "replayed intentions are re-recorded")
}

func TestReconcileReplaysFromServerVelocity(t *testing.T) {
	w := donburi.NewWorld()
	p := NewNetPrediction(16, 16)
	a := NewStateApplier(w, nil, localID(3))
	a.SetReconciler(p)

	require.NoError(t, a.Apply(snapshot(1, entity(3, pos(0, 0), netcomponents.NetVelocityData{}))))
	entry := find(t, w, 3)
	position := netcomponents.NetPosition.Get(entry)
	for seq := uint32(1); seq <= 5; seq++ {
		p.PredictStep(intent(seq, 0), position)
	}
	require.Equal(t, 0.0, position.X)

	err := a.Apply(snapshot(2, entity(3,
		pos(100, 0),
		netcomponents.NetVelocityData{SpeedX: 5},
		netcomponents.NetPlayerStateData{LastSequence: 3},
	)))
	require.NoError(t, err)

	// Intentions 4 and 5 replayed on the ground from SpeedX 5: 4.5 then 4.
	assert.Equal(t, 1, p.Corrections)
	assert.InDelta(t, 108.5, position.X, 1e-9)
	assert.Equal(t, netcomponents.NetVelocityData{SpeedX: 5}, *netcomponents.NetVelocity.Get(entry))
}

func TestReconcileWithoutVelocityUsesLastServerVelocity(t *testing.T) {
	p := NewNetPrediction(16, 16)
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(netcomponents.NetPosition, netcomponents.NetVelocity))
	netcomponents.NetVelocity.SetValue(entry, netcomponents.NetVelocityData{SpeedX: -3})
	position := netcomponents.NetPosition.Get(entry)

	for seq := uint32(1); seq <= 4; seq++ {
		p.PredictStep(intent(seq, 0), position)
	}
	p.VelX = 0

	p.ReconcileLocal(entry, pos(50, 0), nil, 3)

	assert.InDelta(t, 47.5, position.X, 1e-9)
}

func TestReconcileSpawnTakesServerVelocity(t *testing.T) {
	p := NewNetPrediction(16, 16)
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(netcomponents.NetPosition))

	p.ReconcileLocal(entry, pos(30, 40), &netcomponents.NetVelocityData{SpeedX: 2, SpeedY: 4}, 0)
	assert.Equal(t, 2.0, p.VelX)
	assert.Equal(t, 4.0, p.VelY)
	assert.False(t, p.OnGround, "falling at spawn")

	p.ReconcileLocal(entry, pos(30, 40), &netcomponents.NetVelocityData{SpeedX: 1}, 0)
	assert.True(t, p.OnGround)
	assert.True(t, entry.HasComponent(netcomponents.NetVelocity))
}

func TestReconcileBeforeFirstIntentionTakesServerPosition(t *testing.T) {
	p := NewNetPrediction(16, 16)
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(netcomponents.NetPosition))

	p.ReconcileLocal(entry, pos(30, 40), nil, 0)

	assert.Equal(t, pos(30, 40), *netcomponents.NetPosition.Get(entry))
}

func TestForcePositionAndSync(t *testing.T) {
	w := donburi.NewWorld()
	entry := w.Entry(w.Create(esync.NetworkIdComponent, netcomponents.NetPosition, tags.LocalPlayer))
	p := NewNetPrediction(16, 16)
	p.PredictStep(intent(1, 1), netcomponents.NetPosition.Get(entry))

	p.ApplyForcePosition(w, messages.ForcePosition{X: 5, Y: 6})
	assert.Equal(t, pos(5, 6), *netcomponents.NetPosition.Get(entry))
	_, ok := p.Buffer.Get(1)
	assert.False(t, ok, "history discarded")

	p.ApplySync(w, messages.SyncData{X: 6, Y: 6})
	assert.Equal(t, pos(5, 6), *netcomponents.NetPosition.Get(entry), "inside threshold")
	assert.Equal(t, 0, p.Corrections)

	p.ApplySync(w, messages.SyncData{X: 50, Y: 6})
	assert.Equal(t, pos(50, 6), *netcomponents.NetPosition.Get(entry))
	assert.Equal(t, 1, p.Corrections)
}

func TestPredictionTickerSteps(t *testing.T) {
	var ticker PredictionTicker

	assert.Equal(t, 0, ticker.Steps(100.4), "first call records the start")
	assert.Equal(t, 0, ticker.Steps(100.9))
	assert.Equal(t, 1, ticker.Steps(101.1))
	assert.Equal(t, 2, ticker.Steps(103.0))
	assert.Equal(t, 0, ticker.Steps(102.5), "never steps backwards")
	assert.Equal(t, maxPredictionSteps, ticker.Steps(160), "capped after a stall")
	assert.Equal(t, 1, ticker.Steps(161))

	ticker.Reset()
	assert.Equal(t, 0, ticker.Steps(5))
}

func TestPredictLocal(t *testing.T) {
	w := donburi.NewWorld()
	p := NewNetPrediction(16, 16)

	assert.False(t, p.PredictLocal(w, intent(1, 1)), "no local player yet")

	entry := w.Entry(w.Create(netcomponents.NetPosition, netcomponents.NetPlayerState, tags.LocalPlayer))
	assert.True(t, p.PredictLocal(w, intent(2, -1)))

	assert.Equal(t, -1, netcomponents.NetPlayerState.Get(entry).Direction)
	assert.Less(t, netcomponents.NetPosition.Get(entry).X, 0.0)
	assert.Equal(t, uint32(3), p.Buffer.NextSeq())
}
