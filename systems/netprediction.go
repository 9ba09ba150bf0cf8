package systems

import (
	"log"
	"math"

	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/network"
	"github.com/automoto/doomerang-netclient/shared/gamemath"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// Client-side physics constants. They must match the server simulation.
const (
	predGravity      = 0.75
	predJumpSpeed    = 15.0
	predMaxSpeed     = 6.0
	predAcceleration = 0.75
	predFriction     = 0.5
	predMaxFallSpeed = 10.0
	predMaxVertSpeed = 16.0

	// Corrections smaller than this (in pixels) are left to converge on
	// their own.
	reconcileThreshold = 2.0
)

// NetPrediction owns client-side prediction state for the local player.
type NetPrediction struct {
	Buffer *network.PredictionBuffer

	VelX, VelY     float64
	OnGround       bool
	JumpWasPressed bool
	Corrections    int

	width, height float64

	// Collision against the server-reported tile grid
	Space     *resolv.Space
	PlayerObj *resolv.Object
}

func NewNetPrediction(width, height float64) *NetPrediction {
	return &NetPrediction{
		Buffer:   &network.PredictionBuffer{},
		OnGround: true,
		width:    width,
		height:   height,
	}
}

// InitCollision places the player's collision box in the tile space.
func (p *NetPrediction) InitCollision(tm *components.TileMapData, spawnX, spawnY float64) {
	if p.PlayerObj != nil && p.Space != nil {
		p.Space.Remove(p.PlayerObj)
	}
	p.Space = tm.Space
	p.PlayerObj = resolv.NewObject(spawnX, spawnY, p.width, p.height, tags.ResolvPlayer)
	p.PlayerObj.SetShape(resolv.NewRectangle(0, 0, p.width, p.height))
	p.Space.Add(p.PlayerObj)
}

// PredictStep applies one simulation tick of the given intention to pos and
// records the result for later reconciliation.
func (p *NetPrediction) PredictStep(intent messages.PlayerIntention, pos *netcomponents.NetPositionData) {
	p.step(intent, pos)
	p.Buffer.Store(intent, pos.X, pos.Y)
}

func (p *NetPrediction) step(intent messages.PlayerIntention, pos *netcomponents.NetPositionData) {
	if intent.Direction != 0 {
		p.VelX += float64(intent.Direction) * predAcceleration
	}

	// Jump is edge-triggered
	jumpPressed := intent.Actions[netconfig.ActionJump]
	if jumpPressed && !p.JumpWasPressed && p.OnGround {
		p.VelY = -predJumpSpeed
		p.OnGround = false
	}
	p.JumpWasPressed = jumpPressed

	if p.OnGround {
		p.VelX = gamemath.ApplyFriction(p.VelX, predFriction)
	}
	p.VelX = gamemath.ClampSpeed(p.VelX, predMaxSpeed)
	p.VelY = gamemath.ApplyGravity(p.VelY, predGravity, predMaxFallSpeed)

	if p.PlayerObj == nil {
		pos.X += p.VelX
		pos.Y += gamemath.ClampSpeed(p.VelY, predMaxVertSpeed)
		return
	}

	p.PlayerObj.X = pos.X
	p.PlayerObj.Y = pos.Y
	p.PlayerObj.Update()
	p.resolveHorizontal()
	p.resolveVertical()
	pos.X = p.PlayerObj.X
	pos.Y = p.PlayerObj.Y
}

func (p *NetPrediction) resolveHorizontal() {
	dx := p.VelX
	if dx == 0 {
		return
	}
	if check := p.PlayerObj.Check(dx, 0, tags.ResolvSolid); check != nil {
		if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
			dx = check.ContactWithObject(solids[0]).X()
			p.VelX = 0
		}
	}
	p.PlayerObj.X += dx
	p.PlayerObj.Update()
}

func (p *NetPrediction) resolveVertical() {
	dy := gamemath.ClampSpeed(p.VelY, predMaxVertSpeed)

	checkDist := dy
	if dy >= 0 {
		checkDist++
	}

	if check := p.PlayerObj.Check(0, checkDist, tags.ResolvSolid); check != nil {
		if solids := check.ObjectsByTags(tags.ResolvSolid); len(solids) > 0 {
			p.PlayerObj.Y += check.ContactWithObject(solids[0]).Y()
			p.PlayerObj.Update()
			p.VelY = 0
			// landing, or hitting a ceiling
			p.OnGround = dy >= 0
			return
		}
	}

	p.OnGround = false
	p.PlayerObj.Y += dy
	p.PlayerObj.Update()
}

// ReconcileLocal compares the server's position for the last acknowledged
// intention with what was predicted for it. On a mismatch the local player is
// moved to the server position and every unacknowledged intention is replayed
// from the server's velocity. A nil vel falls back to the last velocity the
// server reported for the entity.
func (p *NetPrediction) ReconcileLocal(entry *donburi.Entry, server netcomponents.NetPositionData, vel *netcomponents.NetVelocityData, lastSeq uint32) {
	if !entry.HasComponent(netcomponents.NetPosition) {
		return
	}
	pos := netcomponents.NetPosition.Get(entry)

	if vel != nil {
		if !entry.HasComponent(netcomponents.NetVelocity) {
			entry.AddComponent(netcomponents.NetVelocity)
		}
		netcomponents.NetVelocity.SetValue(entry, *vel)
	} else if entry.HasComponent(netcomponents.NetVelocity) {
		v := *netcomponents.NetVelocity.Get(entry)
		vel = &v
	}

	if lastSeq == 0 || p.Buffer.NextSeq() == 0 {
		// Nothing sent yet, the server state is the spawn state.
		p.Teleport(pos, server.X, server.Y)
		if vel != nil {
			p.VelX, p.VelY = vel.SpeedX, vel.SpeedY
			p.OnGround = math.Abs(vel.SpeedY) < 0.1
		}
		return
	}
	if _, ok := p.Buffer.Get(lastSeq); !ok {
		return
	}
	if p.Buffer.PredictionError(lastSeq, server.X, server.Y) < reconcileThreshold {
		return
	}

	replay := p.Buffer.GetUnacknowledged(lastSeq)
	p.Teleport(pos, server.X, server.Y)
	if vel != nil {
		p.VelX, p.VelY = vel.SpeedX, vel.SpeedY
	}
	for _, rec := range replay {
		p.PredictStep(rec.Intention, pos)
	}
	p.Corrections++
}

// ApplyForcePosition handles an explicit server correction: prediction
// history is discarded and the player is placed where the server says.
func (p *NetPrediction) ApplyForcePosition(w donburi.World, msg messages.ForcePosition) {
	entry, ok := tags.LocalPlayer.First(w)
	if !ok || !entry.HasComponent(netcomponents.NetPosition) {
		return
	}
	p.Buffer.Reset()
	p.VelX, p.VelY = 0, 0
	p.Teleport(netcomponents.NetPosition.Get(entry), msg.X, msg.Y)
	log.Printf("[prediction] forced to (%.1f, %.1f)", msg.X, msg.Y)
}

// ApplySync is a softer correction: it only moves the player when the
// predicted position is more than the reconcile threshold away.
func (p *NetPrediction) ApplySync(w donburi.World, msg messages.SyncData) {
	entry, ok := tags.LocalPlayer.First(w)
	if !ok || !entry.HasComponent(netcomponents.NetPosition) {
		return
	}
	pos := netcomponents.NetPosition.Get(entry)
	if math.Hypot(pos.X-msg.X, pos.Y-msg.Y) < reconcileThreshold {
		return
	}
	p.Teleport(pos, msg.X, msg.Y)
	p.Corrections++
}

func (p *NetPrediction) Teleport(pos *netcomponents.NetPositionData, x, y float64) {
	pos.X, pos.Y = x, y
	if p.PlayerObj != nil {
		p.PlayerObj.X = x
		p.PlayerObj.Y = y
		p.PlayerObj.Update()
	}
}

// maxPredictionSteps bounds how many ticks are predicted in one frame after
// a stall.
const maxPredictionSteps = 5

// PredictionTicker turns the fractional client tick into whole simulation
// steps, so local prediction runs at the server tick rate whatever the frame
// rate is.
type PredictionTicker struct {
	last    int64
	started bool
}

// Steps returns how many whole ticks were crossed since the previous call.
// The first call only records the starting tick.
func (t *PredictionTicker) Steps(clientTick float64) int {
	cur := int64(math.Floor(clientTick))
	if !t.started {
		t.started = true
		t.last = cur
		return 0
	}
	n := cur - t.last
	if n <= 0 {
		return 0
	}
	t.last = cur
	return int(min(n, maxPredictionSteps))
}

func (t *PredictionTicker) Reset() {
	*t = PredictionTicker{}
}

// PredictLocal runs one prediction step for the local player, if it exists
// yet, and turns it to face the input direction.
func (p *NetPrediction) PredictLocal(w donburi.World, intent messages.PlayerIntention) bool {
	entry, ok := tags.LocalPlayer.First(w)
	if !ok || !entry.HasComponent(netcomponents.NetPosition) {
		return false
	}
	p.PredictStep(intent, netcomponents.NetPosition.Get(entry))

	if intent.Direction != 0 && entry.HasComponent(netcomponents.NetPlayerState) {
		netcomponents.NetPlayerState.Get(entry).Direction = intent.Direction
	}
	return true
}
