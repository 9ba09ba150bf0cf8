package systems

import (
	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// RenderPositionOf returns where entry is drawn given the next snapshot of
// the interpolation window and the fraction towards it.
//
// The entity's NetPosition holds the value of the current (applied)
// snapshot. Remote entities move towards the position next carries for them;
// if next has no position for the entity it did not move. The local player
// is drawn at its predicted position.
func RenderPositionOf(entry *donburi.Entry, next *netsync.PacketSnapshot, fraction float64) (math.Vec2, bool) {
	if !entry.HasComponent(netcomponents.NetPosition) {
		return math.Vec2{}, false
	}
	from := *netcomponents.NetPosition.Get(entry)
	if entry.HasComponent(tags.LocalPlayer) || next == nil || fraction <= 0 {
		return math.NewVec2(from.X, from.Y), true
	}

	id := esync.GetNetworkId(entry)
	if id == nil {
		return math.NewVec2(from.X, from.Y), true
	}
	payload, ok := next.Entity(*id)
	if !ok {
		return math.NewVec2(from.X, from.Y), true
	}
	to, ok := payload[netcomponents.IDNetPosition].(netcomponents.NetPositionData)
	if !ok {
		return math.NewVec2(from.X, from.Y), true
	}

	p := netcomponents.LerpNetPosition(from, to, fraction)
	return math.NewVec2(p.X, p.Y), true
}

// UpdateRenderPositions refreshes RenderPosition on every networked entity.
// Call once per frame after the session selected its window.
func UpdateRenderPositions(w donburi.World, fs netsync.FrameState) {
	esync.NetworkEntityQuery.Each(w, func(entry *donburi.Entry) {
		if !entry.HasComponent(components.RenderPosition) {
			return
		}
		rp := components.RenderPosition.Get(entry)
		rp.Position, rp.Valid = RenderPositionOf(entry, fs.Next, fs.Fraction)
	})
}
