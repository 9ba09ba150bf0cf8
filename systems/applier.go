package systems

import (
	"fmt"
	"maps"
	"slices"

	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/shared/protocol"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// LocalReconciler receives the server's view of the local player after the
// rest of its state was applied. Position and velocity are never written
// directly: the reconciler decides whether local prediction needs correcting.
// vel is nil when the snapshot did not carry the velocity.
type LocalReconciler interface {
	ReconcileLocal(entry *donburi.Entry, server netcomponents.NetPositionData, vel *netcomponents.NetVelocityData, lastSeq uint32)
}

// StateApplier writes promoted snapshots onto the donburi world. It
// implements netsync.Applier.
type StateApplier struct {
	world      donburi.World
	registry   *protocol.Registry
	localID    func() esync.NetworkId
	reconciler LocalReconciler
}

func NewStateApplier(world donburi.World, registry *protocol.Registry, localID func() esync.NetworkId) *StateApplier {
	if registry == nil {
		registry = protocol.DefaultRegistry()
	}
	if localID == nil {
		localID = func() esync.NetworkId { return 0 }
	}
	return &StateApplier{world: world, registry: registry, localID: localID}
}

// SetReconciler attaches local prediction. May be nil.
func (a *StateApplier) SetReconciler(r LocalReconciler) {
	a.reconciler = r
}

func (a *StateApplier) Apply(s *netsync.PacketSnapshot) error {
	localID := a.localID()

	// Existence is checked per entity: an entity created earlier in this
	// pass is already visible to the ones after it.
	for _, ent := range s.Entities() {
		if err := a.applyEntity(ent, localID); err != nil {
			return fmt.Errorf("tick %d: %w", s.Tick(), err)
		}
	}

	for _, r := range s.Removed() {
		a.remove(r.ID, r.Destroyed, localID)
	}

	a.publish(s.Events())
	return nil
}

func (a *StateApplier) applyEntity(ent netsync.EntityState, localID esync.NetworkId) error {
	isLocal := localID != 0 && ent.ID == localID
	ids := slices.Sorted(maps.Keys(ent.Components))

	entity := esync.FindByNetworkId(a.world, ent.ID)
	if !a.world.Valid(entity) {
		return a.create(ent, ids, isLocal)
	}

	entry := a.world.Entry(entity)
	for _, id := range ids {
		b, ok := a.registry.Lookup(id)
		if !ok {
			return fmt.Errorf("%w: entity %d: unknown component id %d", netsync.ErrProtocolViolation, ent.ID, id)
		}
		value := ent.Components[id]

		if isLocal {
			if b.Predicted() {
				continue
			}
			if err := checkLocalInventory(entry, value); err != nil {
				return fmt.Errorf("entity %d: %w", ent.ID, err)
			}
		}

		if err := b.Write(entry, value); err != nil {
			return fmt.Errorf("%w: entity %d: %v", netsync.ErrProtocolViolation, ent.ID, err)
		}
		b.Hooks().OnApplied(entry, false)
	}

	if isLocal {
		a.reconcileLocal(entry, ent.Components)
	}
	return nil
}

// create builds an entity from its full payload. The local player takes its
// predicted components from the server once, as its spawn state.
func (a *StateApplier) create(ent netsync.EntityState, ids []netcomponents.ComponentID, isLocal bool) error {
	ctypes := []donburi.IComponentType{esync.NetworkIdComponent, components.RenderPosition}
	bindings := make([]protocol.Binding, 0, len(ids))
	for _, id := range ids {
		b, ok := a.registry.Lookup(id)
		if !ok {
			return fmt.Errorf("%w: entity %d: unknown component id %d", netsync.ErrProtocolViolation, ent.ID, id)
		}
		bindings = append(bindings, b)
		ctypes = append(ctypes, b.Type())
	}
	if isLocal {
		ctypes = append(ctypes, tags.LocalPlayer)
	}

	entry := a.world.Entry(a.world.Create(ctypes...))
	esync.NetworkIdComponent.SetValue(entry, ent.ID)

	for _, b := range bindings {
		if err := b.Write(entry, ent.Components[b.ID()]); err != nil {
			return fmt.Errorf("%w: entity %d: %v", netsync.ErrProtocolViolation, ent.ID, err)
		}
	}
	for _, b := range bindings {
		b.Hooks().OnApplied(entry, true)
	}
	return nil
}

func (a *StateApplier) reconcileLocal(entry *donburi.Entry, payload netsync.EntityPayload) {
	if a.reconciler == nil {
		return
	}
	pos, ok := payload[netcomponents.IDNetPosition].(netcomponents.NetPositionData)
	if !ok {
		return
	}
	var vel *netcomponents.NetVelocityData
	if v, ok := payload[netcomponents.IDNetVelocity].(netcomponents.NetVelocityData); ok {
		vel = &v
	}
	var lastSeq uint32
	if entry.HasComponent(netcomponents.NetPlayerState) {
		lastSeq = netcomponents.NetPlayerState.Get(entry).LastSequence
	}
	a.reconciler.ReconcileLocal(entry, pos, vel, lastSeq)
}

// checkLocalInventory rejects an inventory update that names a different
// inventory than the one the local player already holds.
func checkLocalInventory(entry *donburi.Entry, value any) error {
	inv, ok := value.(netcomponents.NetInventoryData)
	if !ok || !entry.HasComponent(netcomponents.NetInventory) {
		return nil
	}
	current := netcomponents.NetInventory.Get(entry)
	if current.Name != "" && current.Name != inv.Name {
		return fmt.Errorf("%w: local inventory %q updated as %q", netsync.ErrProtocolViolation, current.Name, inv.Name)
	}
	return nil
}

func (a *StateApplier) remove(id esync.NetworkId, destroyed bool, localID esync.NetworkId) {
	entity := esync.FindByNetworkId(a.world, id)
	if !a.world.Valid(entity) {
		return
	}
	entry := a.world.Entry(entity)

	evt := EntityRemoved{ID: id, Destroyed: destroyed, Local: localID != 0 && id == localID}
	if entry.HasComponent(netcomponents.NetPosition) {
		pos := netcomponents.NetPosition.Get(entry)
		evt.X, evt.Y, evt.HasPos = pos.X, pos.Y, true
	}

	entry.Remove()
	EntityRemovedEvents.Publish(a.world, evt)
}

func (a *StateApplier) publish(evts netsync.Events) {
	for _, h := range evts.Hits {
		HitEvents.Publish(a.world, h)
	}
	for _, h := range evts.Heals {
		HealEvents.Publish(a.world, h)
	}
	for _, t := range evts.Tiles {
		TileEvents.Publish(a.world, t)
	}
	for _, c := range evts.Chat {
		ChatEvents.Publish(a.world, c)
	}
}
