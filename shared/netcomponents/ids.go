package netcomponents

// ComponentID identifies a synced component on the wire. IDs are part of the
// protocol and must never be reused.
type ComponentID uint16

const (
	IDNetPosition      ComponentID = 10
	IDNetVelocity      ComponentID = 11
	IDNetPlayerState   ComponentID = 12
	IDNetHealth        ComponentID = 13
	IDNetStatusEffects ComponentID = 14
	IDNetInventory     ComponentID = 15
)
