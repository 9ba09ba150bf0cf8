package netcomponents

import "github.com/yohamta/donburi"

type NetHealthData struct {
	Current int
	Max     int
}

var NetHealth = donburi.NewComponentType[NetHealthData]()

// StatusEffect is one active buff/debuff on an entity.
type StatusEffect struct {
	Type      uint8
	TicksLeft uint32
	Intensity float64
}

type NetStatusEffectsData struct {
	Effects []StatusEffect
}

var NetStatusEffects = donburi.NewComponentType[NetStatusEffectsData]()
