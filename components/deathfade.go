package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// DeathFadeData is a short-lived visual left behind when a networked entity
// is destroyed. The entity itself is already gone from the world.
type DeathFadeData struct {
	Position math.Vec2
	Tween    *gween.Tween
	Alpha    float32
	Scale    float32
}

var DeathFade = donburi.NewComponentType[DeathFadeData]()
