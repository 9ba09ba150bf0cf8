package components

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// CameraData is the world position at the centre of the screen.
type CameraData struct {
	Position math.Vec2
	Snapped  bool // false until the first follow target was found
}

var Camera = donburi.NewComponentType[CameraData]()
