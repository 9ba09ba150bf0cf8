package components

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

// RenderPositionData is where an entity is drawn this frame. It is derived
// from the applied snapshot and the interpolation window, never sent.
type RenderPositionData struct {
	Position math.Vec2
	Valid    bool
}

var RenderPosition = donburi.NewComponentType[RenderPositionData]()
