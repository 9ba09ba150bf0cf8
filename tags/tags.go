package tags

import "github.com/yohamta/donburi"

// LocalPlayer marks the entity driven by local prediction.
var LocalPlayer = donburi.NewTag().SetName("LocalPlayer")

// Resolv tags for prediction collision
const (
	ResolvSolid  = "solid"
	ResolvPlayer = "Player"
)
