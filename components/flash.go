package components

import "github.com/yohamta/donburi"

// HitFlashData tints an entity for a few frames after it takes damage or
// is healed.
type HitFlashData struct {
	Frames int
	Heal   bool
}

var HitFlash = donburi.NewComponentType[HitFlashData]()
