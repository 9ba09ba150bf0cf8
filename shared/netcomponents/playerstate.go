package netcomponents

import "github.com/yohamta/donburi"

type NetPlayerStateData struct {
	Name         string
	Direction    int    // -1 left, 1 right
	LastSequence uint32 // Last intention sequence processed by the server (for prediction reconciliation)
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
