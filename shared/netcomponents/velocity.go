package netcomponents

import "github.com/yohamta/donburi"

type NetVelocityData struct {
	SpeedX, SpeedY float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()
