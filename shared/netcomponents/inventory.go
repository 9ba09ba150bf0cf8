package netcomponents

import "github.com/yohamta/donburi"

type ItemSlot struct {
	ItemType uint16
	Count    uint32
}

// NetInventoryData is the full inventory of a player. Name identifies which
// inventory the slots belong to (e.g. "hotbar", "backpack"); the server only
// ever sends the local player's own inventory.
type NetInventoryData struct {
	Name  string
	Slots []ItemSlot
}

var NetInventory = donburi.NewComponentType[NetInventoryData]()
