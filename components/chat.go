package components

import "github.com/yohamta/donburi"

const MaxChatLines = 8

type ChatLine struct {
	Sender string
	Text   string
}

type ChatLogData struct {
	Lines []ChatLine
}

var ChatLog = donburi.NewComponentType[ChatLogData]()
