package systems

import (
	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

const hitFlashFrames = 8

var hitFlashQuery = donburi.NewQuery(filter.Contains(components.HitFlash))

// RegisterEventHandlers subscribes the client-side reactions to snapshot
// events. Call once per world.
func RegisterEventHandlers(w donburi.World) {
	w.Entry(w.Create(components.ChatLog))

	HitEvents.Subscribe(w, onHit)
	HealEvents.Subscribe(w, onHeal)
	ChatEvents.Subscribe(w, onChat)
	EntityRemovedEvents.Subscribe(w, onEntityRemoved)
}

func onHit(w donburi.World, evt messages.HitEvent) {
	flash(w, evt.TargetID, false)
}

func onHeal(w donburi.World, evt messages.HealEvent) {
	flash(w, evt.TargetID, true)
}

func flash(w donburi.World, id esync.NetworkId, heal bool) {
	entity := esync.FindByNetworkId(w, id)
	if !w.Valid(entity) {
		return
	}
	entry := w.Entry(entity)
	if !entry.HasComponent(components.HitFlash) {
		entry.AddComponent(components.HitFlash)
	}
	components.HitFlash.SetValue(entry, components.HitFlashData{Frames: hitFlashFrames, Heal: heal})
}

func onChat(w donburi.World, msg messages.ChatMessage) {
	AppendChat(w, msg)
}

// AppendChat adds a line to the chat log, keeping the newest MaxChatLines.
func AppendChat(w donburi.World, msg messages.ChatMessage) {
	entry, ok := components.ChatLog.First(w)
	if !ok {
		return
	}
	chat := components.ChatLog.Get(entry)
	chat.Lines = append(chat.Lines, components.ChatLine{Sender: msg.Sender, Text: msg.Text})
	if n := len(chat.Lines) - components.MaxChatLines; n > 0 {
		chat.Lines = append(chat.Lines[:0], chat.Lines[n:]...)
	}
}

// UpdateHitFlashes counts flashes down once per frame.
func UpdateHitFlashes(w donburi.World) {
	var done []*donburi.Entry
	hitFlashQuery.Each(w, func(entry *donburi.Entry) {
		f := components.HitFlash.Get(entry)
		f.Frames--
		if f.Frames <= 0 {
			done = append(done, entry)
		}
	})
	for _, entry := range done {
		entry.RemoveComponent(components.HitFlash)
	}
}
