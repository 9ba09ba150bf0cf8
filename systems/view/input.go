package view

import (
	"log"
	"time"

	cfg "github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/network"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

var polledActions = []netconfig.ActionID{
	netconfig.ActionMoveUp,
	netconfig.ActionJump,
	netconfig.ActionAttack,
	netconfig.ActionCrouch,
	netconfig.ActionUse,
}

type netInputState struct {
	seq        uint32
	ticker     systems.PredictionTicker
	last       messages.PlayerIntention
	lastUpdate time.Time
}

// NewNetworkInputSystem returns an ECS system that polls keyboard and gamepad
// input, predicts the local player once per client tick and hands the newest
// intention to the fixed-rate sender.
func NewNetworkInputSystem(sender *network.IntentionSender, prediction *systems.NetPrediction, frame func() netsync.FrameState) func(*ecs.ECS) {
	state := &netInputState{}

	return func(e *ecs.ECS) {
		now := time.Now()
		var delta time.Duration
		if !state.lastUpdate.IsZero() {
			delta = now.Sub(state.lastUpdate)
		}
		state.lastUpdate = now

		fs := frame()
		if !fs.Running {
			return
		}

		dir, actions := pollInput()
		for i := 0; i < state.ticker.Steps(fs.ClientTick); i++ {
			state.seq++
			intent := messages.NewPlayerIntention(state.seq)
			intent.Direction = dir
			for k, v := range actions {
				intent.Actions[k] = v
			}
			intent.Timestamp = now.UnixMilli()
			intent.ScreenWidth = cfg.C.Width
			intent.ScreenHeight = cfg.C.Height
			intent.DebugFlags = cfg.Debug.Flags

			prediction.PredictLocal(e.World, intent)
			state.last = intent
		}

		if state.seq == 0 {
			return
		}
		if _, err := sender.Update(delta, state.last); err != nil {
			log.Printf("[netinput] send error: %v", err)
		}
	}
}

func pollInput() (int, map[netconfig.ActionID]bool) {
	dir := 0
	leftPressed := actionPressed(netconfig.ActionMoveLeft)
	rightPressed := actionPressed(netconfig.ActionMoveRight)
	if leftPressed && !rightPressed {
		dir = -1
	} else if rightPressed && !leftPressed {
		dir = 1
	}

	actions := make(map[netconfig.ActionID]bool, len(polledActions))
	for _, a := range polledActions {
		if actionPressed(a) {
			actions[a] = true
		}
	}
	return dir, actions
}

func actionPressed(action netconfig.ActionID) bool {
	binding, ok := cfg.Input.Bindings[action]
	if !ok {
		return false
	}
	for _, k := range binding.Keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for _, b := range binding.StandardGamepadButtons {
			if ebiten.IsStandardGamepadButtonPressed(id, b) {
				return true
			}
		}
	}
	return false
}
