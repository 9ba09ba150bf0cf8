package view

import (
	"time"

	cfg "github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi/ecs"
)

// NewEffectsSystem advances the frame-based visual effects: death fades by
// wall time, hit flashes by frame.
func NewEffectsSystem() func(*ecs.ECS) {
	var last time.Time
	return func(e *ecs.ECS) {
		now := time.Now()
		var dt float32
		if !last.IsZero() {
			dt = float32(now.Sub(last).Seconds())
		}
		last = now

		systems.UpdateDeathFades(e.World, dt)
		systems.UpdateHitFlashes(e.World)
	}
}

// UpdateDebugToggles flips debug overlays on their function keys.
func UpdateDebugToggles(_ *ecs.ECS) {
	toggle := func(key ebiten.Key, flag netconfig.DebugFlags) {
		if inpututil.IsKeyJustPressed(key) {
			cfg.Debug.Flags ^= flag
		}
	}
	toggle(cfg.Debug.SyncKey, netconfig.DebugOverlaySync)
	toggle(cfg.Debug.HitboxKey, netconfig.DebugOverlayHitboxes)
	toggle(cfg.Debug.EntityIDKey, netconfig.DebugOverlayEntityIDs)
}
