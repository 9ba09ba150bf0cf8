package view

import (
	"math"

	"github.com/automoto/doomerang-netclient/components"
	"github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

func CreateCamera(e *ecs.ECS) *donburi.Entry {
	return e.World.Entry(e.World.Create(components.Camera))
}

// UpdateCamera follows the local player's predicted position, clamped to the
// level bounds once the tile map is known.
func UpdateCamera(e *ecs.ECS) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)

	player, ok := tags.LocalPlayer.First(e.World)
	if !ok || !player.HasComponent(netcomponents.NetPosition) {
		return
	}
	pos := netcomponents.NetPosition.Get(player)
	targetX := pos.X + config.Player.Width/2
	targetY := pos.Y + config.Player.Height/2

	if tmEntry, ok := components.TileMap.First(e.World); ok {
		tm := components.TileMap.Get(tmEntry)
		levelW := float64(tm.Width * tm.TileSize)
		levelH := float64(tm.Height * tm.TileSize)
		targetX = clampAxis(targetX, float64(config.C.Width), levelW)
		targetY = clampAxis(targetY, float64(config.C.Height), levelH)
	}

	if !camera.Snapped {
		camera.Position.X, camera.Position.Y = targetX, targetY
		camera.Snapped = true
		return
	}

	// Smooth follow
	camera.Position.X += (targetX - camera.Position.X) * config.Camera.FollowSmoothing
	camera.Position.Y += (targetY - camera.Position.Y) * config.Camera.FollowSmoothing
}

// clampAxis keeps the view inside [0, level]. A level smaller than the
// screen is centred.
func clampAxis(target, visible, level float64) float64 {
	if level <= 0 {
		return target
	}
	lo, hi := visible/2, level-visible/2
	if lo > hi {
		return level / 2
	}
	return math.Max(lo, math.Min(hi, target))
}

// cameraOffset converts world coordinates to screen coordinates.
func cameraOffset(e *ecs.ECS, screenW, screenH int) (float64, float64) {
	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return 0, 0
	}
	camera := components.Camera.Get(cameraEntry)
	return float64(screenW)/2 - camera.Position.X, float64(screenH)/2 - camera.Position.Y
}
