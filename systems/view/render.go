package view

import (
	"image/color"
	"math"
	"strconv"

	"github.com/automoto/doomerang-netclient/components"
	cfg "github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/fonts"
	"github.com/automoto/doomerang-netclient/shared/netcomponents"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/filter"
)

var deathFadeQuery = donburi.NewQuery(filter.Contains(components.DeathFade))

// DrawTiles draws the solid cells of the level grid that are on screen.
func DrawTiles(e *ecs.ECS, screen *ebiten.Image) {
	tmEntry, ok := components.TileMap.First(e.World)
	if !ok {
		return
	}
	tm := components.TileMap.Get(tmEntry)
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	camX, camY := cameraOffset(e, width, height)
	size := float32(tm.TileSize)

	for key := range tm.Solids {
		x := float32(float64(key.X*tm.TileSize) + camX)
		y := float32(float64(key.Y*tm.TileSize) + camY)
		if x+size < 0 || y+size < 0 || x > float32(width) || y > float32(height) {
			continue
		}
		vector.FillRect(screen, x, y, size, size, cfg.UI.TileColor, false)
	}
}

// DrawNetworkEntities draws every networked entity at its render position:
// interpolated for remote entities, predicted for the local player.
func DrawNetworkEntities(e *ecs.ECS, screen *ebiten.Image) {
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	camX, camY := cameraOffset(e, width, height)
	w := float32(cfg.Player.Width)
	h := float32(cfg.Player.Height)
	smallFont := fonts.Small.Get()
	showIDs := cfg.Debug.Flags&netconfig.DebugOverlayEntityIDs != 0

	esync.NetworkEntityQuery.Each(e.World, func(entry *donburi.Entry) {
		px, py, ok := drawPosition(entry)
		if !ok {
			return
		}
		x := float32(px + camX)
		y := float32(py + camY)

		vector.FillRect(screen, x, y, w, h, entityColor(entry), false)

		if entry.HasComponent(netcomponents.NetPlayerState) {
			dir := float32(netcomponents.NetPlayerState.Get(entry).Direction) * 6
			vector.FillRect(screen, x+w/2+dir-2, y+h/3-2, 4, 4, cfg.White, false)
		}

		if entry.HasComponent(netcomponents.NetHealth) {
			hp := netcomponents.NetHealth.Get(entry)
			if hp.Max > 0 {
				ratio := float32(hp.Current) / float32(hp.Max)
				vector.FillRect(screen, x, y-5, w, 3, cfg.UI.HealthBarBg, false)
				vector.FillRect(screen, x, y-5, w*ratio, 3, cfg.UI.HealthBarFg, false)
			}
		}

		if showIDs {
			if nid := esync.GetNetworkId(entry); nid != nil {
				label := "ID:" + strconv.Itoa(int(*nid))
				text.Draw(screen, label, smallFont, int(x), int(y)-8, cfg.White)
			}
		}
	})
}

// drawPosition prefers the interpolated render position. The local player
// is predicted after render positions are computed, so it reads NetPosition.
func drawPosition(entry *donburi.Entry) (float64, float64, bool) {
	if !entry.HasComponent(tags.LocalPlayer) && entry.HasComponent(components.RenderPosition) {
		if rp := components.RenderPosition.Get(entry); rp.Valid {
			return rp.Position.X, rp.Position.Y, true
		}
	}
	if entry.HasComponent(netcomponents.NetPosition) {
		pos := netcomponents.NetPosition.Get(entry)
		return pos.X, pos.Y, true
	}
	return 0, 0, false
}

func entityColor(entry *donburi.Entry) color.RGBA {
	if entry.HasComponent(components.HitFlash) {
		if components.HitFlash.Get(entry).Heal {
			return cfg.LightGreen
		}
		return cfg.White
	}
	if entry.HasComponent(tags.LocalPlayer) {
		return cfg.BrightGreen
	}
	if nid := esync.GetNetworkId(entry); nid != nil {
		return playerColor(*nid)
	}
	return cfg.Grey
}

// playerColor spreads ids around the hue circle so neighbouring ids get
// distinct colours.
func playerColor(id esync.NetworkId) color.RGBA {
	pc := cfg.PlayerColors
	hue := math.Mod(float64(id)*pc.HueStep, 360)
	r, g, b := colorful.Hsv(hue, pc.Saturation, pc.Value).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// DrawDeathFades draws the shrinking markers left by destroyed entities.
func DrawDeathFades(e *ecs.ECS, screen *ebiten.Image) {
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	camX, camY := cameraOffset(e, width, height)
	w := float32(cfg.Player.Width)
	h := float32(cfg.Player.Height)

	deathFadeQuery.Each(e.World, func(entry *donburi.Entry) {
		fade := components.DeathFade.Get(entry)
		c := color.NRGBA{R: cfg.LightRed.R, G: cfg.LightRed.G, B: cfg.LightRed.B, A: uint8(255 * fade.Alpha)}
		sw, sh := w*fade.Scale, h*fade.Scale
		x := float32(fade.Position.X+camX) + (w-sw)/2
		y := float32(fade.Position.Y+camY) + (h - sh)
		vector.FillRect(screen, x, y, sw, sh, c, false)
	})
}
