package view

import (
	"fmt"
	"image/color"

	"github.com/automoto/doomerang-netclient/components"
	cfg "github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/fonts"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/tags"
	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// HUDStatus is the per-frame data the overlay shows. The scene fills it in.
type HUDStatus struct {
	Frame       netsync.FrameState
	Stats       netsync.Stats
	BufferDepth int
	Corrections int
	Sent        int
	ServerDebug string
	RxPackets   uint64
	RxBytes     uint64
	RxPerSecond uint64
}

// NewNetworkHUD returns a renderer drawing the connection line, the chat log
// and, when enabled, the sync and hitbox debug overlays.
func NewNetworkHUD(status func() HUDStatus) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		st := status()
		face := fonts.Regular.Get()
		lh := cfg.UI.LineHeight
		m := cfg.UI.Margin

		entityCount := 0
		esync.NetworkEntityQuery.Each(e.World, func(_ *donburi.Entry) {
			entityCount++
		})
		info := fmt.Sprintf("Online - Entities: %d", entityCount)
		if st.Stats.Paused {
			info += " - PAUSED"
		}
		if !st.Frame.Running {
			info += fmt.Sprintf(" - buffering %d/%d", st.Stats.BufferLen, st.BufferDepth)
		}
		text.Draw(screen, info, face, m, m+lh, cfg.UI.HUDTextColor)

		drawChat(e, screen)

		if cfg.Debug.Flags&netconfig.DebugOverlaySync != 0 {
			drawSyncOverlay(screen, st)
		}
		if cfg.Debug.Flags&netconfig.DebugOverlayHitboxes != 0 {
			drawHitboxes(e, screen)
		}
	}
}

func drawChat(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.ChatLog.First(e.World)
	if !ok {
		return
	}
	chat := components.ChatLog.Get(entry)
	face := fonts.Small.Get()
	lh := cfg.UI.LineHeight
	y := screen.Bounds().Dy() - cfg.UI.Margin - lh*len(chat.Lines)
	for _, line := range chat.Lines {
		y += lh
		text.Draw(screen, line.Sender+": "+line.Text, face, cfg.UI.Margin, y, cfg.UI.ChatColor)
	}
}

func drawSyncOverlay(screen *ebiten.Image, st HUDStatus) {
	lines := []string{
		fmt.Sprintf("client tick %.2f  render tick %.2f", st.Frame.ClientTick, st.Frame.RenderTick),
		fmt.Sprintf("dilation %.3f  fraction %.2f  promoted %d", st.Frame.Dilation, st.Frame.Fraction, st.Frame.Promoted),
		fmt.Sprintf("buffer %d %v", st.Stats.BufferLen, st.Stats.BufferTicks),
		fmt.Sprintf("interval %.1fms (%d samples)  queued %d  %s", st.Stats.IntervalMS, st.Stats.Samples, st.Stats.Queued, st.Stats.Visibility),
		fmt.Sprintf("applied %d  corrections %d  intentions %d", st.Stats.Applied, st.Corrections, st.Sent),
		fmt.Sprintf("rx %s in %s packets, %s/s", humanize.Bytes(st.RxBytes), humanize.Comma(int64(st.RxPackets)), humanize.Bytes(st.RxPerSecond)),
	}
	if st.Frame.Current != nil {
		lines = append(lines, fmt.Sprintf("current tick %d", st.Frame.Current.Tick()))
	}
	if st.ServerDebug != "" {
		lines = append(lines, st.ServerDebug)
	}

	face := fonts.Small.Get()
	lh := cfg.UI.LineHeight
	width := screen.Bounds().Dx()
	x := width/2 - 20
	y := cfg.UI.Margin

	vector.FillRect(screen, float32(x-cfg.UI.Margin), float32(y), float32(width-x), float32(lh*len(lines)+cfg.UI.Margin), cfg.BlackOverlay, false)
	for _, line := range lines {
		y += lh
		text.Draw(screen, line, face, x, y, cfg.White)
	}
}

// drawHitboxes outlines every object in the prediction collision space.
func drawHitboxes(e *ecs.ECS, screen *ebiten.Image) {
	tmEntry, ok := components.TileMap.First(e.World)
	if !ok {
		return
	}
	space := components.TileMap.Get(tmEntry).Space
	if space == nil {
		return
	}
	width, height := screen.Bounds().Dx(), screen.Bounds().Dy()
	camX, camY := cameraOffset(e, width, height)

	for _, obj := range space.Objects() {
		x := obj.X + camX
		y := obj.Y + camY
		if x+obj.W < 0 || y+obj.H < 0 || x > float64(width) || y > float64(height) {
			continue
		}

		var c color.RGBA
		switch {
		case obj.HasTags(tags.ResolvSolid):
			c = cfg.Grey
		case obj.HasTags(tags.ResolvPlayer):
			c = cfg.Blue
		default:
			c = color.RGBA{0, 255, 255, 255}
		}

		vector.FillRect(screen, float32(x), float32(y), float32(obj.W), 1, c, false)         // Top
		vector.FillRect(screen, float32(x), float32(y+obj.H-1), float32(obj.W), 1, c, false) // Bottom
		vector.FillRect(screen, float32(x), float32(y), 1, float32(obj.H), c, false)         // Left
		vector.FillRect(screen, float32(x+obj.W-1), float32(y), 1, float32(obj.H), c, false) // Right
	}
}
