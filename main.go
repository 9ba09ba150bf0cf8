package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/fonts"
	"github.com/automoto/doomerang-netclient/scenes"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame() *Game {
	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewPregameScene(g, nil)
	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	addr := flag.String("addr", config.Network.ServerAddress, "server address (host:port)")
	name := flag.String("name", config.Network.PlayerName, "player name")
	debug := flag.Bool("debug", false, "show the sync debug overlay")
	tickRate := flag.Float64("tickrate", netconfig.Sync.TickRate, "nominal server tick rate until the server announces its own")
	sendRate := flag.Float64("sendrate", netconfig.Sync.SendRate, "nominal snapshot send rate until the server announces its own")
	buffer := flag.Int("buffer", netconfig.Sync.BufferDepth, "snapshot buffer depth")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Initialize persistence and load saved settings. Flags win over them.
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	saved, err := systems.LoadSettings()
	if err != nil {
		saved = nil
	}
	if saved != nil {
		if saved.ServerAddress != "" {
			config.Network.ServerAddress = saved.ServerAddress
		}
		if saved.PlayerName != "" {
			config.Network.PlayerName = saved.PlayerName
		}
		config.Debug.Flags = saved.DebugFlags
		netconfig.Sync = systems.ApplyTuning(saved, netconfig.Sync)
		if saved.Fullscreen {
			ebiten.SetFullscreen(true)
		}
	}

	if set["addr"] {
		config.Network.ServerAddress = *addr
	}
	if set["name"] {
		config.Network.PlayerName = *name
	}
	if *debug {
		config.Debug.Flags |= netconfig.DebugOverlaySync
	}
	if set["tickrate"] && *tickRate > 0 {
		netconfig.Sync.TickRate = *tickRate
	}
	if set["sendrate"] && *sendRate > 0 {
		netconfig.Sync.SendRate = *sendRate
	}
	if set["buffer"] && *buffer > 0 {
		netconfig.Sync.BufferDepth = *buffer
	}

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	ebiten.SetWindowSize(config.C.Width*2, config.C.Height*2)
	ebiten.SetWindowTitle("doomerang")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// Keep receiving while unfocused; the session suspends itself instead.
	ebiten.SetRunnableOnUnfocused(true)
	// One Update per displayed frame, so the client clock sees real frame times.
	ebiten.SetTPS(ebiten.SyncWithFPS)

	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
