package scenes

import (
	"fmt"
	"log"
	"sync"

	cfg "github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/fonts"
	"github.com/automoto/doomerang-netclient/network"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
)

// PregameScene connects to the configured server and hands over to the
// networked scene. Failures stay on screen until the player retries.
type PregameScene struct {
	sceneChanger SceneChanger
	netClient    *network.Client
	lastErr      error
	once         sync.Once
}

// NewPregameScene creates the connection screen. lastErr is shown when the
// previous session ended in an error; it may be nil.
func NewPregameScene(sc SceneChanger, lastErr error) *PregameScene {
	return &PregameScene{sceneChanger: sc, lastErr: lastErr}
}

func (ps *PregameScene) Update() {
	ps.once.Do(func() {
		// Come back from a failed session without reconnecting on its own.
		if ps.lastErr == nil {
			ps.connect()
		}
	})

	if ps.netClient == nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			ps.lastErr = nil
			ps.connect()
		}
		return
	}

	switch ps.netClient.State() {
	case network.StateConnected:
		ps.saveSettings()
		client := ps.netClient
		ps.netClient = nil
		ps.sceneChanger.ChangeScene(NewNetworkedScene(ps.sceneChanger, client))

	case network.StateError, network.StateDisconnected:
		ps.lastErr = ps.netClient.LastError()
		if ps.lastErr == nil {
			ps.lastErr = network.ErrNotConnected
		}
		ps.netClient.Disconnect()
		ps.netClient = nil
	}
}

func (ps *PregameScene) connect() {
	log.Printf("[pregame] connecting to %s as %q", cfg.Network.ServerAddress, cfg.Network.PlayerName)
	ps.netClient = network.NewClient(netconfig.Sync.InboxSize)
	ps.netClient.Connect(cfg.Network.ServerAddress, cfg.Network.Version, cfg.Network.PlayerName)
}

func (ps *PregameScene) saveSettings() {
	saved, _ := systems.LoadSettings()
	if saved == nil {
		saved = &systems.SavedSettings{}
	}
	saved.ServerAddress = cfg.Network.ServerAddress
	saved.PlayerName = cfg.Network.PlayerName
	saved.DebugFlags = cfg.Debug.Flags
	_ = systems.SaveSettings(saved)
}

func (ps *PregameScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.UI.BackgroundColor)

	m := cfg.UI.Margin * 4
	text.Draw(screen, "doomerang", fonts.Title.Get(), m, m+24, cfg.White)

	face := fonts.Regular.Get()
	lh := cfg.UI.LineHeight
	y := m + 24 + lh*2

	if ps.netClient != nil {
		status := fmt.Sprintf("%s to %s...", ps.netClient.State(), cfg.Network.ServerAddress)
		text.Draw(screen, status, face, m, y, cfg.UI.HUDTextColor)
		return
	}
	if ps.lastErr != nil {
		text.Draw(screen, ps.lastErr.Error(), face, m, y, cfg.UI.ErrorColor)
		y += lh
	}
	text.Draw(screen, "Press Enter to connect", face, m, y+lh, cfg.White)
}
