package scenes

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/automoto/doomerang-netclient/components"
	cfg "github.com/automoto/doomerang-netclient/config"
	"github.com/automoto/doomerang-netclient/netsync"
	"github.com/automoto/doomerang-netclient/network"
	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/systems"
	"github.com/automoto/doomerang-netclient/systems/view"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"github.com/yohamta/donburi/features/events"
)

var errDisconnected = errors.New("disconnected from server")

// trafficWindow is the bandwidth sampling period on the debug overlay, in
// seconds of client time. Keep it at one so a window reads as bytes/s.
const trafficWindow = 1.0

// NetworkedScene drives one connection: it feeds received packets and frame
// times into the session, then runs the ECS systems on the applied state.
type NetworkedScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	session      *netsync.Session
	prediction   *systems.NetPrediction
	sender       *network.IntentionSender
	once         sync.Once

	frame       netsync.FrameState
	rxMeter     network.TrafficMeter
	localID     esync.NetworkId
	serverDebug string
}

func NewNetworkedScene(sc SceneChanger, client *network.Client) *NetworkedScene {
	return &NetworkedScene{
		sceneChanger: sc,
		netClient:    client,
		prediction:   systems.NewNetPrediction(cfg.Player.Width, cfg.Player.Height),
	}
}

func (ns *NetworkedScene) Update() {
	ns.once.Do(ns.configure)

	if err := ns.pump(time.Now()); err != nil {
		ns.leave(err)
		return
	}

	switch ns.netClient.State() {
	case network.StateDisconnected, network.StateError:
		err := ns.netClient.LastError()
		if err == nil {
			err = errDisconnected
		}
		ns.leave(err)
		return
	}

	ns.ecsWorld.Update()
	events.ProcessAllEvents(ns.ecsWorld.World)
}

// pump hands the packets received since the last frame to the session in
// arrival order, then advances the session by one frame.
func (ns *NetworkedScene) pump(now time.Time) error {
	for _, in := range ns.netClient.Drain() {
		if err := ns.session.HandlePacket(in.Data, in.At); err != nil {
			return err
		}
	}
	if err := ns.session.SetVisible(ebiten.IsFocused(), now); err != nil {
		return err
	}

	fs, err := ns.session.Frame(now)
	if err != nil {
		return err
	}
	ns.frame = fs
	_, rx := ns.netClient.Traffic()
	ns.rxMeter.Update(ns.session.HasIntervalElapsed(trafficWindow), rx)
	systems.UpdateRenderPositions(ns.ecsWorld.World, fs)
	return nil
}

func (ns *NetworkedScene) leave(err error) {
	log.Printf("[networked] leaving session: %v", err)
	ns.session.Close()
	ns.netClient.Disconnect()
	ns.sceneChanger.ChangeScene(NewPregameScene(ns.sceneChanger, err))
}

func (ns *NetworkedScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.UI.BackgroundColor)

	if ns.ecsWorld == nil {
		return
	}
	ns.ecsWorld.Draw(screen)
}

func (ns *NetworkedScene) configure() {
	ns.ecsWorld = ecs.NewECS(donburi.NewWorld())
	world := ns.ecsWorld.World

	systems.RegisterEventHandlers(world)
	view.CreateCamera(ns.ecsWorld)

	applier := systems.NewStateApplier(world, nil, func() esync.NetworkId { return ns.localID })
	applier.SetReconciler(ns.prediction)

	ns.session = netsync.NewSession(netsync.Options{
		Config:  netconfig.Sync,
		Applier: applier,
		Handler: ns,
	})
	ns.sender = network.NewIntentionSender(netconfig.Sync.IntentionRate, ns.netClient.SendIntention)

	frame := func() netsync.FrameState { return ns.frame }
	ns.ecsWorld.AddSystem(view.UpdateDebugToggles)
	ns.ecsWorld.AddSystem(view.NewNetworkInputSystem(ns.sender, ns.prediction, frame))
	ns.ecsWorld.AddSystem(view.UpdateCamera)
	ns.ecsWorld.AddSystem(view.NewEffectsSystem())

	ns.ecsWorld.AddRenderer(cfg.LayerWorld, view.DrawTiles)
	ns.ecsWorld.AddRenderer(cfg.LayerWorld, view.DrawDeathFades)
	ns.ecsWorld.AddRenderer(cfg.LayerWorld, view.DrawNetworkEntities)
	ns.ecsWorld.AddRenderer(cfg.LayerHUD, view.NewNetworkHUD(ns.hudStatus))
}

func (ns *NetworkedScene) hudStatus() view.HUDStatus {
	packets, bytes := ns.netClient.Traffic()
	return view.HUDStatus{
		Frame:       ns.frame,
		Stats:       ns.session.Stats(),
		BufferDepth: ns.session.Config().BufferDepth,
		Corrections: ns.prediction.Corrections,
		Sent:        ns.sender.Sent(),
		ServerDebug: ns.serverDebug,
		RxPackets:   packets,
		RxBytes:     bytes,
		RxPerSecond: ns.rxMeter.PerWindow(),
	}
}

// OnInitialGameData starts the session proper: it learns the local player's
// id and builds the collision grid used for prediction.
func (ns *NetworkedScene) OnInitialGameData(msg messages.InitialGameData) error {
	ns.localID = msg.LocalID
	log.Printf("[networked] joined as %d, level %q (%dx%d tiles)", msg.LocalID, msg.Level, msg.Width, msg.Height)

	world := ns.ecsWorld.World
	if entry, ok := components.TileMap.First(world); ok {
		tm := components.TileMap.Get(entry)
		for _, t := range msg.Tiles {
			systems.SetTile(tm, t)
		}
		return nil
	}

	tm := components.TileMap.Get(systems.CreateTileMap(world, msg))
	ns.prediction.InitCollision(tm, 0, 0)
	return nil
}

func (ns *NetworkedScene) OnSync(msg messages.SyncData) error {
	ns.prediction.ApplySync(ns.ecsWorld.World, msg)
	return nil
}

func (ns *NetworkedScene) OnForcePosition(msg messages.ForcePosition) error {
	ns.prediction.ApplyForcePosition(ns.ecsWorld.World, msg)
	return nil
}

func (ns *NetworkedScene) OnChat(msg messages.ChatMessage) error {
	systems.AppendChat(ns.ecsWorld.World, msg)
	return nil
}

func (ns *NetworkedScene) OnDebug(msg messages.DebugPayload) error {
	ns.serverDebug = msg.Text
	return nil
}
