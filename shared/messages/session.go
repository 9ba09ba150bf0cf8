package messages

import "github.com/leap-fish/necs/esync"

// Packet is the envelope routed by necs. Data holds exactly one wire packet
// (kind byte + msgpack body) so the client can queue it undecoded.
type Packet struct {
	Data []byte
}

// JoinRequest is sent by a client after connecting to request joining the game.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// InitialGameData is the first packet of a session.
type InitialGameData struct {
	LocalID  esync.NetworkId
	TickRate float64
	SendRate float64
	Level    string

	TileSize      int
	Width, Height int // in tiles
	Tiles         []TileUpdate
}

// SyncData is an out-of-band resync of the local player.
type SyncData struct {
	Tick uint32
	X, Y float64
}

// ForcePosition overrides the locally predicted position.
type ForcePosition struct {
	X, Y float64
}

// SimPause toggles the server simulation pause.
type SimPause struct {
	Paused bool
}

// DebugPayload carries free-form server diagnostics for the debug overlay.
type DebugPayload struct {
	Text string
}
