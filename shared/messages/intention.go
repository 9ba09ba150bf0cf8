package messages

import "github.com/automoto/doomerang-netclient/shared/netconfig"

// PlayerIntention is sent from client to server at a fixed cadence with the
// player's movement/action intention.
// Used for server-side movement processing and client-side prediction reconciliation.
type PlayerIntention struct {
	Sequence  uint32                      // Incrementing ID for reconciliation
	Actions   map[netconfig.ActionID]bool // Which actions are currently pressed
	Direction int                         // -1 left, 0 none, 1 right
	Timestamp int64                       // Client timestamp (Unix ms)

	ScreenWidth  int
	ScreenHeight int
	DebugFlags   netconfig.DebugFlags
}

// NewPlayerIntention creates a PlayerIntention with initialized map
func NewPlayerIntention(seq uint32) PlayerIntention {
	return PlayerIntention{
		Sequence: seq,
		Actions:  make(map[netconfig.ActionID]bool),
	}
}
