// Package netconfig defines lightweight types shared between the network layer
// and the simulation core. It must have zero dependencies on ebiten or any
// graphics library so the reconciliation engine stays testable headless.
package netconfig

// SyncConfig holds every tunable of the snapshot reconciliation control loop.
//
// The dead zone and gain were tuned by feel, not derived. Treat them as the
// knobs of a proportional controller: a wider dead zone ignores more jitter,
// a higher gain converges faster but overshoots more easily.
type SyncConfig struct {
	// TickRate is the nominal server simulation rate (ticks per second).
	TickRate float64
	// SendRate is the nominal number of game-state packets per second.
	SendRate float64

	// BufferDepth is the number of send intervals the render tick lags
	// behind the client tick, and the number of buffered snapshots needed
	// before the session starts running.
	BufferDepth int

	// RateWindow is N in the EMA smoothing factor a = 2/(N+1).
	RateWindow int

	// DeadZoneTicks is the clock error (in ticks) under which no dilation
	// is applied.
	DeadZoneTicks float64
	// DilationGain is the proportional gain k in dilation = 1 + k*error.
	DilationGain float64
	// MinDilation and MaxDilation clamp the correction so the client tick
	// always moves forward.
	MinDilation float64
	MaxDilation float64

	// IntentionRate is how many player intention packets are sent per second.
	IntentionRate float64

	// InboxSize bounds the hand-off channel between the network goroutine
	// and the frame loop.
	InboxSize int
}

// TicksPerSend is the number of simulation ticks covered by one send interval.
func (c SyncConfig) TicksPerSend() float64 {
	if c.SendRate <= 0 {
		return 1
	}
	return c.TickRate / c.SendRate
}

// NominalIntervalMS is the expected wall-clock time between two snapshots.
func (c SyncConfig) NominalIntervalMS() float64 {
	if c.SendRate <= 0 {
		return 0
	}
	return 1000 / c.SendRate
}

// DefaultSync returns the tuning used by the live client.
func DefaultSync() SyncConfig {
	return SyncConfig{
		TickRate:      60,
		SendRate:      30,
		BufferDepth:   2,
		RateWindow:    20,
		DeadZoneTicks: 0.5,
		DilationGain:  0.15,
		MinDilation:   0.1,
		MaxDilation:   3,
		IntentionRate: 20,
		InboxSize:     512,
	}
}

// Sync is the process-wide sync configuration. main overrides it from flags
// and saved settings before the first session is created.
var Sync SyncConfig

func init() {
	Sync = DefaultSync()
}

// ActionID represents a logical player action carried in intention packets.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionJump
	ActionAttack
	ActionCrouch
	ActionUse
	ActionCount // Must be last - used for array sizing
)

// DebugFlags are the debug overlays the client has visible; the server uses
// them to decide whether to send debug payloads.
type DebugFlags uint8

const (
	DebugOverlaySync DebugFlags = 1 << iota
	DebugOverlayHitboxes
	DebugOverlayEntityIDs

	DebugOverlayNone DebugFlags = 0
)
