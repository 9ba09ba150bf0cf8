package netsync

import (
	"fmt"
	"log"
	"time"

	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/netconfig"
	"github.com/automoto/doomerang-netclient/shared/protocol"
	"github.com/automoto/doomerang-netclient/shared/wire"
)

// PacketHandler receives the packet categories the reconciliation engine
// does not own itself. Embed NopHandler to implement only some of them.
type PacketHandler interface {
	OnInitialGameData(msg messages.InitialGameData) error
	OnSync(msg messages.SyncData) error
	OnForcePosition(msg messages.ForcePosition) error
	OnChat(msg messages.ChatMessage) error
	OnDebug(msg messages.DebugPayload) error
}

// NopHandler ignores every out-of-band packet.
type NopHandler struct{}

func (NopHandler) OnInitialGameData(messages.InitialGameData) error { return nil }
func (NopHandler) OnSync(messages.SyncData) error                   { return nil }
func (NopHandler) OnForcePosition(messages.ForcePosition) error     { return nil }
func (NopHandler) OnChat(messages.ChatMessage) error                { return nil }
func (NopHandler) OnDebug(messages.DebugPayload) error              { return nil }

type Options struct {
	Config   netconfig.SyncConfig
	Registry *protocol.Registry
	Applier  Applier
	Handler  PacketHandler
}

// FrameState is what rendering and animation consume each frame.
type FrameState struct {
	Running    bool
	ClientTick float64
	RenderTick float64
	Fraction   float64
	Dilation   float64
	Current    *PacketSnapshot
	Next       *PacketSnapshot
	Promoted   int
}

// Stats is a read-only view for the debug overlay.
type Stats struct {
	BufferLen   int
	BufferTicks []uint32
	IntervalMS  float64
	Samples     int
	Queued      int
	Visibility  VisibilityState
	Applied     int
	Paused      bool
}

// Session is the simulation context of one connection: it owns the snapshot
// pipeline from raw packet to applied entity state.
//
// A Session is not safe for concurrent use. Packets and frames must be fed
// from the same goroutine; the network layer hands packets over through a
// channel that the frame loop drains.
type Session struct {
	cfg        netconfig.SyncConfig
	decoder    *Decoder
	buffer     *SnapshotBuffer
	rate       *RateEstimator
	clock      *ClientClock
	selector   *WindowSelector
	suspension Suspension
	handler    PacketHandler

	bootstrapped bool
	running      bool
	paused       bool
	closed       bool
	lastFrame    time.Time
	window       Window
	err          error
}

func NewSession(opts Options) *Session {
	cfg := opts.Config
	if cfg.BufferDepth < 1 {
		cfg.BufferDepth = 1
	}
	registry := opts.Registry
	if registry == nil {
		registry = protocol.DefaultRegistry()
	}
	handler := opts.Handler
	if handler == nil {
		handler = NopHandler{}
	}

	s := &Session{
		cfg:     cfg,
		decoder: NewDecoder(registry),
		buffer:  NewSnapshotBuffer(cfg.BufferDepth),
		handler: handler,
	}
	s.rate = NewRateEstimator(cfg.NominalIntervalMS(), cfg.RateWindow)
	s.clock = NewClientClock(cfg)
	s.selector = NewWindowSelector(s.buffer, opts.Applier)
	return s
}

// HandlePacket is called once per received packet, in arrival order.
// at is the wall-clock arrival time.
func (s *Session) HandlePacket(data []byte, at time.Time) error {
	if s.err != nil {
		return s.err
	}
	if s.closed {
		return ErrSessionClosed
	}
	if s.suspension.Enqueue(data, at) {
		return nil
	}
	return s.process(data, at, true)
}

func (s *Session) process(data []byte, at time.Time, observe bool) error {
	r := wire.NewReader(data)
	kind, err := r.Kind()
	if err != nil {
		return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
	}

	switch kind {
	case wire.KindGameState:
		snap, err := s.decoder.Decode(data)
		if err != nil {
			return s.fail(err)
		}
		return s.receiveSnapshot(snap, at, observe)

	case wire.KindInitialGameData:
		var msg messages.InitialGameData
		if err := r.Decode(&msg); err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
		}
		s.applyInitialGameData(msg)
		return s.dispatch(s.handler.OnInitialGameData(msg))

	case wire.KindSync:
		var msg messages.SyncData
		if err := r.Decode(&msg); err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
		}
		return s.dispatch(s.handler.OnSync(msg))

	case wire.KindForcePosition:
		var msg messages.ForcePosition
		if err := r.Decode(&msg); err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
		}
		return s.dispatch(s.handler.OnForcePosition(msg))

	case wire.KindChat:
		var msg messages.ChatMessage
		if err := r.Decode(&msg); err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
		}
		return s.dispatch(s.handler.OnChat(msg))

	case wire.KindSimPause:
		var msg messages.SimPause
		if err := r.Decode(&msg); err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
		}
		s.SetPaused(msg.Paused)
		return nil

	case wire.KindDebug:
		var msg messages.DebugPayload
		if err := r.Decode(&msg); err != nil {
			return s.fail(fmt.Errorf("%w: %v", ErrMalformedPacket, err))
		}
		return s.dispatch(s.handler.OnDebug(msg))
	}

	return s.fail(fmt.Errorf("%w: unexpected inbound %s packet", ErrProtocolViolation, kind))
}

func (s *Session) receiveSnapshot(snap *PacketSnapshot, at time.Time, observe bool) error {
	s.buffer.Push(snap)
	if observe {
		s.rate.Observe(at)
	}

	if !s.bootstrapped {
		// The first snapshot sets the clock and is applied right away,
		// outside the normal promotion path.
		s.clock.Set(float64(snap.Tick()))
		if _, err := s.selector.Promote(snap); err != nil {
			return s.fail(err)
		}
		s.bootstrapped = true
		log.Printf("[netsync] bootstrapped at tick %d", snap.Tick())
	}

	if !s.running && s.buffer.Len() >= s.cfg.BufferDepth {
		s.running = true
		s.lastFrame = time.Time{}
		log.Printf("[netsync] buffer filled (%d snapshots), running from tick %.2f", s.buffer.Len(), s.clock.Tick())
	}
	return nil
}

func (s *Session) applyInitialGameData(msg messages.InitialGameData) {
	if msg.TickRate <= 0 || msg.SendRate <= 0 {
		return
	}
	if msg.TickRate == s.cfg.TickRate && msg.SendRate == s.cfg.SendRate {
		return
	}
	s.cfg.TickRate = msg.TickRate
	s.cfg.SendRate = msg.SendRate
	s.clock.cfg = s.cfg
	s.rate = NewRateEstimator(s.cfg.NominalIntervalMS(), s.cfg.RateWindow)
	log.Printf("[netsync] server rates: %.0f ticks/s, %.0f snapshots/s", msg.TickRate, msg.SendRate)
}

// Frame advances the client clock and selects the interpolation window.
// Call once per rendered frame.
func (s *Session) Frame(now time.Time) (FrameState, error) {
	if s.err != nil {
		return s.frameState(), s.err
	}
	if s.closed {
		return FrameState{}, ErrSessionClosed
	}
	if !s.running || s.suspension.State() == Suspended {
		s.lastFrame = now
		s.clock.Hold()
		return s.frameState(), nil
	}

	var delta time.Duration
	if !s.lastFrame.IsZero() {
		delta = now.Sub(s.lastFrame)
	}
	s.lastFrame = now

	newest, ok := s.buffer.NewestTick()
	if s.paused || !ok {
		s.clock.Hold()
	} else {
		s.clock.Advance(delta, s.rate.IntervalMS(), float64(newest))
	}

	win, err := s.selector.Select(s.clock.RenderTick())
	if err != nil {
		return s.frameState(), s.fail(err)
	}
	s.window = win
	return s.frameState(), nil
}

// SetVisible feeds visibility changes (tab hidden/shown, window focus).
func (s *Session) SetVisible(visible bool, at time.Time) error {
	if s.err != nil {
		return s.err
	}
	if s.closed {
		return ErrSessionClosed
	}
	if !visible {
		if s.suspension.State() == Suspended {
			return nil
		}
		if err := s.suspension.Suspend(); err != nil {
			return s.fail(err)
		}
		log.Println("[netsync] suspended, queuing packets")
		return nil
	}

	queued := s.suspension.Resume()
	if queued == nil {
		return nil
	}
	log.Printf("[netsync] resumed, replaying %d queued packets", len(queued))

	for _, q := range queued {
		if err := s.process(q.Data, q.At, false); err != nil {
			return err
		}
	}
	if err := s.catchUp(); err != nil {
		return err
	}

	// The suspension gap is not a real server interval.
	s.rate.Reset(at)
	s.lastFrame = time.Time{}
	return nil
}

// catchUp applies every buffered snapshot newer than current, in order, and
// resyncs the clock to the steady-state position for the newest tick.
func (s *Session) catchUp() error {
	for i := 0; i < s.buffer.Len(); i++ {
		if _, err := s.selector.Promote(s.buffer.At(i)); err != nil {
			return s.fail(err)
		}
	}
	s.selector.Prune()

	newest, ok := s.buffer.NewestTick()
	if !ok {
		return nil
	}
	ticksPerSend := s.cfg.TicksPerSend()
	s.clock.Set(float64(newest) + float64(s.cfg.BufferDepth-1)*ticksPerSend)
	s.window = Window{
		Current:    s.selector.Current(),
		Next:       s.selector.Current(),
		RenderTick: s.clock.RenderTick(),
	}
	return nil
}

func (s *Session) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	log.Printf("[netsync] simulation paused=%t", paused)
}

// HasIntervalElapsed reports whether the last frame crossed a boundary of a
// real-time interval of the given length.
func (s *Session) HasIntervalElapsed(seconds float64) bool {
	return s.clock.HasIntervalElapsed(seconds)
}

// Close tears the session down. Any later call returns ErrSessionClosed.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.running = false
	s.buffer.Clear()
	s.suspension.Clear()
	s.selector.Reset()
	s.window = Window{}
}

// Err returns the fatal error that stopped the session, if any.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) Running() bool {
	return s.running
}

func (s *Session) Bootstrapped() bool {
	return s.bootstrapped
}

func (s *Session) Paused() bool {
	return s.paused
}

func (s *Session) Config() netconfig.SyncConfig {
	return s.cfg
}

func (s *Session) ClientTick() float64 {
	return s.clock.Tick()
}

func (s *Session) Current() *PacketSnapshot {
	return s.selector.Current()
}

func (s *Session) Stats() Stats {
	return Stats{
		BufferLen:   s.buffer.Len(),
		BufferTicks: s.buffer.Ticks(),
		IntervalMS:  s.rate.IntervalMS(),
		Samples:     s.rate.Samples(),
		Queued:      s.suspension.Len(),
		Visibility:  s.suspension.State(),
		Applied:     s.selector.Applied(),
		Paused:      s.paused,
	}
}

func (s *Session) frameState() FrameState {
	return FrameState{
		Running:    s.running,
		ClientTick: s.clock.Tick(),
		RenderTick: s.clock.RenderTick(),
		Fraction:   s.window.Fraction,
		Dilation:   s.clock.LastDilation(),
		Current:    s.selector.Current(),
		Next:       s.nextOrCurrent(),
		Promoted:   s.window.Promoted,
	}
}

func (s *Session) nextOrCurrent() *PacketSnapshot {
	if s.window.Next != nil {
		return s.window.Next
	}
	return s.selector.Current()
}

func (s *Session) dispatch(err error) error {
	if err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Session) fail(err error) error {
	if s.err == nil {
		s.err = err
		log.Printf("[netsync] fatal: %v", err)
	}
	return err
}
