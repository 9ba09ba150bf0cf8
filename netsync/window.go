package netsync

import "fmt"

// Applier writes a promoted snapshot onto the live entity store. It is called
// exactly once per snapshot, in tick order.
type Applier interface {
	Apply(s *PacketSnapshot) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(s *PacketSnapshot) error

func (f ApplierFunc) Apply(s *PacketSnapshot) error {
	return f(s)
}

// Window is the pair of snapshots bracketing the render tick.
type Window struct {
	Current    *PacketSnapshot
	Next       *PacketSnapshot
	RenderTick float64
	// Fraction is how far RenderTick is from Current to Next, in [0, 1].
	// It is 0 when Next == Current: there is no extrapolation past known data.
	Fraction float64
	// Promoted counts snapshots applied while selecting this window.
	Promoted int
}

// WindowSelector promotes buffered snapshots as the render tick passes them.
// Promotion only ever moves forward, so application order is tick order.
type WindowSelector struct {
	buffer  *SnapshotBuffer
	applier Applier
	current *PacketSnapshot
	applied int
}

func NewWindowSelector(buffer *SnapshotBuffer, applier Applier) *WindowSelector {
	return &WindowSelector{buffer: buffer, applier: applier}
}

func (w *WindowSelector) Current() *PacketSnapshot {
	return w.current
}

// Applied is the total number of snapshots applied so far.
func (w *WindowSelector) Applied() int {
	return w.applied
}

// Promote makes s current and applies it. Snapshots not newer than the
// current one are ignored, which makes resent ticks no-ops.
func (w *WindowSelector) Promote(s *PacketSnapshot) (bool, error) {
	if w.current != nil && s.Tick() <= w.current.Tick() {
		return false, nil
	}
	if err := w.applier.Apply(s); err != nil {
		return false, fmt.Errorf("apply tick %d: %w", s.Tick(), err)
	}
	w.current = s
	w.applied++
	return true, nil
}

// Select runs once per frame after the clock update.
func (w *WindowSelector) Select(renderTick float64) (Window, error) {
	win := Window{RenderTick: renderTick}

	for i := 0; i < w.buffer.Len(); i++ {
		s := w.buffer.At(i)
		if float64(s.Tick()) >= renderTick {
			break
		}
		promoted, err := w.Promote(s)
		if err != nil {
			return win, err
		}
		if promoted {
			win.Promoted++
		}
	}

	w.buffer.PruneOlderThan(w.current)

	win.Current = w.current
	win.Next = w.next()
	win.Fraction = fraction(renderTick, win.Current, win.Next)
	return win, nil
}

// Prune drops everything older than the current snapshot.
func (w *WindowSelector) Prune() {
	w.buffer.PruneOlderThan(w.current)
}

// next returns the buffered snapshot with the smallest tick above current,
// or current itself when nothing newer has arrived.
func (w *WindowSelector) next() *PacketSnapshot {
	if w.current == nil {
		return nil
	}
	next := w.current
	for i := 0; i < w.buffer.Len(); i++ {
		s := w.buffer.At(i)
		if s.Tick() <= w.current.Tick() {
			continue
		}
		if next == w.current || s.Tick() < next.Tick() {
			next = s
		}
	}
	return next
}

func fraction(renderTick float64, current, next *PacketSnapshot) float64 {
	if current == nil || next == nil || next == current {
		return 0
	}
	span := float64(next.Tick()) - float64(current.Tick())
	if span <= 0 {
		return 0
	}
	f := (renderTick - float64(current.Tick())) / span
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func (w *WindowSelector) Reset() {
	w.current = nil
	w.applied = 0
}
