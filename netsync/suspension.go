package netsync

import "time"

type VisibilityState int

const (
	Active VisibilityState = iota
	Suspended
)

func (v VisibilityState) String() string {
	if v == Suspended {
		return "suspended"
	}
	return "active"
}

// Queued is a raw packet held while suspended.
type Queued struct {
	Data []byte
	At   time.Time
}

// Suspension defers packet processing while the game is not visible.
// Packets are queued undecoded and replayed in order on resume.
type Suspension struct {
	state VisibilityState
	queue []Queued
}

func (s *Suspension) State() VisibilityState {
	return s.state
}

func (s *Suspension) Len() int {
	return len(s.queue)
}

// Suspend switches to Suspended. Queuing only ever happens while suspended,
// so the queue must be empty at this point.
func (s *Suspension) Suspend() error {
	if s.state == Suspended {
		return nil
	}
	if len(s.queue) > 0 {
		return ErrQueueNotEmpty
	}
	s.state = Suspended
	return nil
}

// Enqueue stores data if suspended and reports whether it did.
func (s *Suspension) Enqueue(data []byte, at time.Time) bool {
	if s.state != Suspended {
		return false
	}
	s.queue = append(s.queue, Queued{Data: data, At: at})
	return true
}

// Resume switches to Active and hands back the queued packets in arrival
// order. It returns nil if the handler was not suspended.
func (s *Suspension) Resume() []Queued {
	if s.state != Suspended {
		return nil
	}
	s.state = Active
	q := s.queue
	s.queue = nil
	if q == nil {
		q = []Queued{}
	}
	return q
}

func (s *Suspension) Clear() {
	s.state = Active
	s.queue = nil
}
