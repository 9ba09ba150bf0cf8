package network

import (
	"time"

	"github.com/automoto/doomerang-netclient/shared/messages"
)

// IntentionSender sends player intentions at a fixed rate regardless of the
// frame rate. Frame time accumulates into a budget; every full interval in
// the budget allows one send.
type IntentionSender struct {
	interval time.Duration
	budget   time.Duration
	send     func(messages.PlayerIntention) error
	sent     int
}

func NewIntentionSender(rate float64, send func(messages.PlayerIntention) error) *IntentionSender {
	if rate <= 0 {
		rate = 1
	}
	return &IntentionSender{
		interval: time.Duration(float64(time.Second) / rate),
		send:     send,
	}
}

// Update adds one frame to the budget and sends intent if an interval has
// elapsed. At most one intention goes out per frame; after a long stall the
// leftover budget is capped to a single interval instead of bursting.
func (s *IntentionSender) Update(frameDelta time.Duration, intent messages.PlayerIntention) (bool, error) {
	if frameDelta > 0 {
		s.budget += frameDelta
	}
	if s.budget < s.interval {
		return false, nil
	}
	s.budget -= s.interval
	if s.budget > s.interval {
		s.budget = s.interval
	}

	if err := s.send(intent); err != nil {
		return false, err
	}
	s.sent++
	return true, nil
}

func (s *IntentionSender) Interval() time.Duration {
	return s.interval
}

func (s *IntentionSender) Sent() int {
	return s.sent
}
