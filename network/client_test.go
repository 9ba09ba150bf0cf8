package network

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientDrainKeepsArrivalOrder(t *testing.T) {
	c := NewClient(8)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		c.push(Inbound{Data: []byte{byte(i)}, At: base.Add(time.Duration(i) * time.Millisecond)})
	}

	got := c.Drain()
	assert.Len(t, got, 3)
	for i, in := range got {
		assert.Equal(t, []byte{byte(i)}, in.Data)
	}
	assert.Empty(t, c.Drain())
}

func TestClientSendWithoutConnection(t *testing.T) {
	c := NewClient(1)
	assert.Equal(t, StateDisconnected, c.State())
	assert.ErrorIs(t, c.SendMessage(struct{}{}), ErrNotConnected)
	assert.Equal(t, "disconnected", c.State().String())
}

func TestTrafficMeterWindows(t *testing.T) {
	var m TrafficMeter
	m.Update(false, 500)
	assert.Zero(t, m.PerWindow())

	m.Update(true, 1200)
	assert.Equal(t, uint64(1200), m.PerWindow())

	// between boundaries the last window is kept
	m.Update(false, 4000)
	assert.Equal(t, uint64(1200), m.PerWindow())

	m.Update(true, 4000)
	assert.Equal(t, uint64(2800), m.PerWindow())
}
