package netsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuspensionQueuesOnlyWhileSuspended(t *testing.T) {
	var s Suspension
	assert.Equal(t, Active, s.State())
	assert.False(t, s.Enqueue([]byte{1}, t0))
	assert.Nil(t, s.Resume(), "resume while active is a no-op")

	require.NoError(t, s.Suspend())
	assert.Equal(t, "suspended", s.State().String())
	assert.True(t, s.Enqueue([]byte{1}, t0))
	assert.True(t, s.Enqueue([]byte{2}, t0.Add(ms(33))))
	assert.Equal(t, 2, s.Len())

	q := s.Resume()
	require.Len(t, q, 2)
	assert.Equal(t, []byte{1}, q[0].Data)
	assert.Equal(t, []byte{2}, q[1].Data)
	assert.Equal(t, t0.Add(ms(33)), q[1].At)
	assert.Equal(t, Active, s.State())
	assert.Equal(t, 0, s.Len())
}

func TestSuspensionEmptyResume(t *testing.T) {
	var s Suspension
	require.NoError(t, s.Suspend())
	require.NoError(t, s.Suspend())

	q := s.Resume()
	assert.NotNil(t, q)
	assert.Empty(t, q)
}

func TestSuspensionRejectsLeftoverQueue(t *testing.T) {
	s := Suspension{queue: []Queued{{Data: []byte{9}}}}
	assert.ErrorIs(t, s.Suspend(), ErrQueueNotEmpty)

	s.Clear()
	assert.NoError(t, s.Suspend())
}
