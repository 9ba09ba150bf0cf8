package network

import (
	"testing"

	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionBufferStoreAndGet(t *testing.T) {
	var pb PredictionBuffer
	for seq := uint32(1); seq <= 5; seq++ {
		pb.Store(messages.NewPlayerIntention(seq), float64(seq)*10, 0)
	}

	assert.Equal(t, uint32(6), pb.NextSeq())
	rec, ok := pb.Get(3)
	require.True(t, ok)
	assert.Equal(t, 30.0, rec.PredictedX)

	_, ok = pb.Get(6)
	assert.False(t, ok)

	unacked := pb.GetUnacknowledged(3)
	require.Len(t, unacked, 2)
	assert.Equal(t, uint32(4), unacked[0].Intention.Sequence)
	assert.Equal(t, uint32(5), unacked[1].Intention.Sequence)

	assert.InDelta(t, 5.0, pb.PredictionError(2, 20, 5), 1e-9)
	assert.Equal(t, 0.0, pb.PredictionError(99, 0, 0))
}

func TestPredictionBufferWrapsAround(t *testing.T) {
	var pb PredictionBuffer
	for seq := uint32(1); seq <= predictionBufferSize+10; seq++ {
		pb.Store(messages.NewPlayerIntention(seq), 0, 0)
	}

	_, ok := pb.Get(5)
	assert.False(t, ok, "overwritten")
	_, ok = pb.Get(predictionBufferSize + 5)
	assert.True(t, ok)
}

func TestPredictionBufferReset(t *testing.T) {
	var pb PredictionBuffer
	pb.Store(messages.NewPlayerIntention(1), 0, 0)
	pb.Store(messages.NewPlayerIntention(2), 0, 0)

	pb.Reset()

	_, ok := pb.Get(2)
	assert.False(t, ok)
	assert.Equal(t, uint32(3), pb.NextSeq())
	assert.Empty(t, pb.GetUnacknowledged(0))
}
