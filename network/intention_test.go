package network

import (
	"errors"
	"testing"
	"time"

	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentionCadenceIndependentOfFrameRate(t *testing.T) {
	tests := []struct {
		name  string
		frame time.Duration
		want  int
	}{
		{"100 fps", 10 * time.Millisecond, 20},
		{"25 fps", 40 * time.Millisecond, 20},
		{"20 fps", 50 * time.Millisecond, 20},
		{"250 fps", 4 * time.Millisecond, 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seqs []uint32
			s := NewIntentionSender(20, func(i messages.PlayerIntention) error {
				seqs = append(seqs, i.Sequence)
				return nil
			})

			frames := int(time.Second / tc.frame)
			for i := 1; i <= frames; i++ {
				_, err := s.Update(tc.frame, messages.NewPlayerIntention(uint32(i)))
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, s.Sent())
			assert.Len(t, seqs, tc.want)
		})
	}
}

func TestIntentionSenderStallDoesNotBurst(t *testing.T) {
	sent := 0
	s := NewIntentionSender(20, func(messages.PlayerIntention) error {
		sent++
		return nil
	})

	ok, err := s.Update(2*time.Second, messages.NewPlayerIntention(1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = s.Update(time.Millisecond, messages.NewPlayerIntention(2))
	assert.True(t, ok, "one interval of budget carried over")
	ok, _ = s.Update(time.Millisecond, messages.NewPlayerIntention(3))
	assert.False(t, ok)
	assert.Equal(t, 2, sent)
}

func TestIntentionSenderError(t *testing.T) {
	boom := errors.New("closed")
	s := NewIntentionSender(10, func(messages.PlayerIntention) error { return boom })

	ok, err := s.Update(time.Second, messages.NewPlayerIntention(1))
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Sent())
	assert.Equal(t, 100*time.Millisecond, s.Interval())
}
