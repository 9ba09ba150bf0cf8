package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Tick  uint32
	Name  string
	Blobs map[uint16][]byte
}

func TestMarshalUnmarshal(t *testing.T) {
	in := testPayload{Tick: 42, Name: "crate", Blobs: map[uint16][]byte{3: {1, 2, 3}}}

	data, err := Marshal(KindGameState, in)
	require.NoError(t, err)
	assert.Equal(t, byte(KindGameState), data[0])

	var out testPayload
	require.NoError(t, Unmarshal(data, KindGameState, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalWrongKind(t *testing.T) {
	data, err := Marshal(KindChat, "hello")
	require.NoError(t, err)

	var out string
	err = Unmarshal(data, KindGameState, &out)
	assert.Error(t, err)
}

func TestReaderSequentialValues(t *testing.T) {
	w := NewWriter()
	w.WriteKind(KindSync)
	require.NoError(t, w.Encode(uint32(7)))
	require.NoError(t, w.Encode("second"))

	r := NewReader(w.Bytes())
	k, err := r.Kind()
	require.NoError(t, err)
	assert.Equal(t, KindSync, k)

	var tick uint32
	var s string
	require.NoError(t, r.Decode(&tick))
	require.NoError(t, r.Decode(&s))
	assert.Equal(t, uint32(7), tick)
	assert.Equal(t, "second", s)
}

func TestReaderErrors(t *testing.T) {
	_, err := NewReader(nil).Kind()
	assert.ErrorIs(t, err, ErrShortPacket)

	_, err = NewReader([]byte{200}).Kind()
	assert.ErrorIs(t, err, ErrUnknownKind)

	var v int
	assert.ErrorIs(t, NewReader([]byte{byte(KindChat)}).Decode(&v), ErrShortPacket)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "game-state", KindGameState.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
