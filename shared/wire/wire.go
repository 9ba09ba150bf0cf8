// Package wire implements the tagged binary packet format exchanged with the
// game server. A packet is one Kind byte followed by msgpack-encoded values.
package wire

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Kind is the leading discriminator byte of every packet.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInitialGameData
	KindGameState
	KindSync
	KindForcePosition
	KindChat
	KindSimPause
	KindDebug
	KindPlayerIntention
)

var kindNames = map[Kind]string{
	KindInvalid:         "invalid",
	KindInitialGameData: "initial-game-data",
	KindGameState:       "game-state",
	KindSync:            "sync",
	KindForcePosition:   "force-position",
	KindChat:            "chat",
	KindSimPause:        "sim-pause",
	KindDebug:           "debug",
	KindPlayerIntention: "player-intention",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

var (
	ErrShortPacket = errors.New("wire: packet too short")
	ErrUnknownKind = errors.New("wire: unknown packet kind")
)

var handle = newHandle()

func newHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	return h
}

// Writer builds a single packet.
type Writer struct {
	buf bytes.Buffer
	enc *codec.Encoder
}

func NewWriter() *Writer {
	w := &Writer{}
	w.enc = codec.NewEncoder(&w.buf, handle)
	return w
}

// WriteKind writes the discriminator. It must be the first call on a Writer.
func (w *Writer) WriteKind(k Kind) {
	w.buf.WriteByte(byte(k))
}

// Encode appends one msgpack value to the packet.
func (w *Writer) Encode(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("wire: encode %T: %w", v, err)
	}
	return nil
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Marshal encodes a single-value packet of the given kind.
func Marshal(k Kind, v any) ([]byte, error) {
	w := NewWriter()
	w.WriteKind(k)
	if err := w.Encode(v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Reader walks the values of a single packet in the order they were written.
type Reader struct {
	data []byte
	dec  *codec.Decoder
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Kind returns the packet discriminator without consuming the payload.
func (r *Reader) Kind() (Kind, error) {
	if len(r.data) == 0 {
		return KindInvalid, ErrShortPacket
	}
	k := Kind(r.data[0])
	if _, ok := kindNames[k]; !ok || k == KindInvalid {
		return k, fmt.Errorf("%w: %d", ErrUnknownKind, r.data[0])
	}
	return k, nil
}

// Decode reads the next msgpack value into v.
func (r *Reader) Decode(v any) error {
	if len(r.data) < 2 {
		return ErrShortPacket
	}
	if r.dec == nil {
		r.dec = codec.NewDecoderBytes(r.data[1:], handle)
	}
	if err := r.dec.Decode(v); err != nil {
		return fmt.Errorf("wire: decode %T: %w", v, err)
	}
	return nil
}

// Unmarshal decodes a single-value packet, checking its kind first.
func Unmarshal(data []byte, want Kind, v any) error {
	r := NewReader(data)
	k, err := r.Kind()
	if err != nil {
		return err
	}
	if k != want {
		return fmt.Errorf("wire: expected %s packet, got %s", want, k)
	}
	return r.Decode(v)
}
