package netsync

import "errors"

var (
	// ErrMalformedPacket means a packet could not be decoded at all.
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrProtocolViolation means a packet decoded but contradicts the
	// client's view of the protocol. It cannot be repaired locally.
	ErrProtocolViolation = errors.New("protocol violation")
	// ErrQueueNotEmpty is returned when suspending while packets are still
	// queued from a previous suspension.
	ErrQueueNotEmpty = errors.New("suspension queue not empty")
	ErrSessionClosed = errors.New("session closed")
)
