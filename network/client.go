package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/automoto/doomerang-netclient/shared/messages"
	"github.com/automoto/doomerang-netclient/shared/wire"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	}
	return "disconnected"
}

var ErrNotConnected = errors.New("not connected")

// Inbound is one wire packet stamped with its wall-clock arrival time.
type Inbound struct {
	Data []byte
	At   time.Time
}

// Client manages a WebSocket connection to the game server.
//
// Router callbacks run on necs goroutines. They only stamp packets and push
// them into inbox; the frame loop drains it, so everything downstream runs
// on a single goroutine. All other shared fields are protected by mu.
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	conn      *websocket.Conn
	done      chan struct{}

	inbox chan Inbound
	now   func() time.Time

	rxPackets atomic.Uint64
	rxBytes   atomic.Uint64
}

func NewClient(inboxSize int) *Client {
	if inboxSize < 1 {
		inboxSize = 1
	}
	return &Client{
		state: StateDisconnected,
		inbox: make(chan Inbound, inboxSize),
		done:  make(chan struct{}),
		now:   time.Now,
	}
}

// Connect dials the server in a background goroutine and sends the join
// request once connected. There is no automatic retry.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.done = make(chan struct{})
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.Packet) {
		c.rxPackets.Add(1)
		c.rxBytes.Add(uint64(len(msg.Data)))
		c.push(Inbound{Data: msg.Data, At: c.now()})
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
			if err != nil {
				c.lastError = fmt.Errorf("connection lost: %w", err)
			}
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

// push blocks while the inbox is full. Dropping would silently desync the
// snapshot stream, so the socket reader is held back instead.
func (c *Client) push(in Inbound) {
	c.mu.RLock()
	done := c.done
	c.mu.RUnlock()

	select {
	case c.inbox <- in:
	case <-done:
	}
}

// Drain returns every packet received since the last call, in arrival
// order. Non-blocking.
func (c *Client) Drain() []Inbound {
	return drainChan(c.inbox)
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
	drainChan(c.inbox)
}

// Traffic returns the number of packets and payload bytes received so far.
func (c *Client) Traffic() (packets, bytes uint64) {
	return c.rxPackets.Load(), c.rxBytes.Load()
}

// TrafficMeter turns the cumulative received byte count into bytes per
// window. Window boundaries come from the caller, so the meter follows the
// session clock and holds its last value while the clock is stopped.
type TrafficMeter struct {
	mark uint64
	rate uint64
}

// Update closes the current window if elapsed is set.
func (m *TrafficMeter) Update(elapsed bool, totalBytes uint64) {
	if !elapsed {
		return
	}
	m.rate = totalBytes - m.mark
	m.mark = totalBytes
}

// PerWindow is the byte count of the last closed window.
func (m *TrafficMeter) PerWindow() uint64 {
	return m.rate
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// SendMessage sends a necs-routed message.
func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// Send encodes v as a wire packet of the given kind and sends it.
func (c *Client) Send(kind wire.Kind, v any) error {
	data, err := wire.Marshal(kind, v)
	if err != nil {
		return err
	}
	return c.SendMessage(messages.Packet{Data: data})
}

// SendIntention matches the IntentionSender callback signature.
func (c *Client) SendIntention(intent messages.PlayerIntention) error {
	return c.Send(wire.KindPlayerIntention, intent)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
