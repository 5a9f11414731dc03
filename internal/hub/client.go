package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// recordSeparator delimits frames in the SignalR JSON protocol.
const recordSeparator = 0x1e

const (
	msgInvocation = 1
	msgPing       = 6
	msgClose      = 7
)

// DefaultBackoff is the reconnection schedule: retry immediately, then
// after 2s, 10s and 30s, then give up.
var DefaultBackoff = []time.Duration{0, 2 * time.Second, 10 * time.Second, 30 * time.Second}

// Handler receives the arguments of a server-to-client invocation.
type Handler func(args []json.RawMessage)

type message struct {
	Type      int               `json:"type"`
	Target    string            `json:"target,omitempty"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// Client is a minimal SignalR-style hub client over a WebSocket. Events
// are dispatched one at a time from a single read loop, in arrival order.
//
// Handlers must be registered before Connect. The connection reconnects
// automatically per the backoff schedule; once the schedule is exhausted
// OnDown is called and the client stays closed.
type Client struct {
	URL     string
	Backoff []time.Duration

	// OnConnected runs after every successful dial, including reconnects.
	// Used to replay initial fetch invocations.
	OnConnected func()
	// OnReconnect runs before each reconnection attempt.
	OnReconnect func(attempt int)
	// OnDown runs when the connection is lost for good.
	OnDown func(err error)

	mu       sync.Mutex
	handlers map[string]Handler
	conn     *websocket.Conn
	closed   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewClient creates a client for the given hub URL (including any roomId
// query parameter). It does not connect.
func NewClient(hubURL string) *Client {
	return &Client{
		URL:      hubURL,
		Backoff:  DefaultBackoff,
		handlers: make(map[string]Handler),
	}
}

// On registers the handler for a server-to-client event. Registering again
// replaces the previous handler.
func (c *Client) On(event string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = h
}

// Connect dials the hub, performs the protocol handshake and starts the
// read loop. It returns once the first connection is established.
func (c *Client) Connect(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return fmt.Errorf("hub client is closed")
	}
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	if err := c.dial(ctx); err != nil {
		cancel()
		close(c.done)
		return err
	}
	go c.run(runCtx)
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing hub: %w", err)
	}

	handshake := append([]byte(`{"protocol":"json","version":1}`), recordSeparator)
	if err := conn.Write(ctx, websocket.MessageText, handshake); err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return fmt.Errorf("sending hub handshake: %w", err)
	}
	// The handshake response is an empty object, or an error description.
	_, resp, err := conn.Read(ctx)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return fmt.Errorf("reading hub handshake: %w", err)
	}
	var hs struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(trimSeparator(resp), &hs); err == nil && hs.Error != "" {
		conn.Close(websocket.StatusPolicyViolation, "handshake rejected")
		return fmt.Errorf("hub handshake rejected: %s", hs.Error)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if c.OnConnected != nil {
		c.OnConnected()
	}
	return nil
}

// run reads frames until the connection fails, then walks the backoff
// schedule. A successful reconnect restarts the schedule from the top.
func (c *Client) run(ctx context.Context) {
	defer close(c.done)
	for {
		err := c.readLoop(ctx)
		if c.isClosed() || ctx.Err() != nil {
			return
		}
		log.Printf("[Hub] Connection lost: %v\n", err)

		if !c.reconnect(ctx) {
			if c.OnDown != nil {
				c.OnDown(err)
			}
			return
		}
	}
}

func (c *Client) reconnect(ctx context.Context) bool {
	for attempt, delay := range c.Backoff {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(delay):
			}
		}
		if c.isClosed() {
			return false
		}
		if c.OnReconnect != nil {
			c.OnReconnect(attempt + 1)
		}
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := c.dial(dialCtx)
		cancel()
		if err == nil {
			return true
		}
		log.Printf("[Hub] Reconnect attempt %d failed: %v\n", attempt+1, err)
	}
	log.Println("[Hub] Reconnect schedule exhausted, giving up")
	return false
}

func (c *Client) readLoop(ctx context.Context) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("no connection")
	}

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		for _, frame := range splitFrames(data) {
			c.dispatch(frame)
		}
	}
}

func (c *Client) dispatch(frame []byte) {
	var msg message
	if err := json.Unmarshal(frame, &msg); err != nil {
		log.Printf("[Hub] Dropping unparseable frame: %v\n", err)
		return
	}
	switch msg.Type {
	case msgInvocation:
		c.mu.Lock()
		h := c.handlers[msg.Target]
		c.mu.Unlock()
		if h == nil {
			log.Printf("[Hub] No handler for event %q\n", msg.Target)
			return
		}
		h(msg.Arguments)
	case msgPing:
		// Keepalive only.
	case msgClose:
		log.Printf("[Hub] Server requested close: %s\n", msg.Error)
	}
}

// Invoke sends a fire-and-forget client-to-server invocation.
func (c *Client) Invoke(ctx context.Context, target string, args ...any) error {
	arguments := make([]json.RawMessage, 0, len(args))
	for _, a := range args {
		raw, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encoding %s argument: %w", target, err)
		}
		arguments = append(arguments, raw)
	}
	data, err := json.Marshal(message{Type: msgInvocation, Target: target, Arguments: arguments})
	if err != nil {
		return fmt.Errorf("encoding %s invocation: %w", target, err)
	}
	data = append(data, recordSeparator)

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("invoking %s: not connected", target)
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("invoking %s: %w", target, err)
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close tears the connection down and stops the read loop. It is safe to
// call more than once and waits for the loop to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "client closing")
	}
	if done != nil {
		<-done
	}
	return nil
}

func trimSeparator(data []byte) []byte {
	if n := len(data); n > 0 && data[n-1] == recordSeparator {
		return data[:n-1]
	}
	return data
}

// splitFrames splits a WebSocket message into its 0x1e-delimited protocol
// frames, dropping the trailing empty chunk.
func splitFrames(data []byte) [][]byte {
	var frames [][]byte
	start := 0
	for i, b := range data {
		if b == recordSeparator {
			if i > start {
				frames = append(frames, data[start:i])
			}
			start = i + 1
		}
	}
	if start < len(data) {
		frames = append(frames, data[start:])
	}
	return frames
}
