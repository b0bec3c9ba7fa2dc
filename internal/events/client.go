package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tablero-dev/tablero/internal/types"
)

// Client represents a connection to the tablero daemon for publishing
// accepted mutations and receiving live updates. It handles event sending,
// flushing, reconnection, and subscriptions.
//
// Events are semantic (edge added, card committed), so the sender forwards
// every queued event rather than collapsing them; the flush interval only
// bounds how often the socket is written.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	// Flush configuration
	eventQueue chan Event
	flushEvery time.Duration
	closed     bool // Prevent double-close panics

	// Reconnection configuration
	maxRetries int
	baseDelay  time.Duration

	// Subscription state
	currentBoardID types.BoardID

	// Event tracking
	lastSequence int64

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc

	// Sender goroutine; started once even across reconnects
	senderOnce sync.Once
	senderDone chan struct{}
}

// NewClient creates a new event client but does not connect.
// The socket path should be the full path to the Unix domain socket.
// The flush interval defaults to 50ms, configurable via TABLERO_EVENT_FLUSH_MS.
func NewClient(socketPath string) (*Client, error) {
	flushMs := 50
	if envVal := os.Getenv("TABLERO_EVENT_FLUSH_MS"); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			flushMs = parsed
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		socketPath: socketPath,
		eventQueue: make(chan Event, 100),
		flushEvery: time.Duration(flushMs) * time.Millisecond,
		maxRetries: 5,
		baseDelay:  1 * time.Second,
		ctx:        ctx,
		cancel:     cancel,
		senderDone: make(chan struct{}),
	}, nil
}

// Connect establishes a connection to the daemon socket.
// It sends an initial subscription message for all boards.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		// Classified errors carry a recovery hint for the caller to surface
		return ClassifyDaemonError(err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)

	// Subscribe to all boards until told otherwise
	msg := Message{
		Version: ProtocolVersion,
		Type:    "subscribe",
		Subscribe: &SubscribeMessage{
			BoardID: c.currentBoardID,
		},
	}
	if err := c.encoder.Encode(msg); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Printf("Error closing connection: %v", closeErr)
		}
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	c.senderOnce.Do(func() {
		go c.startSender()
	})

	return nil
}

// SendEvent queues an event to be sent to the daemon.
// Returns error if the queue is full (non-blocking send).
func (c *Client) SendEvent(event Event) error {
	select {
	case c.eventQueue <- event:
		return nil
	default:
		return fmt.Errorf("event queue full")
	}
}

// startSender runs in a goroutine and drains the queue to the socket on
// every flush tick. On shutdown it flushes whatever is still pending.
func (c *Client) startSender() {
	defer close(c.senderDone)

	ticker := time.NewTicker(c.flushEvery)
	defer ticker.Stop()

	flush := func() {
		for {
			select {
			case event, ok := <-c.eventQueue:
				if !ok {
					return
				}
				if event.Timestamp.IsZero() {
					event.Timestamp = time.Now()
				}
				if err := c.sendToSocket(event); err != nil {
					if !isConnectionError(err) {
						log.Printf("Failed to send event: %v", err)
					}
					return
				}
			default:
				return
			}
		}
	}

	for {
		select {
		case <-c.ctx.Done():
			flush()
			return
		case <-ticker.C:
			flush()
		}
	}
}

// sendToSocket sends an event to the daemon socket.
func (c *Client) sendToSocket(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected to daemon")
	}

	// Short write deadline to detect dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}

	msg := Message{
		Version: ProtocolVersion,
		Type:    "event",
		Event:   &event,
	}
	return c.encoder.Encode(msg)
}

// Listen starts listening for events from the daemon.
// It returns a channel that receives events and handles reconnection automatically.
// The channel is closed when context is done or reconnection fails.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	eventChan := make(chan Event, 10)
	go c.listenLoop(ctx, eventChan)
	return eventChan, nil
}

// listenLoop reads events from the daemon and handles reconnection.
func (c *Client) listenLoop(ctx context.Context, eventChan chan Event) {
	defer close(eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.readEvents(ctx, eventChan)
			if err != nil {
				log.Printf("Connection lost: %v, reconnecting...", err)

				if c.reconnect(ctx) {
					log.Printf("Reconnected to daemon")
					continue
				}

				log.Printf("Failed to reconnect after %d attempts, giving up", c.maxRetries)
				return
			}
		}
	}
}

// readEvents reads messages from the socket and sends them to the event channel.
func (c *Client) readEvents(ctx context.Context, eventChan chan Event) error {
	for {
		var msg Message

		c.mu.Lock()
		if c.conn == nil {
			c.mu.Unlock()
			return fmt.Errorf("connection closed")
		}
		// Read deadline to detect hung connections
		if err := c.conn.SetReadDeadline(time.Now().Add(60 * time.Second)); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to set read deadline: %w", err)
		}
		decoder := c.decoder
		c.mu.Unlock()

		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch msg.Type {
		case "event":
			if msg.Event != nil {
				// Drop replays and out-of-order duplicates
				if msg.Event.SequenceID > c.lastSequence {
					c.lastSequence = msg.Event.SequenceID
					select {
					case eventChan <- *msg.Event:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}

		case "ping":
			if err := c.sendToSocket(Event{Type: EventPong}); err != nil {
				// Broken pipe/connection closed is expected during disconnection
				if !isConnectionError(err) {
					log.Printf("Failed to send pong: %v", err)
				}
			}
		}
	}
}

// isConnectionError checks if an error is a network connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "use of closed network connection")
}

// reconnect attempts to reconnect to the daemon with exponential backoff.
// It tries up to maxRetries times, doubling the delay each time.
func (c *Client) reconnect(ctx context.Context) bool {
	delay := c.baseDelay

	for i := 0; i < c.maxRetries; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
			c.mu.Lock()
			if c.conn != nil {
				if err := c.conn.Close(); err != nil {
					log.Printf("Error closing connection during reconnect: %v", err)
				}
			}
			c.mu.Unlock()

			if err := c.Connect(ctx); err == nil {
				log.Printf("Reconnected to daemon (attempt %d/%d)", i+1, c.maxRetries)
				return true
			}

			log.Printf("Reconnection attempt %d/%d failed, retrying in %v", i+1, c.maxRetries, delay)
			delay *= 2 // Exponential backoff: 1s, 2s, 4s, 8s, 16s
		}
	}

	return false
}

// Subscribe changes the subscription to a specific board.
// BoardID 0 means subscribe to all boards.
func (c *Client) Subscribe(boardID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentBoardID = types.BoardID(boardID)

	msg := Message{
		Version: ProtocolVersion,
		Type:    "subscribe",
		Subscribe: &SubscribeMessage{
			BoardID: types.BoardID(boardID),
		},
	}

	if c.conn == nil {
		return fmt.Errorf("not connected to daemon")
	}

	return c.encoder.Encode(msg)
}

// Close closes the connection to the daemon and stops all goroutines.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	// Closing the queue lets the sender flush pending events before exiting
	if c.eventQueue != nil {
		close(c.eventQueue)
	}
	c.mu.Unlock()

	c.cancel()

	// If the sender never started (Connect was never called), consume the
	// once so senderDone still closes and the wait below cannot hang.
	c.senderOnce.Do(func() { close(c.senderDone) })

	// Wait for the sender to finish flushing
	<-c.senderDone

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return c.conn.Close()
	}

	return nil
}
