package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mreyes/jobtrack/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg websocket.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// JoinUser sends a join-user message and waits for the joined confirmation.
func (c *WSClient) JoinUser(userID string) {
	c.t.Helper()

	c.send(websocket.MessageTypeJoinUser, websocket.JoinUserPayload{UserID: userID})

	msg := c.WaitForMessage(websocket.MessageTypeJoined, 5*time.Second)
	if msg == nil {
		c.t.Fatalf("did not receive joined confirmation")
	}
}

// SendJoinUser sends a join-user message without waiting for a reply.
func (c *WSClient) SendJoinUser(userID string) {
	c.t.Helper()
	c.send(websocket.MessageTypeJoinUser, websocket.JoinUserPayload{UserID: userID})
}

// SendRaw writes an arbitrary text frame, useful for malformed input tests.
func (c *WSClient) SendRaw(raw string) {
	c.t.Helper()

	c.mu.Lock()
	err := c.conn.WriteMessage(gorillaWS.TextMessage, []byte(raw))
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send raw message: %v", err)
	}
}

func (c *WSClient) send(msgType string, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// WaitForMessage blocks until a message of the given type arrives or the
// timeout passes; returns nil on timeout.
func (c *WSClient) WaitForMessage(msgType string, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				return nil
			}
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			return nil
		}
	}
}

// ExpectNoMessage asserts that no message of the given type arrives within
// the window.
func (c *WSClient) ExpectNoMessage(msgType string, window time.Duration) {
	c.t.Helper()

	deadline := time.After(window)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				return
			}
			if msg.Type == msgType {
				c.t.Fatalf("unexpected %s message received", msgType)
			}
		case <-deadline:
			return
		}
	}
}
