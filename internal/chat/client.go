// File: internal/chat/client.go
package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bookmyseva/backend/internal/logging"
)

var ErrClientClosed = errors.New("client connection closed")

// Client is one live websocket connection, widget or admin console.
// Writes go through a mutex because gorilla/websocket allows only one
// concurrent writer.
type Client struct {
	ConnID      string
	IsAdmin     bool
	OriginIP    string
	UserAgent   string
	ConnectedAt time.Time

	// Guest details cached from a prior join_session so a lazily created
	// session can be stamped with them.
	mu           sync.Mutex
	guestDetails GuestDetails
	socket       *websocket.Conn
	closed       bool

	log logging.Logger
}

func NewClient(conn *websocket.Conn, isAdmin bool, originIP, userAgent string, log logging.Logger) *Client {
	return &Client{
		ConnID:      uuid.New().String(),
		IsAdmin:     isAdmin,
		OriginIP:    originIP,
		UserAgent:   userAgent,
		ConnectedAt: time.Now(),
		socket:      conn,
		log:         log,
	}
}

// CacheGuestDetails remembers contact fields supplied on join so a later
// send_message can stamp them onto a new session.
func (c *Client) CacheGuestDetails(d GuestDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d.Name != "" {
		c.guestDetails.Name = d.Name
	}
	if d.Phone != "" {
		c.guestDetails.Phone = d.Phone
	}
	if d.Email != "" {
		c.guestDetails.Email = d.Email
	}
}

func (c *Client) GuestDetails() GuestDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guestDetails
}

// Send writes a frame to the connection. Thread-safe.
func (c *Client) Send(frame Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return c.socket.WriteJSON(frame)
}

// Emit marshals payload and sends it as a named event.
func (c *Client) Emit(event string, payload any) error {
	f, err := NewFrame(event, payload)
	if err != nil {
		return err
	}
	return c.Send(f)
}

// EmitError reports a failed inbound event back to this connection.
func (c *Client) EmitError(event, message string) {
	if err := c.Emit(EventError, ErrorPayload{Event: event, Message: message}); err != nil {
		c.log.Warn("failed to emit error event", "connId", c.ConnID, "error", err)
	}
}

// ReadFrame blocks for the next inbound frame.
func (c *Client) ReadFrame() (Frame, error) {
	_, msg, err := c.socket.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	var f Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		return Frame{}, err
	}
	return f, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.socket.Close()
}
