package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/2b3pro/ae-conjure/internal/errors"
	"github.com/2b3pro/ae-conjure/internal/logger"
)

// creates a new webSocket client connection
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:         id,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		done:       make(chan struct{}),
		runLimiter: rate.NewLimiter(rate.Every(time.Minute/runsPerMinute), runBurst),
	}
}

// reports whether the client may start another run now
func (c *Client) AllowRun() bool {
	return c.runLimiter.Allow()
}

// creates a message with a JSON payload
func NewMessage(msgType string, payload any) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		Timestamp: time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}

	return msg, nil
}

// reads messages from the connection and hands them to handle until the
// peer goes away. Closes the client on return.
func (c *Client) ReadPump(handle Handler) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"error", err,
				)
			}

			return
		}

		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil || msg.Type == "" {
			c.SendError(errors.CodeBadRequest, ErrInvalidMessage.Error(), "")
			continue
		}

		msg.Timestamp = time.Now()
		handle(c, &msg)
	}
}

// writes queued messages to the connection and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// client closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// queues a message for the client
func (c *Client) Send(msg *Message) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		logger.Warn("websocket send buffer full, dropping message",
			"client_id", c.ID,
			"type", msg.Type,
		)
		return ErrConnectionClosed
	}
}

// queues a message, waiting up to timeout for room in the send buffer. Used
// for messages the peer must not miss, such as the result that ends a run.
func (c *Client) SendWait(msg *Message, timeout time.Duration) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnectionClosed
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case c.send <- messageBytes:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-timer.C:
		logger.Warn("websocket send timed out",
			"client_id", c.ID,
			"type", msg.Type,
		)
		return ErrSendTimeout
	}
}

// builds a message and queues it with SendWait
func (c *Client) SendPayloadWait(msgType string, payload any, timeout time.Duration) error {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return err
	}

	return c.SendWait(msg, timeout)
}

// builds and queues a message
func (c *Client) SendPayload(msgType string, payload any) error {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return err
	}

	return c.Send(msg)
}

// sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	if details != "" {
		details = sanitizeErrorString(details)
	}

	if err := c.SendPayload(TypeError, errors.ErrorResponse{
		Error:   code,
		Message: message,
		Details: details,
	}); err != nil {
		logger.Debug("failed to send error message",
			"client_id", c.ID,
			"error_code", code,
			"error", err,
		)
	}
}

// closes the client connection
func (c *Client) Close() {
	// release any SendWait before taking the write lock
	c.closeOnce.Do(func() { close(c.done) })

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}
