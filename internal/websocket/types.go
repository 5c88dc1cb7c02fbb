package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// message type constants for websocket communication
const (
	// client -> server: start a run
	TypeRun = "run"

	// client -> server: cancel the in-flight run
	TypeCancel = "cancel"

	// run progress, mirrors engine events
	TypeAttempt = "attempt"
	TypeCode    = "code"
	TypeResult  = "result"

	TypeError          = "error"
	TypePing           = "ping"
	TypePong           = "pong"
	TypeServerShutdown = "server_shutdown"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512 * 1024 // 512 KB

	sendBufferSize = 64

	// run requests per client: a sustained rate plus a small burst
	runsPerMinute = 10
	runBurst      = 3
)

var (
	ErrInvalidMessage   = errors.New("invalid message format")
	ErrConnectionClosed = errors.New("connection closed")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrSendTimeout      = errors.New("send timed out")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// processes one inbound message
type Handler func(client *Client, msg *Message)

// represents a websocket client connection
type Client struct {
	// unique identifier for this client
	ID string

	conn   *websocket.Conn
	send   chan []byte
	mu     sync.RWMutex
	closed bool

	// closed before send so blocked senders can give up
	done      chan struct{}
	closeOnce sync.Once

	runLimiter *rate.Limiter
}
