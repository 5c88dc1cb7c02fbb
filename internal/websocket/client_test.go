package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// starts a server that echoes every message back with type "echo"
func echoServer(t *testing.T) string {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: CheckOrigin("development", nil)}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		client := NewClient("c1", conn)
		go client.WritePump()

		client.ReadPump(func(c *Client, msg *Message) {
			_ = c.SendPayload("echo", msg)
		})
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestReadWritePumps(t *testing.T) {
	conn, _, err := websocket.DefaultDialer.Dial(echoServer(t), nil)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))

	var reply Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "echo", reply.Type)

	var inner Message
	require.NoError(t, json.Unmarshal(reply.Payload, &inner))
	assert.Equal(t, TypePing, inner.Type)
}

func TestInvalidMessageGetsError(t *testing.T) {
	conn, _, err := websocket.DefaultDialer.Dial(echoServer(t), nil)
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var reply Message
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, TypeError, reply.Type)
	assert.Contains(t, string(reply.Payload), "invalid message format")
}

func TestSendAfterClose(t *testing.T) {
	client := &Client{ID: "c1", send: make(chan []byte, 1), done: make(chan struct{})}
	client.Close()
	client.Close()

	assert.True(t, client.IsClosed())
	assert.ErrorIs(t, client.SendPayload(TypePong, nil), ErrConnectionClosed)
}

func TestSendBufferFull(t *testing.T) {
	client := &Client{ID: "c1", send: make(chan []byte, 1), done: make(chan struct{})}

	require.NoError(t, client.SendPayload(TypePong, nil))
	assert.ErrorIs(t, client.SendPayload(TypePong, nil), ErrConnectionClosed)
}

func TestSendWaitDeliversOnceBufferDrains(t *testing.T) {
	client := &Client{ID: "c1", send: make(chan []byte, 1), done: make(chan struct{})}
	require.NoError(t, client.SendPayload(TypeAttempt, nil))

	go func() {
		time.Sleep(50 * time.Millisecond)
		<-client.send
	}()

	require.NoError(t, client.SendPayloadWait(TypeResult, map[string]bool{"success": true}, 2*time.Second))

	var msg Message
	require.NoError(t, json.Unmarshal(<-client.send, &msg))
	assert.Equal(t, TypeResult, msg.Type)
}

func TestSendWaitTimesOut(t *testing.T) {
	client := &Client{ID: "c1", send: make(chan []byte, 1), done: make(chan struct{})}
	require.NoError(t, client.SendPayload(TypeAttempt, nil))

	assert.ErrorIs(t, client.SendPayloadWait(TypeResult, nil, 20*time.Millisecond), ErrSendTimeout)
}

func TestCloseReleasesBlockedSendWait(t *testing.T) {
	client := &Client{ID: "c1", send: make(chan []byte, 1), done: make(chan struct{})}
	require.NoError(t, client.SendPayload(TypeAttempt, nil))

	errc := make(chan error, 1)
	go func() {
		errc <- client.SendPayloadWait(TypeResult, nil, 10*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	client.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrConnectionClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("SendWait still blocked after Close")
	}
}

func TestAllowRunBurst(t *testing.T) {
	client := NewClient("c1", nil)

	for i := 0; i < runBurst; i++ {
		assert.True(t, client.AllowRun(), "run %d should be allowed", i+1)
	}

	assert.False(t, client.AllowRun())
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "development accepts anything", env: "development", origin: "http://evil.test", want: true},
		{name: "production requires origin", env: "production", allowed: []string{"http://localhost:3000"}, want: false},
		{name: "production without list", env: "production", origin: "http://localhost:3000", want: false},
		{name: "production listed", env: "production", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", want: true},
		{name: "production unlisted", env: "production", allowed: []string{"http://localhost:3000"}, origin: "http://evil.test", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.want, CheckOrigin(tt.env, tt.allowed)(r))
		})
	}
}

func TestGenerateClientID(t *testing.T) {
	a, err := GenerateClientID()
	require.NoError(t, err)
	b, err := GenerateClientID()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
