package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run run_ws.go <prompt> [provider]")
		fmt.Println("Example: go run run_ws.go \"add a red solid to the active comp\" openai")
		os.Exit(1)
	}

	prompt := os.Args[1]
	provider := ""
	if len(os.Args) > 2 {
		provider = os.Args[2]
	}

	host := os.Getenv("CONJURE_HOST")
	if host == "" {
		host = "localhost:8080"
	}

	u := url.URL{
		Scheme: "ws",
		Host:   host,
		Path:   "/api/v1/run/ws",
	}

	fmt.Printf("Connecting to %s\n", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close() //nolint:errcheck

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			var msg Message
			if err := c.ReadJSON(&msg); err != nil {
				log.Println("read:", err)
				return
			}

			switch msg.Type {
			case "code":
				var payload struct {
					Attempt int    `json:"attempt"`
					Code    string `json:"code"`
				}
				_ = json.Unmarshal(msg.Payload, &payload)
				fmt.Printf("--- attempt %d code ---\n%s\n", payload.Attempt, strings.TrimSpace(payload.Code))
			case "result", "error":
				fmt.Printf("%s: %s\n", msg.Type, msg.Payload)
				return
			default:
				fmt.Printf("%s: %s\n", msg.Type, msg.Payload)
			}
		}
	}()

	run, _ := json.Marshal(map[string]any{
		"type": "run",
		"payload": map[string]any{
			"prompt":   prompt,
			"provider": provider,
		},
	})
	if err := c.WriteMessage(websocket.TextMessage, run); err != nil {
		log.Println("write:", err)
		return
	}

	select {
	case <-done:
	case <-interrupt:
		fmt.Println("\ncancelling run...")

		cancel, _ := json.Marshal(map[string]any{"type": "cancel"})
		if err := c.WriteMessage(websocket.TextMessage, cancel); err != nil {
			log.Println("write cancel:", err)
		}

		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}

	err = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		log.Println("write close:", err)
	}
}
