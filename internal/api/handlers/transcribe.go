package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yt-subtitles/backend/internal/pipeline"
)

// requestReadTimeout bounds how long a freshly opened channel may sit idle
// before the job request arrives
const requestReadTimeout = 30 * time.Second

// TranscribeHandler owns the streaming channel: one websocket connection per
// job, carrying the request upstream and progress plus one terminal result
// downstream.
type TranscribeHandler struct {
	runner   *pipeline.Runner
	upgrader websocket.Upgrader
}

func NewTranscribeHandler(runner *pipeline.Runner) *TranscribeHandler {
	return &TranscribeHandler{
		runner: runner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Extension origins (chrome-extension://) never match the host;
			// the job carries its own credentials, so origin checks add nothing
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Stream upgrades the connection, reads one job request and forwards pipeline
// events until the terminal result, then closes. A client disconnect stops
// forwarding but the job runs to completion so the cache still gets written.
func (h *TranscribeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[channel] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	req, err := readJobRequest(conn)
	if err != nil {
		log.Printf("[channel] no job request received: %v", err)
		conn.WriteJSON(map[string]interface{}{
			"action":  pipeline.ActionTranscriptionResult,
			"success": false,
			"error":   "malformed job request",
		})
		return
	}

	events := h.runner.Run(*req)

	// Keep-alive signals may arrive at any time; read and discard them so
	// the connection's read side stays drained
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	clientGone := false
	for ev := range events {
		if clientGone {
			continue // drain; the result is discarded but the job finishes
		}
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[channel] client disconnected, discarding remaining events: %v", err)
			clientGone = true
		}
	}

	if !clientGone {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}
}

// readJobRequest reads messages until the first one that is not a keep-alive
func readJobRequest(conn *websocket.Conn) (*pipeline.Request, error) {
	conn.SetReadDeadline(time.Now().Add(requestReadTimeout))
	defer conn.SetReadDeadline(time.Time{})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		var probe struct {
			Action string `json:"action"`
		}
		if err := json.Unmarshal(msg, &probe); err != nil {
			return nil, fmt.Errorf("parse message: %w", err)
		}
		if probe.Action == "ping" || probe.Action == "keepalive" {
			continue
		}

		var req pipeline.Request
		if err := json.Unmarshal(msg, &req); err != nil {
			return nil, fmt.Errorf("parse job request: %w", err)
		}
		return &req, nil
	}
}
