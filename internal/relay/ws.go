package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kunjshukla/ain/internal/metrics"
	"github.com/kunjshukla/ain/internal/models"
)

// Event is the WebSocket envelope, both directions.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client wraps a WebSocket connection with serialized writes.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	hook func(eventType string, data interface{})
}

func NewClient(conn *websocket.Conn) *Client { return &Client{conn: conn} }

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(eventType string, data interface{})) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Emit sends one typed event to the client.
func (c *Client) Emit(eventType string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(eventType, data)
		return
	}
	if c.conn == nil {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	_ = c.conn.WriteJSON(Event{Type: eventType, Data: payload})
}

// WSHandler relays interview events between a client and the turn service:
// zero or more ai_token events per answer, terminated by one ai_complete.
type WSHandler struct {
	turns    *TurnService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWSHandler(turns *TurnService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		turns:    turns,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   logger,
	}
}

// ServeHTTP upgrades the connection and runs the event loop.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	metrics.WSConnected()
	defer metrics.WSDisconnected()

	client := NewClient(conn)
	client.Emit("connection_response", map[string]string{
		"status":  "connected",
		"message": "Successfully connected to interview coach",
	})

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		h.Dispatch(r.Context(), client, &event)
	}
}

// Dispatch routes one inbound event. Exported for tests.
func (h *WSHandler) Dispatch(ctx context.Context, client *Client, event *Event) {
	switch event.Type {
	case "start_interview":
		h.handleStart(client, event.Data)
	case "voice_input":
		h.handleVoiceInput(ctx, client, event.Data)
	default:
		h.logger.Debug("unknown event type", zap.String("type", event.Type))
	}
}

func (h *WSHandler) handleStart(client *Client, data json.RawMessage) {
	var req models.StartInterviewRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			client.Emit("error", models.ErrorResponse{Message: "Invalid start_interview payload"})
			return
		}
	}
	_ = req.Validate()
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	h.logger.Info("interview session starting",
		zap.String("session_id", req.SessionID),
		zap.String("job_role", req.JobRole))

	client.Emit("interview_session_created", models.SessionCreatedResponse{
		SessionID: req.SessionID,
		JobRole:   req.JobRole,
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *WSHandler) handleVoiceInput(ctx context.Context, client *Client, data json.RawMessage) {
	var req models.TurnRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.Emit("error", models.ErrorResponse{Message: "Invalid voice_input payload"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	if req.JobRole == "" {
		req.JobRole = "Software Engineer"
	}

	result, err := h.turns.ProcessTurn(ctx, req, func(token models.TokenEvent) {
		client.Emit("ai_token", token)
	})
	if err != nil {
		client.Emit("error", models.ErrorResponse{Message: err.Error()})
		return
	}

	client.Emit("ai_complete", result)
}
