package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rohits-web03/collabdrive/internal/auth"
	"github.com/rohits-web03/collabdrive/internal/sessions"
	"github.com/rohits-web03/collabdrive/internal/utils"
	"gorm.io/gorm"
)

// Subprotocol is the application protocol a client must offer alongside its
// token in the Sec-WebSocket-Protocol header.
const Subprotocol = "collabdrive-v1"

type Handler struct {
	Tokens *auth.TokenService
	DB     *gorm.DB
	Hub    *Hub
}

func NewHandler(tokens *auth.TokenService, db *gorm.DB, hub *Hub) *Handler {
	return &Handler{Tokens: tokens, DB: db, Hub: hub}
}

func (h *Handler) NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
		Subprotocols: []string{Subprotocol},
	}
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type joinRoomData struct {
	FileID string `json:"fileId"`
	Color  string `json:"color"`
}

type leaveRoomData struct {
	FileID string `json:"fileId"`
}

type contentChangeData struct {
	FileID  string `json:"fileId"`
	Content string `json:"content"`
}

// ServeWS authenticates the handshake with the same token contract as the
// REST surface, then hands the connection to the hub pumps.
func (h *Handler) ServeWS(upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	protocols := strings.Split(r.Header.Get("Sec-WebSocket-Protocol"), ",")
	if len(protocols) != 2 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	token := strings.TrimSpace(protocols[1])

	claims, authErr := h.Tokens.Verify(token)
	sessionOK := false
	if authErr == nil {
		userID, err := uuid.Parse(claims.Subject)
		if err == nil {
			sessionOK, err = sessions.ValidateUser(h.DB, userID, utils.ClientIP(r), r.UserAgent())
			if err != nil {
				log.Printf("WS session lookup failed: %v", err)
			}
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade ws connection: %v", err)
		return
	}

	// The connection must be upgraded before a custom close frame can be
	// delivered to the client.
	if authErr != nil || !sessionOK {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthenticated"),
		)
		conn.Close()
		return
	}

	client := NewClient(h.Hub, conn, Identity{ID: claims.Subject, Name: claims.Name}, h.handleMessage)

	go client.ReadPump()
	go client.WritePump(shutdownCtx)
}

// handleMessage dispatches one inbound frame. Unknown or malformed frames
// are dropped; they must never take the connection down for everyone else.
func (h *Handler) handleMessage(c *Client, messageBytes []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		log.Printf("WS malformed frame from user %s: %v", c.identity.ID, err)
		return
	}

	switch msg.Type {
	case "join-room":
		var data joinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.FileID == "" {
			return
		}
		if data.Color == "" {
			data.Color = "#1976d2"
		}
		h.Hub.Join(c, data.FileID, data.Color)

	case "leave-room":
		var data leaveRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.FileID == "" {
			return
		}
		h.Hub.Leave(c, data.FileID)

	case "content-change":
		var data contentChangeData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.FileID == "" {
			return
		}
		h.Hub.ContentChange(c, data.FileID, data.Content)

	default:
		log.Printf("WS unknown message type %q from user %s", msg.Type, c.identity.ID)
	}
}
