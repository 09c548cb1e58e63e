package handlers

import (
	"log"
	"net/http"

	"github.com/mreyes/jobtrack/internal/api/middleware"
	"github.com/mreyes/jobtrack/internal/service"
	"github.com/mreyes/jobtrack/internal/websocket"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are filtered by the CORS layer in front
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// Handle authenticates the connection, upgrades it and starts the pumps. The
// client still has to send join-user before it receives any events; the hub
// only ever lets it join the room of the identity proven here.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Token required")
		return
	}

	userID, err := h.authService.ValidateToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
