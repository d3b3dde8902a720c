package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/interclass/tournament-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Rooms carry public scoreboard data only.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the connection and joins the room for one
// modality/category pair.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	modality := r.URL.Query().Get("modality")
	category := r.URL.Query().Get("category")
	if modality == "" || category == "" {
		errorResponse(w, http.StatusBadRequest, "query parameters modality and category are required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, live.RoomFor(modality, category))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump(h.logger)
}
