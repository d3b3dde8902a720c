package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/interclass/tournament-system/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Message is the envelope pushed to scoreboard clients.
type Message struct {
	Type    string      `json:"type"` // GAME_UPDATED, STANDINGS_DIRTY
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

// RoomFor names the hub room of a modality/category pair.
func RoomFor(modality, category string) string {
	return fmt.Sprintf("%s/%s", modality, category)
}

// Hub fans live game updates out to websocket clients grouped by
// modality/category room.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	logger *slog.Logger
	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger,
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run owns the room bookkeeping. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("live client joined", slog.String("room", client.Room), slog.Int("clients", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.logger.Info("live client left", slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom pushes one message to every client in the room.
// Clients whose send buffer is full are skipped rather than blocked on.
func (h *Hub) BroadcastToRoom(room string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	msg.Room = room
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("live message marshal failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.trySend(data)
	}
}

// GameTransitioned implements the scheduler and game-service notifier:
// every automatic or manual transition is pushed to the game's room,
// followed by a standings invalidation for finished group games.
func (h *Hub) GameTransitioned(game *models.Game, to models.GameStatus) {
	room := RoomFor(game.Modality, game.Category)
	h.BroadcastToRoom(room, Message{Type: "GAME_UPDATED", Payload: map[string]interface{}{
		"game_id": game.ID,
		"status":  to,
	}})
	if to == models.StatusFinished && game.Stage == models.StageGroup {
		h.BroadcastToRoom(room, Message{Type: "STANDINGS_DIRTY", Payload: map[string]interface{}{
			"modality": game.Modality,
			"category": game.Category,
		}})
	}
}
