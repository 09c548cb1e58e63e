package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub maps user identities to their live connections. Each connection sits in
// at most one user's room; joining again replaces the previous membership.
// The hub is owned by the composition root and injected wherever events are
// emitted, never reached through package state.
type Hub struct {
	rooms      map[uuid.UUID]map[*Client]bool
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	join       chan *joinRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

type joinRequest struct {
	client *Client
	userID uuid.UUID
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan *joinRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				h.removeFromRoom(client)
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.removeFromRoom(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.join:
			h.mu.Lock()
			if !h.stopped {
				h.handleJoin(req)
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts down the hub and disconnects every client.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Join places the client in the room of the given user. Callers must pass an
// identity resolved by the authorization layer; the hub does not re-verify it.
func (h *Hub) Join(client *Client, userID uuid.UUID) {
	select {
	case h.join <- &joinRequest{client: client, userID: userID}:
	case <-h.done:
	}
}

// Emit delivers an event to every connection in the user's room. Delivery is
// best effort: there is no queue or replay, and a client that is disconnected
// or has a full buffer simply misses the event and reconciles on its next
// full fetch.
func (h *Hub) Emit(userID uuid.UUID, event string, payload interface{}) {
	h.EmitExcept(userID, event, payload, nil)
}

// EmitExcept is Emit with one connection left out, used when relaying a change
// that originated on that same connection.
func (h *Hub) EmitExcept(userID uuid.UUID, event string, payload interface{}, exclude *Client) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		log.Printf("ERROR [websocket.Emit] failed to marshal %s payload: %v", event, err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ERROR [websocket.Emit] failed to marshal %s message: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[userID] {
		if client == exclude {
			continue
		}
		client.trySend(data)
	}
}

// RoomSize reports the number of connections currently in the user's room.
func (h *Hub) RoomSize(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// handleJoin must be called with h.mu held.
func (h *Hub) handleJoin(req *joinRequest) {
	if _, ok := h.clients[req.client]; !ok {
		return
	}

	h.removeFromRoom(req.client)

	room, ok := h.rooms[req.userID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[req.userID] = room
	}
	room[req.client] = true
	req.client.room = req.userID

	req.client.sendMessage(MessageTypeJoined, JoinedPayload{UserID: req.userID.String()})
}

// removeFromRoom detaches the client from its current room, if any. Safe to
// call for a client that was already removed. Must be called with h.mu held.
func (h *Hub) removeFromRoom(client *Client) {
	if client.room == uuid.Nil {
		return
	}
	if room, ok := h.rooms[client.room]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.room)
		}
	}
	client.room = uuid.Nil
}
