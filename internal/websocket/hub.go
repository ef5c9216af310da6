package websocket

import (
	"encoding/json"
	"log/slog"

	"bot-console/internal/event"
)

// Hub relays console events (notifications, view refresh hints, bot state
// changes) to every connected browser session.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	bus        event.Bus
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
	}
}

func (h *Hub) Run() {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			h.drop(client)
		case e := <-events:
			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("marshal event", "type", e.Type, "error", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Stuck writer; cut it loose rather than queue behind it.
					h.drop(client)
				}
			}
		}
	}
}

// drop removes a client and stops its refresh timer so no refresh loop
// outlives its connection.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.teardown()
	close(client.send)
}
