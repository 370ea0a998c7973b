package websocket

import "github.com/rs/zerolog/log"

// Hub maintains the set of connected feed clients and broadcasts prompt
// events to them so open feeds can reconcile without a reload. All map
// access happens on the Run goroutine; targeted sends go through a channel
// for the same reason.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Targeted messages for the watchers of one prompt.
	broadcastTo chan targetedMessage

	// A map of prompt IDs to the set of clients watching that listing
	// (detail pages subscribe to a single prompt).
	subscriptions map[string]map[*Client]bool
}

// targetedMessage carries a payload for the watchers of one prompt.
type targetedMessage struct {
	promptID string
	payload  []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		broadcastTo:   make(chan targetedMessage),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
			// If the client connected watching a prompt, subscribe them.
			if client.PromptID != "" {
				h.addSubscription(client, client.PromptID)
			}
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.removeSubscription(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				// Per-prompt watchers only receive targeted sends, so
				// they never see an event twice.
				if client.PromptID != "" {
					continue
				}
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
					h.removeSubscription(client)
				}
			}
		case msg := <-h.broadcastTo:
			for client := range h.subscriptions[msg.promptID] {
				select {
				case client.Send <- msg.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
					delete(h.subscriptions[msg.promptID], client)
				}
			}
		}
	}
}

// BroadcastTo sends a message to all clients watching a specific prompt ID.
func (h *Hub) BroadcastTo(promptID string, message []byte) {
	h.broadcastTo <- targetedMessage{promptID: promptID, payload: message}
}

func (h *Hub) addSubscription(client *Client, promptID string) {
	if h.subscriptions[promptID] == nil {
		h.subscriptions[promptID] = make(map[*Client]bool)
	}
	h.subscriptions[promptID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	for promptID, subs := range h.subscriptions {
		if _, ok := subs[client]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscriptions, promptID)
			}
		}
	}
}
