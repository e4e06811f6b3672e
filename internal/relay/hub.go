package relay

import (
	"log/slog"

	"github.com/Naveenpl1081/algonest-call/internal/signaling"
)

// Hub owns all room and client state. A single goroutine runs the hub loop,
// so no state here needs locking.
type Hub struct {
	// Rooms maps room IDs to Room instances.
	Rooms map[string]*Room

	// Register announces new connections.
	Register chan *Client

	// Unregister announces dropped connections.
	Unregister chan *Client

	// Inbound carries decoded envelopes from client read pumps.
	Inbound chan *inbound
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		Rooms:      make(map[string]*Room),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Inbound:    make(chan *inbound),
	}
}

// Run starts the hub's main processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			slog.Debug("client registered", "addr", remoteAddr(client))

		case client := <-h.Unregister:
			h.dropClient(client)

		case in := <-h.Inbound:
			h.handle(in.env, in.client)
		}
	}
}

// handle processes one envelope from a participant.
func (h *Hub) handle(env *signaling.Envelope, client *Client) {
	switch env.Type {

	case signaling.EventJoinRoom:
		h.joinRoom(env, client)

	case signaling.EventOffer,
		signaling.EventAnswer,
		signaling.EventICECandidate,
		signaling.EventScreenShareStarted,
		signaling.EventScreenShareStopped,
		signaling.EventChatMessage:
		h.forward(env, client)

	default:
		slog.Debug("unknown envelope type", "type", env.Type)
	}
}

// joinRoom places the client into the room named by the envelope, creating
// the room if this is the first participant. The first joiner becomes the
// host (offer side), the second the guest; a third is rejected.
func (h *Hub) joinRoom(env *signaling.Envelope, client *Client) {
	if env.RoomID == "" {
		h.sendError(client, "room id is required")
		return
	}

	var join signaling.JoinPayload
	if env.Payload != nil {
		if err := env.Decode(&join); err != nil {
			h.sendError(client, "malformed join payload")
			return
		}
	}
	client.DisplayName = join.DisplayName

	room, ok := h.Rooms[env.RoomID]
	if !ok {
		room = &Room{ID: env.RoomID, Host: client}
		h.Rooms[env.RoomID] = room
		client.RoomID = env.RoomID

		slog.Info("room opened", "room", room.ID, "host", join.DisplayName)
		h.notify(client, signaling.EventRoomJoined, room.ID, nil)
		return
	}

	if room.Guest != nil {
		slog.Info("room full", "room", room.ID)
		h.sendError(client, "room is full")
		return
	}

	room.Guest = client
	client.RoomID = room.ID
	slog.Info("guest joined", "room", room.ID, "guest", join.DisplayName)

	// Tell the host who arrived, and the guest who was waiting.
	if room.Host != nil {
		h.notify(room.Host, signaling.EventPeerJoined, room.ID,
			&signaling.PeerPayload{DisplayName: client.DisplayName})
		h.notify(client, signaling.EventRoomJoined, room.ID,
			&signaling.PeerPayload{DisplayName: room.Host.DisplayName})
	} else {
		h.notify(client, signaling.EventRoomJoined, room.ID, nil)
	}
}

// forward relays a negotiation or chat envelope to the other participant in
// the sender's room, untouched.
func (h *Hub) forward(env *signaling.Envelope, client *Client) {
	if client.RoomID == "" {
		h.sendError(client, "join a room first")
		return
	}

	room, ok := h.Rooms[client.RoomID]
	if !ok {
		h.sendError(client, "room not found")
		return
	}

	target := room.other(client)
	if target == nil {
		slog.Debug("no peer to relay to", "room", room.ID, "type", env.Type)
		return
	}

	target.Send <- env
}

// dropClient removes a disconnected client from its room, notifies the
// survivor and deletes the room when it empties.
func (h *Hub) dropClient(client *Client) {
	slog.Debug("client unregistered", "addr", remoteAddr(client))

	if client.RoomID != "" {
		if room, ok := h.Rooms[client.RoomID]; ok {
			var survivor *Client

			if room.Host == client {
				room.Host = nil
				survivor = room.Guest
			} else if room.Guest == client {
				room.Guest = nil
				survivor = room.Host
			}

			if room.empty() {
				delete(h.Rooms, room.ID)
				slog.Info("room closed", "room", room.ID)
			} else if survivor != nil {
				slog.Info("peer left", "room", room.ID)
				h.notify(survivor, signaling.EventPeerLeft, room.ID, nil)
			}
		}
	}

	close(client.Send)
}

func (h *Hub) notify(client *Client, eventType, roomID string, payload any) {
	env, err := signaling.NewEnvelope(eventType, roomID, payload)
	if err != nil {
		slog.Error("failed to encode notification", "type", eventType, "err", err)
		return
	}
	client.Send <- env
}

func (h *Hub) sendError(client *Client, msg string) {
	h.notify(client, signaling.EventError, "", &signaling.ErrorPayload{Error: msg})
}

func remoteAddr(c *Client) string {
	if c.Conn == nil {
		return "?"
	}
	return c.Conn.RemoteAddr().String()
}
