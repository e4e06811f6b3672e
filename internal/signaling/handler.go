package signaling

import "strings"

// Handler decodes incoming envelopes and routes them to per-event channels.
// Payloads are validated here so the rest of the session never sees a
// half-formed message.
type Handler struct {
	client *Client

	RoomJoined   chan *PeerPayload
	PeerJoined   chan *PeerPayload
	PeerLeft     chan struct{}
	Offer        chan *OfferPayload
	Answer       chan *AnswerPayload
	Candidate    chan *CandidatePayload
	ShareStarted chan *ScreenSharePayload
	ShareStopped chan struct{}
	Chat         chan *ChatPayload
	Error        chan string
	Done         chan struct{}
}

// NewHandler creates a new message handler.
func NewHandler(client *Client) *Handler {
	return &Handler{
		client:       client,
		RoomJoined:   make(chan *PeerPayload, 1),
		PeerJoined:   make(chan *PeerPayload, 1),
		PeerLeft:     make(chan struct{}, 1),
		Offer:        make(chan *OfferPayload, 1),
		Answer:       make(chan *AnswerPayload, 1),
		Candidate:    make(chan *CandidatePayload, 32),
		ShareStarted: make(chan *ScreenSharePayload, 4),
		ShareStopped: make(chan struct{}, 4),
		Chat:         make(chan *ChatPayload, 32),
		Error:        make(chan string, 4),
		Done:         make(chan struct{}),
	}
}

// Start consumes the client's incoming channel until the transport drops,
// then closes every channel. The pump is the sole sender, so closing only
// after it exits means a late frame can never hit a closed channel.
func (h *Handler) Start() {
	for env := range h.client.Incoming() {
		h.dispatch(env)
	}

	close(h.RoomJoined)
	close(h.PeerJoined)
	close(h.PeerLeft)
	close(h.Offer)
	close(h.Answer)
	close(h.Candidate)
	close(h.ShareStarted)
	close(h.ShareStopped)
	close(h.Chat)
	close(h.Error)
	close(h.Done)
}

func (h *Handler) dispatch(env *Envelope) {
	switch env.Type {

	case EventRoomJoined:
		var peer PeerPayload
		if env.Payload != nil {
			if err := env.Decode(&peer); err != nil {
				h.report("malformed room-joined payload")
				return
			}
		}
		trySend(h.RoomJoined, &peer)

	case EventPeerJoined:
		var peer PeerPayload
		if err := env.Decode(&peer); err != nil {
			h.report("malformed peer-joined payload")
			return
		}
		trySend(h.PeerJoined, &peer)

	case EventPeerLeft:
		trySend(h.PeerLeft, struct{}{})

	case EventOffer:
		var offer OfferPayload
		if err := env.Decode(&offer); err != nil || offer.SDP == "" {
			h.report("malformed offer payload")
			return
		}
		trySend(h.Offer, &offer)

	case EventAnswer:
		var answer AnswerPayload
		if err := env.Decode(&answer); err != nil || answer.SDP == "" {
			h.report("malformed answer payload")
			return
		}
		trySend(h.Answer, &answer)

	case EventICECandidate:
		var candidate CandidatePayload
		if err := env.Decode(&candidate); err != nil || candidate.Candidate == "" {
			h.report("malformed ice-candidate payload")
			return
		}
		trySend(h.Candidate, &candidate)

	case EventScreenShareStarted:
		var share ScreenSharePayload
		if env.Payload != nil {
			if err := env.Decode(&share); err != nil {
				h.report("malformed screen-share payload")
				return
			}
		}
		if share.Kind == "" {
			share.Kind = ShareKindScreen
		}
		trySend(h.ShareStarted, &share)

	case EventScreenShareStopped:
		trySend(h.ShareStopped, struct{}{})

	case EventChatMessage:
		var chat ChatPayload
		if err := env.Decode(&chat); err != nil || strings.TrimSpace(chat.Text) == "" {
			h.report("malformed chat payload")
			return
		}
		trySend(h.Chat, &chat)

	case EventError:
		var errPayload ErrorPayload
		if err := env.Decode(&errPayload); err != nil {
			h.report("unknown error from relay")
			return
		}
		h.report(errPayload.Error)

	default:
		// Unknown event kinds are ignored so older clients keep working.
	}
}

func (h *Handler) report(msg string) {
	trySend(h.Error, msg)
}

// trySend drops the value when the receiver has fallen behind. Dropping
// beats blocking the dispatch loop: every channel here is either buffered
// generously or carries an event whose repetition is harmless.
func trySend[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
