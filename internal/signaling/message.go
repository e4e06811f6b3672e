package signaling

import (
	"github.com/pion/webrtc/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// Event type constants. The client-to-relay kinds mirror the events the
// AlgoNest web client emits; the relay additionally notifies clients about
// room membership changes.
const (
	EventJoinRoom           = "join-room"
	EventOffer              = "offer"
	EventAnswer             = "answer"
	EventICECandidate       = "ice-candidate"
	EventScreenShareStarted = "screen-share-started"
	EventScreenShareStopped = "screen-share-stopped"
	EventChatMessage        = "chat-message"

	EventRoomJoined = "room-joined"
	EventPeerJoined = "peer-joined"
	EventPeerLeft   = "peer-left"
	EventError      = "error"
)

// ShareKindScreen tags a share notification as display capture. The tag
// travels out-of-band so receivers never have to sniff track labels.
const ShareKindScreen = "screen"

// Envelope is the wire frame for every message between client and relay.
// The payload stays opaque to the relay, which forwards it verbatim.
type Envelope struct {
	Type    string             `msgpack:"type"`
	RoomID  string             `msgpack:"room_id,omitempty"`
	Payload msgpack.RawMessage `msgpack:"payload,omitempty"`
}

// NewEnvelope encodes payload and wraps it in an envelope of the given kind.
func NewEnvelope(eventType, roomID string, payload any) (*Envelope, error) {
	if payload == nil {
		return &Envelope{Type: eventType, RoomID: roomID}, nil
	}

	b, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Envelope{Type: eventType, RoomID: roomID, Payload: b}, nil
}

// Decode unmarshals the envelope payload into the provided struct.
func (e *Envelope) Decode(v any) error {
	return msgpack.Unmarshal(e.Payload, v)
}

// JoinPayload accompanies join-room.
type JoinPayload struct {
	DisplayName string `msgpack:"display_name"`
}

// OfferPayload carries the initiator's session description.
type OfferPayload struct {
	SDP string `msgpack:"sdp"`
}

// AnswerPayload carries the callee's session description.
type AnswerPayload struct {
	SDP string `msgpack:"sdp"`
}

// CandidatePayload carries one ICE candidate.
type CandidatePayload struct {
	Candidate        string  `msgpack:"candidate"`
	SDPMid           *string `msgpack:"sdp_mid,omitempty"`
	SDPMLineIndex    *uint16 `msgpack:"sdp_mline_index,omitempty"`
	UsernameFragment *string `msgpack:"username_fragment,omitempty"`
}

// NewCandidatePayload converts a pion candidate into its wire form.
func NewCandidatePayload(init webrtc.ICECandidateInit) CandidatePayload {
	return CandidatePayload{
		Candidate:        init.Candidate,
		SDPMid:           init.SDPMid,
		SDPMLineIndex:    init.SDPMLineIndex,
		UsernameFragment: init.UsernameFragment,
	}
}

// ICECandidateInit converts the wire form back into the pion type.
func (p CandidatePayload) ICECandidateInit() webrtc.ICECandidateInit {
	return webrtc.ICECandidateInit{
		Candidate:        p.Candidate,
		SDPMid:           p.SDPMid,
		SDPMLineIndex:    p.SDPMLineIndex,
		UsernameFragment: p.UsernameFragment,
	}
}

// ScreenSharePayload tags an inbound share with its capture kind.
type ScreenSharePayload struct {
	Kind string `msgpack:"kind"`
}

// ChatPayload is one chat line relayed between the peers.
type ChatPayload struct {
	Sender string `msgpack:"sender"`
	Text   string `msgpack:"text"`
	Time   string `msgpack:"time"`
}

// PeerPayload describes the other participant on join notifications.
type PeerPayload struct {
	DisplayName string `msgpack:"display_name"`
}

// ErrorPayload carries error messages from the relay.
type ErrorPayload struct {
	Error string `msgpack:"error"`
}
