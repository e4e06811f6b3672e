package call

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/config"
	"github.com/Naveenpl1081/algonest-call/internal/media"
	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/pion/webrtc/v4"
)

// State tracks the negotiation progress of the single peer connection.
type State int32

const (
	StateIdle State = iota
	StateTracksAttached
	StateOfferSent
	StateOfferReceived
	StateAnswerExchanged
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracksAttached:
		return "tracks-attached"
	case StateOfferSent:
		return "offer-sent"
	case StateOfferReceived:
		return "offer-received"
	case StateAnswerExchanged:
		return "answer-exchanged"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// RemoteKind classifies an inbound track.
type RemoteKind string

const (
	RemoteCamera RemoteKind = "camera"
	RemoteScreen RemoteKind = "screen"
)

// SignalSender posts envelopes toward the relay. *signaling.Client satisfies
// it; tests substitute an in-memory recorder.
type SignalSender interface {
	Send(*signaling.Envelope)
}

// Events are the manager's notifications to its owner. All callbacks are
// optional and may be invoked from pion's callback goroutines.
type Events struct {
	OnRemoteTrack      func(kind RemoteKind, track *webrtc.TrackRemote)
	OnConnected        func()
	OnPeerUnreachable  func()
	OnConnectionFailed func()
}

// Manager owns the session's one peer connection: SDP negotiation, candidate
// exchange and the outgoing video slot used for screen-share substitution.
// The connection is never recreated mid-call; screen share swaps the sender
// track instead of renegotiating.
type Manager struct {
	pc      *webrtc.PeerConnection
	signals SignalSender
	roomID  string
	timeout time.Duration
	events  Events

	mu          sync.Mutex
	state       State
	pending     []webrtc.ICECandidateInit
	camSender   *webrtc.RTPSender
	cameraTrack *media.Track
	remoteShare bool
	haveCamera  bool
	offered     bool
	timer       *time.Timer

	connectedOnce sync.Once
}

// NewManager builds the peer connection with the configured ICE servers and
// wires the pion callbacks.
func NewManager(cfg *config.Config, roomID string, signals SignalSender, events Events) (*Manager, error) {
	iceServers := []webrtc.ICEServer{{URLs: cfg.GetSTUNServers()}}

	turnServers := cfg.GetTURNServers()
	if turnServers != nil {
		username, password := cfg.GetTURNCredentials()
		iceServers = append(iceServers, webrtc.ICEServer{
			URLs:       turnServers,
			Username:   username,
			Credential: password,
		})
	}

	policy := webrtc.ICETransportPolicyAll
	if turnServers != nil && cfg.ForceRelay {
		policy = webrtc.ICETransportPolicyRelay
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{
		ICEServers:         iceServers,
		ICETransportPolicy: policy,
	})
	if err != nil {
		return nil, NewError("create peer connection", err)
	}

	m := &Manager{
		pc:      pc,
		signals: signals,
		roomID:  roomID,
		timeout: cfg.NegotiationTimeout,
		events:  events,
		state:   StateIdle,
	}

	pc.OnICECandidate(m.onICECandidate)
	pc.OnTrack(m.onTrack)
	pc.OnConnectionStateChange(m.onConnectionStateChange)

	return m, nil
}

// AttachLocal adds every track of the local stream to the connection. This
// must happen before any offer/answer so the initial negotiation advertises
// the right media kinds.
func (m *Manager) AttachLocal(stream *media.Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return WrapError("attach local tracks", ErrInvalidState, m.state.String())
	}

	for _, t := range stream.Tracks() {
		sender, err := m.pc.AddTrack(t.Local())
		if err != nil {
			return NewError("add track", err)
		}
		if t.Kind() == media.KindVideo && m.camSender == nil {
			m.camSender = sender
			m.cameraTrack = t
		}
	}

	m.state = StateTracksAttached
	return nil
}

// SendOffer creates and sends the initial offer. Only the initiating side
// calls this, and only once per session.
func (m *Manager) SendOffer() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.offered {
		return nil
	}
	if m.state != StateTracksAttached {
		return WrapError("send offer", ErrInvalidState, m.state.String())
	}

	offer, err := m.pc.CreateOffer(nil)
	if err != nil {
		return NewError("create offer", err)
	}
	if err := m.pc.SetLocalDescription(offer); err != nil {
		return NewError("set local description", err)
	}

	env, err := signaling.NewEnvelope(signaling.EventOffer, m.roomID,
		&signaling.OfferPayload{SDP: m.pc.LocalDescription().SDP})
	if err != nil {
		return NewError("encode offer", err)
	}
	m.signals.Send(env)

	m.offered = true
	m.state = StateOfferSent
	m.armTimerLocked()
	return nil
}

// HandleOffer applies the remote offer and responds with an answer. Only
// the callee side receives offers.
func (m *Manager) HandleOffer(p *signaling.OfferPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTracksAttached {
		return WrapError("handle offer", ErrUnexpectedSignal, m.state.String())
	}
	m.state = StateOfferReceived

	remote := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: p.SDP}
	if err := m.pc.SetRemoteDescription(remote); err != nil {
		return NewError("set remote description", err)
	}
	m.flushPendingLocked()

	answer, err := m.pc.CreateAnswer(nil)
	if err != nil {
		return NewError("create answer", err)
	}
	if err := m.pc.SetLocalDescription(answer); err != nil {
		return NewError("set local description", err)
	}

	env, err := signaling.NewEnvelope(signaling.EventAnswer, m.roomID,
		&signaling.AnswerPayload{SDP: m.pc.LocalDescription().SDP})
	if err != nil {
		return NewError("encode answer", err)
	}
	m.signals.Send(env)

	m.state = StateAnswerExchanged
	m.armTimerLocked()
	return nil
}

// HandleAnswer applies the remote answer to our outstanding offer.
func (m *Manager) HandleAnswer(p *signaling.AnswerPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateOfferSent {
		return WrapError("handle answer", ErrUnexpectedSignal, m.state.String())
	}

	remote := webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: p.SDP}
	if err := m.pc.SetRemoteDescription(remote); err != nil {
		return NewError("set remote description", err)
	}
	m.flushPendingLocked()

	m.state = StateAnswerExchanged
	return nil
}

// HandleCandidate applies a remote ICE candidate, queueing it when the
// remote description has not arrived yet. Candidates and descriptions race
// freely over the relay; the queue absorbs either ordering.
func (m *Manager) HandleCandidate(p *signaling.CandidatePayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		return nil
	}

	init := p.ICECandidateInit()
	if m.pc.RemoteDescription() == nil {
		m.pending = append(m.pending, init)
		return nil
	}

	if err := m.pc.AddICECandidate(init); err != nil {
		return NewError("add ICE candidate", err)
	}
	return nil
}

// PendingCandidates reports how many remote candidates are queued.
func (m *Manager) PendingCandidates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Manager) flushPendingLocked() {
	for _, init := range m.pending {
		if err := m.pc.AddICECandidate(init); err != nil {
			slog.Error("failed to apply queued candidate", "err", err)
		}
	}
	m.pending = nil
}

// SetRemoteSharing records the out-of-band share tag from the peer. The tag
// is what classifies the inbound video; track labels are only a fallback.
func (m *Manager) SetRemoteSharing(sharing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remoteShare = sharing
}

// ReplaceVideoTrack swaps the outgoing video sender's source without
// renegotiating. Used by the screen-share controller in both directions.
func (m *Manager) ReplaceVideoTrack(t webrtc.TrackLocal) error {
	m.mu.Lock()
	sender := m.camSender
	m.mu.Unlock()

	if sender == nil {
		return NewError("replace video track", ErrNoVideoSender)
	}
	if err := sender.ReplaceTrack(t); err != nil {
		return NewError("replace video track", err)
	}
	return nil
}

// CameraTrack returns the original camera track attached at session start.
func (m *Manager) CameraTrack() *media.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cameraTrack
}

// VideoSenderTrack returns the track currently bound to the outgoing video
// sender.
func (m *Manager) VideoSenderTrack() webrtc.TrackLocal {
	m.mu.Lock()
	sender := m.camSender
	m.mu.Unlock()

	if sender == nil {
		return nil
	}
	return sender.Track()
}

// State returns the current negotiation state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close tears the connection down, releasing all bound tracks and transports.
// Safe to call multiple times.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	m.state = StateClosed
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()

	if err := m.pc.Close(); err != nil {
		slog.Error("failed to close peer connection", "err", err)
	}
}

func (m *Manager) onICECandidate(c *webrtc.ICECandidate) {
	if c == nil {
		return
	}

	payload := signaling.NewCandidatePayload(c.ToJSON())
	env, err := signaling.NewEnvelope(signaling.EventICECandidate, m.roomID, &payload)
	if err != nil {
		slog.Error("failed to encode candidate", "err", err)
		return
	}
	m.signals.Send(env)
}

func (m *Manager) onTrack(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	m.mu.Lock()
	kind := classifyRemote(m.remoteShare, m.haveCamera, track.Kind(), track.StreamID())
	if kind == RemoteCamera {
		m.haveCamera = true
		// The call is "connected" once the peer's own feed is here; ICE
		// completion alone does not flip this state.
		if m.state != StateClosed {
			m.state = StateConnected
		}
		if m.timer != nil {
			m.timer.Stop()
			m.timer = nil
		}
	}
	m.mu.Unlock()

	slog.Info("remote track", "kind", kind, "stream", track.StreamID())

	if kind == RemoteCamera {
		m.connectedOnce.Do(func() {
			if m.events.OnConnected != nil {
				m.events.OnConnected()
			}
		})
	}
	if m.events.OnRemoteTrack != nil {
		m.events.OnRemoteTrack(kind, track)
	}
}

func (m *Manager) onConnectionStateChange(state webrtc.PeerConnectionState) {
	slog.Info("peer connection state", "state", state.String())

	if state == webrtc.PeerConnectionStateFailed && m.events.OnConnectionFailed != nil {
		m.events.OnConnectionFailed()
	}
}

// armTimerLocked starts the bounded wait for the peer's media. Expiry means
// "peer unreachable", reported distinctly from transport failures.
func (m *Manager) armTimerLocked() {
	if m.timeout <= 0 || m.timer != nil {
		return
	}

	m.timer = time.AfterFunc(m.timeout, func() {
		m.mu.Lock()
		stalled := m.state != StateConnected && m.state != StateClosed
		m.mu.Unlock()

		if stalled && m.events.OnPeerUnreachable != nil {
			m.events.OnPeerUnreachable()
		}
	})
}

// classifyRemote decides whether an inbound track is the peer's camera feed
// or their screen. The explicit share tag wins; the stream id marker covers
// peers that never sent one. Audio is always the microphone.
//
// The tag only reroutes video once a camera track exists: the first remote
// video is what flips the session to connected, and a share can only
// substitute the camera (same sender, no new track) or arrive after it.
func classifyRemote(shareTagged, haveCamera bool, kind webrtc.RTPCodecType, streamID string) RemoteKind {
	if kind == webrtc.RTPCodecTypeAudio {
		return RemoteCamera
	}
	if shareTagged && haveCamera {
		return RemoteScreen
	}
	if looksLikeScreen(streamID) {
		return RemoteScreen
	}
	return RemoteCamera
}

func looksLikeScreen(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "screen") ||
		strings.Contains(l, "display") ||
		strings.Contains(l, "window")
}
