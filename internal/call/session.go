package call

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/config"
	"github.com/Naveenpl1081/algonest-call/internal/media"
	"github.com/Naveenpl1081/algonest-call/internal/signaling"
)

// Role decides which side of the offer/answer split this session takes.
// Exactly one side offers and exactly one answers: the relay makes the
// first joiner the host, and only the host ever creates the offer.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Notifications are the session's callbacks toward the UI. All of them are
// optional and may fire from internal goroutines.
type Notifications struct {
	OnStatus      func(string)
	OnConnected   func()
	OnChat        func(ChatMessage)
	OnRemoteShare func(bool)
	OnPeerLeft    func()
	OnError       func(error)
}

// Session coordinates one interview call end to end: media acquisition,
// signaling, negotiation, screen share, chat and teardown. It owns the
// signaling connection outright; nothing about a session leaks across
// mounts of the call screen.
type Session struct {
	cfg    *config.Config
	roomID string
	role   Role
	notify Notifications

	acquire media.Acquirer
	display media.DisplayAcquirer
	wsURL   string

	client  *signaling.Client
	handler *signaling.Handler
	stream  *media.Stream
	mgr     *Manager
	share   *ScreenShare
	chat    *Chat

	micOn atomic.Bool
	camOn atomic.Bool

	started time.Time
	shares  atomic.Int32

	done    chan struct{}
	endOnce sync.Once
}

// Option customizes session construction; tests inject capture fakes and a
// local relay URL through these.
type Option func(*Session)

func WithAcquirer(a media.Acquirer) Option {
	return func(s *Session) { s.acquire = a }
}

func WithDisplayAcquirer(d media.DisplayAcquirer) Option {
	return func(s *Session) { s.display = d }
}

func WithRelayURL(url string) Option {
	return func(s *Session) { s.wsURL = url }
}

// NewSession validates the room identifier and prepares a session. No
// devices or sockets are touched until Start.
func NewSession(cfg *config.Config, roomID string, role Role, notify Notifications, opts ...Option) (*Session, error) {
	if roomID == "" {
		return nil, NewError("create session", ErrRoomRequired)
	}

	s := &Session{
		cfg:     cfg,
		roomID:  roomID,
		role:    role,
		notify:  notify,
		acquire: media.SystemCapture{},
		display: media.SystemCapture{},
		wsURL:   cfg.WebSocketURL,
		done:    make(chan struct{}),
	}
	s.micOn.Store(true)
	s.camOn.Store(true)

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start brings the session up: local media first, then signaling, then the
// room join and negotiation wiring. A device failure aborts before any
// signaling traffic, so a denied camera never even joins the room.
func (s *Session) Start(ctx context.Context) error {
	stream, err := s.acquire.Acquire()
	if err != nil {
		return NewError("acquire local media", err)
	}
	s.stream = stream

	s.client = signaling.NewClient(s.wsURL)
	if err := s.client.Connect(); err != nil {
		s.stream.Stop()
		return NewError("connect to relay", err)
	}

	s.handler = signaling.NewHandler(s.client)
	go s.handler.Start()

	peerWaiting, err := s.joinRoom(ctx)
	if err != nil {
		s.stream.Stop()
		s.client.Close()
		return err
	}

	s.mgr, err = NewManager(s.cfg, s.roomID, s.client, Events{
		OnConnected: func() {
			s.status("connected")
			if s.notify.OnConnected != nil {
				s.notify.OnConnected()
			}
		},
		OnPeerUnreachable: func() {
			s.fail(NewError("negotiate", ErrPeerUnreachable))
		},
		OnConnectionFailed: func() {
			s.fail(NewError("media transport", ErrPeerDisconnected))
		},
	})
	if err != nil {
		s.stream.Stop()
		s.client.Close()
		return err
	}

	// Local tracks go on before any offer or answer is produced.
	if err := s.mgr.AttachLocal(s.stream); err != nil {
		s.stream.Stop()
		s.mgr.Close()
		s.client.Close()
		return err
	}

	s.share = NewScreenShare(s.mgr, s.display, s.client, s.roomID)
	s.chat = NewChat(s.cfg.DisplayName, s.roomID, s.client)
	s.chat.SetNotify(func(msg ChatMessage) {
		if s.notify.OnChat != nil {
			s.notify.OnChat(msg)
		}
	})

	s.started = time.Now()
	go s.loop(ctx)

	switch {
	case s.role == RoleHost && peerWaiting:
		// The candidate arrived first, so no peer-joined event is coming;
		// the join confirmation is the cue to offer.
		if err := s.mgr.SendOffer(); err != nil {
			s.fail(err)
		}
		s.status("negotiating")
	case s.role == RoleHost:
		s.status("waiting for peer")
	default:
		s.status("waiting for offer")
	}
	return nil
}

// joinRoom announces this participant and waits for the relay to confirm.
// The returned flag reports whether a peer was already waiting in the room:
// the relay names the waiting participant in the join confirmation, and that
// confirmation is the only signal a second joiner ever gets about them.
func (s *Session) joinRoom(ctx context.Context) (bool, error) {
	env, err := signaling.NewEnvelope(signaling.EventJoinRoom, s.roomID,
		&signaling.JoinPayload{DisplayName: s.cfg.DisplayName})
	if err != nil {
		return false, NewError("encode join", err)
	}
	s.client.Send(env)

	select {
	case peer := <-s.handler.RoomJoined:
		if peer != nil && peer.DisplayName != "" {
			s.status("in room with " + peer.DisplayName)
			return true, nil
		}
		return false, nil
	case errMsg := <-s.handler.Error:
		return false, WrapError("join room", ErrSignalingError, errMsg)
	case <-s.handler.Done:
		return false, NewError("join room", ErrSignalingError)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// loop routes relayed events into the peer manager, chat and share state
// until the session ends. Negotiation errors are logged and surfaced but
// never tear the session down on their own; a stalled negotiation simply
// stays in its waiting state.
func (s *Session) loop(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return

		case <-ctx.Done():
			s.End()
			return

		case peer := <-s.handler.PeerJoined:
			if peer == nil {
				return
			}
			s.status("peer joined: " + peer.DisplayName)
			if s.role == RoleHost {
				if err := s.mgr.SendOffer(); err != nil {
					s.fail(err)
				}
			}

		case offer := <-s.handler.Offer:
			if offer == nil {
				return
			}
			if s.role != RoleGuest {
				slog.Warn("ignoring offer: this side initiates", "room", s.roomID)
				continue
			}
			if err := s.mgr.HandleOffer(offer); err != nil {
				slog.Error("offer handling failed", "err", err)
				s.warn(err)
			}

		case answer := <-s.handler.Answer:
			if answer == nil {
				return
			}
			if err := s.mgr.HandleAnswer(answer); err != nil {
				slog.Error("answer handling failed", "err", err)
				s.warn(err)
			}

		case candidate := <-s.handler.Candidate:
			if candidate == nil {
				return
			}
			if err := s.mgr.HandleCandidate(candidate); err != nil {
				slog.Error("candidate handling failed", "err", err)
			}

		case share := <-s.handler.ShareStarted:
			if share == nil {
				return
			}
			s.mgr.SetRemoteSharing(true)
			if s.notify.OnRemoteShare != nil {
				s.notify.OnRemoteShare(true)
			}

		case _, ok := <-s.handler.ShareStopped:
			if !ok {
				return
			}
			// Clears remote-screen state immediately, without waiting for
			// the media layer to notice the track went away.
			s.mgr.SetRemoteSharing(false)
			if s.notify.OnRemoteShare != nil {
				s.notify.OnRemoteShare(false)
			}

		case msg := <-s.handler.Chat:
			if msg == nil {
				return
			}
			s.chat.Receive(msg)

		case _, ok := <-s.handler.PeerLeft:
			if !ok {
				return
			}
			s.status("peer left")
			if s.notify.OnPeerLeft != nil {
				s.notify.OnPeerLeft()
			}

		case errMsg := <-s.handler.Error:
			if errMsg == "" {
				return
			}
			s.warn(WrapError("relay", ErrSignalingError, errMsg))

		case <-s.handler.Done:
			select {
			case <-s.done:
				// Intentional teardown, not a transport drop.
			default:
				s.warn(NewError("relay connection lost", ErrSignalingError))
			}
			return
		}
	}
}

// ToggleMic flips the microphone and returns the new state. The tracks stay
// attached either way; the toggle is purely local.
func (s *Session) ToggleMic() bool {
	on := !s.micOn.Load()
	s.micOn.Store(on)
	if s.stream != nil {
		s.stream.SetAudioEnabled(on)
	}
	return on
}

// ToggleCamera flips the camera and returns the new state.
func (s *Session) ToggleCamera() bool {
	on := !s.camOn.Load()
	s.camOn.Store(on)
	if s.stream != nil {
		s.stream.SetVideoEnabled(on)
	}
	return on
}

// StartShare begins (or restarts) screen sharing. A capture refusal is a
// local, non-fatal condition: the call continues on camera.
func (s *Session) StartShare() error {
	if s.share == nil {
		return NewError("start screen share", ErrSessionClosed)
	}
	if err := s.share.Start(); err != nil {
		return err
	}
	s.shares.Add(1)
	return nil
}

// StopShare ends screen sharing and restores the camera feed.
func (s *Session) StopShare() error {
	if s.share == nil {
		return nil
	}
	return s.share.Stop()
}

// Sharing reports whether an outgoing screen share is active.
func (s *Session) Sharing() bool {
	return s.share != nil && s.share.Active()
}

// SendChat relays a chat line to the peer.
func (s *Session) SendChat(text string) {
	if s.chat != nil {
		s.chat.Send(text)
	}
}

// Chat exposes the message log for rendering.
func (s *Session) Chat() *Chat {
	return s.chat
}

// Summary describes the finished call for the post-call table.
type Summary struct {
	RoomID   string
	Duration time.Duration
	Messages int
	Shares   int
}

// Summarize snapshots the session stats.
func (s *Session) Summarize() Summary {
	sum := Summary{RoomID: s.roomID, Shares: int(s.shares.Load())}
	if !s.started.IsZero() {
		sum.Duration = time.Since(s.started).Round(time.Second)
	}
	if s.chat != nil {
		sum.Messages = s.chat.Len()
	}
	return sum
}

// Done is closed when the session has ended.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// End releases everything in order: local stream, screen capture, peer
// connection, signaling transport. Every step is independent of the
// previous one's success, and calling End again (double-press, deferred
// cleanup) is harmless.
func (s *Session) End() {
	s.endOnce.Do(func() {
		close(s.done)

		if s.stream != nil {
			s.stream.Stop()
		}
		if s.share != nil {
			if err := s.share.Stop(); err != nil {
				slog.Debug("share stop during teardown", "err", err)
			}
		}
		if s.mgr != nil {
			s.mgr.Close()
		}
		// Closing the client ends the handler pump, which closes its own
		// channels once drained; nothing here touches them.
		if s.client != nil {
			s.client.Close()
		}
	})
}

func (s *Session) status(msg string) {
	slog.Info("session", "room", s.roomID, "status", msg)
	if s.notify.OnStatus != nil {
		s.notify.OnStatus(msg)
	}
}

// warn surfaces a non-fatal error to the UI.
func (s *Session) warn(err error) {
	if s.notify.OnError != nil {
		s.notify.OnError(err)
	}
}

// fail surfaces an error that leaves the call unusable; the UI decides
// whether to end the session.
func (s *Session) fail(err error) {
	slog.Error("session failure", "room", s.roomID, "err", err)
	if s.notify.OnError != nil {
		s.notify.OnError(err)
	}
}
