package call

import (
	"log/slog"
	"sync"

	"github.com/Naveenpl1081/algonest-call/internal/media"
	"github.com/Naveenpl1081/algonest-call/internal/signaling"
)

// ScreenShare swaps the outgoing video sender between the camera and a
// display capture. The peer connection is never renegotiated for this; the
// peer learns about the swap through the out-of-band share events.
type ScreenShare struct {
	mgr     *Manager
	display media.DisplayAcquirer
	signals SignalSender
	roomID  string

	mu     sync.Mutex
	active *media.Stream
}

// NewScreenShare creates the controller for one session.
func NewScreenShare(mgr *Manager, display media.DisplayAcquirer, signals SignalSender, roomID string) *ScreenShare {
	return &ScreenShare{
		mgr:     mgr,
		display: display,
		signals: signals,
		roomID:  roomID,
	}
}

// Start acquires a display capture and substitutes it for the outgoing
// camera track. A share already in progress is stopped first, so at most
// one outgoing screen stream ever exists.
func (s *ScreenShare) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.stopLocked()
	}

	stream, err := s.display.AcquireDisplay()
	if err != nil {
		return NewError("start screen share", err)
	}

	tracks := stream.VideoTracks()
	if len(tracks) == 0 {
		stream.Stop()
		return WrapError("start screen share", media.ErrNoDevice, "capture produced no video track")
	}
	track := tracks[0]

	if err := s.mgr.ReplaceVideoTrack(track.Local()); err != nil {
		stream.Stop()
		return err
	}

	s.active = stream

	// The browser-style "stop sharing" affordance: when the capture ends
	// underneath us (user revoked it), land in the same stopped state as an
	// in-app stop. The hook runs detached, so Stop here cannot deadlock.
	track.OnEnded(func() {
		if err := s.Stop(); err != nil {
			slog.Error("failed to stop revoked screen share", "err", err)
		}
	})

	env, err := signaling.NewEnvelope(signaling.EventScreenShareStarted, s.roomID,
		&signaling.ScreenSharePayload{Kind: signaling.ShareKindScreen})
	if err != nil {
		return NewError("announce screen share", err)
	}
	s.signals.Send(env)

	return nil
}

// Stop restores the camera track on the outgoing sender and releases the
// display capture. Idempotent; a no-op when nothing is being shared.
func (s *ScreenShare) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	return s.stopLocked()
}

func (s *ScreenShare) stopLocked() error {
	stream := s.active
	s.active = nil

	var replaceErr error
	if cam := s.mgr.CameraTrack(); cam != nil {
		replaceErr = s.mgr.ReplaceVideoTrack(cam.Local())
	}

	stream.Stop()

	env, err := signaling.NewEnvelope(signaling.EventScreenShareStopped, s.roomID, nil)
	if err == nil {
		s.signals.Send(env)
	}

	return replaceErr
}

// Active reports whether a screen share is currently outgoing.
func (s *ScreenShare) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}
