package media

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
)

var (
	ErrPermissionDenied = errors.New("capture permission denied")
	ErrNoDevice         = errors.New("no capture device available")
	ErrTrackStopped     = errors.New("track stopped")
)

// Kind distinguishes audio from video tracks.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// Stream ids advertised to the remote peer. Browsers surface these through
// the track's msid, which is how a receiver without the out-of-band share
// tag can still tell a screen from a camera.
const (
	StreamIDCamera = "camera"
	StreamIDScreen = "screen"
)

// Track binds one capture source to a pion local track. Disabling a track
// mutes it without detaching it from the connection: the sender keeps its
// slot and no renegotiation happens.
type Track struct {
	kind    Kind
	label   string
	local   *webrtc.TrackLocalStaticSample
	enabled atomic.Bool

	stopOnce sync.Once
	stopped  chan struct{}

	mu      sync.Mutex
	onEnded []func()
}

func newTrack(kind Kind, codec webrtc.RTPCodecCapability, id, streamID, label string) (*Track, error) {
	local, err := webrtc.NewTrackLocalStaticSample(codec, id, streamID)
	if err != nil {
		return nil, err
	}

	t := &Track{
		kind:    kind,
		label:   label,
		local:   local,
		stopped: make(chan struct{}),
	}
	t.enabled.Store(true)
	return t, nil
}

// Kind returns whether this is an audio or video track.
func (t *Track) Kind() Kind { return t.kind }

// Label is the human-readable device label.
func (t *Track) Label() string { return t.label }

// Local exposes the underlying pion track for AddTrack/ReplaceTrack.
func (t *Track) Local() *webrtc.TrackLocalStaticSample { return t.local }

// Enabled reports whether the track is currently live.
func (t *Track) Enabled() bool { return t.enabled.Load() }

// SetEnabled mutes or unmutes the track. The track object survives either
// way, so the toggle is reversible without reacquiring the device.
func (t *Track) SetEnabled(enabled bool) {
	t.enabled.Store(enabled)
}

// WriteSample forwards one sample to the connection. Samples written while
// the track is disabled are dropped, which the remote side observes as the
// standard muted-track state.
func (t *Track) WriteSample(s media.Sample) error {
	select {
	case <-t.stopped:
		return ErrTrackStopped
	default:
	}

	if !t.enabled.Load() {
		return nil
	}
	return t.local.WriteSample(s)
}

// OnEnded registers a hook fired once when the track stops, whether through
// Stop or because the capture source went away underneath us.
func (t *Track) OnEnded(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEnded = append(t.onEnded, f)
}

// Stop releases the track. Idempotent.
func (t *Track) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopped)

		t.mu.Lock()
		hooks := t.onEnded
		t.onEnded = nil
		t.mu.Unlock()

		for _, f := range hooks {
			// Hooks run detached: a hook may call back into the owner of
			// this track while the owner is mid-teardown.
			go f()
		}
	})
}

// Done is closed when the track has stopped.
func (t *Track) Done() <-chan struct{} { return t.stopped }

// Stream owns the tracks captured together in one acquisition.
type Stream struct {
	mu      sync.Mutex
	tracks  []*Track
	stopped bool
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// AddTrack attaches a track to the stream. Tracks added after Stop are
// stopped immediately.
func (s *Stream) AddTrack(t *Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		t.Stop()
		return
	}
	s.tracks = append(s.tracks, t)
}

// Tracks returns a snapshot of the stream's tracks.
func (s *Stream) Tracks() []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Track, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// AudioTracks returns the stream's audio tracks.
func (s *Stream) AudioTracks() []*Track { return s.tracksOf(KindAudio) }

// VideoTracks returns the stream's video tracks.
func (s *Stream) VideoTracks() []*Track { return s.tracksOf(KindVideo) }

func (s *Stream) tracksOf(kind Kind) []*Track {
	var out []*Track
	for _, t := range s.Tracks() {
		if t.kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// SetAudioEnabled flips every audio track's enabled flag. Safe to call
// during or after teardown; stopped streams have no live tracks to flip.
func (s *Stream) SetAudioEnabled(enabled bool) {
	s.setEnabled(KindAudio, enabled)
}

// SetVideoEnabled flips every video track's enabled flag.
func (s *Stream) SetVideoEnabled(enabled bool) {
	s.setEnabled(KindVideo, enabled)
}

func (s *Stream) setEnabled(kind Kind, enabled bool) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	tracks := make([]*Track, len(s.tracks))
	copy(tracks, s.tracks)
	s.mu.Unlock()

	for _, t := range tracks {
		if t.kind == kind {
			t.SetEnabled(enabled)
		}
	}
}

// Stopped reports whether the stream has been released.
func (s *Stream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Stop releases every track. Idempotent.
func (s *Stream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	tracks := s.tracks
	s.mu.Unlock()

	for _, t := range tracks {
		t.Stop()
	}
}
