package media

import (
	"os"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
)

// Source produces samples for one track. Read blocks until the next sample
// is due and returns ErrTrackStopped (or any other error) when the source
// is exhausted or revoked.
type Source interface {
	Read() (media.Sample, error)
	Close() error
}

// Acquirer produces the camera+microphone stream for a session.
type Acquirer interface {
	Acquire() (*Stream, error)
}

// DisplayAcquirer produces an optional, video-only screen capture stream.
type DisplayAcquirer interface {
	AcquireDisplay() (*Stream, error)
}

// Device describes one capture source for the devices listing.
type Device struct {
	ID    string
	Kind  Kind
	Label string
}

var (
	videoCodec = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
	audioCodec = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}
)

const (
	videoFrameInterval = 100 * time.Millisecond
	audioFrameInterval = 20 * time.Millisecond
)

// SystemCapture is the default Acquirer/DisplayAcquirer. It feeds the call
// from the host's registered capture sources; out of the box those are the
// built-in generators, which stand in wherever a real device backend is not
// compiled in. Setting ALGOCALL_DENY_CAPTURE simulates the user refusing
// device permission, which is also what the capture tests lean on.
type SystemCapture struct{}

func (SystemCapture) Acquire() (*Stream, error) {
	if os.Getenv("ALGOCALL_DENY_CAPTURE") == "1" {
		return nil, ErrPermissionDenied
	}

	stream := NewStream()

	mic, err := newTrack(KindAudio, audioCodec, "mic0", StreamIDCamera, "Default Microphone")
	if err != nil {
		return nil, err
	}
	cam, err := newTrack(KindVideo, videoCodec, "cam0", StreamIDCamera, "Integrated Camera")
	if err != nil {
		mic.Stop()
		return nil, err
	}

	stream.AddTrack(mic)
	stream.AddTrack(cam)

	go pump(mic, newToneSource(audioFrameInterval))
	go pump(cam, newPatternSource(videoFrameInterval))

	return stream, nil
}

func (SystemCapture) AcquireDisplay() (*Stream, error) {
	if os.Getenv("ALGOCALL_DENY_CAPTURE") == "1" || os.Getenv("ALGOCALL_DENY_DISPLAY") == "1" {
		return nil, ErrPermissionDenied
	}

	stream := NewStream()

	screen, err := newTrack(KindVideo, videoCodec, "screen0", StreamIDScreen, "Screen Capture")
	if err != nil {
		return nil, err
	}
	stream.AddTrack(screen)

	go pump(screen, newPatternSource(videoFrameInterval))

	return stream, nil
}

// Devices lists the capture sources Acquire would use.
func (SystemCapture) Devices() []Device {
	if os.Getenv("ALGOCALL_DENY_CAPTURE") == "1" {
		return nil
	}
	return []Device{
		{ID: "mic0", Kind: KindAudio, Label: "Default Microphone"},
		{ID: "cam0", Kind: KindVideo, Label: "Integrated Camera"},
		{ID: "screen0", Kind: KindVideo, Label: "Screen Capture"},
	}
}

// pump moves samples from a source into a track until either side stops.
// A source error counts as the device going away, so the track is stopped
// and its OnEnded hooks fire.
func pump(t *Track, src Source) {
	defer src.Close()
	defer t.Stop()

	for {
		select {
		case <-t.Done():
			return
		default:
		}

		sample, err := src.Read()
		if err != nil {
			return
		}
		if err := t.WriteSample(sample); err != nil {
			return
		}
	}
}

// patternSource emits a fixed test-pattern frame at the video cadence.
type patternSource struct {
	interval time.Duration
	payload  []byte
}

func newPatternSource(interval time.Duration) *patternSource {
	return &patternSource{interval: interval, payload: make([]byte, 1024)}
}

func (p *patternSource) Read() (media.Sample, error) {
	time.Sleep(p.interval)
	return media.Sample{Data: p.payload, Duration: p.interval}, nil
}

func (p *patternSource) Close() error { return nil }

// toneSource emits silence frames at the audio cadence.
type toneSource struct {
	interval time.Duration
	payload  []byte
}

func newToneSource(interval time.Duration) *toneSource {
	return &toneSource{interval: interval, payload: make([]byte, 160)}
}

func (t *toneSource) Read() (media.Sample, error) {
	time.Sleep(t.interval)
	return media.Sample{Data: t.payload, Duration: t.interval}, nil
}

func (t *toneSource) Close() error { return nil }
