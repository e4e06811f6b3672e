package media_test

import (
	"testing"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/media"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acquireStream(t *testing.T) *media.Stream {
	t.Helper()
	stream, err := media.SystemCapture{}.Acquire()
	require.NoError(t, err)
	t.Cleanup(stream.Stop)
	return stream
}

func TestSystemCapture_AcquireProducesMicAndCamera(t *testing.T) {
	stream := acquireStream(t)

	assert.Len(t, stream.AudioTracks(), 1)
	assert.Len(t, stream.VideoTracks(), 1)
	assert.Equal(t, media.KindAudio, stream.AudioTracks()[0].Kind())
	assert.Equal(t, media.KindVideo, stream.VideoTracks()[0].Kind())
}

func TestSystemCapture_Denied(t *testing.T) {
	t.Setenv("ALGOCALL_DENY_CAPTURE", "1")

	_, err := media.SystemCapture{}.Acquire()
	assert.ErrorIs(t, err, media.ErrPermissionDenied)

	_, err = media.SystemCapture{}.AcquireDisplay()
	assert.ErrorIs(t, err, media.ErrPermissionDenied)

	assert.Empty(t, media.SystemCapture{}.Devices())
}

func TestStream_AudioToggleIsReversible(t *testing.T) {
	stream := acquireStream(t)
	audio := stream.AudioTracks()[0]
	video := stream.VideoTracks()[0]

	stream.SetAudioEnabled(false)
	assert.False(t, audio.Enabled())
	assert.True(t, video.Enabled(), "muting audio must not touch video")
	assert.Len(t, stream.Tracks(), 2, "muting must not detach tracks")

	stream.SetAudioEnabled(true)
	assert.True(t, audio.Enabled())
}

func TestStream_ToggleAfterStopIsSafe(t *testing.T) {
	stream := acquireStream(t)
	stream.Stop()

	stream.SetAudioEnabled(false)
	stream.SetVideoEnabled(false)
	assert.True(t, stream.Stopped())
}

func TestStream_StopIsIdempotent(t *testing.T) {
	stream := acquireStream(t)
	stream.Stop()
	stream.Stop()
	assert.True(t, stream.Stopped())
}

func TestStream_AddTrackAfterStop(t *testing.T) {
	stopped := media.NewStream()
	stopped.Stop()

	display, err := media.SystemCapture{}.AcquireDisplay()
	require.NoError(t, err)
	t.Cleanup(display.Stop)

	track := display.VideoTracks()[0]
	stopped.AddTrack(track)

	select {
	case <-track.Done():
	case <-time.After(time.Second):
		t.Fatal("track added to a stopped stream must be stopped")
	}
}

func TestTrack_DisabledDropsSamples(t *testing.T) {
	display, err := media.SystemCapture{}.AcquireDisplay()
	require.NoError(t, err)
	t.Cleanup(display.Stop)

	track := display.VideoTracks()[0]
	sample := pionmedia.Sample{Data: []byte{0}, Duration: time.Millisecond}

	track.SetEnabled(false)
	assert.NoError(t, track.WriteSample(sample))

	track.Stop()
	assert.ErrorIs(t, track.WriteSample(sample), media.ErrTrackStopped)
}

func TestTrack_OnEndedFiresOnce(t *testing.T) {
	display, err := media.SystemCapture{}.AcquireDisplay()
	require.NoError(t, err)
	t.Cleanup(display.Stop)

	track := display.VideoTracks()[0]
	fired := make(chan struct{}, 2)
	track.OnEnded(func() { fired <- struct{}{} })

	track.Stop()
	track.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("OnEnded hook did not fire")
	}
	select {
	case <-fired:
		t.Fatal("OnEnded hook fired twice")
	case <-time.After(100 * time.Millisecond):
	}
}
