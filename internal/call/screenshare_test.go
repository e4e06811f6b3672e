package call_test

import (
	"testing"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/call"
	"github.com/Naveenpl1081/algonest-call/internal/media"
	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDisplay hands out real display captures but keeps a reference so
// tests can revoke them underneath the share controller.
type recordingDisplay struct {
	last *media.Stream
}

func (d *recordingDisplay) AcquireDisplay() (*media.Stream, error) {
	stream, err := media.SystemCapture{}.AcquireDisplay()
	if err != nil {
		return nil, err
	}
	d.last = stream
	return stream, nil
}

type deniedDisplay struct{}

func (deniedDisplay) AcquireDisplay() (*media.Stream, error) {
	return nil, media.ErrPermissionDenied
}

func TestScreenShare_StartSwapsVideoSender(t *testing.T) {
	sender := &fakeSender{}
	mgr := newAttachedManager(t, sender)
	cam := mgr.CameraTrack()

	share := call.NewScreenShare(mgr, media.SystemCapture{}, sender, "room1")
	t.Cleanup(func() { share.Stop() })

	require.NoError(t, share.Start())
	assert.True(t, share.Active())
	assert.NotEqual(t, cam.Local(), mgr.VideoSenderTrack())

	started := sender.ofType(signaling.EventScreenShareStarted)
	require.Len(t, started, 1)
	var payload signaling.ScreenSharePayload
	require.NoError(t, started[0].Decode(&payload))
	assert.Equal(t, signaling.ShareKindScreen, payload.Kind)
}

func TestScreenShare_StopRestoresCamera(t *testing.T) {
	sender := &fakeSender{}
	mgr := newAttachedManager(t, sender)
	cam := mgr.CameraTrack()

	share := call.NewScreenShare(mgr, media.SystemCapture{}, sender, "room1")
	require.NoError(t, share.Start())
	require.NoError(t, share.Stop())

	assert.False(t, share.Active())
	assert.Equal(t, cam.Local(), mgr.VideoSenderTrack())
	assert.Len(t, sender.ofType(signaling.EventScreenShareStopped), 1)
}

func TestScreenShare_StopWithoutStartIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	mgr := newAttachedManager(t, sender)
	share := call.NewScreenShare(mgr, media.SystemCapture{}, sender, "room1")

	require.NoError(t, share.Stop())
	assert.Empty(t, sender.ofType(signaling.EventScreenShareStopped))
}

func TestScreenShare_RestartStopsPreviousCapture(t *testing.T) {
	sender := &fakeSender{}
	mgr := newAttachedManager(t, sender)
	display := &recordingDisplay{}

	share := call.NewScreenShare(mgr, display, sender, "room1")
	t.Cleanup(func() { share.Stop() })

	require.NoError(t, share.Start())
	first := display.last

	require.NoError(t, share.Start())
	assert.True(t, first.Stopped(), "previous capture must be released")
	assert.True(t, share.Active())
	assert.Len(t, sender.ofType(signaling.EventScreenShareStarted), 2)
	assert.Len(t, sender.ofType(signaling.EventScreenShareStopped), 1)
}

func TestScreenShare_DeniedCaptureKeepsCamera(t *testing.T) {
	sender := &fakeSender{}
	mgr := newAttachedManager(t, sender)
	cam := mgr.CameraTrack()

	share := call.NewScreenShare(mgr, deniedDisplay{}, sender, "room1")

	err := share.Start()
	assert.ErrorIs(t, err, media.ErrPermissionDenied)
	assert.False(t, share.Active())
	assert.Equal(t, cam.Local(), mgr.VideoSenderTrack())
	assert.Empty(t, sender.ofType(signaling.EventScreenShareStarted))
}

func TestScreenShare_RevokedCaptureStopsShare(t *testing.T) {
	sender := &fakeSender{}
	mgr := newAttachedManager(t, sender)
	cam := mgr.CameraTrack()
	display := &recordingDisplay{}

	share := call.NewScreenShare(mgr, display, sender, "room1")
	require.NoError(t, share.Start())

	// The user revoking capture ends the track underneath the controller.
	display.last.Stop()

	require.Eventually(t, func() bool {
		return !share.Active() && mgr.VideoSenderTrack() == cam.Local()
	}, 2*time.Second, 10*time.Millisecond, "revocation must land in the stopped state")
}
