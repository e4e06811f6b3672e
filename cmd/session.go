package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/Naveenpl1081/algonest-call/internal/call"
	"github.com/Naveenpl1081/algonest-call/internal/config"
	"github.com/Naveenpl1081/algonest-call/internal/media"
	"github.com/Naveenpl1081/algonest-call/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// programSink forwards session events into the bubbletea program once it
// exists. Events fired before the program starts are dropped; the model
// rebuilds its state from the session when it first renders.
type programSink struct {
	mu   sync.Mutex
	prog *tea.Program
}

func (p *programSink) set(prog *tea.Program) {
	p.mu.Lock()
	p.prog = prog
	p.mu.Unlock()
}

func (p *programSink) send(msg tea.Msg) {
	p.mu.Lock()
	prog := p.prog
	p.mu.Unlock()
	if prog != nil {
		prog.Send(msg)
	}
}

func notifications(sink *programSink) call.Notifications {
	return call.Notifications{
		OnStatus: func(s string) { sink.send(ui.StatusMsg(s)) },
		OnConnected: func() { sink.send(ui.ConnectedMsg{}) },
		OnChat: func(m call.ChatMessage) {
			sink.send(ui.ChatMsg{Sender: m.Sender, Text: m.Text, Time: m.Time, Mine: m.Mine})
		},
		OnRemoteShare: func(v bool) { sink.send(ui.RemoteShareMsg(v)) },
		OnPeerLeft:    func() { sink.send(ui.PeerLeftMsg{}) },
		OnError:       func(err error) { sink.send(ui.CallErrMsg{Err: err}) },
	}
}

// runCall drives one call end to end: session start, the live call screen,
// teardown and the summary table.
func runCall(role call.Role, roomID string, opts config.Options) error {
	cfg, err := config.Load(opts)
	if err != nil {
		return call.NewError("load config", err)
	}

	sink := &programSink{}
	sess, err := call.NewSession(cfg, roomID, role, notifications(sink))
	if err != nil {
		return err
	}

	fmt.Println()
	stopSpinner := ui.RunConnectionSpinner("Starting devices and connecting to relay...")
	if err := sess.Start(context.Background()); err != nil {
		stopSpinner()
		return describeStartFailure(err)
	}
	stopSpinner()

	if role == call.RoleHost {
		ui.RenderRoomInfo(roomID, cfg.GetRoomLink(roomID))
	}

	prog := ui.NewCallProgram(sess, roomID)
	sink.set(prog)

	_, runErr := prog.Run()
	sess.End()

	summary := sess.Summarize()
	outcome := "completed"
	if runErr != nil {
		outcome = "aborted"
	}
	ui.RenderCallSummary("Call Summary", ui.CallSummary{
		RoomID:   summary.RoomID,
		Duration: summary.Duration,
		Messages: summary.Messages,
		Shares:   summary.Shares,
		Outcome:  outcome,
	})

	return runErr
}

// describeStartFailure maps startup errors onto the user-facing taxonomy:
// device refusals and transport failures read differently.
func describeStartFailure(err error) error {
	switch {
	case errors.Is(err, media.ErrPermissionDenied):
		return call.WrapError("start call", err, "camera/microphone access denied; the call cannot start without local media")
	case errors.Is(err, media.ErrNoDevice):
		return call.WrapError("start call", err, "no capture device found")
	case errors.Is(err, call.ErrSignalingError):
		return call.WrapError("start call", err, "relay unreachable; retry once the network recovers")
	default:
		return err
	}
}

// parseRoomInput accepts either a bare room id or a call URL copied from
// the web client (https://.../video-call/<room-id>).
func parseRoomInput(input string) (string, error) {
	if input == "" {
		return "", call.ErrRoomRequired
	}

	if strings.Contains(input, "://") {
		roomID, err := extractRoomIDFromURL(input)
		if err != nil {
			return "", err
		}
		ui.PrintSuccessf("Extracted room ID: %s", roomID)
		return roomID, nil
	}

	return input, nil
}

func extractRoomIDFromURL(urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", call.NewError("parse URL", err)
	}

	path := strings.TrimSuffix(parsedURL.Path, "/")
	parts := strings.Split(path, "/")

	for i, part := range parts {
		if part == "video-call" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}

	return "", fmt.Errorf("could not extract room ID from URL: %s", urlStr)
}
