package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CallController is what the call screen needs from the session. Keeping it
// an interface here means the UI never reaches into session internals.
type CallController interface {
	ToggleMic() bool
	ToggleCamera() bool
	StartShare() error
	StopShare() error
	Sharing() bool
	SendChat(text string)
	End()
}

// ChatLine is one rendered chat message.
type ChatLine struct {
	Sender string
	Text   string
	Time   string
	Mine   bool
}

// Messages pushed into the program from session callbacks.
type (
	StatusMsg      string
	ChatMsg        ChatLine
	RemoteShareMsg bool
	ConnectedMsg   struct{}
	PeerLeftMsg    struct{}
	CallErrMsg     struct{ Err error }
)

type callModel struct {
	ctrl   CallController
	roomID string

	status      string
	connected   bool
	micOn       bool
	camOn       bool
	remoteShare bool
	lastErr     string

	lines    []string
	view     viewport.Model
	input    textinput.Model
	width    int
	height   int
	quitting bool
}

// NewCallProgram builds the live call screen. Feed session events in with
// Program.Send.
func NewCallProgram(ctrl CallController, roomID string) *tea.Program {
	input := textinput.New()
	input.Placeholder = "Type a message and press enter"
	input.CharLimit = 500
	input.Focus()

	m := &callModel{
		ctrl:   ctrl,
		roomID: roomID,
		status: "connecting",
		micOn:  true,
		camOn:  true,
		view:   viewport.New(80, 12),
		input:  input,
	}

	return tea.NewProgram(m)
}

func (m *callModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *callModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Width = msg.Width - 4
		if msg.Height > 10 {
			m.view.Height = msg.Height - 8
		}
		m.refresh()

	case StatusMsg:
		m.status = string(msg)

	case ConnectedMsg:
		m.connected = true
		m.status = "connected"

	case ChatMsg:
		m.appendLine(ChatLine(msg))

	case RemoteShareMsg:
		m.remoteShare = bool(msg)

	case PeerLeftMsg:
		m.status = "peer left"
		m.connected = false

	case CallErrMsg:
		m.lastErr = msg.Err.Error()

	case tea.KeyMsg:
		switch msg.String() {

		case "ctrl+c", "esc":
			m.quitting = true
			m.ctrl.End()
			return m, tea.Quit

		case "ctrl+a":
			m.micOn = m.ctrl.ToggleMic()

		case "ctrl+e":
			m.camOn = m.ctrl.ToggleCamera()

		case "ctrl+s":
			if m.ctrl.Sharing() {
				if err := m.ctrl.StopShare(); err != nil {
					m.lastErr = err.Error()
				}
			} else if err := m.ctrl.StartShare(); err != nil {
				m.lastErr = err.Error()
			}

		case "enter":
			text := m.input.Value()
			m.input.Reset()
			m.ctrl.SendChat(text)
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.view, cmd = m.view.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *callModel) appendLine(line ChatLine) {
	name := ChatTheirsStyle.Render(line.Sender)
	if line.Mine {
		name = ChatMineStyle.Render(line.Sender)
	}
	m.lines = append(m.lines,
		fmt.Sprintf("%s %s  %s", ChatTimeStyle.Render(line.Time), name, line.Text))
	m.refresh()
}

func (m *callModel) refresh() {
	m.view.SetContent(strings.Join(m.lines, "\n"))
	m.view.GotoBottom()
}

func (m *callModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	header := fmt.Sprintf("%s %s  %s", IconRoom, m.roomID, StatusStyle.Render(m.status))
	if m.remoteShare {
		header += "  " + WarningStyle.Render(IconScreen+" peer is sharing")
	}
	b.WriteString(header + "\n\n")

	b.WriteString(m.view.View() + "\n\n")
	b.WriteString(IconChat + " " + m.input.View() + "\n")

	controls := fmt.Sprintf("%s mic:%s  %s cam:%s  %s share:%s",
		IconMic, onOff(m.micOn),
		IconCamera, onOff(m.camOn),
		IconScreen, onOff(m.ctrl.Sharing()),
	)
	footer := MutedStyle.Render(controls + "  |  ctrl+a mic · ctrl+e cam · ctrl+s share · esc end")
	b.WriteString(footer)

	if m.lastErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(IconWarning+" "+m.lastErr))
	}

	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func onOff(v bool) string {
	if v {
		return SuccessStyle.Render("on")
	}
	return MutedStyle.Render("off")
}
