package call

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/signaling"
)

// ChatMessage is one line of the in-call chat.
type ChatMessage struct {
	Sender string
	Text   string
	Time   string
	Mine   bool
}

// Chat relays text messages over the signaling channel, independent of the
// media path. The local list is append-only, ordered by receipt, and lives
// only as long as the session.
type Chat struct {
	sender  string
	roomID  string
	signals SignalSender

	mu     sync.Mutex
	msgs   []ChatMessage
	notify func(ChatMessage)
}

// NewChat creates the chat relay for one session.
func NewChat(sender, roomID string, signals SignalSender) *Chat {
	return &Chat{sender: sender, roomID: roomID, signals: signals}
}

// SetNotify registers a callback invoked for every appended message.
func (c *Chat) SetNotify(f func(ChatMessage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = f
}

// Send stamps and emits a message. Whitespace-only input is a no-op. The
// local echo happens before the send goes out; no acknowledgment is awaited
// and nothing is retried.
func (c *Chat) Send(text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	msg := ChatMessage{
		Sender: c.sender,
		Text:   trimmed,
		Time:   time.Now().Format("3:04 PM"),
		Mine:   true,
	}
	c.append(msg)

	env, err := signaling.NewEnvelope(signaling.EventChatMessage, c.roomID,
		&signaling.ChatPayload{Sender: msg.Sender, Text: msg.Text, Time: msg.Time})
	if err != nil {
		slog.Error("failed to encode chat message", "err", err)
		return
	}
	c.signals.Send(env)
}

// Receive appends a message from the peer in arrival order.
func (c *Chat) Receive(p *signaling.ChatPayload) {
	c.append(ChatMessage{Sender: p.Sender, Text: p.Text, Time: p.Time})
}

func (c *Chat) append(msg ChatMessage) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(msg)
	}
}

// Messages returns a snapshot of the chat log.
func (c *Chat) Messages() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.msgs))
	copy(out, c.msgs)
	return out
}

// Len returns the number of messages exchanged so far.
func (c *Chat) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}
