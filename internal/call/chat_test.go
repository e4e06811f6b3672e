package call_test

import (
	"testing"

	"github.com/Naveenpl1081/algonest-call/internal/call"
	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_SendEchoesLocallyAndEmits(t *testing.T) {
	sender := &fakeSender{}
	chat := call.NewChat("alice", "room1", sender)

	chat.Send("hello there")

	msgs := chat.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].Sender)
	assert.Equal(t, "hello there", msgs[0].Text)
	assert.True(t, msgs[0].Mine)
	assert.NotEmpty(t, msgs[0].Time)

	envs := sender.ofType(signaling.EventChatMessage)
	require.Len(t, envs, 1)
	var payload signaling.ChatPayload
	require.NoError(t, envs[0].Decode(&payload))
	assert.Equal(t, "hello there", payload.Text)
	assert.Equal(t, msgs[0].Time, payload.Time)
}

func TestChat_WhitespaceOnlyIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	chat := call.NewChat("alice", "room1", sender)

	chat.Send("   ")
	chat.Send("")
	chat.Send("\t\n")

	assert.Zero(t, chat.Len())
	assert.Empty(t, sender.ofType(signaling.EventChatMessage))
}

func TestChat_SendTrimsText(t *testing.T) {
	chat := call.NewChat("alice", "room1", &fakeSender{})

	chat.Send("  trimmed  ")

	assert.Equal(t, "trimmed", chat.Messages()[0].Text)
}

func TestChat_ReceiveKeepsArrivalOrder(t *testing.T) {
	chat := call.NewChat("alice", "room1", &fakeSender{})

	chat.Send("first")
	chat.Receive(&signaling.ChatPayload{Sender: "bob", Text: "second", Time: "3:04 PM"})
	chat.Send("third")

	msgs := chat.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.False(t, msgs[1].Mine)
	assert.Equal(t, "third", msgs[2].Text)
}

func TestChat_NotifyFiresPerMessage(t *testing.T) {
	chat := call.NewChat("alice", "room1", &fakeSender{})

	var seen []call.ChatMessage
	chat.SetNotify(func(m call.ChatMessage) { seen = append(seen, m) })

	chat.Send("one")
	chat.Receive(&signaling.ChatPayload{Sender: "bob", Text: "two"})

	require.Len(t, seen, 2)
	assert.True(t, seen[0].Mine)
	assert.False(t, seen[1].Mine)
}
