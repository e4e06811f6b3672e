package signaling_test

import (
	"testing"

	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestClient_ConnectLeavesDefaultDialerUntouched(t *testing.T) {
	c := signaling.NewClient("ws://127.0.0.1:1/ws")
	// The dial is refused; only the dialer handling matters here.
	assert.Error(t, c.Connect())

	assert.Nil(t, websocket.DefaultDialer.NetDial,
		"Connect must customize a copy, not the shared dialer")
}

func TestClient_CloseWithoutConnect(t *testing.T) {
	c := signaling.NewClient("ws://127.0.0.1:1/ws")
	c.Close()
	c.Close()
}

func TestClient_SendAfterCloseIsDropped(t *testing.T) {
	c := signaling.NewClient("ws://127.0.0.1:1/ws")
	c.Close()

	env, err := signaling.NewEnvelope(signaling.EventChatMessage, "r1",
		&signaling.ChatPayload{Sender: "a", Text: "late"})
	assert.NoError(t, err)
	c.Send(env)
}
