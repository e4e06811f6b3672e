package relay_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/relay"
	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRelay spins up a real relay on a loopback listener and returns its
// websocket URL.
func startRelay(t *testing.T) string {
	t.Helper()

	hub := relay.NewHub()
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", relay.ServeWs(hub))
	mux.HandleFunc("/health", relay.HealthHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func connect(t *testing.T, wsURL, name string) (*signaling.Client, *signaling.Handler) {
	t.Helper()

	client := signaling.NewClient(wsURL)
	require.NoError(t, client.Connect())
	t.Cleanup(client.Close)

	handler := signaling.NewHandler(client)
	go handler.Start()

	env, err := signaling.NewEnvelope(signaling.EventJoinRoom, "room1",
		&signaling.JoinPayload{DisplayName: name})
	require.NoError(t, err)
	client.Send(env)

	return client, handler
}

func recv[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

func TestRelay_EndToEnd(t *testing.T) {
	wsURL := startRelay(t)

	_, aliceEvents := connect(t, wsURL, "alice")
	recv(t, aliceEvents.RoomJoined, "alice room-joined")

	bob, bobEvents := connect(t, wsURL, "bob")

	peer := recv(t, aliceEvents.PeerJoined, "peer-joined at alice")
	assert.Equal(t, "bob", peer.DisplayName)

	waiting := recv(t, bobEvents.RoomJoined, "bob room-joined")
	assert.Equal(t, "alice", waiting.DisplayName)

	// Negotiation envelopes are relayed verbatim to the other side.
	offer, err := signaling.NewEnvelope(signaling.EventOffer, "room1",
		&signaling.OfferPayload{SDP: "v=0 test-offer"})
	require.NoError(t, err)
	bob.Send(offer)

	got := recv(t, aliceEvents.Offer, "offer at alice")
	assert.Equal(t, "v=0 test-offer", got.SDP)

	chat, err := signaling.NewEnvelope(signaling.EventChatMessage, "room1",
		&signaling.ChatPayload{Sender: "bob", Text: "hello", Time: "3:04 PM"})
	require.NoError(t, err)
	bob.Send(chat)

	line := recv(t, aliceEvents.Chat, "chat at alice")
	assert.Equal(t, "hello", line.Text)

	// A disconnect tells the survivor the peer left.
	bob.Close()
	recv(t, aliceEvents.PeerLeft, "peer-left at alice")
}

func TestRelay_HealthEndpoint(t *testing.T) {
	hub := relay.NewHub()
	go hub.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", relay.HealthHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
