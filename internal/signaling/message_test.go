package signaling_test

import (
	"testing"

	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	env, err := signaling.NewEnvelope(signaling.EventOffer, "room-42",
		&signaling.OfferPayload{SDP: "v=0\r\no=- 0 0 IN IP4 127.0.0.1"})
	require.NoError(t, err)

	wire, err := msgpack.Marshal(env)
	require.NoError(t, err)

	var decoded signaling.Envelope
	require.NoError(t, msgpack.Unmarshal(wire, &decoded))
	assert.Equal(t, signaling.EventOffer, decoded.Type)
	assert.Equal(t, "room-42", decoded.RoomID)

	var offer signaling.OfferPayload
	require.NoError(t, decoded.Decode(&offer))
	assert.Equal(t, "v=0\r\no=- 0 0 IN IP4 127.0.0.1", offer.SDP)
}

func TestEnvelope_NilPayload(t *testing.T) {
	env, err := signaling.NewEnvelope(signaling.EventScreenShareStopped, "room-42", nil)
	require.NoError(t, err)
	assert.Nil(t, env.Payload)

	wire, err := msgpack.Marshal(env)
	require.NoError(t, err)

	var decoded signaling.Envelope
	require.NoError(t, msgpack.Unmarshal(wire, &decoded))
	assert.Equal(t, signaling.EventScreenShareStopped, decoded.Type)
}

func TestCandidatePayload_Converters(t *testing.T) {
	mid := "0"
	index := uint16(0)
	ufrag := "abcd"

	init := webrtc.ICECandidateInit{
		Candidate:        "candidate:1 1 UDP 2122252543 192.168.1.10 54321 typ host",
		SDPMid:           &mid,
		SDPMLineIndex:    &index,
		UsernameFragment: &ufrag,
	}

	payload := signaling.NewCandidatePayload(init)
	back := payload.ICECandidateInit()

	assert.Equal(t, init.Candidate, back.Candidate)
	require.NotNil(t, back.SDPMid)
	assert.Equal(t, mid, *back.SDPMid)
	require.NotNil(t, back.SDPMLineIndex)
	assert.Equal(t, index, *back.SDPMLineIndex)
	require.NotNil(t, back.UsernameFragment)
	assert.Equal(t, ufrag, *back.UsernameFragment)
}
