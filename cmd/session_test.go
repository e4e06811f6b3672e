package cmd

import (
	"testing"

	"github.com/Naveenpl1081/algonest-call/internal/call"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoomInput_BareID(t *testing.T) {
	roomID, err := parseRoomInput("abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", roomID)
}

func TestParseRoomInput_Empty(t *testing.T) {
	_, err := parseRoomInput("")
	assert.ErrorIs(t, err, call.ErrRoomRequired)
}

func TestParseRoomInput_CallLink(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://call.algonest.dev/video-call/abc123", "abc123"},
		{"https://call.algonest.dev/video-call/abc123/", "abc123"},
		{"http://localhost:5173/video-call/xyz-789", "xyz-789"},
	}

	for _, tt := range tests {
		roomID, err := parseRoomInput(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, roomID, tt.url)
	}
}

func TestParseRoomInput_BadLink(t *testing.T) {
	_, err := parseRoomInput("https://call.algonest.dev/interview/abc123")
	assert.Error(t, err)

	_, err = parseRoomInput("https://call.algonest.dev/video-call/")
	assert.Error(t, err)
}
