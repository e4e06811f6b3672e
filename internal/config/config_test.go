package config_test

import (
	"testing"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ALGOCALL_DOMAIN", "")
	t.Setenv("STUN_SERVER", "")
	t.Setenv("ALGOCALL_NEGOTIATION_TIMEOUT", "")

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDomain, cfg.Domain)
	assert.Equal(t, "wss://"+config.DefaultDomain+"/ws", cfg.WebSocketURL)
	assert.Equal(t, config.DefaultSTUN, cfg.STUNServer)
	assert.Equal(t, config.DefaultNegotiationTimeout, cfg.NegotiationTimeout)
	assert.NotEmpty(t, cfg.DisplayName, "display name falls back to the hostname")
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("ALGOCALL_DOMAIN", "env.example")
	t.Setenv("ALGOCALL_NAME", "env-name")

	cfg, err := config.Load(config.Options{Domain: "flag.example", DisplayName: "flag-name"})
	require.NoError(t, err)

	assert.Equal(t, "flag.example", cfg.Domain)
	assert.Equal(t, "flag-name", cfg.DisplayName)
}

func TestLoad_EnvBeatsDefault(t *testing.T) {
	t.Setenv("ALGOCALL_DOMAIN", "env.example")

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.Equal(t, "env.example", cfg.Domain)
	assert.Equal(t, "wss://env.example/ws", cfg.WebSocketURL)
}

func TestLoad_TimeoutFromEnv(t *testing.T) {
	t.Setenv("ALGOCALL_NEGOTIATION_TIMEOUT", "5")

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.NegotiationTimeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("ALGOCALL_NEGOTIATION_TIMEOUT", "soon")

	_, err := config.Load(config.Options{})
	assert.Error(t, err)
}

func TestGetRoomLink(t *testing.T) {
	cfg, err := config.Load(config.Options{Domain: "call.example"})
	require.NoError(t, err)

	assert.Equal(t, "https://call.example/video-call/abc123", cfg.GetRoomLink("abc123"))
}

func TestGetTURNServers(t *testing.T) {
	t.Setenv("TURN_SERVER", "")

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)
	assert.Nil(t, cfg.GetTURNServers())

	cfg, err = config.Load(config.Options{
		TURNServer: "turn:turn.example",
		TURNUser:   "user",
		TURNPass:   "pass",
	})
	require.NoError(t, err)

	servers := cfg.GetTURNServers()
	require.Len(t, servers, 3)
	assert.Equal(t, "turn:turn.example:3478?transport=udp", servers[0])

	user, pass := cfg.GetTURNCredentials()
	assert.Equal(t, "user", user)
	assert.Equal(t, "pass", pass)
}
