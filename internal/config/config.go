package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default configuration values (production)
const (
	DefaultDomain             = "call.algonest.dev"
	DefaultSTUN               = "stun:stun.l.google.com:19302"
	DefaultTURN               = "" // Optional, empty by default
	DefaultNegotiationTimeout = 30 * time.Second
)

// Config holds application configuration
type Config struct {
	// Domain is the signaling relay domain
	Domain string

	// WebSocketURL is constructed from domain
	WebSocketURL string

	// DisplayName is shown to the remote peer and stamped on chat messages
	DisplayName string

	// ICE servers for WebRTC
	STUNServer string
	TURNServer string
	TURNUser   string
	TURNPass   string
	ForceRelay bool

	// NegotiationTimeout bounds the wait for the remote peer's media after
	// the local description has been sent. Zero disables the timeout.
	NegotiationTimeout time.Duration
}

// Options for loading config with CLI flag overrides
type Options struct {
	Domain      string
	DisplayName string
	STUNServer  string
	TURNServer  string
	TURNUser    string
	TURNPass    string
	ForceRelay  bool
	Timeout     time.Duration
}

// Load reads configuration with the following priority:
// 1. CLI flags (passed via Options) - highest priority
// 2. Environment variables
// 3. Hardcoded defaults - lowest priority
func Load(opts Options) (*Config, error) {
	domain := firstOf(opts.Domain, os.Getenv("ALGOCALL_DOMAIN"), DefaultDomain)
	stunServer := firstOf(opts.STUNServer, os.Getenv("STUN_SERVER"), DefaultSTUN)
	turnServer := firstOf(opts.TURNServer, os.Getenv("TURN_SERVER"), DefaultTURN)
	turnUser := firstOf(opts.TURNUser, os.Getenv("TURN_USERNAME"), "")
	turnPass := firstOf(opts.TURNPass, os.Getenv("TURN_PASSWORD"), "")

	displayName := firstOf(opts.DisplayName, os.Getenv("ALGOCALL_NAME"))
	if displayName == "" {
		if host, err := os.Hostname(); err == nil {
			displayName = host
		} else {
			displayName = "anonymous"
		}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		if v := os.Getenv("ALGOCALL_NEGOTIATION_TIMEOUT"); v != "" {
			secs, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid ALGOCALL_NEGOTIATION_TIMEOUT: %q", v)
			}
			timeout = time.Duration(secs) * time.Second
		} else {
			timeout = DefaultNegotiationTimeout
		}
	}

	forceRelay := opts.ForceRelay
	if !forceRelay {
		forceRelay = os.Getenv("ALGOCALL_FORCE_RELAY") == "1"
	}

	return &Config{
		Domain:             domain,
		WebSocketURL:       fmt.Sprintf("wss://%s/ws", domain),
		DisplayName:        displayName,
		STUNServer:         stunServer,
		TURNServer:         turnServer,
		TURNUser:           turnUser,
		TURNPass:           turnPass,
		ForceRelay:         forceRelay,
		NegotiationTimeout: timeout,
	}, nil
}

// GetRoomLink returns the webapp URL for a room ID
func (c *Config) GetRoomLink(roomID string) string {
	return fmt.Sprintf("https://%s/video-call/%s", c.Domain, roomID)
}

// GetSTUNServers returns STUN server URLs as strings
func (c *Config) GetSTUNServers() []string {
	return []string{c.STUNServer}
}

// GetTURNServers returns TURN server URLs if configured
func (c *Config) GetTURNServers() []string {
	if c.TURNServer == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("%s:3478?transport=udp", c.TURNServer),
		fmt.Sprintf("%s:3478?transport=tcp", c.TURNServer),
		fmt.Sprintf("turns:%s:5349?transport=tcp", c.TURNServer),
	}
}

// GetTURNCredentials returns TURN username and password
func (c *Config) GetTURNCredentials() (string, string) {
	return c.TURNUser, c.TURNPass
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
