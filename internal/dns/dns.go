package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// Fallback servers queried when the system resolver fails. Interview calls
// regularly run on locked-down corporate networks with broken local DNS.
var fallbackServers = []string{
	"1.1.1.1",                // Cloudflare
	"1.0.0.1",                // Cloudflare
	"[2606:4700:4700::1111]", // Cloudflare
	"8.8.8.8",                // Google
	"8.8.4.4",                // Google
	"[2001:4860:4860::8888]", // Google
	"9.9.9.9",                // Quad9
	"149.112.112.112",        // Quad9
}

const (
	localTimeout = 1 * time.Second
	raceTimeout  = 2 * time.Second
)

// Lookup resolves a hostname, trying the system resolver first and racing
// the public fallback servers if it fails. IPv4 results are preferred.
func Lookup(host string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), localTimeout)
	defer cancel()

	if ip, err := pickAddr((&net.Resolver{}).LookupHost(ctx, host)); err == nil {
		return ip, nil
	}

	return raceFallbacks(host)
}

// raceFallbacks queries every fallback server concurrently and returns the
// first usable answer.
func raceFallbacks(host string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	answers := make(chan string, len(fallbackServers))
	for _, server := range fallbackServers {
		go func(server string) {
			ip, err := queryServer(ctx, host, server)
			if err != nil {
				answers <- ""
				return
			}
			answers <- ip
		}(server)
	}

	for range fallbackServers {
		select {
		case ip := <-answers:
			if ip != "" {
				return ip, nil
			}
		case <-ctx.Done():
			return "", fmt.Errorf("dns fallback race timed out for %s", host)
		}
	}

	return "", fmt.Errorf("failed to resolve %s: all fallback servers failed", host)
}

// queryServer resolves host against one specific DNS server.
func queryServer(ctx context.Context, host, server string) (string, error) {
	r := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			d := new(net.Dialer)
			return d.DialContext(ctx, network, net.JoinHostPort(server, "53"))
		},
	}

	return pickAddr(r.LookupHost(ctx, host))
}

// pickAddr selects an address from a LookupHost result, preferring IPv4.
func pickAddr(ips []string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", errors.New("no addresses returned")
	}

	for _, ip := range ips {
		if net.ParseIP(ip).To4() != nil {
			return ip, nil
		}
	}
	return ips[0], nil
}
