// Package probe answers "is the network reachable right now?" with a
// bounded-latency check. Absence of connectivity is a normal state for
// the kiosk, so the probe never returns an error.
package probe

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"time"
)

const defaultTimeout = 5 * time.Second

// Probe checks reachability of a single host:port.
type Probe struct {
	addr    string
	timeout time.Duration
	logger  *slog.Logger

	// dial is swappable for tests.
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// New creates a probe for the given host:port address.
func New(addr string, timeout time.Duration, logger *slog.Logger) *Probe {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &net.Dialer{}
	return &Probe{
		addr:    addr,
		timeout: timeout,
		logger:  logger,
		dial:    d.DialContext,
	}
}

// NewForURL creates a probe targeting the host of an API base URL,
// defaulting the port from the URL scheme.
func NewForURL(rawURL string, timeout time.Duration, logger *slog.Logger) (*Probe, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "http" {
			port = "80"
		} else {
			port = "443"
		}
	}
	return New(net.JoinHostPort(host, port), timeout, logger), nil
}

// Online reports whether the probe target is reachable within the
// configured timeout. Timeout and unreachable both resolve to false.
func (p *Probe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(ctx, "tcp", p.addr)
	if err != nil {
		p.logger.Debug("connectivity probe failed", "addr", p.addr, "error", err)
		return false
	}
	conn.Close()
	return true
}
