// Package connectivity answers "is the API reachable right now".
package connectivity

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Checker reports whether the network needed by the API is reachable
type Checker interface {
	Online(ctx context.Context) bool
}

// Static is a Checker with a fixed answer
type Static bool

// Online returns the fixed answer
func (s Static) Online(context.Context) bool {
	return bool(s)
}

// Func adapts a function to Checker
type Func func(ctx context.Context) bool

// Online calls f
func (f Func) Online(ctx context.Context) bool {
	return f(ctx)
}

// Dialer probes the API host with a TCP connect
type Dialer struct {
	address string
	timeout time.Duration
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer builds a Dialer for the host of baseURL. The port defaults to
// the scheme's well-known port.
func NewDialer(baseURL string, timeout time.Duration) (*Dialer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	d := &net.Dialer{Timeout: timeout}
	return &Dialer{
		address: net.JoinHostPort(u.Hostname(), port),
		timeout: timeout,
		dial:    d.DialContext,
	}, nil
}

// Address returns the host:port being probed
func (d *Dialer) Address() string {
	return d.address
}

// Online reports whether a TCP connection to the API host can be opened
func (d *Dialer) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	conn, err := d.dial(ctx, "tcp", d.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
