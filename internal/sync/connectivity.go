package sync

import (
	"context"
	"net"
	"time"
)

// Connectivity answers "is the network reachable right now". It is
// consulted before every remote operation; a negative answer short-circuits
// the sync with a logged skip.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// ConnectivityFunc adapts a function to the Connectivity interface.
type ConnectivityFunc func(ctx context.Context) bool

func (f ConnectivityFunc) Online(ctx context.Context) bool { return f(ctx) }

// ProbeConnectivity reports online when a TCP dial to addr succeeds within
// two seconds.
func ProbeConnectivity(addr string) ConnectivityFunc {
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: 2 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}
