package db4d

import (
	"net"
	"strconv"
	"time"
)

// Config holds everything needed to open a Driver. The 4D protocol's
// LOGIN is built from explicit fields rather than a connection-string
// grammar — see the sqladapter package for a DSN-based front end built
// on top of these fields.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string

	// DialTimeout bounds the initial TCP connect. Zero means no
	// timeout.
	DialTimeout time.Duration
	// DialRetries is the number of additional dial attempts after the
	// first failure, spaced by an exponential backoff. Never used once
	// the protocol itself is in flight. Zero means no retry.
	DialRetries int
	// ReadTimeout is applied as a read deadline at the start of each
	// request exchange (LOGIN, each execute phase, CLOSE-STATEMENT); all
	// reads of that exchange must finish within it. Zero means block
	// indefinitely; no timeout is mandated by the protocol.
	ReadTimeout time.Duration
}

func (c *Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
