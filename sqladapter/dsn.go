package sqladapter

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/db4d-go/db4d"
)

// parseDSN parses a data source name of the form
// "user:password@host:port" into a *db4d.Config. There is no query
// string here: this protocol takes no charset/collation/timeout
// parameters beyond what db4d.Config already exposes, so there's
// nothing for a params map to carry.
func parseDSN(dsn string) (*db4d.Config, error) {
	userinfo, hostport, ok := strings.Cut(dsn, "@")
	if !ok {
		return nil, fmt.Errorf("sqladapter: invalid dsn %q: missing '@'", dsn)
	}

	user, password, _ := strings.Cut(userinfo, ":")

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return nil, fmt.Errorf("sqladapter: invalid dsn %q: %w", dsn, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("sqladapter: invalid dsn %q: bad port: %w", dsn, err)
	}

	return &db4d.Config{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}, nil
}
