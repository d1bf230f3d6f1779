// Package sqladapter wraps db4d.Driver behind the standard
// database/sql/driver interfaces, so callers who want database/sql's
// connection pooling and generic Scan-based API can use this client
// the same way they'd use any other database/sql driver — purely
// additive to db4d's native API, never required by it.
package sqladapter

import (
	"context"
	"database/sql"
	"database/sql/driver"

	"github.com/db4d-go/db4d"
)

func init() {
	sql.Register("db4d", &sqlDriver{})
}

type sqlDriver struct{}

// Open implements driver.Driver, parsing dsn as "user:password@host:port".
func (sqlDriver) Open(dsn string) (driver.Conn, error) {
	cfg, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	native, err := db4d.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &conn{native: native}, nil
}

// OpenConnector implements driver.DriverContext.
func (sqlDriver) OpenConnector(dsn string) (driver.Connector, error) {
	cfg, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &Connector{Config: cfg}, nil
}

// Connector is a driver.Connector bound to a fixed *db4d.Config,
// letting callers build a *sql.DB without going through a DSN string
// at all.
type Connector struct {
	Config *db4d.Config
}

func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	native, err := db4d.Open(c.Config)
	if err != nil {
		return nil, err
	}
	return &conn{native: native}, nil
}

func (c *Connector) Driver() driver.Driver {
	return sqlDriver{}
}
