package sqladapter

import (
	"context"
	"database/sql/driver"
	"errors"

	"github.com/db4d-go/db4d"
)

// conn adapts *db4d.Driver to driver.Conn. A db4d.Driver is already a
// single, non-pooled connection not safe for concurrent use, so conn
// is a near-direct pass-through.
type conn struct {
	native *db4d.Driver
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	s, err := c.native.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &stmt{native: s}, nil
}

func (c *conn) Close() error {
	return c.native.Close()
}

func (c *conn) Begin() (driver.Tx, error) {
	if _, err := c.native.BeginTransaction(); err != nil {
		return nil, err
	}
	return &tx{native: c.native}, nil
}

// Ping implements driver.Pinger using the same non-blocking liveness
// probe db4d.Driver.Alive() uses internally.
func (c *conn) Ping(ctx context.Context) error {
	if !c.native.Alive() {
		return driver.ErrBadConn
	}
	return nil
}

// ExecContext implements driver.ExecerContext, bypassing the
// Prepare+Exec+Close round trip for statements with no result set.
func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	bound, err := bindArgs(args)
	if err != nil {
		return nil, err
	}
	return execViaQuery(c.native, query, bound)
}

// QueryContext implements driver.QueryerContext.
func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	bound, err := bindArgs(args)
	if err != nil {
		return nil, err
	}
	return queryViaQuery(c.native, query, bound)
}

func bindArgs(args []driver.NamedValue) ([]db4d.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]db4d.Value, len(args))
	for i, a := range args {
		v, err := toDB4DValue(a.Value)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func toDB4DValue(v driver.Value) (db4d.Value, error) {
	switch t := v.(type) {
	case nil:
		return db4d.NewNull(), nil
	case bool:
		return db4d.NewBool(t), nil
	case int64:
		return db4d.NewInt64(t), nil
	case float64:
		return db4d.NewFloat64(t), nil
	case []byte:
		return db4d.NewBlob(t), nil
	case string:
		return db4d.NewString(t), nil
	default:
		return db4d.Value{}, errors.New("sqladapter: unsupported bind argument type")
	}
}

// execViaQuery runs query with no placeholders (db4d.Driver.Query) when
// there are no bind args, or prepares+executes it when there are, and
// returns an update-count driver.Result. Non-update-count replies
// report zero rows affected, since database/sql's Exec has no row
// buffer to hand back.
func execViaQuery(native *db4d.Driver, query string, args []db4d.Value) (driver.Result, error) {
	res, err := runStatement(native, query, args)
	if err != nil {
		return nil, err
	}
	return &result{rowsAffected: res.UpdateCount}, nil
}

func queryViaQuery(native *db4d.Driver, query string, args []db4d.Value) (driver.Rows, error) {
	res, err := runStatement(native, query, args)
	if err != nil {
		return nil, err
	}
	if res.Rows == nil {
		return &rows{columnNames: nil}, nil
	}
	return &rows{columnNames: res.Rows.ColumnNames(), buf: res.Rows}, nil
}

func runStatement(native *db4d.Driver, query string, args []db4d.Value) (*db4d.ExecResult, error) {
	if len(args) == 0 {
		return native.Query(query)
	}
	s, err := native.Prepare(query)
	if err != nil {
		return nil, err
	}
	return s.Execute(args...)
}
