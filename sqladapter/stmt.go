package sqladapter

import (
	"database/sql/driver"

	"github.com/db4d-go/db4d"
)

// stmt adapts *db4d.PreparedStatement to driver.Stmt.
type stmt struct {
	native *db4d.PreparedStatement
}

func (s *stmt) Close() error {
	return nil
}

func (s *stmt) NumInput() int {
	return s.native.NumInput()
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	res, err := s.execute(args)
	if err != nil {
		return nil, err
	}
	return &result{rowsAffected: res.UpdateCount}, nil
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	res, err := s.execute(args)
	if err != nil {
		return nil, err
	}
	if res.Rows == nil {
		return &rows{}, nil
	}
	return &rows{columnNames: res.Rows.ColumnNames(), buf: res.Rows}, nil
}

func (s *stmt) execute(args []driver.Value) (*db4d.ExecResult, error) {
	bound := make([]db4d.Value, len(args))
	for i, a := range args {
		v, err := toDB4DValue(a)
		if err != nil {
			return nil, err
		}
		bound[i] = v
	}
	return s.native.Execute(bound...)
}
