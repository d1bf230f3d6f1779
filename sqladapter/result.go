package sqladapter

import "errors"

// result adapts an update count to driver.Result. The 4D protocol has
// no notion of a server-assigned last-insert-id distinct from a query
// result, so LastInsertId is unsupported.
type result struct {
	rowsAffected int64
}

func (r *result) LastInsertId() (int64, error) {
	return 0, errors.New("sqladapter: last insert id not supported by this protocol")
}

func (r *result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
