package sqladapter

import "github.com/db4d-go/db4d"

// tx adapts db4d.Driver's Commit/Rollback to driver.Tx.
type tx struct {
	native *db4d.Driver
}

func (t *tx) Commit() error {
	_, err := t.native.Commit()
	return err
}

func (t *tx) Rollback() error {
	_, err := t.native.Rollback()
	return err
}
