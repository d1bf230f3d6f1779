package db4d

import "time"

const (
	defaultEventuallyWait = 2 * time.Second
	defaultEventuallyTick = 20 * time.Millisecond
)
