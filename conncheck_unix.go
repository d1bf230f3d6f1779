//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd || solaris || illumos

package db4d

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

var errUnexpectedEvent = errors.New("connection reported unexpected readable/error event while idle")

// connCheck polls the underlying file descriptor for POLLIN/POLLERR
// without blocking. A readable-while-idle connection means the server
// closed it (or sent something unsolicited) between requests. It backs
// Driver.Alive(), since this driver has no pool of its own but callers
// building one on top still need a cheap liveness probe.
func connCheck(conn net.Conn) error {
	sysConn, ok := conn.(syscall.Conn)
	if !ok {
		return nil
	}
	rawConn, err := sysConn.SyscallConn()
	if err != nil {
		return err
	}

	var pollErr error
	err = rawConn.Control(func(fd uintptr) {
		fds := []unix.PollFd{
			{Fd: int32(fd), Events: unix.POLLIN | unix.POLLERR},
		}
		n, err := unix.Poll(fds, 0)
		if err != nil {
			pollErr = fmt.Errorf("poll: %w", err)
			return
		}
		if n > 0 {
			pollErr = errUnexpectedEvent
		}
	})
	if err != nil {
		return err
	}
	return pollErr
}
