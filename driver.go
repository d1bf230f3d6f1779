package db4d

import (
	"encoding/base64"
	"errors"
	"net"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

// Driver owns one TCP connection to a 4D SQL server and the
// monotonically increasing command id sequence for it. Not safe for
// concurrent use.
type Driver struct {
	cfg    *Config
	conn   net.Conn
	reader *frameReader

	commandID int // next odd command id to hand out

	closed  atomic.Bool
	lastErr atomic.Pointer[TransportError]
}

// Open dials cfg.Host:cfg.Port, retrying the initial connect up to
// cfg.DialRetries times with exponential backoff, then performs LOGIN.
func Open(cfg *Config) (*Driver, error) {
	conn, err := dialWithBackoff(cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		cfg:       cfg,
		conn:      conn,
		reader:    newFrameReader(conn),
		commandID: 1,
	}

	if err := d.login(); err != nil {
		conn.Close()
		return nil, err
	}

	return d, nil
}

func dialWithBackoff(cfg *Config) (net.Conn, error) {
	var bo intervaler = noBackoff{}
	if cfg.DialRetries > 0 {
		bo = newExponentialBackoff()
	}

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	addr := cfg.addr()

	var lastErr error
	for attempt := 0; attempt <= cfg.DialRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(bo.NextInterval(attempt))
		}
		conn, err := dialer.Dial("tcp", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, classifyDialErr(addr, lastErr)
}

// classifyDialErr distinguishes a failure to allocate the local socket
// from a failure to reach the remote end (refused, unreachable, DNS).
// Go's net package surfaces the former as an *os.SyscallError with
// Syscall == "socket", wrapped inside the *net.OpError dialer.Dial
// returns; anything else reached the point of attempting the remote
// connection.
func classifyDialErr(addr string, err error) error {
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) && sysErr.Syscall == "socket" {
		return &TransportCreationError{Err: err}
	}
	return &TransportConnectError{Addr: addr, Err: err}
}

// login performs the LOGIN exchange. Credentials are sent
// base64-encoded and unencrypted; there is no TLS option in this
// protocol.
func (d *Driver) login() error {
	frame := newRequestFrame(d.commandID, "LOGIN").
		set("USER-NAME-BASE64", base64.StdEncoding.EncodeToString([]byte(d.cfg.User))).
		set("USER-PASSWORD-BASE64", base64.StdEncoding.EncodeToString([]byte(d.cfg.Password))).
		set("REPLY-WITH-BASE64-TEXT", "N").
		set("PROTOCOL-VERSION", "0.1a")

	if err := d.reader.setDeadline(d.cfg.ReadTimeout); err != nil {
		d.markBroken(err)
		return err
	}
	if err := d.write(frame.bytes()); err != nil {
		return err
	}

	meta := &ResponseMetadata{}
	ok, err := readHeaderBlock(d.reader, meta)
	if err != nil {
		d.markBroken(err)
		return err
	}
	if !ok {
		loginErr := &LoginError{Code: meta.ErrorCode, Description: meta.ErrorDescription}
		return loginErr
	}

	d.commandID += 2
	return nil
}

// Prepare advances the command id counter by 4, reserving two odd ids
// for sql: one for the eventual phase-1 EXECUTE-STATEMENT, one
// (implicitly, id+2) for its phase-2 refetch. Reserving eagerly, rather than at Execute time,
// keeps two statements prepared back to back from ever being handed
// overlapping id blocks. It does not send anything over the wire: the
// request is built and sent when Execute is called.
func (d *Driver) Prepare(sql string) (*PreparedStatement, error) {
	if d.closed.Load() {
		return nil, errConnClosed
	}
	id := d.commandID
	d.commandID += 4
	return &PreparedStatement{driver: d, sql: sql, commandID: id}, nil
}

// Query prepares sql and immediately executes it with no arguments,
// like prepare immediately followed by execute except that the body is
// sent inline; the id bump sequence is +2, +2. Unlike Prepare, phase
// 2's id is only consumed if phase 2 actually runs.
func (d *Driver) Query(sql string) (*ExecResult, error) {
	if d.closed.Load() {
		return nil, errConnClosed
	}
	id := d.issueID()
	frame := newRequestFrame(id, "EXECUTE-STATEMENT").
		set("STATEMENT", sql).
		set("OUTPUT-MODE", "RELEASE").
		set("FIRST-PAGE-SIZE", "1")
	return d.runExecute(frame, d.issueID)
}

// BeginTransaction starts a transaction by sending "START".
func (d *Driver) BeginTransaction() (*ExecResult, error) { return d.Query("START") }

// Commit sends "COMMIT".
func (d *Driver) Commit() (*ExecResult, error) { return d.Query("COMMIT") }

// Rollback sends "ROLLBACK".
func (d *Driver) Rollback() (*ExecResult, error) { return d.Query("ROLLBACK") }

// Close shuts down the write side then closes the socket. Idempotent —
// a second call is a no-op.
func (d *Driver) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	if tc, ok := d.conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	return d.conn.Close()
}

// Alive reports whether the underlying socket still looks connected,
// using a non-blocking poll. This is a best-effort liveness probe for
// callers layering their own pool on top of Driver.
func (d *Driver) Alive() bool {
	if d.closed.Load() {
		return false
	}
	return connCheck(d.conn) == nil
}

// LastError returns the last transport error observed on this
// connection, if any.
func (d *Driver) LastError() error {
	te := d.lastErr.Load()
	if te == nil {
		return nil
	}
	return te
}

func (d *Driver) write(b []byte) error {
	if d.closed.Load() {
		return errConnClosed
	}
	if _, err := d.conn.Write(b); err != nil {
		te := &TransportError{Err: err}
		d.markBroken(te)
		return te
	}
	return nil
}

// markBroken records a fatal transport error and closes the driver:
// after a TransportError the driver must be considered closed.
func (d *Driver) markBroken(err error) {
	te, ok := err.(*TransportError)
	if !ok {
		return
	}
	d.lastErr.Store(te)
	db4dLog.Printf("transport broken, closing driver: %v", err)
	d.closed.Store(true)
	d.conn.Close()
}

// issueID returns the current command id and advances the counter by
// 2, the generic "per round trip" bump rate. Prepare is the one
// exception, reserving 4 at once up front.
func (d *Driver) issueID() int {
	id := d.commandID
	d.commandID += 2
	return id
}

// closeCursor sends CLOSE-STATEMENT for statementID and consumes the
// acknowledgement.
func (d *Driver) closeCursor(statementID int32) error {
	id := d.issueID()
	frame := newRequestFrame(id, "CLOSE-STATEMENT").
		set("STATEMENT-ID", strconv.Itoa(int(statementID)))
	if err := d.reader.setDeadline(d.cfg.ReadTimeout); err != nil {
		d.markBroken(err)
		return err
	}
	if err := d.write(frame.bytes()); err != nil {
		return err
	}
	meta := &ResponseMetadata{}
	ok, err := readHeaderBlock(d.reader, meta)
	if err != nil {
		d.markBroken(err)
		return err
	}
	if !ok {
		return &StatementError{Code: meta.ErrorCode, ComponentCode: meta.ErrorComponentCode, Description: meta.ErrorDescription}
	}
	return nil
}
