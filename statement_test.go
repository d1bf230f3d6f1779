package db4d

import (
	"bufio"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer, for each reply in turn, drains one request frame (up to
// the blank-line terminator) off server and then writes that reply. Used to script a 4D server's side of the wire
// over a real net.Conn pair (net.Pipe) so frameReader's bufio.Reader
// behaves exactly as it would against TCP.
func fakeServer(t *testing.T, server net.Conn, replies ...[]byte) {
	t.Helper()
	go func() {
		r := bufio.NewReader(server)
		for _, reply := range replies {
			for {
				line, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if line == "\r\n" {
					break
				}
			}
			if _, err := server.Write(reply); err != nil {
				return
			}
		}
	}()
}

func newTestDriverAt(t *testing.T, commandID int) (*Driver, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })
	d := &Driver{
		cfg:       &Config{},
		conn:      client,
		reader:    newFrameReader(client),
		commandID: commandID,
	}
	return d, server
}

// TestQuery_UpdateCount covers a plain UPDATE reply: an Update-Count
// status with no row buffer.
func TestQuery_UpdateCount(t *testing.T) {
	d, server := newTestDriverAt(t, 1)
	fakeServer(t, server, []byte("001 OK\r\nResult-Type : Update-Count\r\nRow-Count : 7\r\n\r\n"))

	res, err := d.Query("UPDATE T SET x=1")
	require.NoError(t, err)
	assert.Equal(t, ResultUpdateCount, res.Meta.ResultType)
	assert.EqualValues(t, 7, res.UpdateCount)
	assert.Nil(t, res.Rows)
	assert.Equal(t, 3, d.commandID) // a single round trip, no phase 2
}

// TestQuery_EmptyResultSet covers a zero-row result set: no phase-2
// request is issued.
func TestQuery_EmptyResultSet(t *testing.T) {
	d, server := newTestDriverAt(t, 1)
	fakeServer(t, server, []byte("001 OK\r\nResult-Type : Result-Set\r\nRow-Count : 0\r\nColumn-Count : 1\r\nColumn-Aliases : [x]\r\nColumn-Types : VK_LONG\r\nColumn-Updateability : 1 N\r\n\r\n"))

	res, err := d.Query("SELECT * FROM T WHERE 1=0")
	require.NoError(t, err)
	require.NotNil(t, res.Rows)
	assert.Equal(t, 0, res.Rows.Len())
	assert.Equal(t, 3, d.commandID)
}

// TestQuery_TwoRowTwoColumn exercises both phases of the execute/fetch
// protocol end to end, and checks that the row buffer's length equals
// the server-declared row count after a successful execute.
func TestQuery_TwoRowTwoColumn(t *testing.T) {
	d, server := newTestDriverAt(t, 1)

	row := func(id int32, name string) []byte {
		b := []byte{0x01}
		idBytes := make([]byte, 4)
		idBytes[0] = byte(id)
		b = append(b, idBytes...)
		b = append(b, 0x01)
		b = append(b, 0xFC, 0xFF, 0xFF, 0xFF) // raw_len -> length 4
		for _, r := range name {
			b = append(b, byte(r), 0x00)
		}
		return b
	}

	phase1Header := "001 OK\r\nResult-Type : Result-Set\r\nRow-Count : 2\r\nRow-Count-Sent : 1\r\nColumn-Count : 2\r\nColumn-Aliases : [id] [name]\r\nColumn-Types : VK_LONG VK_STRING\r\nColumn-Updateability : 2 N N\r\n\r\n"
	phase1 := append([]byte(phase1Header), row(42, "ABCD")...)

	phase2Header := "003 OK\r\nResult-Type : Result-Set\r\nRow-Count : 2\r\nRow-Count-Sent : 2\r\nColumn-Count : 2\r\nColumn-Aliases : [id] [name]\r\nColumn-Types : VK_LONG VK_STRING\r\nColumn-Updateability : 2 N N\r\n\r\n"
	phase2 := append([]byte(phase2Header), row(42, "ABCD")...)
	phase2 = append(phase2, row(43, "WXYZ")...)

	fakeServer(t, server, phase1, phase2)

	res, err := d.Query("SELECT id, name FROM T")
	require.NoError(t, err)
	require.NotNil(t, res.Rows)
	assert.Equal(t, 2, res.Rows.Len())

	got, ok := res.Rows.FetchRow(FetchAssociative)
	require.True(t, ok)
	assert.Equal(t, int32(42), got["id"])
	assert.Equal(t, "ABCD", got["name"])
	_, hasID := got["_ID"]
	assert.False(t, hasID) // _ID stripped when no updateability flag is Y

	got2, ok := res.Rows.FetchRow(FetchAssociative)
	require.True(t, ok)
	assert.Equal(t, int32(43), got2["id"])
	assert.Equal(t, "WXYZ", got2["name"])

	assert.Equal(t, 5, d.commandID) // +2 for phase 1, +2 for phase 2
}

// TestQuery_PerValueError covers a per-column status byte of 2, which
// must surface a DecodeError and abort the current fetch.
func TestQuery_PerValueError(t *testing.T) {
	d, server := newTestDriverAt(t, 1)

	header := "001 OK\r\nResult-Type : Result-Set\r\nRow-Count : 1\r\nRow-Count-Sent : 1\r\nColumn-Count : 1\r\nColumn-Aliases : [x]\r\nColumn-Types : VK_LONG\r\nColumn-Updateability : 1 N\r\n\r\n"
	body := []byte{0x02, 0, 0, 0, 0, 0, 0, 0, 0} // status=2, 8-byte error code
	fakeServer(t, server, append([]byte(header), body...))

	_, err := d.Query("SELECT x FROM T")
	require.Error(t, err)
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

// TestFetchRow_NumericAndAssociativeAgree checks that numeric and
// associative fetch styles return the same values under corresponding
// index/name pairs.
func TestFetchRow_NumericAndAssociativeAgree(t *testing.T) {
	buf := newRowBuffer([]string{"a", "b"})
	row := Row{"a": int32Value(1), "b": stringValue("x")}
	require.NoError(t, buf.appendRows([]Row{row, row}))

	numeric, ok := buf.FetchRow(FetchNumeric)
	require.True(t, ok)
	assert.Equal(t, int32(1), numeric["0"])
	assert.Equal(t, "x", numeric["1"])

	assoc, ok := buf.FetchRow(FetchAssociative)
	require.True(t, ok)
	assert.Equal(t, numeric["0"], assoc["a"])
	assert.Equal(t, numeric["1"], assoc["b"])
}

func TestFetchRow_CombinedHasBothIndexings(t *testing.T) {
	buf := newRowBuffer([]string{"a"})
	require.NoError(t, buf.appendRows([]Row{{"a": int32Value(9)}}))

	combined, ok := buf.FetchRow(FetchCombined)
	require.True(t, ok)
	assert.Equal(t, int32(9), combined["0"])
	assert.Equal(t, int32(9), combined["a"])
}

// TestFetchRow_Destructive checks that fetching a row removes it from
// the buffer.
func TestFetchRow_Destructive(t *testing.T) {
	buf := newRowBuffer([]string{"a"})
	require.NoError(t, buf.appendRows([]Row{{"a": int32Value(1)}, {"a": int32Value(2)}}))

	assert.Equal(t, 2, buf.Len())
	_, ok := buf.FetchRow(FetchAssociative)
	require.True(t, ok)
	assert.Equal(t, 1, buf.Len())
}

// TestPrepare_ReservesFourIdsUpFront checks that Prepare advances the
// command id counter by four (reserving ids 1 and 3) eagerly, before
// Execute is ever called.
func TestPrepare_ReservesFourIdsUpFront(t *testing.T) {
	d, server := newTestDriverAt(t, 1)
	fakeServer(t, server, []byte("001 OK\r\nResult-Type : Update-Count\r\nRow-Count : 1\r\n\r\n"))

	stmt, err := d.Prepare("UPDATE T SET x=?")
	require.NoError(t, err)
	assert.Equal(t, 1, stmt.commandID)
	assert.Equal(t, 5, d.commandID) // reserved 1 and 3, next available is 5

	_, err = stmt.Execute(NewInt32(1))
	require.NoError(t, err)
	assert.Equal(t, 5, d.commandID) // Execute does not touch the driver's counter
}

// TestExecResult_FetchOnUpdateCountIsExhausted wires errStmtExhausted.
func TestExecResult_FetchOnUpdateCountIsExhausted(t *testing.T) {
	res := &ExecResult{UpdateCount: 3}
	_, _, err := res.FetchRow(FetchCombined)
	assert.ErrorIs(t, err, errStmtExhausted)

	_, _, err = res.FetchColumn("x")
	assert.ErrorIs(t, err, errStmtExhausted)
}
