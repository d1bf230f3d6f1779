package db4d

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLine(t *testing.T, client, server net.Conn, lines string) *frameReader {
	t.Helper()
	t.Cleanup(func() { client.Close(); server.Close() })
	go func() { server.Write([]byte(lines)) }()
	return newFrameReader(client)
}

func newPipe(t *testing.T) (net.Conn, net.Conn) {
	t.Helper()
	c, s := net.Pipe()
	return c, s
}

func TestParseHeaderLine_Fields(t *testing.T) {
	meta := &ResponseMetadata{}

	assert.Equal(t, headerConsumed, parseHeaderLine([]byte("Statement-ID : 12\r\n"), meta))
	assert.Equal(t, int32(12), meta.StatementID)

	assert.Equal(t, headerConsumed, parseHeaderLine([]byte("Result-Type : Result-Set\r\n"), meta))
	assert.Equal(t, ResultSet, meta.ResultType)

	assert.Equal(t, headerConsumed, parseHeaderLine([]byte("Row-Count : 2\r\n"), meta))
	assert.Equal(t, int64(2), meta.RowCount)

	assert.Equal(t, headerConsumed, parseHeaderLine([]byte("Column-Aliases : [id] [name] \r\n"), meta))
	assert.Equal(t, []string{"id", "name"}, meta.ColumnNames)

	assert.Equal(t, headerConsumed, parseHeaderLine([]byte("Column-Types : VK_LONG VK_STRING\r\n"), meta))
	assert.Equal(t, []ColumnType{TypeLong, TypeString}, meta.ColumnTypes)

	assert.Equal(t, headerConsumed, parseHeaderLine([]byte("Column-Updateability : 2 N N\r\n"), meta))
	assert.Equal(t, []bool{false, false}, meta.ColumnUpdateability)
	assert.False(t, meta.hasUpdateableColumn())

	assert.Equal(t, headerBlockEnd, parseHeaderLine([]byte("\r\n"), meta))
}

func TestParseHeaderLine_UpdateableColumn(t *testing.T) {
	meta := &ResponseMetadata{}
	parseHeaderLine([]byte("Column-Updateability : 1 Y\r\n"), meta)
	assert.True(t, meta.hasUpdateableColumn())
}

// TestReadHeaderBlock_UpdateCount parses an Update-Count reply.
func TestReadHeaderBlock_UpdateCount(t *testing.T) {
	client, server := newPipe(t)
	f := writeLine(t, client, server, "001 OK\r\nResult-Type : Update-Count\r\nRow-Count : 7\r\n\r\n")

	meta := &ResponseMetadata{}
	ok, err := readHeaderBlock(f, meta)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ResultUpdateCount, meta.ResultType)
	assert.Equal(t, int64(7), meta.RowCount)
}

func TestReadHeaderBlock_Error(t *testing.T) {
	client, server := newPipe(t)
	f := writeLine(t, client, server, "001 ERROR\r\nError-Code : 42\r\nError-Description : bad sql\r\n\r\n")

	meta := &ResponseMetadata{}
	ok, err := readHeaderBlock(f, meta)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 42, meta.ErrorCode)
	assert.Equal(t, "bad sql", meta.ErrorDescription)
}

func TestReadHeaderBlock_MalformedNoStatusLine(t *testing.T) {
	client, server := newPipe(t)
	f := writeLine(t, client, server, "\r\n")

	meta := &ResponseMetadata{}
	_, err := readHeaderBlock(f, meta)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMalformedHeader)
}
