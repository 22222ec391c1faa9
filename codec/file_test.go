package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, []string{"101", "0", "11"}))
	assert.Equal(t, "101\n0\n11\n", buf.String())
}

func TestWriteRowsRejectsBadRows(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteRows(&buf, []string{"1a"}), ErrMalformed)
	assert.Empty(t, buf.String())
}

func TestWriteRowsIOError(t *testing.T) {
	err := WriteRows(failingWriter{}, []string{"1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestReadRows(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("101\r\n 010 \n\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "010"}, rows)
}

func TestReadRowsEmpty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRowsBadCharacter(t *testing.T) {
	_, err := ReadRows(strings.NewReader("101\n0z0\n"))
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, 2, codecErr.Pos)
}

func TestFileRoundTrip(t *testing.T) {
	rows := []string{"11", "0", "0", "011"}
	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))

	read, err := ReadRows(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, read)
}
