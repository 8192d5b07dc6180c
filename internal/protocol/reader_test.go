package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderTokenBasic(t *testing.T) {
	r := NewReader(strings.NewReader("LIN 123456 abcd1234\n"))

	tag, err := r.Token()
	require.NoError(t, err)
	require.Equal(t, "LIN", tag)
	require.NoError(t, r.ExpectSpace())

	uid, err := r.Token()
	require.NoError(t, err)
	require.Equal(t, "123456", uid)
	require.NoError(t, r.ExpectSpace())

	pass, err := r.Token()
	require.NoError(t, err)
	require.Equal(t, "abcd1234", pass)
	require.NoError(t, r.ExpectNewline())
}

func TestReaderExpectNewlineTolerant(t *testing.T) {
	r := NewReader(strings.NewReader("LST\r\n"))
	tag, err := r.Token()
	require.NoError(t, err)
	require.Equal(t, "LST", tag)
	require.NoError(t, r.ExpectNewline())
}

func TestReaderEmptyTokenRejected(t *testing.T) {
	r := NewReader(strings.NewReader("LIN  123456\n"))
	_, err := r.Token()
	require.NoError(t, err)
	require.NoError(t, r.ExpectSpace())
	_, err = r.Token()
	require.ErrorIs(t, err, ErrEmptyToken)
}

func TestReaderReadExact(t *testing.T) {
	r := NewReader(strings.NewReader("CRE x y 5 hello\n"))
	for i := 0; i < 4; i++ {
		_, err := r.Token()
		require.NoError(t, err)
		require.NoError(t, r.ExpectSpace())
	}
	blob, err := r.ReadExact(5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), blob)
	require.NoError(t, r.ExpectNewline())
}
