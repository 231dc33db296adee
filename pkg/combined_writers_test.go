package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	sb1.WriteString("already-here")
	sb2 := &strings.Builder{}

	cw := NewCombinedWriter(sb1, sb2)
	require.NotNil(t, cw)

	n, err := cw.Write([]byte("a message"))
	require.NoError(t, err)
	assert.Equal(t, 2*len("a message"), n)
	n, err = cw.Write([]byte("another message here"))
	require.NoError(t, err)
	assert.Equal(t, 2*len("another message here"), n)

	assert.Equal(t, "already-here"+"a message"+"another message here", sb1.String())
	assert.Equal(t, "a message"+"another message here", sb2.String())
}

func TestCombinedWriter_Write_WithError(t *testing.T) {
	fw := &failingWriter{}
	sb := &strings.Builder{}

	cw := NewCombinedWriter(fw, sb)
	require.NotNil(t, cw)

	n, err := cw.Write([]byte("a message"))
	assert.Error(t, err)

	// written only to the string builder
	assert.Equal(t, len("a message"), n)
	assert.Equal(t, "a message", sb.String())
}

type failingWriter struct{}

func (fw *failingWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("writer gave up")
}
