package cli

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermPrompter_PipedInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.WriteString("  manh.khong@example.com \n  pass word  \r\nlast")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out bytes.Buffer
	p := NewTermPrompter(r, &out)

	email, err := p.ReadLine("Email: ")
	require.NoError(t, err)
	assert.Equal(t, "manh.khong@example.com", email)

	secret, err := p.ReadSecret("Mật khẩu: ")
	require.NoError(t, err)
	assert.Equal(t, "  pass word  ", secret)

	last, err := p.ReadSecret("Mật khẩu mới: ")
	require.NoError(t, err)
	assert.Equal(t, "last", last)

	_, err = p.ReadLine("Email: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "Email: Mật khẩu: Mật khẩu mới: Email: ", out.String())
}
