package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("hello world\n"))

	got, err := GetSimpleText(reader, "Say something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Say something\n> ", out.String())
}

func TestGetSimpleTextTrimsSpaces(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  padded  \n"))

	got, err := GetSimpleText(reader, "p", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "padded", got)
}

func TestGetSimpleTextPartialLineAtEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "p", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetSimpleTextEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "p", io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetTextWithDefault(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("\n"))

	got, err := GetTextWithDefault(reader, "Name", "Night", &out)
	require.NoError(t, err)
	assert.Equal(t, "Night", got)
	assert.Contains(t, out.String(), "Name [Night]")
}

func TestGetTextWithDefaultOverridden(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("Morning\n"))

	got, err := GetTextWithDefault(reader, "Name", "Night", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "Morning", got)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password: ")
}
