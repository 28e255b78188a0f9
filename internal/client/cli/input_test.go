package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, tty bool, pw []byte, err error) {
	t.Helper()
	origRead, origTTY := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return pw, err }
	isTerminal = func(int) bool { return tty }
	t.Cleanup(func() {
		readPassword = origRead
		isTerminal = origTTY
	})
}

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  hello world \r\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Name: " {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}

	_, err = GetSimpleText(in, "Name", &out)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF on exhausted input, got %v", err)
	}
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("s3cret"), nil)

	var out bytes.Buffer
	pw, err := GetPassword(bufio.NewReader(strings.NewReader("ignored\n")), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestGetPassword_PipedInput(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	var out bytes.Buffer
	pw, err := GetPassword(bufio.NewReader(strings.NewReader("piped\n")), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("piped"), pw)
}

func TestGetPassword_Error(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	_, err := GetPassword(bufio.NewReader(strings.NewReader("")), &out)
	if err == nil {
		t.Fatal("expected error")
	}
}
