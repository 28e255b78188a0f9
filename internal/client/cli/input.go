package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal seams, replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText writes "prompt: " to w and reads one line from reader with
// surrounding whitespace removed. A final line without a newline is still
// returned; io.EOF is reported only when nothing was read.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password without echo when stdin is a terminal. With
// piped input it falls back to reading a plain line from reader.
//
// The caller should wipe the returned slice.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		s, err := GetSimpleText(reader, "Password", w)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
