package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Devices(ctx context.Context, args []string) error
	Reserve(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	Return(ctx context.Context, args []string) error
	SwitchMode(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, help, exit"
	helpLoggedIn  = "Available commands: devices [query], reserve <deviceId> <from> <to>, list [status], " +
		"cancel <id>, return <id> [notes], mode [online|offline], logout, help, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit". The first
// token of a line is the command, the rest are its arguments. Commands other
// than login, help and exit require a logged-in user.
//
// Handler errors are not reported here; handlers print their own messages.
// reader is shared with the prompts handlers issue, so it must be the same
// one the App was built with. The prompt and REPL messages go to w.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "unirent %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}
			continue
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "login":
			_ = a.Login(ctx)
			continue
		}

		if !a.isLoggedIn() {
			if isCommand(cmd) {
				fmt.Fprintln(w, "Please log in first")
			} else {
				fmt.Fprintln(w, "Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "devices", "d":
			_ = a.Devices(ctx, args)
		case "reserve", "r":
			_ = a.Reserve(ctx, args)
		case "list", "l":
			_ = a.List(ctx, args)
		case "cancel":
			_ = a.Cancel(ctx, args)
		case "return":
			_ = a.Return(ctx, args)
		case "mode":
			_ = a.SwitchMode(ctx, args)
		case "logout":
			_ = a.Logout(ctx)
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}

func isCommand(cmd string) bool {
	switch cmd {
	case "devices", "d", "reserve", "r", "list", "l", "cancel", "return", "mode", "logout":
		return true
	}
	return false
}
