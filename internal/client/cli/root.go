package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, resumes a saved session or asks for a login, and
// runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to UniRent (type 'help' for commands)")

	if !a.restore(ctx) {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
