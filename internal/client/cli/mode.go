package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/unirent/unirent/internal/client/config"
	"github.com/unirent/unirent/internal/common"
)

// SwitchMode prints the active mode, or switches to the one named in args.
// Going online needs a reachable backend and valid credentials in the
// session; an offline login has none, so the user must log in again.
func (a *App) SwitchMode(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Current mode: %s\n", a.Mode)
		return nil
	}

	switch Mode(strings.ToLower(args[0])) {
	case ModeOffline:
		if a.Mode == ModeOffline {
			fmt.Fprintln(a.out, "Already offline")
			return nil
		}
		a.setMode(ModeOffline)
		return nil

	case ModeOnline:
		if a.Mode == ModeOnline {
			fmt.Fprintln(a.out, "Already online")
			return nil
		}
		if a.config.Mode == config.ModeOffline {
			fmt.Fprintln(a.out, "Online mode is disabled by configuration")
			return common.ErrUnsupported
		}
		if err := a.authService.Ping(ctx); err != nil {
			fmt.Fprintf(a.out, "Cannot go online: %s\n", describeErr(err))
			return err
		}
		if !a.session.IsAuthenticated() {
			fmt.Fprintln(a.out, "Cannot go online: please log out and log in again while the server is reachable")
			return common.ErrUnauthorized
		}
		user, err := a.apiClient.Me(ctx)
		if err != nil {
			fmt.Fprintf(a.out, "Cannot go online: %s\n", describeErr(err))
			return err
		}
		a.user = user
		a.userName = user.Username
		a.setMode(ModeOnline)
		return nil

	default:
		fmt.Fprintln(a.out, "Usage: mode [online|offline]")
		return common.NewValidationError("unknown mode %q", args[0])
	}
}
