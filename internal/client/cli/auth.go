package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/unirent/unirent/internal/client/client"
	"github.com/unirent/unirent/internal/client/config"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and picks the store.
//
// With mode online or auto the backend is asked first. When it is
// unreachable and mode is auto, the credentials are checked against the
// ones saved by the last online login and the app continues offline. With
// mode offline the backend is never contacted; if nothing was saved yet the
// user is let in as a local demo user.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	var (
		user *models.User
		mode Mode
	)

	if a.config.Mode == config.ModeOffline {
		user, err = a.offlineLogin(ctx, userName, string(password))
		mode = ModeOffline
	} else {
		user, err = a.authService.Login(ctx, userName, string(password))
		mode = ModeOnline
		if errors.Is(err, client.ErrUnavailable) && a.config.Mode == config.ModeAuto {
			fmt.Fprintln(a.out, "Server unavailable, trying offline login...")
			user, err = a.offlineLogin(ctx, userName, string(password))
			mode = ModeOffline
		}
	}

	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %s\n", describeErr(err))
		return err
	}

	a.user = user
	a.userName = user.Username
	fmt.Fprintf(a.out, "Logged in as %s\n", user.Username)
	a.setMode(mode)
	return nil
}

func (a *App) offlineLogin(ctx context.Context, userName, password string) (*models.User, error) {
	user, err := a.authService.OfflineLogin(ctx, userName, password)
	if errors.Is(err, client.ErrLocalDataNotAvailable) {
		a.log.Warn(ctx, "no saved credentials, continuing as local user", "user", userName)
		return &models.User{Username: userName}, nil
	}
	return user, err
}

// Logout forgets the session and the saved credentials.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %s\n", describeErr(err))
		return err
	}
	a.user = nil
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// restore resumes a session saved by an earlier online login.
func (a *App) restore(ctx context.Context) bool {
	if a.config.Mode == config.ModeOffline {
		return false
	}
	user, err := a.authService.Restore(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrLocalDataNotAvailable) {
			a.log.Debug(ctx, "session not restored", "error", err)
		}
		return false
	}
	a.user = user
	a.userName = user.Username
	fmt.Fprintf(a.out, "Welcome back, %s\n", user.Username)
	a.setMode(ModeOnline)
	return true
}
