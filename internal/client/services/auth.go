// Package services contains application services for the UniRent client.
// This file defines the authentication service: Basic-credential login
// against the backend, restoring a persisted session, logout and the
// liveness probe used to pick online or offline mode.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/unirent/unirent/internal/client/client"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/client/repositories/kv"
	"github.com/unirent/unirent/internal/common"
	"github.com/unirent/unirent/internal/dbx"
	"github.com/unirent/unirent/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: install credentials in the session, confirm them with the
//     backend and persist the token and the user.
//   - OfflineLogin: check credentials against the persisted token.
//   - Restore: reload a persisted token and confirm it.
//   - Logout: forget the session and the persisted token.
//   - ForgetRejected: drop the persisted token if the backend rejected it.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	OfflineLogin(ctx context.Context, username, password string) (*models.User, error)
	Restore(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	ForgetRejected(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session *client.Session
	db      *sql.DB
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the API client, the
// session it sends and the local DB holding the persisted token.
func NewAuthService(c client.Client, session *client.Session, db *sql.DB, log logging.Logger) AuthService {
	return &authService{client: c, session: session, db: db, log: log}
}

func (a *authService) getKVRepo() kv.Repository {
	return kv.NewSQLiteRepository(a.db)
}

// Login returns the backend's view of the user. client.ErrUnavailable is
// kept in the chain so callers can fall back to offline mode; on any
// failure the session is left empty.
func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.NewValidationError("username is required")
	}

	a.session.SetBasic(username, password)

	user, err := a.client.Me(ctx)
	if err != nil {
		a.session.Clear()
		return nil, fmt.Errorf("login error: %w", err)
	}

	if err := a.saveOfflineData(ctx, a.session.Token(), user); err != nil {
		return nil, fmt.Errorf("saving credentials error: %w", err)
	}

	a.log.Info(ctx, "logged in", "user", user.Username, "role", user.Role)
	return user, nil
}

// saveOfflineData persists the token and the user in one transaction.
func (a *authService) saveOfflineData(ctx context.Context, token string, user *models.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AuthStorageKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.AuthUserStorageKey, rawUser)
	})
}

// OfflineLogin verifies credentials against the token saved by the last
// successful online login and returns the saved user. Without saved data it
// returns client.ErrLocalDataNotAvailable; a mismatch is
// client.ErrUnauthorized. The session is not touched.
func (a *authService) OfflineLogin(ctx context.Context, username, password string) (*models.User, error) {
	repo := a.getKVRepo()

	saved, err := repo.Get(ctx, common.AuthStorageKey)
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return nil, client.ErrLocalDataNotAvailable
	}

	candidate := client.BasicToken(strings.TrimSpace(username), password)
	if subtle.ConstantTimeCompare(saved, []byte(candidate)) == 0 {
		return nil, client.ErrUnauthorized
	}

	user := &models.User{Username: strings.TrimSpace(username)}
	rawUser, err := repo.Get(ctx, common.AuthUserStorageKey)
	if err != nil {
		return nil, err
	}
	if len(rawUser) > 0 {
		if err := json.Unmarshal(rawUser, user); err != nil {
			a.log.Warn(ctx, "saved user is unreadable", "error", err)
		}
	}
	return user, nil
}

// Restore returns client.ErrLocalDataNotAvailable when nothing is persisted.
// A token the backend rejects is forgotten.
func (a *authService) Restore(ctx context.Context) (*models.User, error) {
	repo := a.getKVRepo()

	token, err := repo.Get(ctx, common.AuthStorageKey)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, client.ErrLocalDataNotAvailable
	}

	a.session.SetToken(string(token))

	user, err := a.client.Me(ctx)
	if err != nil {
		if common.IsCredentialsRejected(err) {
			a.session.Clear()
			if derr := a.clearOfflineData(ctx); derr != nil {
				a.log.Warn(ctx, "failed to drop rejected credentials", "error", derr)
			}
		}
		return nil, fmt.Errorf("restore session error: %w", err)
	}
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.session.Clear()
	return a.clearOfflineData(ctx)
}

// ForgetRejected removes the persisted credentials when they are the ones
// the backend just answered 401 to. A different saved token is kept, so a
// mistyped password cannot wipe another login's offline data.
func (a *authService) ForgetRejected(ctx context.Context, token string) error {
	saved, err := a.getKVRepo().Get(ctx, common.AuthStorageKey)
	if err != nil {
		return err
	}
	if len(saved) == 0 || subtle.ConstantTimeCompare(saved, []byte(token)) == 0 {
		return nil
	}
	a.log.Warn(ctx, "saved credentials rejected by the server, forgetting them")
	return a.clearOfflineData(ctx)
}

// clearOfflineData wipes the persisted token and user.
func (a *authService) clearOfflineData(ctx context.Context) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.AuthStorageKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.AuthUserStorageKey)
	})
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
