package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/unirent/unirent/internal/client/client"
	"github.com/unirent/unirent/internal/client/config"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/client/repositories/reservations"
	"github.com/unirent/unirent/internal/client/services"
	"github.com/unirent/unirent/internal/logging"

	_ "modernc.org/sqlite"
)

// Mode is the store the session currently works against.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config       *config.Config
	log          logging.Logger
	clock        clockwork.Clock
	db           *sql.DB
	session      *client.Session
	apiClient    client.Client
	authService  services.AuthService
	catalog      services.CatalogService
	reservations services.ReservationService
	user         *models.User
	userName     string
	Mode         Mode
	reader       *bufio.Reader
	out          io.Writer
}

// NewApp opens the local database and wires the backend client and the
// services. The reservation store is chosen later, at login.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	clock := clockwork.NewRealClock()
	session := client.NewSession()

	a := &App{
		config:  c,
		log:     log,
		clock:   clock,
		db:      db,
		session: session,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	apiClient, err := client.NewRESTClient(c.ServerURL, session,
		client.WithTimeout(c.RequestTimeout),
		client.WithPageSize(c.PageSize),
		client.WithClock(clock),
		client.WithLogger(log.With("component", "rest")),
		client.WithOnRejected(a.forgetRejected),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a.apiClient = apiClient
	a.authService = services.NewAuthService(apiClient, session, db, log)
	return a, nil
}

// forgetRejected drops saved credentials the backend no longer accepts, so
// they cannot be used for an offline login or restored at the next start.
func (a *App) forgetRejected(ctx context.Context, token string) {
	if a.authService == nil {
		return
	}
	if err := a.authService.ForgetRejected(ctx, token); err != nil {
		a.log.Warn(ctx, "failed to forget rejected credentials", "error", err)
	}
}

// setMode switches the active store. Services are rebuilt on every call so
// they pick up the current user.
func (a *App) setMode(mode Mode) {
	switch mode {
	case ModeOnline:
		a.catalog = services.NewCatalogService(a.apiClient, a.db, a.log)
		a.reservations = services.NewReservationService(a.apiClient, a.clock, a.log, services.WithOwner(a.user))
	case ModeOffline:
		store := reservations.NewLocalStore(a.db, a.clock, a.log.With("component", "local-store"))
		a.catalog = services.NewCatalogService(nil, a.db, a.log)
		a.reservations = services.NewReservationService(store, a.clock, a.log, services.WithOwner(a.user))
	}

	if a.Mode != mode {
		a.Mode = mode
		a.log.Info(context.Background(), "mode changed", "mode", mode)
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close releases the backend client and the database.
func (a *App) Close(ctx context.Context) {
	if a.authService != nil {
		_ = a.authService.Close(ctx)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}
