// Package client contains the client-side building blocks that talk to the
// outside world: the backend and the local database.
//
// # Overview
//
// The package provides:
//  1. The Client interface: the backend operations used by the services
//     (Ping, Me, device look-up and the reservation List/Create/Cancel).
//  2. RESTClient, an HTTP/JSON implementation against the /api endpoints.
//     It sends the Basic credentials held by a Session, maps the backend's
//     Polish reservation statuses onto the client lifecycle and turns
//     non-2xx answers into *common.RemoteError.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Conditions are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrLocalDataNotAvailable, and
// common.ErrNotFound for unknown resources.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  RESTClient, Session
//   - DB helpers: InitDatabase, RunMigrations
package client
