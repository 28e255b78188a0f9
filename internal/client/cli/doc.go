// Package cli provides the interactive UniRent command-line client.
//
// App wires configuration, the local database, the backend client and the
// reservation services, then runs a REPL. Login decides the mode: online
// against the REST backend, or offline against the local reservation store
// when the backend is unreachable or disabled by configuration.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
