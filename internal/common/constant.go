// Package common contains shared constants and sentinel errors used across
// UniRent client components.
package common

// AuthorizationHeaderName is the HTTP header carrying Basic credentials on
// outbound requests.
const AuthorizationHeaderName = "Authorization"

// Namespaced keys of the client-local key-value storage.
const (
	ReservationsStorageKey = "unirent_reservations_v1"
	DevicesStorageKey      = "unirent_devices_v1"
	AuthStorageKey         = "auth.basic"
	AuthUserStorageKey     = "auth.user"
)
