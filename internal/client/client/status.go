package client

import (
	"strings"

	"github.com/unirent/unirent/internal/client/models"
)

// Backend reservation statuses as serialized by the API.
const (
	backendActive    = "AKTYWNA"
	backendCancelled = "ANULOWANA"
	backendExpired   = "WYGASŁA"
	backendFulfilled = "ZREALIZOWANA"
)

// statusFromBackend maps a backend reservation status onto the client
// lifecycle. English enum names are accepted too; anything unrecognized
// is treated as scheduled.
func statusFromBackend(s string) models.Status {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case backendActive, "ACTIVE":
		return models.StatusActive
	case backendCancelled, "CANCELED", "CANCELLED":
		return models.StatusCancelled
	case backendExpired, "EXPIRED", backendFulfilled, "FULFILLED":
		return models.StatusCompleted
	default:
		return models.StatusScheduled
	}
}

// statusToBackend is used for the list filter. scheduled has no backend
// counterpart and yields "".
func statusToBackend(s models.Status) string {
	switch s {
	case models.StatusActive:
		return backendActive
	case models.StatusCancelled:
		return backendCancelled
	case models.StatusCompleted:
		return backendFulfilled
	default:
		return ""
	}
}
