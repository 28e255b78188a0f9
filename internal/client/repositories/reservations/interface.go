package reservations

import (
	"context"

	"github.com/unirent/unirent/internal/client/models"
)

// Repository describes the operations of a client-local reservation store.
type Repository interface {
	// List returns stored reservations matching filter, in insertion order.
	List(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error)

	// Get returns a reservation by id or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Reservation, error)

	// Create validates the range, assigns an id and appends a scheduled reservation.
	Create(ctx context.Context, in models.NewReservationInput) (*models.Reservation, error)

	// Cancel marks a reservation cancelled. Cancelling twice is a no-op.
	Cancel(ctx context.Context, id string) (*models.Reservation, error)

	// Complete marks a reservation completed and records the return notes.
	Complete(ctx context.Context, id, notes string) (*models.Reservation, error)

	// Remove deletes a reservation outright.
	Remove(ctx context.Context, id string) error

	// Clear drops the whole collection.
	Clear(ctx context.Context) error
}
