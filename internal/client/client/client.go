package client

import (
	"context"

	"github.com/unirent/unirent/internal/client/models"
)

// Client is the backend API as seen by the services. Reservation methods
// mirror the local store so the lifecycle controller can use either.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	SearchDevices(ctx context.Context, q DeviceQuery) (*Page[models.Device], error)
	GetDevice(ctx context.Context, id int64) (*models.Device, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error)
	Create(ctx context.Context, in models.NewReservationInput) (*models.Reservation, error)
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
}

// DeviceQuery holds the catalog search parameters. Zero values are omitted.
type DeviceQuery struct {
	Q        string
	Type     string
	Status   string
	Location string
	Page     int
	Size     int
}

// Page is one page of a paginated backend listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}
