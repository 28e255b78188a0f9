package services

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/unirent/unirent/internal/client/client"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/common"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func getKV(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM kv WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

func fakeClockAt(t *testing.T, s string) *clockwork.FakeClock {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return clockwork.NewFakeClockAt(d)
}

// ---- fake client ----

// fakeClient implements client.Client and keeps reservations in memory,
// the way the backend would.
type fakeClient struct {
	CloseErr error
	PingErr  error

	MeRet *models.User
	MeErr error

	Devices   []models.Device
	SearchErr error
	GetErr    error

	Reservations []models.Reservation
	ListErr      error
	CreateErr    error
	CancelErr    error

	LastQuery  client.DeviceQuery
	LastCreate *models.NewReservationInput
	Calls      int
	nextID     int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.Calls++
	return f.MeRet, f.MeErr
}

func (f *fakeClient) SearchDevices(ctx context.Context, q client.DeviceQuery) (*client.Page[models.Device], error) {
	f.Calls++
	f.LastQuery = q
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return &client.Page[models.Device]{Content: f.Devices, TotalElements: int64(len(f.Devices)), TotalPages: 1}, nil
}

func (f *fakeClient) GetDevice(ctx context.Context, id int64) (*models.Device, error) {
	f.Calls++
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	for _, d := range f.Devices {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) List(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error) {
	f.Calls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := []models.Reservation{}
	for _, r := range f.Reservations {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeClient) Create(ctx context.Context, in models.NewReservationInput) (*models.Reservation, error) {
	f.Calls++
	f.LastCreate = &in
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.nextID++
	r := models.Reservation{
		ID:            strconv.Itoa(f.nextID),
		EquipmentID:   in.Device.ID,
		EquipmentName: in.Device.Name,
		DateFrom:      in.DateFrom,
		DateTo:        in.DateTo,
		CreatedAt:     time.Now().UTC(),
		Status:        models.StatusActive,
	}
	f.Reservations = append(f.Reservations, r)
	return &r, nil
}

func (f *fakeClient) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	f.Calls++
	if f.CancelErr != nil {
		return nil, f.CancelErr
	}
	for i := range f.Reservations {
		if f.Reservations[i].ID == id {
			f.Reservations[i].Status = models.StatusCancelled
			r := f.Reservations[i]
			return &r, nil
		}
	}
	return nil, common.ErrNotFound
}
