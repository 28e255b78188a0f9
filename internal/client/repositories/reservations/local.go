package reservations

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/client/repositories/kv"
	"github.com/unirent/unirent/internal/common"
	"github.com/unirent/unirent/internal/dbx"
	"github.com/unirent/unirent/internal/logging"
)

const idPrefix = "res_"

// LocalStore keeps reservations as a JSON array in the kv table.
type LocalStore struct {
	db    *sql.DB
	key   string
	clock clockwork.Clock
	log   logging.Logger
}

var _ Repository = (*LocalStore)(nil)

func NewLocalStore(db *sql.DB, clock clockwork.Clock, log logging.Logger) *LocalStore {
	return &LocalStore{
		db:    db,
		key:   common.ReservationsStorageKey,
		clock: clock,
		log:   log,
	}
}

// load reads the collection through repo. Missing or corrupt data yields an
// empty slice; only I/O errors are returned.
func (s *LocalStore) load(ctx context.Context, repo kv.Repository) ([]models.Reservation, error) {
	raw, err := repo.Get(ctx, s.key)
	if err != nil {
		return nil, errors.Wrap(err, "load reservations")
	}
	if len(raw) == 0 {
		return []models.Reservation{}, nil
	}

	var list []models.Reservation
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn(ctx, "stored reservations are unreadable, treating as empty", "key", s.key, "error", err)
		return []models.Reservation{}, nil
	}
	if list == nil {
		list = []models.Reservation{}
	}
	return list, nil
}

func (s *LocalStore) save(ctx context.Context, repo kv.Repository, list []models.Reservation) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "encode reservations")
	}
	if err := repo.Set(ctx, s.key, raw); err != nil {
		return errors.Wrap(err, "save reservations")
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error) {
	list, err := s.load(ctx, kv.NewSQLiteRepository(s.db))
	if err != nil {
		return nil, err
	}

	result := make([]models.Reservation, 0, len(list))
	for _, r := range list {
		if filter.Match(r) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *LocalStore) Get(ctx context.Context, id string) (*models.Reservation, error) {
	list, err := s.load(ctx, kv.NewSQLiteRepository(s.db))
	if err != nil {
		return nil, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return nil, errors.Wrapf(common.ErrNotFound, "reservation %s", id)
	}
	r := list[i]
	return &r, nil
}

func (s *LocalStore) Create(ctx context.Context, in models.NewReservationInput) (*models.Reservation, error) {
	if err := models.ValidateRange(in.DateFrom, in.DateTo); err != nil {
		return nil, err
	}

	r := models.Reservation{
		ID:            idPrefix + uuid.NewString(),
		EquipmentID:   in.Device.ID,
		EquipmentName: in.Device.Name,
		EquipmentType: in.Device.Type,
		SerialNumber:  in.Device.SerialNumber,
		Location:      in.Device.Location,
		UserID:        in.UserID,
		UserName:      in.UserName,
		DateFrom:      in.DateFrom.UTC(),
		DateTo:        in.DateTo.UTC(),
		CreatedAt:     s.clock.Now().UTC(),
		Status:        models.StatusScheduled,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		list, err := s.load(ctx, repo)
		if err != nil {
			return err
		}
		return s.save(ctx, repo, append(list, r))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "reservation created", "id", r.ID, "device", r.EquipmentID)
	return &r, nil
}

func (s *LocalStore) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	return s.update(ctx, id, func(r *models.Reservation) (bool, error) {
		switch r.Status {
		case models.StatusCancelled:
			return false, nil
		case models.StatusCompleted:
			return false, common.NewValidationError("reservation %s is already completed", id)
		}
		r.Status = models.StatusCancelled
		return true, nil
	})
}

func (s *LocalStore) Complete(ctx context.Context, id, notes string) (*models.Reservation, error) {
	return s.update(ctx, id, func(r *models.Reservation) (bool, error) {
		switch r.Status {
		case models.StatusCompleted:
			return false, nil
		case models.StatusCancelled:
			return false, common.NewValidationError("reservation %s is cancelled", id)
		}
		r.Status = models.StatusCompleted
		r.ReturnNotes = notes
		return true, nil
	})
}

// update applies fn to the reservation with the given id inside one
// transaction. fn reports whether it changed anything; unchanged
// collections are not rewritten.
func (s *LocalStore) update(ctx context.Context, id string, fn func(r *models.Reservation) (bool, error)) (*models.Reservation, error) {
	var result models.Reservation
	var changed bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		list, err := s.load(ctx, repo)
		if err != nil {
			return err
		}

		i := indexOf(list, id)
		if i < 0 {
			return errors.Wrapf(common.ErrNotFound, "reservation %s", id)
		}

		changed, err = fn(&list[i])
		if err != nil {
			return err
		}
		result = list[i]

		if !changed {
			return nil
		}
		return s.save(ctx, repo, list)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info(ctx, "reservation updated", "id", id, "status", result.Status)
	}
	return &result, nil
}

func (s *LocalStore) Remove(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := kv.NewSQLiteRepository(tx)
		list, err := s.load(ctx, repo)
		if err != nil {
			return err
		}

		i := indexOf(list, id)
		if i < 0 {
			return errors.Wrapf(common.ErrNotFound, "reservation %s", id)
		}
		return s.save(ctx, repo, append(list[:i], list[i+1:]...))
	})
}

func (s *LocalStore) Clear(ctx context.Context) error {
	if err := kv.NewSQLiteRepository(s.db).Delete(ctx, s.key); err != nil {
		return errors.Wrap(err, "clear reservations")
	}
	return nil
}

func indexOf(list []models.Reservation, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
