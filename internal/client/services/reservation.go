package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/common"
	"github.com/unirent/unirent/internal/logging"
)

// Store is the reservation storage the lifecycle controller drives. Both the
// local store and the REST client satisfy it.
type Store interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error)
	Create(ctx context.Context, in models.NewReservationInput) (*models.Reservation, error)
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
}

// Completer is the optional capability of marking a reservation returned.
type Completer interface {
	Get(ctx context.Context, id string) (*models.Reservation, error)
	Complete(ctx context.Context, id, notes string) (*models.Reservation, error)
}

// ReservationView pairs a reservation with its status at display time.
type ReservationView struct {
	models.Reservation
	Derived models.Status
}

// ReservationService validates user input and delegates to the active store.
type ReservationService interface {
	Reserve(ctx context.Context, device models.Device, dateFrom, dateTo string) (*models.Reservation, error)
	Cancel(ctx context.Context, id string) (*models.Reservation, error)
	Complete(ctx context.Context, id, notes string) (*models.Reservation, error)
	CanComplete() bool
	ListForCurrentUser(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error)
	View(list []models.Reservation) []ReservationView
}

type reservationService struct {
	store    Store
	clock    clockwork.Clock
	log      logging.Logger
	validate *validator.Validate
	userID   int64
	userName string
}

type ReservationOption func(*reservationService)

// WithOwner stamps new reservations with the given user.
func WithOwner(user *models.User) ReservationOption {
	return func(s *reservationService) {
		if user != nil {
			s.userID = user.ID
			s.userName = user.Username
		}
	}
}

func NewReservationService(store Store, clock clockwork.Clock, log logging.Logger, opts ...ReservationOption) ReservationService {
	s := &reservationService{
		store:    store,
		clock:    clock,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reserve parses both dates, checks the range and the device reference, then
// creates the reservation in the active store. Nothing is clamped.
func (s *reservationService) Reserve(ctx context.Context, device models.Device, dateFrom, dateTo string) (*models.Reservation, error) {
	from, err := models.ParseDate(dateFrom)
	if err != nil {
		return nil, common.NewValidationError("invalid dateFrom: %v", err)
	}
	to, err := models.ParseDate(dateTo)
	if err != nil {
		return nil, common.NewValidationError("invalid dateTo: %v", err)
	}
	if err := models.ValidateRange(from, to); err != nil {
		return nil, err
	}

	in := models.NewReservationInput{
		Device:   device,
		UserID:   s.userID,
		UserName: s.userName,
		DateFrom: from,
		DateTo:   to,
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, common.NewValidationError("%s", describe(err))
	}

	r, err := s.store.Create(ctx, in)
	if err != nil {
		s.log.Warn(ctx, "reserve failed", "device", device.ID, "error", err)
		return nil, err
	}
	return r, nil
}

// Cancel cancels a scheduled or active reservation. When the store can look
// the reservation up, one that has already run its course is refused;
// cancelling an already cancelled one stays a no-op.
func (s *reservationService) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, common.NewValidationError("reservation id is required")
	}

	if c, ok := s.store.(Completer); ok {
		r, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		st := models.DeriveStatus(*r, s.clock.Now())
		if st != models.StatusCancelled && !models.CanCancel(st) {
			return nil, common.NewValidationError("only a scheduled or active reservation can be cancelled, %s is %s", id, st)
		}
	}
	return s.store.Cancel(ctx, id)
}

// Complete marks an active reservation returned. Stores without the
// Completer capability yield common.ErrUnsupported without side effects.
func (s *reservationService) Complete(ctx context.Context, id, notes string) (*models.Reservation, error) {
	c, ok := s.store.(Completer)
	if !ok {
		return nil, common.ErrUnsupported
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, common.NewValidationError("reservation id is required")
	}

	r, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st := models.DeriveStatus(*r, s.clock.Now()); !models.CanComplete(st) {
		return nil, common.NewValidationError("only an active reservation can be returned, %s is %s", id, st)
	}
	return c.Complete(ctx, id, strings.TrimSpace(notes))
}

func (s *reservationService) CanComplete() bool {
	_, ok := s.store.(Completer)
	return ok
}

func (s *reservationService) ListForCurrentUser(ctx context.Context, filter models.ListFilter) ([]models.Reservation, error) {
	return s.store.List(ctx, filter)
}

// View derives every reservation's status at the clock's current time.
func (s *reservationService) View(list []models.Reservation) []ReservationView {
	now := s.clock.Now()
	out := make([]ReservationView, 0, len(list))
	for _, r := range list {
		out = append(out, ReservationView{Reservation: r, Derived: models.DeriveStatus(r, now)})
	}
	return out
}

// describe turns validator output into a short user-facing reason.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.StructNamespace() {
		case "NewReservationInput.Device.ID":
			parts = append(parts, "a device must be selected")
		default:
			parts = append(parts, fe.StructNamespace()+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, ", ")
}
