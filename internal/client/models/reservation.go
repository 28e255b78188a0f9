// Package models defines client-side data models used by the UniRent CLI:
// devices, reservations and the derived reservation status.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/unirent/unirent/internal/common"
)

// MaxReservationDuration is the longest allowed distance between DateFrom and DateTo.
const MaxReservationDuration = 14 * 24 * time.Hour

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ParseStatus accepts one of the four lifecycle names, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusScheduled, StatusActive, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

// Reservation is a booking of a device for an inclusive date range. The
// equipment fields are a display snapshot of the device.
type Reservation struct {
	ID            string    `json:"id"`
	EquipmentID   int64     `json:"equipmentId"`
	EquipmentName string    `json:"equipmentName"`
	EquipmentType string    `json:"equipmentType,omitempty"`
	SerialNumber  string    `json:"serialNumber,omitempty"`
	Location      string    `json:"location,omitempty"`
	UserID        int64     `json:"userId,omitempty"`
	UserName      string    `json:"userName,omitempty"`
	DateFrom      time.Time `json:"dateFrom"`
	DateTo        time.Time `json:"dateTo"`
	CreatedAt     time.Time `json:"createdAt"`
	Status        Status    `json:"status"`
	ReturnNotes   string    `json:"returnNotes,omitempty"`
}

// NewReservationInput is what a store needs to create a reservation.
type NewReservationInput struct {
	Device   Device
	UserID   int64
	UserName string
	DateFrom time.Time `validate:"required"`
	DateTo   time.Time `validate:"required"`
}

// ListFilter narrows a store listing. Status matches the store's
// authoritative status, not the derived one.
type ListFilter struct {
	DeviceID int64
	Status   Status
	Page     int
	Size     int
}

// Match reports whether r passes the DeviceID and Status constraints.
func (f ListFilter) Match(r Reservation) bool {
	if f.DeviceID != 0 && r.EquipmentID != f.DeviceID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// DeriveStatus maps a reservation's stored status, date range and the
// current time onto the status to display. Terminal statuses are returned
// unchanged; otherwise the position of now relative to [DateFrom, DateTo]
// decides; both bounds are inclusive instants.
func DeriveStatus(r Reservation, now time.Time) Status {
	if r.Status.IsTerminal() {
		return r.Status
	}
	switch {
	case now.Before(r.DateFrom):
		return StatusScheduled
	case !now.After(r.DateTo):
		return StatusActive
	default:
		return StatusCompleted
	}
}

// CanCancel reports whether a reservation in derived status s may be cancelled.
func CanCancel(s Status) bool {
	return s == StatusScheduled || s == StatusActive
}

// CanComplete reports whether a reservation in derived status s may be returned.
func CanComplete(s Status) bool {
	return s == StatusActive
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses an ISO 8601 date or date-time. Values without a zone are
// taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ValidateRange enforces from < to and to-from <= MaxReservationDuration.
func ValidateRange(from, to time.Time) error {
	if !to.After(from) {
		return common.NewValidationError("date range is invalid: dateTo must be after dateFrom")
	}
	if to.Sub(from) > MaxReservationDuration {
		return common.NewValidationError("reservation exceeds the maximum of %d days", int(MaxReservationDuration.Hours()/24))
	}
	return nil
}
