package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unirent/unirent/internal/common"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDeriveStatus_ByDateRange(t *testing.T) {
	r := Reservation{
		DateFrom: day(t, "2025-09-01"),
		DateTo:   day(t, "2025-09-05"),
		Status:   StatusScheduled,
	}

	tests := []struct {
		name string
		now  string
		want Status
	}{
		{"before range", "2025-08-31T23:59:59Z", StatusScheduled},
		{"first instant", "2025-09-01T00:00:00Z", StatusActive},
		{"middle", "2025-09-03T12:00:00Z", StatusActive},
		{"last instant", "2025-09-05T00:00:00Z", StatusActive},
		{"last day afternoon", "2025-09-05T12:00:00Z", StatusCompleted},
		{"day after", "2025-09-06T00:00:00Z", StatusCompleted},
		{"long after", "2026-01-01", StatusCompleted},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveStatus(r, day(t, tc.now)))
		})
	}
}

func TestDeriveStatus_DateTimeUpperBoundIsExact(t *testing.T) {
	r := Reservation{
		DateFrom: day(t, "2025-09-01T08:00:00Z"),
		DateTo:   day(t, "2025-09-01T16:00:00Z"),
		Status:   StatusActive,
	}

	assert.Equal(t, StatusActive, DeriveStatus(r, day(t, "2025-09-01T16:00:00Z")))
	assert.Equal(t, StatusCompleted, DeriveStatus(r, day(t, "2025-09-01T16:00:01Z")))
}

func TestDeriveStatus_TerminalIgnoresTime(t *testing.T) {
	for _, st := range []Status{StatusCancelled, StatusCompleted} {
		r := Reservation{
			DateFrom: day(t, "2025-09-01"),
			DateTo:   day(t, "2025-09-05"),
			Status:   st,
		}
		for _, now := range []string{"2020-01-01", "2025-09-03", "2030-01-01"} {
			assert.Equal(t, st, DeriveStatus(r, day(t, now)), "status %s at %s", st, now)
		}
	}
}

func TestCanCancelAndComplete(t *testing.T) {
	assert.True(t, CanCancel(StatusScheduled))
	assert.True(t, CanCancel(StatusActive))
	assert.False(t, CanCancel(StatusCancelled))
	assert.False(t, CanCancel(StatusCompleted))

	assert.True(t, CanComplete(StatusActive))
	assert.False(t, CanComplete(StatusScheduled))
	assert.False(t, CanComplete(StatusCompleted))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2025-09-01T10:15:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 8, 15, 0, 0, time.UTC), got)

	got, err = ParseDate("2025-09-01T10:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 9, 1, 10, 15, 0, 0, time.UTC), got)

	_, err = ParseDate("")
	require.Error(t, err)

	_, err = ParseDate("01/09/2025")
	require.Error(t, err)

	_, err = ParseDate("2025-02-30")
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Active ")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	_, err = ParseStatus("expired")
	require.Error(t, err)
}

func TestListFilter_Match(t *testing.T) {
	r := Reservation{EquipmentID: 42, Status: StatusScheduled}

	assert.True(t, ListFilter{}.Match(r))
	assert.True(t, ListFilter{DeviceID: 42}.Match(r))
	assert.False(t, ListFilter{DeviceID: 7}.Match(r))
	assert.True(t, ListFilter{Status: StatusScheduled}.Match(r))
	assert.False(t, ListFilter{Status: StatusCancelled}.Match(r))
}

func TestParseDeviceStatus(t *testing.T) {
	assert.Equal(t, DeviceAvailable, ParseDeviceStatus("DOSTĘPNY"))
	assert.Equal(t, DeviceLoaned, ParseDeviceStatus("borrowed"))
	assert.Equal(t, DeviceMaintenance, ParseDeviceStatus("SERWIS"))
	assert.Equal(t, DeviceLost, ParseDeviceStatus(" lost "))
	assert.Equal(t, DeviceStatus("RETIRED"), ParseDeviceStatus("retired"))
}

func TestValidateRange(t *testing.T) {
	from := day(t, "2025-09-01")

	require.NoError(t, ValidateRange(from, day(t, "2025-09-05")))
	require.NoError(t, ValidateRange(from, day(t, "2025-09-15")), "exactly 14 days is allowed")

	err := ValidateRange(from, day(t, "2025-09-20"))
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "maximum of 14 days")

	err = ValidateRange(from, day(t, "2025-09-15T00:00:01Z"))
	require.ErrorIs(t, err, common.ErrValidation)

	err = ValidateRange(from, from)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "dateTo must be after dateFrom")

	err = ValidateRange(from, day(t, "2025-08-30"))
	require.ErrorIs(t, err, common.ErrValidation)
}
