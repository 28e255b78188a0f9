package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/unirent/unirent/internal/client/models"
	"github.com/unirent/unirent/internal/client/services"
	"github.com/unirent/unirent/internal/common"
)

// arg returns args[i], or prompts for it when absent.
func (a *App) arg(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// Reserve books a device: reserve <deviceId> <dateFrom> <dateTo>.
// Missing arguments are prompted for.
func (a *App) Reserve(ctx context.Context, args []string) error {
	rawID, err := a.arg(args, 0, "Device id")
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(a.out, "Invalid device id %q\n", rawID)
		return common.NewValidationError("invalid device id %q", rawID)
	}

	from, err := a.arg(args, 1, "Start date (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	to, err := a.arg(args, 2, "End date (YYYY-MM-DD)")
	if err != nil {
		return err
	}

	device, err := a.catalog.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) || a.Mode != ModeOffline {
			fmt.Fprintf(a.out, "Cannot reserve device %d: %s\n", id, describeErr(err))
			return err
		}
		// Unknown offline: keep a bare snapshot.
		device = &models.Device{ID: id, Name: fmt.Sprintf("Device #%d", id)}
	}

	r, err := a.reservations.Reserve(ctx, *device, from, to)
	if err != nil {
		fmt.Fprintf(a.out, "Reservation failed: %s\n", describeErr(err))
		return err
	}

	fmt.Fprintf(a.out, "Reserved %s from %s to %s (id %s)\n",
		r.EquipmentName, formatDate(r.DateFrom), formatDate(r.DateTo), r.ID)
	return nil
}

// List prints the user's reservations: list [status]. The status filter
// applies to the derived status.
func (a *App) List(ctx context.Context, args []string) error {
	var want models.Status
	if len(args) > 0 {
		st, err := models.ParseStatus(args[0])
		if err != nil {
			fmt.Fprintln(a.out, "Usage: list [scheduled|active|completed|cancelled]")
			return common.NewValidationError("%v", err)
		}
		want = st
	}

	list, err := a.reservations.ListForCurrentUser(ctx, models.ListFilter{})
	if err != nil {
		fmt.Fprintf(a.out, "Cannot load reservations: %s\n", describeErr(err))
		return err
	}

	views := a.reservations.View(list)
	shown := make([]services.ReservationView, 0, len(views))
	for _, v := range views {
		if want == "" || v.Derived == want {
			shown = append(shown, v)
		}
	}
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No reservations")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDEVICE\tFROM\tTO\tSTATUS\tACTIONS")
	for _, v := range shown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.EquipmentName, formatDate(v.DateFrom), formatDate(v.DateTo), v.Derived, a.actions(v.Derived))
	}
	return tw.Flush()
}

// actions lists what the user may do with a reservation in status st.
func (a *App) actions(st models.Status) string {
	var out []string
	if models.CanCancel(st) {
		out = append(out, "cancel")
	}
	if models.CanComplete(st) && a.reservations.CanComplete() {
		out = append(out, "return")
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}

// Cancel cancels a reservation: cancel <id>.
func (a *App) Cancel(ctx context.Context, args []string) error {
	id, err := a.arg(args, 0, "Reservation id")
	if err != nil {
		return err
	}

	r, err := a.reservations.Cancel(ctx, id)
	if err != nil {
		fmt.Fprintf(a.out, "Cancel failed: %s\n", describeErr(err))
		return err
	}
	fmt.Fprintf(a.out, "Reservation %s is %s\n", r.ID, r.Status)
	return nil
}

// Return marks a reservation returned: return <id> [notes...]. Only the
// local store supports it.
func (a *App) Return(ctx context.Context, args []string) error {
	if !a.reservations.CanComplete() {
		fmt.Fprintln(a.out, "Returns are handled by staff in online mode")
		return common.ErrUnsupported
	}

	id, err := a.arg(args, 0, "Reservation id")
	if err != nil {
		return err
	}

	var notes string
	if len(args) > 1 {
		notes = strings.Join(args[1:], " ")
	} else if notes, err = getSimpleText(a.reader, "Return notes (optional)", a.out); err != nil {
		return err
	}

	r, err := a.reservations.Complete(ctx, id, notes)
	if err != nil {
		fmt.Fprintf(a.out, "Return failed: %s\n", describeErr(err))
		return err
	}
	fmt.Fprintf(a.out, "Reservation %s is %s\n", r.ID, r.Status)
	return nil
}

func formatDate(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format("2006-01-02 15:04")
}

// describeErr renders err for the user.
func describeErr(err error) string {
	var verr *common.ValidationError
	var rerr *common.RemoteError
	switch {
	case errors.As(err, &verr):
		return verr.Reason
	case errors.Is(err, common.ErrUnsupported):
		return "not supported in this mode"
	case errors.As(err, &rerr) && rerr.Message != "":
		return rerr.Message
	case errors.Is(err, common.ErrNotFound):
		return "not found"
	case errors.Is(err, common.ErrUnauthorized):
		return "not authorized, please log in again"
	case errors.Is(err, common.ErrUnavailable):
		return "server unavailable"
	default:
		return err.Error()
	}
}
