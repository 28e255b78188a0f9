package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/unirent/unirent/internal/client/client"
)

// Devices searches the catalog; all args form the free-text query.
func (a *App) Devices(ctx context.Context, args []string) error {
	q := client.DeviceQuery{Q: strings.Join(args, " ")}

	list, err := a.catalog.Search(ctx, q)
	if err != nil {
		fmt.Fprintf(a.out, "Device search failed: %s\n", describeErr(err))
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No devices found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tLOCATION\tSTATUS")
	for _, d := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Type, d.Location, d.Status)
	}
	return tw.Flush()
}
