package cmds

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hydrosmart/reporter/internal/audit"
	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/types"
)

var locateJSON bool

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Fetch the current location once and print it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := newDeps(locationFlags{})
		if err != nil {
			return clierrors.ExitErrorWrap(types.ExitErrored, err)
		}

		f := d.newForm()
		defer f.Close()
		f.Mount(cmd.Context())
		f.Wait()

		return reportLocation(f.Snapshot(), locateJSON, cmd.OutOrStdout())
	},
}

func init() {
	locateCmd.Flags().BoolVar(&locateJSON, "json", false, "print a JSON outcome event instead of text")

	rootCmd.AddCommand(locateCmd)
}

func reportLocation(snap form.Snapshot, json bool, out io.Writer) error {
	if snap.Location == nil {
		if json {
			audit.LogLocationFailed(audit.NewContext(), snap.Status.Message)
		} else {
			fmt.Fprintln(out, bannerLine(snap.Status))
		}
		return clierrors.ExitErrorWrap(types.ExitNetwork, errors.New(snap.Status.Message))
	}

	if json {
		audit.LogLocationCaptured(audit.NewContext(), *snap.Location, snap.Status.Message)
	} else {
		renderLocation(out, snap.Location)
	}
	return nil
}
