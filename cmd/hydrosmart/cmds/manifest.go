package cmds

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/manifest"
	"github.com/hydrosmart/reporter/internal/types"
)

var (
	manifestOutput string
	manifestFrom   string
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write the installable web app manifest",
	// needs no config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		m := manifest.Default()
		if manifestFrom != "" {
			in, err := os.Open(manifestFrom)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", manifestFrom, err)
			}
			m, err = manifest.Load(in)
			_ = in.Close()
			if err != nil {
				// only unexpected errors are printed by main
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return clierrors.ExitErrorWrap(types.ExitValidation, err)
			}
		}

		if manifestOutput == "" {
			return m.Write(cmd.OutOrStdout())
		}

		f, err := os.Create(manifestOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", manifestOutput, err)
		}
		if err := m.Write(f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	},
}

func init() {
	manifestCmd.Flags().StringVarP(&manifestOutput, "output", "o", "", "file to write instead of stdout")
	manifestCmd.Flags().StringVar(&manifestFrom, "from", "", "manifest JSON to check and rewrite instead of the default")

	rootCmd.AddCommand(manifestCmd)
}
