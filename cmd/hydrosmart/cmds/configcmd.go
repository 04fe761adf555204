package cmds

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/hydrosmart/reporter/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hydrosmart config file",
	// a broken config must not stop `config init` from replacing it
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
}

var (
	configInitOutput string
	configInitForce  bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file holding the defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configInitOutput == "" {
			return writeDefaultConfig(cmd.OutOrStdout())
		}

		flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
		if configInitForce {
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		}
		f, err := os.OpenFile(configInitOutput, flags, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", configInitOutput, err)
		}
		if err := writeDefaultConfig(f); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	},
}

func writeDefaultConfig(w io.Writer) error {
	out, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err = w.Write(out)
	return err
}

func init() {
	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "", "file to write instead of stdout")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
