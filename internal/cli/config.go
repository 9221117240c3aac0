package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GuitarSoul/putty-sessions/internal/config"
)

func configPathHint() string {
	return config.Path()
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration.

Settings come from the config file, then ` + config.EnvPrefix + `_* environment
variables (e.g. ` + config.EnvPrefix + `_OUTPUT_DIR), then command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath, nil)
			if err != nil {
				return err
			}

			path := root.configPath
			if path == "" {
				path = config.Path()
			}

			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, data)
			return err
		},
	}
}
