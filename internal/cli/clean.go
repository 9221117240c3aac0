package cli

import (
	"github.com/spf13/cobra"

	"github.com/GuitarSoul/putty-sessions/internal/config"
	"github.com/GuitarSoul/putty-sessions/internal/manifest"
)

func newCleanCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the session files recorded by previous generate runs",
		Long: `Delete the session files recorded by previous generate runs.

Only files listed in the output directory's manifest are removed; anything
else in the directory is left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath, cmd.Flags())
			if err != nil {
				return err
			}

			removed, err := manifest.Open(cfg.Output.Dir).Clean()
			for _, path := range removed {
				root.log.WithField("path", path).Debug("removed session file")
			}
			if err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "%d session file(s) removed from %s", len(removed), cfg.Output.Dir)
			return nil
		},
	}

	cmd.Flags().String("outdir", "", "output directory (default from config)")
	return cmd
}
