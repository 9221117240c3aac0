package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GuitarSoul/putty-sessions/internal/config"
	"github.com/GuitarSoul/putty-sessions/internal/generator"
	"github.com/GuitarSoul/putty-sessions/internal/hostlist"
	"github.com/GuitarSoul/putty-sessions/internal/manifest"
	"github.com/GuitarSoul/putty-sessions/internal/sessionfile"
)

type listOptions struct {
	hosts  string
	output string
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the parsed host list and the file each entry maps to",
		Long: `Print the parsed host list and the file each entry maps to.

The GENERATED column shows when the file was last written into --outdir by
generate, or "-" if it never was.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.hosts, "hosts", "", "host list, one name,address per line")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "output format: table or yaml")
	cmd.Flags().String("outdir", "", "output directory to check for generated files (default from config)")
	cmd.Flags().String("ext", "", "output file extension (default from config)")
	cmd.Flags().String("format", "", "builtin session format, sets the default extension (default from config)")
	_ = cmd.MarkFlagRequired("hosts")

	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	if opts.output != "table" && opts.output != "yaml" {
		return fmt.Errorf("invalid --output %q: must be table or yaml", opts.output)
	}

	cfg, err := config.Load(root.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	entries, bad, err := hostlist.ParseFile(opts.hosts)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: host list %s", generator.ErrNotFound, opts.hosts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output == "yaml" {
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	} else {
		m := manifest.Open(cfg.Output.Dir)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "LINE\tNAME\tADDRESS\tFILE\tGENERATED")
		for _, e := range entries {
			file, generated := "(invalid)", "-"
			if name, err := sessionfile.FileName(e.Name, cfg.FileExt()); err == nil {
				file = name
				if rec, ok := m.Get(filepath.Join(cfg.Output.Dir, name)); ok {
					generated = rec.ModTime.Format(time.DateTime)
				}
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.Line, e.Name, e.Address, file, generated)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(bad) > 0 {
		for _, perr := range bad {
			root.log.WithField("line", perr.Line).Warn(perr.Error())
		}
		return fmt.Errorf("%w: %d malformed line(s)", generator.ErrParse, len(bad))
	}
	return nil
}
