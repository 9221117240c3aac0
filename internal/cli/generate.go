package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GuitarSoul/putty-sessions/internal/config"
	"github.com/GuitarSoul/putty-sessions/internal/generator"
	"github.com/GuitarSoul/putty-sessions/internal/hostlist"
	"github.com/GuitarSoul/putty-sessions/internal/importer"
	"github.com/GuitarSoul/putty-sessions/internal/manifest"
	"github.com/GuitarSoul/putty-sessions/internal/ui"
)

type generateOptions struct {
	hosts       string
	template    string
	report      string
	skipInvalid bool
	pick        bool
	doImport    bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write one session file per host-list entry",
		Long: `Write one session file per host-list entry.

Malformed host-list lines abort the run before anything is written, and every
offending line is reported. With --skip-invalid they are logged and skipped
instead. The first write failure stops the run.

Without --template the builtin template of --format is used (putty,
securecrt or xshell); its placeholders are %NAME%, %ADDR% and %USER%, the
latter filled from --username. With --report the raw text of skipped lines
is written to a file that can be fixed and fed back as a host list.`,
		Example: `  putty-sessions generate --hosts puttyhosts.txt --template session.reg --outdir sessions
  putty-sessions generate --hosts puttyhosts.txt --format securecrt --username netops
  putty-sessions generate --hosts puttyhosts.txt --skip-invalid --report skipped.txt
  putty-sessions generate --hosts puttyhosts.txt --pick --import`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.hosts, "hosts", "", "host list, one name,address per line")
	flags.StringVar(&opts.template, "template", "", "template file (default builtin template of --format)")
	flags.String("format", "", "builtin session format: putty, securecrt or xshell (default from config)")
	flags.String("username", "", "SSH username for the user placeholder (default from config)")
	flags.String("outdir", "", "output directory (default from config)")
	flags.String("ext", "", "output file extension (default from config)")
	flags.String("name-placeholder", "", "session name token in the template (default from config)")
	flags.String("address-placeholder", "", "address token in the template (default from config)")
	flags.String("user-placeholder", "", "username token in the template (default from config)")
	flags.Int("workers", 0, "parallel file writes (default from config)")
	flags.BoolVar(&opts.skipInvalid, "skip-invalid", false, "skip malformed lines instead of aborting")
	flags.StringVar(&opts.report, "report", "", "write the skipped lines to this file")
	flags.BoolVar(&opts.pick, "pick", false, "choose hosts interactively before generating")
	flags.BoolVar(&opts.doImport, "import", false, "run the registry import command on every generated file")
	_ = cmd.MarkFlagRequired("hosts")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	cfg, err := config.Load(root.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	format, err := cfg.SessionFormat()
	if err != nil {
		return err
	}
	if opts.doImport && !format.Importable {
		return fmt.Errorf("--import needs registry files, but format %s is not importable", format.Name)
	}

	m := manifest.Open(cfg.Output.Dir)
	gen := generator.New(root.log, m)

	genOpts := generator.Options{
		HostsPath:          opts.hosts,
		TemplatePath:       opts.template,
		Format:             format.Name,
		OutDir:             cfg.Output.Dir,
		Ext:                cfg.FileExt(),
		NamePlaceholder:    cfg.Placeholders.Name,
		AddressPlaceholder: cfg.Placeholders.Address,
		UserPlaceholder:    cfg.Placeholders.User,
		Username:           cfg.Username,
		Reserved:           []string{manifest.FileName},
		SkipInvalid:        opts.skipInvalid,
		Workers:            cfg.Workers,
	}
	if opts.pick {
		genOpts.Select = ui.HostSelector(cfg.FileExt())
	}

	result, genErr := gen.Generate(cmd.Context(), genOpts)
	if result != nil && len(result.Files) > 0 {
		m.Prune()
		if err := m.Save(); err != nil {
			root.log.WithError(err).Warn("could not save manifest")
		}
	}
	if genErr != nil {
		return genErr
	}

	out := cmd.OutOrStdout()
	if opts.report != "" {
		if err := hostlist.WriteReportFile(opts.report, result.Skipped); err != nil {
			return fmt.Errorf("%w: writing report %s: %w", generator.ErrIO, opts.report, err)
		}
		root.log.WithField("path", opts.report).Debug("wrote skipped-lines report")
	}

	for _, f := range result.Files {
		success(out, "%s -> %s", f.Entry.Name, f.Path)
	}
	success(out, "%d session file(s) written to %s", len(result.Files), cfg.Output.Dir)
	if len(result.Skipped) > 0 {
		notice(out, "%d malformed line(s) skipped", len(result.Skipped))
		if opts.report != "" {
			notice(out, "skipped lines saved to %s", opts.report)
		}
	}

	if !opts.doImport || len(result.Files) == 0 {
		return nil
	}

	paths := make([]string, len(result.Files))
	for i, f := range result.Files {
		paths[i] = f.Path
	}

	imp := importer.New(cfg.ImportCommand, nil, root.log)
	outcomes := imp.Import(cmd.Context(), paths)

	var ok int
	for _, o := range outcomes {
		if o.Err == nil {
			ok++
		}
	}
	if ok < len(outcomes) {
		notice(out, "%d of %d session file(s) imported", ok, len(outcomes))
		return nil
	}
	success(out, "%d session file(s) imported", ok)
	return nil
}
