package generator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/GuitarSoul/putty-sessions/internal/hostlist"
	"github.com/GuitarSoul/putty-sessions/internal/sessionfile"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Generator turns a host list and a template into one session file per host
type Generator struct {
	log      logrus.FieldLogger
	recorder Recorder
}

// New creates a generator; recorder may be nil
func New(log logrus.FieldLogger, recorder Recorder) *Generator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Generator{log: log, recorder: recorder}
}

// Generate runs one pass over the host list
//
// Both input files are read before anything is written. Malformed lines abort
// the run with every offending line reported, unless SkipInvalid is set, in
// which case they are logged and listed in Result.Skipped. The first write
// failure stops the run; files written before it are still returned
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	opts, format, err := withDefaults(opts)
	if err != nil {
		return nil, err
	}

	entries, bad, err := hostlist.ParseFile(opts.HostsPath)
	if err != nil {
		return nil, inputError("host list", opts.HostsPath, err)
	}

	tmpl, err := g.loadTemplate(opts, format)
	if err != nil {
		return nil, err
	}

	plan, dups, err := planFiles(entries, opts)
	if err != nil {
		return nil, err
	}
	bad = append(bad, dups...)
	sortParseErrors(bad)

	result := &Result{}
	if len(bad) > 0 {
		if !opts.SkipInvalid {
			return nil, parseError(bad)
		}
		for _, perr := range bad {
			g.log.WithField("line", perr.Line).Warnf("skipping: %s", perr.Reason)
		}
		result.Skipped = bad
	}

	if opts.Select != nil && len(plan) > 0 {
		plan, err = g.selectPlan(plan, opts.Select)
		if err != nil {
			return nil, err
		}
	}

	if len(plan) == 0 {
		g.log.Info("no sessions to generate")
		return result, nil
	}

	if err := os.MkdirAll(opts.OutDir, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrIO, opts.OutDir, err)
	}

	files, err := g.writeAll(ctx, tmpl, plan, opts.Workers)
	result.Files = files
	if err != nil {
		return result, err
	}

	g.log.WithFields(logrus.Fields{
		"files":   len(result.Files),
		"skipped": len(result.Skipped),
		"outdir":  opts.OutDir,
	}).Info("session files generated")
	return result, nil
}

func withDefaults(opts Options) (Options, sessionfile.Format, error) {
	if opts.Format == "" {
		opts.Format = sessionfile.DefaultFormat
	}
	format, err := sessionfile.LookupFormat(opts.Format)
	if err != nil {
		return opts, format, err
	}

	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if opts.Ext == "" {
		opts.Ext = format.Ext
	}
	if opts.NamePlaceholder == "" {
		opts.NamePlaceholder = sessionfile.DefaultNamePlaceholder
	}
	if opts.AddressPlaceholder == "" {
		opts.AddressPlaceholder = sessionfile.DefaultAddressPlaceholder
	}
	if opts.UserPlaceholder == "" {
		opts.UserPlaceholder = sessionfile.DefaultUserPlaceholder
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	return opts, format, nil
}

func (g *Generator) loadTemplate(opts Options, format sessionfile.Format) (*sessionfile.Template, error) {
	if opts.TemplatePath == "" {
		g.log.WithField("format", format.Name).Debug("using builtin template")
		tmpl, err := sessionfile.New(format.Template,
			sessionfile.DefaultNamePlaceholder, sessionfile.DefaultAddressPlaceholder,
			sessionfile.WithUser(sessionfile.DefaultUserPlaceholder, opts.Username))
		if err != nil {
			return nil, fmt.Errorf("builtin %s template: %w", format.Name, err)
		}
		return tmpl, nil
	}

	var tmplOpts []sessionfile.Option
	if opts.Username != "" {
		tmplOpts = append(tmplOpts, sessionfile.WithUser(opts.UserPlaceholder, opts.Username))
	}
	tmpl, err := sessionfile.Load(opts.TemplatePath, opts.NamePlaceholder, opts.AddressPlaceholder, tmplOpts...)
	if err != nil {
		return nil, inputError("template", opts.TemplatePath, err)
	}

	for _, ph := range tmpl.Missing() {
		g.log.WithField("placeholder", ph).Warn("template does not contain placeholder")
	}
	return tmpl, nil
}

func inputError(what, path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, path)
	}
	return fmt.Errorf("loading %s %s: %w", what, path, err)
}

func parseError(bad []*hostlist.ParseError) error {
	errs := make([]error, len(bad))
	for i, perr := range bad {
		errs[i] = perr
	}
	return fmt.Errorf("%w: %d malformed line(s)\n%w", ErrParse, len(bad), errors.Join(errs...))
}

func sortParseErrors(bad []*hostlist.ParseError) {
	slices.SortStableFunc(bad, func(a, b *hostlist.ParseError) int {
		return cmp.Compare(a.Line, b.Line)
	})
}

// planFiles derives the output path of every entry.
// Names that map to a file already claimed by an earlier line are parse
// errors. Names that cannot become a file name, or that collide with a
// reserved file, are an I/O error
func planFiles(entries []hostlist.HostEntry, opts Options) ([]GeneratedFile, []*hostlist.ParseError, error) {
	var (
		plan []GeneratedFile
		dups []*hostlist.ParseError
	)
	claimed := make(map[string]int, len(entries))

	reserved := make(map[string]bool, len(opts.Reserved))
	for _, name := range opts.Reserved {
		reserved[strings.ToLower(name)] = true
	}

	for _, e := range entries {
		name, err := sessionfile.FileName(e.Name, opts.Ext)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: line %d: %w", ErrIO, e.Line, err)
		}

		// Windows filesystems are case-insensitive
		key := strings.ToLower(name)
		if reserved[key] {
			return nil, nil, fmt.Errorf("%w: line %d: session %q maps to reserved file %s",
				ErrIO, e.Line, e.Name, name)
		}
		if first, ok := claimed[key]; ok {
			dups = append(dups, &hostlist.ParseError{
				Line:   e.Line,
				Raw:    e.Raw,
				Reason: fmt.Sprintf("session file %s already produced by line %d", name, first),
			})
			continue
		}
		claimed[key] = e.Line

		plan = append(plan, GeneratedFile{Entry: e, Path: filepath.Join(opts.OutDir, name)})
	}
	return plan, dups, nil
}

func (g *Generator) selectPlan(plan []GeneratedFile, sel Selector) ([]GeneratedFile, error) {
	entries := make([]hostlist.HostEntry, len(plan))
	for i, f := range plan {
		entries[i] = f.Entry
	}

	chosen, err := sel(entries)
	if err != nil {
		return nil, fmt.Errorf("selecting hosts: %w", err)
	}

	keep := make(map[int]bool, len(chosen))
	for _, e := range chosen {
		keep[e.Line] = true
	}

	var out []GeneratedFile
	for _, f := range plan {
		if keep[f.Entry.Line] {
			out = append(out, f)
		}
	}
	g.log.WithField("selected", len(out)).Debug("hosts selected")
	return out, nil
}

// writeAll renders and writes every planned file using up to workers goroutines.
// The returned files keep plan order and only include files that were written
func (g *Generator) writeAll(ctx context.Context, tmpl *sessionfile.Template, plan []GeneratedFile, workers int) ([]GeneratedFile, error) {
	written := make([]bool, len(plan))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, f := range plan {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content := tmpl.Render(f.Entry.Name, f.Entry.Address)
			if err := os.WriteFile(f.Path, []byte(content), filePerm); err != nil {
				return fmt.Errorf("%w: line %d: %w", ErrIO, f.Entry.Line, err)
			}

			written[i] = true
			if g.recorder != nil {
				g.recorder.Record(f)
			}
			g.log.WithFields(logrus.Fields{
				"name":    f.Entry.Name,
				"address": f.Entry.Address,
				"path":    f.Path,
			}).Debug("wrote session file")
			return nil
		})
	}
	err := eg.Wait()

	files := make([]GeneratedFile, 0, len(plan))
	for i, f := range plan {
		if written[i] {
			files = append(files, f)
		}
	}
	return files, err
}
