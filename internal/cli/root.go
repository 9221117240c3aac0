package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	log        *logrus.Logger
}

// NewRootCmd builds the putty-sessions command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{log: logrus.New()}

	cmd := &cobra.Command{
		Use:   "putty-sessions",
		Short: "Generate PuTTY session registry files from a host list",
		Long: `putty-sessions - Generate PuTTY session registry files from a host list

Reads a host list with one "name,address" entry per line and writes one
registry file per host by substituting the session name and address into a
template. The files can then be merged with "reg import", either by hand or
with "generate --import".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+configPathHint()+")")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newListCmd(opts),
		newCleanCmd(opts),
		newTemplateCmd(),
		newConfigCmd(opts),
	)
	return cmd
}

func (o *rootOptions) setupLogging(w io.Writer) error {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}

	switch strings.ToLower(o.logFormat) {
	case "text":
		o.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		o.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid --log-format %q: must be text or json", o.logFormat)
	}

	o.log.SetOutput(w)
	o.log.SetLevel(level)
	return nil
}

// PrintError writes a command failure for the user
func PrintError(w io.Writer, err error) {
	color.New(color.FgRed, color.Bold).Fprint(w, "Error: ")
	fmt.Fprintln(w, err)
}

func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprint(w, "✔ ")
	fmt.Fprintf(w, format+"\n", args...)
}

func notice(w io.Writer, format string, args ...any) {
	color.New(color.FgYellow).Fprint(w, "! ")
	fmt.Fprintf(w, format+"\n", args...)
}
