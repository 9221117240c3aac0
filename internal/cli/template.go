package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GuitarSoul/putty-sessions/internal/sessionfile"
)

func newTemplateCmd() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a builtin session template",
		Long: `Print a builtin session template.

Use it as a starting point for a custom --template. The placeholders are
` + sessionfile.DefaultNamePlaceholder + ` (session name), ` + sessionfile.DefaultAddressPlaceholder + ` (address) and ` + sessionfile.DefaultUserPlaceholder + ` (username).`,
		Example: `  putty-sessions template
  putty-sessions template --format xshell -o session.xsh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := sessionfile.LookupFormat(format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), f.Template)
				return err
			}
			if err := os.WriteFile(output, []byte(f.Template), 0o644); err != nil {
				return fmt.Errorf("writing template: %w", err)
			}
			success(cmd.OutOrStdout(), "%s template written to %s", f.Name, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the template to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", sessionfile.DefaultFormat, "builtin format: putty, securecrt or xshell")
	return cmd
}
