package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func NewProvidersCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered providers",
		Long:  `Display every registered provider with its env var patterns and key syntax.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "NAME\tENV PATTERNS\tKEY PATTERN\n")
			_, _ = fmt.Fprintf(w, "----\t------------\t-----------\n")

			for _, name := range app.Registry.Names() {
				p, err := app.Registry.Get(name)
				if err != nil {
					return err
				}
				envPatterns := "(value pattern only)"
				if ep, ok := p.(interface{ EnvPatternStrings() []string }); ok {
					envPatterns = strings.Join(ep.EnvPatternStrings(), ", ")
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", name, envPatterns, p.KeyPattern().String())
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("\n%d providers registered\n", app.Registry.Len())
			return nil
		},
	}
}
