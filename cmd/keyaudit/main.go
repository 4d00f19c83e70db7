package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/keyaudit/cmd/keyaudit/commands"
	"github.com/systmms/keyaudit/internal/cache"
	"github.com/systmms/keyaudit/internal/config"
	"github.com/systmms/keyaudit/internal/logging"
	"github.com/systmms/keyaudit/internal/providers"
	"github.com/systmms/keyaudit/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	// Wipe any secret material still held in protected memory before the
	// process exits.
	secure.Purge()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		noColor    bool
		debug      bool
	)

	app := &commands.App{}

	rootCmd := &cobra.Command{
		Use:   "keyaudit",
		Short: "Audit API credentials against their issuing services",
		Long: `keyaudit validates API keys and tokens from .env files against their
providers' live endpoints and reports which ones still work, and why not
if they don't.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			app.Config = cfg
			app.NoColor = noColor
			app.Logger = logging.New(debug, noColor)
			app.Registry = providers.NewRegistry()
			app.Cache = cache.New(cfg.CacheTTL(), cfg.Cache.MaxSize)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default keyaudit.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewAuditCommand(app),
		commands.NewProvidersCommand(app),
		commands.NewCacheCommand(app),
	)

	return rootCmd.Execute()
}
