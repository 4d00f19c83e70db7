package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/systmms/keyaudit/internal/audit"
	"github.com/systmms/keyaudit/internal/envfile"
	kaerrors "github.com/systmms/keyaudit/internal/errors"
	"github.com/systmms/keyaudit/internal/logging"
	"github.com/systmms/keyaudit/internal/output"
)

func NewAuditCommand(app *App) *cobra.Command {
	var (
		envFile       string
		providerNames []string
		timeout       float64
		concurrency   int
		jsonPath      string
		forceInsecure bool
		auditLogPath  string
		redaction     string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Validate credentials from an env file",
		Long: `Read an env file, match each variable to a provider (by name pattern or
by key pattern), validate the credentials against the providers' live
endpoints, and print the outcome per key.

Exits non-zero when any credential is not valid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config
			if timeout > 0 {
				cfg.TimeoutSeconds = timeout
			}
			if concurrency > 0 {
				cfg.Concurrency = concurrency
			}
			if len(providerNames) > 0 {
				cfg.Providers = providerNames
			}
			if auditLogPath != "" {
				cfg.AuditLog = auditLogPath
			}
			if redaction != "" {
				cfg.Redaction = redaction
			}

			level, err := logging.ParseRedactionLevel(cfg.Redaction)
			if err != nil {
				return kaerrors.ConfigError{
					Field:      "redaction",
					Value:      cfg.Redaction,
					Message:    err.Error(),
					Suggestion: "use partial, full, or hash",
				}
			}

			env, err := envfile.Load(envFile)
			if err != nil {
				return err
			}
			app.Logger.Debug("loaded %d variables from %s", len(env), envFile)

			auditor := audit.New(app.Registry, app.Cache, app.Logger)
			report, err := auditor.Run(cmd.Context(), env, audit.Options{
				Providers:    cfg.Providers,
				Timeout:      time.Duration(cfg.TimeoutSeconds * float64(time.Second)),
				Concurrency:  cfg.Concurrency,
				AuditLogPath: cfg.AuditLog,
			})
			if err != nil {
				return err
			}

			if len(report.Results) == 0 {
				app.Logger.Warn("no matching credentials found for enabled providers")
				return nil
			}

			output.NewRenderer(os.Stdout, app.NoColor, level).RenderTable(report)

			if jsonPath != "" {
				if err := output.WriteJSON(report, jsonPath, forceInsecure); err != nil {
					return err
				}
				app.Logger.Info("results written to %s", jsonPath)
			}

			if notValid := report.Summary.TotalKeys - report.Summary.Valid; notValid > 0 {
				return fmt.Errorf("%d of %d credentials are not valid", notValid, report.Summary.TotalKeys)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to the env file to audit")
	cmd.Flags().StringSliceVar(&providerNames, "providers", nil, "Restrict the audit to these providers")
	cmd.Flags().Float64Var(&timeout, "timeout", 0, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent validations")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write JSON results to this file")
	cmd.Flags().BoolVar(&forceInsecure, "force-insecure-output", false, "Skip the output file permission check")
	cmd.Flags().StringVar(&auditLogPath, "audit-log", "", "Audit log path (overrides config)")
	cmd.Flags().StringVar(&redaction, "redaction", "", "Fingerprint redaction level: partial, full, or hash")

	return cmd
}
