// Package commands implements the keyaudit CLI subcommands.
package commands

import (
	"github.com/systmms/keyaudit/internal/cache"
	"github.com/systmms/keyaudit/internal/config"
	"github.com/systmms/keyaudit/internal/logging"
	"github.com/systmms/keyaudit/internal/providers"
)

// App carries the shared state the root command builds before any
// subcommand runs.
type App struct {
	Config   config.Config
	NoColor  bool
	Logger   *logging.Logger
	Registry *providers.Registry
	Cache    *cache.ValidationCache
}
