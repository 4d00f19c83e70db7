package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewCacheCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show validation cache settings and statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := app.Cache.Stats()
			fmt.Printf("TTL:      %s\n", app.Config.CacheTTL())
			fmt.Printf("Max size: %d\n", app.Config.Cache.MaxSize)
			fmt.Printf("Entries:  %d\n", app.Cache.Len())
			fmt.Printf("Hits:     %d\n", stats.Hits)
			fmt.Printf("Misses:   %d\n", stats.Misses)
			fmt.Printf("Hit rate: %.1f%%\n", stats.HitRate()*100)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop all cached validation results",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Cache.Clear()
			app.Logger.Info("validation cache cleared")
			return nil
		},
	})

	return cmd
}
