// Package bootstrap implements the default-config bootstrap command.
package bootstrap

import (
	"github.com/spf13/cobra"

	"github.com/dealerhub/seo-engine/internal/app"
)

// Command returns the bootstrap command.
func Command(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create default sitemap configs for tenants with content",
		Long: `Scans for tenants that have published content but no sitemap
config and creates an hourly vehicles config for each. Safe to run
repeatedly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Root().PersistentFlags().GetString("config")
			application, err := app.New(app.Options{
				ConfigPath: configPath,
				Version:    version,
			})
			if err != nil {
				return err
			}
			defer application.Close()

			created, err := application.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%d default config(s) created\n", created)
			return nil
		},
	}
}
