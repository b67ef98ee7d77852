// Package serve implements the serve command: API server plus the
// background generation worker.
package serve

import (
	"github.com/spf13/cobra"

	"github.com/dealerhub/seo-engine/internal/app"
)

// Command returns the serve command.
func Command(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the generation worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Root().PersistentFlags().GetString("config")

			application, err := app.New(app.Options{
				ConfigPath:  configPath,
				Version:     version,
				WithRedis:   true,
				WithMetrics: true,
			})
			if err != nil {
				return err
			}
			defer application.Close()

			return application.RunServe(cmd.Context())
		},
	}
}
