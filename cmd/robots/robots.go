// Package robots implements the robots.txt compilation command.
package robots

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dealerhub/seo-engine/internal/app"
)

// Command returns the robots command.
func Command(version string) *cobra.Command {
	var (
		tenantFlag string
		localeFlag string
		stdoutFlag bool
	)

	cmd := &cobra.Command{
		Use:   "robots",
		Short: "Compile robots.txt for a tenant",
		Long: `Compiles the robots.txt for one tenant and locale. By default
the artifact is written to the file store and the config is stamped;
--stdout prints the compiled content without writing anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantID, err := uuid.Parse(tenantFlag)
			if err != nil {
				return fmt.Errorf("invalid tenant ID %q: %w", tenantFlag, err)
			}

			configPath, _ := cmd.Root().PersistentFlags().GetString("config")
			application, err := app.New(app.Options{
				ConfigPath: configPath,
				Version:    version,
			})
			if err != nil {
				return err
			}
			defer application.Close()

			ctx := cmd.Context()
			locale := localeFlag
			if locale == "" {
				locale = application.DefaultLocale()
			}

			if stdoutFlag {
				content, compileErr := application.CompileRobots(ctx, tenantID, locale)
				if compileErr != nil {
					return compileErr
				}
				cmd.Print(content)
				return nil
			}

			path, genErr := application.GenerateRobots(ctx, tenantID, locale)
			if genErr != nil {
				return genErr
			}
			cmd.Printf("robots.txt written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "tenant ID (required)")
	cmd.Flags().StringVar(&localeFlag, "locale", "", "locale (configured default when omitted)")
	cmd.Flags().BoolVar(&stdoutFlag, "stdout", false, "print to stdout instead of writing the artifact")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
