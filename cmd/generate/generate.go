// Package generate implements the one-shot sitemap generation command.
package generate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dealerhub/seo-engine/internal/app"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/sitemap"
)

// Command returns the generate command.
func Command(version string) *cobra.Command {
	var (
		tenantFlag string
		typeFlag   string
		limitFlag  int
		dryRunFlag bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sitemaps for all tenants or one tenant",
		Long: `Generates sitemap XML files and the per-tenant index. Without
--tenant every tenant with eligible content is processed; one tenant's
failure never blocks the rest. --dry-run reports projected file and URL
counts without writing anything.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := models.SitemapType(typeFlag)
			if !typ.Valid() {
				return fmt.Errorf("unknown sitemap type %q", typeFlag)
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

			if tenantFlag != "" {
				tenantID, parseErr := uuid.Parse(tenantFlag)
				if parseErr != nil {
					return fmt.Errorf("invalid tenant ID %q: %w", tenantFlag, parseErr)
				}
				result, genErr := application.GenerateTenant(ctx, tenantID, typ, limitFlag, dryRunFlag)
				if genErr != nil {
					return genErr
				}
				printResult(cmd, result)
				return nil
			}

			results, genErr := application.GenerateAll(ctx, typ, limitFlag, dryRunFlag)
			if genErr != nil {
				return genErr
			}
			for i := range results {
				printResult(cmd, &results[i])
			}
			cmd.Printf("%d tenant(s) processed\n", len(results))
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "tenant ID (all tenants when omitted)")
	cmd.Flags().StringVar(&typeFlag, "type", string(models.SitemapTypeAll), "sitemap type: vehicles, images, pages, index, all")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "per-file URL limit (configured default when 0)")
	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "report projected URL counts without writing files")

	return cmd
}

func printResult(cmd *cobra.Command, result *sitemap.Result) {
	prefix := ""
	if result.DryRun {
		prefix = "[dry-run] "
	}
	cmd.Printf("%stenant %s: %d file(s), %d URL(s)\n",
		prefix, result.TenantID, len(result.Files), result.TotalURLs)
	for _, f := range result.Files {
		cmd.Printf("  %s (%d URLs)\n", f.Path, f.URLCount)
	}
}
