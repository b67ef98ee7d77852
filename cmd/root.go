// Package cmd implements the command-line interface for the SEO engine.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dealerhub/seo-engine/cmd/bootstrap"
	"github.com/dealerhub/seo-engine/cmd/generate"
	robotscmd "github.com/dealerhub/seo-engine/cmd/robots"
	"github.com/dealerhub/seo-engine/cmd/serve"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "seo-engine",
	Short: "SEO URL resolution and sitemap generation engine",
	Long: `Multi-tenant SEO engine for vehicle dealers: URL registry and
redirect resolution, sitemap and robots.txt generation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment overrides are available to every
	// command.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (optional, defaults + env vars apply without it)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("seo-engine version %s\n", Version)
		},
	})

	rootCmd.AddCommand(serve.Command(Version))
	rootCmd.AddCommand(generate.Command(Version))
	rootCmd.AddCommand(robotscmd.Command(Version))
	rootCmd.AddCommand(bootstrap.Command(Version))
}
