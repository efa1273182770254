// Package cli implements the respmaskctl command line.
package cli

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the respmaskctl command tree.
func NewRootCommand() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:   "respmaskctl",
		Short: "Inspect and exercise respmask masking policies",
		Long: "Validates respmask.yaml policies and masks JSON documents offline\n" +
			"with the same engine the respmask server uses.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Policies may reference {{.VAR}} values kept in the directory's .env.
			_ = godotenv.Load(filepath.Join(configDir, ".env"))
		},
	}
	root.PersistentFlags().StringVar(&configDir, "config-dir", defaultConfigDir(),
		"Path to configuration directory (env CONFIG_DIR)")

	root.AddCommand(
		newValidateCommand(&configDir),
		newMaskCommand(&configDir),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "./deploy/config"
}
