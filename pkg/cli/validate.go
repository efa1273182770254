package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/respmask/pkg/config"
)

func newValidateCommand(configDir *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate respmask.yaml",
		Long: "Loads respmask.yaml from the configuration directory, expands\n" +
			"environment templates and validates every policy property.\n\n" +
			"Exit code 0 when the policy is valid, 1 otherwise.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Initialize(cmd.Context(), *configDir)
			if err != nil {
				return err
			}

			stats := cfg.Stats()
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(stats, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			default:
				fmt.Fprintf(out, "%s: OK\n", cfg.PolicyFile())
				fmt.Fprintf(out, "  source:     %s\n", cfg.Policy.Source)
				fmt.Fprintf(out, "  properties: %d\n", stats.Properties)
				fmt.Fprintf(out, "  handlers:   %d (%d masked)\n", stats.Handlers, stats.EnabledHandlers)
				fmt.Fprintf(out, "  types:      %d\n", stats.Types)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text|json)")
	return cmd
}
