package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codeready-toolchain/respmask/pkg/version"
)

func newVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Info()
			out := cmd.OutOrStdout()

			switch output {
			case "json":
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(info)
				if err != nil {
					return err
				}
				fmt.Fprint(out, string(data))
			default:
				fmt.Fprintf(out, "%s (%s)\n", version.Full(), info.GoVersion)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text|json|yaml)")
	return cmd
}
