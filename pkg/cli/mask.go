package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/masking"
)

func newMaskCommand(configDir *string) *cobra.Command {
	var (
		typeName string
		file     string
	)

	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Mask a JSON document with a type's field specifications",
		Long: "Reads a JSON object or array from --file (or stdin with -) and masks it\n" +
			"with the field specifications configured for --type. Arrays have\n" +
			"every element masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Initialize(cmd.Context(), *configDir)
			if err != nil {
				return err
			}

			data, err := readInput(cmd, file)
			if err != nil {
				return err
			}

			var payload any
			if err := json.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("invalid JSON input: %w", err)
			}

			spec := cfg.PolicyRegistry.FieldSpec(typeName)
			if spec == "" {
				return fmt.Errorf("no field specifications configured for type %q", typeName)
			}
			masking.NewService().MaskPayload(payload, func(string) string { return spec })

			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "", "Type name whose field specifications apply (required)")
	cmd.Flags().StringVar(&file, "file", "-", "JSON file to mask, - for stdin")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}
