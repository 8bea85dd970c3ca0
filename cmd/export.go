package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-shop/pkg/service"
)

func NewExportCmd(svc **service.Service) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the whole list and aisle registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := (*svc).Snapshot()

			switch format {
			case "json":
				return outputJSON(cmd.OutOrStdout(), snapshot)
			case "yaml", "yml":
				encoder := yaml.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent(2)
				if err := encoder.Encode(snapshot); err != nil {
					return fmt.Errorf("encoding YAML: %w", err)
				}
				return encoder.Close()
			default:
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")

	return cmd
}
