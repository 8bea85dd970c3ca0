package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-shop/pkg/migration"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/service"
)

func NewImportCmd(svc **service.Service) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the list with a previous export",
		Long: `Replace the whole list and aisle registry with the contents of a file
written by 'shop export'. Use - to read from stdin. Repairable problems in
the file are fixed on the way in.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var r io.Reader
			if path == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				defer f.Close()
				r = f
			}

			if format == "" {
				format = formatFromPath(path)
			}

			var snapshot models.Snapshot
			switch format {
			case "json":
				if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
					return fmt.Errorf("decoding JSON: %w", err)
				}
			case "yaml", "yml":
				if err := yaml.NewDecoder(r).Decode(&snapshot); err != nil {
					return fmt.Errorf("decoding YAML: %w", err)
				}
			default:
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}
			if snapshot.Aisles == nil {
				snapshot.Aisles = models.Aisles{}
			}
			if snapshot.Items == nil {
				snapshot.Items = models.Items{}
			}

			m := migration.NewMigrator(migration.MigrationOptions{}, nil, nil)
			repaired, _ := m.CheckSnapshot(snapshot)

			restored := (*svc).Restore(repaired)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d item(s) and %d aisle(s)\n", len(restored.Items), len(restored.Aisles))
			if fixed := m.Report().IssuesFixed; fixed > 0 {
				fmt.Fprintf(out, "Fixed %d issue(s) in the imported data\n", fixed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or yaml (default from the file extension)")

	return cmd
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
