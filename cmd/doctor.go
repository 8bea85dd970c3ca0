package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/pkg/migration"
	"github.com/mattsolo1/grove-shop/pkg/service"
)

func NewDoctorCmd(svc **service.Service) *cobra.Command {
	var doctorFix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check and repair the stored shopping list",
		Long: `The doctor command checks the stored list for inconsistencies and offers
to fix them automatically.

Issues it can detect and fix:
- Items stored under a key that differs from their id
- Needed items with a quantity below one, and negative quantities
- Names with stray whitespace

Issues it reports only:
- Items filed under an aisle that is not registered
- Items or aisles whose names differ only in casing
- Items without a name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Running shopping list doctor...")

			m := migration.NewMigrator(migration.MigrationOptions{
				DryRun:  !doctorFix,
				Verbose: true,
			}, out, nil)

			repaired, issues := m.CheckSnapshot(s.Snapshot())
			report := m.Report()

			if len(issues) == 0 {
				fmt.Fprintf(out, "No issues found in %d item(s). The list is healthy.\n", report.ItemsChecked)
				return nil
			}

			fixable := 0
			for _, issue := range issues {
				if issue.Fixable {
					fixable++
				}
			}

			if doctorFix && report.IssuesFixed > 0 {
				s.Restore(repaired)
			}

			fmt.Fprintf(out, "\nSummary: found %d issue(s) in %d item(s)", report.IssuesFound, report.ItemsChecked)
			if doctorFix {
				fmt.Fprintf(out, ", fixed %d", report.IssuesFixed)
			}
			fmt.Fprintln(out)
			if !doctorFix && fixable > 0 {
				fmt.Fprintf(out, "Run 'shop doctor --fix' to fix %d of them\n", fixable)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&doctorFix, "fix", false, "Automatically fix issues")

	return cmd
}
