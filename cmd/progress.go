package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/views"
)

type progressReport struct {
	Needed   int  `json:"needed"`
	InCart   int  `json:"inCart"`
	Complete bool `json:"complete"`
}

func NewProgressCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show how much of the trip is done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := (*svc).Snapshot().Items
			p := views.Progress(items)
			report := progressReport{
				Needed:   p.Needed,
				InCart:   p.InCart,
				Complete: views.IsTripComplete(items),
			}

			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			switch {
			case report.Needed == 0:
				fmt.Fprintln(out, "Nothing needed")
			case report.Complete:
				fmt.Fprintln(out, styled(doneStyle, fmt.Sprintf("All %d items in the cart", report.Needed)))
			default:
				fmt.Fprintf(out, "%d of %d items in the cart\n", report.InCart, report.Needed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
