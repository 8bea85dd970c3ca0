package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/views"
)

func NewAisleCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aisle",
		Short: "Manage aisles",
		Long:  `Add and list the aisles items are grouped under. Aisles keep the order they were added in.`,
	}

	cmd.AddCommand(
		newAisleAddCmd(svc),
		newAisleListCmd(svc),
	)

	return cmd
}

func newAisleAddCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add an aisle",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			name := strings.Join(args, " ")

			if existing, ok := aisles.Resolve(s.Snapshot().Aisles, name); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Aisle %s already exists\n", existing)
				return nil
			}
			before := len(s.Snapshot().Aisles)
			after := s.AddAisle(name).Aisles
			if len(after) == before {
				return fmt.Errorf("aisle name must not be empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added aisle %s\n", after[len(after)-1])
			return nil
		},
	}
}

func newAisleListCmd(svc **service.Service) *cobra.Command {
	var (
		activeOnly bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List aisles in display order",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := (*svc).Snapshot()

			list := snapshot.Aisles
			if activeOnly {
				list = aisles.Active(snapshot.Aisles, snapshot.Items)
			}

			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), list)
			}

			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No aisles")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AISLE\tIN CART\tNEEDED")
			fmt.Fprintln(w, "-----\t-------\t------")
			for _, aisle := range list {
				c := views.AisleCompletion(snapshot.Items, aisle)
				fmt.Fprintf(w, "%s\t%d\t%d\n", aisle, c.Checked, c.Total)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only show aisles with needed items")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
