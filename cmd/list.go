package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/views"
)

// unassignedGroup labels items whose aisle is not in the registry.
const unassignedGroup = "(no aisle)"

type listGroup struct {
	Aisle      string            `json:"aisle"`
	Completion models.Completion `json:"completion"`
	Items      []models.Item     `json:"items"`
}

func NewListCmd(svc **service.Service) *cobra.Command {
	var (
		aisleFlag  string
		neededOnly bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "Show the list grouped by aisle",
		Aliases: []string{"ls"},
		Long: `Show the shopping list grouped by aisle in aisle order, with per-aisle
completion. Items whose aisle no longer exists are listed last.

Examples:
  shop list              # Everything
  shop list --needed     # Only what still has to be bought
  shop list -a dairy     # One aisle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := (*svc).Snapshot()

			aisleList := snapshot.Aisles
			if aisleFlag != "" {
				resolved, ok := aisles.Resolve(snapshot.Aisles, aisleFlag)
				if !ok {
					return fmt.Errorf("unknown aisle %q", aisleFlag)
				}
				aisleList = models.Aisles{resolved}
			}

			groups := buildGroups(snapshot, aisleList, neededOnly, aisleFlag == "")

			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), groups)
			}
			printGroups(cmd.OutOrStdout(), groups)
			return nil
		},
	}

	cmd.Flags().StringVarP(&aisleFlag, "aisle", "a", "", "Only show this aisle")
	cmd.Flags().BoolVar(&neededOnly, "needed", false, "Only show needed items")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func buildGroups(snapshot models.Snapshot, aisleList models.Aisles, neededOnly, withUnassigned bool) []listGroup {
	keep := func(items []models.Item) []models.Item {
		if !neededOnly {
			return items
		}
		out := items[:0]
		for _, item := range items {
			if item.Needed {
				out = append(out, item)
			}
		}
		return out
	}

	groups := make([]listGroup, 0, len(aisleList)+1)
	for _, aisle := range aisleList {
		items := keep(views.GroupedByAisle(snapshot.Items, aisle))
		if len(items) == 0 {
			continue
		}
		groups = append(groups, listGroup{
			Aisle:      aisle,
			Completion: views.AisleCompletion(snapshot.Items, aisle),
			Items:      items,
		})
	}

	if withUnassigned {
		if items := keep(views.Unassigned(snapshot.Items, snapshot.Aisles)); len(items) > 0 {
			var c models.Completion
			for _, item := range items {
				if item.Needed {
					c.Total++
					if item.InCart {
						c.Checked++
					}
				}
			}
			groups = append(groups, listGroup{Aisle: unassignedGroup, Completion: c, Items: items})
		}
	}
	return groups
}

func printGroups(w io.Writer, groups []listGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "The list is empty")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := fmt.Sprintf("%s  %d/%d", g.Aisle, g.Completion.Checked, g.Completion.Total)
		fmt.Fprintln(w, styled(headerStyle, header))
		for _, item := range g.Items {
			fmt.Fprintf(w, "  %s\n", itemLine(item))
		}
	}
}
