package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/itemstore"
	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

func NewAddCmd(svc **service.Service) *cobra.Command {
	var aisleFlag string

	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add an item to the list",
		Long: `Add an item to the shopping list. Adding a name that is already on the
list (in any casing) marks that item as needed again instead of creating a
duplicate.

Examples:
  shop add milk                  # File under the first aisle
  shop add greek yogurt -a dairy # File under the Dairy aisle`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			name := strings.Join(args, " ")
			snapshot := s.Snapshot()

			existing, found := itemstore.Lookup(snapshot.Items, name)

			var aisle string
			switch {
			case aisleFlag != "":
				resolved, ok := aisles.Resolve(snapshot.Aisles, aisleFlag)
				if !ok {
					return fmt.Errorf("unknown aisle %q (add it with 'shop aisle add')", aisleFlag)
				}
				aisle = resolved
			case found:
				aisle = existing.AisleID
			default:
				aisle = aisles.Select(snapshot.Aisles, "")
			}

			snapshot, err := s.AddItem(name, aisle)
			if errors.Is(err, service.ErrNoAisle) {
				return fmt.Errorf("%w: add an aisle first with 'shop aisle add'", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if found {
				fmt.Fprintf(out, "%s is needed again\n", existing.Name)
				return nil
			}
			if item, ok := itemstore.Lookup(snapshot.Items, name); ok {
				fmt.Fprintf(out, "Added %s to %s\n", item.Name, item.AisleID)
			} else if textnorm.Normalize(name) == "" {
				fmt.Fprintln(out, "Nothing to add")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&aisleFlag, "aisle", "a", "", "Aisle to file a new item under")

	return cmd
}
