package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

func NewEditCmd(svc **service.Service) *cobra.Command {
	var aisleFlag string

	cmd := &cobra.Command{
		Use:   "edit <item> <new name>",
		Short: "Rename an item or move it to another aisle",
		Long: `Rename an item or move it to another aisle. The item is referenced by id
or by name. The id stays the same after a rename.

Examples:
  shop edit milk "Oat Milk"
  shop edit milk Milk -a Fridge`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			item, err := resolveItem(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if textnorm.Normalize(args[1]) == "" {
				return fmt.Errorf("new name must not be empty")
			}

			aisle := item.AisleID
			if aisleFlag != "" {
				resolved, ok := aisles.Resolve(s.Snapshot().Aisles, aisleFlag)
				if !ok {
					return fmt.Errorf("unknown aisle %q", aisleFlag)
				}
				aisle = resolved
			}

			updated := s.EditItem(item.ID, args[1], aisle).Items[item.ID]
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s in %s\n", item.ID, updated.Name, updated.AisleID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&aisleFlag, "aisle", "a", "", "Move the item to this aisle")

	return cmd
}

func NewRemoveCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item>",
		Short:   "Delete an item",
		Aliases: []string{"remove"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			item, err := resolveItem(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			s.DeleteItem(item.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", item.Name)
			return nil
		},
	}
}

func NewNeedCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "need <item>",
		Short: "Toggle whether an item is needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			item, err := resolveItem(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			updated := s.ToggleNeeded(item.ID).Items[item.ID]
			if updated.Needed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is needed (x%d)\n", updated.Name, updated.Quantity)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer needed\n", updated.Name)
			}
			return nil
		},
	}
}

func NewCartCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "cart <item>",
		Short: "Toggle whether an item is in the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			item, err := resolveItem(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			updated := s.ToggleInCart(item.ID).Items[item.ID]
			if updated.InCart {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is in the cart\n", updated.Name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is out of the cart\n", updated.Name)
			}
			return nil
		},
	}
}

func NewQuantityCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <item> <delta>",
		Short: "Change an item's quantity",
		Long: `Change an item's quantity by delta. The quantity never drops below 1.

Examples:
  shop qty eggs 6
  shop qty eggs -- -2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			item, err := resolveItem(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity delta %q: %w", args[1], err)
			}
			updated := s.ChangeQuantity(item.ID, delta).Items[item.ID]
			fmt.Fprintf(cmd.OutOrStdout(), "%s x%d\n", updated.Name, updated.Quantity)
			return nil
		},
	}
}

func NewResetCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Take every item out of the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			(*svc).ResetCart()
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}
}
