package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-shop/internal/tui/planner"
	"github.com/mattsolo1/grove-shop/pkg/service"
)

// NewPlanCmd creates the `shop plan` command.
func NewPlanCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the trip in an interactive list",
		Long: `Launch an interactive Terminal User Interface for planning a shopping trip.
Type to search or add items, pick their aisle, and tick items off as they go
into the cart. Every change is saved as it is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for TTY
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("TUI mode requires an interactive terminal")
			}

			model := planner.New(*svc)
			p := tea.NewProgram(model, tea.WithAltScreen())

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}

			return nil
		},
	}
	return cmd
}
