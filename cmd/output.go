package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mattsolo1/grove-shop/pkg/itemstore"
	"github.com/mattsolo1/grove-shop/pkg/models"
)

// NoServiceAnnotation marks commands that run without opening the store.
const NoServiceAnnotation = "shop/no-service"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// styled renders s with style only when stdout is a terminal.
func styled(style lipgloss.Style, s string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return s
	}
	return style.Render(s)
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// resolveItem accepts either an item id or an item name.
func resolveItem(snapshot models.Snapshot, ref string) (models.Item, error) {
	if item, ok := snapshot.Items[ref]; ok {
		return item, nil
	}
	if item, ok := itemstore.Lookup(snapshot.Items, ref); ok {
		return item, nil
	}
	return models.Item{}, fmt.Errorf("no item matches %q", ref)
}

func checkbox(item models.Item) string {
	switch {
	case !item.Needed:
		return " - "
	case item.InCart:
		return "[x]"
	default:
		return "[ ]"
	}
}

// itemLine renders one item row of the list and search output.
func itemLine(item models.Item) string {
	line := fmt.Sprintf("%s %s", checkbox(item), item.Name)
	if item.Needed && item.Quantity > 1 {
		line += fmt.Sprintf(" x%d", item.Quantity)
	}
	line += " " + styled(mutedStyle, "("+item.ID+")")
	if item.Needed && item.InCart {
		return styled(doneStyle, line)
	}
	if !item.Needed {
		return styled(mutedStyle, line)
	}
	return line
}
