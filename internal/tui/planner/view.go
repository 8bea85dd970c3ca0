package planner

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mattsolo1/grove-shop/pkg/views"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	aisleStyle     = lipgloss.NewStyle().Bold(true)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	chipStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	activeChip     = chipStyle.BorderForeground(lipgloss.Color("13")).Foreground(lipgloss.Color("13"))
)

func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View(m.keys)
	}

	sections := []string{
		m.renderHeader(),
		"",
		m.renderInputs(),
	}
	if m.pickerVisible() {
		sections = append(sections, m.renderPicker())
	}
	sections = append(sections, "", m.renderList(), "")
	if m.confirm.Pending() {
		sections = append(sections, m.confirm.View(), "")
	}
	if m.status != "" {
		style := mutedStyle
		if strings.HasPrefix(m.status, "No aisle") {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	p := views.Progress(m.snapshot.Items)
	title := headerStyle.Render("Shopping Planner")
	switch {
	case views.IsTripComplete(m.snapshot.Items):
		return title + "  " + doneStyle.Render(fmt.Sprintf("✓ all %d in cart", p.Needed))
	case p.Needed == 0:
		return title + "  " + mutedStyle.Render("nothing needed")
	default:
		return title + "  " + mutedStyle.Render(fmt.Sprintf("%d/%d in cart", p.InCart, p.Needed))
	}
}

func (m Model) renderInputs() string {
	query := m.query.View()
	if m.editingID != "" {
		query = highlightStyle.Render("[edit] ") + query
	}
	if m.focus == focusAisle {
		return query + "\n" + m.aisleInput.View()
	}
	return query
}

func (m Model) renderPicker() string {
	chips := make([]string, 0, len(m.snapshot.Aisles))
	for _, aisle := range m.snapshot.Aisles {
		if aisle == m.selectedAisle {
			chips = append(chips, activeChip.Render(aisle))
		} else {
			chips = append(chips, chipStyle.Render(aisle))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) renderList() string {
	if len(m.rows) == 0 {
		return mutedStyle.Render("No aisles yet. Press A to add one.")
	}

	start, end := m.visibleRange()
	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.cursor && m.focus == focusList {
			cursor = highlightStyle.Render("▶ ")
		}

		var line string
		if r.isHeader {
			fold := "▾"
			if m.collapsed[r.aisle] {
				fold = "▸"
			}
			counts := mutedStyle.Render(fmt.Sprintf("%d/%d", r.completion.Checked, r.completion.Total))
			line = fmt.Sprintf("%s %s %s", fold, aisleStyle.Render(r.aisle), counts)
		} else {
			line = "    " + m.renderItem(r)
		}
		b.WriteString(cursor + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderItem(r row) string {
	item := r.item
	box := "[ ]"
	switch {
	case !item.Needed:
		box = " · "
	case item.InCart:
		box = "[x]"
	}

	text := item.Name
	if item.Quantity > 1 {
		text += fmt.Sprintf(": %d", item.Quantity)
	}
	if item.ID == m.editingID {
		text = highlightStyle.Render(text)
	}

	line := box + " " + text
	switch {
	case !item.Needed:
		return mutedStyle.Render(line)
	case item.InCart:
		return doneStyle.Render(line)
	}
	return line
}

// visibleRange returns the slice of rows that fits the window, keeping the
// cursor on screen.
func (m Model) visibleRange() (int, int) {
	height := m.height - 10
	if m.height == 0 || height >= len(m.rows) || height <= 0 {
		return 0, len(m.rows)
	}
	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	return start, start + height
}
