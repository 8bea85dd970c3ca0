package planner

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-shop/internal/tui/components/confirm"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

// resetCartMsg is delivered once emptying the cart has been confirmed.
type resetCartMsg struct{}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case resetCartMsg:
		m.apply(m.service.ResetCart())
		m.status = "Cart emptied"
		return m, nil

	case confirm.CancelledMsg:
		if _, ok := msg.Action.(resetCartMsg); ok {
			m.status = "Cart kept"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm.Pending() {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		switch m.focus {
		case focusQuery:
			return m.updateQuery(msg)
		case focusAisle:
			return m.updateAisleInput(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle 'z' sequences for folding
	if m.lastKey == "z" {
		m.lastKey = ""
		switch msg.String() {
		case "a":
			if r, ok := m.current(); ok {
				m.toggleCollapsed(r.aisle)
			}
		case "M":
			for _, aisle := range m.snapshot.Aisles {
				m.collapsed[aisle] = true
			}
			m.collapsed[unassignedAisle] = true
			m.buildRows()
		case "R":
			m.collapsed = make(map[string]bool)
			m.buildRows()
		}
		return m, nil
	}

	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.FoldPrefix):
		m.lastKey = "z"

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		r, ok := m.current()
		if !ok {
			break
		}
		if r.isHeader {
			m.toggleCollapsed(r.aisle)
			break
		}
		m.apply(m.service.ToggleNeeded(r.item.ID))

	case key.Matches(msg, m.keys.ToggleCart):
		if r, ok := m.current(); ok && !r.isHeader {
			m.apply(m.service.ToggleInCart(r.item.ID))
		}

	case key.Matches(msg, m.keys.Increase):
		if r, ok := m.current(); ok && !r.isHeader {
			m.apply(m.service.ChangeQuantity(r.item.ID, 1))
		}

	case key.Matches(msg, m.keys.Decrease):
		if r, ok := m.current(); ok && !r.isHeader {
			m.apply(m.service.ChangeQuantity(r.item.ID, -1))
		}

	case key.Matches(msg, m.keys.Edit):
		if r, ok := m.current(); ok && !r.isHeader {
			m.startEdit(r.item)
			cmd := m.query.Focus()
			return m, cmd
		}

	case key.Matches(msg, m.keys.Delete):
		if r, ok := m.current(); ok && !r.isHeader {
			m.deleteItem(r.item)
		}

	case key.Matches(msg, m.keys.ResetCart):
		inCart := 0
		for _, item := range m.snapshot.Items {
			if item.InCart {
				inCart++
			}
		}
		if inCart == 0 {
			m.status = "The cart is already empty"
			break
		}
		m.confirm.Ask(fmt.Sprintf("Take all %d item(s) out of the cart?", inCart), resetCartMsg{})

	case key.Matches(msg, m.keys.Search):
		m.focus = focusQuery
		cmd := m.query.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if m.editingID != "" {
			m.editingID = ""
			m.status = "Edit cancelled"
		}
		m.query.SetValue("")
		m.buildRows()

	case key.Matches(msg, m.keys.AddAisle):
		m.focus = focusAisle
		cmd := m.aisleInput.Focus()
		return m, cmd
	}

	return m, nil
}

func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// The edit stays pending so the list can still be browsed.
		m.query.Blur()
		m.focus = focusList
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil

	case key.Matches(msg, m.keys.NextAisle):
		m.cycleAisle(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevAisle):
		m.cycleAisle(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.buildRows()
	return m, cmd
}

func (m Model) updateAisleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.aisleInput.Blur()
		m.aisleInput.SetValue("")
		m.focus = focusList
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		name := textnorm.Normalize(m.aisleInput.Value())
		m.aisleInput.SetValue("")
		m.aisleInput.Blur()
		m.focus = focusList
		if name == "" {
			return m, nil
		}
		before := len(m.snapshot.Aisles)
		m.apply(m.service.AddAisle(name))
		if len(m.snapshot.Aisles) == before {
			m.status = fmt.Sprintf("Aisle %s already exists", name)
		} else {
			m.status = fmt.Sprintf("Added aisle %s", name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.aisleInput, cmd = m.aisleInput.Update(msg)
	return m, cmd
}

// submit adds the query as an item, or saves the edit in progress.
func (m *Model) submit() {
	name := textnorm.Normalize(m.query.Value())
	if name == "" {
		m.query.SetValue("")
		m.buildRows()
		return
	}
	if m.selectedAisle == "" {
		m.status = "No aisle selected: add an aisle first (A), then pick it"
		return
	}

	if m.editingID != "" {
		id := m.editingID
		m.editingID = ""
		m.query.SetValue("")
		m.apply(m.service.EditItem(id, name, m.selectedAisle))
		m.status = fmt.Sprintf("Updated %s", name)
		return
	}

	snapshot, err := m.service.AddItem(name, m.selectedAisle)
	if errors.Is(err, service.ErrNoAisle) {
		m.status = "No aisle selected: add an aisle first (A), then pick it"
		return
	}
	m.query.SetValue("")
	m.apply(snapshot)
	m.status = fmt.Sprintf("Added %s", name)
}

// startEdit loads item into the query field and its aisle into the picker.
func (m *Model) startEdit(item models.Item) {
	m.editingID = item.ID
	m.query.SetValue(item.Name)
	m.query.CursorEnd()
	m.selectedAisle = item.AisleID
	m.focus = focusQuery
	m.apply(m.snapshot)
}

// deleteItem removes item. Deleting the item under edit also drops the edit
// and clears the query.
func (m *Model) deleteItem(item models.Item) {
	if m.editingID == item.ID {
		m.editingID = ""
		m.query.SetValue("")
	}
	m.apply(m.service.DeleteItem(item.ID))
	m.status = fmt.Sprintf("Deleted %s", item.Name)
}

func (m *Model) toggleCollapsed(aisle string) {
	m.collapsed[aisle] = !m.collapsed[aisle]
	m.buildRows()
	// Keep the cursor on the header that was folded.
	for i, r := range m.rows {
		if r.isHeader && r.aisle == aisle {
			m.cursor = i
			break
		}
	}
}

// cycleAisle moves the picker selection by step, wrapping around.
func (m *Model) cycleAisle(step int) {
	if !m.pickerVisible() {
		return
	}
	list := m.snapshot.Aisles
	idx := slices.Index(list, m.selectedAisle)
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + step + len(list)) % len(list)
	}
	m.selectedAisle = list[idx]
}
