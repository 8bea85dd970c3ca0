package planner

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-shop/internal/tui/components/confirm"
	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/service"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
	"github.com/mattsolo1/grove-shop/pkg/views"
)

type focusArea int

const (
	focusList focusArea = iota
	focusQuery
	focusAisle
)

// unassignedAisle labels the group of items whose aisle is not registered.
const unassignedAisle = "(no aisle)"

// row is a single line of the list: an aisle header or an item under it.
type row struct {
	aisle      string
	isHeader   bool
	item       models.Item
	completion models.Completion
	count      int
}

// Model is the main model for the shopping planner TUI. Everything here
// except the snapshot is screen state and is never saved.
type Model struct {
	service  *service.Service
	snapshot models.Snapshot

	rows      []row
	cursor    int
	collapsed map[string]bool
	lastKey   string

	focus      focusArea
	query      textinput.Model
	aisleInput textinput.Model

	selectedAisle string
	editingID     string
	status        string
	confirm       confirm.Model

	keys   KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a planner over svc.
func New(svc *service.Service) Model {
	query := textinput.New()
	query.Placeholder = "Search or add items..."
	query.Prompt = "› "
	query.CharLimit = 120

	aisleInput := textinput.New()
	aisleInput.Placeholder = "Add new aisle..."
	aisleInput.Prompt = "+ "
	aisleInput.CharLimit = 60

	m := Model{
		service:    svc,
		collapsed:  make(map[string]bool),
		query:      query,
		aisleInput: aisleInput,
		confirm:    confirm.New(),
		keys:       keys,
		help:       help.New(),
	}
	m.apply(svc.Snapshot())
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// apply installs a fresh snapshot and re-derives everything shown from it.
func (m *Model) apply(snapshot models.Snapshot) {
	m.snapshot = snapshot
	m.selectedAisle = aisles.Select(snapshot.Aisles, m.selectedAisle)
	m.buildRows()
}

// buildRows lays out every aisle in registry order followed by items whose
// aisle is gone. While a query is typed outside of editing, only matching
// items and their aisles are shown; with no match the full list stays.
func (m *Model) buildRows() {
	var matches map[string]bool
	if m.editingID == "" && textnorm.Normalize(m.query.Value()) != "" {
		if found := views.Search(m.snapshot.Items, m.query.Value()); len(found) > 0 {
			matches = make(map[string]bool, len(found))
			for _, item := range found {
				matches[item.ID] = true
			}
		}
	}

	var rows []row
	addGroup := func(aisle string, items []models.Item, completion models.Completion) {
		if matches != nil {
			kept := items[:0]
			for _, item := range items {
				if matches[item.ID] {
					kept = append(kept, item)
				}
			}
			if len(kept) == 0 {
				return
			}
			items = kept
		}
		rows = append(rows, row{aisle: aisle, isHeader: true, completion: completion, count: len(items)})
		if m.collapsed[aisle] {
			return
		}
		for _, item := range items {
			rows = append(rows, row{aisle: aisle, item: item})
		}
	}

	for _, aisle := range m.snapshot.Aisles {
		addGroup(aisle, views.GroupedByAisle(m.snapshot.Items, aisle), views.AisleCompletion(m.snapshot.Items, aisle))
	}
	if unassigned := views.Unassigned(m.snapshot.Items, m.snapshot.Aisles); len(unassigned) > 0 {
		var c models.Completion
		for _, item := range unassigned {
			if item.Needed {
				c.Total++
				if item.InCart {
					c.Checked++
				}
			}
		}
		addGroup(unassignedAisle, unassigned, c)
	}

	m.rows = rows
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// current returns the row under the cursor.
func (m Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// pickerVisible reports whether the aisle picker is shown under the query.
func (m Model) pickerVisible() bool {
	return views.ShouldOfferAislePicker(m.query.Value(), m.snapshot.Items, m.snapshot.Aisles, m.editingID != "")
}

// EditingID returns the id of the item being edited, or "".
func (m Model) EditingID() string {
	return m.editingID
}

// Query returns the text in the search or add field.
func (m Model) Query() string {
	return m.query.Value()
}

// SelectedAisle returns the aisle new items are filed under.
func (m Model) SelectedAisle() string {
	return m.selectedAisle
}

// Status returns the last status line message.
func (m Model) Status() string {
	return m.status
}
