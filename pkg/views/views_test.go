package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/itemstore"
	"github.com/mattsolo1/grove-shop/pkg/models"
)

func sampleItems() models.Items {
	return models.Items{
		"milk":   {ID: "milk", Name: "Milk", AisleID: "Dairy", Quantity: 1, Needed: true, InCart: true},
		"cheese": {ID: "cheese", Name: "Cheese", AisleID: "Dairy", Quantity: 2, Needed: true},
		"butter": {ID: "butter", Name: "Butter", AisleID: "Dairy", Quantity: 0, Needed: false, InCart: true},
		"apples": {ID: "apples", Name: "Apples", AisleID: "Produce", Quantity: 3, Needed: true},
		"ghost":  {ID: "ghost", Name: "Ghost Pepper", AisleID: "Deli", Quantity: 1, Needed: true},
	}
}

func ids(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestGroupedByAisleSortedByID(t *testing.T) {
	got := GroupedByAisle(sampleItems(), "Dairy")
	assert.Equal(t, []string{"butter", "cheese", "milk"}, ids(got))

	assert.Empty(t, GroupedByAisle(sampleItems(), "Frozen"))
}

func TestSorted(t *testing.T) {
	assert.Equal(t, []string{"apples", "butter", "cheese", "ghost", "milk"}, ids(Sorted(sampleItems())))
}

func TestUnassigned(t *testing.T) {
	got := Unassigned(sampleItems(), models.Aisles{"Dairy", "Produce"})
	assert.Equal(t, []string{"ghost"}, ids(got))
}

func TestProgress(t *testing.T) {
	p := Progress(sampleItems())
	assert.Equal(t, models.Progress{Needed: 4, InCart: 1}, p)
	assert.False(t, IsTripComplete(sampleItems()))
}

func TestProgressBounds(t *testing.T) {
	items := itemstore.UpsertByName(models.Items{}, "Milk", "Dairy")
	items = itemstore.UpsertByName(items, "Bread", "Bakery")
	steps := []func(models.Items) models.Items{
		func(i models.Items) models.Items { return itemstore.ToggleInCart(i, "milk") },
		func(i models.Items) models.Items { return itemstore.ToggleNeeded(i, "milk") },
		func(i models.Items) models.Items { return itemstore.ToggleInCart(i, "bread") },
		func(i models.Items) models.Items { return itemstore.ToggleNeeded(i, "milk") },
		itemstore.ResetCart,
	}
	for _, step := range steps {
		items = step(items)
		p := Progress(items)
		assert.GreaterOrEqual(t, p.InCart, 0)
		assert.LessOrEqual(t, p.InCart, p.Needed)
	}
}

func TestIsTripComplete(t *testing.T) {
	assert.False(t, IsTripComplete(models.Items{}), "nothing needed is not complete")

	items := models.Items{
		"milk":  {ID: "milk", AisleID: "Dairy", Quantity: 1, Needed: true, InCart: true},
		"bread": {ID: "bread", AisleID: "Bakery", Quantity: 0, Needed: false},
	}
	assert.True(t, IsTripComplete(items))
}

func TestAisleCompletion(t *testing.T) {
	assert.Equal(t, models.Completion{Checked: 1, Total: 2}, AisleCompletion(sampleItems(), "Dairy"))
	assert.Equal(t, models.Completion{Checked: 0, Total: 1}, AisleCompletion(sampleItems(), "Produce"))
	assert.Equal(t, models.Completion{}, AisleCompletion(sampleItems(), "Frozen"))
}

func TestShouldOfferAislePicker(t *testing.T) {
	list := models.Aisles{"Dairy", "Produce"}
	items := sampleItems()

	tests := []struct {
		name      string
		query     string
		list      models.Aisles
		isEditing bool
		want      bool
	}{
		{"editing always", "", list, true, true},
		{"editing existing name", "milk", list, true, true},
		{"blank query", "   ", list, false, false},
		{"existing name", "  MILK ", list, false, false},
		{"new name", "Oat Milk", list, false, true},
		{"empty registry", "Oat Milk", models.Aisles{}, false, false},
		{"empty registry editing", "", models.Aisles{}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldOfferAislePicker(tt.query, items, tt.list, tt.isEditing))
		})
	}
}

func TestSearch(t *testing.T) {
	assert.Equal(t, []string{"ghost"}, ids(Search(sampleItems(), "PEPPER")))
	assert.Equal(t, []string{"apples", "butter", "cheese", "ghost"}, ids(Search(sampleItems(), " E ")))
	assert.Len(t, Search(sampleItems(), ""), 5)
	assert.Empty(t, Search(sampleItems(), "tofu"))
}

// Walks the add/toggle/cart flow end to end through the pure operations.
func TestScenarioMilkTrip(t *testing.T) {
	list := aisles.Add(models.Aisles{}, "Fridge")
	require.Equal(t, models.Aisles{"Fridge"}, list)

	items := itemstore.UpsertByName(models.Items{}, "Milk ", "Fridge")
	require.Equal(t, models.Item{ID: "milk", Name: "Milk", AisleID: "Fridge", Quantity: 1, Needed: true}, items["milk"])

	items = itemstore.ToggleNeeded(items, "milk")
	assert.Equal(t, 0, items["milk"].Quantity)
	assert.False(t, items["milk"].Needed)
	assert.Empty(t, aisles.Active(list, items))

	items = itemstore.ToggleNeeded(items, "milk")
	assert.Equal(t, 1, items["milk"].Quantity)
	assert.True(t, items["milk"].Needed)

	items = itemstore.ToggleInCart(items, "milk")
	assert.True(t, items["milk"].InCart)
	assert.Equal(t, models.Progress{Needed: 1, InCart: 1}, Progress(items))
	assert.True(t, IsTripComplete(items))
	assert.Equal(t, models.Aisles{"Fridge"}, aisles.Active(list, items))
}
