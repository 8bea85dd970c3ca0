// Package itemstore implements the item mapping operations. Every function
// takes the previous mapping and returns a new one; the input is never
// mutated, so readers never observe a partial update.
package itemstore

import (
	"maps"
	"math"
	"slices"

	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

// Lookup finds an item by name using case-insensitive comparison. When edits
// have left several items with the same name, the lowest id wins.
func Lookup(items models.Items, name string) (models.Item, bool) {
	id, ok := lookupID(items, name)
	if !ok {
		return models.Item{}, false
	}
	return items[id], true
}

// lookupID returns the mapping key of the item matching name. The key is used
// rather than Item.ID so records hydrated under a different key stay in place.
func lookupID(items models.Items, name string) (string, bool) {
	key := textnorm.ComparisonKey(name)
	if key == "" {
		return "", false
	}
	for _, id := range slices.Sorted(maps.Keys(items)) {
		if textnorm.ComparisonKey(items[id].Name) == key {
			return id, true
		}
	}
	return "", false
}

// UpsertByName adds a new needed item, or reactivates an existing item with
// the same comparison key. Reactivation sets Needed and keeps the existing
// aisle and quantity; a deactivated item's quantity of 0 is raised to 1 like
// any other transition to needed.
func UpsertByName(items models.Items, name, aisleID string) models.Items {
	normalized := textnorm.Normalize(name)
	if normalized == "" {
		return items
	}

	next := items.Clone()
	if id, ok := lookupID(items, normalized); ok {
		existing := next[id]
		existing.Needed = true
		existing.Quantity = max(existing.Quantity, 1)
		next[id] = existing
		return next
	}

	// A slug collision with an unrelated name overwrites the old record.
	id := textnorm.DeriveID(normalized)
	next[id] = models.Item{
		ID:       id,
		Name:     normalized,
		AisleID:  aisleID,
		Quantity: 1,
		Needed:   true,
		InCart:   false,
	}
	return next
}

// Edit overwrites the name and aisle of an existing item. Quantity, Needed
// and InCart are untouched. An unknown id or a blank name is a no-op.
func Edit(items models.Items, id, newName, newAisleID string) models.Items {
	current, ok := items[id]
	if !ok {
		return items
	}
	normalized := textnorm.Normalize(newName)
	if normalized == "" {
		return items
	}

	next := items.Clone()
	current.Name = normalized
	current.AisleID = newAisleID
	next[id] = current
	return next
}

// ToggleNeeded flips Needed. Activating raises quantity to at least 1,
// deactivating drives it to 0.
func ToggleNeeded(items models.Items, id string) models.Items {
	return update(items, id, func(item *models.Item) {
		item.Needed = !item.Needed
		if item.Needed {
			item.Quantity = max(item.Quantity, 1)
		} else {
			item.Quantity = 0
		}
	})
}

// ToggleInCart flips InCart regardless of Needed.
func ToggleInCart(items models.Items, id string) models.Items {
	return update(items, id, func(item *models.Item) {
		item.InCart = !item.InCart
	})
}

// ChangeQuantity adds delta to the quantity, clamping at a floor of 1 and
// saturating at math.MaxInt. Needed is untouched.
func ChangeQuantity(items models.Items, id string, delta int) models.Items {
	return update(items, id, func(item *models.Item) {
		switch {
		case delta > 0 && item.Quantity > math.MaxInt-delta:
			item.Quantity = math.MaxInt
		case delta < 0 && item.Quantity < math.MinInt-delta:
			item.Quantity = 1
		default:
			item.Quantity = max(1, item.Quantity+delta)
		}
	})
}

// Delete removes the item.
func Delete(items models.Items, id string) models.Items {
	if _, ok := items[id]; !ok {
		return items
	}
	next := items.Clone()
	delete(next, id)
	return next
}

// ResetCart clears InCart on every item.
func ResetCart(items models.Items) models.Items {
	next := items.Clone()
	for id, item := range next {
		item.InCart = false
		next[id] = item
	}
	return next
}

func update(items models.Items, id string, fn func(*models.Item)) models.Items {
	item, ok := items[id]
	if !ok {
		return items
	}
	next := items.Clone()
	fn(&item)
	next[id] = item
	return next
}
