// Package views computes read-only projections over the item mapping and the
// aisle registry. Nothing here is cached: every call works from the values it
// is given.
//
// Listings are ordered by item id. The mapping itself carries no order, so
// the id sort is what makes output reproducible.
package views

import (
	"sort"
	"strings"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

// Sorted returns every item ordered by id.
func Sorted(items models.Items) []models.Item {
	return filter(items, func(models.Item) bool { return true })
}

// GroupedByAisle returns the items assigned to aisle, ordered by id.
func GroupedByAisle(items models.Items, aisle string) []models.Item {
	return filter(items, func(item models.Item) bool {
		return item.AisleID == aisle
	})
}

// Unassigned returns the items whose aisle is not in the registry.
func Unassigned(items models.Items, list models.Aisles) []models.Item {
	return filter(items, func(item models.Item) bool {
		return !aisles.Contains(list, item.AisleID)
	})
}

// Progress counts needed items and needed items already in the cart.
func Progress(items models.Items) models.Progress {
	var p models.Progress
	for _, item := range items {
		if !item.Needed {
			continue
		}
		p.Needed++
		if item.InCart {
			p.InCart++
		}
	}
	return p
}

// IsTripComplete reports whether there is something to buy and all of it is
// in the cart.
func IsTripComplete(items models.Items) bool {
	p := Progress(items)
	return p.Needed > 0 && p.InCart == p.Needed
}

// AisleCompletion is Progress restricted to one aisle.
func AisleCompletion(items models.Items, aisle string) models.Completion {
	var c models.Completion
	for _, item := range items {
		if item.AisleID != aisle || !item.Needed {
			continue
		}
		c.Total++
		if item.InCart {
			c.Checked++
		}
	}
	return c
}

// ShouldOfferAislePicker reports whether the presentation layer should show
// the aisle picker: never with an empty registry; always while editing;
// otherwise only when the pending query would create a new item.
func ShouldOfferAislePicker(query string, items models.Items, list models.Aisles, isEditing bool) bool {
	if len(list) == 0 {
		return false
	}
	if isEditing {
		return true
	}
	key := textnorm.ComparisonKey(query)
	if key == "" {
		return false
	}
	for _, item := range items {
		if textnorm.ComparisonKey(item.Name) == key {
			return false
		}
	}
	return true
}

// Search returns the items whose name contains query, compared
// case-insensitively. A blank query matches everything.
func Search(items models.Items, query string) []models.Item {
	key := textnorm.ComparisonKey(query)
	return filter(items, func(item models.Item) bool {
		return strings.Contains(textnorm.ComparisonKey(item.Name), key)
	})
}

func filter(items models.Items, keep func(models.Item) bool) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
