// Package aisles implements the ordered aisle registry.
package aisles

import (
	"slices"

	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

// Defaults is the initial registry used when nothing has been persisted yet.
var Defaults = models.Aisles{
	"Produce",
	"Bakery",
	"Dairy",
	"Meat & Fish",
	"Pantry",
	"Frozen",
	"Household",
}

// Add appends the normalized name unless an aisle with the same name, compared
// case-insensitively, already exists. Existing entries never move.
func Add(list models.Aisles, name string) models.Aisles {
	normalized := textnorm.Normalize(name)
	if normalized == "" {
		return list
	}
	if slices.ContainsFunc(list, func(existing string) bool {
		return textnorm.Equal(existing, normalized)
	}) {
		return list
	}

	next := make(models.Aisles, 0, len(list)+1)
	next = append(next, list...)
	return append(next, normalized)
}

// Contains reports whether name is registered, using exact string equality.
func Contains(list models.Aisles, name string) bool {
	return slices.Contains(list, name)
}

// Active returns the registered aisles holding at least one needed item, in
// registry order.
func Active(list models.Aisles, items models.Items) models.Aisles {
	needed := make(map[string]struct{})
	for _, item := range items {
		if item.Needed {
			needed[item.AisleID] = struct{}{}
		}
	}

	active := models.Aisles{}
	for _, aisle := range list {
		if _, ok := needed[aisle]; ok {
			active = append(active, aisle)
		}
	}
	return active
}

// Select applies the default-selection rule: with an empty registry nothing
// is selected; a missing or unknown current selection falls back to the first
// aisle; otherwise the current selection is kept.
func Select(list models.Aisles, current string) string {
	if len(list) == 0 {
		return ""
	}
	if current == "" || !Contains(list, current) {
		return list[0]
	}
	return current
}

// Resolve maps user input onto a registered aisle name. An exact match wins,
// then a case-insensitive one. The second result is false when nothing
// matches.
func Resolve(list models.Aisles, input string) (string, bool) {
	if Contains(list, input) {
		return input, true
	}
	idx := slices.IndexFunc(list, func(existing string) bool {
		return textnorm.Equal(existing, input)
	})
	if idx < 0 {
		return "", false
	}
	return list[idx], true
}
