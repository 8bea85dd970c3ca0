package migration

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// AnalyzeSnapshot reports every inconsistency in s, item issues first in key
// order, then aisle issues in registry order.
func (a *Analyzer) AnalyzeSnapshot(s models.Snapshot) []MigrationIssue {
	issues := []MigrationIssue{}
	seenNames := make(map[string]string)

	for _, key := range slices.Sorted(maps.Keys(s.Items)) {
		item := s.Items[key]

		if item.ID != key {
			issues = append(issues, MigrationIssue{
				Type:        IssueKeyMismatch,
				Description: fmt.Sprintf("Item stored under %q carries id %q", key, item.ID),
				ItemID:      key,
				Current:     item.ID,
				Expected:    key,
				Fixable:     true,
			})
		}

		normalized := textnorm.Normalize(item.Name)
		switch {
		case normalized == "":
			issues = append(issues, MigrationIssue{
				Type:        IssueEmptyName,
				Description: "Item has no name",
				ItemID:      key,
				Current:     item.Name,
			})
		case normalized != item.Name:
			issues = append(issues, MigrationIssue{
				Type:        IssueUnnormalized,
				Description: "Name has extra whitespace",
				ItemID:      key,
				Current:     item.Name,
				Expected:    normalized,
				Fixable:     true,
			})
		}

		if want, ok := expectedQuantity(item); !ok {
			issues = append(issues, MigrationIssue{
				Type:        IssueQuantity,
				Description: fmt.Sprintf("Quantity %d is invalid for needed=%t", item.Quantity, item.Needed),
				ItemID:      key,
				Current:     item.Quantity,
				Expected:    want,
				Fixable:     true,
			})
		}

		if !aisles.Contains(s.Aisles, item.AisleID) {
			issues = append(issues, MigrationIssue{
				Type:        IssueDanglingAisle,
				Description: fmt.Sprintf("Aisle %q is not registered", item.AisleID),
				ItemID:      key,
				Current:     item.AisleID,
			})
		}

		if nameKey := textnorm.ComparisonKey(item.Name); nameKey != "" {
			if first, dup := seenNames[nameKey]; dup {
				issues = append(issues, MigrationIssue{
					Type:        IssueDuplicateName,
					Description: fmt.Sprintf("Same name as item %q", first),
					ItemID:      key,
					Current:     item.Name,
				})
			} else {
				seenNames[nameKey] = key
			}
		}
	}

	seenAisles := make(map[string]string)
	for _, aisle := range s.Aisles {
		aisleKey := textnorm.ComparisonKey(aisle)
		if first, dup := seenAisles[aisleKey]; dup {
			issues = append(issues, MigrationIssue{
				Type:        IssueDuplicateAisle,
				Description: fmt.Sprintf("Aisle %q duplicates %q", aisle, first),
				Current:     aisle,
			})
			continue
		}
		seenAisles[aisleKey] = aisle
	}

	return issues
}

// expectedQuantity returns the nearest valid quantity and whether the current
// one is already valid. Needed items need at least one; quantities are never
// negative.
func expectedQuantity(item models.Item) (int, bool) {
	switch {
	case item.Needed && item.Quantity < 1:
		return 1, false
	case item.Quantity < 0:
		return 0, false
	default:
		return item.Quantity, true
	}
}

// Repair applies every fixable issue to a copy of s.
func Repair(s models.Snapshot, issues []MigrationIssue) models.Snapshot {
	out := s.Clone()
	for _, issue := range issues {
		if !issue.Fixable {
			continue
		}
		item, ok := out.Items[issue.ItemID]
		if !ok {
			continue
		}
		switch issue.Type {
		case IssueKeyMismatch:
			item.ID = issue.ItemID
		case IssueUnnormalized:
			item.Name = textnorm.Normalize(item.Name)
		case IssueQuantity:
			item.Quantity, _ = expectedQuantity(item)
		}
		out.Items[issue.ItemID] = item
	}
	return out
}
