package migration

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/persistence"
)

func damagedSnapshot() models.Snapshot {
	return models.Snapshot{
		Aisles: models.Aisles{"Produce", "Dairy", "dairy"},
		Items: models.Items{
			"milk":   {ID: "milk", Name: "Milk", AisleID: "Dairy", Quantity: 1, Needed: true},
			"eggs":   {ID: "EGGS", Name: "  Free   Range Eggs ", AisleID: "Dairy", Quantity: 0, Needed: true},
			"ghost":  {ID: "ghost", Name: "Ghost", AisleID: "Gone", Quantity: -2},
			"milk-2": {ID: "milk-2", Name: "MILK", AisleID: "Dairy", Quantity: 3},
			"blank":  {ID: "blank", Name: "   ", AisleID: "Produce"},
		},
	}
}

func issueTypes(issues []MigrationIssue) map[string][]string {
	out := make(map[string][]string)
	for _, issue := range issues {
		subject := issue.ItemID
		if subject == "" {
			subject = issue.Current.(string)
		}
		out[issue.Type] = append(out[issue.Type], subject)
	}
	return out
}

func TestAnalyzeSnapshot(t *testing.T) {
	issues := NewAnalyzer().AnalyzeSnapshot(damagedSnapshot())

	assert.Equal(t, map[string][]string{
		IssueKeyMismatch:    {"eggs"},
		IssueUnnormalized:   {"eggs"},
		IssueEmptyName:      {"blank"},
		IssueQuantity:       {"eggs", "ghost"},
		IssueDanglingAisle:  {"ghost"},
		IssueDuplicateName:  {"milk-2"},
		IssueDuplicateAisle: {"dairy"},
	}, issueTypes(issues))
}

func TestAnalyzeHealthySnapshot(t *testing.T) {
	s := models.Snapshot{
		Aisles: models.Aisles{"Produce"},
		Items: models.Items{
			"apples": {ID: "apples", Name: "Apples", AisleID: "Produce", Quantity: 1, Needed: true},
			"pears":  {ID: "pears", Name: "Pears", AisleID: "Produce", Quantity: 2, Needed: false},
		},
	}
	assert.Empty(t, NewAnalyzer().AnalyzeSnapshot(s), "a not-needed item may keep a positive quantity")
}

func TestRepair(t *testing.T) {
	s := damagedSnapshot()
	repaired := Repair(s, NewAnalyzer().AnalyzeSnapshot(s))

	assert.Equal(t, models.Item{ID: "eggs", Name: "Free Range Eggs", AisleID: "Dairy", Quantity: 1, Needed: true}, repaired.Items["eggs"])
	assert.Equal(t, 0, repaired.Items["ghost"].Quantity)
	assert.Equal(t, "Gone", repaired.Items["ghost"].AisleID, "dangling aisles are reported, not changed")
	assert.Equal(t, s.Aisles, repaired.Aisles)

	assert.Equal(t, "EGGS", s.Items["eggs"].ID, "the input is not modified")

	remaining := NewAnalyzer().AnalyzeSnapshot(repaired)
	for _, issue := range remaining {
		assert.False(t, issue.Fixable, "fixable issue left after repair: %+v", issue)
	}
}

func TestCheckSnapshotDryRun(t *testing.T) {
	var out bytes.Buffer
	m := NewMigrator(MigrationOptions{DryRun: true, Verbose: true}, &out, nil)

	s := damagedSnapshot()
	result, issues := m.CheckSnapshot(s)
	assert.Equal(t, s, result)
	assert.Len(t, issues, 8)
	assert.Equal(t, 8, m.Report().IssuesFound)
	assert.Zero(t, m.Report().IssuesFixed)
	assert.Equal(t, 5, m.Report().ItemsChecked)
	assert.Contains(t, out.String(), "eggs [key_mismatch]")
	assert.Contains(t, out.String(), "aisles [duplicate_aisle]")
}

func TestCheckSnapshotFix(t *testing.T) {
	m := NewMigrator(MigrationOptions{}, nil, nil)

	result, _ := m.CheckSnapshot(damagedSnapshot())
	assert.Equal(t, 4, m.Report().IssuesFixed)
	assert.Equal(t, "eggs", result.Items["eggs"].ID)
}

func seededStore(t *testing.T) *blob.Memory {
	t.Helper()
	src := blob.NewMemory()
	require.NoError(t, src.WriteMany(context.Background(), map[string][]byte{
		persistence.AislesKey: []byte(`["Produce"]`),
		persistence.ItemsKey:  []byte(`{"apples":{"id":"apples","name":"Apples","aisleId":"Produce","quantity":1,"needed":true,"inCart":false}}`),
	}))
	return src
}

func TestCopyStore(t *testing.T) {
	src := seededStore(t)
	dst, err := blob.NewSQLite(t.TempDir() + "/shop.db")
	require.NoError(t, err)
	defer dst.Close()

	var out bytes.Buffer
	m := NewMigrator(MigrationOptions{Verbose: true}, &out, nil)
	require.NoError(t, m.CopyStore(context.Background(), src, dst))
	assert.Equal(t, 2, m.Report().BlobsCopied)

	g := persistence.NewGateway(dst, nil)
	snap := g.Hydrate(context.Background())
	assert.Equal(t, models.Aisles{"Produce"}, snap.Aisles)
	assert.Contains(t, snap.Items, "apples")
	assert.Contains(t, out.String(), "copied")
}

func TestCopyStoreDryRun(t *testing.T) {
	src := seededStore(t)
	dst := blob.NewMemory()

	m := NewMigrator(MigrationOptions{DryRun: true}, nil, nil)
	require.NoError(t, m.CopyStore(context.Background(), src, dst))
	assert.Equal(t, 2, m.Report().BlobsCopied)

	got, err := dst.ReadMany(context.Background(), []string{persistence.AislesKey, persistence.ItemsKey})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCopyStoreEmptySource(t *testing.T) {
	m := NewMigrator(MigrationOptions{}, nil, nil)
	require.NoError(t, m.CopyStore(context.Background(), blob.NewMemory(), blob.NewMemory()))
	assert.Zero(t, m.Report().BlobsCopied)
}
