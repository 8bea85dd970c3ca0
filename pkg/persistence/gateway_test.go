package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/models"
)

// failingStore fails every call with err.
type failingStore struct {
	err    error
	writes int
}

func (f *failingStore) ReadMany(context.Context, []string) (map[string][]byte, error) {
	return nil, f.err
}

func (f *failingStore) WriteMany(context.Context, map[string][]byte) error {
	f.writes++
	return f.err
}

func (f *failingStore) Driver() blob.Driver { return "failing" }
func (f *failingStore) Close() error        { return nil }

// slowStore blocks until the context expires.
type slowStore struct{ blob.Store }

func (s slowStore) ReadMany(ctx context.Context, _ []string) (map[string][]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestGateway(t *testing.T, store blob.Store, opts ...Option) (*Gateway, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewGateway(store, logrus.NewEntry(logger), opts...), hook
}

func seed(t *testing.T, store blob.Store, aisles, items string) {
	t.Helper()
	entries := map[string][]byte{}
	if aisles != "" {
		entries[AislesKey] = []byte(aisles)
	}
	if items != "" {
		entries[ItemsKey] = []byte(items)
	}
	require.NoError(t, store.WriteMany(context.Background(), entries))
}

func warnings(hook *test.Hook) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}

func TestHydrateEmptyStoreUsesDefaults(t *testing.T) {
	g, hook := newTestGateway(t, blob.NewMemory(), WithDefaultAisles(models.Aisles{"Produce", "Dairy"}))

	snap := g.Hydrate(context.Background())
	assert.Equal(t, models.Aisles{"Produce", "Dairy"}, snap.Aisles)
	assert.Empty(t, snap.Items)
	assert.True(t, g.Hydrated())
	assert.Zero(t, warnings(hook))
}

func TestHydrateLoadsBothBlobs(t *testing.T) {
	store := blob.NewMemory()
	seed(t, store, `["Fridge","Pantry"]`,
		`{"milk":{"id":"milk","name":"Milk","aisleId":"Fridge","quantity":2,"needed":true,"inCart":false}}`)
	g, _ := newTestGateway(t, store, WithDefaultAisles(models.Aisles{"Produce"}))

	snap := g.Hydrate(context.Background())
	assert.Equal(t, models.Aisles{"Fridge", "Pantry"}, snap.Aisles)
	assert.Equal(t, models.Item{ID: "milk", Name: "Milk", AisleID: "Fridge", Quantity: 2, Needed: true}, snap.Items["milk"])
}

func TestHydrateMalformedAislesKeepsItems(t *testing.T) {
	store := blob.NewMemory()
	seed(t, store, `"not an array"`,
		`{"a":{"id":"a","name":"A","aisleId":"Fridge","quantity":1,"needed":true,"inCart":false}}`)
	g, hook := newTestGateway(t, store, WithDefaultAisles(models.Aisles{"Produce"}))

	snap := g.Hydrate(context.Background())
	assert.Equal(t, models.Aisles{"Produce"}, snap.Aisles)
	require.Contains(t, snap.Items, "a")
	assert.Equal(t, "A", snap.Items["a"].Name)
	assert.Equal(t, 1, warnings(hook))
}

func TestHydrateUsesKeyAsItemID(t *testing.T) {
	store := blob.NewMemory()
	seed(t, store, `["Fridge"]`,
		`{"a":{"id":"milk","name":"Milk","aisleId":"Fridge","quantity":1,"needed":true,"inCart":false}}`)
	g, hook := newTestGateway(t, store)

	snap := g.Hydrate(context.Background())
	require.Contains(t, snap.Items, "a")
	assert.Equal(t, "a", snap.Items["a"].ID)
	assert.Equal(t, "Milk", snap.Items["a"].Name)
	assert.NotContains(t, snap.Items, "milk")
	assert.Zero(t, warnings(hook))
}

func TestHydrateRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name        string
		aisles      string
		items       string
		wantAisles  models.Aisles
		wantItemIDs []string
	}{
		{"aisles with non string", `["Dairy", 3]`, `{}`, models.Aisles{"Produce"}, nil},
		{"aisles null element", `["Dairy", null]`, `{}`, models.Aisles{"Produce"}, nil},
		{"aisles null", `null`, `{}`, models.Aisles{"Produce"}, nil},
		{"aisles object", `{"a":"b"}`, `{}`, models.Aisles{"Produce"}, nil},
		{"items array", `["Dairy"]`, `[1,2]`, models.Aisles{"Dairy"}, nil},
		{"items garbage", `["Dairy"]`, `{{{`, models.Aisles{"Dairy"}, nil},
		{"items null", `["Dairy"]`, `null`, models.Aisles{"Dairy"}, nil},
		{"empty aisles array", `[]`, `{}`, models.Aisles{}, nil},
		{
			"bad item entry skipped",
			`["Dairy"]`,
			`{"ok":{"id":"ok","name":"Ok","aisleId":"Dairy","quantity":1,"needed":true},"bad":{"quantity":"lots"},"num":7}`,
			models.Aisles{"Dairy"},
			[]string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := blob.NewMemory()
			seed(t, store, tt.aisles, tt.items)
			g, _ := newTestGateway(t, store, WithDefaultAisles(models.Aisles{"Produce"}))

			snap := g.Hydrate(context.Background())
			assert.Equal(t, tt.wantAisles, snap.Aisles)

			var ids []string
			for id := range snap.Items {
				ids = append(ids, id)
			}
			assert.ElementsMatch(t, tt.wantItemIDs, ids)
		})
	}
}

func TestHydrateReadFailureLogsAndDefaults(t *testing.T) {
	g, hook := newTestGateway(t, &failingStore{err: errors.New("disk on fire")}, WithDefaultAisles(models.Aisles{"Produce"}))

	snap := g.Hydrate(context.Background())
	assert.Equal(t, models.Aisles{"Produce"}, snap.Aisles)
	assert.Empty(t, snap.Items)
	assert.True(t, g.Hydrated(), "a failed load still completes hydration")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestHydrateTimeout(t *testing.T) {
	g, _ := newTestGateway(t, slowStore{}, WithTimeout(20*time.Millisecond))

	start := time.Now()
	snap := g.Hydrate(context.Background())
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, snap.Items)
	assert.True(t, g.Hydrated())
}

func TestPersistBeforeHydrateWritesNothing(t *testing.T) {
	store := &failingStore{}
	g, _ := newTestGateway(t, store)

	err := g.Persist(context.Background(), models.Snapshot{Aisles: models.Aisles{"Dairy"}})
	assert.ErrorIs(t, err, ErrNotHydrated)
	assert.Zero(t, store.writes)
}

func TestPersistRoundTrip(t *testing.T) {
	store := blob.NewMemory()
	g, _ := newTestGateway(t, store)
	g.Hydrate(context.Background())

	snap := models.Snapshot{
		Aisles: models.Aisles{"Fridge"},
		Items: models.Items{
			"milk": {ID: "milk", Name: "Milk", AisleID: "Fridge", Quantity: 1, Needed: true},
		},
	}
	require.NoError(t, g.Persist(context.Background(), snap))

	raw, err := store.ReadMany(context.Background(), []string{AislesKey, ItemsKey})
	require.NoError(t, err)
	assert.JSONEq(t, `["Fridge"]`, string(raw[AislesKey]))
	assert.JSONEq(t, `{"milk":{"id":"milk","name":"Milk","aisleId":"Fridge","quantity":1,"needed":true,"inCart":false}}`, string(raw[ItemsKey]))

	reloaded, _ := newTestGateway(t, store)
	assert.Equal(t, snap, reloaded.Hydrate(context.Background()))
}

func TestPersistNilCollectionsWriteEmptyJSON(t *testing.T) {
	store := blob.NewMemory()
	g, _ := newTestGateway(t, store)
	g.Hydrate(context.Background())

	require.NoError(t, g.Persist(context.Background(), models.Snapshot{}))

	raw, err := store.ReadMany(context.Background(), []string{AislesKey, ItemsKey})
	require.NoError(t, err)
	var aisles []string
	require.NoError(t, json.Unmarshal(raw[AislesKey], &aisles))
	assert.NotNil(t, aisles)
	assert.Equal(t, "{}", string(raw[ItemsKey]))
}

func TestPersistWriteFailure(t *testing.T) {
	store := &failingStore{}
	g, _ := newTestGateway(t, store)
	g.Hydrate(context.Background())

	store.err = errors.New("read-only filesystem")
	err := g.Persist(context.Background(), models.Snapshot{})
	assert.ErrorContains(t, err, "read-only filesystem")
	assert.Equal(t, 1, store.writes)
}
