// Package persistence mirrors the shopping state to a blob store: one blob for
// the aisle registry, one for the item mapping.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/models"
)

const (
	// AislesKey stores the aisle registry as a JSON array of strings.
	AislesKey = "@taskpile/aisles"
	// ItemsKey stores the item mapping as a JSON object keyed by item id.
	ItemsKey = "@taskpile/items"

	// DefaultTimeout bounds a single hydrate or persist round trip.
	DefaultTimeout = 5 * time.Second
)

// ErrNotHydrated is returned by Persist before Hydrate has completed. Writing
// earlier would overwrite saved data with the initial defaults.
var ErrNotHydrated = errors.New("persistence: state not hydrated")

// Gateway loads and saves the two state blobs.
type Gateway struct {
	store    blob.Store
	logger   *logrus.Entry
	timeout  time.Duration
	defaults models.Aisles
	hydrated atomic.Bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTimeout sets the I/O timeout applied to each hydrate or persist call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithDefaultAisles sets the aisle registry used when none is stored or the
// stored one is unreadable.
func WithDefaultAisles(aisles models.Aisles) Option {
	return func(g *Gateway) {
		g.defaults = aisles.Clone()
	}
}

// NewGateway creates a gateway over store.
func NewGateway(store blob.Store, logger *logrus.Entry, opts ...Option) *Gateway {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	g := &Gateway{
		store:    store,
		logger:   logger.WithField("component", "persistence"),
		timeout:  DefaultTimeout,
		defaults: models.Aisles{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Hydrated reports whether Hydrate has completed.
func (g *Gateway) Hydrated() bool {
	return g.hydrated.Load()
}

// Defaults returns the initial state used before or instead of stored data.
func (g *Gateway) Defaults() models.Snapshot {
	return models.NewSnapshot(g.defaults, models.Items{})
}

// Hydrate loads the stored state. It never fails: a read error leaves the
// whole state at its defaults, and each malformed blob falls back to its own
// default without affecting the other. The gateway is marked hydrated either
// way.
func (g *Gateway) Hydrate(ctx context.Context) models.Snapshot {
	defer g.hydrated.Store(true)

	snapshot := g.Defaults()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	entries, err := g.store.ReadMany(ctx, []string{AislesKey, ItemsKey})
	if err != nil {
		g.logger.WithError(err).Warn("Failed to load shopping state")
		return snapshot
	}

	if raw, ok := entries[AislesKey]; ok {
		aisles, err := decodeAisles(raw)
		if err != nil {
			g.logger.WithError(err).WithField("key", AislesKey).Warn("Ignoring stored aisles")
		} else {
			snapshot.Aisles = aisles
		}
	}

	if raw, ok := entries[ItemsKey]; ok {
		items, skipped, realigned, err := decodeItems(raw)
		if err != nil {
			g.logger.WithError(err).WithField("key", ItemsKey).Warn("Ignoring stored items")
		} else {
			snapshot.Items = items
		}
		if len(skipped) > 0 {
			g.logger.WithField("ids", skipped).Warn("Skipped unreadable stored items")
		}
		if len(realigned) > 0 {
			g.logger.WithField("ids", realigned).Info("Stored item ids differ from their keys, using the keys")
		}
	}

	g.logger.WithFields(logrus.Fields{
		"aisles": len(snapshot.Aisles),
		"items":  len(snapshot.Items),
	}).Debug("Hydrated shopping state")
	return snapshot
}

// Persist writes both blobs. It refuses to write before Hydrate completed.
func (g *Gateway) Persist(ctx context.Context, snapshot models.Snapshot) error {
	if !g.Hydrated() {
		return ErrNotHydrated
	}

	aisles := snapshot.Aisles
	if aisles == nil {
		aisles = models.Aisles{}
	}
	items := snapshot.Items
	if items == nil {
		items = models.Items{}
	}

	aislesBlob, err := json.Marshal(aisles)
	if err != nil {
		return fmt.Errorf("encode aisles: %w", err)
	}
	itemsBlob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.store.WriteMany(ctx, map[string][]byte{
		AislesKey: aislesBlob,
		ItemsKey:  itemsBlob,
	}); err != nil {
		return fmt.Errorf("persist shopping state: %w", err)
	}
	return nil
}

// decodeAisles accepts only a JSON array whose elements are all strings.
func decodeAisles(raw []byte) (models.Aisles, error) {
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("aisles blob is not an array: %w", err)
	}
	if values == nil {
		return nil, fmt.Errorf("aisles blob is null")
	}

	aisles := make(models.Aisles, 0, len(values))
	for i, v := range values {
		var s string
		if err := json.Unmarshal(v, &s); err != nil || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return nil, fmt.Errorf("aisles blob element %d is not a string", i)
		}
		aisles = append(aisles, s)
	}
	return aisles, nil
}

// decodeItems accepts a JSON object and keeps each entry under its stored
// key. The key is the item's identity: a record whose id field differs is
// given the key as its id and reported as realigned. Entries that do not
// decode into an item are skipped and reported.
func decodeItems(raw []byte) (items models.Items, skipped, realigned []string, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil, nil, fmt.Errorf("items blob is not an object")
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, nil, nil, fmt.Errorf("decode items blob: %w", err)
	}

	items = make(models.Items, len(values))
	for key, v := range values {
		var item models.Item
		if err := json.Unmarshal(v, &item); err != nil || !bytes.HasPrefix(bytes.TrimSpace(v), []byte("{")) {
			skipped = append(skipped, key)
			continue
		}
		if item.ID != key {
			item.ID = key
			realigned = append(realigned, key)
		}
		items[key] = item
	}
	sort.Strings(skipped)
	sort.Strings(realigned)
	return items, skipped, realigned, nil
}
