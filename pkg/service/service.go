package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-shop/pkg/aisles"
	"github.com/mattsolo1/grove-shop/pkg/blob"
	"github.com/mattsolo1/grove-shop/pkg/itemstore"
	"github.com/mattsolo1/grove-shop/pkg/models"
	"github.com/mattsolo1/grove-shop/pkg/persistence"
	"github.com/mattsolo1/grove-shop/pkg/textnorm"
)

// ErrNoAisle is returned when an item is added without an aisle to file it under.
var ErrNoAisle = errors.New("no aisle selected")

// Service owns the shopping state and persists it after every mutation.
type Service struct {
	Config  *Config
	logger  *logrus.Entry
	store   blob.Store
	gateway *persistence.Gateway

	mu     sync.Mutex
	aisles models.Aisles
	items  models.Items

	started  bool
	hydrated bool
	closed   bool
	saves   chan models.Snapshot
	done    chan struct{}
}

// Config holds service configuration
type Config struct {
	DataDir       string
	DefaultAisles models.Aisles
	Timeout       time.Duration
}

// New creates a shopping service over store. State starts at the defaults
// until Initialize loads what was saved.
func New(config *Config, store blob.Store, logger *logrus.Logger) *Service {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	defaults := config.DefaultAisles
	if defaults == nil {
		defaults = aisles.Defaults
	}

	entry := logger.WithFields(logrus.Fields{
		"component": "service",
		"session":   uuid.NewString(),
	})
	gateway := persistence.NewGateway(store, entry,
		persistence.WithTimeout(config.Timeout),
		persistence.WithDefaultAisles(defaults),
	)
	initial := gateway.Defaults()

	return &Service{
		Config:  config,
		logger:  entry,
		store:   store,
		gateway: gateway,
		aisles:  initial.Aisles,
		items:   initial.Items,
		saves:   make(chan models.Snapshot, 1),
		done:    make(chan struct{}),
	}
}

// Initialize loads the saved state and starts the save worker. Calling it
// again is a no-op.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("service is shut down")
	}
	s.started = true
	s.mu.Unlock()

	snapshot := s.gateway.Hydrate(ctx)

	// Saves are only allowed from here on, once the loaded state is in place.
	s.mu.Lock()
	s.aisles = snapshot.Aisles
	s.items = snapshot.Items
	s.hydrated = true
	s.mu.Unlock()

	go s.saveWorker()
	return nil
}

// Shutdown stops accepting saves, waits for the pending one to finish and
// closes the store.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	started := s.started
	if started {
		close(s.saves)
	}
	s.mu.Unlock()

	if started {
		select {
		case <-s.done:
		case <-ctx.Done():
			s.logger.Warn("Shutdown interrupted before the last save finished")
		}
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Hydrated reports whether the saved state has been loaded and installed.
func (s *Service) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NewSnapshot(s.aisles, s.items)
}

// AddItem adds name under aisle, or marks the existing item with that name as
// needed again. A blank name is ignored.
func (s *Service) AddItem(name, aisle string) (models.Snapshot, error) {
	if textnorm.Normalize(name) == "" {
		return s.Snapshot(), nil
	}
	if textnorm.Normalize(aisle) == "" {
		return s.Snapshot(), ErrNoAisle
	}
	return s.mutateItems("add", func(items models.Items) models.Items {
		return itemstore.UpsertByName(items, name, aisle)
	}), nil
}

func (s *Service) EditItem(id, name, aisle string) models.Snapshot {
	return s.mutateItems("edit", func(items models.Items) models.Items {
		return itemstore.Edit(items, id, name, aisle)
	})
}

func (s *Service) DeleteItem(id string) models.Snapshot {
	return s.mutateItems("delete", func(items models.Items) models.Items {
		return itemstore.Delete(items, id)
	})
}

func (s *Service) ToggleNeeded(id string) models.Snapshot {
	return s.mutateItems("toggle-needed", func(items models.Items) models.Items {
		return itemstore.ToggleNeeded(items, id)
	})
}

func (s *Service) ToggleInCart(id string) models.Snapshot {
	return s.mutateItems("toggle-in-cart", func(items models.Items) models.Items {
		return itemstore.ToggleInCart(items, id)
	})
}

func (s *Service) ChangeQuantity(id string, delta int) models.Snapshot {
	return s.mutateItems("change-quantity", func(items models.Items) models.Items {
		return itemstore.ChangeQuantity(items, id, delta)
	})
}

// ResetCart takes every item out of the cart.
func (s *Service) ResetCart() models.Snapshot {
	return s.mutateItems("reset-cart", itemstore.ResetCart)
}

// AddAisle appends name to the registry unless an aisle with the same name in
// any casing exists.
func (s *Service) AddAisle(name string) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.aisles = aisles.Add(s.aisles, name)
	s.logger.WithField("aisle", name).Debug("Applied add-aisle")
	return s.commitLocked()
}

// Restore replaces the whole state with snapshot, as an import or a repair
// does.
func (s *Service) Restore(snapshot models.Snapshot) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored := snapshot.Clone()
	for key, item := range restored.Items {
		item.ID = key
		restored.Items[key] = item
	}
	s.aisles = restored.Aisles
	s.items = restored.Items
	s.logger.WithFields(logrus.Fields{
		"aisles": len(s.aisles),
		"items":  len(s.items),
	}).Debug("Restored state")
	return s.commitLocked()
}

func (s *Service) mutateItems(op string, fn func(models.Items) models.Items) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = fn(s.items)
	s.logger.WithField("op", op).Debug("Applied item mutation")
	return s.commitLocked()
}

// commitLocked snapshots the state and hands it to the save worker. Saves are
// only queued once the loaded state is installed. Must be called with s.mu held.
func (s *Service) commitLocked() models.Snapshot {
	snapshot := models.NewSnapshot(s.aisles, s.items)
	if !s.hydrated || s.closed {
		return snapshot
	}

	// Latest wins: drop a save that has not been picked up yet.
	select {
	case <-s.saves:
	default:
	}
	s.saves <- snapshot.Clone()
	return snapshot
}

func (s *Service) saveWorker() {
	defer close(s.done)
	for snapshot := range s.saves {
		if err := s.gateway.Persist(context.Background(), snapshot); err != nil {
			s.logger.WithError(err).Warn("Failed to save shopping state")
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"aisles": len(snapshot.Aisles),
			"items":  len(snapshot.Items),
		}).Debug("Saved shopping state")
	}
}
