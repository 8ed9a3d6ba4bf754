// Package catalog implements the shop pipeline: fetching the raw feed,
// normalizing its variant-shaped entries, indexing them by category and
// serving search-filtered views.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
	"github.com/kiddarkness/itemshop/internal/app/metrics"
	"github.com/kiddarkness/itemshop/internal/app/storage"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

// Service owns the normalized catalog snapshot and its refresh cycle.
type Service struct {
	store   storage.SnapshotStore
	fetcher Fetcher
	log     *logger.Logger
	now     func() time.Time
}

// New constructs a catalog service over the given snapshot store.
func New(store storage.SnapshotStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("catalog")
	}
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// AttachFetcher assigns the fetcher used to retrieve the external feed.
func (s *Service) AttachFetcher(fetcher Fetcher) {
	s.fetcher = fetcher
}

// Refresh fetches the raw feed and rebuilds the snapshot wholesale. A failed
// fetch stores an empty snapshot (the loading state must clear either way)
// and returns the error for logging; it is not retried within the cycle.
func (s *Service) Refresh(ctx context.Context) (shop.Snapshot, error) {
	if s.fetcher == nil {
		return shop.Snapshot{}, fmt.Errorf("no catalog fetcher attached")
	}

	entries, err := s.fetcher.Fetch(ctx)
	if err != nil {
		empty := shop.Snapshot{FetchedAt: s.now().UTC()}
		if putErr := s.store.PutSnapshot(ctx, empty); putErr != nil {
			s.log.WithError(putErr).Warn("store empty snapshot failed")
		}
		metrics.RecordCatalogFetch("error", 0)
		return empty, fmt.Errorf("catalog fetch: %w", err)
	}

	snap := BuildIndex(entries, s.now())
	if err := s.store.PutSnapshot(ctx, snap); err != nil {
		metrics.RecordCatalogFetch("error", 0)
		return shop.Snapshot{}, fmt.Errorf("store snapshot: %w", err)
	}

	metrics.RecordCatalogFetch("success", snap.TotalCount)
	s.log.WithField("total_count", snap.TotalCount).
		WithField("categories", len(snap.Categories)).
		Info("catalog refreshed")
	return snap, nil
}

// Snapshot returns the current catalog. Before the first successful refresh
// it returns an empty snapshot rather than an error.
func (s *Service) Snapshot(ctx context.Context) (shop.Snapshot, error) {
	snap, err := s.store.GetSnapshot(ctx)
	if err != nil {
		return shop.Snapshot{}, nil
	}
	return snap, nil
}

// Search returns the category lists narrowed by term along with the full
// snapshot's total count.
func (s *Service) Search(ctx context.Context, term string) ([]shop.Category, int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}
	return Filter(snap.Categories, term), snap.TotalCount, nil
}

// Lookup finds a display item by name within a category. Category may be
// empty, in which case the first name match across the index wins.
func (s *Service) Lookup(ctx context.Context, name, category string) (shop.DisplayItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return shop.DisplayItem{}, fmt.Errorf("item name is required")
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return shop.DisplayItem{}, err
	}
	for _, cat := range snap.Categories {
		if category != "" && cat.Name != category {
			continue
		}
		for _, item := range cat.Items {
			if item.Name == name {
				return item, nil
			}
		}
	}
	return shop.DisplayItem{}, fmt.Errorf("item %s not found", name)
}
