package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
	"github.com/kiddarkness/itemshop/internal/app/storage/memory"
)

func testFeed() []shop.RawCatalogEntry {
	return []shop.RawCatalogEntry{
		rawEntry("Lote Oscuro", "Destacados"),
		rawEntry("Luz Diurna", "Destacados"),
		rawEntry("Paso Oscuro", "Diario"),
	}
}

func newTestService(t *testing.T, feed []shop.RawCatalogEntry, fetchErr error) *Service {
	t.Helper()
	svc := New(memory.New(), nil)
	svc.now = func() time.Time { return testNow }
	svc.AttachFetcher(FetcherFunc(func(ctx context.Context) ([]shop.RawCatalogEntry, error) {
		return feed, fetchErr
	}))
	return svc
}

func TestService_Refresh(t *testing.T) {
	svc := newTestService(t, testFeed(), nil)

	snap, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if snap.TotalCount != 3 || len(snap.Categories) != 2 {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}

	stored, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if stored.TotalCount != 3 {
		t.Fatalf("stored snapshot total = %d, want 3", stored.TotalCount)
	}
}

func TestService_Refresh_FetchErrorStoresEmptySnapshot(t *testing.T) {
	svc := newTestService(t, nil, fmt.Errorf("upstream down"))

	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected fetch error to surface")
	}

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalCount != 0 || len(snap.Categories) != 0 {
		t.Fatalf("failed refresh must store an empty snapshot: %#v", snap)
	}
	if snap.FetchedAt.IsZero() {
		t.Fatal("empty snapshot must still be stamped")
	}
}

func TestService_Refresh_NoFetcher(t *testing.T) {
	svc := New(memory.New(), nil)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error without a fetcher")
	}
}

func TestService_Snapshot_BeforeFirstRefresh(t *testing.T) {
	svc := New(memory.New(), nil)
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.TotalCount != 0 || snap.Categories != nil {
		t.Fatalf("expected empty snapshot before first refresh: %#v", snap)
	}
}

func TestService_Search(t *testing.T) {
	svc := newTestService(t, testFeed(), nil)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	categories, total, err := svc.Search(context.Background(), "oscuro")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	// Total always reflects the full snapshot, not the filtered view.
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	if len(categories[0].Items) != 1 || categories[0].Items[0].Name != "Lote Oscuro" {
		t.Fatalf("unexpected matches: %#v", categories[0])
	}
}

func TestService_Lookup(t *testing.T) {
	svc := newTestService(t, testFeed(), nil)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	item, err := svc.Lookup(context.Background(), "Paso Oscuro", "Diario")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if item.Category != "Diario" {
		t.Fatalf("item category = %q", item.Category)
	}

	if _, err := svc.Lookup(context.Background(), "Paso Oscuro", "Destacados"); err == nil {
		t.Fatal("expected miss when category does not match")
	}
	if _, err := svc.Lookup(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty name")
	}

	item, err = svc.Lookup(context.Background(), "Luz Diurna", "")
	if err != nil {
		t.Fatalf("Lookup without category: %v", err)
	}
	if item.Name != "Luz Diurna" {
		t.Fatalf("item = %#v", item)
	}
}

func TestRefresher_StartRefreshesImmediately(t *testing.T) {
	svc := newTestService(t, testFeed(), nil)
	refresher := NewRefresher(svc, "@every 1h", nil)

	if err := refresher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer refresher.Stop(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, _ := svc.Snapshot(context.Background())
		if snap.TotalCount == 3 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("snapshot not populated after Start")
}

func TestRefresher_StopIsIdempotent(t *testing.T) {
	svc := newTestService(t, testFeed(), nil)
	refresher := NewRefresher(svc, "@every 1h", nil)

	if err := refresher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := refresher.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := refresher.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestRefresher_InvalidSpec(t *testing.T) {
	svc := newTestService(t, testFeed(), nil)
	refresher := NewRefresher(svc, "not a cron spec", nil)
	if err := refresher.Start(context.Background()); err == nil {
		refresher.Stop(context.Background())
		t.Fatal("expected error for invalid cron spec")
	}
}
