package catalog

import (
	"testing"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
)

var testNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

func TestTimeLeft(t *testing.T) {
	end := testNow.Add(24*time.Hour + 2*time.Hour + 3*time.Minute)
	if got := TimeLeft(end, testNow); got != "1d 2h 3m" {
		t.Fatalf("TimeLeft = %q, want %q", got, "1d 2h 3m")
	}
}

func TestTimeLeft_SubMinute(t *testing.T) {
	if got := TimeLeft(testNow.Add(30*time.Second), testNow); got != "0d 0h 0m" {
		t.Fatalf("TimeLeft = %q, want %q", got, "0d 0h 0m")
	}
}

func TestTimeLeft_ExpiredStaysNegative(t *testing.T) {
	end := testNow.Add(-(24*time.Hour + 2*time.Hour + 3*time.Minute))
	got := TimeLeft(end, testNow)
	// No clamping: an expired offer renders its negative components.
	if got != "-2d -3h -3m" {
		t.Fatalf("TimeLeft = %q, want %q", got, "-2d -3h -3m")
	}
}

func TestNormalize_BundleOnly(t *testing.T) {
	entry := shop.RawCatalogEntry{
		Bundle:     &shop.Bundle{Name: "Lote Oscuro", Image: "https://cdn/bundle.png"},
		FinalPrice: 2800,
		OutDate:    testNow.Add(26 * time.Hour).Format(time.RFC3339),
		Layout:     &shop.Layout{Name: "Destacados"},
	}

	item := Normalize(entry, testNow)
	if item.Name != "Lote Oscuro" || item.ImageURL != "https://cdn/bundle.png" {
		t.Fatalf("bundle fields not resolved: %#v", item)
	}
	// No variant carries a rarity, so the label falls back to "Común" and maps
	// to the common grey, not the unknown-label default.
	if item.RarityColor != "#B8B8B8" {
		t.Fatalf("expected common grey, got %q", item.RarityColor)
	}
	if item.Price != 2800 || item.Category != "Destacados" {
		t.Fatalf("price/category not verbatim: %#v", item)
	}
	if item.Countdown != "1d 2h 0m" {
		t.Fatalf("countdown = %q", item.Countdown)
	}
}

func TestNormalize_NameChainOrder(t *testing.T) {
	entry := shop.RawCatalogEntry{
		BRItems: []shop.BRItem{{Name: "Skin Brillante", Rarity: &shop.Rarity{DisplayValue: "Épico"}}},
		Tracks:  []shop.Track{{Title: "Canción X"}},
	}
	item := Normalize(entry, testNow)
	if item.Name != "Skin Brillante" {
		t.Fatalf("brItems must outrank tracks in the generic chain, got %q", item.Name)
	}
	if item.RarityColor != "#911EFF" {
		t.Fatalf("rarity color = %q", item.RarityColor)
	}
}

func TestNormalize_UnknownRarityLabel(t *testing.T) {
	entry := shop.RawCatalogEntry{
		BRItems: []shop.BRItem{{Name: "Skin", Rarity: &shop.Rarity{DisplayValue: "Mythic"}}},
	}
	// A label outside the table takes the unknown-label default, unlike an
	// absent rarity which resolves to "Común" first.
	if item := Normalize(entry, testNow); item.RarityColor != defaultRarityColor {
		t.Fatalf("RarityColor = %q, want %q", item.RarityColor, defaultRarityColor)
	}
}

func TestNormalize_NoNameUsesSentinel(t *testing.T) {
	item := Normalize(shop.RawCatalogEntry{FinalPrice: 500}, testNow)
	if item.Name != "SIN NOMBRE" {
		t.Fatalf("expected sentinel name, got %q", item.Name)
	}
	if item.Category != "Otros" {
		t.Fatalf("expected fallback category, got %q", item.Category)
	}
	if item.ImageURL != "" {
		t.Fatalf("expected empty image, got %q", item.ImageURL)
	}
}

func TestNormalize_MusicLayoutForcesTrack(t *testing.T) {
	entry := shop.RawCatalogEntry{
		Bundle: &shop.Bundle{Name: "Lote Musical", Image: "https://cdn/bundle.png"},
		Tracks: []shop.Track{{Title: "Pista Real", AlbumArt: "https://cdn/album.png"}},
		Layout: &shop.Layout{Name: "Pistas de improvisación"},
	}
	item := Normalize(entry, testNow)
	if item.Name != "Pista Real" {
		t.Fatalf("music layout must take the track title over the bundle name, got %q", item.Name)
	}
	if item.ImageURL != "https://cdn/album.png" {
		t.Fatalf("music layout must take the album art, got %q", item.ImageURL)
	}
}

func TestNormalize_MusicLayoutWithoutTrack(t *testing.T) {
	entry := shop.RawCatalogEntry{
		Bundle: &shop.Bundle{Name: "Lote Musical"},
		Layout: &shop.Layout{Name: "Pistas de improvisación"},
	}
	item := Normalize(entry, testNow)
	// The override ignores the generic chain entirely, so no track means the
	// sentinel, not the bundle name.
	if item.Name != "SIN NOMBRE" {
		t.Fatalf("got %q", item.Name)
	}
}

func TestNormalize_CreatorLayoutForcesInstrument(t *testing.T) {
	entry := shop.RawCatalogEntry{
		Bundle: &shop.Bundle{Name: "Lote Festival"},
		Instruments: []shop.Instrument{{
			Name:   "Guitarra Neón",
			Images: &shop.InstrumentImages{Large: "https://cdn/guitar-large.png", Small: "https://cdn/guitar-small.png"},
			Rarity: &shop.Rarity{DisplayValue: "Raro"},
		}},
		Layout: &shop.Layout{Name: "Escenario de creadores"},
	}
	item := Normalize(entry, testNow)
	if item.Name != "Guitarra Neón" || item.ImageURL != "https://cdn/guitar-large.png" {
		t.Fatalf("creator layout must resolve from the instrument: %#v", item)
	}
	if item.RarityColor != "#0086FF" {
		t.Fatalf("rarity color = %q", item.RarityColor)
	}
}

func TestNormalize_ImageChainCarFallback(t *testing.T) {
	entry := shop.RawCatalogEntry{
		Cars: []shop.Car{{
			Name:   "Bólido",
			Images: &shop.CarImages{Small: "https://cdn/car-small.png"},
			Rarity: &shop.Rarity{DisplayValue: "Legendario"},
		}},
		Layout: &shop.Layout{Name: "Pistas y motores"},
	}
	item := Normalize(entry, testNow)
	if item.ImageURL != "https://cdn/car-small.png" {
		t.Fatalf("car small image must be used when large is absent, got %q", item.ImageURL)
	}
	if item.Name != "Bólido" || item.RarityColor != "#FF8000" {
		t.Fatalf("car fields not resolved: %#v", item)
	}
}

func TestNormalize_NewDisplayAssetOutranksBundleImage(t *testing.T) {
	entry := shop.RawCatalogEntry{
		Bundle: &shop.Bundle{Name: "Lote", Image: "https://cdn/bundle.png"},
		NewDisplayAsset: &shop.NewDisplayAsset{
			RenderImages: []shop.RenderImage{{Image: "https://cdn/render.png"}},
		},
	}
	if item := Normalize(entry, testNow); item.ImageURL != "https://cdn/render.png" {
		t.Fatalf("render image must outrank bundle image, got %q", item.ImageURL)
	}
}

func TestNormalize_UnparsableOutDate(t *testing.T) {
	item := Normalize(shop.RawCatalogEntry{Bundle: &shop.Bundle{Name: "Lote"}}, testNow)
	if item.Countdown != "0d 0h 0m" {
		t.Fatalf("missing outDate must degrade to zero countdown, got %q", item.Countdown)
	}
}
