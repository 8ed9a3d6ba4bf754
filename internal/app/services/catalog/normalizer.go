package catalog

import (
	"fmt"
	"time"

	"github.com/kiddarkness/itemshop/internal/app/domain/shop"
)

// fallbackName labels entries whose variants carry no recognizable name.
const fallbackName = "SIN NOMBRE"

// fallbackCategory buckets entries whose layout is absent.
const fallbackCategory = "Otros"

// defaultRarityLabel is assumed when no variant carries a rarity.
const defaultRarityLabel = "Común"

// musicLayouts are the shop sections whose entries are jam tracks. For these
// the track variant is authoritative for name and image, even when a bundle
// wrapper is present.
var musicLayouts = map[string]bool{
	"Pistas de improvisación": true,
	"Música de Festival":      true,
}

// creatorLayout is the shop section whose entries are creator-made
// instruments; the instrument variant is authoritative there.
const creatorLayout = "Escenario de creadores"

// TimeLeft formats the remaining time until end as "{d}d {h}h {m}m" using
// floor division over 24-hour days and 60-minute hours. An already-expired
// end produces negative components; callers render them as-is.
func TimeLeft(end, now time.Time) string {
	diff := end.Sub(now).Milliseconds()
	days := floorDiv(diff, 24*60*60*1000)
	hours := floorDiv(diff%(24*60*60*1000), 60*60*1000)
	minutes := floorDiv(diff%(60*60*1000), 60*1000)
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Normalize maps one raw catalog entry to its display model. Each output
// attribute is resolved by a fixed-priority chain across the entry's variant
// sub-records, stopping at the first populated value. Music and creator
// layouts override the generic name/image chains with variant-only
// resolution; those stay named special cases because they change precedence
// rather than add a source.
func Normalize(entry shop.RawCatalogEntry, now time.Time) shop.DisplayItem {
	category := fallbackCategory
	if entry.Layout != nil && entry.Layout.Name != "" {
		category = entry.Layout.Name
	}

	var name, image string
	switch {
	case musicLayouts[category]:
		if len(entry.Tracks) > 0 {
			name = entry.Tracks[0].Title
			image = entry.Tracks[0].AlbumArt
		}
	case category == creatorLayout:
		if len(entry.Instruments) > 0 {
			name = entry.Instruments[0].Name
			image = instrumentImage(entry.Instruments[0])
		}
	default:
		name = resolveName(entry)
		image = resolveImage(entry)
	}
	if name == "" {
		name = fallbackName
	}

	return shop.DisplayItem{
		Name:        name,
		ImageURL:    image,
		Price:       entry.FinalPrice,
		Countdown:   TimeLeft(parseOutDate(entry.OutDate, now), now),
		RarityColor: RarityColor(resolveRarity(entry)),
		Category:    category,
	}
}

// parseOutDate reads the feed's ISO expiry. An absent or unparsable value
// degrades to "0d 0h 0m" rather than dropping the entry.
func parseOutDate(raw string, now time.Time) time.Time {
	end, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return now
	}
	return end
}

func resolveName(entry shop.RawCatalogEntry) string {
	if entry.Bundle != nil && entry.Bundle.Name != "" {
		return entry.Bundle.Name
	}
	if len(entry.BRItems) > 0 && entry.BRItems[0].Name != "" {
		return entry.BRItems[0].Name
	}
	if len(entry.Instruments) > 0 && entry.Instruments[0].Name != "" {
		return entry.Instruments[0].Name
	}
	if len(entry.Tracks) > 0 && entry.Tracks[0].Title != "" {
		return entry.Tracks[0].Title
	}
	if len(entry.Cars) > 0 && entry.Cars[0].Name != "" {
		return entry.Cars[0].Name
	}
	return ""
}

func resolveImage(entry shop.RawCatalogEntry) string {
	if entry.NewDisplayAsset != nil && len(entry.NewDisplayAsset.RenderImages) > 0 &&
		entry.NewDisplayAsset.RenderImages[0].Image != "" {
		return entry.NewDisplayAsset.RenderImages[0].Image
	}
	if entry.Bundle != nil && entry.Bundle.Image != "" {
		return entry.Bundle.Image
	}
	if entry.DisplayAsset != nil && entry.DisplayAsset.Image != "" {
		return entry.DisplayAsset.Image
	}
	if entry.AlbumArt != "" {
		return entry.AlbumArt
	}
	if len(entry.BRItems) > 0 && entry.BRItems[0].Images != nil && entry.BRItems[0].Images.Icon != "" {
		return entry.BRItems[0].Images.Icon
	}
	if len(entry.Cars) > 0 && entry.Cars[0].Images != nil {
		if entry.Cars[0].Images.Large != "" {
			return entry.Cars[0].Images.Large
		}
		if entry.Cars[0].Images.Small != "" {
			return entry.Cars[0].Images.Small
		}
	}
	if len(entry.Tracks) > 0 && entry.Tracks[0].AlbumArt != "" {
		return entry.Tracks[0].AlbumArt
	}
	return ""
}

func resolveRarity(entry shop.RawCatalogEntry) string {
	if len(entry.BRItems) > 0 && entry.BRItems[0].Rarity != nil && entry.BRItems[0].Rarity.DisplayValue != "" {
		return entry.BRItems[0].Rarity.DisplayValue
	}
	if len(entry.Cars) > 0 && entry.Cars[0].Rarity != nil && entry.Cars[0].Rarity.DisplayValue != "" {
		return entry.Cars[0].Rarity.DisplayValue
	}
	if len(entry.Instruments) > 0 && entry.Instruments[0].Rarity != nil && entry.Instruments[0].Rarity.DisplayValue != "" {
		return entry.Instruments[0].Rarity.DisplayValue
	}
	if len(entry.Tracks) > 0 && entry.Tracks[0].Rarity != nil && entry.Tracks[0].Rarity.DisplayValue != "" {
		return entry.Tracks[0].Rarity.DisplayValue
	}
	return defaultRarityLabel
}

func instrumentImage(inst shop.Instrument) string {
	if inst.Images == nil {
		return ""
	}
	if inst.Images.Large != "" {
		return inst.Images.Large
	}
	return inst.Images.Small
}
