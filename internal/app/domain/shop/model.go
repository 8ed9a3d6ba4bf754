// Package shop holds the catalog domain models: the untrusted entry shape
// returned by the external shop API and the normalized display model served
// to clients.
package shop

import "time"

// RawCatalogEntry is one offer as delivered by the external catalog feed.
// The feed mixes several product kinds in a single list, so every sub-record
// is optional and no field is guaranteed present. OutDate stays the feed's
// ISO string so one malformed timestamp cannot fail the whole list decode.
type RawCatalogEntry struct {
	Bundle          *Bundle          `json:"bundle,omitempty"`
	BRItems         []BRItem         `json:"brItems,omitempty"`
	Instruments     []Instrument     `json:"instruments,omitempty"`
	Tracks          []Track          `json:"tracks,omitempty"`
	Cars            []Car            `json:"cars,omitempty"`
	NewDisplayAsset *NewDisplayAsset `json:"newDisplayAsset,omitempty"`
	DisplayAsset    *DisplayAsset    `json:"displayAsset,omitempty"`
	AlbumArt        string           `json:"albumArt,omitempty"`
	Layout          *Layout          `json:"layout,omitempty"`
	FinalPrice      int              `json:"finalPrice"`
	OutDate         string           `json:"outDate,omitempty"`
}

// Bundle groups several cosmetics under one purchasable offer.
type Bundle struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Rarity is the tier classification attached to an individual cosmetic.
type Rarity struct {
	DisplayValue string `json:"displayValue"`
}

// BRItem is a battle-royale cosmetic inside an entry.
type BRItem struct {
	Name   string        `json:"name"`
	Rarity *Rarity       `json:"rarity,omitempty"`
	Images *BRItemImages `json:"images,omitempty"`
}

// BRItemImages carries the render variants of a battle-royale cosmetic.
type BRItemImages struct {
	Icon string `json:"icon"`
}

// Instrument is a festival instrument inside an entry.
type Instrument struct {
	Name   string            `json:"name"`
	Rarity *Rarity           `json:"rarity,omitempty"`
	Images *InstrumentImages `json:"images,omitempty"`
}

// InstrumentImages carries the render variants of an instrument.
type InstrumentImages struct {
	Large string `json:"large"`
	Small string `json:"small"`
}

// Track is a jam track inside an entry.
type Track struct {
	Title    string  `json:"title"`
	AlbumArt string  `json:"albumArt"`
	Rarity   *Rarity `json:"rarity,omitempty"`
}

// Car is a rocket-racing vehicle inside an entry.
type Car struct {
	Name   string     `json:"name"`
	Rarity *Rarity    `json:"rarity,omitempty"`
	Images *CarImages `json:"images,omitempty"`
}

// CarImages carries the render variants of a car body.
type CarImages struct {
	Large string `json:"large"`
	Small string `json:"small"`
}

// NewDisplayAsset is the renderer-produced presentation asset for an entry.
type NewDisplayAsset struct {
	RenderImages []RenderImage `json:"renderImages"`
}

// RenderImage is a single rendered image inside a display asset.
type RenderImage struct {
	Image string `json:"image"`
}

// DisplayAsset is the legacy presentation asset for an entry.
type DisplayAsset struct {
	Image string `json:"image"`
}

// Layout names the shop section an entry is displayed under.
type Layout struct {
	Name string `json:"name"`
}

// DisplayItem is the normalized, render-ready view of one catalog entry.
type DisplayItem struct {
	Name        string `json:"name"`
	ImageURL    string `json:"image"`
	Price       int    `json:"price"`
	Countdown   string `json:"time_left"`
	RarityColor string `json:"rarity_color"`
	Category    string `json:"category"`
}

// Category is an ordered bucket of normalized items under one shop section.
type Category struct {
	Name  string        `json:"name"`
	Items []DisplayItem `json:"items"`
}

// Snapshot is the full normalized catalog produced by one fetch. Categories
// keep the order of their first appearance in the raw feed; TotalCount is the
// sum of all bucket sizes.
type Snapshot struct {
	Categories []Category `json:"categories"`
	TotalCount int        `json:"total_count"`
	FetchedAt  time.Time  `json:"fetched_at"`
}
