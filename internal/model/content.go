package model

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Asset types understood by the player application.
const (
	AssetTypeVideo = "video"
	AssetTypeImage = "image"
	AssetTypeAudio = "audio"
	AssetTypePDF   = "pdf"
	AssetTypeHTML  = "html"
	AssetTypeZip   = "zip"
	AssetTypeLink  = "link"
)

// Label is a free-form tag for organizing assets.
type Label struct {
	ID          int       `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Color       string    `db:"color"       json:"color"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
}

// Zone is one rectangular region of a layout, in percent of screen.
type Zone struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Layout is a named zone topology identified by a short code ("1", "2a",
// "4b", ... or "custom").
type Layout struct {
	ID          int            `db:"id"           json:"id"`
	Code        string         `db:"code"         json:"code"`
	Name        string         `db:"name"         json:"name"`
	Description *string        `db:"description"  json:"description,omitempty"`
	ZonesConfig types.JSONText `db:"zones_config" json:"zones_config"`
	IsCustom    bool           `db:"is_custom"    json:"is_custom"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updated_at"`
}

// Zones decodes the zones_config column into zone rectangles keyed by
// zone name.
func (l *Layout) Zones() (map[string]Zone, error) {
	zones := map[string]Zone{}
	if len(l.ZonesConfig) == 0 {
		return zones, nil
	}
	err := json.Unmarshal(l.ZonesConfig, &zones)
	return zones, err
}

// Asset is a content unit. Checksum is the SHA-256 of the file bytes and
// is the asset's identity for sync purposes.
type Asset struct {
	ID           int            `db:"id"            json:"id"`
	Name         string         `db:"name"          json:"name"`
	OriginalName *string        `db:"original_name" json:"original_name,omitempty"`
	Type         string         `db:"type"          json:"type"`
	Status       string         `db:"status"        json:"status"`
	URL          string         `db:"url"           json:"url"`
	ThumbnailURL *string        `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	FileSize     *int64         `db:"file_size"     json:"file_size,omitempty"`
	Duration     *int           `db:"duration"      json:"duration,omitempty"`
	Resolution   *string        `db:"resolution"    json:"resolution,omitempty"`
	Metadata     types.JSONText `db:"metadata"      json:"metadata,omitempty"`
	Checksum     string         `db:"checksum"      json:"checksum"`
	Version      int            `db:"version"       json:"version"`
	ValidFrom    *time.Time     `db:"valid_from"    json:"valid_from,omitempty"`
	ValidUntil   *time.Time     `db:"valid_until"   json:"valid_until,omitempty"`
	CreatedBy    int            `db:"created_by"    json:"created_by"`
	CreatedAt    time.Time      `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"    json:"updated_at"`
	Labels       []Label        `db:"-"             json:"labels,omitempty"`
}

func (a *Asset) IsVideo() bool { return a.Type == AssetTypeVideo }
