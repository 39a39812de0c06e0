package model

import (
	"time"

	"github.com/lib/pq"
)

// Transition effects for playlist items.
const (
	TransitionNone     = "none"
	TransitionFade     = "fade"
	TransitionSlide    = "slide"
	TransitionZoom     = "zoom"
	TransitionDissolve = "dissolve"
)

// Playlist assigns assets to zones of one layout, with playlist-level
// ticker and playback configuration.
type Playlist struct {
	ID              int       `db:"id"               json:"id"`
	Name            string    `db:"name"             json:"name"`
	Description     *string   `db:"description"      json:"description,omitempty"`
	LayoutID        int       `db:"layout_id"        json:"layout_id"`
	LayoutCode      string    `db:"layout_code"      json:"layout_code"`
	TickerEnabled   bool      `db:"ticker_enabled"   json:"ticker_enabled"`
	TickerText      string    `db:"ticker_text"      json:"ticker_text"`
	TickerSpeed     int       `db:"ticker_speed"     json:"ticker_speed"`
	TickerPosition  string    `db:"ticker_position"  json:"ticker_position"`
	ShuffleEnabled  bool      `db:"shuffle_enabled"  json:"shuffle_enabled"`
	RepeatEnabled   bool      `db:"repeat_enabled"   json:"repeat_enabled"`
	IsAdvertisement bool      `db:"is_advertisement" json:"is_advertisement"`
	AdInterval      *int      `db:"ad_interval"      json:"ad_interval,omitempty"`
	CreatedBy       int       `db:"created_by"       json:"created_by"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"       json:"updated_at"`

	Items []PlaylistItem `db:"-" json:"items,omitempty"`
}

// PlaylistItem binds one asset to one zone. Ordering is unique per
// (playlist, asset, zone, order); the same asset may appear in several
// zones.
type PlaylistItem struct {
	ID               int        `db:"id"                json:"id"`
	PlaylistID       int        `db:"playlist_id"       json:"playlist_id"`
	AssetID          int        `db:"asset_id"          json:"asset_id"`
	Zone             string     `db:"zone"              json:"zone"`
	Order            int        `db:"item_order"        json:"order"`
	Duration         int        `db:"duration"          json:"duration"`
	Fullscreen       bool       `db:"fullscreen"        json:"fullscreen"`
	TransitionEffect string     `db:"transition_effect" json:"transition_effect"`
	AssetTicker      string     `db:"asset_ticker"      json:"asset_ticker"`
	ValidFrom        *time.Time `db:"valid_from"        json:"valid_from,omitempty"`
	ValidUntil       *time.Time `db:"valid_until"       json:"valid_until,omitempty"`
	CreatedAt        time.Time  `db:"created_at"        json:"created_at"`

	Asset *Asset `db:"-" json:"asset,omitempty"`
}

// EffectiveDuration is the item's playback duration: video assets use
// their intrinsic duration, everything else uses the configured one.
func (it *PlaylistItem) EffectiveDuration() int {
	if it.Asset != nil && it.Asset.IsVideo() && it.Asset.Duration != nil && *it.Asset.Duration > 0 {
		return *it.Asset.Duration
	}
	return it.Duration
}

// IsValidAt reports whether the item's validity window contains t.
func (it *PlaylistItem) IsValidAt(t time.Time) bool {
	if it.ValidFrom != nil && t.Before(*it.ValidFrom) {
		return false
	}
	if it.ValidUntil != nil && t.After(*it.ValidUntil) {
		return false
	}
	return true
}

// PlaylistSchedule binds a playlist to a group within a daily time
// window. Times are "HH:MM"; an end before the start crosses midnight.
type PlaylistSchedule struct {
	ID         int           `db:"id"           json:"id"`
	PlaylistID int           `db:"playlist_id"  json:"playlist_id"`
	GroupID    int           `db:"group_id"     json:"group_id"`
	StartTime  string        `db:"start_time"   json:"start_time"`
	EndTime    string        `db:"end_time"     json:"end_time"`
	DaysOfWeek pq.Int64Array `db:"days_of_week" json:"days_of_week"`
	StartDate  *time.Time    `db:"start_date"   json:"start_date,omitempty"`
	EndDate    *time.Time    `db:"end_date"     json:"end_date,omitempty"`
	Priority   int           `db:"priority"     json:"priority"`
	IsActive   bool          `db:"is_active"    json:"is_active"`
	CreatedAt  time.Time     `db:"created_at"   json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"   json:"updated_at"`
}
