package packets

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// @ GROUPS

type CreateGroupRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateGroupRequest struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Resolution         *string `json:"resolution"`
	Orientation        *string `json:"orientation"`
	Timezone           *string `json:"timezone"`
	DefaultPlaylistID  *int    `json:"default_playlist_id"`
	SyncInterval       *int    `json:"sync_interval"`
	ScreenshotInterval *int    `json:"screenshot_interval"`
	AudioEnabled       *bool   `json:"audio_enabled"`
	TVControl          *bool   `json:"tv_control"`
}

// @ PLAYERS

type UpdatePlayerRequest struct {
	Name              *string `json:"name"`
	MACAddress        *string `json:"mac_address"`
	CustomResolution  *string `json:"custom_resolution"`
	CustomOrientation *string `json:"custom_orientation"`
	Timezone          *string `json:"timezone"`
	Notes             *string `json:"notes"`
	GroupID           *int    `json:"group_id"`
}

// @ ASSETS

type UpdateAssetRequest struct {
	Name       *string `json:"name"`
	URL        *string `json:"url"`
	Checksum   *string `json:"checksum"`
	Resolution *string `json:"resolution"`
	FileSize   *int64  `json:"file_size"`
	Duration   *int    `json:"duration"`
}

type CreateLabelRequest struct {
	Name        string  `json:"name" binding:"required"`
	Color       string  `json:"color"`
	Description *string `json:"description"`
}

type AttachLabelRequest struct {
	LabelID int `json:"label_id" binding:"required"`
}

type CreateLayoutRequest struct {
	Code        string         `json:"code" binding:"required"`
	Name        string         `json:"name" binding:"required"`
	Description *string        `json:"description"`
	ZonesConfig types.JSONText `json:"zones_config" binding:"required"`
}

// @ PLAYLISTS

type CreatePlaylistRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	LayoutCode  string  `json:"layout_code"`
}

type UpdatePlaylistRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	LayoutID        *int    `json:"layout_id"`
	TickerEnabled   *bool   `json:"ticker_enabled"`
	TickerText      *string `json:"ticker_text"`
	TickerSpeed     *int    `json:"ticker_speed"`
	TickerPosition  *string `json:"ticker_position"`
	ShuffleEnabled  *bool   `json:"shuffle_enabled"`
	RepeatEnabled   *bool   `json:"repeat_enabled"`
	IsAdvertisement *bool   `json:"is_advertisement"`
	AdInterval      *int    `json:"ad_interval"`
}

type AddPlaylistItemRequest struct {
	AssetID     int    `json:"asset_id" binding:"required"`
	Zone        string `json:"zone"`
	Order       int    `json:"order"`
	Duration    int    `json:"duration"`
	Fullscreen  bool   `json:"fullscreen"`
	Transition  string `json:"transition"`
	AssetTicker string `json:"asset_ticker"`
}

type UpdatePlaylistItemRequest struct {
	Zone        *string `json:"zone"`
	Order       *int    `json:"order"`
	Duration    *int    `json:"duration"`
	Fullscreen  *bool   `json:"fullscreen"`
	Transition  *string `json:"transition"`
	AssetTicker *string `json:"asset_ticker"`
}

// @ SCHEDULES

type CreateScheduleRequest struct {
	PlaylistID int        `json:"playlist_id" binding:"required"`
	GroupID    int        `json:"group_id" binding:"required"`
	StartTime  string     `json:"start_time" binding:"required"`
	EndTime    string     `json:"end_time" binding:"required"`
	DaysOfWeek []int64    `json:"days_of_week" binding:"required"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Priority   int        `json:"priority"`
}

type UpdateScheduleRequest struct {
	StartTime  *string    `json:"start_time"`
	EndTime    *string    `json:"end_time"`
	DaysOfWeek []int64    `json:"days_of_week"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Priority   *int       `json:"priority"`
	IsActive   *bool      `json:"is_active"`
}

// @ EMERGENCIES

type CreateEmergencyRequest struct {
	Title           string     `json:"title" binding:"required"`
	Message         string     `json:"message" binding:"required"`
	Priority        string     `json:"priority"`
	DisplayDuration int        `json:"display_duration"`
	BackgroundColor string     `json:"background_color"`
	TextColor       string     `json:"text_color"`
	FontSize        int        `json:"font_size"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	PlayerIDs       []int      `json:"player_ids"`
	GroupIDs        []int      `json:"group_ids"`
}

// @ COMMANDS

type CreateCommandRequest struct {
	CommandType string         `json:"command_type" binding:"required"`
	Parameters  types.JSONText `json:"parameters"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	PlayerIDs   []int          `json:"player_ids" binding:"required"`
}
