package model

import "time"

// Player status values reported to operators.
const (
	PlayerStatusOnline  = "online"
	PlayerStatusOffline = "offline"
	PlayerStatusError   = "error"
	PlayerStatusSyncing = "syncing"
)

// Group is a fleet segment sharing default display and sync configuration.
type Group struct {
	ID                 int       `db:"id"                  json:"id"`
	Name               string    `db:"name"                json:"name"`
	Description        *string   `db:"description"         json:"description,omitempty"`
	DefaultPlaylistID  *int      `db:"default_playlist_id" json:"default_playlist_id,omitempty"`
	SyncInterval       int       `db:"sync_interval"       json:"sync_interval"`
	Resolution         string    `db:"resolution"          json:"resolution"`
	Orientation        string    `db:"orientation"         json:"orientation"`
	AudioEnabled       bool      `db:"audio_enabled"       json:"audio_enabled"`
	TVControl          bool      `db:"tv_control"          json:"tv_control"`
	ScreenshotInterval int       `db:"screenshot_interval" json:"screenshot_interval"`
	Timezone           string    `db:"timezone"            json:"timezone"`
	CreatedAt          time.Time `db:"created_at"          json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"          json:"updated_at"`
}

// Player is a remote signage device. DeviceID is the 16-character
// identifier the device presents on every request, stored uppercase.
type Player struct {
	ID                  int        `db:"id"                   json:"id"`
	DeviceID            string     `db:"device_id"            json:"device_id"`
	Name                string     `db:"name"                 json:"name"`
	MACAddress          *string    `db:"mac_address"          json:"mac_address,omitempty"`
	GroupID             int        `db:"group_id"             json:"group_id"`
	Status              string     `db:"status"               json:"status"`
	LastSeen            *time.Time `db:"last_seen"            json:"last_seen,omitempty"`
	LastSync            *time.Time `db:"last_sync"            json:"last_sync,omitempty"`
	LastSyncHash        string     `db:"last_sync_hash"       json:"last_sync_hash"`
	SyncPending         bool       `db:"sync_pending"         json:"sync_pending"`
	ConsecutiveFailures int        `db:"consecutive_failures" json:"consecutive_failures"`
	IPAddress           *string    `db:"ip_address"           json:"ip_address,omitempty"`
	AppVersion          *string    `db:"app_version"          json:"app_version,omitempty"`
	FirmwareVersion     *string    `db:"firmware_version"     json:"firmware_version,omitempty"`

	// health snapshot, refreshed on every check_server call
	BatteryLevel   *int    `db:"battery_level"   json:"battery_level,omitempty"`
	StorageFreeMB  *int    `db:"storage_free_mb" json:"storage_free_mb,omitempty"`
	Temperature    *int    `db:"temperature"     json:"temperature,omitempty"`
	ConnectionType *string `db:"connection_type" json:"connection_type,omitempty"`
	SignalStrength *int    `db:"signal_strength" json:"signal_strength,omitempty"`

	// device-level overrides; empty means inherit from the group
	CustomResolution  *string `db:"custom_resolution"  json:"custom_resolution,omitempty"`
	CustomOrientation *string `db:"custom_orientation" json:"custom_orientation,omitempty"`

	Timezone  string    `db:"timezone"   json:"timezone"`
	Notes     *string   `db:"notes"      json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (p *Player) IsOnline() bool {
	return p.Status == PlayerStatusOnline
}

// EffectiveResolution returns the device override when set, otherwise the
// group default.
func (p *Player) EffectiveResolution(g *Group) string {
	if p.CustomResolution != nil && *p.CustomResolution != "" {
		return *p.CustomResolution
	}
	return g.Resolution
}

func (p *Player) EffectiveOrientation(g *Group) string {
	if p.CustomOrientation != nil && *p.CustomOrientation != "" {
		return *p.CustomOrientation
	}
	return g.Orientation
}
