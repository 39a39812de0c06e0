package sync

// Wire structures for the device polling protocol. The device API binds
// request bodies straight onto these and serializes the responses
// unchanged, so field names here are the protocol.

// Response status values for check_server.
const (
	StatusSuccess       = "success"
	StatusNotRegistered = "device_not_registered"
	StatusError         = "error"
)

// DeviceHealth is the nested health object of a check_server request.
type DeviceHealth struct {
	TemperatureCelsius *int `json:"temperature_celsius"`
	SignalStrength     *int `json:"signal_strength"`
}

// CheckServerRequest is one poll from a device.
type CheckServerRequest struct {
	Action          string       `json:"action"`
	DeviceID        string       `json:"device_id" binding:"required"`
	LastSyncHash    string       `json:"last_sync_hash"`
	AppVersion      string       `json:"app_version"`
	FirmwareVersion string       `json:"firmware_version"`
	BatteryLevel    *int         `json:"battery_level"`
	StorageFreeMB   *int         `json:"storage_free_mb"`
	ConnectionType  string       `json:"connection_type"`
	DeviceHealth    DeviceHealth `json:"device_health"`

	// filled in by the transport layer, not by the device
	RemoteAddr string `json:"-"`
}

// ConfigUpdates carries the group/device display configuration inside a
// sync payload.
type ConfigUpdates struct {
	SyncInterval       int    `json:"sync_interval"`
	Resolution         string `json:"resolution"`
	Orientation        string `json:"orientation"`
	AudioEnabled       bool   `json:"audio_enabled"`
	TVControl          bool   `json:"tv_control"`
	ScreenshotInterval int    `json:"screenshot_interval"`
}

// AssetSync describes one asset the device must hold.
type AssetSync struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Checksum     string         `json:"checksum"`
	SizeBytes    int64          `json:"size_bytes"`
	Metadata     map[string]any `json:"metadata"`
	URL          string         `json:"url"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
}

// TickerSync is a playlist's ticker configuration on the wire.
type TickerSync struct {
	Enabled  bool   `json:"enabled"`
	Text     string `json:"text"`
	Speed    int    `json:"speed"`
	Position string `json:"position"`
}

// PlaylistItemSync is one zoned asset binding on the wire.
type PlaylistItemSync struct {
	ID          int     `json:"id"`
	AssetID     string  `json:"asset_id"`
	Duration    int     `json:"duration"`
	Zone        string  `json:"zone"`
	Order       int     `json:"order"`
	Transition  string  `json:"transition"`
	Fullscreen  bool    `json:"fullscreen"`
	AssetTicker string  `json:"asset_ticker"`
	ValidFrom   *string `json:"valid_from"`
	ValidUntil  *string `json:"valid_until"`
}

// PlaylistSync is the playlist a device should play.
type PlaylistSync struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Layout  string             `json:"layout"`
	Active  bool               `json:"active"`
	Ticker  TickerSync         `json:"ticker"`
	Shuffle bool               `json:"shuffle"`
	Repeat  bool               `json:"repeat"`
	Items   []PlaylistItemSync `json:"items"`
}

// SyncData is the full payload sent when a device is out of date.
type SyncData struct {
	SyncID        string         `json:"sync_id"`
	SyncTimestamp string         `json:"sync_timestamp"`
	ConfigUpdates ConfigUpdates  `json:"config_updates"`
	Playlists     []PlaylistSync `json:"playlists"`
	Assets        []AssetSync    `json:"assets"`
	DeletedAssets []string       `json:"deleted_assets"`
}

// EmergencyMessageSync is an active emergency broadcast on the wire.
type EmergencyMessageSync struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Message         string  `json:"message"`
	Priority        string  `json:"priority"`
	DisplayDuration int     `json:"display_duration"`
	BackgroundColor string  `json:"background_color"`
	TextColor       string  `json:"text_color"`
	FontSize        int     `json:"font_size"`
	StartTime       string  `json:"start_time"`
	EndTime         *string `json:"end_time"`
}

// SystemCommandSync is a queued remote-control command on the wire.
type SystemCommandSync struct {
	ID          string         `json:"id"`
	CommandType string         `json:"command_type"`
	Parameters  map[string]any `json:"parameters"`
	ScheduledAt string         `json:"scheduled_at"`
}

// CheckServerResponse is the reply to one poll. NextCheckInterval is
// only set when no sync is needed; SyncData and NewSyncHash only when
// one is. Emergency messages and system commands ride along either way.
type CheckServerResponse struct {
	Status            string                 `json:"status"`
	ServerTimestamp   string                 `json:"server_timestamp"`
	DeviceRegistered  bool                   `json:"device_registered"`
	NeedsSync         bool                   `json:"needs_sync"`
	NewSyncHash       string                 `json:"new_sync_hash,omitempty"`
	SyncData          *SyncData              `json:"sync_data,omitempty"`
	NextCheckInterval int                    `json:"next_check_interval,omitempty"`
	EmergencyMessages []EmergencyMessageSync `json:"emergency_messages,omitempty"`
	SystemCommands    []SystemCommandSync    `json:"system_commands,omitempty"`
}

// SyncConfirmationRequest acknowledges a completed download. The server
// trusts the device's self-report and does not re-verify the hash.
type SyncConfirmationRequest struct {
	DeviceID  string     `json:"device_id" binding:"required"`
	SyncHash  string     `json:"sync_hash"`
	SyncStats *SyncStats `json:"sync_stats"`
}

// SyncStats is the transfer summary attached to a confirmation.
type SyncStats struct {
	AssetsDownloaded int   `json:"assets_downloaded"`
	BytesTransferred int64 `json:"bytes_transferred"`
	DurationSeconds  int   `json:"duration_seconds"`
}
