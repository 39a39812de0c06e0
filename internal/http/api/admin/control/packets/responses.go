package packets

// PlayerResponse is the fleet view of one device. Online is live
// presence; Status is the last persisted state.
type PlayerResponse struct {
	ID                  int     `json:"id"`
	DeviceID            string  `json:"device_id"`
	Name                string  `json:"name"`
	GroupID             int     `json:"group_id"`
	Status              string  `json:"status"`
	Online              bool    `json:"online"`
	LastSeen            *string `json:"last_seen,omitempty"`
	LastSync            *string `json:"last_sync,omitempty"`
	LastSyncHash        string  `json:"last_sync_hash"`
	SyncPending         bool    `json:"sync_pending"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	IPAddress           *string `json:"ip_address,omitempty"`
	AppVersion          *string `json:"app_version,omitempty"`
	FirmwareVersion     *string `json:"firmware_version,omitempty"`
	BatteryLevel        *int    `json:"battery_level,omitempty"`
	StorageFreeMB       *int    `json:"storage_free_mb,omitempty"`
	Temperature         *int    `json:"temperature,omitempty"`
	ConnectionType      *string `json:"connection_type,omitempty"`
	SignalStrength      *int    `json:"signal_strength,omitempty"`
	CustomResolution    *string `json:"custom_resolution,omitempty"`
	CustomOrientation   *string `json:"custom_orientation,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// FleetStatusResponse summarizes the fleet for the dashboard.
type FleetStatusResponse struct {
	Total   int `json:"total"`
	Online  int `json:"online"`
	Offline int `json:"offline"`
	Syncing int `json:"syncing"`
	Error   int `json:"error"`
}
