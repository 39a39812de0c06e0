package packets

// RegisterResponse confirms enrollment.
type RegisterResponse struct {
	Status       string `json:"status"`
	PlayerID     int    `json:"player_id"`
	DeviceID     string `json:"device_id"`
	GroupID      int    `json:"group_id"`
	SyncInterval int    `json:"sync_interval"`
}

// AckResponse is the minimal success envelope for device-side posts.
type AckResponse struct {
	Status string `json:"status"`
}
