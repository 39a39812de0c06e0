package packets

// RegisterRequest enrolls a device into the fleet. Re-registration of a
// known device_id is accepted and refreshes the stored versions.
type RegisterRequest struct {
	DeviceID        string  `json:"device_id" binding:"required"`
	Name            string  `json:"name"`
	GroupID         *int    `json:"group_id"`
	AppVersion      *string `json:"app_version"`
	FirmwareVersion *string `json:"firmware_version"`
}

// EmergencyAckRequest reports that a device displayed an emergency
// message.
type EmergencyAckRequest struct {
	DeviceID  string `json:"device_id" binding:"required"`
	MessageID int    `json:"message_id" binding:"required"`
}
