package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// EmergencyMessage is an operator broadcast shown on top of normal
// playback, targeted at players directly or through their group.
type EmergencyMessage struct {
	ID              int        `db:"id"               json:"id"`
	Title           string     `db:"title"            json:"title"`
	Message         string     `db:"message"          json:"message"`
	Priority        string     `db:"priority"         json:"priority"`
	DisplayDuration int        `db:"display_duration" json:"display_duration"`
	BackgroundColor string     `db:"background_color" json:"background_color"`
	TextColor       string     `db:"text_color"       json:"text_color"`
	FontSize        int        `db:"font_size"        json:"font_size"`
	StartTime       time.Time  `db:"start_time"       json:"start_time"`
	EndTime         *time.Time `db:"end_time"         json:"end_time,omitempty"`
	IsActive        bool       `db:"is_active"        json:"is_active"`
	CreatedBy       int        `db:"created_by"       json:"created_by"`
	CreatedAt       time.Time  `db:"created_at"       json:"created_at"`
}

// IsActiveAt reports whether the message should be displayed at t.
func (m *EmergencyMessage) IsActiveAt(t time.Time) bool {
	if !m.IsActive {
		return false
	}
	if t.Before(m.StartTime) {
		return false
	}
	if m.EndTime != nil && !t.Before(*m.EndTime) {
		return false
	}
	return true
}

// System command lifecycle states.
const (
	CommandStatusPending  = "pending"
	CommandStatusSent     = "sent"
	CommandStatusExecuted = "executed"
	CommandStatusFailed   = "failed"
	CommandStatusTimeout  = "timeout"
)

// SystemCommand is a remote-control instruction queued for one or more
// players and delivered on their next poll.
type SystemCommand struct {
	ID          int            `db:"id"           json:"id"`
	CommandType string         `db:"command_type" json:"command_type"`
	Parameters  types.JSONText `db:"parameters"   json:"parameters,omitempty"`
	Status      string         `db:"status"       json:"status"`
	ScheduledAt time.Time      `db:"scheduled_at" json:"scheduled_at"`
	ExecutedAt  *time.Time     `db:"executed_at"  json:"executed_at,omitempty"`
	CreatedBy   int            `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time      `db:"created_at"   json:"created_at"`
}

// SyncRequest is the audit record of one reconciliation round. It is
// written before the response is computed and finalized afterwards;
// never used as input to later decisions.
type SyncRequest struct {
	ID                int        `db:"id"                 json:"id"`
	PlayerID          int        `db:"player_id"          json:"player_id"`
	RequestTimestamp  time.Time  `db:"request_timestamp"  json:"request_timestamp"`
	ClientSyncHash    string     `db:"client_sync_hash"   json:"client_sync_hash"`
	AppVersion        string     `db:"app_version"        json:"app_version"`
	FirmwareVersion   string     `db:"firmware_version"   json:"firmware_version"`
	BatteryLevel      *int       `db:"battery_level"      json:"battery_level,omitempty"`
	StorageFreeMB     *int       `db:"storage_free_mb"    json:"storage_free_mb,omitempty"`
	ConnectionType    string     `db:"connection_type"    json:"connection_type"`
	NeedsSync         bool       `db:"needs_sync"         json:"needs_sync"`
	ServerSyncHash    string     `db:"server_sync_hash"   json:"server_sync_hash"`
	ResponseTimestamp *time.Time `db:"response_timestamp" json:"response_timestamp,omitempty"`
}
