package sync

import (
	"errors"
	"time"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

var (
	// ErrPlayerNotRegistered distinguishes an unknown device identifier
	// from other failures so the client can fall back to registration.
	ErrPlayerNotRegistered = errors.New("device not registered")

	// ErrInvalidDeviceID marks a malformed device identifier.
	ErrInvalidDeviceID = errors.New("invalid device id")
)

// HealthReport is the per-request device state folded into the player
// row on every poll.
type HealthReport struct {
	BatteryLevel    *int
	StorageFreeMB   *int
	Temperature     *int
	SignalStrength  *int
	ConnectionType  string
	AppVersion      string
	FirmwareVersion string
	IPAddress       string
}

// Store is the persistence surface the reconciler runs against. The
// production implementation lives in internal/db; tests substitute an
// in-memory fake.
type Store interface {
	// PlayerByDeviceID returns the player and its group, or
	// ErrPlayerNotRegistered.
	PlayerByDeviceID(deviceID string) (*model.Player, *model.Group, error)

	// SchedulesForGroup returns the group's active schedules.
	SchedulesForGroup(groupID int) ([]model.PlaylistSchedule, error)

	// PlaylistWithItems loads a playlist with items ordered by
	// (zone, order), each item carrying its joined asset.
	PlaylistWithItems(id int) (*model.Playlist, error)

	// ActiveEmergencies returns emergency messages currently active at
	// now and targeted at the player directly or through its group.
	ActiveEmergencies(playerID, groupID int, now time.Time) ([]model.EmergencyMessage, error)

	// PendingCommands returns pending system commands for the player
	// whose scheduled time has passed.
	PendingCommands(playerID int, now time.Time) ([]model.SystemCommand, error)

	// MarkCommandsSent flips delivered commands from pending to sent.
	MarkCommandsSent(ids []int, now time.Time) error

	// OpenSyncRequest records the pre-response half of the audit row and
	// returns its id.
	OpenSyncRequest(req *model.SyncRequest) (int, error)

	// FinalizeSyncRequest fills in the server digest, the needs_sync
	// outcome and the response timestamp.
	FinalizeSyncRequest(id int, serverHash string, needsSync bool, at time.Time) error

	// ApplyCheckServer folds health, status and digest into the player
	// row as one atomic per-row write, resetting the failure counter.
	// When servedSync is set the stored digest becomes serverHash and
	// last_sync is stamped.
	ApplyCheckServer(playerID int, health HealthReport, servedSync bool, serverHash string, now time.Time) error

	// ConfirmSync re-stamps last_sync, clears the pending flag, resets
	// the failure counter and records the reported transfer stats.
	ConfirmSync(deviceID string, syncHash string, stats *SyncStats, now time.Time) error

	// AcknowledgeEmergency records a player's acknowledgement.
	AcknowledgeEmergency(deviceID string, messageID int, now time.Time) error

	// IncrementSyncFailures bumps the advisory failure counter after a
	// failed reconciliation and returns the new count.
	IncrementSyncFailures(playerID int) (int, error)
}
