package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
	"github.com/Lumen-Tech-LLC/lumen/internal/sync"
)

// syncStore adapts the package-level queries to the reconciler's
// persistence interface.
type syncStore struct{}

// NewSyncStore returns the production sync.Store backed by the shared
// database handle.
func NewSyncStore() sync.Store {
	return syncStore{}
}

func (syncStore) PlayerByDeviceID(deviceID string) (*model.Player, *model.Group, error) {
	p, err := GetPlayerByDeviceID(deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, sync.ErrPlayerNotRegistered
	}
	if err != nil {
		return nil, nil, err
	}
	g, err := GetGroupByID(p.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return &p, &g, nil
}

func (syncStore) SchedulesForGroup(groupID int) ([]model.PlaylistSchedule, error) {
	return ListActiveSchedulesForGroup(groupID)
}

func (syncStore) PlaylistWithItems(id int) (*model.Playlist, error) {
	p, err := GetPlaylistWithAssets(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (syncStore) ActiveEmergencies(playerID, groupID int, now time.Time) ([]model.EmergencyMessage, error) {
	return ListActiveEmergenciesForPlayer(playerID, groupID, now)
}

func (syncStore) PendingCommands(playerID int, now time.Time) ([]model.SystemCommand, error) {
	return ListPendingCommandsForPlayer(playerID, now)
}

func (syncStore) MarkCommandsSent(ids []int, now time.Time) error {
	return MarkCommandsSent(ids, now)
}

func (syncStore) OpenSyncRequest(req *model.SyncRequest) (int, error) {
	return InsertSyncRequest(req)
}

func (syncStore) FinalizeSyncRequest(id int, serverHash string, needsSync bool, at time.Time) error {
	return FinalizeSyncRequest(id, serverHash, needsSync, at)
}

// ApplyCheckServer folds one poll into the player row. Status, digest
// and pending flag are all decided inside the statement so concurrent
// polls for the same device cannot interleave partial writes. Any
// reconciled poll resets the failure counter; only failed attempts
// (IncrementSyncFailures) grow it.
func (syncStore) ApplyCheckServer(playerID int, health sync.HealthReport, servedSync bool, serverHash string, now time.Time) error {
	_, err := DB.Exec(`
		UPDATE players SET
			last_seen            = $2,
			ip_address           = COALESCE(NULLIF($3, ''), ip_address),
			app_version          = COALESCE(NULLIF($4, ''), app_version),
			firmware_version     = COALESCE(NULLIF($5, ''), firmware_version),
			battery_level        = COALESCE($6, battery_level),
			storage_free_mb      = COALESCE($7, storage_free_mb),
			temperature          = COALESCE($8, temperature),
			signal_strength      = COALESCE($9, signal_strength),
			connection_type      = COALESCE(NULLIF($10, ''), connection_type),
			consecutive_failures = 0,
			status               = CASE WHEN $11 THEN 'syncing' ELSE 'online' END,
			last_sync_hash = CASE WHEN $11 THEN $12 ELSE last_sync_hash END,
			last_sync      = CASE WHEN $11 THEN $2  ELSE last_sync END,
			sync_pending   = CASE WHEN $11 THEN true ELSE sync_pending END,
			updated_at     = now()
		WHERE id = $1`,
		playerID, now, health.IPAddress, health.AppVersion, health.FirmwareVersion,
		health.BatteryLevel, health.StorageFreeMB, health.Temperature,
		health.SignalStrength, health.ConnectionType, servedSync, serverHash)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to apply check-in to player")
	}
	return err
}

// ConfirmSync closes the loop after the device reports a completed
// download. The row is locked for the read-modify-write so a racing
// poll cannot resurrect the pending flag mid-confirmation.
func (syncStore) ConfirmSync(deviceID string, syncHash string, stats *sync.SyncStats, now time.Time) error {
	tx, err := DB.Beginx()
	if err != nil {
		log.Error().Err(err).Msg("failed to begin sync confirmation transaction")
		return err
	}
	defer tx.Rollback()

	var playerID int
	err = tx.Get(&playerID, `SELECT id FROM players WHERE device_id = $1 FOR UPDATE`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return sync.ErrPlayerNotRegistered
	}
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to lock player for sync confirmation")
		return err
	}

	_, err = tx.Exec(`
		UPDATE players SET
			last_sync            = $2,
			last_seen            = $2,
			sync_pending         = false,
			consecutive_failures = 0,
			status               = 'online',
			updated_at           = now()
		WHERE id = $1`, playerID, now)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to confirm sync")
		return err
	}

	if stats != nil {
		_, err = tx.Exec(`
			INSERT INTO sync_confirmations
				(player_id, sync_hash, assets_downloaded, bytes_transferred, duration_seconds, confirmed_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			playerID, syncHash, stats.AssetsDownloaded, stats.BytesTransferred, stats.DurationSeconds, now)
	} else {
		_, err = tx.Exec(`
			INSERT INTO sync_confirmations (player_id, sync_hash, confirmed_at)
			VALUES ($1, $2, $3)`, playerID, syncHash, now)
	}
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to record sync confirmation")
		return err
	}

	return tx.Commit()
}

func (syncStore) AcknowledgeEmergency(deviceID string, messageID int, now time.Time) error {
	p, err := GetPlayerByDeviceID(deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return sync.ErrPlayerNotRegistered
	}
	if err != nil {
		return err
	}
	return RecordEmergencyAck(messageID, p.ID, now)
}

func (syncStore) IncrementSyncFailures(playerID int) (int, error) {
	var count int
	err := DB.Get(&count, `
		UPDATE players
		   SET consecutive_failures = consecutive_failures + 1,
		       status = CASE WHEN consecutive_failures + 1 >= 5 THEN 'error' ELSE status END,
		       updated_at = now()
		 WHERE id = $1
		 RETURNING consecutive_failures`, playerID)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to increment sync failures")
	}
	return count, err
}
