package db

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

const playerColumns = `
	id, device_id, name, mac_address, group_id, status,
	last_seen, last_sync, last_sync_hash, sync_pending, consecutive_failures,
	ip_address, app_version, firmware_version,
	battery_level, storage_free_mb, temperature, connection_type, signal_strength,
	custom_resolution, custom_orientation, timezone, notes, created_at, updated_at`

func GetPlayerByID(id int) (model.Player, error) {
	var p model.Player
	err := DB.Get(&p, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Int("player_id", id).Msg("failed to get player by id")
	}
	return p, err
}

func GetPlayerByDeviceID(deviceID string) (model.Player, error) {
	var p model.Player
	err := DB.Get(&p, `SELECT `+playerColumns+` FROM players WHERE device_id = $1`, deviceID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to get player by device id")
	}
	return p, err
}

func ListPlayers() ([]model.Player, error) {
	var players []model.Player
	err := DB.Select(&players, `SELECT `+playerColumns+` FROM players ORDER BY name, id`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list players")
	}
	return players, err
}

func ListPlayersInGroup(groupID int) ([]model.Player, error) {
	var players []model.Player
	err := DB.Select(&players, `SELECT `+playerColumns+` FROM players WHERE group_id = $1 ORDER BY name, id`, groupID)
	if err != nil {
		log.Error().Err(err).Int("group_id", groupID).Msg("failed to list players in group")
	}
	return players, err
}

// RegisterPlayer creates a player or, when the device identifier is
// already known, refreshes its version fields. Re-registration is not an
// error; devices re-register whenever the server forgets them.
func RegisterPlayer(deviceID, name string, groupID int, appVersion, firmwareVersion *string) (model.Player, error) {
	var p model.Player
	err := DB.Get(&p, `
		INSERT INTO players (device_id, name, group_id, status, app_version, firmware_version, created_at, updated_at)
		VALUES ($1, $2, $3, 'offline', $4, $5, now(), now())
		ON CONFLICT (device_id) DO UPDATE SET
			name             = COALESCE(NULLIF(EXCLUDED.name, ''), players.name),
			app_version      = COALESCE(EXCLUDED.app_version, players.app_version),
			firmware_version = COALESCE(EXCLUDED.firmware_version, players.firmware_version),
			updated_at       = now()
		RETURNING `+playerColumns,
		deviceID, name, groupID, appVersion, firmwareVersion)
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("failed to register player")
		return model.Player{}, err
	}
	return p, nil
}

func UpdatePlayer(id int, name, macAddress, customResolution, customOrientation, timezone, notes *string, groupID *int) error {
	_, err := DB.Exec(`
		UPDATE players
		   SET name               = COALESCE($2, name),
		       mac_address        = COALESCE($3, mac_address),
		       custom_resolution  = COALESCE($4, custom_resolution),
		       custom_orientation = COALESCE($5, custom_orientation),
		       timezone           = COALESCE($6, timezone),
		       notes              = COALESCE($7, notes),
		       group_id           = COALESCE($8, group_id),
		       updated_at         = now()
		 WHERE id = $1`,
		id, name, macAddress, customResolution, customOrientation, timezone, notes, groupID)
	if err != nil {
		log.Error().Err(err).Int("player_id", id).Msg("failed to update player")
	}
	return err
}

func DeletePlayer(id int) error {
	_, err := DB.Exec(`DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("player_id", id).Msg("failed to delete player")
	}
	return err
}

// MarkStalePlayersOffline downgrades players that have not been seen for
// their group's sync interval (with slack) and are not already offline.
// Used by the fleet dashboard, never by the sync path.
func MarkStalePlayersOffline() (int64, error) {
	res, err := DB.Exec(`
		UPDATE players p
		   SET status = 'offline', updated_at = now()
		  FROM player_groups g
		 WHERE g.id = p.group_id
		   AND p.status IN ('online', 'syncing')
		   AND (p.last_seen IS NULL OR p.last_seen < now() - (g.sync_interval * 2 || ' seconds')::interval)`)
	if err != nil {
		log.Error().Err(err).Msg("failed to mark stale players offline")
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
