package db

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// @ EMERGENCY MESSAGES

const emergencyColumns = `
	id, title, message, priority, display_duration, background_color,
	text_color, font_size, start_time, end_time, is_active, created_by, created_at`

func CreateEmergencyMessage(
	title, message, priority string,
	displayDuration, fontSize int,
	backgroundColor, textColor string,
	startTime time.Time, endTime *time.Time,
	createdBy int,
) (model.EmergencyMessage, error) {
	var m model.EmergencyMessage
	err := DB.Get(&m, `
		INSERT INTO emergency_messages
			(title, message, priority, display_duration, background_color,
			 text_color, font_size, start_time, end_time, is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10, now())
		RETURNING `+emergencyColumns,
		title, message, priority, displayDuration, backgroundColor,
		textColor, fontSize, startTime, endTime, createdBy)
	if err != nil {
		log.Error().Err(err).Str("title", title).Msg("failed to create emergency message")
		return model.EmergencyMessage{}, err
	}
	return m, nil
}

func ListEmergencyMessages() ([]model.EmergencyMessage, error) {
	var out []model.EmergencyMessage
	err := DB.Select(&out, `SELECT `+emergencyColumns+` FROM emergency_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list emergency messages")
	}
	return out, err
}

func TargetEmergencyAtPlayers(messageID int, playerIDs []int) error {
	for _, pid := range playerIDs {
		if _, err := DB.Exec(`
			INSERT INTO emergency_message_players (message_id, player_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, messageID, pid); err != nil {
			log.Error().Err(err).Int("message_id", messageID).Int("player_id", pid).Msg("failed to target emergency at player")
			return err
		}
	}
	return nil
}

func TargetEmergencyAtGroups(messageID int, groupIDs []int) error {
	for _, gid := range groupIDs {
		if _, err := DB.Exec(`
			INSERT INTO emergency_message_groups (message_id, group_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, messageID, gid); err != nil {
			log.Error().Err(err).Int("message_id", messageID).Int("group_id", gid).Msg("failed to target emergency at group")
			return err
		}
	}
	return nil
}

func DeactivateEmergencyMessage(id int) error {
	_, err := DB.Exec(`UPDATE emergency_messages SET is_active = false WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("message_id", id).Msg("failed to deactivate emergency message")
	}
	return err
}

// ListActiveEmergenciesForPlayer returns messages live at `at` and
// targeted at the player directly or via its group.
func ListActiveEmergenciesForPlayer(playerID, groupID int, at time.Time) ([]model.EmergencyMessage, error) {
	var out []model.EmergencyMessage
	err := DB.Select(&out, `
		SELECT DISTINCT `+emergencyColumns+`
		  FROM emergency_messages m
		 WHERE m.is_active = true
		   AND m.start_time <= $3
		   AND (m.end_time IS NULL OR m.end_time > $3)
		   AND (EXISTS (SELECT 1 FROM emergency_message_players mp
		                 WHERE mp.message_id = m.id AND mp.player_id = $1)
		     OR EXISTS (SELECT 1 FROM emergency_message_groups mg
		                 WHERE mg.message_id = m.id AND mg.group_id = $2))
		 ORDER BY id`, playerID, groupID, at)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to list active emergencies")
	}
	return out, err
}

func RecordEmergencyAck(messageID, playerID int, at time.Time) error {
	_, err := DB.Exec(`
		INSERT INTO emergency_acknowledgements (message_id, player_id, acknowledged_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`, messageID, playerID, at)
	if err != nil {
		log.Error().Err(err).Int("message_id", messageID).Int("player_id", playerID).Msg("failed to record emergency ack")
	}
	return err
}

// @ SYSTEM COMMANDS

const commandColumns = `
	id, command_type, parameters, status, scheduled_at, executed_at, created_by, created_at`

func CreateSystemCommand(commandType string, parameters types.JSONText, scheduledAt time.Time, playerIDs []int, createdBy int) (model.SystemCommand, error) {
	var c model.SystemCommand
	err := DB.Get(&c, `
		INSERT INTO system_commands (command_type, parameters, status, scheduled_at, created_by, created_at)
		VALUES ($1, COALESCE($2, '{}'::jsonb), 'pending', $3, $4, now())
		RETURNING `+commandColumns,
		commandType, parameters, scheduledAt, createdBy)
	if err != nil {
		log.Error().Err(err).Str("command_type", commandType).Msg("failed to create system command")
		return model.SystemCommand{}, err
	}
	for _, pid := range playerIDs {
		if _, err := DB.Exec(`
			INSERT INTO system_command_players (command_id, player_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, c.ID, pid); err != nil {
			log.Error().Err(err).Int("command_id", c.ID).Int("player_id", pid).Msg("failed to target command at player")
			return model.SystemCommand{}, err
		}
	}
	return c, nil
}

func ListSystemCommands() ([]model.SystemCommand, error) {
	var out []model.SystemCommand
	err := DB.Select(&out, `SELECT `+commandColumns+` FROM system_commands ORDER BY created_at DESC, id DESC`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list system commands")
	}
	return out, err
}

// ListPendingCommandsForPlayer returns commands due for delivery on the
// player's next poll.
func ListPendingCommandsForPlayer(playerID int, at time.Time) ([]model.SystemCommand, error) {
	var out []model.SystemCommand
	err := DB.Select(&out, `
		SELECT `+commandColumns+`
		  FROM system_commands c
		 WHERE c.status = 'pending'
		   AND c.scheduled_at <= $2
		   AND EXISTS (SELECT 1 FROM system_command_players cp
		                WHERE cp.command_id = c.id AND cp.player_id = $1)
		 ORDER BY c.scheduled_at, c.id`, playerID, at)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to list pending commands")
	}
	return out, err
}

func MarkCommandsSent(ids []int, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := DB.Exec(`
		UPDATE system_commands
		   SET status = 'sent', executed_at = $2
		 WHERE id = ANY($1) AND status = 'pending'`, pq.Array(ids), at)
	if err != nil {
		log.Error().Err(err).Ints("command_ids", ids).Msg("failed to mark commands sent")
	}
	return err
}

// @ SYNC REQUEST AUDIT

func InsertSyncRequest(r *model.SyncRequest) (int, error) {
	var id int
	err := DB.Get(&id, `
		INSERT INTO sync_requests
			(player_id, request_timestamp, client_sync_hash, app_version,
			 firmware_version, battery_level, storage_free_mb, connection_type, needs_sync, server_sync_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, '')
		RETURNING id`,
		r.PlayerID, r.RequestTimestamp, r.ClientSyncHash, r.AppVersion,
		r.FirmwareVersion, r.BatteryLevel, r.StorageFreeMB, r.ConnectionType)
	if err != nil {
		log.Error().Err(err).Int("player_id", r.PlayerID).Msg("failed to insert sync request")
	}
	return id, err
}

func FinalizeSyncRequest(id int, serverHash string, needsSync bool, at time.Time) error {
	_, err := DB.Exec(`
		UPDATE sync_requests
		   SET server_sync_hash = $2, needs_sync = $3, response_timestamp = $4
		 WHERE id = $1`, id, serverHash, needsSync, at)
	if err != nil {
		log.Error().Err(err).Int("sync_request_id", id).Msg("failed to finalize sync request")
	}
	return err
}

func ListSyncRequestsForPlayer(playerID, limit int) ([]model.SyncRequest, error) {
	var out []model.SyncRequest
	err := DB.Select(&out, `
		SELECT id, player_id, request_timestamp, client_sync_hash, app_version,
		       firmware_version, battery_level, storage_free_mb, connection_type,
		       needs_sync, server_sync_hash, response_timestamp
		  FROM sync_requests
		 WHERE player_id = $1
		 ORDER BY request_timestamp DESC, id DESC
		 LIMIT $2`, playerID, limit)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("failed to list sync requests")
	}
	return out, err
}
