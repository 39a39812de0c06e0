package db

import (
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

const groupColumns = `
	id, name, description, default_playlist_id, sync_interval, resolution,
	orientation, audio_enabled, tv_control, screenshot_interval, timezone,
	created_at, updated_at`

func GetGroupByID(id int) (model.Group, error) {
	var g model.Group
	err := DB.Get(&g, `SELECT `+groupColumns+` FROM player_groups WHERE id = $1`, id)
	return g, err
}

// DefaultGroupID returns the oldest group, used when a device registers
// without naming one. The migration seeds a "Default" group so this
// always resolves.
func DefaultGroupID() (int, error) {
	var id int
	err := DB.Get(&id, `SELECT id FROM player_groups ORDER BY id LIMIT 1`)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve default group")
	}
	return id, err
}

func ListGroups() ([]model.Group, error) {
	var groups []model.Group
	err := DB.Select(&groups, `SELECT `+groupColumns+` FROM player_groups ORDER BY name, id`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list groups")
	}
	return groups, err
}

func CreateGroup(name string, description *string) (model.Group, error) {
	var g model.Group
	err := DB.Get(&g, `
		INSERT INTO player_groups (name, description, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING `+groupColumns,
		name, description)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create group")
		return model.Group{}, err
	}
	return g, nil
}

func UpdateGroup(
	id int,
	name, description, resolution, orientation, timezone *string,
	defaultPlaylistID, syncInterval, screenshotInterval *int,
	audioEnabled, tvControl *bool,
) error {
	_, err := DB.Exec(`
		UPDATE player_groups
		   SET name                = COALESCE($2, name),
		       description         = COALESCE($3, description),
		       resolution          = COALESCE($4, resolution),
		       orientation         = COALESCE($5, orientation),
		       timezone            = COALESCE($6, timezone),
		       default_playlist_id = COALESCE($7, default_playlist_id),
		       sync_interval       = COALESCE($8, sync_interval),
		       screenshot_interval = COALESCE($9, screenshot_interval),
		       audio_enabled       = COALESCE($10, audio_enabled),
		       tv_control          = COALESCE($11, tv_control),
		       updated_at          = now()
		 WHERE id = $1`,
		id, name, description, resolution, orientation, timezone,
		defaultPlaylistID, syncInterval, screenshotInterval, audioEnabled, tvControl)
	if err != nil {
		log.Error().Err(err).Int("group_id", id).Msg("failed to update group")
	}
	return err
}

func DeleteGroup(id int) error {
	_, err := DB.Exec(`DELETE FROM player_groups WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("group_id", id).Msg("failed to delete group")
	}
	return err
}

// ClearDefaultPlaylist detaches a playlist from every group that uses it
// as default, ahead of playlist deletion.
func ClearDefaultPlaylist(playlistID int) error {
	_, err := DB.Exec(`UPDATE player_groups SET default_playlist_id = NULL WHERE default_playlist_id = $1`, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("failed to clear default playlist")
	}
	return err
}
