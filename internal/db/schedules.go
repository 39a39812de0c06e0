package db

import (
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

const scheduleColumns = `
	id, playlist_id, group_id, start_time, end_time, days_of_week,
	start_date, end_date, priority, is_active, created_at, updated_at`

func CreateSchedule(
	playlistID, groupID int,
	startTime, endTime string,
	daysOfWeek []int64,
	startDate, endDate *time.Time,
	priority int,
) (model.PlaylistSchedule, error) {
	var s model.PlaylistSchedule
	err := DB.Get(&s, `
		INSERT INTO playlist_schedules
			(playlist_id, group_id, start_time, end_time, days_of_week,
			 start_date, end_date, priority, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, now(), now())
		RETURNING `+scheduleColumns,
		playlistID, groupID, startTime, endTime, pq.Array(daysOfWeek),
		startDate, endDate, priority)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Int("group_id", groupID).Msg("failed to create schedule")
		return model.PlaylistSchedule{}, err
	}
	return s, nil
}

func GetScheduleByID(id int) (model.PlaylistSchedule, error) {
	var s model.PlaylistSchedule
	err := DB.Get(&s, `SELECT `+scheduleColumns+` FROM playlist_schedules WHERE id = $1`, id)
	return s, err
}

func ListSchedules() ([]model.PlaylistSchedule, error) {
	var out []model.PlaylistSchedule
	err := DB.Select(&out, `
		SELECT `+scheduleColumns+`
		  FROM playlist_schedules
		 ORDER BY priority DESC, id DESC`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list schedules")
	}
	return out, err
}

// ListActiveSchedulesForGroup returns the group's enabled schedules in
// resolver order: priority descending, newest first on ties.
func ListActiveSchedulesForGroup(groupID int) ([]model.PlaylistSchedule, error) {
	var out []model.PlaylistSchedule
	err := DB.Select(&out, `
		SELECT `+scheduleColumns+`
		  FROM playlist_schedules
		 WHERE group_id = $1
		   AND is_active = true
		 ORDER BY priority DESC, id DESC`, groupID)
	if err != nil {
		log.Error().Err(err).Int("group_id", groupID).Msg("failed to list schedules for group")
	}
	return out, err
}

func UpdateSchedule(
	id int,
	startTime, endTime *string,
	daysOfWeek []int64,
	startDate, endDate *time.Time,
	priority *int,
	isActive *bool,
) error {
	var days interface{}
	if daysOfWeek != nil {
		days = pq.Array(daysOfWeek)
	}
	_, err := DB.Exec(`
		UPDATE playlist_schedules
		   SET start_time   = COALESCE($2, start_time),
		       end_time     = COALESCE($3, end_time),
		       days_of_week = COALESCE($4, days_of_week),
		       start_date   = COALESCE($5, start_date),
		       end_date     = COALESCE($6, end_date),
		       priority     = COALESCE($7, priority),
		       is_active    = COALESCE($8, is_active),
		       updated_at   = now()
		 WHERE id = $1`,
		id, startTime, endTime, days, startDate, endDate, priority, isActive)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("failed to update schedule")
	}
	return err
}

func DeleteSchedule(id int) error {
	_, err := DB.Exec(`DELETE FROM playlist_schedules WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("schedule_id", id).Msg("failed to delete schedule")
	}
	return err
}
