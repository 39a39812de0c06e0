package sync

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// 2025-03-10 is a Monday.
var monday = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func schedule(id, playlistID, priority int, start, end string) model.PlaylistSchedule {
	return model.PlaylistSchedule{
		ID:         id,
		PlaylistID: playlistID,
		GroupID:    1,
		StartTime:  start,
		EndTime:    end,
		Priority:   priority,
		IsActive:   true,
	}
}

func TestResolveActivePlaylist_HighestPriorityWins(t *testing.T) {
	schedules := []model.PlaylistSchedule{
		schedule(1, 10, 1, "00:00", "23:59"),
		schedule(2, 20, 5, "09:00", "17:00"),
		schedule(3, 30, 3, "08:00", "12:00"),
	}

	got := ResolveActivePlaylist(schedules, nil, monday)

	require.NotNil(t, got)
	assert.Equal(t, 20, *got)
}

func TestResolveActivePlaylist_NewestScheduleBreaksTies(t *testing.T) {
	schedules := []model.PlaylistSchedule{
		schedule(1, 10, 5, "09:00", "17:00"),
		schedule(2, 20, 5, "09:00", "17:00"),
	}

	got := ResolveActivePlaylist(schedules, nil, monday)

	require.NotNil(t, got)
	assert.Equal(t, 20, *got)
}

func TestResolveActivePlaylist_SkipsNonMatching(t *testing.T) {
	afternoon := schedule(2, 20, 5, "13:00", "17:00")
	morning := schedule(1, 10, 1, "08:00", "12:00")

	got := ResolveActivePlaylist([]model.PlaylistSchedule{afternoon, morning}, nil, monday)

	require.NotNil(t, got)
	assert.Equal(t, 10, *got)
}

func TestResolveActivePlaylist_DefaultFallback(t *testing.T) {
	def := 99
	schedules := []model.PlaylistSchedule{
		schedule(1, 10, 1, "13:00", "17:00"),
	}

	got := ResolveActivePlaylist(schedules, &def, monday)
	require.NotNil(t, got)
	assert.Equal(t, 99, *got)

	assert.Nil(t, ResolveActivePlaylist(schedules, nil, monday))
}

func TestScheduleActiveAt_TimeWindow(t *testing.T) {
	s := schedule(1, 10, 1, "09:00", "17:00")

	assert.True(t, ScheduleActiveAt(&s, monday))

	// bounds are inclusive at second granularity
	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))
	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)))

	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 8, 59, 59, 0, time.UTC)))
	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 17, 0, 59, 0, time.UTC)))
	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 17, 1, 0, 0, time.UTC)))
}

func TestScheduleActiveAt_CrossesMidnight(t *testing.T) {
	s := schedule(1, 10, 1, "22:00", "02:00")

	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)))
	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 1, 15, 0, 0, time.UTC)))
	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)))
	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)))

	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 10, 2, 1, 0, 0, time.UTC)))
}

func TestScheduleActiveAt_DaysOfWeek(t *testing.T) {
	s := schedule(1, 10, 1, "00:00", "23:59")
	s.DaysOfWeek = pq.Int64Array{1, 2, 3, 4, 5}

	assert.True(t, ScheduleActiveAt(&s, monday))

	// 2025-03-15 is a Saturday, 2025-03-16 a Sunday (ISO day 7)
	saturday := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 16, 9, 30, 0, 0, time.UTC)
	assert.False(t, ScheduleActiveAt(&s, saturday))
	assert.False(t, ScheduleActiveAt(&s, sunday))

	weekend := schedule(2, 10, 1, "00:00", "23:59")
	weekend.DaysOfWeek = pq.Int64Array{6, 7}
	assert.True(t, ScheduleActiveAt(&weekend, saturday))
	assert.True(t, ScheduleActiveAt(&weekend, sunday))
	assert.False(t, ScheduleActiveAt(&weekend, monday))
}

func TestScheduleActiveAt_DateWindow(t *testing.T) {
	s := schedule(1, 10, 1, "00:00", "23:59")
	start := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	s.StartDate = &start
	s.EndDate = &end

	// date comparison ignores the time of day on the bounds
	assert.True(t, ScheduleActiveAt(&s, monday))
	assert.True(t, ScheduleActiveAt(&s, time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC)))

	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 9, 9, 30, 0, 0, time.UTC)))
	assert.False(t, ScheduleActiveAt(&s, time.Date(2025, 3, 13, 0, 1, 0, 0, time.UTC)))
}

func TestScheduleActiveAt_InactiveOrMalformed(t *testing.T) {
	inactive := schedule(1, 10, 1, "00:00", "23:59")
	inactive.IsActive = false
	assert.False(t, ScheduleActiveAt(&inactive, monday))

	broken := schedule(2, 10, 1, "9am", "17:00")
	assert.False(t, ScheduleActiveAt(&broken, monday))

	missing := schedule(3, 10, 1, "", "")
	assert.False(t, ScheduleActiveAt(&missing, monday))
}

func TestValidTimeOfDay(t *testing.T) {
	assert.True(t, ValidTimeOfDay("09:00"))
	assert.True(t, ValidTimeOfDay("23:59"))
	assert.False(t, ValidTimeOfDay("24:00"))
	assert.False(t, ValidTimeOfDay("9:00am"))
	assert.False(t, ValidTimeOfDay(""))
}
