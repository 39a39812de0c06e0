package sync

import (
	"sort"
	"time"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// ResolveActivePlaylist picks the playlist a group should be showing at
// now. Candidates are scanned highest priority first (id descending as
// tiebreak, so the most recently created schedule wins ties) and the
// first schedule whose date, weekday and time-of-day windows all match
// is taken. Overlaps are resolved purely by that ordering; this is a
// greedy ladder, not a conflict solver. Falls back to the group's
// default playlist, which may be absent.
func ResolveActivePlaylist(schedules []model.PlaylistSchedule, defaultPlaylistID *int, now time.Time) *int {
	ordered := make([]model.PlaylistSchedule, len(schedules))
	copy(ordered, schedules)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].ID > ordered[j].ID
	})

	for i := range ordered {
		if ScheduleActiveAt(&ordered[i], now) {
			id := ordered[i].PlaylistID
			return &id
		}
	}
	return defaultPlaylistID
}

// ScheduleActiveAt reports whether a schedule's window contains now.
// A schedule missing either time-of-day bound is never active.
func ScheduleActiveAt(s *model.PlaylistSchedule, now time.Time) bool {
	if !s.IsActive {
		return false
	}

	start, ok := parseTimeOfDay(s.StartTime)
	if !ok {
		return false
	}
	end, ok := parseTimeOfDay(s.EndTime)
	if !ok {
		return false
	}

	if s.StartDate != nil && dateOnly(now).Before(dateOnly(*s.StartDate)) {
		return false
	}
	if s.EndDate != nil && dateOnly(now).After(dateOnly(*s.EndDate)) {
		return false
	}

	if len(s.DaysOfWeek) > 0 && !containsDay(s.DaysOfWeek, isoWeekday(now)) {
		return false
	}

	// compared at second granularity: a window ending 17:00 excludes
	// 17:00:59 but includes 17:00:00
	secs := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if start <= end {
		return start <= secs && secs <= end
	}
	// window crosses midnight
	return secs >= start || secs <= end
}

// parseTimeOfDay converts "HH:MM" to seconds since midnight.
func parseTimeOfDay(v string) (int, bool) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, false
	}
	return t.Hour()*3600 + t.Minute()*60, true
}

// ValidTimeOfDay reports whether v is an "HH:MM" clock value the
// resolver can evaluate.
func ValidTimeOfDay(v string) bool {
	_, ok := parseTimeOfDay(v)
	return ok
}

// isoWeekday maps time.Weekday onto ISO 8601 numbering, 1=Monday
// through 7=Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func containsDay(days []int64, day int) bool {
	for _, d := range days {
		if int(d) == day {
			return true
		}
	}
	return false
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
