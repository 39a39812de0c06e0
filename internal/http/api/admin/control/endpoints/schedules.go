package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
	syncpkg "github.com/Lumen-Tech-LLC/lumen/internal/sync"
)

type ScheduleController struct{}

// ScheduleModule mounts schedule management. Priority resolves overlaps:
// highest wins, newest wins a tie.
func ScheduleModule() api.Module {
	ctl := &ScheduleController{}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules", ctl.createSchedule)
		c.GET("/schedules/:id", ctl.getSchedule)
		c.PUT("/schedules/:id", ctl.updateSchedule)
		c.DELETE("/schedules/:id", ctl.deleteSchedule)
	})
}

func (s *ScheduleController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	schedules, err := db.ListSchedules()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list schedules"}
	}
	return schedules, nil
}

func (s *ScheduleController) getSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	schedule, err := db.GetScheduleByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}
	return schedule, nil
}

func (s *ScheduleController) createSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if !syncpkg.ValidTimeOfDay(req.StartTime) || !syncpkg.ValidTimeOfDay(req.EndTime) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "times must be HH:MM"}
	}
	for _, d := range req.DaysOfWeek {
		if d < 1 || d > 7 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "days_of_week must be 1-7"}
		}
	}
	if _, err := db.GetPlaylistByID(req.PlaylistID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if _, err := db.GetGroupByID(req.GroupID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "group not found"}
	}

	schedule, err := db.CreateSchedule(
		req.PlaylistID, req.GroupID,
		req.StartTime, req.EndTime, req.DaysOfWeek,
		req.StartDate, req.EndDate, req.Priority,
	)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create schedule"}
	}
	return schedule, nil
}

func (s *ScheduleController) updateSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.StartTime != nil && !syncpkg.ValidTimeOfDay(*req.StartTime) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "times must be HH:MM"}
	}
	if req.EndTime != nil && !syncpkg.ValidTimeOfDay(*req.EndTime) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "times must be HH:MM"}
	}
	for _, d := range req.DaysOfWeek {
		if d < 1 || d > 7 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "days_of_week must be 1-7"}
		}
	}
	if err := db.UpdateSchedule(id, req.StartTime, req.EndTime, req.DaysOfWeek, req.StartDate, req.EndDate, req.Priority, req.IsActive); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update schedule"}
	}
	schedule, err := db.GetScheduleByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "schedule not found"}
	}
	return schedule, nil
}

func (s *ScheduleController) deleteSchedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := db.DeleteSchedule(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete schedule"}
	}
	return gin.H{"deleted": true}, nil
}
