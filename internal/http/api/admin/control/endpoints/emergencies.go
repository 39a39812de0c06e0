package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/middleware"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

type EmergencyController struct{}

// EmergencyModule mounts emergency broadcast management. Messages reach
// devices on their next poll; there is no push channel to the players.
func EmergencyModule() api.Module {
	ctl := &EmergencyController{}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/emergencies", ctl.listEmergencies)
		c.POST("/emergencies", ctl.createEmergency)
		c.DELETE("/emergencies/:id", ctl.deactivateEmergency)
	})
}

func (e *EmergencyController) listEmergencies(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	messages, err := db.ListEmergencyMessages()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list emergencies"}
	}
	return messages, nil
}

func (e *EmergencyController) createEmergency(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateEmergencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if len(req.PlayerIDs) == 0 && len(req.GroupIDs) == 0 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "at least one player or group target required"}
	}

	priority := req.Priority
	if priority == "" {
		priority = "high"
	}
	displayDuration := req.DisplayDuration
	if displayDuration <= 0 {
		displayDuration = 30
	}
	fontSize := req.FontSize
	if fontSize <= 0 {
		fontSize = 48
	}
	backgroundColor := req.BackgroundColor
	if backgroundColor == "" {
		backgroundColor = "#FF0000"
	}
	textColor := req.TextColor
	if textColor == "" {
		textColor = "#FFFFFF"
	}
	startTime := time.Now().UTC()
	if req.StartTime != nil {
		startTime = req.StartTime.UTC()
	}

	message, err := db.CreateEmergencyMessage(
		req.Title, req.Message, priority,
		displayDuration, fontSize,
		backgroundColor, textColor,
		startTime, req.EndTime, user.ID,
	)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create emergency"}
	}

	if err := db.TargetEmergencyAtPlayers(message.ID, req.PlayerIDs); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not target players"}
	}
	if err := db.TargetEmergencyAtGroups(message.ID, req.GroupIDs); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not target groups"}
	}

	middleware.PublishFleetEvent("emergency_created", map[string]any{
		"message_id": message.ID,
		"priority":   message.Priority,
	})

	return message, nil
}

func (e *EmergencyController) deactivateEmergency(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := db.DeactivateEmergencyMessage(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not deactivate emergency"}
	}
	middleware.PublishFleetEvent("emergency_deactivated", map[string]any{"message_id": id})
	return gin.H{"deactivated": true}, nil
}
