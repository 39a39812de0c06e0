package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// Command types devices know how to execute.
var knownCommandTypes = map[string]bool{
	"reboot":           true,
	"restart_app":      true,
	"clear_cache":      true,
	"screenshot":       true,
	"update_firmware":  true,
	"volume_set":       true,
	"display_on":       true,
	"display_off":      true,
	"force_sync":       true,
	"clear_sync_state": true,
}

type CommandController struct{}

// CommandModule mounts remote-control command management. Commands are
// delivered on the target device's next poll and flipped to sent.
func CommandModule() api.Module {
	ctl := &CommandController{}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/commands", ctl.listCommands)
		c.POST("/commands", ctl.createCommand)
	})
}

func (cc *CommandController) listCommands(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	commands, err := db.ListSystemCommands()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list commands"}
	}
	return commands, nil
}

func (cc *CommandController) createCommand(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateCommandRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if !knownCommandTypes[req.CommandType] {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "unknown command type"}
	}
	if len(req.PlayerIDs) == 0 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "at least one player target required"}
	}
	for _, pid := range req.PlayerIDs {
		if _, err := db.GetPlayerByID(pid); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "player not found"}
		}
	}

	scheduledAt := time.Now().UTC()
	if req.ScheduledAt != nil {
		scheduledAt = req.ScheduledAt.UTC()
	}

	command, err := db.CreateSystemCommand(req.CommandType, req.Parameters, scheduledAt, req.PlayerIDs, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create command"}
	}
	return command, nil
}
