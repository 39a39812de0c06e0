package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/device/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/middleware"
	"github.com/Lumen-Tech-LLC/lumen/internal/sync"
)

// RegisterModule mounts device enrollment. New players land in the
// default group until an operator moves them.
func RegisterModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Raw("POST", "/register/", registerDevice)
	})
}

func registerDevice(ctx *gin.Context) {
	var req packets.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": sync.StatusError, "error": err.Error()})
		return
	}

	deviceID, ok := sync.NormalizeDeviceID(req.DeviceID)
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": sync.StatusError, "error": "invalid device_id"})
		return
	}

	name := req.Name
	if name == "" {
		name = "Player " + deviceID[:6]
	}

	var groupID int
	if req.GroupID != nil {
		if _, err := db.GetGroupByID(*req.GroupID); err == nil {
			groupID = *req.GroupID
		}
	}
	if groupID == 0 {
		// unknown or omitted group lands in the default group
		id, err := db.DefaultGroupID()
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"status": sync.StatusError, "error": "internal error"})
			return
		}
		groupID = id
	}

	player, err := db.RegisterPlayer(deviceID, name, groupID, req.AppVersion, req.FirmwareVersion)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": sync.StatusError, "error": "internal error"})
		return
	}

	group, err := db.GetGroupByID(player.GroupID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": sync.StatusError, "error": "internal error"})
		return
	}

	log.Info().Str("device_id", deviceID).Int("player_id", player.ID).Msg("device registered")
	middleware.PublishPlayerEvent(deviceID, "registered", map[string]any{
		"player_id": player.ID,
		"group_id":  player.GroupID,
	})

	ctx.JSON(http.StatusOK, packets.RegisterResponse{
		Status:       sync.StatusSuccess,
		PlayerID:     player.ID,
		DeviceID:     player.DeviceID,
		GroupID:      player.GroupID,
		SyncInterval: group.SyncInterval,
	})
}
