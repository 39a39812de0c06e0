package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
	redisclient "github.com/Lumen-Tech-LLC/lumen/internal/redis"
)

type PlayerController struct{}

// PlayerModule mounts fleet management endpoints.
func PlayerModule() api.Module {
	ctl := &PlayerController{}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/players", ctl.listPlayers)
		c.GET("/players/fleet_status", ctl.fleetStatus)
		c.GET("/players/:id", ctl.getPlayer)
		c.PUT("/players/:id", ctl.updatePlayer)
		c.DELETE("/players/:id", ctl.deletePlayer)
		c.GET("/players/:id/sync_history", ctl.syncHistory)
	})
}

func (p *PlayerController) listPlayers(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	players, err := db.ListPlayers()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list players"}
	}
	return playerResponses(ctx, players), nil
}

func (p *PlayerController) fleetStatus(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	// fold stale rows before counting so the summary reflects reality
	if _, err := db.MarkStalePlayersOffline(); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not refresh fleet status"}
	}

	players, err := db.ListPlayers()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list players"}
	}

	var out packets.FleetStatusResponse
	out.Total = len(players)
	for i := range players {
		switch players[i].Status {
		case model.PlayerStatusOnline:
			out.Online++
		case model.PlayerStatusSyncing:
			out.Syncing++
		case model.PlayerStatusError:
			out.Error++
		default:
			out.Offline++
		}
	}
	return out, nil
}

func (p *PlayerController) getPlayer(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	player, err := db.GetPlayerByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "player not found"}
	}
	return playerResponse(ctx, &player), nil
}

func (p *PlayerController) updatePlayer(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdatePlayerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if req.GroupID != nil {
		if _, err := db.GetGroupByID(*req.GroupID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "group not found"}
		}
	}

	if err := db.UpdatePlayer(
		id,
		req.Name, req.MACAddress, req.CustomResolution, req.CustomOrientation,
		req.Timezone, req.Notes, req.GroupID,
	); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update player"}
	}

	player, err := db.GetPlayerByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "player not found"}
	}
	return playerResponse(ctx, &player), nil
}

func (p *PlayerController) deletePlayer(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := db.DeletePlayer(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete player"}
	}
	return gin.H{"deleted": true}, nil
}

func (p *PlayerController) syncHistory(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	history, err := db.ListSyncRequestsForPlayer(id, limit)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list sync history"}
	}
	return history, nil
}

func playerResponse(ctx *gin.Context, x *model.Player) packets.PlayerResponse {
	return packets.PlayerResponse{
		ID:                  x.ID,
		DeviceID:            x.DeviceID,
		Name:                x.Name,
		GroupID:             x.GroupID,
		Status:              x.Status,
		Online:              redisclient.IsOnline(ctx.Request.Context(), x.DeviceID),
		LastSeen:            formatTime(x.LastSeen),
		LastSync:            formatTime(x.LastSync),
		LastSyncHash:        x.LastSyncHash,
		SyncPending:         x.SyncPending,
		ConsecutiveFailures: x.ConsecutiveFailures,
		IPAddress:           x.IPAddress,
		AppVersion:          x.AppVersion,
		FirmwareVersion:     x.FirmwareVersion,
		BatteryLevel:        x.BatteryLevel,
		StorageFreeMB:       x.StorageFreeMB,
		Temperature:         x.Temperature,
		ConnectionType:      x.ConnectionType,
		SignalStrength:      x.SignalStrength,
		CustomResolution:    x.CustomResolution,
		CustomOrientation:   x.CustomOrientation,
		CreatedAt:           x.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           x.UpdatedAt.Format(time.RFC3339),
	}
}

func playerResponses(ctx *gin.Context, players []model.Player) []packets.PlayerResponse {
	out := make([]packets.PlayerResponse, 0, len(players))
	for i := range players {
		out = append(out, playerResponse(ctx, &players[i]))
	}
	return out
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
