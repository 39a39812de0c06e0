package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

type GroupController struct{}

// GroupModule mounts group management. Changing a group's configuration
// or default playlist shifts the digest of every player in it; the
// devices pick it up on their next poll.
func GroupModule() api.Module {
	ctl := &GroupController{}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/groups", ctl.listGroups)
		c.POST("/groups", ctl.createGroup)
		c.GET("/groups/:id", ctl.getGroup)
		c.PUT("/groups/:id", ctl.updateGroup)
		c.DELETE("/groups/:id", ctl.deleteGroup)
		c.GET("/groups/:id/players", ctl.listPlayersInGroup)
	})
}

func (g *GroupController) listGroups(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	groups, err := db.ListGroups()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list groups"}
	}
	return groups, nil
}

func (g *GroupController) getGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	group, err := db.GetGroupByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "group not found"}
	}
	return group, nil
}

func (g *GroupController) createGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	group, err := db.CreateGroup(req.Name, req.Description)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "could not create group"}
	}
	return group, nil
}

func (g *GroupController) updateGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if req.DefaultPlaylistID != nil {
		if _, err := db.GetPlaylistByID(*req.DefaultPlaylistID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
		}
	}

	if err := db.UpdateGroup(
		id,
		req.Name, req.Description, req.Resolution, req.Orientation, req.Timezone,
		req.DefaultPlaylistID, req.SyncInterval, req.ScreenshotInterval,
		req.AudioEnabled, req.TVControl,
	); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update group"}
	}

	group, err := db.GetGroupByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "group not found"}
	}
	return group, nil
}

func (g *GroupController) deleteGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	players, err := db.ListPlayersInGroup(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not check group members"}
	}
	if len(players) > 0 {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "group has players assigned"}
	}
	if err := db.DeleteGroup(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete group"}
	}
	return gin.H{"deleted": true}, nil
}

func (g *GroupController) listPlayersInGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	players, err := db.ListPlayersInGroup(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list players"}
	}
	return playerResponses(ctx, players), nil
}
