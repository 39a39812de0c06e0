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

type PlaylistController struct{}

// PlaylistModule mounts playlist and playlist item management. Item
// changes bump the playlist's updated_at, which shifts the digest of
// every player currently resolving to it.
func PlaylistModule() api.Module {
	ctl := &PlaylistController{}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/playlists", ctl.listPlaylists)
		c.POST("/playlists", ctl.createPlaylist)
		c.GET("/playlists/:id", ctl.getPlaylist)
		c.PUT("/playlists/:id", ctl.updatePlaylist)
		c.DELETE("/playlists/:id", ctl.deletePlaylist)

		c.GET("/playlists/:id/items", ctl.listItems)
		c.POST("/playlists/:id/items", ctl.addItem)
		c.PUT("/playlists/:id/items/:itemID", ctl.updateItem)
		c.DELETE("/playlists/:id/items/:itemID", ctl.removeItem)
	})
}

func (p *PlaylistController) listPlaylists(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	playlists, err := db.ListPlaylists()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list playlists"}
	}
	return playlists, nil
}

func (p *PlaylistController) getPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	playlist, err := db.GetPlaylistWithAssets(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	return playlist, nil
}

func (p *PlaylistController) createPlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	code := req.LayoutCode
	if code == "" {
		code = "1"
	}
	layout, err := db.GetLayoutByCode(code)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "layout not found"}
	}

	playlist, err := db.CreatePlaylist(req.Name, req.Description, layout.ID, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}
	return playlist, nil
}

func (p *PlaylistController) updatePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.LayoutID != nil {
		if _, err := db.GetLayoutByID(*req.LayoutID); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "layout not found"}
		}
	}
	if err := db.UpdatePlaylist(
		id,
		req.Name, req.Description, req.TickerText, req.TickerPosition,
		req.LayoutID, req.TickerSpeed, req.AdInterval,
		req.TickerEnabled, req.ShuffleEnabled, req.RepeatEnabled, req.IsAdvertisement,
	); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update playlist"}
	}
	playlist, err := db.GetPlaylistByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	return playlist, nil
}

func (p *PlaylistController) deletePlaylist(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := db.DeletePlaylist(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete playlist"}
	}
	return gin.H{"deleted": true}, nil
}

func (p *PlaylistController) listItems(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	items, err := db.ListPlaylistItems(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list items"}
	}
	return items, nil
}

func (p *PlaylistController) addItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.AddPlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if _, err := db.GetAssetByID(req.AssetID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "asset not found"}
	}

	zone := req.Zone
	if zone == "" {
		zone = "main"
	}
	duration := req.Duration
	if duration <= 0 {
		duration = 10
	}
	transition := req.Transition
	if transition == "" {
		transition = model.TransitionNone
	}

	item, err := db.AddPlaylistItem(id, req.AssetID, zone, req.Order, duration, req.Fullscreen, transition, req.AssetTicker)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "could not add item"}
	}
	return item, nil
}

func (p *PlaylistController) updateItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	itemID, err := strconv.Atoi(ctx.Param("itemID"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}
	var req packets.UpdatePlaylistItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := db.UpdatePlaylistItem(itemID, req.Zone, req.Order, req.Duration, req.Fullscreen, req.Transition, req.AssetTicker); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update item"}
	}
	return gin.H{"updated": true}, nil
}

func (p *PlaylistController) removeItem(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	itemID, err := strconv.Atoi(ctx.Param("itemID"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid item id"}
	}
	if err := db.RemovePlaylistItem(itemID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove item"}
	}
	return gin.H{"removed": true}, nil
}
