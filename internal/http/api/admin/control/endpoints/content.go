package endpoints

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/admin/control/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
	"github.com/Lumen-Tech-LLC/lumen/internal/storage"
)

type ContentController struct {
	storage storage.Storage
}

func newContentController(storage storage.Storage) *ContentController {
	return &ContentController{storage: storage}
}

// ContentModule mounts asset, label and layout management.
func ContentModule(storage storage.Storage) api.Module {
	ctl := newContentController(storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/assets", ctl.listAssets)
		c.POST("/assets", ctl.createAsset)
		c.GET("/assets/:id", ctl.getAsset)
		c.PUT("/assets/:id", ctl.updateAsset)
		c.DELETE("/assets/:id", ctl.deleteAsset)

		c.GET("/labels", ctl.listLabels)
		c.POST("/labels", ctl.createLabel)
		c.POST("/assets/:id/labels", ctl.attachLabel)
		c.DELETE("/assets/:id/labels/:labelID", ctl.detachLabel)

		c.GET("/layouts", ctl.listLayouts)
		c.POST("/layouts", ctl.createLayout)
	})
}

func (c *ContentController) listAssets(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	assets, err := db.ListAssets()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list assets"}
	}
	return assets, nil
}

func (c *ContentController) getAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	asset, err := db.GetAssetByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "asset not found"}
	}
	labels, err := db.ListLabelsForAsset(id)
	if err == nil {
		asset.Labels = labels
	}
	return asset, nil
}

// createAsset accepts either a multipart upload ("source" file field) or
// a JSON body with a "url" for link-type assets.
func (c *ContentController) createAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return c.createUploadedAsset(ctx, user)
	}
	return c.createLinkAsset(ctx, user)
}

func (c *ContentController) createUploadedAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	name := ctx.PostForm("name")
	assetType := ctx.PostForm("type")
	if name == "" || assetType == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing required form fields"}
	}

	fileHeader, err := ctx.FormFile("source")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "file is required"}
	}

	saved, err := c.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Msg("asset upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	var duration *int
	if raw := ctx.PostForm("duration"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			duration = &n
		}
	}
	var resolution *string
	if raw := ctx.PostForm("resolution"); raw != "" {
		resolution = &raw
	}

	originalName := filepath.Base(fileHeader.Filename)
	asset, err := db.CreateAsset(
		name, assetType, saved.URL,
		&originalName, nil, resolution,
		&saved.Size, duration,
		saved.Checksum, nil, user.ID,
	)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create asset"}
	}
	return asset, nil
}

type createLinkAssetRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

func (c *ContentController) createLinkAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req createLinkAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.Type != model.AssetTypeLink {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "only link assets may be created without a file"}
	}
	asset, err := db.CreateAsset(req.Name, req.Type, req.URL, nil, nil, nil, nil, nil, "", nil, user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create asset"}
	}
	return asset, nil
}

func (c *ContentController) updateAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.UpdateAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := db.UpdateAsset(id, req.Name, req.URL, req.Checksum, req.Resolution, req.FileSize, req.Duration); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update asset"}
	}
	asset, err := db.GetAssetByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "asset not found"}
	}
	return asset, nil
}

func (c *ContentController) deleteAsset(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := db.DeleteAsset(id); err != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "asset is in use"}
	}
	return gin.H{"deleted": true}, nil
}

func (c *ContentController) listLabels(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	labels, err := db.ListLabels()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list labels"}
	}
	return labels, nil
}

func (c *ContentController) createLabel(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateLabelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	color := req.Color
	if color == "" {
		color = "#808080"
	}
	label, err := db.CreateLabel(req.Name, color, req.Description)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "could not create label"}
	}
	return label, nil
}

func (c *ContentController) attachLabel(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.AttachLabelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if err := db.AttachLabelToAsset(id, req.LabelID); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "asset or label not found"}
	}
	return gin.H{"attached": true}, nil
}

func (c *ContentController) detachLabel(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid asset id"}
	}
	labelID, err := strconv.Atoi(ctx.Param("labelID"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid label id"}
	}
	if err := db.DetachLabelFromAsset(id, labelID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not detach label"}
	}
	return gin.H{"detached": true}, nil
}

func (c *ContentController) listLayouts(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	layouts, err := db.ListLayouts()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list layouts"}
	}
	return layouts, nil
}

func (c *ContentController) createLayout(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateLayoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	layout, err := db.CreateCustomLayout(req.Code, req.Name, req.Description, req.ZonesConfig)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusConflict, Message: "could not create layout"}
	}
	return layout, nil
}
