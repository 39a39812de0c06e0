package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Lumen-Tech-LLC/lumen/internal/db"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
)

// AssetFileModule mounts the unauthenticated download surface devices
// pull asset bytes from. Externally hosted assets redirect; locally
// stored ones stream from disk.
func AssetFileModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Raw("GET", "/assets/:id/download/", downloadAsset)
		c.Raw("GET", "/assets/:id/thumbnail/", downloadThumbnail)
	})
}

func downloadAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	asset, err := db.GetAssetByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}

	serveAssetURL(ctx, asset.URL)
}

func downloadThumbnail(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	asset, err := db.GetAssetByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		return
	}
	if asset.ThumbnailURL == nil || *asset.ThumbnailURL == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no thumbnail"})
		return
	}

	serveAssetURL(ctx, *asset.ThumbnailURL)
}

func serveAssetURL(ctx *gin.Context, url string) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		ctx.Redirect(http.StatusFound, url)
		return
	}
	ctx.File(url)
}
