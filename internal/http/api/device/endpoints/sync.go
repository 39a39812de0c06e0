package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/api/device/packets"
	"github.com/Lumen-Tech-LLC/lumen/internal/http/middleware"
	redisclient "github.com/Lumen-Tech-LLC/lumen/internal/redis"
	"github.com/Lumen-Tech-LLC/lumen/internal/sync"
)

// indirection for tests; presence and events hit external services
var (
	touchPresence      = redisclient.TouchPresence
	publishPlayerEvent = middleware.PublishPlayerEvent
)

type SyncController struct {
	reconciler *sync.Reconciler
}

func NewSyncController(reconciler *sync.Reconciler) *SyncController {
	return &SyncController{reconciler: reconciler}
}

// SyncModule mounts the device polling endpoints. These are
// unauthenticated: the device_id in the payload is the identity, and
// unknown identifiers get a 404 that tells the device to re-register.
func SyncModule(reconciler *sync.Reconciler) api.Module {
	ctl := NewSyncController(reconciler)
	return api.ModuleFunc(func(c *api.Controller) {
		c.Raw("POST", "/check_server/", ctl.checkServer)
		c.Raw("POST", "/sync_confirmation/", ctl.confirmSync)
		c.Raw("POST", "/emergency_ack/", ctl.acknowledgeEmergency)
	})
}

func (s *SyncController) checkServer(ctx *gin.Context) {
	now := time.Now().UTC()

	var req sync.CheckServerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status": sync.StatusError,
			"error":  err.Error(),
		})
		return
	}
	req.RemoteAddr = ctx.ClientIP()

	// presence keys and event topics use the stored uppercase form, so
	// normalize before anything downstream sees the identifier
	if id, ok := sync.NormalizeDeviceID(req.DeviceID); ok {
		req.DeviceID = id
	}

	resp, err := s.reconciler.CheckServer(&req, now)
	if err != nil {
		s.renderCheckServerError(ctx, &req, err, now)
		return
	}

	interval := resp.NextCheckInterval
	if interval <= 0 {
		interval = 60
	}
	touchPresence(ctx.Request.Context(), req.DeviceID, interval)

	if resp.NeedsSync {
		publishPlayerEvent(req.DeviceID, "sync_served", map[string]any{
			"new_sync_hash": resp.NewSyncHash,
		})
	}

	ctx.JSON(http.StatusOK, resp)
}

func (s *SyncController) renderCheckServerError(ctx *gin.Context, req *sync.CheckServerRequest, err error, now time.Time) {
	switch {
	case errors.Is(err, sync.ErrInvalidDeviceID):
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status": sync.StatusError,
			"error":  "invalid device_id",
		})
	case errors.Is(err, sync.ErrPlayerNotRegistered):
		ctx.JSON(http.StatusNotFound, gin.H{
			"status":            sync.StatusNotRegistered,
			"server_timestamp":  now.Format(time.RFC3339),
			"device_registered": false,
		})
	default:
		log.Error().Err(err).Str("device_id", req.DeviceID).Msg("check_server failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"status": sync.StatusError,
			"error":  "internal error",
		})
	}
}

func (s *SyncController) confirmSync(ctx *gin.Context) {
	now := time.Now().UTC()

	var req sync.SyncConfirmationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": sync.StatusError, "error": err.Error()})
		return
	}

	if id, ok := sync.NormalizeDeviceID(req.DeviceID); ok {
		req.DeviceID = id
	}

	if err := s.reconciler.Confirm(&req, now); err != nil {
		s.renderDeviceError(ctx, req.DeviceID, err, "sync_confirmation failed")
		return
	}

	publishPlayerEvent(req.DeviceID, "sync_confirmed", map[string]any{
		"sync_hash": req.SyncHash,
	})
	ctx.JSON(http.StatusOK, packets.AckResponse{Status: sync.StatusSuccess})
}

func (s *SyncController) acknowledgeEmergency(ctx *gin.Context) {
	now := time.Now().UTC()

	var req packets.EmergencyAckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"status": sync.StatusError, "error": err.Error()})
		return
	}

	if err := s.reconciler.AcknowledgeEmergency(req.DeviceID, req.MessageID, now); err != nil {
		s.renderDeviceError(ctx, req.DeviceID, err, "emergency_ack failed")
		return
	}

	ctx.JSON(http.StatusOK, packets.AckResponse{Status: sync.StatusSuccess})
}

func (s *SyncController) renderDeviceError(ctx *gin.Context, deviceID string, err error, msg string) {
	switch {
	case errors.Is(err, sync.ErrInvalidDeviceID):
		ctx.JSON(http.StatusBadRequest, gin.H{"status": sync.StatusError, "error": "invalid device_id"})
	case errors.Is(err, sync.ErrPlayerNotRegistered):
		ctx.JSON(http.StatusNotFound, gin.H{"status": sync.StatusNotRegistered, "device_registered": false})
	default:
		log.Error().Err(err).Str("device_id", deviceID).Msg(msg)
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": sync.StatusError, "error": "internal error"})
	}
}
