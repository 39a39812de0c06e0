package sync

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// Reconciler runs one stateless check_server round per call: validate
// the device, fold health into the player row, compute the server-side
// digest against the live catalog and decide whether the device needs a
// full sync payload. There is no session state; the presented digest is
// the only thing tying two polls together.
type Reconciler struct {
	store Store
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// NormalizeDeviceID uppercases a device identifier and reports whether
// it is acceptable: exactly 16 alphanumeric characters. The registration
// surface never enforced stricter hex, so neither does sync.
func NormalizeDeviceID(id string) (string, bool) {
	if len(id) != 16 {
		return "", false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return "", false
		}
	}
	return strings.ToUpper(id), true
}

// CheckServer handles one device poll at now. It returns
// ErrInvalidDeviceID for malformed identifiers and
// ErrPlayerNotRegistered for unknown ones; both leave no state behind.
// Any other error is a transient server failure; the player row is
// untouched except for the advisory failure counter.
func (r *Reconciler) CheckServer(req *CheckServerRequest, now time.Time) (*CheckServerResponse, error) {
	deviceID, ok := NormalizeDeviceID(req.DeviceID)
	if !ok {
		return nil, ErrInvalidDeviceID
	}

	player, group, err := r.store.PlayerByDeviceID(deviceID)
	if err != nil {
		return nil, err
	}

	audit := &model.SyncRequest{
		PlayerID:         player.ID,
		RequestTimestamp: now,
		ClientSyncHash:   req.LastSyncHash,
		AppVersion:       req.AppVersion,
		FirmwareVersion:  req.FirmwareVersion,
		BatteryLevel:     req.BatteryLevel,
		StorageFreeMB:    req.StorageFreeMB,
		ConnectionType:   req.ConnectionType,
	}
	auditID, err := r.store.OpenSyncRequest(audit)
	if err != nil {
		return nil, r.fail(player.ID, err)
	}

	playlist, err := r.resolvePlaylist(group, now)
	if err != nil {
		return nil, r.fail(player.ID, err)
	}

	serverHash := ComputeDigest(BuildDigestInput(player, group, playlist))

	// an empty client digest can never match, so first contact always
	// syncs
	needsSync := req.LastSyncHash != serverHash

	resp := &CheckServerResponse{
		Status:           StatusSuccess,
		ServerTimestamp:  now.UTC().Format(time.RFC3339),
		DeviceRegistered: true,
		NeedsSync:        needsSync,
	}

	if needsSync {
		resp.NewSyncHash = serverHash
		resp.SyncData = buildSyncData(player, group, playlist, now)
	} else {
		resp.NextCheckInterval = group.SyncInterval
	}

	commandIDs, err := r.attachPending(resp, player, group, now)
	if err != nil {
		return nil, r.fail(player.ID, err)
	}

	health := HealthReport{
		BatteryLevel:    req.BatteryLevel,
		StorageFreeMB:   req.StorageFreeMB,
		Temperature:     req.DeviceHealth.TemperatureCelsius,
		SignalStrength:  req.DeviceHealth.SignalStrength,
		ConnectionType:  req.ConnectionType,
		AppVersion:      req.AppVersion,
		FirmwareVersion: req.FirmwareVersion,
		IPAddress:       req.RemoteAddr,
	}
	if err := r.store.ApplyCheckServer(player.ID, health, needsSync, serverHash, now); err != nil {
		return nil, r.fail(player.ID, err)
	}

	// flipped only once the player row is committed: a failed poll must
	// leave the commands pending so the next poll re-delivers them
	if len(commandIDs) > 0 {
		if err := r.store.MarkCommandsSent(commandIDs, now); err != nil {
			return nil, r.fail(player.ID, err)
		}
	}

	if err := r.store.FinalizeSyncRequest(auditID, serverHash, needsSync, now); err != nil {
		// the response is already decided; a lost audit finalize is not
		// worth failing the device over
		log.Error().Err(err).Int("sync_request_id", auditID).Msg("failed to finalize sync request")
	}

	log.Info().
		Str("device_id", deviceID).
		Bool("needs_sync", needsSync).
		Str("server_hash", serverHash[:8]).
		Msg("check_server reconciled")

	return resp, nil
}

// resolvePlaylist runs the schedule ladder for the group and loads the
// winning playlist with its items and assets. No playlist is a valid
// outcome.
func (r *Reconciler) resolvePlaylist(group *model.Group, now time.Time) (*model.Playlist, error) {
	schedules, err := r.store.SchedulesForGroup(group.ID)
	if err != nil {
		return nil, err
	}
	playlistID := ResolveActivePlaylist(schedules, group.DefaultPlaylistID, now)
	if playlistID == nil {
		return nil, nil
	}
	return r.store.PlaylistWithItems(*playlistID)
}

// attachPending adds active emergency messages and due system commands,
// returning the ids of the delivered commands. Both lists ride along
// regardless of needs_sync. The sent-flip happens later, after the
// player row write succeeds.
func (r *Reconciler) attachPending(resp *CheckServerResponse, player *model.Player, group *model.Group, now time.Time) ([]int, error) {
	emergencies, err := r.store.ActiveEmergencies(player.ID, group.ID, now)
	if err != nil {
		return nil, err
	}
	for i := range emergencies {
		resp.EmergencyMessages = append(resp.EmergencyMessages, emergencySync(&emergencies[i]))
	}

	commands, err := r.store.PendingCommands(player.ID, now)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(commands))
	for i := range commands {
		resp.SystemCommands = append(resp.SystemCommands, commandSync(&commands[i]))
		ids = append(ids, commands[i].ID)
	}
	return ids, nil
}

// Confirm handles a device's post-download acknowledgement. The hash is
// taken at face value: the device finished downloading whatever it was
// told to, and the server re-stamps last_sync accordingly.
func (r *Reconciler) Confirm(req *SyncConfirmationRequest, now time.Time) error {
	deviceID, ok := NormalizeDeviceID(req.DeviceID)
	if !ok {
		return ErrInvalidDeviceID
	}
	return r.store.ConfirmSync(deviceID, req.SyncHash, req.SyncStats, now)
}

// AcknowledgeEmergency records that a player displayed an emergency
// message.
func (r *Reconciler) AcknowledgeEmergency(deviceID string, messageID int, now time.Time) error {
	id, ok := NormalizeDeviceID(deviceID)
	if !ok {
		return ErrInvalidDeviceID
	}
	return r.store.AcknowledgeEmergency(id, messageID, now)
}

// fail bumps the advisory failure counter before surfacing a transient
// error. The counter never blocks the next poll.
func (r *Reconciler) fail(playerID int, err error) error {
	if n, ferr := r.store.IncrementSyncFailures(playerID); ferr == nil {
		log.Warn().Int("player_id", playerID).Int("consecutive_failures", n).Msg("sync attempt failed")
	}
	return err
}
