package sync

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

const testDeviceID = "A1B2C3D4E5F6G7H8"

// fakeStore is an in-memory Store for reconciler tests. It keeps just
// enough state to replay a poll/confirm round trip and records every
// mutating call for assertions.
type fakeStore struct {
	player   *model.Player
	group    *model.Group
	sched    []model.PlaylistSchedule
	playlist *model.Playlist

	emergencies []model.EmergencyMessage
	commands    []model.SystemCommand

	openErr  error
	applyErr error

	auditOpened    []model.SyncRequest
	auditFinalized map[int]bool
	applyCalls     []applyCall
	confirmCalls   []confirmCall
	ackCalls       []ackCall
	sentCommandIDs []int
	failures       int
}

type applyCall struct {
	playerID   int
	health     HealthReport
	servedSync bool
	serverHash string
}

type confirmCall struct {
	deviceID string
	syncHash string
	stats    *SyncStats
}

type ackCall struct {
	deviceID  string
	messageID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		player: &model.Player{
			ID:       1,
			DeviceID: testDeviceID,
			GroupID:  1,
			Status:   model.PlayerStatusOnline,
		},
		group: &model.Group{
			ID:           1,
			Name:         "Default",
			SyncInterval: 60,
			Resolution:   "1920x1080",
			Orientation:  "landscape",
			AudioEnabled: true,
		},
		auditFinalized: map[int]bool{},
	}
}

func (f *fakeStore) PlayerByDeviceID(deviceID string) (*model.Player, *model.Group, error) {
	if f.player == nil || f.player.DeviceID != deviceID {
		return nil, nil, ErrPlayerNotRegistered
	}
	p := *f.player
	g := *f.group
	return &p, &g, nil
}

func (f *fakeStore) SchedulesForGroup(groupID int) ([]model.PlaylistSchedule, error) {
	return f.sched, nil
}

func (f *fakeStore) PlaylistWithItems(id int) (*model.Playlist, error) {
	if f.playlist != nil && f.playlist.ID == id {
		return f.playlist, nil
	}
	return nil, errors.New("playlist not found")
}

func (f *fakeStore) ActiveEmergencies(playerID, groupID int, now time.Time) ([]model.EmergencyMessage, error) {
	return f.emergencies, nil
}

func (f *fakeStore) PendingCommands(playerID int, now time.Time) ([]model.SystemCommand, error) {
	return f.commands, nil
}

func (f *fakeStore) MarkCommandsSent(ids []int, now time.Time) error {
	f.sentCommandIDs = append(f.sentCommandIDs, ids...)
	f.commands = nil
	return nil
}

func (f *fakeStore) OpenSyncRequest(req *model.SyncRequest) (int, error) {
	if f.openErr != nil {
		return 0, f.openErr
	}
	f.auditOpened = append(f.auditOpened, *req)
	return len(f.auditOpened), nil
}

func (f *fakeStore) FinalizeSyncRequest(id int, serverHash string, needsSync bool, at time.Time) error {
	f.auditFinalized[id] = true
	return nil
}

func (f *fakeStore) ApplyCheckServer(playerID int, health HealthReport, servedSync bool, serverHash string, now time.Time) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applyCalls = append(f.applyCalls, applyCall{playerID, health, servedSync, serverHash})
	f.player.ConsecutiveFailures = 0
	if servedSync {
		f.player.LastSyncHash = serverHash
		f.player.SyncPending = true
	}
	return nil
}

func (f *fakeStore) ConfirmSync(deviceID string, syncHash string, stats *SyncStats, now time.Time) error {
	if f.player == nil || f.player.DeviceID != deviceID {
		return ErrPlayerNotRegistered
	}
	f.confirmCalls = append(f.confirmCalls, confirmCall{deviceID, syncHash, stats})
	f.player.SyncPending = false
	f.player.ConsecutiveFailures = 0
	return nil
}

func (f *fakeStore) AcknowledgeEmergency(deviceID string, messageID int, now time.Time) error {
	if f.player == nil || f.player.DeviceID != deviceID {
		return ErrPlayerNotRegistered
	}
	f.ackCalls = append(f.ackCalls, ackCall{deviceID, messageID})
	return nil
}

func (f *fakeStore) IncrementSyncFailures(playerID int) (int, error) {
	f.failures++
	f.player.ConsecutiveFailures++
	return f.failures, nil
}

func pollAt(lastHash string) *CheckServerRequest {
	return &CheckServerRequest{
		Action:       "check_server",
		DeviceID:     testDeviceID,
		LastSyncHash: lastHash,
		AppVersion:   "2.4.1",
	}
}

func TestCheckServer_InvalidDeviceID(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	for _, id := range []string{"", "short", "A1B2C3D4E5F6G7H", "A1B2C3D4E5F6G7H88", "A1B2C3D4E5F6G7H!"} {
		req := pollAt("")
		req.DeviceID = id
		_, err := r.CheckServer(req, now)
		assert.ErrorIs(t, err, ErrInvalidDeviceID, "device id %q", id)
	}
	assert.Empty(t, store.applyCalls)
	assert.Empty(t, store.auditOpened)
}

func TestCheckServer_LowercaseDeviceIDAccepted(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	req := pollAt("")
	req.DeviceID = "a1b2c3d4e5f6g7h8"

	resp, err := r.CheckServer(req, now)
	require.NoError(t, err)
	assert.True(t, resp.DeviceRegistered)
}

func TestCheckServer_UnknownDeviceLeavesNoState(t *testing.T) {
	store := newFakeStore()
	store.player.DeviceID = "FFFFFFFFFFFFFFFF"
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	_, err := r.CheckServer(pollAt(""), now)

	assert.ErrorIs(t, err, ErrPlayerNotRegistered)
	assert.Empty(t, store.auditOpened)
	assert.Empty(t, store.applyCalls)
	assert.Zero(t, store.failures)
}

func TestCheckServer_FirstContactServesFullSync(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	resp, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, resp.Status)
	assert.True(t, resp.NeedsSync)
	assert.Len(t, resp.NewSyncHash, 64)
	require.NotNil(t, resp.SyncData)
	assert.NotEmpty(t, resp.SyncData.SyncID)
	assert.Equal(t, 60, resp.SyncData.ConfigUpdates.SyncInterval)
	assert.Zero(t, resp.NextCheckInterval)

	require.Len(t, store.applyCalls, 1)
	assert.True(t, store.applyCalls[0].servedSync)
	assert.Equal(t, resp.NewSyncHash, store.applyCalls[0].serverHash)
	assert.True(t, store.auditFinalized[1])
}

func TestCheckServer_MatchingHashIsNoOp(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	first, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)
	require.True(t, first.NeedsSync)

	second, err := r.CheckServer(pollAt(first.NewSyncHash), now.Add(time.Minute))
	require.NoError(t, err)

	assert.False(t, second.NeedsSync)
	assert.Empty(t, second.NewSyncHash)
	assert.Nil(t, second.SyncData)
	assert.Equal(t, 60, second.NextCheckInterval)

	require.Len(t, store.applyCalls, 2)
	assert.False(t, store.applyCalls[1].servedSync)
}

func TestCheckServer_ConfigChangeTriggersResync(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	first, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)

	store.group.Resolution = "3840x2160"

	second, err := r.CheckServer(pollAt(first.NewSyncHash), now.Add(time.Minute))
	require.NoError(t, err)

	assert.True(t, second.NeedsSync)
	assert.NotEqual(t, first.NewSyncHash, second.NewSyncHash)
	assert.Equal(t, "3840x2160", second.SyncData.ConfigUpdates.Resolution)
}

func TestCheckServer_ScheduledPlaylistInPayload(t *testing.T) {
	store := newFakeStore()
	checksum := "deadbeef"
	size := int64(1048576)
	store.playlist = &model.Playlist{
		ID:         7,
		Name:       "Morning Loop",
		LayoutCode: "2a",
		UpdatedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Items: []model.PlaylistItem{
			{
				ID: 1, PlaylistID: 7, AssetID: 9, Zone: "main", Order: 1, Duration: 15,
				TransitionEffect: model.TransitionFade,
				Asset: &model.Asset{
					ID: 9, Name: "hero.png", Type: model.AssetTypeImage,
					Checksum: checksum, FileSize: &size,
					UpdatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
			{
				ID: 2, PlaylistID: 7, AssetID: 9, Zone: "sidebar", Order: 1, Duration: 15,
				Asset: &model.Asset{
					ID: 9, Name: "hero.png", Type: model.AssetTypeImage,
					Checksum: checksum, FileSize: &size,
					UpdatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}
	store.sched = []model.PlaylistSchedule{{
		ID: 1, PlaylistID: 7, GroupID: 1,
		StartTime: "00:00", EndTime: "23:59",
		Priority: 1, IsActive: true,
	}}
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	resp, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)
	require.NotNil(t, resp.SyncData)

	require.Len(t, resp.SyncData.Playlists, 1)
	p := resp.SyncData.Playlists[0]
	assert.Equal(t, "7", p.ID)
	assert.Equal(t, "2a", p.Layout)
	assert.Len(t, p.Items, 2)

	// same asset in two zones ships once
	require.Len(t, resp.SyncData.Assets, 1)
	a := resp.SyncData.Assets[0]
	assert.Equal(t, "9", a.ID)
	assert.Equal(t, checksum, a.Checksum)
	assert.Equal(t, size, a.SizeBytes)
	assert.Equal(t, "/scheduling/api/v1/assets/9/download/", a.URL)
}

func TestCheckServer_EmergenciesAndCommandsRideAlong(t *testing.T) {
	store := newFakeStore()
	endless := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	store.emergencies = []model.EmergencyMessage{{
		ID: 3, Title: "Fire Drill", Message: "Evacuate via the north exit",
		Priority: "critical", DisplayDuration: 60,
		BackgroundColor: "#FF0000", TextColor: "#FFFFFF", FontSize: 48,
		StartTime: endless, IsActive: true,
	}}
	store.commands = []model.SystemCommand{{
		ID: 11, CommandType: "reboot", Status: model.CommandStatusPending,
		ScheduledAt: endless,
	}}
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	// matching hash: no sync, but pending work still delivers
	warm, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)

	store.commands = []model.SystemCommand{{
		ID: 12, CommandType: "screenshot", Status: model.CommandStatusPending,
		ScheduledAt: endless,
	}}
	resp, err := r.CheckServer(pollAt(warm.NewSyncHash), now.Add(time.Minute))
	require.NoError(t, err)

	assert.False(t, resp.NeedsSync)
	require.Len(t, resp.EmergencyMessages, 1)
	assert.Equal(t, "3", resp.EmergencyMessages[0].ID)
	assert.Equal(t, "critical", resp.EmergencyMessages[0].Priority)

	require.Len(t, resp.SystemCommands, 1)
	assert.Equal(t, "12", resp.SystemCommands[0].ID)
	assert.Equal(t, "screenshot", resp.SystemCommands[0].CommandType)
	assert.Equal(t, []int{11, 12}, store.sentCommandIDs)
}

func TestCheckServer_FailedPollLeavesCommandsPending(t *testing.T) {
	store := newFakeStore()
	store.commands = []model.SystemCommand{{
		ID: 11, CommandType: "reboot", Status: model.CommandStatusPending,
		ScheduledAt: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}}
	store.applyErr = errors.New("write failed")
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	_, err := r.CheckServer(pollAt(""), now)
	require.Error(t, err)

	// the device discarded the response, so the command must survive
	assert.Empty(t, store.sentCommandIDs)
	require.Len(t, store.commands, 1)

	store.applyErr = nil
	resp, err := r.CheckServer(pollAt(""), now.Add(time.Minute))
	require.NoError(t, err)

	require.Len(t, resp.SystemCommands, 1)
	assert.Equal(t, "11", resp.SystemCommands[0].ID)
	assert.Equal(t, []int{11}, store.sentCommandIDs)
}

func TestCheckServer_SuccessfulPollResetsFailures(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	_, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)
	require.True(t, store.player.SyncPending)

	store.openErr = errors.New("db down")
	_, err = r.CheckServer(pollAt(""), now.Add(time.Minute))
	require.Error(t, err)
	require.Equal(t, 1, store.player.ConsecutiveFailures)

	// a reconciled poll resets the counter even while a previous sync
	// is still unconfirmed
	store.openErr = nil
	_, err = r.CheckServer(pollAt(""), now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, store.player.ConsecutiveFailures)
}

func TestCheckServer_TransientFailureBumpsCounter(t *testing.T) {
	store := newFakeStore()
	store.openErr = errors.New("db down")
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	_, err := r.CheckServer(pollAt(""), now)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPlayerNotRegistered)
	assert.Equal(t, 1, store.failures)
	assert.Empty(t, store.applyCalls)
}

func TestConfirm_ClearsPendingState(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	resp, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)
	require.True(t, store.player.SyncPending)

	stats := &SyncStats{AssetsDownloaded: 3, BytesTransferred: 2 << 20, DurationSeconds: 12}
	err = r.Confirm(&SyncConfirmationRequest{
		DeviceID:  "a1b2c3d4e5f6g7h8",
		SyncHash:  resp.NewSyncHash,
		SyncStats: stats,
	}, now.Add(30*time.Second))
	require.NoError(t, err)

	assert.False(t, store.player.SyncPending)
	require.Len(t, store.confirmCalls, 1)
	assert.Equal(t, testDeviceID, store.confirmCalls[0].deviceID)
	assert.Equal(t, resp.NewSyncHash, store.confirmCalls[0].syncHash)
	assert.Equal(t, stats, store.confirmCalls[0].stats)
}

func TestConfirm_UnknownDevice(t *testing.T) {
	r := NewReconciler(newFakeStore())
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	err := r.Confirm(&SyncConfirmationRequest{DeviceID: "FFFFFFFFFFFFFFFF"}, now)
	assert.ErrorIs(t, err, ErrPlayerNotRegistered)

	err = r.Confirm(&SyncConfirmationRequest{DeviceID: "nope"}, now)
	assert.ErrorIs(t, err, ErrInvalidDeviceID)
}

func TestAcknowledgeEmergency(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, r.AcknowledgeEmergency("a1b2c3d4e5f6g7h8", 3, now))
	require.Len(t, store.ackCalls, 1)
	assert.Equal(t, ackCall{testDeviceID, 3}, store.ackCalls[0])

	assert.ErrorIs(t, r.AcknowledgeEmergency("bad", 3, now), ErrInvalidDeviceID)
}

// Full poll -> download -> confirm -> poll round trip.
func TestSyncRoundTrip(t *testing.T) {
	store := newFakeStore()
	r := NewReconciler(store)
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	first, err := r.CheckServer(pollAt(""), now)
	require.NoError(t, err)
	require.True(t, first.NeedsSync)

	err = r.Confirm(&SyncConfirmationRequest{
		DeviceID: testDeviceID,
		SyncHash: first.NewSyncHash,
	}, now.Add(20*time.Second))
	require.NoError(t, err)
	assert.False(t, store.player.SyncPending)

	steady, err := r.CheckServer(pollAt(first.NewSyncHash), now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, steady.NeedsSync)
	assert.Equal(t, 60, steady.NextCheckInterval)
}

func TestNormalizeDeviceID(t *testing.T) {
	got, ok := NormalizeDeviceID("a1b2c3d4e5f6g7h8")
	assert.True(t, ok)
	assert.Equal(t, testDeviceID, got)

	_, ok = NormalizeDeviceID("A1B2C3D4E5F6G7H")
	assert.False(t, ok)
	_, ok = NormalizeDeviceID("A1B2C3D4E5F6G7H88")
	assert.False(t, ok)
	_, ok = NormalizeDeviceID("A1B2C3D4E5F6G7H-")
	assert.False(t, ok)
}
