package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumen-Tech-LLC/lumen/internal/http/api"
	"github.com/Lumen-Tech-LLC/lumen/internal/model"
	"github.com/Lumen-Tech-LLC/lumen/internal/sync"
)

const testDeviceID = "A1B2C3D4E5F6G7H8"

// stubStore backs the reconciler with one registered player and no
// scheduled content.
type stubStore struct {
	player    *model.Player
	group     *model.Group
	confirmed []string
}

func newStubStore() *stubStore {
	return &stubStore{
		player: &model.Player{ID: 1, DeviceID: testDeviceID, GroupID: 1, Status: model.PlayerStatusOnline},
		group:  &model.Group{ID: 1, Name: "Default", SyncInterval: 45, Resolution: "1920x1080", Orientation: "landscape"},
	}
}

func (s *stubStore) PlayerByDeviceID(deviceID string) (*model.Player, *model.Group, error) {
	if deviceID != s.player.DeviceID {
		return nil, nil, sync.ErrPlayerNotRegistered
	}
	return s.player, s.group, nil
}

func (s *stubStore) SchedulesForGroup(int) ([]model.PlaylistSchedule, error) { return nil, nil }
func (s *stubStore) PlaylistWithItems(int) (*model.Playlist, error)          { return nil, nil }

func (s *stubStore) ActiveEmergencies(int, int, time.Time) ([]model.EmergencyMessage, error) {
	return nil, nil
}
func (s *stubStore) PendingCommands(int, time.Time) ([]model.SystemCommand, error) {
	return nil, nil
}
func (s *stubStore) MarkCommandsSent([]int, time.Time) error { return nil }

func (s *stubStore) OpenSyncRequest(*model.SyncRequest) (int, error)        { return 1, nil }
func (s *stubStore) FinalizeSyncRequest(int, string, bool, time.Time) error { return nil }
func (s *stubStore) ApplyCheckServer(int, sync.HealthReport, bool, string, time.Time) error {
	return nil
}

func (s *stubStore) ConfirmSync(deviceID string, syncHash string, _ *sync.SyncStats, _ time.Time) error {
	if deviceID != s.player.DeviceID {
		return sync.ErrPlayerNotRegistered
	}
	s.confirmed = append(s.confirmed, syncHash)
	return nil
}

func (s *stubStore) AcknowledgeEmergency(deviceID string, _ int, _ time.Time) error {
	if deviceID != s.player.DeviceID {
		return sync.ErrPlayerNotRegistered
	}
	return nil
}

func (s *stubStore) IncrementSyncFailures(int) (int, error) { return 1, nil }

func newTestRouter(store sync.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/scheduling/api/v1/device"}, SyncModule(sync.NewReconciler(store)))
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckServerEndpoint_FirstContact(t *testing.T) {
	router := newTestRouter(newStubStore())

	w := postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"action":         "check_server",
		"device_id":      testDeviceID,
		"last_sync_hash": "",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sync.CheckServerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sync.StatusSuccess, resp.Status)
	assert.True(t, resp.DeviceRegistered)
	assert.True(t, resp.NeedsSync)
	assert.Len(t, resp.NewSyncHash, 64)
	require.NotNil(t, resp.SyncData)
	assert.Equal(t, 45, resp.SyncData.ConfigUpdates.SyncInterval)
}

func TestCheckServerEndpoint_UpToDate(t *testing.T) {
	router := newTestRouter(newStubStore())

	first := postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"device_id": testDeviceID,
	})
	var bootstrap sync.CheckServerResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &bootstrap))

	w := postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"device_id":      testDeviceID,
		"last_sync_hash": bootstrap.NewSyncHash,
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp sync.CheckServerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.NeedsSync)
	assert.Nil(t, resp.SyncData)
	assert.Equal(t, 45, resp.NextCheckInterval)
}

func TestCheckServerEndpoint_UnknownDevice(t *testing.T) {
	router := newTestRouter(newStubStore())

	w := postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"device_id": "FFFFFFFFFFFFFFFF",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sync.StatusNotRegistered, resp["status"])
	assert.Equal(t, false, resp["device_registered"])
	assert.NotEmpty(t, resp["server_timestamp"])
}

func TestCheckServerEndpoint_BadRequests(t *testing.T) {
	router := newTestRouter(newStubStore())

	// malformed identifier
	w := postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"device_id": "not-a-device",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing identifier fails binding
	w = postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"last_sync_hash": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckServerEndpoint_LowercasePollUsesStoredID(t *testing.T) {
	var touched, published []string
	origTouch, origPublish := touchPresence, publishPlayerEvent
	touchPresence = func(_ context.Context, deviceID string, _ int) {
		touched = append(touched, deviceID)
	}
	publishPlayerEvent = func(deviceID, _ string, _ map[string]any) {
		published = append(published, deviceID)
	}
	defer func() { touchPresence, publishPlayerEvent = origTouch, origPublish }()

	router := newTestRouter(newStubStore())

	w := postJSON(t, router, "/scheduling/api/v1/device/check_server/", map[string]any{
		"device_id": "a1b2c3d4e5f6g7h8",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// presence keys and event topics must match the uppercase stored id
	assert.Equal(t, []string{testDeviceID}, touched)
	assert.Equal(t, []string{testDeviceID}, published)
}

func TestSyncConfirmationEndpoint(t *testing.T) {
	store := newStubStore()
	router := newTestRouter(store)

	w := postJSON(t, router, "/scheduling/api/v1/device/sync_confirmation/", map[string]any{
		"device_id": testDeviceID,
		"sync_hash": "abc123",
		"sync_stats": map[string]any{
			"assets_downloaded": 2,
			"bytes_transferred": 4096,
			"duration_seconds":  3,
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"abc123"}, store.confirmed)

	w = postJSON(t, router, "/scheduling/api/v1/device/sync_confirmation/", map[string]any{
		"device_id": "FFFFFFFFFFFFFFFF",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmergencyAckEndpoint(t *testing.T) {
	router := newTestRouter(newStubStore())

	w := postJSON(t, router, "/scheduling/api/v1/device/emergency_ack/", map[string]any{
		"device_id":  testDeviceID,
		"message_id": 3,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sync.StatusSuccess, resp["status"])
}
