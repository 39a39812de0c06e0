package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

func digestFixture() DigestInput {
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return DigestInput{
		DeviceID: "A1B2C3D4E5F6G7H8",
		Config: DisplayConfig{
			SyncInterval: 60,
			Resolution:   "1920x1080",
			Orientation:  "landscape",
			AudioEnabled: true,
		},
		Playlist: &PlaylistDigest{
			ID:         7,
			Name:       "Lobby Loop",
			LayoutCode: "2a",
			UpdatedAt:  updated,
		},
		Items: []ItemDigest{
			{AssetID: 1, AssetName: "welcome.mp4", AssetChecksum: "aaa", AssetUpdatedAt: updated, Duration: 30, Zone: "main", Order: 1},
			{AssetID: 2, AssetName: "menu.png", AssetChecksum: "bbb", AssetUpdatedAt: updated, Duration: 10, Zone: "main", Order: 2},
			{AssetID: 3, AssetName: "side.png", AssetChecksum: "ccc", AssetUpdatedAt: updated, Duration: 10, Zone: "sidebar", Order: 1},
		},
	}
}

func TestComputeDigest_Deterministic(t *testing.T) {
	first := ComputeDigest(digestFixture())
	second := ComputeDigest(digestFixture())

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", first)
}

func TestComputeDigest_ItemOrderCanonical(t *testing.T) {
	base := ComputeDigest(digestFixture())

	shuffled := digestFixture()
	shuffled.Items[0], shuffled.Items[2] = shuffled.Items[2], shuffled.Items[0]

	assert.Equal(t, base, ComputeDigest(shuffled))
}

func TestComputeDigest_SensitiveToContent(t *testing.T) {
	base := ComputeDigest(digestFixture())

	checksum := digestFixture()
	checksum.Items[1].AssetChecksum = "bbb2"
	assert.NotEqual(t, base, ComputeDigest(checksum))

	duration := digestFixture()
	duration.Items[0].Duration = 31
	assert.NotEqual(t, base, ComputeDigest(duration))

	resolution := digestFixture()
	resolution.Config.Resolution = "3840x2160"
	assert.NotEqual(t, base, ComputeDigest(resolution))

	touched := digestFixture()
	touched.Playlist.UpdatedAt = touched.Playlist.UpdatedAt.Add(time.Second)
	assert.NotEqual(t, base, ComputeDigest(touched))

	moved := digestFixture()
	moved.Items[2].Zone = "footer"
	assert.NotEqual(t, base, ComputeDigest(moved))
}

func TestComputeDigest_NoPlaylist(t *testing.T) {
	bare := digestFixture()
	bare.Playlist = nil
	bare.Items = nil

	withPlaylist := ComputeDigest(digestFixture())
	without := ComputeDigest(bare)

	assert.NotEqual(t, withPlaylist, without)
	assert.Equal(t, without, ComputeDigest(bare))
}

func TestBuildDigestInput_DeviceOverrides(t *testing.T) {
	group := &model.Group{
		ID:           1,
		SyncInterval: 60,
		Resolution:   "1920x1080",
		Orientation:  "landscape",
	}
	portrait := "portrait"
	custom := "1080x1920"
	player := &model.Player{
		ID:                4,
		DeviceID:          "A1B2C3D4E5F6G7H8",
		GroupID:           1,
		CustomResolution:  &custom,
		CustomOrientation: &portrait,
	}

	in := BuildDigestInput(player, group, nil)

	assert.Equal(t, "1080x1920", in.Config.Resolution)
	assert.Equal(t, "portrait", in.Config.Orientation)
	assert.Nil(t, in.Playlist)
}

func TestBuildDigestInput_VideoDurationWins(t *testing.T) {
	group := &model.Group{ID: 1, SyncInterval: 60, Resolution: "1920x1080", Orientation: "landscape"}
	player := &model.Player{ID: 4, DeviceID: "A1B2C3D4E5F6G7H8", GroupID: 1}

	videoLen := 95
	playlist := &model.Playlist{
		ID:         7,
		Name:       "Lobby Loop",
		LayoutCode: "1",
		UpdatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Items: []model.PlaylistItem{
			{
				ID: 1, AssetID: 9, Zone: "main", Order: 1, Duration: 10,
				Asset: &model.Asset{ID: 9, Name: "promo.mp4", Type: model.AssetTypeVideo, Duration: &videoLen},
			},
		},
	}

	in := BuildDigestInput(player, group, playlist)

	require.Len(t, in.Items, 1)
	assert.Equal(t, 95, in.Items[0].Duration)
}
