package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// DisplayConfig is the slice of group/device configuration that affects
// what a player renders, device overrides already applied.
type DisplayConfig struct {
	SyncInterval int
	Resolution   string
	Orientation  string
	AudioEnabled bool
	TVControl    bool
}

// PlaylistDigest identifies the resolved playlist inside the digest.
type PlaylistDigest struct {
	ID            int
	Name          string
	LayoutCode    string
	UpdatedAt     time.Time
	TickerEnabled bool
	TickerText    string
}

// ItemDigest is one playlist item as seen by the digest.
type ItemDigest struct {
	AssetID        int
	AssetName      string
	AssetChecksum  string
	AssetUpdatedAt time.Time
	Duration       int
	Zone           string
	Order          int
}

// DigestInput is everything a device's current target state depends on.
type DigestInput struct {
	DeviceID string
	Config   DisplayConfig
	Playlist *PlaylistDigest
	Items    []ItemDigest
}

// ComputeDigest serializes the input to a canonical JSON document
// (sorted keys, items ordered by zone then order) and returns the full
// SHA-256 hex fingerprint. Identical inputs always produce identical
// digests; any change to playlist composition, item placement, asset
// checksums or display config changes the result.
func ComputeDigest(in DigestInput) string {
	items := make([]ItemDigest, len(in.Items))
	copy(items, in.Items)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Zone != items[j].Zone {
			return items[i].Zone < items[j].Zone
		}
		return items[i].Order < items[j].Order
	})

	doc := map[string]any{
		"device_id": in.DeviceID,
		"config": map[string]any{
			"sync_interval": in.Config.SyncInterval,
			"resolution":    in.Config.Resolution,
			"orientation":   in.Config.Orientation,
			"audio_enabled": in.Config.AudioEnabled,
			"tv_control":    in.Config.TVControl,
		},
	}

	if in.Playlist != nil {
		doc["playlist"] = map[string]any{
			"id":             in.Playlist.ID,
			"name":           in.Playlist.Name,
			"layout":         in.Playlist.LayoutCode,
			"updated_at":     in.Playlist.UpdatedAt.UTC().Format(time.RFC3339),
			"ticker_enabled": in.Playlist.TickerEnabled,
			"ticker_text":    in.Playlist.TickerText,
		}
	} else {
		doc["playlist"] = nil
	}

	encoded := make([]map[string]any, 0, len(items))
	for _, it := range items {
		encoded = append(encoded, map[string]any{
			"asset_id":       it.AssetID,
			"asset_name":     it.AssetName,
			"asset_checksum": it.AssetChecksum,
			"asset_updated":  it.AssetUpdatedAt.UTC().Format(time.RFC3339),
			"duration":       it.Duration,
			"zone":           it.Zone,
			"order":          it.Order,
		})
	}
	doc["items"] = encoded

	// encoding/json emits map keys in sorted order, which makes the
	// serialization canonical.
	raw, _ := json.Marshal(doc)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// BuildDigestInput assembles the digest input for a player from its
// group and the resolved playlist (nil when no playlist applies). The
// playlist's items must carry their joined assets.
func BuildDigestInput(player *model.Player, group *model.Group, playlist *model.Playlist) DigestInput {
	in := DigestInput{
		DeviceID: player.DeviceID,
		Config: DisplayConfig{
			SyncInterval: group.SyncInterval,
			Resolution:   player.EffectiveResolution(group),
			Orientation:  player.EffectiveOrientation(group),
			AudioEnabled: group.AudioEnabled,
			TVControl:    group.TVControl,
		},
	}
	if playlist == nil {
		return in
	}

	in.Playlist = &PlaylistDigest{
		ID:            playlist.ID,
		Name:          playlist.Name,
		LayoutCode:    playlist.LayoutCode,
		UpdatedAt:     playlist.UpdatedAt,
		TickerEnabled: playlist.TickerEnabled,
		TickerText:    playlist.TickerText,
	}
	for _, it := range playlist.Items {
		d := ItemDigest{
			AssetID:  it.AssetID,
			Duration: it.EffectiveDuration(),
			Zone:     it.Zone,
			Order:    it.Order,
		}
		if it.Asset != nil {
			d.AssetName = it.Asset.Name
			d.AssetChecksum = it.Asset.Checksum
			d.AssetUpdatedAt = it.Asset.UpdatedAt
		}
		in.Items = append(in.Items, d)
	}
	return in
}
