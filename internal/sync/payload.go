package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

// buildSyncData assembles the full payload for a needs_sync response:
// effective config, the resolved playlist (possibly none) and the
// deduplicated set of assets its items reference.
func buildSyncData(player *model.Player, group *model.Group, playlist *model.Playlist, now time.Time) *SyncData {
	data := &SyncData{
		SyncID:        uuid.NewString(),
		SyncTimestamp: now.UTC().Format(time.RFC3339),
		ConfigUpdates: ConfigUpdates{
			SyncInterval:       group.SyncInterval,
			Resolution:         player.EffectiveResolution(group),
			Orientation:        player.EffectiveOrientation(group),
			AudioEnabled:       group.AudioEnabled,
			TVControl:          group.TVControl,
			ScreenshotInterval: group.ScreenshotInterval,
		},
		Playlists:     []PlaylistSync{},
		Assets:        []AssetSync{},
		DeletedAssets: []string{},
	}
	if playlist == nil {
		return data
	}

	data.Playlists = append(data.Playlists, playlistSync(playlist))

	seen := map[int]bool{}
	for i := range playlist.Items {
		a := playlist.Items[i].Asset
		if a == nil || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		data.Assets = append(data.Assets, assetSync(a))
	}
	return data
}

func playlistSync(p *model.Playlist) PlaylistSync {
	out := PlaylistSync{
		ID:     fmt.Sprintf("%d", p.ID),
		Name:   p.Name,
		Layout: p.LayoutCode,
		Active: true,
		Ticker: TickerSync{
			Enabled:  p.TickerEnabled,
			Text:     p.TickerText,
			Speed:    p.TickerSpeed,
			Position: p.TickerPosition,
		},
		Shuffle: p.ShuffleEnabled,
		Repeat:  p.RepeatEnabled,
		Items:   make([]PlaylistItemSync, 0, len(p.Items)),
	}
	for i := range p.Items {
		it := &p.Items[i]
		out.Items = append(out.Items, PlaylistItemSync{
			ID:          it.ID,
			AssetID:     fmt.Sprintf("%d", it.AssetID),
			Duration:    it.EffectiveDuration(),
			Zone:        it.Zone,
			Order:       it.Order,
			Transition:  it.TransitionEffect,
			Fullscreen:  it.Fullscreen,
			AssetTicker: it.AssetTicker,
			ValidFrom:   isoOrNil(it.ValidFrom),
			ValidUntil:  isoOrNil(it.ValidUntil),
		})
	}
	return out
}

func assetSync(a *model.Asset) AssetSync {
	out := AssetSync{
		ID:       fmt.Sprintf("%d", a.ID),
		Name:     a.Name,
		Type:     a.Type,
		Checksum: a.Checksum,
		URL:      assetDownloadURL(a),
		Metadata: map[string]any{},
	}
	if a.FileSize != nil {
		out.SizeBytes = *a.FileSize
	}
	if a.ThumbnailURL != nil {
		out.ThumbnailURL = *a.ThumbnailURL
	}
	if len(a.Metadata) > 0 {
		// extra metadata (codec, bitrate, fps, ...) merges under the
		// well-known keys below
		_ = json.Unmarshal(a.Metadata, &out.Metadata)
	}
	if a.Duration != nil {
		out.Metadata["duration"] = *a.Duration
	}
	if a.Resolution != nil {
		out.Metadata["resolution"] = *a.Resolution
	}
	if a.OriginalName != nil {
		out.Metadata["original_name"] = *a.OriginalName
	}
	return out
}

// assetDownloadURL is where the device fetches the asset bytes. Link
// assets point at their external URL; file-backed assets go through the
// checksum-verified download endpoint.
func assetDownloadURL(a *model.Asset) string {
	if a.Type == model.AssetTypeLink && a.URL != "" {
		return a.URL
	}
	return fmt.Sprintf("/scheduling/api/v1/assets/%d/download/", a.ID)
}

func emergencySync(m *model.EmergencyMessage) EmergencyMessageSync {
	return EmergencyMessageSync{
		ID:              fmt.Sprintf("%d", m.ID),
		Title:           m.Title,
		Message:         m.Message,
		Priority:        m.Priority,
		DisplayDuration: m.DisplayDuration,
		BackgroundColor: m.BackgroundColor,
		TextColor:       m.TextColor,
		FontSize:        m.FontSize,
		StartTime:       m.StartTime.UTC().Format(time.RFC3339),
		EndTime:         isoOrNil(m.EndTime),
	}
}

func commandSync(c *model.SystemCommand) SystemCommandSync {
	out := SystemCommandSync{
		ID:          fmt.Sprintf("%d", c.ID),
		CommandType: c.CommandType,
		Parameters:  map[string]any{},
		ScheduledAt: c.ScheduledAt.UTC().Format(time.RFC3339),
	}
	if len(c.Parameters) > 0 {
		_ = json.Unmarshal(c.Parameters, &out.Parameters)
	}
	return out
}

func isoOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
