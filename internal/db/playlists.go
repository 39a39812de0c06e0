package db

import (
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

const playlistColumns = `
	p.id, p.name, p.description, p.layout_id, l.code AS layout_code,
	p.ticker_enabled, p.ticker_text, p.ticker_speed, p.ticker_position,
	p.shuffle_enabled, p.repeat_enabled, p.is_advertisement, p.ad_interval,
	p.created_by, p.created_at, p.updated_at`

// @ PLAYLIST

func CreatePlaylist(name string, description *string, layoutID, createdBy int) (model.Playlist, error) {
	var id int
	err := DB.Get(&id, `
		INSERT INTO playlists (name, description, layout_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id`,
		name, description, layoutID, createdBy)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create playlist")
		return model.Playlist{}, err
	}
	return GetPlaylistByID(id)
}

func GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	err := DB.Get(&p, `
		SELECT `+playlistColumns+`
		  FROM playlists p
		  JOIN layouts l ON l.id = p.layout_id
		 WHERE p.id = $1`, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("playlist_id", id).Msg("failed to get playlist")
		}
		return model.Playlist{}, err
	}

	items, err := ListPlaylistItems(id)
	if err != nil {
		return p, err
	}
	p.Items = items
	return p, nil
}

// GetPlaylistWithAssets loads a playlist and stitches each item's asset
// onto it. This is the shape the sync hash engine and payload builder
// consume.
func GetPlaylistWithAssets(id int) (model.Playlist, error) {
	p, err := GetPlaylistByID(id)
	if err != nil {
		return model.Playlist{}, err
	}

	ids := make([]int, 0, len(p.Items))
	seen := map[int]bool{}
	for i := range p.Items {
		if !seen[p.Items[i].AssetID] {
			seen[p.Items[i].AssetID] = true
			ids = append(ids, p.Items[i].AssetID)
		}
	}
	assets, err := ListAssetsByIDs(ids)
	if err != nil {
		return model.Playlist{}, err
	}
	byID := make(map[int]*model.Asset, len(assets))
	for i := range assets {
		byID[assets[i].ID] = &assets[i]
	}
	for i := range p.Items {
		p.Items[i].Asset = byID[p.Items[i].AssetID]
	}
	return p, nil
}

func ListPlaylists() ([]model.Playlist, error) {
	var out []model.Playlist
	err := DB.Select(&out, `
		SELECT `+playlistColumns+`
		  FROM playlists p
		  JOIN layouts l ON l.id = p.layout_id
		 ORDER BY p.name, p.id`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list playlists")
		return nil, err
	}
	return out, nil
}

func UpdatePlaylist(
	id int,
	name, description, tickerText, tickerPosition *string,
	layoutID, tickerSpeed, adInterval *int,
	tickerEnabled, shuffleEnabled, repeatEnabled, isAdvertisement *bool,
) error {
	_, err := DB.Exec(`
		UPDATE playlists
		   SET name             = COALESCE($2, name),
		       description      = COALESCE($3, description),
		       ticker_text      = COALESCE($4, ticker_text),
		       ticker_position  = COALESCE($5, ticker_position),
		       layout_id        = COALESCE($6, layout_id),
		       ticker_speed     = COALESCE($7, ticker_speed),
		       ad_interval      = COALESCE($8, ad_interval),
		       ticker_enabled   = COALESCE($9, ticker_enabled),
		       shuffle_enabled  = COALESCE($10, shuffle_enabled),
		       repeat_enabled   = COALESCE($11, repeat_enabled),
		       is_advertisement = COALESCE($12, is_advertisement),
		       updated_at       = now()
		 WHERE id = $1`,
		id, name, description, tickerText, tickerPosition,
		layoutID, tickerSpeed, adInterval,
		tickerEnabled, shuffleEnabled, repeatEnabled, isAdvertisement)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("failed to update playlist")
	}
	return err
}

func DeletePlaylist(id int) error {
	if err := ClearDefaultPlaylist(id); err != nil {
		return err
	}
	_, err := DB.Exec(`DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", id).Msg("failed to delete playlist")
	}
	return err
}

// @ PLAYLIST ITEMS

const playlistItemColumns = `
	id, playlist_id, asset_id, zone, item_order, duration, fullscreen,
	transition_effect, asset_ticker, valid_from, valid_until, created_at`

// ListPlaylistItems returns items ordered the way the digest and the
// device consume them: by zone, then by order within the zone.
func ListPlaylistItems(playlistID int) ([]model.PlaylistItem, error) {
	var items []model.PlaylistItem
	err := DB.Select(&items, `
		SELECT `+playlistItemColumns+`
		  FROM playlist_items
		 WHERE playlist_id = $1
		 ORDER BY zone, item_order, id`, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("failed to list playlist items")
	}
	return items, err
}

func AddPlaylistItem(
	playlistID, assetID int,
	zone string,
	order, duration int,
	fullscreen bool,
	transition, assetTicker string,
) (model.PlaylistItem, error) {
	var it model.PlaylistItem
	err := DB.Get(&it, `
		INSERT INTO playlist_items
			(playlist_id, asset_id, zone, item_order, duration, fullscreen,
			 transition_effect, asset_ticker, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING `+playlistItemColumns,
		playlistID, assetID, zone, order, duration, fullscreen, transition, assetTicker)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("failed to add playlist item")
		return model.PlaylistItem{}, err
	}
	touchPlaylist(playlistID)
	return it, nil
}

func UpdatePlaylistItem(itemID int, zone *string, order, duration *int, fullscreen *bool, transition, assetTicker *string) error {
	var playlistID int
	err := DB.Get(&playlistID, `
		UPDATE playlist_items
		   SET zone              = COALESCE($2, zone),
		       item_order        = COALESCE($3, item_order),
		       duration          = COALESCE($4, duration),
		       fullscreen        = COALESCE($5, fullscreen),
		       transition_effect = COALESCE($6, transition_effect),
		       asset_ticker      = COALESCE($7, asset_ticker)
		 WHERE id = $1
		 RETURNING playlist_id`,
		itemID, zone, order, duration, fullscreen, transition, assetTicker)
	if err != nil {
		log.Error().Err(err).Int("item_id", itemID).Msg("failed to update playlist item")
		return err
	}
	touchPlaylist(playlistID)
	return nil
}

func RemovePlaylistItem(itemID int) error {
	var playlistID int
	err := DB.Get(&playlistID, `DELETE FROM playlist_items WHERE id = $1 RETURNING playlist_id`, itemID)
	if err != nil {
		log.Error().Err(err).Int("item_id", itemID).Msg("failed to remove playlist item")
		return err
	}
	touchPlaylist(playlistID)
	return nil
}

// touchPlaylist bumps updated_at so digests that embed it change when
// composition changes.
func touchPlaylist(playlistID int) {
	if _, err := DB.Exec(`UPDATE playlists SET updated_at = now() WHERE id = $1`, playlistID); err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("failed to touch playlist")
	}
}
