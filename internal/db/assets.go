package db

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Lumen-Tech-LLC/lumen/internal/model"
)

const assetColumns = `
	id, name, original_name, type, status, url, thumbnail_url,
	file_size, duration, resolution, metadata, checksum, version,
	valid_from, valid_until, created_by, created_at, updated_at`

func GetAssetByID(id int) (model.Asset, error) {
	var a model.Asset
	err := DB.Get(&a, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("asset_id", id).Msg("failed to get asset")
		}
		return a, err
	}
	labels, err := ListLabelsForAsset(id)
	if err != nil {
		return a, err
	}
	a.Labels = labels
	return a, nil
}

func ListAssets() ([]model.Asset, error) {
	var assets []model.Asset
	err := DB.Select(&assets, `SELECT `+assetColumns+` FROM assets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list assets")
	}
	return assets, err
}

func ListAssetsByIDs(ids []int) ([]model.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var assets []model.Asset
	err := DB.Select(&assets, `SELECT `+assetColumns+` FROM assets WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Msg("failed to list assets by ids")
	}
	return assets, err
}

func CreateAsset(
	name, assetType, url string,
	originalName, thumbnailURL, resolution *string,
	fileSize *int64,
	duration *int,
	checksum string,
	metadata types.JSONText,
	createdBy int,
) (model.Asset, error) {
	var a model.Asset
	err := DB.Get(&a, `
		INSERT INTO assets
			(name, original_name, type, status, url, thumbnail_url, file_size,
			 duration, resolution, metadata, checksum, version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, 'ready', $4, $5, $6, $7, $8, COALESCE($9, '{}'::jsonb), $10, 1, $11, now(), now())
		RETURNING `+assetColumns,
		name, originalName, assetType, url, thumbnailURL, fileSize,
		duration, resolution, metadata, checksum, createdBy)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create asset")
		return model.Asset{}, err
	}
	return a, nil
}

// UpdateAsset bumps the version and updated_at so dependent playlist
// digests change. A new checksum means new file bytes.
func UpdateAsset(id int, name, url, checksum, resolution *string, fileSize *int64, duration *int) error {
	_, err := DB.Exec(`
		UPDATE assets
		   SET name       = COALESCE($2, name),
		       url        = COALESCE($3, url),
		       checksum   = COALESCE($4, checksum),
		       resolution = COALESCE($5, resolution),
		       file_size  = COALESCE($6, file_size),
		       duration   = COALESCE($7, duration),
		       version    = version + 1,
		       updated_at = now()
		 WHERE id = $1`,
		id, name, url, checksum, resolution, fileSize, duration)
	if err != nil {
		log.Error().Err(err).Int("asset_id", id).Msg("failed to update asset")
	}
	return err
}

func DeleteAsset(id int) error {
	_, err := DB.Exec(`DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int("asset_id", id).Msg("failed to delete asset")
	}
	return err
}

// @ LABELS

func CreateLabel(name, color string, description *string) (model.Label, error) {
	var l model.Label
	err := DB.Get(&l, `
		INSERT INTO labels (name, color, description, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, name, color, description, created_at`,
		name, color, description)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create label")
		return model.Label{}, err
	}
	return l, nil
}

func ListLabels() ([]model.Label, error) {
	var labels []model.Label
	err := DB.Select(&labels, `SELECT id, name, color, description, created_at FROM labels ORDER BY name`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list labels")
	}
	return labels, err
}

func ListLabelsForAsset(assetID int) ([]model.Label, error) {
	var labels []model.Label
	err := DB.Select(&labels, `
		SELECT l.id, l.name, l.color, l.description, l.created_at
		  FROM asset_labels al
		  JOIN labels l ON l.id = al.label_id
		 WHERE al.asset_id = $1
		 ORDER BY l.name`, assetID)
	if err != nil {
		log.Error().Err(err).Int("asset_id", assetID).Msg("failed to list labels for asset")
	}
	return labels, err
}

func AttachLabelToAsset(assetID, labelID int) error {
	_, err := DB.Exec(`
		INSERT INTO asset_labels (asset_id, label_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, assetID, labelID)
	if err != nil {
		log.Error().Err(err).Int("asset_id", assetID).Int("label_id", labelID).Msg("failed to attach label")
	}
	return err
}

func DetachLabelFromAsset(assetID, labelID int) error {
	_, err := DB.Exec(`DELETE FROM asset_labels WHERE asset_id = $1 AND label_id = $2`, assetID, labelID)
	if err != nil {
		log.Error().Err(err).Int("asset_id", assetID).Int("label_id", labelID).Msg("failed to detach label")
	}
	return err
}

// @ LAYOUTS

const layoutColumns = `id, code, name, description, zones_config, is_custom, created_at, updated_at`

func GetLayoutByID(id int) (model.Layout, error) {
	var l model.Layout
	err := DB.Get(&l, `SELECT `+layoutColumns+` FROM layouts WHERE id = $1`, id)
	return l, err
}

func GetLayoutByCode(code string) (model.Layout, error) {
	var l model.Layout
	err := DB.Get(&l, `SELECT `+layoutColumns+` FROM layouts WHERE code = $1`, code)
	return l, err
}

func ListLayouts() ([]model.Layout, error) {
	var layouts []model.Layout
	err := DB.Select(&layouts, `SELECT `+layoutColumns+` FROM layouts ORDER BY code`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list layouts")
	}
	return layouts, err
}

func CreateCustomLayout(code, name string, description *string, zonesConfig types.JSONText) (model.Layout, error) {
	var l model.Layout
	err := DB.Get(&l, `
		INSERT INTO layouts (code, name, description, zones_config, is_custom, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, now(), now())
		RETURNING `+layoutColumns,
		code, name, description, zonesConfig)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to create layout")
		return model.Layout{}, err
	}
	return l, nil
}
