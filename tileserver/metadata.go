package tileserver

import (
	"database/sql"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/model"
)

func getMetadata(tx *sql.Tx, ctx Context, sceneID string) (model.GeoJSONFeatureCreator, error) {
	scene, err := catalog.GetSceneByID(tx, sceneID)
	if err != nil {
		return nil, err
	}

	result, err := tiledSceneResultFromScene(scene, ctx.BaseURL)
	if err != nil {
		return nil, err
	}

	return result, nil
}
