package tileserver

import (
	"database/sql"
	"time"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/model"
	"github.com/venicegeo/geojson-go/geojson"
)

// landsatResolutionMeters is the ground sample distance of the Landsat 8
// OLI multispectral bands.
const landsatResolutionMeters = 30

const landsatSensorName = "Landsat8"

func discoverScenes(tx *sql.Tx, ctx Context, bbox geojson.BoundingBox,
	maxCloudCover float64, minAcquiredDate time.Time, maxAcquiredDate time.Time) (model.GeoJSONFeatureCollectionCreator, error) {
	scenes, err := catalog.SearchScenes(tx, bbox, maxCloudCover, minAcquiredDate, maxAcquiredDate)
	if err != nil {
		return nil, err
	}

	multiResult := model.MultiSceneResult{
		FeatureCreators: make([]model.GeoJSONFeatureCreator, len(scenes)),
	}

	for i := range scenes {
		if multiResult.FeatureCreators[i], err = tiledSceneResultFromScene(&scenes[i], ctx.BaseURL); err != nil {
			return nil, err
		}
	}

	return multiResult, nil
}

func basicSceneResultFromScene(scene *catalog.Scene) model.BasicSceneResult {
	return model.BasicSceneResult{
		ID:           scene.ProductID,
		Geometry:     scene.Bounds,
		CloudCover:   scene.CloudCover,
		Resolution:   landsatResolutionMeters,
		AcquiredDate: scene.AcquisitionDate,
		SensorName:   landsatSensorName,
		FileFormat:   model.GeoTIFF,
	}
}

func tiledSceneResultFromScene(scene *catalog.Scene, baseURL string) (model.TiledSceneResult, error) {
	bands, err := model.NewLandsatS3Bands(scene.SceneURLString, scene.ProductID)
	if err != nil {
		return model.TiledSceneResult{}, err
	}

	return model.TiledSceneResult{
		BasicSceneResult: basicSceneResultFromScene(scene),
		LandsatS3Bands:   *bands,
		RenderLinks:      model.NewRenderLinks(baseURL, scene.ProductID, landsat.RenderNames()),
	}, nil
}
