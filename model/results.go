package model

import (
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// BasicSceneResult holds the fields common to all bf-scene-tiler single results
type BasicSceneResult struct {
	ID           string
	Geometry     interface{}
	CloudCover   float64
	Resolution   float64
	AcquiredDate time.Time
	SensorName   string
	FileFormat   SceneFileFormat
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (sr BasicSceneResult) GeoJSONFeature() (*geojson.Feature, error) {
	f := geojson.NewFeature(sr.Geometry, sr.ID, map[string]interface{}{
		"cloudCover":   sr.CloudCover,
		"resolution":   sr.Resolution,
		"acquiredDate": sr.AcquiredDate.Format(SceneTimeFormat),
		"sensorName":   sr.SensorName,
	})
	f.Bbox = f.ForceBbox()
	return f, nil
}

// TiledSceneResult represents an indexed Landsat scene whose bands are
// reachable over HTTP and which the tile server can render
type TiledSceneResult struct {
	BasicSceneResult
	LandsatS3Bands
	*RenderLinks
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (result TiledSceneResult) GeoJSONFeature() (*geojson.Feature, error) {
	feature, err := result.BasicSceneResult.GeoJSONFeature()
	if err != nil {
		return nil, err
	}

	err = result.LandsatS3Bands.Apply(feature)
	if err != nil {
		return nil, err
	}

	if result.RenderLinks != nil {
		err = result.RenderLinks.Apply(feature)
		if err != nil {
			return nil, err
		}
	}

	return feature, nil
}

// MultiSceneResult is a container type for bundling multiple results together,
// e.g. as results from a search endpoint
type MultiSceneResult struct {
	FeatureCreators []GeoJSONFeatureCreator
}

// GeoJSONFeatureCollection implements the GeoJSONFeatureCollectionCreator interface
func (result MultiSceneResult) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	var err error
	features := make([]*geojson.Feature, len(result.FeatureCreators))
	for i, creator := range result.FeatureCreators {
		features[i], err = creator.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
	}

	return geojson.NewFeatureCollection(features), nil
}
