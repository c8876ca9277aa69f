package catalog

import (
	"time"

	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/raster"
	"github.com/venicegeo/geojson-go/geojson"
)

// Scene is one indexed LandSat scene row
type Scene struct {
	ProductID       string
	AcquisitionDate time.Time
	CloudCover      float64
	WRSPath         int
	WRSRow          int
	SceneURLString  string
	Bounds          *geojson.Polygon
}

// Envelope returns the axis-aligned lon/lat extent of the scene bounds
func (s *Scene) Envelope() raster.Bounds {
	return landsat.PolygonEnvelope(s.Bounds)
}
