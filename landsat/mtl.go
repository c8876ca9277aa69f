// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package landsat

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/venicegeo/bf-scene-tiler/raster"
	"github.com/venicegeo/bf-scene-tiler/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// SceneMetadata is the slice of a scene's MTL metadata the tiler cares about
type SceneMetadata struct {
	Bounds       *geojson.Polygon
	CloudCover   float64
	SunElevation float64
}

// Envelope returns the axis-aligned lon/lat extent of the scene bounds
func (m *SceneMetadata) Envelope() raster.Bounds {
	return PolygonEnvelope(m.Bounds)
}

// PolygonEnvelope returns the axis-aligned lon/lat extent of a scene
// boundary polygon
func PolygonEnvelope(polygon *geojson.Polygon) raster.Bounds {
	bounds := raster.Bounds{}
	first := true
	for _, ring := range polygon.Coordinates {
		for _, point := range ring {
			lon, lat := point[0], point[1]
			if first {
				bounds = raster.Bounds{MinX: lon, MinY: lat, MaxX: lon, MaxY: lat}
				first = false
				continue
			}
			if lon < bounds.MinX {
				bounds.MinX = lon
			}
			if lon > bounds.MaxX {
				bounds.MaxX = lon
			}
			if lat < bounds.MinY {
				bounds.MinY = lat
			}
			if lat > bounds.MaxY {
				bounds.MaxY = lat
			}
		}
	}
	return bounds
}

type sceneMTL struct {
	L1MetadataFile struct {
		ProductMetadata struct {
			CornerUpperLeftLon  float64 `json:"CORNER_UL_LON_PRODUCT"`
			CornerUpperLeftLat  float64 `json:"CORNER_UL_LAT_PRODUCT"`
			CornerUpperRightLon float64 `json:"CORNER_UR_LON_PRODUCT"`
			CornerUpperRightLat float64 `json:"CORNER_UR_LAT_PRODUCT"`
			CornerLowerLeftLon  float64 `json:"CORNER_LL_LON_PRODUCT"`
			CornerLowerLeftLat  float64 `json:"CORNER_LL_LAT_PRODUCT"`
			CornerLowerRightLon float64 `json:"CORNER_LR_LON_PRODUCT"`
			CornerLowerRightLat float64 `json:"CORNER_LR_LAT_PRODUCT"`
		} `json:"PRODUCT_METADATA"`
		ImageAttributes struct {
			CloudCover   float64 `json:"CLOUD_COVER"`
			SunElevation float64 `json:"SUN_ELEVATION"`
		} `json:"IMAGE_ATTRIBUTES"`
	} `json:"L1_METADATA_FILE"`
}

// MTLFileName returns the name of the MTL metadata file within a scene folder
func MTLFileName(sceneID string) string {
	return fmt.Sprintf("%s_MTL.json", sceneID)
}

// GetSceneMetadata retrieves and parses the MTL file for a scene from its
// folder URL
func GetSceneMetadata(sceneID, sceneFolderURL string) (*SceneMetadata, error) {
	baseURL, err := url.Parse(sceneFolderURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base scene URL: %v", err)
	}
	mtlRef, _ := url.Parse(MTLFileName(sceneID))
	mtlURL := baseURL.ResolveReference(mtlRef)

	body, err := util.ReqByObjJSON("GET", mtlURL.String(), "", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("error retrieving scene MTL: %v", err)
	}

	return ParseSceneMetadata(body)
}

// ParseSceneMetadata extracts the scene boundary and image attributes from
// raw MTL JSON
func ParseSceneMetadata(mtlJSON []byte) (*SceneMetadata, error) {
	var mtl sceneMTL
	if err := json.Unmarshal(mtlJSON, &mtl); err != nil {
		return nil, fmt.Errorf("error parsing scene MTL: %v", err)
	}

	pm := mtl.L1MetadataFile.ProductMetadata
	bounds := geojson.NewPolygon([][][]float64{{
		{pm.CornerUpperLeftLon, pm.CornerUpperLeftLat},
		{pm.CornerUpperRightLon, pm.CornerUpperRightLat},
		{pm.CornerLowerRightLon, pm.CornerLowerRightLat},
		{pm.CornerLowerLeftLon, pm.CornerLowerLeftLat},
		{pm.CornerUpperLeftLon, pm.CornerUpperLeftLat},
	}})

	return &SceneMetadata{
		Bounds:       bounds,
		CloudCover:   mtl.L1MetadataFile.ImageAttributes.CloudCover,
		SunElevation: mtl.L1MetadataFile.ImageAttributes.SunElevation,
	}, nil
}
