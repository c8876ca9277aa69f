package model

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/geojson-go/geojson"
)

// LandsatS3Bands is a mixin containing data about the bands of a Landsat8 result
type LandsatS3Bands struct {
	Coastal      url.URL
	Blue         url.URL
	Green        url.URL
	Red          url.URL
	NIR          url.URL
	SWIR1        url.URL
	SWIR2        url.URL
	Panchromatic url.URL
	Cirrus       url.URL
	TIRS1        url.URL
	TIRS2        url.URL
}

type landsatBandDestination struct {
	Band        landsat.Band
	Destination *url.URL
}

// NewLandsatS3Bands creates a new LandsatS3Bands by inferring the bands based on
// Landsat bucket info
func NewLandsatS3Bands(bucketFolderURL string, id string) (*LandsatS3Bands, error) {
	bands := LandsatS3Bands{}

	destinations := []landsatBandDestination{
		landsatBandDestination{landsat.BandCoastal, &bands.Coastal},
		landsatBandDestination{landsat.BandBlue, &bands.Blue},
		landsatBandDestination{landsat.BandGreen, &bands.Green},
		landsatBandDestination{landsat.BandRed, &bands.Red},
		landsatBandDestination{landsat.BandNIR, &bands.NIR},
		landsatBandDestination{landsat.BandSWIR1, &bands.SWIR1},
		landsatBandDestination{landsat.BandSWIR2, &bands.SWIR2},
		landsatBandDestination{landsat.BandPanchromatic, &bands.Panchromatic},
		landsatBandDestination{landsat.BandCirrus, &bands.Cirrus},
		landsatBandDestination{landsat.BandTIRS1, &bands.TIRS1},
		landsatBandDestination{landsat.BandTIRS2, &bands.TIRS2},
	}

	for _, dest := range destinations {
		bandURL, err := landsat.BandURL(bucketFolderURL, id, dest.Band)
		if err != nil {
			return nil, err
		}
		*dest.Destination = *bandURL
	}

	return &bands, nil
}

// Apply implements the GeoJSONFeatureMixin interface
func (lsb LandsatS3Bands) Apply(feature *geojson.Feature) error {
	feature.Properties["bands"] = map[string]string{
		"coastal":      lsb.Coastal.String(),
		"blue":         lsb.Blue.String(),
		"green":        lsb.Green.String(),
		"red":          lsb.Red.String(),
		"nir":          lsb.NIR.String(),
		"swir1":        lsb.SWIR1.String(),
		"swir2":        lsb.SWIR2.String(),
		"panchromatic": lsb.Panchromatic.String(),
		"cirrus":       lsb.Cirrus.String(),
		"tirs1":        lsb.TIRS1.String(),
		"tirs2":        lsb.TIRS2.String(),
	}
	return nil
}

// RenderLinks is a mixin containing the tile server's rendering links for a scene
type RenderLinks struct {
	TileTemplate string
	PreviewURL   string
	Composites   []string
}

// NewRenderLinks creates a new RenderLinks pointing at the rendering endpoints
// for a scene, rooted at the given base URL
func NewRenderLinks(baseURL string, sceneID string, composites []string) *RenderLinks {
	base := strings.TrimSuffix(baseURL, "/")
	return &RenderLinks{
		TileTemplate: fmt.Sprintf("%s/tiles/landsat/%s/{z}/{x}/{y}.png", base, sceneID),
		PreviewURL:   fmt.Sprintf("%s/preview/landsat/%s.png", base, sceneID),
		Composites:   composites,
	}
}

// Apply implements the GeoJSONFeatureMixin interface
func (rl RenderLinks) Apply(feature *geojson.Feature) error {
	feature.Properties["tiles"] = rl.TileTemplate
	feature.Properties["preview"] = rl.PreviewURL
	feature.Properties["composites"] = rl.Composites
	return nil
}
