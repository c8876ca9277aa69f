package tileserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/bf-scene-tiler/raster"
)

// webMercatorMaxLat is the northern/southern limit of the web mercator
// projection, the top edge of every zoom 0 tile.
const webMercatorMaxLat = 85.05112877980659

func TestValidTileAddress(t *testing.T) {
	valid := []struct{ z, x, y uint64 }{
		{0, 0, 0},
		{1, 1, 1},
		{3, 7, 7},
		{18, 262143, 262143},
	}
	invalid := []struct{ z, x, y uint64 }{
		{0, 1, 0},
		{0, 0, 1},
		{3, 8, 0},
		{3, 0, 8},
		{19, 0, 0},
	}

	for _, address := range valid {
		assert.True(t, validTileAddress(address.z, address.x, address.y),
			"Expected %d/%d/%d to be a valid tile address", address.z, address.x, address.y)
	}
	for _, address := range invalid {
		assert.False(t, validTileAddress(address.z, address.x, address.y),
			"Expected %d/%d/%d to be an invalid tile address", address.z, address.x, address.y)
	}
}

func TestTileBounds_Zoom0(t *testing.T) {
	bounds := tileBounds(0, 0, 0)

	assert.InDelta(t, -180, bounds.MinX, 1e-9)
	assert.InDelta(t, 180, bounds.MaxX, 1e-9)
	assert.InDelta(t, -webMercatorMaxLat, bounds.MinY, 1e-6)
	assert.InDelta(t, webMercatorMaxLat, bounds.MaxY, 1e-6)
}

func TestTileBounds_Zoom1NorthWest(t *testing.T) {
	bounds := tileBounds(1, 0, 0)

	assert.InDelta(t, -180, bounds.MinX, 1e-9)
	assert.InDelta(t, 0, bounds.MaxX, 1e-9)
	assert.InDelta(t, 0, bounds.MinY, 1e-6)
	assert.InDelta(t, webMercatorMaxLat, bounds.MaxY, 1e-6)
}

func TestLinearLons_PixelCenters(t *testing.T) {
	window := raster.Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	lons := linearLons(window, 5)

	assert.Equal(t, []float64{1, 3, 5, 7, 9}, lons)
}

func TestLinearLats_NorthFirst(t *testing.T) {
	window := raster.Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	lats := linearLats(window, 5)

	assert.Equal(t, []float64{9, 7, 5, 3, 1}, lats)
}

func TestMercatorLats_NorthFirstAndInsideWindow(t *testing.T) {
	window := tileBounds(1, 0, 0)

	lats := mercatorLats(window, TileSize)

	assert.Len(t, lats, TileSize)
	for i := 1; i < len(lats); i++ {
		assert.Less(t, lats[i], lats[i-1], "Expected row latitudes to strictly decrease")
	}
	assert.Greater(t, lats[0], window.MinY)
	assert.Less(t, lats[0], window.MaxY)
	assert.Greater(t, lats[len(lats)-1], window.MinY)
}

func TestMercatorLats_SymmetricAboutEquator(t *testing.T) {
	window := raster.Bounds{MinX: -180, MinY: -60, MaxX: 180, MaxY: 60}

	lats := mercatorLats(window, 4)

	assert.InDelta(t, -lats[3], lats[0], 1e-9)
	assert.InDelta(t, -lats[2], lats[1], 1e-9)
}

func TestMercatorLats_TighterThanLinearNearPole(t *testing.T) {
	// Mercator stretches poleward, so equal mercator steps cover fewer
	// degrees at high latitude. The northernmost row center must sit
	// closer to the top edge than its linearly spaced counterpart.
	window := tileBounds(1, 0, 0)

	mercator := mercatorLats(window, 16)
	linear := linearLats(window, 16)

	assert.Greater(t, mercator[0], linear[0])
}
