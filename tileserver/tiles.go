package tileserver

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"

	"github.com/venicegeo/bf-scene-tiler/raster"
)

// TileSize is the pixel width and height of XYZ web map tiles.
const TileSize = 256

// maxTileZoom bounds the zoom levels the tile route accepts.
const maxTileZoom = 18

func validTileAddress(z, x, y uint64) bool {
	return z <= maxTileZoom && x < (1<<z) && y < (1<<z)
}

// tileBounds returns the WGS84 extent of an XYZ web map tile.
func tileBounds(z, x, y uint32) raster.Bounds {
	bound := maptile.New(x, y, maptile.Zoom(z)).Bound()
	return raster.Bounds{
		MinX: bound.Min.Lon(),
		MinY: bound.Min.Lat(),
		MaxX: bound.Max.Lon(),
		MaxY: bound.Max.Lat(),
	}
}

// linearLons returns the longitude of each output column, linearly spaced
// across the window west to east.
func linearLons(window raster.Bounds, cols int) []float64 {
	return raster.LinearSpace(window.MinX, window.MaxX, cols)
}

// linearLats returns the latitude of each output row, linearly spaced, with
// row 0 at the northern edge.
func linearLats(window raster.Bounds, rows int) []float64 {
	step := window.Height() / float64(rows)
	lats := make([]float64, rows)
	for i := range lats {
		lats[i] = window.MaxY - (float64(i)+0.5)*step
	}
	return lats
}

// mercatorLats returns the latitude of each output row, spaced evenly in web
// mercator Y so rendered tiles line up with their slippy-map neighbors.
// Row 0 is at the northern edge.
func mercatorLats(window raster.Bounds, rows int) []float64 {
	top := project.WGS84.ToMercator(orb.Point{0, window.MaxY})[1]
	bottom := project.WGS84.ToMercator(orb.Point{0, window.MinY})[1]
	step := (top - bottom) / float64(rows)

	lats := make([]float64, rows)
	for i := range lats {
		y := top - (float64(i)+0.5)*step
		lats[i] = project.Mercator.ToWGS84(orb.Point{0, y})[1]
	}
	return lats
}
