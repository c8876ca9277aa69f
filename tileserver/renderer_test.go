package tileserver

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/raster"
)

// fakeBandSource serves fixture grids, counting fetches. Band fetches run in
// parallel so the counter needs the lock.
type fakeBandSource struct {
	mu      sync.Mutex
	grids   map[landsat.Band]*raster.Grid
	err     error
	fetches int
}

func (s *fakeBandSource) FetchBand(ctx context.Context, sceneFolderURL, sceneID string, band landsat.Band) (*raster.Grid, error) {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	grid, ok := s.grids[band]
	if !ok {
		return nil, fmt.Errorf("no fixture for band %s", band)
	}
	return grid, nil
}

func (s *fakeBandSource) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func constantGrid(w, h int, value float64) *raster.Grid {
	grid := raster.NewGrid(w, h)
	for i := range grid.Samples {
		grid.Samples[i] = value
	}
	return grid
}

// mockScene spans lon 10..12, lat 40..42. Tile 9/271/191 sits entirely
// inside that footprint; tile 1/0/0 entirely outside.
func mockScene() *catalog.Scene {
	return &catalog.Scene{
		ProductID:      mockSceneID,
		SceneURLString: "https://landsat.example.localdomain/scenes/" + mockSceneID + "/",
		Bounds: geojson.NewPolygon([][][]float64{
			{{10, 40}, {12, 40}, {12, 42}, {10, 42}, {10, 40}},
		}),
	}
}

func mockCompositeSource() *fakeBandSource {
	return &fakeBandSource{grids: map[landsat.Band]*raster.Grid{
		landsat.BandRed:   constantGrid(8, 8, 8192),
		landsat.BandGreen: constantGrid(8, 8, 8192),
		landsat.BandBlue:  constantGrid(8, 8, 8192),
		landsat.BandNIR:   constantGrid(8, 8, 8000),
	}}
}

func assertPixelRGBA8(t *testing.T, img image.Image, x, y int, expected [4]uint8) {
	r, g, b, a := img.At(x, y).RGBA()
	actual := [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	assert.Equal(t, expected, actual, "Unexpected pixel at %d,%d", x, y)
}

func TestRenderer_TileOutsideSceneIsTransparent(t *testing.T) {
	// Mock
	source := mockCompositeSource()
	renderer := NewRenderer(source, 1, 16, 2)

	// Tested code: tile 1/0/0 never touches the scene footprint
	tile, err := renderer.RenderTile(context.Background(), mockScene(), "truecolor", 1, 0, 0)

	// Asserts
	assert.Nil(t, err, "Expected rendering not to error: %v", err)
	assert.Equal(t, 0, source.fetchCount(), "Expected no band fetches for a non-intersecting tile")
	decoded, err := png.Decode(bytes.NewReader(tile))
	assert.Nil(t, err)
	assert.Equal(t, TileSize, decoded.Bounds().Dx())
	assert.Equal(t, TileSize, decoded.Bounds().Dy())
	assertPixelRGBA8(t, decoded, 0, 0, [4]uint8{0, 0, 0, 0})
	assertPixelRGBA8(t, decoded, TileSize/2, TileSize/2, [4]uint8{0, 0, 0, 0})
}

func TestRenderer_TileInsideScene(t *testing.T) {
	source := mockCompositeSource()
	renderer := NewRenderer(source, 1, 16, 2)

	tile, err := renderer.RenderTile(context.Background(), mockScene(), "truecolor", 9, 271, 191)

	assert.Nil(t, err, "Expected rendering not to error: %v", err)
	assert.Equal(t, 3, source.fetchCount())
	decoded, err := png.Decode(bytes.NewReader(tile))
	assert.Nil(t, err)
	assert.Equal(t, TileSize, decoded.Bounds().Dx())
	assert.Equal(t, TileSize, decoded.Bounds().Dy())
	// A uniform raw value of 8192 normalizes to 127 in every channel
	expected := [4]uint8{127, 127, 127, 255}
	assertPixelRGBA8(t, decoded, 0, 0, expected)
	assertPixelRGBA8(t, decoded, TileSize-1, 0, expected)
	assertPixelRGBA8(t, decoded, 0, TileSize-1, expected)
	assertPixelRGBA8(t, decoded, TileSize-1, TileSize-1, expected)
	assertPixelRGBA8(t, decoded, TileSize/2, TileSize/2, expected)
}

func TestRenderer_TileCacheSkipsRerender(t *testing.T) {
	source := mockCompositeSource()
	renderer := NewRenderer(source, 1, 16, 2)

	first, err := renderer.RenderTile(context.Background(), mockScene(), "truecolor", 9, 271, 191)
	assert.Nil(t, err)
	second, err := renderer.RenderTile(context.Background(), mockScene(), "truecolor", 9, 271, 191)
	assert.Nil(t, err)

	assert.Equal(t, 3, source.fetchCount(), "Expected the second render to come from the tile cache")
	assert.Equal(t, first, second)
}

func TestRenderer_UnknownRenderName(t *testing.T) {
	renderer := NewRenderer(mockCompositeSource(), 1, 16, 2)

	_, err := renderer.RenderTile(context.Background(), mockScene(), "sepia", 9, 271, 191)

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "no composite or index named sepia")
}

func TestRenderer_BandFetchErrorPropagates(t *testing.T) {
	source := &fakeBandSource{err: fmt.Errorf("scene storage offline")}
	renderer := NewRenderer(source, 1, 16, 2)

	_, err := renderer.RenderTile(context.Background(), mockScene(), "truecolor", 9, 271, 191)

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "fetching band")
	assert.Contains(t, err.Error(), "scene storage offline")
}

func TestRenderer_PreviewDimensions(t *testing.T) {
	renderer := NewRenderer(mockCompositeSource(), 1, 16, 2)
	scene := mockScene()

	preview, err := renderer.RenderPreview(context.Background(), scene, "truecolor", scene.Envelope(), 320, 200)

	assert.Nil(t, err, "Expected rendering not to error: %v", err)
	assert.Equal(t, 320, preview.Bounds().Dx())
	assert.Equal(t, 200, preview.Bounds().Dy())
	_, _, _, a := preview.At(160, 100).RGBA()
	assert.Equal(t, uint32(0xffff), a, "Expected the preview center to be opaque")
}

func TestRenderer_RenderWindowNDVI(t *testing.T) {
	renderer := NewRenderer(mockCompositeSource(), 1, 16, 2)
	scene := mockScene()

	// One sample in the middle of the scene: NIR 8000, red 8192 gives an
	// index of (8000-8192)/(8000+8192), slightly negative
	img, err := renderer.renderWindow(context.Background(), scene, "ndvi", []float64{11}, []float64{41})

	assert.Nil(t, err, "Expected rendering not to error: %v", err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a, "Expected a defined index sample to be opaque")
}

func TestPreviewSampleSize(t *testing.T) {
	cases := []struct {
		width, height    int
		sampleW, sampleH int
	}{
		{320, 200, 640, 400},
		{1024, 1024, 2048, 2048},
		{2000, 1000, 2048, 1024},
		{1, 1, 2, 2},
		{4096, 1, 2048, 1},
	}

	for _, c := range cases {
		sampleW, sampleH := previewSampleSize(c.width, c.height)
		assert.Equal(t, c.sampleW, sampleW, "width for %dx%d", c.width, c.height)
		assert.Equal(t, c.sampleH, sampleH, "height for %dx%d", c.width, c.height)
	}
}
