package tileserver

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/raster"
	"github.com/venicegeo/bf-scene-tiler/render"
)

// previewSampleCap bounds the supersampled window size previews are rendered
// at before the output resize.
const previewSampleCap = 2048

// Renderer turns indexed scenes into composite images. Bands download in
// parallel, finished tiles are cached, and the number of simultaneous
// rasterizations is capped.
type Renderer struct {
	source    BandSource
	noData    float64
	tileCache *lruCache[[]byte]
	renderSem *semaphore.Weighted
}

// NewRenderer creates a Renderer over the given band source. noData is the
// sensor sentinel below which the raw red band marks a pixel transparent.
func NewRenderer(source BandSource, noData float64, tileCacheTiles, maxConcurrent int) *Renderer {
	return &Renderer{
		source:    source,
		noData:    noData,
		tileCache: newLRUCache[[]byte](tileCacheTiles),
		renderSem: semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Tiles that never intersect a scene share one transparent body.
var emptyTilePNG = encodeEmptyTile()

func encodeEmptyTile() []byte {
	var buf bytes.Buffer
	png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize)))
	return buf.Bytes()
}

// RenderTile renders one XYZ web map tile of a scene as PNG bytes. Rows are
// spaced in web mercator so the tile lines up with its slippy-map neighbors.
func (r *Renderer) RenderTile(ctx context.Context, scene *catalog.Scene, renderName string, z, x, y uint32) ([]byte, error) {
	window := tileBounds(z, x, y)
	if !window.Intersects(scene.Envelope()) {
		return emptyTilePNG, nil
	}

	key := fmt.Sprintf("%s|%s|%d/%d/%d", scene.ProductID, renderName, z, x, y)
	if tile, ok := r.tileCache.Get(key); ok {
		return tile, nil
	}

	img, err := r.renderWindow(ctx, scene, renderName, linearLons(window, TileSize), mercatorLats(window, TileSize))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return nil, err
	}

	tile := buf.Bytes()
	r.tileCache.Put(key, tile)
	return tile, nil
}

// RenderPreview renders an arbitrary window of a scene at the requested
// output size. The window is supersampled (capped) and then resized with a
// Mitchell-Netravali filter.
func (r *Renderer) RenderPreview(ctx context.Context, scene *catalog.Scene, renderName string, window raster.Bounds, width, height int) (image.Image, error) {
	sampleW, sampleH := previewSampleSize(width, height)
	img, err := r.renderWindow(ctx, scene, renderName, linearLons(window, sampleW), linearLats(window, sampleH))
	if err != nil {
		return nil, err
	}
	if sampleW == width && sampleH == height {
		return img, nil
	}
	return resize.Resize(uint(width), uint(height), img, resize.MitchellNetravali), nil
}

// previewSampleSize doubles the requested output size for filtering headroom,
// scaling both edges back proportionally when that passes the cap.
func previewSampleSize(width, height int) (int, int) {
	sampleW, sampleH := width*2, height*2
	longest := sampleW
	if sampleH > longest {
		longest = sampleH
	}
	if longest > previewSampleCap {
		scale := float64(previewSampleCap) / float64(longest)
		sampleW = int(float64(sampleW) * scale)
		sampleH = int(float64(sampleH) * scale)
	}
	if sampleW < 1 {
		sampleW = 1
	}
	if sampleH < 1 {
		sampleH = 1
	}
	return sampleW, sampleH
}

// renderWindow samples the needed bands at the cross product of the given
// coordinates and renders the named composite or spectral index.
func (r *Renderer) renderWindow(ctx context.Context, scene *catalog.Scene, renderName string, lons, lats []float64) (image.Image, error) {
	if composite, ok := landsat.CompositeByName(renderName); ok {
		return r.renderComposite(ctx, scene, composite, lons, lats)
	}
	if index, ok := landsat.IndexByName(renderName); ok {
		return r.renderIndex(ctx, scene, index, lons, lats)
	}
	return nil, fmt.Errorf("no composite or index named %s", renderName)
}

func (r *Renderer) renderComposite(ctx context.Context, scene *catalog.Scene, composite landsat.Composite, lons, lats []float64) (image.Image, error) {
	bands, err := r.fetchBands(ctx, scene, []landsat.Band{composite.Red, composite.Green, composite.Blue})
	if err != nil {
		return nil, err
	}

	if err := r.renderSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.renderSem.Release(1)

	sceneBounds := scene.Envelope()
	red := bands[0].Sample(sceneBounds, lons, lats)
	green := bands[1].Sample(sceneBounds, lons, lats)
	blue := bands[2].Sample(sceneBounds, lons, lats)

	return render.CombineBands(red, green, blue, r.noData), nil
}

func (r *Renderer) renderIndex(ctx context.Context, scene *catalog.Scene, index landsat.SpectralIndex, lons, lats []float64) (image.Image, error) {
	bands, err := r.fetchBands(ctx, scene, []landsat.Band{index.A, index.B})
	if err != nil {
		return nil, err
	}

	if err := r.renderSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.renderSem.Release(1)

	sceneBounds := scene.Envelope()
	a := bands[0].Sample(sceneBounds, lons, lats)
	b := bands[1].Sample(sceneBounds, lons, lats)

	ratio := render.NormalizedDifference(a, b)
	return render.ShadeIndex(ratio, a, r.noData, index.Ramp), nil
}

// fetchBands downloads (or recalls from cache) the scene's band rasters in
// parallel.
func (r *Renderer) fetchBands(ctx context.Context, scene *catalog.Scene, bands []landsat.Band) ([]*raster.Grid, error) {
	grids := make([]*raster.Grid, len(bands))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, band := range bands {
		i, band := i, band
		group.Go(func() error {
			grid, err := r.source.FetchBand(groupCtx, scene.SceneURLString, scene.ProductID, band)
			if err != nil {
				return fmt.Errorf("fetching band %s: %w", band, err)
			}
			grids[i] = grid
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return grids, nil
}
