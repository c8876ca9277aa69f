package tileserver

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/model"
	"github.com/venicegeo/bf-scene-tiler/raster"
	"github.com/venicegeo/bf-scene-tiler/util"
	"github.com/venicegeo/geojson-go/geojson"
)

const (
	defaultPreviewWidth = 1024
	maxPreviewEdge      = 4096
)

// DiscoverHandler is a handler for /discover/landsat
// @Title discoverHandler
// @Description discovers scenes in the local catalog
// @Accept  plain
// @Param   bbox            query   string  true         "The bounding box, as a GeoJSON Bounding box (x1,y1,x2,y2)"
// @Param   cloudCover      query   string  false        "The maximum cloud cover, as a percentage (0-100)"
// @Param   acquiredDate    query   string  false        "The minimum (earliest) acquired date, as RFC 3339 or YYYY-MM-DD"
// @Param   maxAcquiredDate query   string  false        "The maximum acquired date, as RFC 3339 or YYYY-MM-DD"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Router /discover/landsat [get]
type DiscoverHandler struct {
	Context Context
}

// NewDiscoverHandler creates a new handler using configuration
// from environment variables
func NewDiscoverHandler(connectionProvider catalog.ConnectionProvider) (*DiscoverHandler, error) {
	baseURL := util.GetRenderBaseURL()

	db, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}

	return &DiscoverHandler{
		Context: Context{
			DB:      db,
			BaseURL: baseURL,
		},
	}, nil
}

// ServeHTTP implements the http.Handler interface for the DiscoverHandler type
func (h DiscoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tx, err := h.Context.DB.Begin()
	if err != nil {
		message := fmt.Sprintf("Could not begin DB transaction: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	defer tx.Commit()

	bbox, err := geojson.NewBoundingBox(r.FormValue("bbox"))
	if err == nil && len(bbox) != 4 {
		err = fmt.Errorf("expected a 2D bounding box, got %d coordinates", len(bbox))
	}
	if err != nil {
		message := fmt.Sprintf("The bbox value of %v is invalid", r.FormValue("bbox"))
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		tx.Rollback()
		return
	}
	maxCloudCover := float64(100)
	if r.FormValue("cloudCover") != "" {
		if maxCloudCover, err = strconv.ParseFloat(r.FormValue("cloudCover"), 64); err != nil {
			message := fmt.Sprintf("Cloud Cover value of %v is invalid.", r.FormValue("cloudCover"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
			tx.Rollback()
			return
		}
	}
	minAcquiredDate := time.Unix(0, 0)
	if r.FormValue("acquiredDate") != "" {
		if minAcquiredDate, err = model.ParseSceneTime(r.FormValue("acquiredDate")); err != nil {
			message := fmt.Sprintf("Acquired date value of %v is invalid.", r.FormValue("acquiredDate"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
			tx.Rollback()
			return
		}
	}
	maxAcquiredDate := time.Now()
	if r.FormValue("maxAcquiredDate") != "" {
		if maxAcquiredDate, err = model.ParseSceneTime(r.FormValue("maxAcquiredDate")); err != nil {
			message := fmt.Sprintf("Acquired date value of %v is invalid.", r.FormValue("maxAcquiredDate"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
			tx.Rollback()
			return
		}
	}

	multiResult, err := discoverScenes(tx, h.Context, bbox, maxCloudCover, minAcquiredDate, maxAcquiredDate)

	if err != nil {
		message := fmt.Sprintf("Error searching for scenes: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	featureCollection, err := multiResult.GeoJSONFeatureCollection()
	if err != nil {
		message := fmt.Sprintf("Error converting to feature collection: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}
	w.Write([]byte(featureCollection.String()))
}

// MetadataHandler is a handler for /landsat/{id}
// @Title metadataHandler
// @Description returns the catalog metadata for a single scene
// @Accept  plain
// @Param   id            path   string  true        "The ID of the requested scene"
// @Success 200 {object}  geojson.Feature
// @Failure 404 {object}  string
// @Router /landsat/{id} [get]
type MetadataHandler struct {
	Context Context
}

// NewMetadataHandler creates a new handler using the environment and given DB
func NewMetadataHandler(connectionProvider catalog.ConnectionProvider) (*MetadataHandler, error) {
	baseURL := util.GetRenderBaseURL()

	db, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}

	return &MetadataHandler{
		Context: Context{
			DB:      db,
			BaseURL: baseURL,
		},
	}, nil
}

func (h MetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sceneID, ok := mux.Vars(r)["id"]
	if !ok {
		message := "No scene ID found in URL"
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		return
	}

	tx, err := h.Context.DB.Begin()
	if err != nil {
		message := fmt.Sprintf("Could not begin DB transaction: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	defer tx.Commit()

	metadata, err := getMetadata(tx, h.Context, sceneID)
	if err == sql.ErrNoRows {
		message := fmt.Sprintf("Scene not found: %s", sceneID)
		util.LogInfo(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		tx.Rollback()
		return
	}
	if err != nil {
		message := fmt.Sprintf("Server error searching for scene: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	feature, err := metadata.GeoJSONFeature()
	if err != nil {
		message := fmt.Sprintf("Error converting metadata to geojson: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}
	w.Write([]byte(feature.String()))
}

// XYZTileHandler is a handler for /tiles/landsat/{id}/{z}/{x}/{y}.png
// @Title xyzTileHandler
// @Description renders a 256x256 Web Mercator map tile from the scene's band files
// @Accept  plain
// @Param   id        path    string  true         "The ID of the requested scene"
// @Param   z         path    int     true         "Tile zoom level"
// @Param   x         path    int     true         "Tile column"
// @Param   y         path    int     true         "Tile row"
// @Param   composite query   string  false        "The composite or index preset to render (default truecolor)"
// @Success 200 image/png
// @Failure 400 {object}  string
// @Router /tiles/landsat/{id}/{z}/{x}/{y}.png [get]
type XYZTileHandler struct {
	Context Context
}

// NewXYZTileHandler creates a new handler using the environment, given DB and renderer
func NewXYZTileHandler(connectionProvider catalog.ConnectionProvider, renderer *Renderer) (*XYZTileHandler, error) {
	db, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}

	return &XYZTileHandler{
		Context: Context{
			DB:       db,
			Renderer: renderer,
		},
	}, nil
}

func (h XYZTileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sceneID, ok := vars["id"]
	if !ok {
		message := "No scene ID found in URL"
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		return
	}

	z, zErr := strconv.ParseUint(vars["z"], 10, 32)
	x, xErr := strconv.ParseUint(vars["x"], 10, 32)
	y, yErr := strconv.ParseUint(vars["y"], 10, 32)
	if zErr != nil || xErr != nil || yErr != nil || !validTileAddress(z, x, y) {
		message := fmt.Sprintf("The tile address %s/%s/%s is invalid", vars["z"], vars["x"], vars["y"])
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	renderName, err := renderNameFromRequest(r)
	if err != nil {
		message := err.Error()
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	tx, err := h.Context.DB.Begin()
	if err != nil {
		message := fmt.Sprintf("Could not begin DB transaction: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	defer tx.Commit()

	scene, err := catalog.GetSceneByID(tx, sceneID)
	if err == sql.ErrNoRows {
		message := fmt.Sprintf("Scene not found: %s", sceneID)
		util.LogInfo(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		tx.Rollback()
		return
	}
	if err != nil {
		message := fmt.Sprintf("Server error searching for scene: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	tile, err := h.Context.Renderer.RenderTile(r.Context(), scene, renderName, uint32(z), uint32(x), uint32(y))
	if err != nil {
		message := fmt.Sprintf("Error rendering tile: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(tile)
}

// PreviewHandler is a handler for /preview/landsat/{id}.png
// @Title previewHandler
// @Description renders a one-shot browse image of a scene window
// @Accept  plain
// @Param   id        path    string  true         "The ID of the requested scene"
// @Param   bbox      query   string  false        "The window to render, as a GeoJSON Bounding box (default: the whole scene)"
// @Param   width     query   int     false        "Output width in pixels"
// @Param   height    query   int     false        "Output height in pixels"
// @Param   composite query   string  false        "The composite or index preset to render (default truecolor)"
// @Success 200 image/png
// @Failure 400 {object}  string
// @Router /preview/landsat/{id}.png [get]
type PreviewHandler struct {
	Context Context
}

// NewPreviewHandler creates a new handler using the environment, given DB and renderer
func NewPreviewHandler(connectionProvider catalog.ConnectionProvider, renderer *Renderer) (*PreviewHandler, error) {
	db, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}

	return &PreviewHandler{
		Context: Context{
			DB:       db,
			Renderer: renderer,
		},
	}, nil
}

func (h PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sceneID, ok := mux.Vars(r)["id"]
	if !ok {
		message := "No scene ID found in URL"
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		return
	}

	renderName, err := renderNameFromRequest(r)
	if err != nil {
		message := err.Error()
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	width, err := parsePreviewDimension(r.FormValue("width"))
	if err != nil {
		message := err.Error()
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}
	height, err := parsePreviewDimension(r.FormValue("height"))
	if err != nil {
		message := err.Error()
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	var window raster.Bounds
	hasWindow := false
	if r.FormValue("bbox") != "" {
		bbox, err := geojson.NewBoundingBox(r.FormValue("bbox"))
		if err == nil && len(bbox) != 4 {
			err = fmt.Errorf("expected a 2D bounding box, got %d coordinates", len(bbox))
		}
		if err != nil {
			message := fmt.Sprintf("The bbox value of %v is invalid", r.FormValue("bbox"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
			return
		}
		window = raster.Bounds{MinX: bbox[0], MinY: bbox[1], MaxX: bbox[2], MaxY: bbox[3]}
		hasWindow = true
	}

	tx, err := h.Context.DB.Begin()
	if err != nil {
		message := fmt.Sprintf("Could not begin DB transaction: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	defer tx.Commit()

	scene, err := catalog.GetSceneByID(tx, sceneID)
	if err == sql.ErrNoRows {
		message := fmt.Sprintf("Scene not found: %s", sceneID)
		util.LogInfo(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		tx.Rollback()
		return
	}
	if err != nil {
		message := fmt.Sprintf("Server error searching for scene: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	if !hasWindow {
		window = scene.Envelope()
	}
	if window.Width() <= 0 || window.Height() <= 0 {
		message := fmt.Sprintf("The bbox value of %v is invalid", r.FormValue("bbox"))
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		tx.Rollback()
		return
	}
	width, height = fitPreviewSize(width, height, window)

	preview, err := h.Context.Renderer.RenderPreview(r.Context(), scene, renderName, window, width, height)
	if err != nil {
		message := fmt.Sprintf("Error rendering preview: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err = png.Encode(w, preview); err != nil {
		util.LogSimpleErr(&h.Context, "Error writing preview PNG", err)
	}
}

// CompositesHandler is a handler for /composites
// @Title compositesHandler
// @Description lists the renderable composite and index presets
// @Accept  plain
// @Success 200 {array}  renderPreset
// @Router /composites [get]
type CompositesHandler struct {
	Context Context
}

// NewCompositesHandler creates a new handler; it needs no configuration
func NewCompositesHandler() *CompositesHandler {
	return &CompositesHandler{}
}

type renderPreset struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Bands       []string `json:"bands"`
	Description string   `json:"description"`
	Default     bool     `json:"default,omitempty"`
}

func (h CompositesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	presets := make([]renderPreset, 0, len(landsat.Composites)+len(landsat.Indexes))
	for i, composite := range landsat.Composites {
		presets = append(presets, renderPreset{
			Name:        composite.Name,
			Type:        "composite",
			Bands:       []string{string(composite.Red), string(composite.Green), string(composite.Blue)},
			Description: composite.Description,
			Default:     i == 0,
		})
	}
	for _, index := range landsat.Indexes {
		presets = append(presets, renderPreset{
			Name:        index.Name,
			Type:        "index",
			Bands:       []string{string(index.A), string(index.B)},
			Description: index.Description,
		})
	}

	body, err := json.Marshal(presets)
	if err != nil {
		message := fmt.Sprintf("Error marshaling preset list: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// renderNameFromRequest validates the composite parameter against the known
// presets, falling back to the default composite when the request names none
func renderNameFromRequest(r *http.Request) (string, error) {
	name := r.FormValue("composite")
	if name == "" {
		return landsat.DefaultComposite().Name, nil
	}
	if _, ok := landsat.CompositeByName(name); ok {
		return name, nil
	}
	if _, ok := landsat.IndexByName(name); ok {
		return name, nil
	}
	return "", fmt.Errorf("no composite or index named %s", name)
}

// parsePreviewDimension parses an optional pixel dimension; zero means the
// request left it to the server to choose
func parsePreviewDimension(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	dimension, err := strconv.Atoi(value)
	if err != nil || dimension <= 0 || dimension > maxPreviewEdge {
		return 0, fmt.Errorf("preview dimensions must be whole numbers between 1 and %d", maxPreviewEdge)
	}
	return dimension, nil
}

// fitPreviewSize fills in missing preview dimensions from the window's aspect
// ratio so unspecified previews keep the scene's shape
func fitPreviewSize(width, height int, window raster.Bounds) (int, int) {
	if width == 0 && height == 0 {
		width = defaultPreviewWidth
	}
	if width == 0 {
		width = scaleDimension(height, window.Width()/window.Height())
	}
	if height == 0 {
		height = scaleDimension(width, window.Height()/window.Width())
	}
	return width, height
}

func scaleDimension(base int, ratio float64) int {
	scaled := int(math.Round(float64(base) * ratio))
	if scaled < 1 {
		return 1
	}
	if scaled > maxPreviewEdge {
		return maxPreviewEdge
	}
	return scaled
}
