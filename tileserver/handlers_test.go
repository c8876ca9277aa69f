package tileserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	// Register the postgres driver for the lazy test connection handles
	_ "github.com/lib/pq"

	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/util"
)

// mockConnectionProvider hands out lazy connection handles pointed at a dead
// port. Requests that never reach the database succeed; requests that do,
// fail at transaction start.
func mockConnectionProvider(logContext util.LogContext) (*sql.DB, error) {
	return sql.Open("postgres", "postgres://nobody@127.0.0.1:1/scenes?sslmode=disable")
}

func mockTileRouter(t *testing.T) *mux.Router {
	handler, err := NewXYZTileHandler(mockConnectionProvider, NewRenderer(mockCompositeSource(), 1, 16, 2))
	assert.Nil(t, err, "Expected handler construction not to error: %v", err)

	router := mux.NewRouter()
	router.Handle("/tiles/landsat/{id}/{z}/{x}/{y}.png", handler)
	return router
}

func mockPreviewRouter(t *testing.T) *mux.Router {
	handler, err := NewPreviewHandler(mockConnectionProvider, NewRenderer(mockCompositeSource(), 1, 16, 2))
	assert.Nil(t, err, "Expected handler construction not to error: %v", err)

	router := mux.NewRouter()
	router.Handle("/preview/landsat/{id}.png", handler)
	return router
}

func TestNewDiscoverHandler(t *testing.T) {
	handler, err := NewDiscoverHandler(mockConnectionProvider)

	assert.Nil(t, err)
	assert.NotNil(t, handler)
	assert.NotNil(t, handler.Context.DB)
}

func TestDiscoverHandler_DatabaseUnavailable(t *testing.T) {
	handler, err := NewDiscoverHandler(mockConnectionProvider)
	assert.Nil(t, err)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/discover/landsat?bbox=0,0,1,1", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Could not begin DB transaction")
}

func TestXYZTileHandler_RejectsBadTileAddresses(t *testing.T) {
	router := mockTileRouter(t)
	badAddresses := []string{
		"19/0/0",  // zoom beyond the supported maximum
		"3/8/0",   // column outside the zoom 3 grid
		"3/0/8",   // row outside the zoom 3 grid
		"abc/0/0", // non-numeric zoom
		"3/-1/0",  // negative column
	}

	for _, address := range badAddresses {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", "/tiles/landsat/LC80060522017107LGN00/"+address+".png", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code, "Expected a 400 for tile address %s", address)
		assert.Contains(t, recorder.Body.String(), "invalid")
	}
}

func TestXYZTileHandler_RejectsUnknownComposite(t *testing.T) {
	router := mockTileRouter(t)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/tiles/landsat/LC80060522017107LGN00/3/1/1.png?composite=sepia", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no composite or index named sepia")
}

func TestPreviewHandler_RejectsBadDimensions(t *testing.T) {
	router := mockPreviewRouter(t)
	badQueries := []string{
		"width=0",
		"width=-5",
		"width=99999",
		"width=abc",
		"height=0",
		"height=99999",
	}

	for _, query := range badQueries {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", "/preview/landsat/LC80060522017107LGN00.png?"+query, nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code, "Expected a 400 for query %s", query)
		assert.Contains(t, recorder.Body.String(), "preview dimensions")
	}
}

func TestPreviewHandler_RejectsUnknownComposite(t *testing.T) {
	router := mockPreviewRouter(t)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/preview/landsat/LC80060522017107LGN00.png?composite=sepia", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "no composite or index named sepia")
}

func TestCompositesHandler(t *testing.T) {
	handler := NewCompositesHandler()
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/composites", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	var presets []renderPreset
	err := json.Unmarshal(recorder.Body.Bytes(), &presets)
	assert.Nil(t, err, "Expected a JSON preset list: %v", err)

	names := make([]string, len(presets))
	for i, preset := range presets {
		names[i] = preset.Name
	}
	assert.Equal(t, landsat.RenderNames(), names)

	assert.Equal(t, "truecolor", presets[0].Name)
	assert.True(t, presets[0].Default)
	assert.Equal(t, []string{"B4", "B3", "B2"}, presets[0].Bands)
	for _, preset := range presets[1:] {
		assert.False(t, preset.Default, "Expected only the first preset to be the default")
	}
}
