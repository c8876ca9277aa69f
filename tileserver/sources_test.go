package tileserver

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/tiff"

	"github.com/venicegeo/bf-scene-tiler/landsat"
)

const mockSceneID = "LC80060522017107LGN00"

func mockBandTIFF(t *testing.T, w, h int, value uint16) []byte {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	var buf bytes.Buffer
	err := tiff.Encode(&buf, img, nil)
	assert.Nil(t, err, "Expected TIFF encoding not to error: %v", err)
	return buf.Bytes()
}

func TestHTTPBandSource_FetchBandOverHTTP(t *testing.T) {
	// Mock
	requestCount := 0
	requestedPath := ""
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		requestedPath = r.URL.Path
		w.Write(mockBandTIFF(t, 4, 2, 8192))
	}))
	defer mockServer.Close()
	source := NewHTTPBandSource(4)

	// Tested code
	grid, err := source.FetchBand(context.Background(), mockServer.URL+"/scenes/"+mockSceneID+"/", mockSceneID, landsat.BandRed)

	// Asserts
	assert.Nil(t, err, "Expected fetch not to error: %v", err)
	assert.Equal(t, "/scenes/"+mockSceneID+"/"+mockSceneID+"_B4.TIF", requestedPath)
	assert.Equal(t, 4, grid.W)
	assert.Equal(t, 2, grid.H)
	assert.Equal(t, float64(8192), grid.At(0, 0))
}

func TestHTTPBandSource_CachesDecodedBands(t *testing.T) {
	requestCount := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		w.Write(mockBandTIFF(t, 4, 2, 8192))
	}))
	defer mockServer.Close()
	source := NewHTTPBandSource(4)

	first, err := source.FetchBand(context.Background(), mockServer.URL+"/", mockSceneID, landsat.BandRed)
	assert.Nil(t, err)
	second, err := source.FetchBand(context.Background(), mockServer.URL+"/", mockSceneID, landsat.BandRed)
	assert.Nil(t, err)

	assert.Equal(t, 1, requestCount, "Expected the second fetch to come from cache")
	assert.Same(t, first, second)
}

func TestHTTPBandSource_UpstreamError(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such band", http.StatusNotFound)
	}))
	defer mockServer.Close()
	source := NewHTTPBandSource(4)

	_, err := source.FetchBand(context.Background(), mockServer.URL+"/", mockSceneID, landsat.BandRed)

	assert.NotNil(t, err, "Expected an upstream 404 to surface as an error")
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPBandSource_FetchBandFromDisk(t *testing.T) {
	sceneDir := t.TempDir()
	bandPath := filepath.Join(sceneDir, landsat.BandFileName(mockSceneID, landsat.BandRed))
	err := ioutil.WriteFile(bandPath, mockBandTIFF(t, 2, 2, 300), os.FileMode(0600))
	assert.Nil(t, err)
	source := NewHTTPBandSource(4)

	grid, err := source.FetchBand(context.Background(), sceneDir, mockSceneID, landsat.BandRed)

	assert.Nil(t, err, "Expected fetch not to error: %v", err)
	assert.Equal(t, float64(300), grid.At(1, 1))
}

func TestHTTPBandSource_MissingFile(t *testing.T) {
	source := NewHTTPBandSource(4)

	_, err := source.FetchBand(context.Background(), t.TempDir(), mockSceneID, landsat.BandRed)

	assert.NotNil(t, err)
}
