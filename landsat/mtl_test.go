package landsat

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const mockMTLJSON = `{
	"L1_METADATA_FILE": {
		"PRODUCT_METADATA": {
			"CORNER_UL_LAT_PRODUCT": 31.34742,
			"CORNER_UL_LON_PRODUCT": 72.41205,
			"CORNER_UR_LAT_PRODUCT": 31.34505,
			"CORNER_UR_LON_PRODUCT": 74.84666,
			"CORNER_LL_LAT_PRODUCT": 29.22441,
			"CORNER_LL_LON_PRODUCT": 72.46326,
			"CORNER_LR_LAT_PRODUCT": 29.22165,
			"CORNER_LR_LON_PRODUCT": 74.80206
		},
		"IMAGE_ATTRIBUTES": {
			"CLOUD_COVER": 12.5,
			"SUN_ELEVATION": 58.24
		}
	}
}`

func TestGetSceneMetadata(t *testing.T) {
	// Mock: a scene folder serving only the MTL file
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/scene/"+MTLFileName(collection1ID) {
			fmt.Fprint(w, mockMTLJSON)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	// Tested code
	meta, err := GetSceneMetadata(collection1ID, server.URL+"/scene/index.html")

	// Asserts
	assert.Nil(t, err, "Expected MTL retrieval not to error, but it did: %v", err)
	assert.Equal(t, 12.5, meta.CloudCover)
	assert.Equal(t, 58.24, meta.SunElevation)

	coords := meta.Bounds.Coordinates
	assert.Len(t, coords, 1, "bounds are a single ring")
	assert.Len(t, coords[0], 5, "the ring is closed")
	assert.Equal(t, []float64{72.41205, 31.34742}, coords[0][0], "the ring starts at the upper-left corner")
	assert.Equal(t, coords[0][0], coords[0][4])
}

func TestGetSceneMetadata_MissingMTL(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := GetSceneMetadata(collection1ID, server.URL+"/scene/index.html")

	assert.NotNil(t, err, "Expected a missing MTL file to error")
}

func TestParseSceneMetadata(t *testing.T) {
	meta, err := ParseSceneMetadata([]byte(mockMTLJSON))

	assert.Nil(t, err, "Expected MTL parsing not to error, but it did: %v", err)
	assert.Equal(t, 12.5, meta.CloudCover)
	assert.Equal(t, []float64{74.84666, 31.34505}, meta.Bounds.Coordinates[0][1])
}

func TestParseSceneMetadata_Garbage(t *testing.T) {
	_, err := ParseSceneMetadata([]byte("not MTL json at all"))

	assert.NotNil(t, err)
}

func TestSceneMetadataEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, mockMTLJSON)
	}))
	defer server.Close()

	meta, err := GetSceneMetadata(collection1ID, server.URL+"/")
	assert.Nil(t, err)

	envelope := meta.Envelope()

	assert.Equal(t, 72.41205, envelope.MinX)
	assert.Equal(t, 74.84666, envelope.MaxX)
	assert.Equal(t, 29.22165, envelope.MinY)
	assert.Equal(t, 31.34742, envelope.MaxY)
}
