package tileserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/raster"
	"github.com/venicegeo/bf-scene-tiler/util"
)

// BandSource retrieves the raw raster of one band of a scene.
type BandSource interface {
	FetchBand(ctx context.Context, sceneFolderURL, sceneID string, band landsat.Band) (*raster.Grid, error)
}

// HTTPBandSource fetches band GeoTIFFs from a scene folder URL. Decoded bands
// are kept in an LRU cache, and concurrent requests for the same band share a
// single download.
type HTTPBandSource struct {
	client *http.Client
	cache  *lruCache[*raster.Grid]
	group  singleflight.Group
}

// NewHTTPBandSource creates a band source that keeps up to cacheBands decoded
// bands in memory.
func NewHTTPBandSource(cacheBands int) *HTTPBandSource {
	return &HTTPBandSource{
		client: util.HTTPClient(),
		cache:  newLRUCache[*raster.Grid](cacheBands),
	}
}

// FetchBand implements the BandSource interface
func (s *HTTPBandSource) FetchBand(ctx context.Context, sceneFolderURL, sceneID string, band landsat.Band) (*raster.Grid, error) {
	key, err := bandKey(sceneFolderURL, sceneID, band)
	if err != nil {
		return nil, err
	}

	if grid, ok := s.cache.Get(key); ok {
		return grid, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A racing request may have populated the cache while this one
		// waited its turn.
		if grid, ok := s.cache.Get(key); ok {
			return grid, nil
		}

		grid, err := s.loadBand(ctx, key)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, grid)
		return grid, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*raster.Grid), nil
}

// bandKey resolves the band file location, which doubles as the cache and
// de-duplication key.
func bandKey(sceneFolderURL, sceneID string, band landsat.Band) (string, error) {
	if strings.HasPrefix(sceneFolderURL, "http://") || strings.HasPrefix(sceneFolderURL, "https://") {
		bandURL, err := landsat.BandURL(sceneFolderURL, sceneID, band)
		if err != nil {
			return "", err
		}
		return bandURL.String(), nil
	}

	//Treat this as a directory on disk.
	return filepath.Join(filepath.Clean(sceneFolderURL), landsat.BandFileName(sceneID, band)), nil
}

func (s *HTTPBandSource) loadBand(ctx context.Context, location string) (*raster.Grid, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		file, err := os.Open(location)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return raster.DecodeBandTIFF(file)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	response, err := s.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, util.HTTPErr{
			Status:  response.StatusCode,
			Message: fmt.Sprintf("%s returned %s", location, response.Status),
		}
	}

	return raster.DecodeBandTIFF(response.Body)
}
