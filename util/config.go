// Copyright 2016, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// Environment variables
const (
	DOMAIN                   = "DOMAIN"
	LANDSAT_HOST             = "LANDSAT_HOST"
	LANDSAT_INDEX_SCENES_URL = "LANDSAT_INDEX_SCENES_URL"
	RENDER_BASE_URL          = "RENDER_BASE_URL"
	SCENE_NODATA_VALUE       = "SCENE_NODATA_VALUE"
	TILE_CACHE_TILES         = "TILE_CACHE_TILES"
	BAND_CACHE_BANDS         = "BAND_CACHE_BANDS"
	RENDER_CONCURRENCY       = "RENDER_CONCURRENCY"
)

// DefaultNoDataValue is the sensor no-data sentinel assumed when the
// environment does not supply one. Raw band samples at or below the sentinel
// render as fully transparent.
const DefaultNoDataValue float64 = 1

const (
	defaultTileCacheTiles = 512
	defaultBandCacheBands = 48
)

// GetDomain returns a string for the DOMAIN environment variable
func GetDomain() string {
	domain, ok := os.LookupEnv(DOMAIN)
	if !ok {
		LogAlert(&BasicLogContext{}, "Didn't get domain from environment.")
	}
	return domain
}

// GetLandsatHost returns a string for the LANDSAT_HOST environment variable
func GetLandsatHost() string {
	landSatHost, ok := os.LookupEnv(LANDSAT_HOST)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get Landsat Host URL from the environment. Landsat will not be available.")
	}
	return landSatHost
}

// GetRenderBaseURL returns the base URL render links should point at, either
// from the RENDER_BASE_URL environment variable or implied from the domain
func GetRenderBaseURL() string {
	baseURL, ok := os.LookupEnv(RENDER_BASE_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get explicit render base URL from the environment. Using implied URL based on domain.")
		domain := GetDomain()
		if len(domain) == 0 {
			LogAlert(&BasicLogContext{}, "No domain in environment. Render links will be host relative.")
			return ""
		}
		baseURL = fmt.Sprintf("https://bf-scene-tiler.%s", domain)
	}
	return baseURL
}

// GetSceneNoDataValue returns the no-data sentinel for the configured scene source
func GetSceneNoDataValue() float64 {
	raw, ok := os.LookupEnv(SCENE_NODATA_VALUE)
	if !ok {
		return DefaultNoDataValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		LogAlert(&BasicLogContext{}, fmt.Sprintf("Invalid %s value of %s. Using default of %v.", SCENE_NODATA_VALUE, raw, DefaultNoDataValue))
		return DefaultNoDataValue
	}
	return value
}

func getPositiveIntEnv(name string, fallback int) int {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		LogAlert(&BasicLogContext{}, fmt.Sprintf("Invalid %s value of %s. Using default of %v.", name, raw, fallback))
		return fallback
	}
	return value
}

// GetTileCacheTiles returns the capacity of the encoded tile cache
func GetTileCacheTiles() int {
	return getPositiveIntEnv(TILE_CACHE_TILES, defaultTileCacheTiles)
}

// GetBandCacheBands returns the capacity of the decoded band grid cache
func GetBandCacheBands() int {
	return getPositiveIntEnv(BAND_CACHE_BANDS, defaultBandCacheBands)
}

// GetRenderConcurrency returns the number of renders allowed to run at once
func GetRenderConcurrency() int {
	return getPositiveIntEnv(RENDER_CONCURRENCY, runtime.NumCPU())
}
