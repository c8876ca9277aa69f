// Copyright 2018, RadiantBlue Technologies, Inc.
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

// Package render turns raw LandSat band windows into display-ready images.
// Every function here is pure: no I/O, no shared state, deterministic
// output for the same input.
package render

import (
	"math"

	"github.com/venicegeo/bf-scene-tiler/raster"
)

// LandSat 8 delivers 16-bit samples. The sigmoid stretches contrast around
// the threshold so that the dark-skewed reflectance histogram fills the
// display range instead of bunching near black.
const (
	sensorMin = 0.0
	sensorMax = 65535.0

	contrastSteepness = 40.0
	contrastThreshold = 0.125
)

// Normalize maps raw sensor samples onto 8-bit display intensities: rescale
// from the sensor range to [0,1], apply the sigmoid contrast curve, scale by
// 255 and truncate. The output has the same row-major shape as src. Shape
// agreement with sibling bands is the caller's responsibility; no validation
// happens here. NaN samples produce an undefined byte and are expected to be
// masked by the compositor's alpha channel.
func Normalize(src *raster.Grid) []uint8 {
	out := make([]uint8, len(src.Samples))
	for i, v := range src.Samples {
		out[i] = normalize8(v)
	}
	return out
}

func normalize8(v float64) uint8 {
	scaled := (v - sensorMin) / (sensorMax - sensorMin)
	curved := 1 / (1 + math.Exp(contrastSteepness*(contrastThreshold-scaled)))
	return uint8(curved * 255)
}
