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

package render

import (
	"image"
	"math"

	"github.com/venicegeo/bf-scene-tiler/raster"
)

// CombineBands renders three raw band windows into one RGBA image. Each
// channel is normalized independently; no arithmetic mixes the channels.
// The alpha channel is binary and derived from the raw red band alone:
// transparent where the red sample is NaN or at or below noData, opaque
// everywhere else. NaN and the sentinel both mark the collar of nodata
// pixels around a scene, so the mask hides exactly the pixels the sensor
// never saw. Note a sentinel of 1 also hides legitimate samples of value 1;
// callers that care configure the sentinel to match their source.
//
// The result is non-premultiplied (NRGBA) so transparent pixels keep their
// channel bytes intact.
func CombineBands(red, green, blue *raster.Grid, noData float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, red.W, red.H))

	r8 := Normalize(red)
	g8 := Normalize(green)
	b8 := Normalize(blue)

	for i, raw := range red.Samples {
		alpha := uint8(255)
		if math.IsNaN(raw) || raw <= noData {
			alpha = 0
		}
		img.Pix[i*4+0] = r8[i]
		img.Pix[i*4+1] = g8[i]
		img.Pix[i*4+2] = b8[i]
		img.Pix[i*4+3] = alpha
	}

	return img
}
