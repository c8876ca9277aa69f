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
	"image/color"
	"math"

	"github.com/venicegeo/bf-scene-tiler/raster"
)

// NormalizedDifference computes (a-b)/(a+b) per sample, the standard form of
// spectral indices like NDVI and NDWI. Samples where the denominator is zero
// come back as NaN. Values land in [-1, 1] for non-negative inputs.
func NormalizedDifference(a, b *raster.Grid) *raster.Grid {
	out := raster.NewGrid(a.W, a.H)
	for i := range out.Samples {
		sum := a.Samples[i] + b.Samples[i]
		if sum == 0 {
			out.Samples[i] = math.NaN()
			continue
		}
		out.Samples[i] = (a.Samples[i] - b.Samples[i]) / sum
	}
	return out
}

// ColorStop anchors a color at a position along a ramp
type ColorStop struct {
	Pos   float64
	Color color.NRGBA
}

// Colormap is a piecewise-linear color ramp, stops ordered by position
type Colormap []ColorStop

// At interpolates the ramp color for v, clamping outside the stop range
func (m Colormap) At(v float64) color.NRGBA {
	if len(m) == 0 {
		return color.NRGBA{}
	}
	if v <= m[0].Pos {
		return m[0].Color
	}
	for i := 1; i < len(m); i++ {
		if v <= m[i].Pos {
			span := m[i].Pos - m[i-1].Pos
			t := 1.0
			if span > 0 {
				t = (v - m[i-1].Pos) / span
			}
			return lerpColor(m[i-1].Color, m[i].Color, t)
		}
	}
	return m[len(m)-1].Color
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
		A: lerp8(a.A, b.A, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)))
}

// ShadeIndex renders a spectral index through a color ramp. The alpha rule
// matches CombineBands, applied to the raw reference band, with the addition
// that pixels whose index is undefined are transparent too.
func ShadeIndex(index, raw *raster.Grid, noData float64, ramp Colormap) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, index.W, index.H))

	for i, v := range index.Samples {
		var shade color.NRGBA
		alpha := uint8(0)
		rawSample := raw.Samples[i]
		if !math.IsNaN(v) && !math.IsNaN(rawSample) && rawSample > noData {
			shade = ramp.At(v)
			alpha = 255
		}
		img.Pix[i*4+0] = shade.R
		img.Pix[i*4+1] = shade.G
		img.Pix[i*4+2] = shade.B
		img.Pix[i*4+3] = alpha
	}

	return img
}
