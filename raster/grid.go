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

package raster

import "math"

// Grid is a single-band raster window: row-major float64 samples with row 0
// at the northern edge. NaN marks samples with no data.
type Grid struct {
	W, H    int
	Samples []float64
}

// NewGrid allocates a zero-filled w by h grid
func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Samples: make([]float64, w*h)}
}

// At returns the sample at column x, row y
func (g *Grid) At(x, y int) float64 {
	return g.Samples[y*g.W+x]
}

// Set stores a sample at column x, row y
func (g *Grid) Set(x, y int, value float64) {
	g.Samples[y*g.W+x] = value
}

// Bounds is a geographic extent in lon/lat degrees
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the longitudinal span in degrees
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height returns the latitudinal span in degrees
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Contains reports whether the lon/lat point falls within the extent
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinX && lon <= b.MaxX && lat >= b.MinY && lat <= b.MaxY
}

// Intersects reports whether two extents overlap
func (b Bounds) Intersects(other Bounds) bool {
	return b.MinX < other.MaxX && other.MinX < b.MaxX &&
		b.MinY < other.MaxY && other.MinY < b.MaxY
}

// LinearSpace returns n coordinates evenly covering [min, max], positioned at
// pixel centers
func LinearSpace(min, max float64, n int) []float64 {
	out := make([]float64, n)
	step := (max - min) / float64(n)
	for i := range out {
		out[i] = min + (float64(i)+0.5)*step
	}
	return out
}

// Sample reads the grid at the cross product of the given lon and lat
// coordinates, treating the grid as spanning srcBounds with row 0 along MaxY.
// Samples are bilinearly interpolated; coordinates outside srcBounds come
// back as NaN, so windows that only partly overlap a scene degrade to
// no-data rather than failing.
func (g *Grid) Sample(srcBounds Bounds, lons, lats []float64) *Grid {
	out := NewGrid(len(lons), len(lats))
	for j, lat := range lats {
		row := out.Samples[j*out.W : (j+1)*out.W]
		for i, lon := range lons {
			row[i] = g.sampleAt(srcBounds, lon, lat)
		}
	}
	return out
}

func (g *Grid) sampleAt(b Bounds, lon, lat float64) float64 {
	if b.Width() <= 0 || b.Height() <= 0 || g.W == 0 || g.H == 0 {
		return math.NaN()
	}
	if !b.Contains(lon, lat) {
		return math.NaN()
	}

	// continuous pixel coordinates, pixel centers at integer + 0.5
	u := (lon-b.MinX)/b.Width()*float64(g.W) - 0.5
	v := (b.MaxY-lat)/b.Height()*float64(g.H) - 0.5

	x0 := int(math.Floor(u))
	y0 := int(math.Floor(v))
	fx := u - float64(x0)
	fy := v - float64(y0)

	x1 := clampIndex(x0+1, g.W)
	y1 := clampIndex(y0+1, g.H)
	x0 = clampIndex(x0, g.W)
	y0 = clampIndex(y0, g.H)

	top := lerp(g.At(x0, y0), g.At(x1, y0), fx)
	bottom := lerp(g.At(x0, y1), g.At(x1, y1), fx)
	return lerp(top, bottom, fy)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
