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

package landsat

import (
	"image/color"

	"github.com/venicegeo/bf-scene-tiler/render"
)

// Composite names an RGB band combination renderable from a scene
type Composite struct {
	Name        string
	Red         Band
	Green       Band
	Blue        Band
	Description string
}

// Composites are the supported band combinations. The first entry is the
// default when a request names none.
var Composites = []Composite{
	{Name: "truecolor", Red: BandRed, Green: BandGreen, Blue: BandBlue,
		Description: "Natural color (B4/B3/B2)"},
	{Name: "falsecolor", Red: BandNIR, Green: BandRed, Blue: BandGreen,
		Description: "Color infrared, vegetation shows red (B5/B4/B3)"},
	{Name: "agriculture", Red: BandSWIR1, Green: BandNIR, Blue: BandBlue,
		Description: "Agriculture, crops show bright green (B6/B5/B2)"},
}

// DefaultComposite returns the combination used when a request names none
func DefaultComposite() Composite {
	return Composites[0]
}

// CompositeByName looks up a composite preset by name
func CompositeByName(name string) (Composite, bool) {
	for _, c := range Composites {
		if c.Name == name {
			return c, true
		}
	}
	return Composite{}, false
}

// SpectralIndex names a normalized-difference index (A-B)/(A+B) renderable
// from a scene, along with the color ramp to shade it with
type SpectralIndex struct {
	Name        string
	A           Band
	B           Band
	Description string
	Ramp        render.Colormap
}

// Indexes are the supported normalized-difference indices
var Indexes = []SpectralIndex{
	{Name: "ndvi", A: BandNIR, B: BandRed,
		Description: "Normalized difference vegetation index", Ramp: ndviRamp},
	{Name: "ndwi", A: BandGreen, B: BandNIR,
		Description: "Normalized difference water index", Ramp: ndwiRamp},
}

// IndexByName looks up a spectral index preset by name
func IndexByName(name string) (SpectralIndex, bool) {
	for _, idx := range Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return SpectralIndex{}, false
}

// RenderNames lists every renderable preset name, composites first
func RenderNames() []string {
	names := make([]string, 0, len(Composites)+len(Indexes))
	for _, c := range Composites {
		names = append(names, c.Name)
	}
	for _, idx := range Indexes {
		names = append(names, idx.Name)
	}
	return names
}

// Barren ground through dry grass to dense canopy
var ndviRamp = render.Colormap{
	{Pos: -1, Color: color.NRGBA{R: 120, G: 69, B: 25, A: 255}},
	{Pos: 0, Color: color.NRGBA{R: 230, G: 230, B: 160, A: 255}},
	{Pos: 1, Color: color.NRGBA{R: 16, G: 109, B: 18, A: 255}},
}

// Dry land through neutral to open water
var ndwiRamp = render.Colormap{
	{Pos: -1, Color: color.NRGBA{R: 115, G: 77, B: 38, A: 255}},
	{Pos: 0, Color: color.NRGBA{R: 245, G: 245, B: 245, A: 255}},
	{Pos: 1, Color: color.NRGBA{R: 22, G: 80, B: 185, A: 255}},
}
