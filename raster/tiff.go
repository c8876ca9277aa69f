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

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/tiff"
)

// DecodeBandTIFF decodes a single-band grayscale TIFF into a Grid. LandSat
// band files are 16-bit grayscale; 8-bit grayscale is accepted as well.
// The georeferencing tags are not read here; callers attach Bounds from the
// scene's MTL metadata or catalog record.
func DecodeBandTIFF(r io.Reader) (*Grid, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding band TIFF: %v", err)
	}
	return gridFromImage(img)
}

func gridFromImage(img image.Image) (*Grid, error) {
	bounds := img.Bounds()
	grid := NewGrid(bounds.Dx(), bounds.Dy())

	switch m := img.(type) {
	case *image.Gray16:
		for y := 0; y < grid.H; y++ {
			for x := 0; x < grid.W; x++ {
				grid.Samples[y*grid.W+x] = float64(m.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	case *image.Gray:
		for y := 0; y < grid.H; y++ {
			for x := 0; x < grid.W; x++ {
				grid.Samples[y*grid.W+x] = float64(m.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported band sample format %T; expected 8 or 16 bit grayscale", img)
	}

	return grid, nil
}
