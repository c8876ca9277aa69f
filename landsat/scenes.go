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
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Pre-collection LandSat IDs come in the form LC80060522017107LGN00.
// Collection 1 product IDs look like LC08_L1TP_006052_20170417_20170501_01_T1.

var preCollectionIDPattern = regexp.MustCompile("^LC8([0-9]{3})([0-9]{3}).*")

var collection1IDPattern = regexp.MustCompile("^L[COTEM]0[0-9]_[A-Z0-9]{4}_([0-9]{3})([0-9]{3})_[0-9]{8}_[0-9]{8}_[0-9]{2}_[A-Z0-9]{2}$")

// IsValidLandSatID returns whether an ID is a valid LandSat scene or product ID
// of either era
func IsValidLandSatID(sceneID string) bool {
	return preCollectionIDPattern.MatchString(sceneID) || collection1IDPattern.MatchString(sceneID)
}

// ScenePathRow extracts the WRS-2 path and row encoded in a LandSat ID
func ScenePathRow(sceneID string) (path, row int, err error) {
	m := preCollectionIDPattern.FindStringSubmatch(sceneID)
	if m == nil {
		m = collection1IDPattern.FindStringSubmatch(sceneID)
	}
	if m == nil {
		return 0, 0, fmt.Errorf("Invalid scene ID: %s", sceneID)
	}
	path, _ = strconv.Atoi(m[1])
	row, _ = strconv.Atoi(m[2])
	return path, row, nil
}

var preCollectionDataTypes = []string{"L1T", "L1GT", "L1G"}

// IsPreCollectionDataType returns whether a data type is a Pre-"Collection 1" type
// Reference: https://landsat.usgs.gov/landsat-processing-details
func IsPreCollectionDataType(dataType string) bool {
	for _, t := range preCollectionDataTypes {
		if dataType == t {
			return true
		}
	}
	return false
}

var collection1DataTypes = []string{"L1TP", "L1GT", "L1GS"}

// IsCollection1DataType returns whether a data type is a "Collection 1" type
// Reference: https://landsat.usgs.gov/landsat-processing-details
func IsCollection1DataType(dataType string) bool {
	dataType = strings.ToUpper(dataType)
	for _, t := range collection1DataTypes {
		if dataType == t {
			return true
		}
	}
	return false
}

// Band identifies one of the LandSat 8 OLI/TIRS instrument bands by its file suffix
type Band string

// LandSat 8 bands
const (
	BandCoastal      Band = "B1"
	BandBlue         Band = "B2"
	BandGreen        Band = "B3"
	BandRed          Band = "B4"
	BandNIR          Band = "B5"
	BandSWIR1        Band = "B6"
	BandSWIR2        Band = "B7"
	BandPanchromatic Band = "B8"
	BandCirrus       Band = "B9"
	BandTIRS1        Band = "B10"
	BandTIRS2        Band = "B11"
)

// BandsBySpectralName maps the conventional spectral names onto band suffixes
var BandsBySpectralName = map[string]Band{
	"coastal":      BandCoastal,
	"blue":         BandBlue,
	"green":        BandGreen,
	"red":          BandRed,
	"nir":          BandNIR,
	"swir1":        BandSWIR1,
	"swir2":        BandSWIR2,
	"panchromatic": BandPanchromatic,
	"cirrus":       BandCirrus,
	"tirs1":        BandTIRS1,
	"tirs2":        BandTIRS2,
}

// BandFileName returns the name of a band file within a scene folder
func BandFileName(sceneID string, band Band) string {
	return fmt.Sprintf("%s_%s.TIF", sceneID, band)
}

// BandURL resolves the absolute URL of a band file against the scene folder URL
func BandURL(sceneFolderURL, sceneID string, band Band) (*url.URL, error) {
	baseURL, err := url.Parse(sceneFolderURL)
	if err != nil {
		return nil, err
	}
	if baseURL.String() == "" {
		return nil, fmt.Errorf("No base Landsat scene folder could be parsed")
	}
	fileURL, err := url.Parse("./" + BandFileName(sceneID, band))
	if err != nil {
		return nil, err
	}
	return baseURL.ResolveReference(fileURL), nil
}
