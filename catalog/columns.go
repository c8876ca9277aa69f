package catalog

import (
	"fmt"
	"strings"

	"github.com/venicegeo/bf-scene-tiler/landsat"
)

const productIDColumn string = "productId"
const captureDateColumn string = "acquisitionDate"
const cloudCoverColumn string = "cloudCover"
const processingLevelColumn string = "processingLevel"
const wrsPathColumn string = "path"
const wrsRowColumn string = "row"
const minLatColumn string = "min_lat"
const minLonColumn string = "min_lon"
const maxLatColumn string = "max_lat"
const maxLonColumn string = "max_lon"
const downloadURLColumn = "download_url"

const insertSceneStatement = `
INSERT INTO scenes as s (
	product_id,
	acquisition_date,
	cloud_cover,
	wrs_path,
	wrs_row,
	scene_url,
	bounds)
VALUES
(
	$1,
	$2,
	$3,
	$4,
	$5,
	$6,
	ST_MakeEnvelope($7, $8, $9, $10, 4326)
)
	ON CONFLICT (product_id) DO UPDATE
	SET scene_url =	$6
	WHERE s.scene_url <> $6
	`

const databaseMaintenanceStatement = `
	VACUUM ANALYZE scenes
`

//columnNames should contain an entry for any column used in a columnConverter.
var columnNames = []string{
	productIDColumn,
	captureDateColumn,
	cloudCoverColumn,
	processingLevelColumn,
	wrsPathColumn,
	wrsRowColumn,
	minLatColumn,
	minLonColumn,
	maxLatColumn,
	maxLonColumn,
	downloadURLColumn}

//columnConverters transform the raw values from the csv file into the values of the
//parameters used in the insert SQL statement, in statement parameter order.
//NOTE: The database does most necessary parsing, so many of these are trivial.
var columnConverters = []csvValueConverter{
	convertProductID,
	func(vals map[string]string) (interface{}, error) { return vals[captureDateColumn], nil },
	func(vals map[string]string) (interface{}, error) { return vals[cloudCoverColumn], nil },
	func(vals map[string]string) (interface{}, error) { return vals[wrsPathColumn], nil },
	func(vals map[string]string) (interface{}, error) { return vals[wrsRowColumn], nil },
	convertDownloadURL,
	func(vals map[string]string) (interface{}, error) { return vals[minLonColumn], nil },
	func(vals map[string]string) (interface{}, error) { return vals[minLatColumn], nil },
	func(vals map[string]string) (interface{}, error) { return vals[maxLonColumn], nil },
	func(vals map[string]string) (interface{}, error) { return vals[maxLatColumn], nil }}

//convertProductID rejects rows whose product ID is not a recognizable
//LandSat ID of either era.
func convertProductID(vals map[string]string) (interface{}, error) {
	productID := vals[productIDColumn]
	if !landsat.IsValidLandSatID(productID) {
		return nil, fmt.Errorf("invalid product ID: %s", productID)
	}
	return productID, nil
}

//convertDownloadURL checks the row's processing level and rewrites the scene
//list's index.html link into the scene folder URL band files resolve against.
func convertDownloadURL(vals map[string]string) (interface{}, error) {
	if level := vals[processingLevelColumn]; !landsat.IsCollection1DataType(level) {
		return nil, fmt.Errorf("not a Collection 1 processing level: %s", level)
	}

	rawURL := vals[downloadURLColumn]
	lastSlash := strings.LastIndex(rawURL, "/")
	if lastSlash < 0 {
		return nil, fmt.Errorf("malformed download URL: %s", rawURL)
	}
	return rawURL[:lastSlash+1], nil
}
