package catalog

import (
	"database/sql"
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

//searchResultLimit caps the number of scenes a single search can return.
const searchResultLimit = 100

const sceneColumns = `product_id, acquisition_date, cloud_cover, wrs_path, wrs_row, scene_url, ST_AsGeoJSON(bounds)`

// GetSceneByID retrieves a single indexed scene by its product ID
func GetSceneByID(tx *sql.Tx, productID string) (*Scene, error) {
	rows, err := tx.Query(`
		SELECT `+sceneColumns+`
		FROM public.scenes
		WHERE product_id=$1
		LIMIT 1`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, sql.ErrNoRows
	}

	scene, err := scanScene(rows)
	if err != nil {
		return nil, err
	}
	return scene, nil
}

// SearchScenes retrieves the indexed scenes intersecting a bounding box and
// matching the cloud cover and acquisition date constraints, newest first
func SearchScenes(tx *sql.Tx, bbox geojson.BoundingBox, maxCloudCover float64,
	minAcquiredDate time.Time, maxAcquiredDate time.Time) ([]Scene, error) {
	rows, err := tx.Query(`
		SELECT `+sceneColumns+`
		FROM public.scenes
		WHERE ST_Intersects(bounds, ST_MakeEnvelope($1, $2, $3, $4, 4326))
		AND cloud_cover <= $5
		AND acquisition_date BETWEEN $6 AND $7
		ORDER BY acquisition_date DESC
		LIMIT $8`,
		bbox[0], bbox[1], bbox[2], bbox[3],
		maxCloudCover, minAcquiredDate, maxAcquiredDate, searchResultLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scenes := []Scene{}
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, *scene)
	}

	return scenes, rows.Err()
}

func scanScene(rows *sql.Rows) (*Scene, error) {
	var boundsBytes []byte
	scene := Scene{}

	err := rows.Scan(&scene.ProductID, &scene.AcquisitionDate, &scene.CloudCover,
		&scene.WRSPath, &scene.WRSRow, &scene.SceneURLString, &boundsBytes)
	if err != nil {
		return nil, err
	}

	scene.Bounds, err = geojson.PolygonFromBytes(boundsBytes)
	if err != nil {
		return nil, err
	}

	return &scene, nil
}
