package catalog

import (
	"database/sql"
	"log"

	"github.com/venicegeo/bf-scene-tiler/landsat"
)

const missingCornersQuery = `
SELECT product_id, scene_url FROM scenes WHERE
corner_ul IS NULL OR
corner_ur IS NULL OR
corner_ll IS NULL OR
corner_lr IS NULL
`

const updateCornersSQL = `
UPDATE scenes SET
	corner_ul = st_setSRID(st_MakePoint($2, $3), 4326),
	corner_ur = st_setSRID(st_MakePoint($4, $5), 4326),
	corner_lr = st_setSRID(st_MakePoint($6, $7), 4326),
	corner_ll = st_setSRID(st_MakePoint($8, $9), 4326)
WHERE product_id = $1
`

type sceneRow struct {
	productID string
	url       string
}

type sceneCorners struct {
	productID string
	metadata  *landsat.SceneMetadata
}

//BackfillSceneCorners downloads the MTL metadata of every indexed scene that
//is missing corner geometry and writes the precise corners back to the
//database. MTL downloads are spread across a pool of workers.
func BackfillSceneCorners(database *sql.DB, numWorkers int) error {
	//Create the statement that writes the corners into the database.
	updateStmt, err := database.Prepare(updateCornersSQL)
	if err != nil {
		return err
	}
	defer updateStmt.Close()

	rows, err := database.Query(missingCornersQuery)
	if err != nil {
		return err
	}
	defer rows.Close()

	scenesQueue := make(chan *sceneRow, numWorkers)
	responseQueue := make(chan *sceneCorners, numWorkers)
	workerCompleteChan := make(chan bool, 1)

	//Start some workers.
	for i := 0; i < numWorkers; i++ {
		go downloadWorker(scenesQueue, responseQueue, workerCompleteChan)
	}

	//Listen for their exit.
	go func() {
		workersDone := 0
		for workersDone < numWorkers {
			<-workerCompleteChan
			workersDone++
		}
		close(responseQueue)
	}()

	//Launch a process to write all of the rows into the channel where
	//the workers will listen for them.
	go func() {
		for rows.Next() {
			var theRow sceneRow
			scanErr := rows.Scan(&theRow.productID, &theRow.url)
			if scanErr != nil {
				log.Printf("Failure reading row.")
				continue
			}

			scenesQueue <- &theRow
		}
		close(scenesQueue)
		log.Printf("Sql rows done.")
	}()

	//Read the responses and write them into the database.
	for corners := range responseQueue {
		if corners.metadata == nil {
			//The worker could not fetch this scene's MTL. Leave the row for
			//the next run.
			continue
		}
		updateCorners(updateStmt, corners)
	}

	log.Printf("Done")
	return nil
}

func updateCorners(stmt *sql.Stmt, scene *sceneCorners) {
	ring := scene.metadata.Bounds.Coordinates[0]
	_, err := stmt.Exec(scene.productID,
		ring[0][0], ring[0][1],
		ring[1][0], ring[1][1],
		ring[2][0], ring[2][1],
		ring[3][0], ring[3][1],
	)
	if err != nil {
		log.Printf("Error updating corners for %v.", scene.productID)
	}
}

func downloadWorker(scenesChan chan *sceneRow, responseChan chan *sceneCorners, completeChan chan bool) {
	for scene := range scenesChan {
		result := sceneCorners{
			productID: scene.productID,
		}

		var err error
		result.metadata, err = landsat.GetSceneMetadata(scene.productID, scene.url)
		if err != nil {
			log.Printf("Error getting metadata for %v.", scene.productID)
		}

		responseChan <- &result
	}
	completeChan <- true
}
