package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/util"

	_ "github.com/lib/pq"
	cli "gopkg.in/urfave/cli.v1"
)

const ingestFrequencyEnv = "LANDSAT_INGEST_FREQUENCY"
const defaultIngestFrequency = 24 * time.Hour

// sceneListPath is where USGS publishes the Collection 1 scene list within
// the LandSat archive host.
const sceneListPath = "/c1/L8/scene_list.gz"

//getScenesURL resolves the scene list location, preferring an explicit URL
//and falling back to the conventional path on the LandSat host.
func getScenesURL() string {
	if scenesURL := os.Getenv(util.LANDSAT_INDEX_SCENES_URL); scenesURL != "" {
		return scenesURL
	}
	landSatHost := util.GetLandsatHost()
	if landSatHost == "" {
		return ""
	}
	return strings.TrimSuffix(landSatHost, "/") + sceneListPath
}

func newImporterFromEnv() *catalog.Importer {
	scenesURL := getScenesURL()
	if scenesURL == "" {
		log.Fatal("No scene list configured; set LANDSAT_INDEX_SCENES_URL or LANDSAT_HOST.")
	}
	scenesIsGzip := strings.HasSuffix(strings.ToLower(scenesURL), "gz")
	return catalog.NewImporter(scenesURL, scenesIsGzip, getDbConnectionFunc)
}

//ingestOnceAction calls the ingest worker a single time without scheduling.
func ingestOnceAction(*cli.Context) {
	importer := newImporterFromEnv()
	log.Println(importer.Import(nil))
}

//ingestScheduleAction starts the worker process and an http server.
func ingestScheduleAction(*cli.Context) {
	portStr := getPortStr()

	importer := newImporterFromEnv()

	//Create the channel that sends the start/stop messages to the Importer.
	messageChan := make(chan string, 5) //small buffer.

	//Start the sleep/ingest loop.
	go importer.ImportWhile(messageChan, getTimerDuration())

	//Set up an http router
	router := mux.NewRouter()
	router.HandleFunc("/ingest/", func(resp http.ResponseWriter, req *http.Request) {
		handleImportStatus(importer, resp, req)
	})
	router.HandleFunc("/ingest/start", func(resp http.ResponseWriter, req *http.Request) {
		handleForceStartIngest(importer, messageChan, resp, req)
	})
	router.HandleFunc("/ingest/cancel", func(resp http.ResponseWriter, req *http.Request) {
		handleCancel(importer, messageChan, resp, req)
	})

	log.Println("Listening on port", portStr)
	log.Fatal(http.ListenAndServe(portStr, router))
}

//handleImportStatus requests the status from the importer and writes it out.
func handleImportStatus(imp *catalog.Importer, writer http.ResponseWriter, req *http.Request) {
	fmt.Fprintln(writer, imp.GetStatus())
}

//handleForceStartIngest sends a "begin" message to the importer and returns the new status to the user.
func handleForceStartIngest(imp *catalog.Importer, messageChan chan<- string, writer http.ResponseWriter, req *http.Request) {
	select {
	case messageChan <- catalog.BeginIngestJobMessage:
		fmt.Fprintln(writer, "Begin job request submitted.")
	default:
		fmt.Fprintln(writer, "Error submitting request.")
	}
	fmt.Fprintln(writer, imp.GetStatus())
}

//handleCancel sends a "cancel" message to the importer and returns the new status to the user.
func handleCancel(imp *catalog.Importer, cancelChan chan<- string, writer http.ResponseWriter, req *http.Request) {
	select {
	case cancelChan <- catalog.AbortIngestJobMessage:
		fmt.Fprintln(writer, "Cancel request submitted.")
	default:
		fmt.Fprintln(writer, "Error submitting cancel request.")
	}
	fmt.Fprintln(writer, imp.GetStatus())
}

func getTimerDuration() time.Duration {
	duration, _ := time.ParseDuration(os.Getenv(ingestFrequencyEnv))

	if duration < (time.Minute) {
		log.Printf("Specified duration of %v is too small. Setting to default.", duration)
		duration = defaultIngestFrequency
	}

	return duration
}
