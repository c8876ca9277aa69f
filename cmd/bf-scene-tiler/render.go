package main

import (
	"context"
	"image/png"
	"io/ioutil"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/landsat"
	"github.com/venicegeo/bf-scene-tiler/raster"
	"github.com/venicegeo/bf-scene-tiler/tileserver"
	"github.com/venicegeo/bf-scene-tiler/util"
)

//renderAction renders one scene window straight to a PNG file, reading the
//scene footprint from the MTL file alongside the bands.
func renderAction(c *cli.Context) {
	sceneFolder := c.String("scene")
	sceneID := c.String("id")
	if sceneFolder == "" || sceneID == "" {
		log.Fatal("Both --scene and --id are required.")
	}

	metadata, err := loadSceneMetadata(sceneID, sceneFolder)
	if err != nil {
		log.Fatal("Error reading scene MTL metadata: " + err.Error())
	}

	scene := &catalog.Scene{
		ProductID:      sceneID,
		CloudCover:     metadata.CloudCover,
		SceneURLString: sceneFolder,
		Bounds:         metadata.Bounds,
	}

	window := scene.Envelope()
	if bboxStr := c.String("bbox"); bboxStr != "" {
		bbox, bboxErr := geojson.NewBoundingBox(bboxStr)
		if bboxErr != nil || len(bbox) != 4 {
			log.Fatalf("The bbox value of %v is invalid", bboxStr)
		}
		window = raster.Bounds{MinX: bbox[0], MinY: bbox[1], MaxX: bbox[2], MaxY: bbox[3]}
	}
	if window.Width() <= 0 || window.Height() <= 0 {
		log.Fatal("The render window is empty.")
	}

	width := c.Int("width")
	if width <= 0 {
		log.Fatal("--width must be positive.")
	}
	height := c.Int("height")
	if height <= 0 {
		height = int(math.Round(float64(width) * window.Height() / window.Width()))
		if height < 1 {
			height = 1
		}
	}

	bandSource := tileserver.NewHTTPBandSource(util.GetBandCacheBands())
	renderer := tileserver.NewRenderer(bandSource, c.Float64("nodata"), 1, util.GetRenderConcurrency())

	img, err := renderer.RenderPreview(context.Background(), scene, c.String("composite"), window, width, height)
	if err != nil {
		log.Fatal("Error rendering scene: " + err.Error())
	}

	outPath := c.String("out")
	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatal("Error creating output file: " + err.Error())
	}
	defer outFile.Close()

	if err = png.Encode(outFile, img); err != nil {
		log.Fatal("Error writing PNG: " + err.Error())
	}

	log.Printf("Wrote %dx%d %s render of %s to %s", width, height, c.String("composite"), sceneID, outPath)
}

//loadSceneMetadata reads the scene's MTL file from either a scene folder URL
//or a local directory.
func loadSceneMetadata(sceneID, sceneFolder string) (*landsat.SceneMetadata, error) {
	if strings.HasPrefix(sceneFolder, "http://") || strings.HasPrefix(sceneFolder, "https://") {
		return landsat.GetSceneMetadata(sceneID, sceneFolder)
	}

	mtlJSON, err := ioutil.ReadFile(filepath.Join(filepath.Clean(sceneFolder), landsat.MTLFileName(sceneID)))
	if err != nil {
		return nil, err
	}
	return landsat.ParseSceneMetadata(mtlJSON)
}
