package main

import (
	"log"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-scene-tiler/catalog"
	"github.com/venicegeo/bf-scene-tiler/util"
)

const cornerBackfillWorkers = 10

func backfillCornersAction(*cli.Context) {
	conn, err := getDbConnectionFunc(&util.BasicLogContext{})
	if err != nil {
		log.Fatal("Error opening db connection.")
	}
	defer conn.Close()

	if err = catalog.BackfillSceneCorners(conn, cornerBackfillWorkers); err != nil {
		log.Fatal("Error backfilling scene corners: " + err.Error())
	}

	log.Printf("Done")
}
