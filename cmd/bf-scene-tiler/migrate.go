package main

import (
	"log"

	"github.com/pressly/goose"
	cli "gopkg.in/urfave/cli.v1"

	_ "github.com/venicegeo/bf-scene-tiler/migrations"
	"github.com/venicegeo/bf-scene-tiler/util"
)

func migrateDatabaseAction(*cli.Context) {
	database, err := getDbConnectionFunc(&util.BasicLogContext{})
	if err != nil {
		log.Fatal("Could not open database connection.")
	}
	defer database.Close()

	if err = goose.Run("up", database, "."); err != nil {
		log.Fatal("Migration failed: ", err)
	}
}
