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

package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-scene-tiler/tileserver"
	"github.com/venicegeo/bf-scene-tiler/util"
)

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

func createRouter(ctx util.LogContext) (*mux.Router, error) {
	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("Hi"))
	})

	// The tile and preview handlers share one renderer so they also share
	// its band and tile caches.
	bandSource := tileserver.NewHTTPBandSource(util.GetBandCacheBands())
	renderer := tileserver.NewRenderer(bandSource, util.GetSceneNoDataValue(), util.GetTileCacheTiles(), util.GetRenderConcurrency())

	if discoverHandler, err := tileserver.NewDiscoverHandler(getDbConnectionFunc); err == nil {
		router.Handle("/discover/landsat", discoverHandler)
	} else {
		return nil, err
	}

	if metadataHandler, err := tileserver.NewMetadataHandler(getDbConnectionFunc); err == nil {
		router.Handle("/landsat/{id}", metadataHandler)
	} else {
		return nil, err
	}

	if tileHandler, err := tileserver.NewXYZTileHandler(getDbConnectionFunc, renderer); err == nil {
		router.Handle("/tiles/landsat/{id}/{z}/{x}/{y}.png", tileHandler)
	} else {
		return nil, err
	}

	if previewHandler, err := tileserver.NewPreviewHandler(getDbConnectionFunc, renderer); err == nil {
		router.Handle("/preview/landsat/{id}.png", previewHandler)
	} else {
		return nil, err
	}

	router.Handle("/composites", tileserver.NewCompositesHandler())

	return router, nil
}

func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})

	portStr := getPortStr()

	if router, err := createRouter(logContext); err == nil {
		launchServerFunc(portStr, router)
	} else {
		util.LogSimpleErr(logContext, "Failed to create router: ", err)
	}
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
