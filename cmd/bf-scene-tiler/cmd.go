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
	cli "gopkg.in/urfave/cli.v1"

	"github.com/venicegeo/bf-scene-tiler/util"
)

var commands = cli.Commands{
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the bf-scene-tiler webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the Tiler CLI",
		Action:  versionAction,
	},
	cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Update the scene catalog from the latest scene list on a schedule",
		Action:  ingestScheduleAction,
	},
	cli.Command{
		Name:   "ingest_once",
		Usage:  "Update the scene catalog from the latest scene list a single time",
		Action: ingestOnceAction,
	},
	cli.Command{
		Name:   "backfill_corners",
		Usage:  "Populate missing scene corner geometry from MTL metadata",
		Action: backfillCornersAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update database schema",
		Action:  migrateDatabaseAction,
	},
	cli.Command{
		Name:    "render",
		Aliases: []string{"r"},
		Usage:   "Render a scene window to a PNG file, no catalog database needed",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "scene", Usage: "scene folder URL or local directory (required)"},
			cli.StringFlag{Name: "id", Usage: "LandSat product ID (required)"},
			cli.StringFlag{Name: "composite", Value: "truecolor", Usage: "composite or index preset to render"},
			cli.StringFlag{Name: "bbox", Usage: "window to render as x1,y1,x2,y2 (default: the whole scene)"},
			cli.IntFlag{Name: "width", Value: 1024, Usage: "output width in pixels"},
			cli.IntFlag{Name: "height", Usage: "output height in pixels (default: keep the window's aspect)"},
			cli.Float64Flag{Name: "nodata", Value: util.DefaultNoDataValue, Usage: "sensor no-data sentinel"},
			cli.StringFlag{Name: "out, o", Value: "scene.png", Usage: "output file path"},
		},
		Action: renderAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "bf-scene-tiler"
	app.Usage = "Launch a bf-scene-tiler process"
	app.Commands = commands
	return
}
