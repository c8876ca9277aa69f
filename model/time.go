package model

import (
	"fmt"
	"time"
)

// Scene acquisition datetimes arrive in several shapes depending on the source:
// the USGS scene list CSV uses a space-separated layout with microseconds, MTL
// metadata files use RFC 3339, and some sources drop the time component
// entirely. Thus, we need lenient "multi-format" parsing functionality,
// implemented here.

var sceneTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSceneTime is a drop-in replacement for time.Parse, but matching against multiple possible scene datetime formats
func ParseSceneTime(sceneTime string) (time.Time, error) {
	for _, layout := range sceneTimeLayouts {
		if output, err := time.Parse(layout, sceneTime); err == nil {
			return output, nil
		}
	}
	return time.Time{}, fmt.Errorf("Date could not be parsed by any expected time format: `%s`", sceneTime)
}
