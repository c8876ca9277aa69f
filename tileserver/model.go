package tileserver

import (
	"database/sql"

	"github.com/venicegeo/bf-scene-tiler/util"
)

// Context is the context for a tile server operation
type Context struct {
	DB        *sql.DB
	BaseURL   string
	Renderer  *Renderer
	sessionID string
}

// AppName returns the name of the service
func (c *Context) AppName() string {
	return "bf-scene-tiler"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// LogRootDir returns an empty string
func (c *Context) LogRootDir() string {
	return ""
}
