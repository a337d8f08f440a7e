package http

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/chatline/chatline-server/internal/auth"
)

// StaticHandlers serves the markup/style/script assets. The assets
// themselves are external collaborators; this only maps routes to
// files under the configured static directory.
type StaticHandlers struct {
	dir string
}

// NewStaticHandlers creates handlers serving assets from dir.
func NewStaticHandlers(dir string) *StaticHandlers {
	return &StaticHandlers{dir: dir}
}

// AuthPage serves the anonymous entry resource. GET /auth
func (h *StaticHandlers) AuthPage(c *gin.Context) {
	c.File(filepath.Join(h.dir, "auth.html"))
}

// AuthScript serves the anonymous entry script. GET /auth.js
func (h *StaticHandlers) AuthScript(c *gin.Context) {
	c.File(filepath.Join(h.dir, "auth.js"))
}

// Index serves the chat page. GET / (protected)
func (h *StaticHandlers) Index(c *gin.Context) {
	c.File(filepath.Join(h.dir, "index.html"))
}

// Style serves the stylesheet. GET /style.css (protected)
func (h *StaticHandlers) Style(c *gin.Context) {
	c.File(filepath.Join(h.dir, "style.css"))
}

// Script serves the chat page script. GET /script.js (protected)
func (h *StaticHandlers) Script(c *gin.Context) {
	c.File(filepath.Join(h.dir, "script.js"))
}

// NotFoundOrRedirect dispatches any unknown path: authenticated
// requests get a generic 404, anonymous ones are redirected to the
// entry point.
func NotFoundOrRedirect(gate *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(TokenCookieName)
		if _, err := gate.Authorize(token); err != nil {
			c.Redirect(http.StatusFound, AuthEntryPath)
			return
		}
		c.String(http.StatusNotFound, "404")
	}
}
