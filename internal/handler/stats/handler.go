package stats

import (
	"fmt"
	"net/http"

	"github.com/TomasB/redblock/internal/stats"
	"github.com/gin-gonic/gin"
)

// Handler serves the request counters.
type Handler struct {
	counters    *stats.Counters
	redirectURL string
}

// NewHandler creates a new stats handler. redirectURL is where the root
// path sends visitors.
func NewHandler(counters *stats.Counters, redirectURL string) *Handler {
	return &Handler{counters: counters, redirectURL: redirectURL}
}

// Stats writes the counters as plain text.
// GET /stats
func (h *Handler) Stats(c *gin.Context) {
	s := h.counters.Snapshot()
	c.String(http.StatusOK, fmt.Sprintf("Requests: %d\nBlocks: %d\nPasses: %d\n", s.Requests, s.Blocks, s.Passes))
}

// Root redirects to the project page.
// GET /
func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.redirectURL)
}
