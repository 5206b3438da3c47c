package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Index is the part of the served index the probes look at.
type Index interface {
	Ready() bool
	Len() int
}

// Handler serves the liveness and readiness probes.
type Handler struct {
	index Index
}

// NewHandler creates a new health handler. A nil index is always ready.
func NewHandler(index Index) *Handler {
	return &Handler{index: index}
}

// Health reports that the process is up.
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether an index is installed and how many entries it holds.
// An empty index is ready: a missing block list blocks nothing.
// GET /ready
func (h *Handler) Ready(c *gin.Context) {
	if h.index == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}
	if !h.index.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "index not loaded",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"entries": h.index.Len(),
	})
}
