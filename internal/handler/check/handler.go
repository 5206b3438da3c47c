package check

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/TomasB/redblock/internal/data"
	"github.com/TomasB/redblock/internal/stats"
	"github.com/gin-gonic/gin"
)

// TestResponse represents the JSON response for an address test.
type TestResponse struct {
	Blocked bool   `json:"blocked"`
	Error   string `json:"error,omitempty"`
}

// Handler manages address test endpoints.
type Handler struct {
	lookup   data.BlockLookup
	counters *stats.Counters
}

// NewHandler creates a new check handler. counters may be nil.
func NewHandler(lookup data.BlockLookup, counters *stats.Counters) *Handler {
	return &Handler{lookup: lookup, counters: counters}
}

// Test handles GET /test?ip=
func (h *Handler) Test(c *gin.Context) {
	ip, err := data.ParseQuery(c.Query("ip"))
	if err != nil {
		msg := "invalid ip"
		if errors.Is(err, data.ErrMissingIP) {
			msg = "missing ?ip="
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	blocked, err := h.lookup.Blocked(ip)
	if err != nil {
		slog.Error("block lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	if h.counters != nil {
		h.counters.Record(blocked)
	}

	c.JSON(http.StatusOK, TestResponse{Blocked: blocked})
}
