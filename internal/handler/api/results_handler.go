package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawtally/pawtally/internal/domain"
	"github.com/pawtally/pawtally/pkg/logger"
	"github.com/pawtally/pawtally/pkg/xresponse"
)

// ResultsHandler serves the read-only tally view
type ResultsHandler struct {
	tallies domain.TallyReader
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(tallies domain.TallyReader) *ResultsHandler {
	return &ResultsHandler{tallies: tallies}
}

// Results returns the current count for every option in the closed set.
// Options with no persisted row report zero.
func (h *ResultsHandler) Results(c *gin.Context) {
	rows, err := h.tallies.Counts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read tally counts", logger.ErrorField(err))
		xresponse.InternalServerError(c, "failed to read tally counts")
		return
	}

	counts := make(map[domain.Option]int64, len(rows))
	for _, row := range rows {
		counts[row.Option] = row.Count
	}

	tally := make([]domain.Tally, 0, len(domain.Options()))
	for _, option := range domain.Options() {
		tally = append(tally, domain.Tally{Option: option, Count: counts[option]})
	}

	xresponse.Success(c, "Current tally", gin.H{
		"tally": tally,
	})
}

// Health pings the persisted store and reports connectivity
func (h *ResultsHandler) Health(c *gin.Context) {
	if err := h.tallies.Ping(c.Request.Context()); err != nil {
		logger.Error("Database health check failed", logger.ErrorField(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
