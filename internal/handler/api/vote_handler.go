package api

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawtally/pawtally/internal/domain"
	"github.com/pawtally/pawtally/pkg/logger"
	"github.com/pawtally/pawtally/pkg/metrics"
)

// VoteHandler handles vote intake HTTP requests
type VoteHandler struct {
	queue domain.BallotQueue
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(queue domain.BallotQueue) *VoteHandler {
	return &VoteHandler{queue: queue}
}

const indexHTML = `<!doctype html>
<title>Voting App</title>
<h1>Cast your vote</h1>
<form method="post" action="/vote">
{{- range .Options }}
  <button name="vote" value="{{ .String }}">{{ .Label }}</button>
{{- end }}
</form>
<p><a href="/health">health</a> | <a href="/">home</a></p>
`

// IndexTemplate is the voting form. Parsed once at startup; the option set
// is closed, so the rendered output never varies.
var IndexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Index renders the static voting form
func (h *VoteHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"Options": domain.Options(),
	})
}

// Health pings the queue store and reports connectivity
func (h *VoteHandler) Health(c *gin.Context) {
	if err := h.queue.Ping(c.Request.Context()); err != nil {
		logger.Error("Queue health check failed", logger.ErrorField(err))
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

// CastVote validates the submitted option and pushes it onto the queue.
// Valid and invalid submissions both redirect back to the form; the client
// cannot tell a rejected vote from an accepted one.
func (h *VoteHandler) CastVote(c *gin.Context) {
	raw := c.PostForm("vote")

	option, ok := domain.ParseOption(raw)
	if !ok {
		metrics.RecordVoteRejected()
		logger.Debug("Rejected vote outside option set", logger.String("vote", raw))
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := h.queue.Push(c.Request.Context(), option); err != nil {
		// Never redirect as if the vote were accepted when the push failed
		logger.Error("Failed to enqueue vote",
			logger.String("option", option.String()),
			logger.ErrorField(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"detail": "failed to enqueue vote",
		})
		return
	}

	metrics.RecordVoteAccepted(option.String())
	c.Redirect(http.StatusFound, "/")
}
