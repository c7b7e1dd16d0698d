package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pawtally/pawtally/pkg/logger"
)

// SetupVoteRoutes configures the vote intake routes
func SetupVoteRoutes(router *gin.Engine, voteHandler *VoteHandler) {
	router.SetHTMLTemplate(IndexTemplate)

	router.GET("/", voteHandler.Index)
	router.GET("/health", voteHandler.Health)
	router.POST("/vote", voteHandler.CastVote)

	logger.Info("Vote intake routes configured")
}

// SetupResultsRoutes configures the results service routes
func SetupResultsRoutes(router *gin.Engine, resultsHandler *ResultsHandler) {
	router.GET("/results", resultsHandler.Results)
	router.GET("/health", resultsHandler.Health)

	logger.Info("Results routes configured")
}
