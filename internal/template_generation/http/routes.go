package http

import "github.com/gin-gonic/gin"

// Register mounts the template routes on rg, normally /api/v1/templates.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/resolve", h.Resolve)
	rg.POST("/generate", h.rateLimit(), h.Generate)
	rg.POST("/review", h.Review)
	rg.GET("/runs/:id", h.GetRun)
	rg.GET("/runs/:id/events", h.StreamRunEvents)
	rg.GET("/runs/:id/reports", h.GetReports)
	rg.GET("/metrics", h.Metrics)
}
