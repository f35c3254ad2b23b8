package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse reports liveness and graph store reachability.
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp"`
	Store     string    `json:"store" example:"ok"`
}

// Health godoc
// @Summary      Health check
// @Description  Pings the graph store. Responds 503 when it is unreachable.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Timestamp: time.Now().UTC(), Store: "ok"}

	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		resp.Status = "unavailable"
		resp.Store = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
