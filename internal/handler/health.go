package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @Summary      Health check
// @Description  Returns service health and the count of active upstream providers
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	active := 0
	for _, on := range h.agg.ProviderStatus() {
		if on {
			active++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"service":          "tickerhub",
		"active_providers": active,
	})
}
