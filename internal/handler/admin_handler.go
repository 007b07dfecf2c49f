package handler

import (
	"net/http"

	"Thread_of_Hope/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	base
	stats *service.StatsService
}

func NewAdminHandler(stats *service.StatsService, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{base: base{log: log}, stats: stats}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	d, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch stats")
		return
	}
	okData(c, d)
}

// Health 数据库不可用时返回 500，但仍带上快照
func (h *AdminHandler) Health(c *gin.Context) {
	snap := h.stats.Health(c.Request.Context())
	if !snap.Healthy() {
		h.log.WithError(snap.Err()).Error("health check failed")
		c.JSON(http.StatusInternalServerError, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}
