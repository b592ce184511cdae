package controller

import (
	"context"
	"net/http"
	"time"

	"league_stats/internal/service"
	"league_stats/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Cache  *service.CacheService
	Series *service.SeriesService
}

func NewHealthController(cache *service.CacheService, series *service.SeriesService) *HealthController {
	return &HealthController{Cache: cache, Series: series}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	// 检查缓存连接
	if err := c.Cache.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Cache unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"series": len(c.Series.List()),
		"components": gin.H{
			"cache": "up",
		},
	})
}
