package controller

import (
	"league_stats/internal/service"
	"league_stats/internal/util"
	"league_stats/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Series  *service.SeriesService
	Refresh *service.RefreshService
}

func NewAdminController(series *service.SeriesService, refresh *service.RefreshService) *AdminController {
	return &AdminController{Series: series, Refresh: refresh}
}

func actor(ctx *gin.Context) string {
	if user := util.GetUserFromContext(ctx); user != nil {
		return user.Subject
	}
	return ""
}

// @Summary 清除缓存
// @Description series 为空时清除全部缓存
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param series query string false "系列标识"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /admin/cache/invalidate [post]
func (c *AdminController) InvalidateCache(ctx *gin.Context) {
	slug := ctx.Query("series")
	if err := c.Series.Invalidate(ctx.Request.Context(), slug); err != nil {
		util.HandleError(ctx, err)
		return
	}
	logger.Log.Info("Cache invalidated by admin", zap.String("series", slug), zap.String("by", actor(ctx)))
	util.Success(ctx, gin.H{"series": slug})
}

// @Summary 立即刷新系列
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "系列标识"
// @Success 200 {object} util.Response{data=model.RefreshResult}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /admin/series/{slug}/refresh [post]
func (c *AdminController) RefreshSeries(ctx *gin.Context) {
	res, err := c.Series.Refresh(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"result":       res,
		"next_refresh": c.Refresh.Next(res.Series),
	})
}

// @Summary 上传一轮表格
// @Description 转换校验通过后写入系列存储目录，文件名为 <round>.csv
// @Tags 管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "系列标识"
// @Param round path string true "轮次号"
// @Param file formData file true "CSV 文件"
// @Success 201 {object} util.Response{data=model.RoundFile}
// @Failure 409 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /admin/series/{slug}/rounds/{round} [put]
func (c *AdminController) PutRound(ctx *gin.Context) {
	data, err := readUpload(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	file, err := c.Series.PutRound(ctx.Request.Context(), ctx.Param("slug"), ctx.Param("round"), data)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	logger.Log.Info("Round uploaded",
		zap.String("series", ctx.Param("slug")),
		zap.String("round", file.Round),
		zap.String("by", actor(ctx)))
	util.Created(ctx, file)
}

// @Summary 删除一轮表格
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "系列标识"
// @Param round path string true "轮次号"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /admin/series/{slug}/rounds/{round} [delete]
func (c *AdminController) DeleteRound(ctx *gin.Context) {
	if err := c.Series.DeleteRound(ctx.Request.Context(), ctx.Param("slug"), ctx.Param("round")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	logger.Log.Info("Round deleted",
		zap.String("series", ctx.Param("slug")),
		zap.String("round", ctx.Param("round")),
		zap.String("by", actor(ctx)))
	util.Success(ctx, nil)
}
