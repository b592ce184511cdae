package controller

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"league_stats/internal/service"
	"league_stats/internal/util"

	"github.com/gin-gonic/gin"
)

type ChartController struct {
	Series *service.SeriesService
	Charts *service.ChartService
}

func NewChartController(series *service.SeriesService, charts *service.ChartService) *ChartController {
	return &ChartController{Series: series, Charts: charts}
}

func writePNG(ctx *gin.Context, buf *bytes.Buffer) {
	ctx.Header("Cache-Control", "public, max-age=60")
	ctx.Data(http.StatusOK, util.MimePNG, buf.Bytes())
}

// @Summary 主题柱状图
// @Tags 图表
// @Produce png
// @Param slug path string true "系列标识"
// @Param topic path int true "主题号"
// @Param round query string false "轮次号"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /series/{slug}/charts/topics/{topic}.png [get]
func (c *ChartController) Topic(ctx *gin.Context) {
	topic, err := strconv.Atoi(strings.TrimSuffix(ctx.Param("topic"), ".png"))
	if err != nil {
		util.BadRequest(ctx, "topic must be an integer")
		return
	}
	order, err := c.Series.Order(ctx.Query("order"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	p, err := c.Series.BarProjection(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), topic, order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := c.Charts.TopicBars(&buf, p); err != nil {
		util.HandleError(ctx, err)
		return
	}
	writePNG(ctx, &buf)
}

// @Summary 比赛累计得分曲线
// @Tags 图表
// @Produce png
// @Param slug path string true "系列标识"
// @Param game path string true "比赛名"
// @Param round query string false "轮次号"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /series/{slug}/charts/games/{game}.png [get]
func (c *ChartController) Game(ctx *gin.Context) {
	game := strings.TrimSuffix(ctx.Param("game"), ".png")
	order, err := c.Series.Order(ctx.Query("order"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	p, err := c.Series.LineProjection(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), game, order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := c.Charts.GameProgress(&buf, p); err != nil {
		util.HandleError(ctx, err)
		return
	}
	writePNG(ctx, &buf)
}

// @Summary 主题得分/失分散点图
// @Tags 图表
// @Produce png
// @Param slug path string true "系列标识"
// @Param round query string false "轮次号"
// @Success 200 {file} binary
// @Router /series/{slug}/charts/scatter.png [get]
func (c *ChartController) Scatter(ctx *gin.Context) {
	points, err := c.Series.ScatterProjection(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var buf bytes.Buffer
	if err := c.Charts.Scatter(&buf, points); err != nil {
		util.HandleError(ctx, err)
		return
	}
	writePNG(ctx, &buf)
}
