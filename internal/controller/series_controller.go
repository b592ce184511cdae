package controller

import (
	"strconv"

	"league_stats/internal/scoresheet"
	"league_stats/internal/service"
	"league_stats/internal/util"

	"github.com/gin-gonic/gin"
)

type SeriesController struct {
	Service *service.SeriesService
}

func NewSeriesController(s *service.SeriesService) *SeriesController {
	return &SeriesController{Service: s}
}

func (c *SeriesController) order(ctx *gin.Context) (scoresheet.QuestionOrder, bool) {
	order, err := c.Service.Order(ctx.Query("order"))
	if err != nil {
		util.HandleError(ctx, err)
		return "", false
	}
	return order, true
}

// @Summary 赛事系列列表
// @Tags 赛事系列
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Series}
// @Router /series [get]
func (c *SeriesController) List(ctx *gin.Context) {
	util.Success(ctx, c.Service.List())
}

// @Summary 赛事系列详情
// @Tags 赛事系列
// @Produce json
// @Param slug path string true "系列标识"
// @Success 200 {object} util.Response{data=model.Series}
// @Failure 404 {object} util.Response
// @Router /series/{slug} [get]
func (c *SeriesController) Get(ctx *gin.Context) {
	series, err := c.Service.Get(ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, series)
}

// @Summary 轮次列表
// @Description 按轮次号排序，附带每轮的比赛、选手与记录数
// @Tags 赛事系列
// @Produce json
// @Param slug path string true "系列标识"
// @Success 200 {object} util.Response{data=[]model.RoundSummary}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /series/{slug}/rounds [get]
func (c *SeriesController) Rounds(ctx *gin.Context) {
	rounds, err := c.Service.Rounds(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rounds)
}

// @Summary 答题记录（长表）
// @Tags 赛事系列
// @Produce json
// @Param slug path string true "系列标识"
// @Param round query string false "轮次号"
// @Success 200 {object} util.Response{data=[]scoresheet.Answer}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /series/{slug}/answers [get]
func (c *SeriesController) Answers(ctx *gin.Context) {
	answers, err := c.Service.Answers(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

// @Summary 按主题统计
// @Tags 统计
// @Produce json
// @Param slug path string true "系列标识"
// @Param round query string false "轮次号"
// @Param order query string false "问题排序" Enums(lexicographic, numeric)
// @Success 200 {object} util.Response{data=[]scoresheet.TopicStats}
// @Router /series/{slug}/topics [get]
func (c *SeriesController) Topics(ctx *gin.Context) {
	order, ok := c.order(ctx)
	if !ok {
		return
	}
	topics, err := c.Service.Topics(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// @Summary 按比赛统计
// @Description 每场比赛的选手总分、作答矩阵与累计得分
// @Tags 统计
// @Produce json
// @Param slug path string true "系列标识"
// @Param round query string false "轮次号"
// @Param order query string false "问题排序" Enums(lexicographic, numeric)
// @Success 200 {object} util.Response{data=[]scoresheet.GameStats}
// @Router /series/{slug}/games [get]
func (c *SeriesController) Games(ctx *gin.Context) {
	order, ok := c.order(ctx)
	if !ok {
		return
	}
	games, err := c.Service.Games(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, games)
}

// @Summary 单场比赛统计
// @Tags 统计
// @Produce json
// @Param slug path string true "系列标识"
// @Param game path string true "比赛名"
// @Param round query string false "轮次号"
// @Param order query string false "问题排序" Enums(lexicographic, numeric)
// @Success 200 {object} util.Response{data=scoresheet.GameStats}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /series/{slug}/games/{game} [get]
func (c *SeriesController) Game(ctx *gin.Context) {
	order, ok := c.order(ctx)
	if !ok {
		return
	}
	game, err := c.Service.Game(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), ctx.Param("game"), order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// @Summary 分组合计与人均
// @Tags 统计
// @Produce json
// @Param slug path string true "系列标识"
// @Param by query string false "分组字段，逗号分隔" default(round)
// @Param round query string false "轮次号"
// @Success 200 {object} util.Response{data=[]scoresheet.TotalsStats}
// @Failure 400 {object} util.Response
// @Router /series/{slug}/totals [get]
func (c *SeriesController) Totals(ctx *gin.Context) {
	keys, err := scoresheet.ParseSplitKeys(ctx.DefaultQuery("by", string(scoresheet.SplitRound)))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	totals, err := c.Service.Totals(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), keys)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, totals)
}

// @Summary 柱状图数据
// @Tags 图表
// @Produce json
// @Param slug path string true "系列标识"
// @Param topic query int true "主题号"
// @Param round query string false "轮次号"
// @Success 200 {object} util.Response{data=model.BarProjection}
// @Router /series/{slug}/projections/bar [get]
func (c *SeriesController) BarProjection(ctx *gin.Context) {
	topic, err := strconv.Atoi(ctx.Query("topic"))
	if err != nil {
		util.BadRequest(ctx, "topic must be an integer")
		return
	}
	order, ok := c.order(ctx)
	if !ok {
		return
	}
	p, err := c.Service.BarProjection(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), topic, order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 累计得分曲线数据
// @Tags 图表
// @Produce json
// @Param slug path string true "系列标识"
// @Param game query string true "比赛名"
// @Param round query string false "轮次号"
// @Success 200 {object} util.Response{data=model.LineProjection}
// @Router /series/{slug}/projections/line [get]
func (c *SeriesController) LineProjection(ctx *gin.Context) {
	game := ctx.Query("game")
	if game == "" {
		util.BadRequest(ctx, "game is required")
		return
	}
	order, ok := c.order(ctx)
	if !ok {
		return
	}
	p, err := c.Service.LineProjection(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"), game, order)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// @Summary 得分/失分散点数据
// @Tags 图表
// @Produce json
// @Param slug path string true "系列标识"
// @Param round query string false "轮次号"
// @Success 200 {object} util.Response{data=[]scoresheet.ScatterPoint}
// @Router /series/{slug}/projections/scatter [get]
func (c *SeriesController) ScatterProjection(ctx *gin.Context) {
	points, err := c.Service.ScatterProjection(ctx.Request.Context(), ctx.Param("slug"), ctx.Query("round"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, points)
}
