package app

import (
	"league_stats/docs"
	"league_stats/internal/middleware"
	"league_stats/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	api := router.Group("/api")
	a.registerPublicRoutes(api, c)
	a.registerAdminRoutes(api, c)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/series", c.series.List)
	api.POST("/transform", c.transform.Transform)

	series := api.Group("/series/:slug")
	{
		series.GET("", c.series.Get)
		series.GET("/rounds", c.series.Rounds)
		series.GET("/answers", c.series.Answers)
		series.GET("/topics", c.series.Topics)
		series.GET("/games", c.series.Games)
		series.GET("/games/:game", c.series.Game)
		series.GET("/totals", c.series.Totals)

		series.GET("/projections/bar", c.series.BarProjection)
		series.GET("/projections/line", c.series.LineProjection)
		series.GET("/projections/scatter", c.series.ScatterProjection)

		// :topic / :game 带 .png 后缀，由控制器去掉
		series.GET("/charts/topics/:topic", c.chart.Topic)
		series.GET("/charts/games/:game", c.chart.Game)
		series.GET("/charts/scatter.png", c.chart.Scatter)
	}
}

func (a *App) registerAdminRoutes(api *gin.RouterGroup, c *controllers) {
	secret := func() string { return a.currentConfig().JWT.Secret }

	admin := api.Group("/admin", middleware.AdminAuth(secret)...)
	{
		admin.POST("/cache/invalidate", c.admin.InvalidateCache)
		admin.POST("/series/:slug/refresh", c.admin.RefreshSeries)
		admin.PUT("/series/:slug/rounds/:round", c.admin.PutRound)
		admin.DELETE("/series/:slug/rounds/:round", c.admin.DeleteRound)
	}
}
