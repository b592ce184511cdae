package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"league_stats/internal/config"
	"league_stats/internal/controller"
	"league_stats/internal/middleware"
	"league_stats/internal/service"
	"league_stats/pkg/cache"
	"league_stats/pkg/configwatcher"
	"league_stats/pkg/logger"
	"league_stats/pkg/monitoring"
	"league_stats/pkg/security"
	"league_stats/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracer          *sdktrace.TracerProvider

	mu           sync.RWMutex
	stopWatch    context.CancelFunc
	stopDirWatch context.CancelFunc
}

type services struct {
	storage service.StorageProvider
	cache   *service.CacheService
	sources *service.SourceService
	series  *service.SeriesService
	charts  *service.ChartService
	refresh *service.RefreshService
}

type controllers struct {
	series    *controller.SeriesController
	chart     *controller.ChartController
	transform *controller.TransformController
	admin     *controller.AdminController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// currentConfig 热加载后读取最新配置
func (a *App) currentConfig() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Config
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.Config = cfg
	a.mu.Unlock()

	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initServices(cfg *config.Config, rdb *redis.Client) *services {
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	var store service.CacheStore = service.NewMemoryStore()
	if rdb != nil {
		store = &service.RedisStore{Client: rdb}
	}
	cacheService := service.NewCacheService(store, cfg.Cache.Prefix)

	httpSource := service.NewHTTPSource(cfg.Storage.HTTPTimeout, cacheService, cfg.Cache.SourceTTL)
	sources := service.NewSourceService(storage, httpSource)
	series := service.NewSeriesService(cfg, sources, cacheService)

	return &services{
		storage: storage,
		cache:   cacheService,
		sources: sources,
		series:  series,
		charts:  service.NewChartService(),
		refresh: service.NewRefreshService(series),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		series:    controller.NewSeriesController(s.series),
		chart:     controller.NewChartController(s.series, s.charts),
		transform: controller.NewTransformController(s.series),
		admin:     controller.NewAdminController(s.series, s.refresh),
		health:    controller.NewHealthController(s.cache, s.series),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// localSeriesDirs 本地存储时各系列目录与 slug 的对应关系
func (a *App) localSeriesDirs(cfg *config.Config) map[string]string {
	local, ok := a.services.storage.(*service.LocalStorageProvider)
	if !ok {
		return nil
	}
	dirs := make(map[string]string)
	for _, s := range cfg.Series {
		if s.Source != config.SourceStorage {
			continue
		}
		abs, err := filepath.Abs(local.Dir(s.Prefix))
		if err != nil {
			continue
		}
		dirs[abs] = s.Slug
	}
	return dirs
}

// watchSeriesDirs 本地目录中的表格变化后清除对应系列的快照
func (a *App) watchSeriesDirs(cfg *config.Config) {
	dirs := a.localSeriesDirs(cfg)

	a.mu.Lock()
	if a.stopDirWatch != nil {
		a.stopDirWatch()
		a.stopDirWatch = nil
	}
	if len(dirs) == 0 {
		a.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.stopDirWatch = cancel
	a.mu.Unlock()

	paths := make([]string, 0, len(dirs))
	for dir := range dirs {
		paths = append(paths, dir)
	}

	go func() {
		err := configwatcher.Watch(ctx, paths, 500*time.Millisecond, func(changed []string) {
			touched := make(map[string]bool)
			for _, name := range changed {
				if slug, ok := dirs[filepath.Dir(name)]; ok && strings.HasSuffix(name, ".csv") {
					touched[slug] = true
				}
			}
			for slug := range touched {
				if err := a.services.series.Invalidate(context.Background(), slug); err != nil {
					logger.Log.Warn("Invalidate after file change failed", zap.String("series", slug), zap.Error(err))
				}
			}
		})
		if err != nil {
			logger.Log.Error("Series directory watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) startBackgroundTasks(cfg *config.Config) {
	s := a.services

	n := s.refresh.Schedule(cfg.Series)
	s.refresh.Start()
	logger.Log.Info("Refresh scheduler started", zap.Int("jobs", n))

	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.series.UpdateConfig(cfg)
		s.refresh.Schedule(cfg.Series)
		a.watchSeriesDirs(cfg)
	})
	a.watchSeriesDirs(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go func() {
		if err := configwatcher.WatchConfig(ctx, cfg.Dir, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	var rdb *redis.Client
	if cfg.Cache.Backend == "redis" {
		var err error
		rdb, err = cache.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		Redis:  rdb,
	}

	app.services = app.initServices(cfg, rdb)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers)
	app.startBackgroundTasks(cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 停止文件监听和定时刷新
	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.mu.Lock()
	if a.stopDirWatch != nil {
		a.stopDirWatch()
	}
	a.mu.Unlock()
	<-a.services.refresh.Stop().Done()

	// 关闭服务
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
