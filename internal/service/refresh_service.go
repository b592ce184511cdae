package service

import (
	"context"
	"sync"
	"time"

	"league_stats/internal/config"
	"league_stats/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// 单次定时刷新的超时时间
const refreshTimeout = 2 * time.Minute

// Refresher 定时任务需要的最小接口
type Refresher interface {
	Refresh(ctx context.Context, slug string) error
}

type seriesRefresher struct {
	series *SeriesService
}

func (r seriesRefresher) Refresh(ctx context.Context, slug string) error {
	_, err := r.series.Refresh(ctx, slug)
	return err
}

// RefreshService 按系列配置的 cron 表达式定时重新加载，预热缓存
type RefreshService struct {
	mu        sync.Mutex
	cron      *cron.Cron
	refresher Refresher
	entries   map[string]cron.EntryID
}

func NewRefreshService(series *SeriesService) *RefreshService {
	return newRefreshService(seriesRefresher{series: series})
}

func newRefreshService(r Refresher) *RefreshService {
	return &RefreshService{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		refresher: r,
		entries:   make(map[string]cron.EntryID),
	}
}

// Schedule 用新的系列列表替换全部定时任务，返回成功注册的数量
func (s *RefreshService) Schedule(series []config.SeriesConfig) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slug, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, slug)
	}

	for _, sc := range series {
		if sc.RefreshCron == "" {
			continue
		}
		slug := sc.Slug
		id, err := s.cron.AddFunc(sc.RefreshCron, func() { s.run(slug) })
		if err != nil {
			logger.Log.Error("Invalid refresh schedule",
				zap.String("series", slug),
				zap.String("cron", sc.RefreshCron),
				zap.Error(err))
			continue
		}
		s.entries[slug] = id
		logger.Log.Info("Refresh scheduled", zap.String("series", slug), zap.String("cron", sc.RefreshCron))
	}
	return len(s.entries)
}

func (s *RefreshService) run(slug string) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(ctx, slug); err != nil {
		logger.Log.Error("Scheduled refresh failed", zap.String("series", slug), zap.Error(err))
		return
	}
	logger.Log.Info("Scheduled refresh done", zap.String("series", slug), zap.Duration("took", time.Since(start)))
}

// Next 下次执行时间，未注册时返回零值
func (s *RefreshService) Next(slug string) time.Time {
	s.mu.Lock()
	id, ok := s.entries[slug]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func (s *RefreshService) Start() {
	s.cron.Start()
}

// Stop 等待正在执行的任务结束
func (s *RefreshService) Stop() context.Context {
	return s.cron.Stop()
}
