package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"league_stats/internal/config"
	"league_stats/internal/model"
	"league_stats/internal/scoresheet"
	"league_stats/internal/util"
	"league_stats/pkg/logger"
	"league_stats/pkg/monitoring"
	"league_stats/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SeriesService 加载系列的所有轮次并提供各类统计视图
type SeriesService struct {
	mu      sync.RWMutex
	catalog []config.SeriesConfig
	order   scoresheet.QuestionOrder
	ttl     config.CacheConfig

	sources *SourceService
	cache   *CacheService
}

func NewSeriesService(cfg *config.Config, sources *SourceService, cache *CacheService) *SeriesService {
	s := &SeriesService{sources: sources, cache: cache}
	s.UpdateConfig(cfg)
	return s
}

// UpdateConfig 配置热加载时替换系列目录
func (s *SeriesService) UpdateConfig(cfg *config.Config) {
	order, err := scoresheet.ParseQuestionOrder(cfg.Scoring.QuestionOrder)
	if err != nil {
		logger.Log.Warn("Unknown question order, using default", zap.String("order", cfg.Scoring.QuestionOrder))
		order = scoresheet.OrderLexicographic
	}

	catalog := make([]config.SeriesConfig, len(cfg.Series))
	copy(catalog, cfg.Series)

	s.mu.Lock()
	s.catalog = catalog
	s.order = order
	s.ttl = cfg.Cache
	s.mu.Unlock()
}

// Order 空串返回配置中的默认排序
func (s *SeriesService) Order(raw string) (scoresheet.QuestionOrder, error) {
	if raw == "" {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.order, nil
	}
	return scoresheet.ParseQuestionOrder(raw)
}

func (s *SeriesService) cacheTTL() config.CacheConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl
}

func toModel(c config.SeriesConfig) model.Series {
	return model.Series{
		Slug:        c.Slug,
		Title:       c.Title,
		Description: c.Description,
		SheetURL:    c.SheetURL,
		Source:      c.Source,
		RefreshCron: c.RefreshCron,
	}
}

func (s *SeriesService) Catalog() []config.SeriesConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]config.SeriesConfig(nil), s.catalog...)
}

func (s *SeriesService) List() []model.Series {
	catalog := s.Catalog()
	out := make([]model.Series, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, toModel(c))
	}
	return out
}

func (s *SeriesService) Find(slug string) (config.SeriesConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.catalog {
		if c.Slug == slug {
			return c, nil
		}
	}
	return config.SeriesConfig{}, fmt.Errorf("%w: %s", util.ErrSeriesNotFound, slug)
}

func (s *SeriesService) Get(slug string) (model.Series, error) {
	c, err := s.Find(slug)
	if err != nil {
		return model.Series{}, err
	}
	return toModel(c), nil
}

func snapshotKey(slug string) string { return "series:" + slug + ":snapshot" }

// TransformBytes 解析并转换一份表格内容
func (s *SeriesService) TransformBytes(ctx context.Context, data []byte, round string) ([]scoresheet.Answer, error) {
	_, span := tracing.StartSpan(ctx, "scoresheet.Transform",
		attribute.String("round", round),
		attribute.Int("bytes", len(data)))

	table, err := scoresheet.ReadCSV(bytes.NewReader(data))
	if err == nil {
		var answers []scoresheet.Answer
		answers, err = scoresheet.Transform(table, round)
		if err == nil {
			span.SetAttributes(attribute.Int("answers", len(answers)))
			tracing.EndSpan(span, nil)
			return answers, nil
		}
	}

	if scoresheet.IsDataError(err) {
		monitoring.TransformErrors.WithLabelValues(scoresheet.ErrorKind(err)).Inc()
	}
	tracing.EndSpan(span, err)
	return nil, err
}

// transformCached 相同内容与轮次的转换结果按 SHA-256 缓存
func (s *SeriesService) transformCached(ctx context.Context, data []byte, round string) ([]scoresheet.Answer, error) {
	sum := sha256.Sum256(data)
	key := "answers:" + hex.EncodeToString(sum[:]) + ":" + round

	var answers []scoresheet.Answer
	if s.cache.GetJSON(ctx, key, &answers) {
		return answers, nil
	}

	answers, err := s.TransformBytes(ctx, data, round)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, key, answers, s.cacheTTL().AnswersTTL)
	return answers, nil
}

// Load 读取系列的所有轮次，转换后按轮次顺序拼接
func (s *SeriesService) Load(ctx context.Context, slug string) (*model.Snapshot, error) {
	series, err := s.Find(slug)
	if err != nil {
		return nil, err
	}

	var snap model.Snapshot
	if s.cache.GetJSON(ctx, snapshotKey(slug), &snap) {
		return &snap, nil
	}

	source := s.sources.Kind(series)
	ctx, span := tracing.StartSpan(ctx, "series.Load",
		attribute.String("series", slug),
		attribute.String("source", source))

	loaded, err := s.load(ctx, series)
	tracing.EndSpan(span, err)
	if err != nil {
		monitoring.SheetLoads.WithLabelValues(slug, source, "error").Inc()
		logger.Log.Warn("Series load failed", zap.String("series", slug), zap.Error(err))
		return nil, err
	}

	monitoring.SheetLoads.WithLabelValues(slug, source, "ok").Inc()
	monitoring.AnswersRows.WithLabelValues(slug).Set(float64(len(loaded.Answers)))
	logger.Log.Info("Series loaded",
		zap.String("series", slug),
		zap.Int("rounds", len(loaded.Rounds)),
		zap.Int("answers", len(loaded.Answers)))

	s.cache.SetJSON(ctx, snapshotKey(slug), loaded, s.cacheTTL().SeriesTTL)
	return loaded, nil
}

func (s *SeriesService) load(ctx context.Context, series config.SeriesConfig) (*model.Snapshot, error) {
	files, err := s.sources.Rounds(ctx, series)
	if err != nil {
		return nil, err
	}

	parts := make([][]scoresheet.Answer, 0, len(files))
	for _, f := range files {
		data, err := s.sources.Read(ctx, series, f)
		if err != nil {
			return nil, err
		}
		answers, err := s.transformCached(ctx, data, f.Round)
		if err != nil {
			return nil, fmt.Errorf("round %s (%s): %w", f.Round, f.Location, err)
		}
		parts = append(parts, answers)
	}

	if files == nil {
		files = []model.RoundFile{}
	}
	return &model.Snapshot{
		Series:   series.Slug,
		Rounds:   files,
		Answers:  scoresheet.Concat(parts...),
		LoadedAt: time.Now(),
	}, nil
}

// Answers 全部答题记录，round 非空时只取该轮
func (s *SeriesService) Answers(ctx context.Context, slug, round string) ([]scoresheet.Answer, error) {
	snap, err := s.Load(ctx, slug)
	if err != nil {
		return nil, err
	}
	if round == "" {
		return snap.Answers, nil
	}

	round, err = NormalizeRound(round)
	if err != nil {
		return nil, err
	}
	found := false
	for _, f := range snap.Rounds {
		if f.Round == round {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", util.ErrRoundNotFound, round)
	}
	return scoresheet.Filter(snap.Answers, func(a scoresheet.Answer) bool { return a.Round == round }), nil
}

// Rounds 轮次列表及每轮的比赛、选手、记录数
func (s *SeriesService) Rounds(ctx context.Context, slug string) ([]model.RoundSummary, error) {
	snap, err := s.Load(ctx, slug)
	if err != nil {
		return nil, err
	}

	type acc struct {
		games   []string
		seen    map[string]bool
		players map[string]bool
		answers int
	}
	byRound := make(map[string]*acc)
	for _, a := range snap.Answers {
		r := byRound[a.Round]
		if r == nil {
			r = &acc{seen: map[string]bool{}, players: map[string]bool{}}
			byRound[a.Round] = r
		}
		if !r.seen[a.Game] {
			r.seen[a.Game] = true
			r.games = append(r.games, a.Game)
		}
		if a.Player != "" {
			r.players[a.Player] = true
		}
		r.answers++
	}

	out := make([]model.RoundSummary, 0, len(snap.Rounds))
	for _, f := range snap.Rounds {
		sum := model.RoundSummary{RoundFile: f, Games: []string{}}
		if r := byRound[f.Round]; r != nil {
			sum.Games = r.games
			sum.Players = len(r.players)
			sum.Answers = r.answers
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *SeriesService) Topics(ctx context.Context, slug, round string, order scoresheet.QuestionOrder) ([]scoresheet.TopicStats, error) {
	answers, err := s.Answers(ctx, slug, round)
	if err != nil {
		return nil, err
	}
	return scoresheet.AggregateByTopic(answers, order), nil
}

func (s *SeriesService) Topic(ctx context.Context, slug, round string, topic int, order scoresheet.QuestionOrder) (scoresheet.TopicStats, error) {
	topics, err := s.Topics(ctx, slug, round, order)
	if err != nil {
		return scoresheet.TopicStats{}, err
	}
	for _, t := range topics {
		if t.Topic == topic {
			return t, nil
		}
	}
	return scoresheet.TopicStats{}, fmt.Errorf("%w: %d", util.ErrTopicNotFound, topic)
}

func (s *SeriesService) Games(ctx context.Context, slug, round string, order scoresheet.QuestionOrder) ([]scoresheet.GameStats, error) {
	answers, err := s.Answers(ctx, slug, round)
	if err != nil {
		return nil, err
	}
	return scoresheet.AggregateByGame(answers, order), nil
}

// Game 按比赛名或 "round.game" 编号查找。未指定轮次且同名比赛出现在多轮时返回 ErrAmbiguousGame
func (s *SeriesService) Game(ctx context.Context, slug, round, game string, order scoresheet.QuestionOrder) (scoresheet.GameStats, error) {
	games, err := s.Games(ctx, slug, round, order)
	if err != nil {
		return scoresheet.GameStats{}, err
	}
	var matches []scoresheet.GameStats
	for _, g := range games {
		if g.GameRoundID != "" && g.GameRoundID == game {
			return g, nil
		}
		if g.Game == game {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return scoresheet.GameStats{}, fmt.Errorf("%w: %s", util.ErrGameNotFound, game)
	case 1:
		return matches[0], nil
	default:
		return scoresheet.GameStats{}, fmt.Errorf("%w: %s", util.ErrAmbiguousGame, game)
	}
}

func (s *SeriesService) Totals(ctx context.Context, slug, round string, keys []scoresheet.SplitKey) ([]scoresheet.TotalsStats, error) {
	answers, err := s.Answers(ctx, slug, round)
	if err != nil {
		return nil, err
	}
	return scoresheet.AggregateTotals(answers, keys...)
}

func (s *SeriesService) BarProjection(ctx context.Context, slug, round string, topic int, order scoresheet.QuestionOrder) (model.BarProjection, error) {
	t, err := s.Topic(ctx, slug, round, topic, order)
	if err != nil {
		return model.BarProjection{}, err
	}
	return model.BarProjection{
		Topic:      t.Topic,
		TopicLabel: t.TopicLabel,
		Points:     scoresheet.BarProjection(t.Stats),
	}, nil
}

func (s *SeriesService) LineProjection(ctx context.Context, slug, round, game string, order scoresheet.QuestionOrder) (model.LineProjection, error) {
	g, err := s.Game(ctx, slug, round, game, order)
	if err != nil {
		return model.LineProjection{}, err
	}
	return model.LineProjection{
		Game:        g.Game,
		Round:       g.Round,
		Header:      g.Header,
		QuestionIDs: g.QuestionIDs,
		Points:      scoresheet.LineProjection(g),
	}, nil
}

func (s *SeriesService) ScatterProjection(ctx context.Context, slug, round string) ([]scoresheet.ScatterPoint, error) {
	answers, err := s.Answers(ctx, slug, round)
	if err != nil {
		return nil, err
	}
	return scoresheet.ScatterProjection(answers)
}

// Invalidate 清除系列快照；slug 为空时清除全部缓存
func (s *SeriesService) Invalidate(ctx context.Context, slug string) error {
	if slug == "" {
		if err := s.cache.Invalidate(ctx, ""); err != nil {
			return err
		}
		logger.Log.Info("Cache invalidated")
		return nil
	}

	series, err := s.Find(slug)
	if err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, snapshotKey(slug)); err != nil {
		return err
	}
	// 远程来源还要丢掉 TTL 内的原始内容
	for _, r := range series.Rounds {
		if err := s.cache.Invalidate(ctx, "raw:"+r.URL); err != nil {
			return err
		}
	}
	logger.Log.Info("Cache invalidated", zap.String("series", slug))
	return nil
}

// Refresh 清除快照后立即重新加载
func (s *SeriesService) Refresh(ctx context.Context, slug string) (model.RefreshResult, error) {
	if err := s.Invalidate(ctx, slug); err != nil {
		return model.RefreshResult{}, err
	}
	snap, err := s.Load(ctx, slug)
	if err != nil {
		return model.RefreshResult{}, err
	}
	return model.RefreshResult{
		Series:   slug,
		Rounds:   len(snap.Rounds),
		Answers:  len(snap.Answers),
		LoadedAt: snap.LoadedAt,
	}, nil
}

// PutRound 上传一轮表格，先校验能否转换再写入存储
func (s *SeriesService) PutRound(ctx context.Context, slug, round string, data []byte) (model.RoundFile, error) {
	series, err := s.Find(slug)
	if err != nil {
		return model.RoundFile{}, err
	}
	round, err = NormalizeRound(round)
	if err != nil {
		return model.RoundFile{}, err
	}
	if _, err := s.TransformBytes(ctx, data, round); err != nil {
		return model.RoundFile{}, err
	}

	file, err := s.sources.Put(ctx, series, round, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.RoundFile{}, err
	}
	if err := s.Invalidate(ctx, slug); err != nil {
		logger.Log.Warn("Cache invalidation after upload failed", zap.String("series", slug), zap.Error(err))
	}
	return file, nil
}

// DeleteRound 删除一轮表格
func (s *SeriesService) DeleteRound(ctx context.Context, slug, round string) error {
	series, err := s.Find(slug)
	if err != nil {
		return err
	}
	if err := s.sources.Remove(ctx, series, round); err != nil {
		return err
	}
	if err := s.Invalidate(ctx, slug); err != nil {
		logger.Log.Warn("Cache invalidation after delete failed", zap.String("series", slug), zap.Error(err))
	}
	return nil
}
