package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"

	"league_stats/internal/config"
	"league_stats/internal/model"
	"league_stats/internal/util"
	"league_stats/pkg/logger"

	"go.uber.org/zap"
)

// 单个表格导出的大小上限
const maxSheetSize = 16 << 20

var roundPattern = regexp.MustCompile(`(?:^|/)(\d+)\.csv$`)

// RoundFromName 从 "<dir>/<round>.csv" 取出轮次号，去掉前导零
func RoundFromName(name string) (string, bool) {
	m := roundPattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", false
	}
	return strconv.Itoa(n), true
}

// NormalizeRound 校验并规范化轮次号
func NormalizeRound(round string) (string, error) {
	n, err := strconv.Atoi(round)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", util.ErrInvalidRound, round)
	}
	return strconv.Itoa(n), nil
}

func roundNumber(round string) int {
	n, _ := strconv.Atoi(round)
	return n
}

// SortRounds 按轮次号数值排序
func SortRounds(files []model.RoundFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return roundNumber(files[i].Round) < roundNumber(files[j].Round)
	})
}

// HTTPSource 拉取 Google 表格发布的 CSV，原始内容按 TTL 缓存
type HTTPSource struct {
	Client *http.Client
	Cache  *CacheService
	TTL    time.Duration
}

func NewHTTPSource(timeout time.Duration, cache *CacheService, ttl time.Duration) *HTTPSource {
	return &HTTPSource{Client: &http.Client{Timeout: timeout}, Cache: cache, TTL: ttl}
}

func (h *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := "raw:" + url
	if h.Cache != nil {
		if data, ok := h.Cache.GetBytes(ctx, key); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSheetSize {
		return nil, fmt.Errorf("GET %s: sheet larger than %d bytes", url, maxSheetSize)
	}

	if h.Cache != nil {
		h.Cache.SetBytes(ctx, key, data, h.TTL)
	}
	return data, nil
}

// SourceService 按系列配置定位并读取每一轮的表格
type SourceService struct {
	Storage StorageProvider
	HTTP    *HTTPSource
}

func NewSourceService(storage StorageProvider, httpSource *HTTPSource) *SourceService {
	return &SourceService{Storage: storage, HTTP: httpSource}
}

// Kind 用于指标标签
func (s *SourceService) Kind(series config.SeriesConfig) string {
	if series.Source == config.SourceHTTP {
		return config.SourceHTTP
	}
	return s.Storage.Kind()
}

func unavailable(series config.SeriesConfig, err error) error {
	return fmt.Errorf("%w: series %s: %v", util.ErrSourceUnavailable, series.Slug, err)
}

// Rounds 列出系列的所有轮次文件，按轮次号排序
func (s *SourceService) Rounds(ctx context.Context, series config.SeriesConfig) ([]model.RoundFile, error) {
	var files []model.RoundFile

	if series.Source == config.SourceHTTP {
		for _, r := range series.Rounds {
			round, err := NormalizeRound(r.Round)
			if err != nil {
				return nil, err
			}
			files = append(files, model.RoundFile{Round: round, Location: r.URL})
		}
		SortRounds(files)
		return files, nil
	}

	objs, err := s.Storage.List(ctx, series.Prefix)
	if err != nil {
		return nil, unavailable(series, err)
	}
	sortObjects(objs)

	seen := make(map[string]string)
	for _, obj := range objs {
		round, ok := RoundFromName(obj.Key)
		if !ok {
			continue
		}
		if prev, dup := seen[round]; dup {
			logger.Log.Warn("Duplicate round file ignored",
				zap.String("series", series.Slug),
				zap.String("kept", prev),
				zap.String("ignored", obj.Key))
			continue
		}
		seen[round] = obj.Key
		files = append(files, model.RoundFile{
			Round:    round,
			Location: obj.Key,
			Size:     obj.Size,
			Modified: obj.Modified,
		})
	}
	SortRounds(files)
	return files, nil
}

// Read 读取一轮的原始内容
func (s *SourceService) Read(ctx context.Context, series config.SeriesConfig, file model.RoundFile) ([]byte, error) {
	if series.Source == config.SourceHTTP {
		data, err := s.HTTP.Fetch(ctx, file.Location)
		if err != nil {
			return nil, unavailable(series, err)
		}
		return data, nil
	}

	rc, err := s.Storage.Open(ctx, file.Location)
	if err != nil {
		return nil, unavailable(series, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSheetSize+1))
	if err != nil {
		return nil, unavailable(series, err)
	}
	if len(data) > maxSheetSize {
		return nil, unavailable(series, fmt.Errorf("%s larger than %d bytes", file.Location, maxSheetSize))
	}
	return data, nil
}

// Put 写入（或覆盖）一轮的表格，HTTP 来源只读
func (s *SourceService) Put(ctx context.Context, series config.SeriesConfig, round string, r io.Reader, size int64) (model.RoundFile, error) {
	if series.Source == config.SourceHTTP {
		return model.RoundFile{}, util.ErrReadOnlySource
	}
	round, err := NormalizeRound(round)
	if err != nil {
		return model.RoundFile{}, err
	}

	// 已有同轮文件（例如 07.csv）时覆盖原 key，否则新文件会被排在前面的旧 key 遮住
	files, err := s.Rounds(ctx, series)
	if err != nil {
		return model.RoundFile{}, err
	}
	key := joinKey(series.Prefix, round+".csv")
	for _, f := range files {
		if f.Round == round {
			key = f.Location
			break
		}
	}
	if err := s.Storage.Upload(ctx, key, r, size, util.MimeCSV); err != nil {
		return model.RoundFile{}, unavailable(series, err)
	}
	return model.RoundFile{Round: round, Location: key, Size: size, Modified: time.Now()}, nil
}

// Remove 删除一轮的表格
func (s *SourceService) Remove(ctx context.Context, series config.SeriesConfig, round string) error {
	if series.Source == config.SourceHTTP {
		return util.ErrReadOnlySource
	}
	round, err := NormalizeRound(round)
	if err != nil {
		return err
	}

	files, err := s.Rounds(ctx, series)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.Round == round {
			if err := s.Storage.Delete(ctx, f.Location); err != nil {
				return unavailable(series, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", util.ErrRoundNotFound, round)
}
