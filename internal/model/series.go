package model

import (
	"time"

	"league_stats/internal/scoresheet"
)

// Series 赛事系列（杯赛/联赛赛季）的对外视图
type Series struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SheetURL    string `json:"sheet_url,omitempty"`
	Source      string `json:"source"`
	RefreshCron string `json:"refresh_cron,omitempty"`
}

// RoundFile 一轮比赛对应的表格文件
type RoundFile struct {
	Round    string    `json:"round"`
	Location string    `json:"location"`
	Size     int64     `json:"size,omitempty"`
	Modified time.Time `json:"modified_at,omitempty"`
}

// RoundSummary 轮次列表中的一项
type RoundSummary struct {
	RoundFile
	Games   []string `json:"games"`
	Players int      `json:"players"`
	Answers int      `json:"answers"`
}

// Snapshot 一个系列所有轮次拼接后的结果，整体缓存
type Snapshot struct {
	Series   string              `json:"series"`
	Rounds   []RoundFile         `json:"rounds"`
	Answers  []scoresheet.Answer `json:"answers"`
	LoadedAt time.Time           `json:"loaded_at"`
}

// RefreshResult 刷新任务的结果
type RefreshResult struct {
	Series   string    `json:"series"`
	Rounds   int       `json:"rounds"`
	Answers  int       `json:"answers"`
	LoadedAt time.Time `json:"loaded_at"`
}

// TransformResult 上传表格的转换结果
type TransformResult struct {
	Round   string              `json:"round,omitempty"`
	Rows    int                 `json:"rows"`
	Answers []scoresheet.Answer `json:"answers"`
}

// BarProjection 某个主题的柱状图数据
type BarProjection struct {
	Topic      int                   `json:"topic"`
	TopicLabel string                `json:"topic_label"`
	Points     []scoresheet.BarPoint `json:"points"`
}

// LineProjection 某场比赛的累计得分曲线
type LineProjection struct {
	Game        string                       `json:"game"`
	Round       string                       `json:"round,omitempty"`
	Header      string                       `json:"header"`
	QuestionIDs []string                     `json:"question_ids"`
	Points      []scoresheet.CumulativePoint `json:"points"`
}
