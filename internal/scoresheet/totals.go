package scoresheet

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrUnknownSplitKey = errors.New("unknown split key")

// SplitKey 汇总时的分组字段
type SplitKey string

const (
	SplitRound       SplitKey = "round"
	SplitTopic       SplitKey = "topic"
	SplitTopicLabel  SplitKey = "topic_label"
	SplitQuestion    SplitKey = "question_id"
	SplitGame        SplitKey = "game"
	SplitGameRound   SplitKey = "game_round_id"
	SplitPlayer      SplitKey = "player"
	SplitOutcomeName SplitKey = "outcome"
)

// Value 取出该行在分组字段上的值
func (k SplitKey) Value(a Answer) (string, error) {
	switch k {
	case SplitRound:
		return a.Round, nil
	case SplitTopic:
		return strconv.Itoa(a.Topic), nil
	case SplitTopicLabel:
		return a.TopicLabel, nil
	case SplitQuestion:
		return a.QuestionID, nil
	case SplitGame:
		return a.Game, nil
	case SplitGameRound:
		return a.GameRoundID, nil
	case SplitPlayer:
		return a.Player, nil
	case SplitOutcomeName:
		return a.Outcome.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSplitKey, string(k))
	}
}

// ParseSplitKeys 解析逗号分隔的分组字段，例如 "round,topic_label"
func ParseSplitKeys(s string) ([]SplitKey, error) {
	var keys []SplitKey
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k := SplitKey(part)
		if _, err := k.Value(Answer{}); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrUnknownSplitKey)
	}
	return keys, nil
}

// TotalsStats 一个分组的得分汇总与人均值
type TotalsStats struct {
	Keys      map[string]string `json:"keys"`
	Points    int               `json:"points"`
	Gained    int               `json:"points_gained"`
	Lost      int               `json:"points_lost"`
	Players   int               `json:"players"`
	AvgPoints float64           `json:"avg_points"`
	AvgGained float64           `json:"avg_points_gained"`
	AvgLost   float64           `json:"avg_points_lost"`
}

type totalsGroup struct {
	values  []string
	stats   TotalsStats
	players map[string]bool
}

// AggregateTotals 按一个或多个字段分组汇总得分，并按组内不同选手数求平均。
// 组内没有任何选手时返回 ErrEmptyGroup。
func AggregateTotals(answers []Answer, keys ...SplitKey) ([]TotalsStats, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrUnknownSplitKey)
	}

	index := make(map[string]*totalsGroup)
	var groups []*totalsGroup
	for _, a := range answers {
		values := make([]string, len(keys))
		for i, k := range keys {
			v, err := k.Value(a)
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		id := strings.Join(values, "\x00")
		g, ok := index[id]
		if !ok {
			g = &totalsGroup{values: values, players: make(map[string]bool)}
			index[id] = g
			groups = append(groups, g)
		}
		g.stats.Points += a.Points
		g.stats.Gained += a.PointsGained
		g.stats.Lost += a.PointsLost
		if strings.TrimSpace(a.Player) != "" {
			g.players[a.Player] = true
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		for k := range keys {
			a, b := groups[i].values[k], groups[j].values[k]
			if a != b {
				return naturalLess(a, b)
			}
		}
		return false
	})

	out := make([]TotalsStats, 0, len(groups))
	for _, g := range groups {
		n := len(g.players)
		if n == 0 {
			return nil, &DataError{Kind: ErrEmptyGroup, Column: joinKeys(keys), Row: -1, Value: strings.Join(g.values, ", ")}
		}
		s := g.stats
		s.Keys = make(map[string]string, len(keys))
		for i, k := range keys {
			s.Keys[string(k)] = g.values[i]
		}
		s.Players = n
		s.AvgPoints = float64(s.Points) / float64(n)
		s.AvgGained = float64(s.Gained) / float64(n)
		s.AvgLost = float64(s.Lost) / float64(n)
		out = append(out, s)
	}
	return out, nil
}

// 两个值都是整数时按数值比较（轮次 "10" 在 "2" 之后），否则按字符串
func naturalLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

func joinKeys(keys []SplitKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
