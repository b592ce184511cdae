package scoresheet

import (
	"slices"
	"sort"
	"strings"
)

// QuestionStats 按 (问题, 结果) 分组的作答统计
type QuestionStats struct {
	QuestionID    string  `json:"question_id"`
	TopicLabel    string  `json:"topic_label"`
	QuestionLabel string  `json:"question_label"`
	Price         int     `json:"price"`
	Outcome       Outcome `json:"outcome"`
	Symbol        string  `json:"outcome_symbol"`
	Count         int     `json:"count"`
	Players       string  `json:"players"`
}

type questionKey struct {
	questionID    string
	topicLabel    string
	questionLabel string
	price         int
	outcome       Outcome
}

// AggregateByQuestion 按 (question_id, topic_label, question_label, price, outcome) 分组，
// 统计作答次数并拼接去重后的选手名
func AggregateByQuestion(answers []Answer, order QuestionOrder) []QuestionStats {
	index := make(map[questionKey]int)
	var stats []QuestionStats
	var seen []map[string]bool
	var names [][]string

	for _, a := range answers {
		k := questionKey{a.QuestionID, a.TopicLabel, a.QuestionLabel, a.Price, a.Outcome}
		i, ok := index[k]
		if !ok {
			i = len(stats)
			index[k] = i
			stats = append(stats, QuestionStats{
				QuestionID:    a.QuestionID,
				TopicLabel:    a.TopicLabel,
				QuestionLabel: a.QuestionLabel,
				Price:         a.Price,
				Outcome:       a.Outcome,
				Symbol:        a.Outcome.Symbol(),
			})
			seen = append(seen, map[string]bool{})
			names = append(names, nil)
		}
		stats[i].Count++
		if !seen[i][a.Player] {
			seen[i][a.Player] = true
			names[i] = append(names[i], a.Player)
		}
	}
	for i := range stats {
		stats[i].Players = strings.Join(names[i], ", ")
	}

	sort.SliceStable(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.QuestionID != b.QuestionID {
			return order.Less(a.QuestionID, b.QuestionID)
		}
		if a.TopicLabel != b.TopicLabel {
			return a.TopicLabel < b.TopicLabel
		}
		if a.QuestionLabel != b.QuestionLabel {
			return a.QuestionLabel < b.QuestionLabel
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Symbol < b.Symbol
	})
	if stats == nil {
		stats = []QuestionStats{}
	}
	return stats
}

// TopicStats 单个主题的问题统计
type TopicStats struct {
	Topic      int             `json:"topic"`
	TopicLabel string          `json:"topic_label"`
	Questions  []string        `json:"questions"`
	Stats      []QuestionStats `json:"stats"`
}

// AggregateByTopic 把问题统计按主题分组
func AggregateByTopic(answers []Answer, order QuestionOrder) []TopicStats {
	topicNum := make(map[string]int)
	for _, a := range answers {
		if _, ok := topicNum[a.TopicLabel]; !ok {
			topicNum[a.TopicLabel] = a.Topic
		}
	}

	byLabel := make(map[string]*TopicStats)
	var labels []string
	for _, s := range AggregateByQuestion(answers, order) {
		ts, ok := byLabel[s.TopicLabel]
		if !ok {
			ts = &TopicStats{Topic: topicNum[s.TopicLabel], TopicLabel: s.TopicLabel}
			byLabel[s.TopicLabel] = ts
			labels = append(labels, s.TopicLabel)
		}
		if !slices.Contains(ts.Questions, s.QuestionLabel) {
			ts.Questions = append(ts.Questions, s.QuestionLabel)
		}
		ts.Stats = append(ts.Stats, s)
	}

	sort.SliceStable(labels, func(i, j int) bool {
		if order == OrderNumeric {
			return topicNum[labels[i]] < topicNum[labels[j]]
		}
		return labels[i] < labels[j]
	})
	out := make([]TopicStats, 0, len(labels))
	for _, l := range labels {
		out = append(out, *byLabel[l])
	}
	return out
}

// PlayerTotal 单场比赛中选手的计分汇总（只统计答对和答错）
type PlayerTotal struct {
	Player   string             `json:"player"`
	Points   int                `json:"points"`
	Gained   int                `json:"points_gained"`
	Lost     int                `json:"points_lost"`
	MaxPrice int                `json:"max_price"`
	Outcomes map[string]Outcome `json:"outcomes"`
}

// ResultRow 结果矩阵的一行：问题编号 -> 结果
type ResultRow struct {
	Player   string             `json:"player"`
	Outcomes map[string]Outcome `json:"outcomes"`
}

// CumulativePoint 选手累计得分曲线上的一点
type CumulativePoint struct {
	Player        string `json:"player"`
	QuestionID    string `json:"question_id"`
	TopicLabel    string `json:"topic_label"`
	QuestionLabel string `json:"question_label"`
	Points        int    `json:"points"`
	Cumulative    int    `json:"cumulative"`
}

// GameStats 单场比赛的统计；多轮拼接时每轮的同名比赛各自独立
type GameStats struct {
	Game        string            `json:"game"`
	Round       string            `json:"round,omitempty"`
	GameRoundID string            `json:"game_round_id,omitempty"`
	Header      string            `json:"header"`
	Players     []string          `json:"players"`
	QuestionIDs []string          `json:"question_ids"`
	Totals      []PlayerTotal     `json:"totals"`
	Results     []ResultRow       `json:"results"`
	Progress    []CumulativePoint `json:"progress"`
}

// AggregateByGame 按 (轮次, 比赛) 分组。计分汇总只统计答对/答错（未作答不计入净得分），
// 按得分降序，同分保持选手出场顺序。结果矩阵中同一 (选手, 问题) 重复出现时保留第一条。
// 输出按轮次（数值）再按比赛名排序。
func AggregateByGame(answers []Answer, order QuestionOrder) []GameStats {
	type gameKey struct{ round, game string }
	byGame := make(map[gameKey][]Answer)
	var keys []gameKey
	for _, a := range answers {
		k := gameKey{round: a.Round, game: a.Game}
		if _, ok := byGame[k]; !ok {
			keys = append(keys, k)
		}
		byGame[k] = append(byGame[k], a)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].round != keys[j].round {
			return naturalLess(keys[i].round, keys[j].round)
		}
		return keys[i].game < keys[j].game
	})

	out := make([]GameStats, 0, len(keys))
	for _, k := range keys {
		gs := gameStats(k.game, byGame[k], order)
		if k.round != "" {
			gs.Round = k.round
			gs.GameRoundID = GameRoundID(k.round, k.game)
		}
		out = append(out, gs)
	}
	return out
}

func gameStats(game string, rows []Answer, order QuestionOrder) GameStats {
	gs := GameStats{Game: game}

	var qids []string
	seenQ := make(map[string]bool)
	byPlayer := make(map[string][]Answer)
	for _, a := range rows {
		if _, ok := byPlayer[a.Player]; !ok {
			gs.Players = append(gs.Players, a.Player)
		}
		byPlayer[a.Player] = append(byPlayer[a.Player], a)
		if !seenQ[a.QuestionID] {
			seenQ[a.QuestionID] = true
			qids = append(qids, a.QuestionID)
		}
	}
	order.Sort(qids)
	gs.QuestionIDs = qids
	gs.Header = game + ": " + strings.Join(gs.Players, " / ")

	results := make(map[string]map[string]Outcome, len(gs.Players))
	for _, p := range gs.Players {
		m := make(map[string]Outcome)
		for _, a := range byPlayer[p] {
			if _, dup := m[a.QuestionID]; !dup {
				m[a.QuestionID] = a.Outcome
			}
		}
		results[p] = m
		gs.Results = append(gs.Results, ResultRow{Player: p, Outcomes: m})
	}

	for _, p := range gs.Players {
		t := PlayerTotal{Player: p, Outcomes: results[p]}
		attempted := false
		for _, a := range byPlayer[p] {
			if !a.Outcome.Attempted() {
				continue
			}
			if !attempted || a.Price > t.MaxPrice {
				t.MaxPrice = a.Price
			}
			attempted = true
			t.Points += a.Points
			t.Gained += a.PointsGained
			t.Lost += a.PointsLost
		}
		if attempted {
			gs.Totals = append(gs.Totals, t)
		}
	}
	sort.SliceStable(gs.Totals, func(i, j int) bool { return gs.Totals[i].Points > gs.Totals[j].Points })

	for _, p := range gs.Players {
		prs := append([]Answer(nil), byPlayer[p]...)
		sort.SliceStable(prs, func(i, j int) bool { return order.Less(prs[i].QuestionID, prs[j].QuestionID) })
		sum := 0
		for _, a := range prs {
			sum += a.Points
			gs.Progress = append(gs.Progress, CumulativePoint{
				Player:        p,
				QuestionID:    a.QuestionID,
				TopicLabel:    a.TopicLabel,
				QuestionLabel: a.QuestionLabel,
				Points:        a.Points,
				Cumulative:    sum,
			})
		}
	}
	if gs.Totals == nil {
		gs.Totals = []PlayerTotal{}
	}
	return gs
}
