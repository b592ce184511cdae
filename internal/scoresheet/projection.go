package scoresheet

// BarPoint 柱状图：每个问题各结果的作答次数
type BarPoint struct {
	QuestionID string  `json:"question_id"`
	Outcome    Outcome `json:"outcome"`
	Symbol     string  `json:"outcome_symbol"`
	Count      int     `json:"count"`
	Players    string  `json:"players"`
}

// ScatterPoint 散点图：每轮每个主题的得分与失分
type ScatterPoint struct {
	Round      string `json:"round"`
	TopicLabel string `json:"topic_label"`
	Gained     int    `json:"points_gained"`
	Lost       int    `json:"points_lost"`
}

// BarProjection 只保留答对、答错、未作答三类
func BarProjection(stats []QuestionStats) []BarPoint {
	out := make([]BarPoint, 0, len(stats))
	for _, s := range stats {
		if s.Outcome == OutcomeUnrecognized {
			continue
		}
		out = append(out, BarPoint{
			QuestionID: s.QuestionID,
			Outcome:    s.Outcome,
			Symbol:     s.Symbol,
			Count:      s.Count,
			Players:    s.Players,
		})
	}
	return out
}

// LineProjection 累计得分曲线，顺序与 AggregateByGame 一致
func LineProjection(g GameStats) []CumulativePoint {
	return append([]CumulativePoint{}, g.Progress...)
}

// ScatterProjection 按 (轮次, 主题) 汇总得分与失分
func ScatterProjection(answers []Answer) ([]ScatterPoint, error) {
	totals, err := AggregateTotals(answers, SplitRound, SplitTopicLabel)
	if err != nil {
		return nil, err
	}
	out := make([]ScatterPoint, 0, len(totals))
	for _, t := range totals {
		out = append(out, ScatterPoint{
			Round:      t.Keys[string(SplitRound)],
			TopicLabel: t.Keys[string(SplitTopicLabel)],
			Gained:     t.Gained,
			Lost:       t.Lost,
		})
	}
	return out, nil
}
