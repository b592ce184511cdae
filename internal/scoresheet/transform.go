package scoresheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Answer 长表中的一行：一个问题 × 一个选手
type Answer struct {
	Topic         int     `json:"topic"`
	TopicLabel    string  `json:"topic_label"`
	QuestionID    string  `json:"question_id"`
	QuestionLabel string  `json:"question_label"`
	Price         int     `json:"price"`
	Game          string  `json:"game"`
	Player        string  `json:"player"`
	Note          string  `json:"note"`
	RawValue      int     `json:"raw_value"`
	Outcome       Outcome `json:"outcome"`
	Symbol        string  `json:"outcome_symbol"`
	Points        int     `json:"points"`
	PointsGained  int     `json:"points_gained"`
	PointsLost    int     `json:"points_lost"`
	Round         string  `json:"round,omitempty"`
	GameRoundID   string  `json:"game_round_id,omitempty"`
}

// Score 由题目分值和原始取值计算得分；失分为正数
func Score(price, raw int) (points, gained, lost int) {
	points = price * raw
	if raw > 0 {
		gained = points
	}
	if raw < 0 {
		lost = -points
	}
	return points, gained, lost
}

// QuestionID 生成 "topic.price" 形式的问题编号
func QuestionID(topic, price int) string {
	return fmt.Sprintf("%d.%d", topic, price)
}

// GameRoundID 生成 "round.game" 形式的编号
func GameRoundID(round, game string) string {
	return round + "." + game
}

// 常见表格导出中表示缺失的文本
var missingValues = map[string]bool{
	"nan": true, "NaN": true, "NA": true, "N/A": true, "#N/A": true, "null": true, "None": true,
}

// 取值和前缀都限制在 int32 范围内，price*raw 在 int64 下不会溢出
func inInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

func parseAnswerValue(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || missingValues[s] {
		return 0, true
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(v), inInt32(v)
	}
	// 表格导出有时写成 1.0 / -1.0
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ParsePrefix 取标签中第一个句点之前的数字，例如 "10. Capitals" -> 10
func ParsePrefix(label string) (int, error) {
	s := strings.TrimLeft(strings.TrimSpace(label), ".")
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || !inInt32(v) {
		return 0, &DataError{Kind: ErrInvalidNumericPrefix, Row: -1, Value: label}
	}
	return int(v), nil
}

type cellRef struct {
	row int
	col int
}

// Transform 把多级表头的宽表转换为长表。round 为空表示不附加轮次。
// 调用方的表不会被修改。
func Transform(table *RawTable, round string) ([]Answer, error) {
	if table == nil || len(table.Header) < 3 {
		return nil, ErrEmptyTable
	}
	t := table.Clone()

	labels := make([]string, len(t.Header))
	for i, levels := range t.Header {
		labels[i] = FlattenLabel(levels)
	}
	topicCol, questionCol := labels[0], labels[1]

	// 去掉主题为空的分隔行
	var rows []int
	for r := range t.Rows {
		if strings.TrimSpace(t.Cell(r, 0)) != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return []Answer{}, nil
	}

	// 宽表转长表：按列展开，列内按行
	var cells []cellRef
	for col := 2; col < len(labels); col++ {
		for _, r := range rows {
			cells = append(cells, cellRef{row: r, col: col})
		}
	}

	values := make([]int, len(cells))
	for i, c := range cells {
		v, ok := parseAnswerValue(t.Cell(c.row, c.col))
		if !ok {
			return nil, &DataError{Kind: ErrInvalidAnswerValue, Column: labels[c.col], Row: c.row, Value: t.Cell(c.row, c.col)}
		}
		values[i] = v
	}

	columns := make(map[int]ColumnLabel, len(labels)-2)
	for col := 2; col < len(labels); col++ {
		cl, err := SplitLabel(labels[col])
		if err != nil {
			return nil, err
		}
		columns[col] = cl
	}

	prices := make(map[int]int, len(rows))
	for _, r := range rows {
		p, err := ParsePrefix(t.Cell(r, 1))
		if err != nil {
			return nil, withLocation(err, questionCol, r)
		}
		prices[r] = p
	}
	topics := make(map[int]int, len(rows))
	for _, r := range rows {
		tp, err := ParsePrefix(t.Cell(r, 0))
		if err != nil {
			return nil, withLocation(err, topicCol, r)
		}
		topics[r] = tp
	}

	out := make([]Answer, 0, len(cells))
	for i, c := range cells {
		cl := columns[c.col]
		price, topic, raw := prices[c.row], topics[c.row], values[i]
		points, gained, lost := Score(price, raw)
		outcome := ClassifyValue(raw)

		a := Answer{
			Topic:         topic,
			TopicLabel:    t.Cell(c.row, 0),
			QuestionID:    QuestionID(topic, price),
			QuestionLabel: t.Cell(c.row, 1),
			Price:         price,
			Game:          cl.Game,
			Player:        cl.Player,
			Note:          cl.Note,
			RawValue:      raw,
			Outcome:       outcome,
			Symbol:        outcome.Symbol(),
			Points:        points,
			PointsGained:  gained,
			PointsLost:    lost,
		}
		if round != "" {
			a.Round = round
			a.GameRoundID = GameRoundID(round, cl.Game)
		}
		out = append(out, a)
	}
	return out, nil
}

func withLocation(err error, column string, row int) error {
	if de, ok := err.(*DataError); ok {
		de.Column = column
		de.Row = row
	}
	return err
}

// Concat 拼接多轮的长表
func Concat(parts ...[]Answer) []Answer {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Answer, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Filter 返回满足条件的行，不修改原切片
func Filter(answers []Answer, keep func(Answer) bool) []Answer {
	out := make([]Answer, 0, len(answers))
	for _, a := range answers {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
