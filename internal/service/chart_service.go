package service

import (
	"fmt"
	"io"
	"math"
	"sort"

	"league_stats/internal/model"
	"league_stats/internal/scoresheet"
	"league_stats/internal/util"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorCorrect   = drawing.ColorFromHex("2e7d32")
	colorIncorrect = drawing.ColorFromHex("c62828")
	colorNoAnswer  = drawing.ColorFromHex("9e9e9e")
)

// OutcomeColor 答对绿色，答错红色，未作答灰色
func OutcomeColor(o scoresheet.Outcome) drawing.Color {
	switch o {
	case scoresheet.OutcomeCorrect:
		return colorCorrect
	case scoresheet.OutcomeIncorrect:
		return colorIncorrect
	default:
		return colorNoAnswer
	}
}

// pointStyle 只画点不连线
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
		DotWidth:    3,
		DotColor:    col,
	}
}

// ChartService 把投影数据渲染成 PNG
type ChartService struct {
	Width  int
	Height int
}

func NewChartService() *ChartService {
	return &ChartService{Width: 1024, Height: 480}
}

// padRange 避免只有一个点时坐标范围为零
func padRange(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// TopicBars 每个问题一根堆叠柱，按结果分色
func (s *ChartService) TopicBars(w io.Writer, p model.BarProjection) error {
	var bars []chart.StackedBar
	index := make(map[string]int)
	for _, pt := range p.Points {
		if pt.Count == 0 {
			continue
		}
		i, ok := index[pt.QuestionID]
		if !ok {
			i = len(bars)
			index[pt.QuestionID] = i
			bars = append(bars, chart.StackedBar{Name: pt.QuestionID})
		}
		col := OutcomeColor(pt.Outcome)
		bars[i].Values = append(bars[i].Values, chart.Value{
			Value: float64(pt.Count),
			Label: fmt.Sprintf("%s %d", pt.Symbol, pt.Count),
			Style: chart.Style{FillColor: col, StrokeColor: col},
		})
	}
	if len(bars) == 0 {
		return util.ErrNoChartData
	}

	// 柱子太多时收窄，保持总宽度
	barWidth := 40
	if n := len(bars); n*(barWidth+20) > s.Width {
		barWidth = max(8, s.Width/n-20)
	}
	for i := range bars {
		bars[i].Width = barWidth
	}

	sbc := chart.StackedBarChart{
		Title:      p.TopicLabel,
		Width:      s.Width,
		Height:     s.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarSpacing: 20,
		Bars:       bars,
	}
	return sbc.Render(chart.PNG, w)
}

// GameProgress 每位选手一条累计得分曲线，横轴为问题编号
func (s *ChartService) GameProgress(w io.Writer, p model.LineProjection) error {
	if len(p.Points) == 0 {
		return util.ErrNoChartData
	}

	// 横坐标为题目在比赛中的序号
	qids := append([]string(nil), p.QuestionIDs...)
	pos := make(map[string]int, len(qids))
	for i, id := range qids {
		pos[id] = i
	}
	for _, pt := range p.Points {
		if _, ok := pos[pt.QuestionID]; !ok {
			pos[pt.QuestionID] = len(qids)
			qids = append(qids, pt.QuestionID)
		}
	}

	byPlayer := make(map[string]*chart.ContinuousSeries)
	var players []string
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range p.Points {
		cs := byPlayer[pt.Player]
		if cs == nil {
			cs = &chart.ContinuousSeries{Name: pt.Player}
			byPlayer[pt.Player] = cs
			players = append(players, pt.Player)
		}
		y := float64(pt.Cumulative)
		cs.XValues = append(cs.XValues, float64(pos[pt.QuestionID]))
		cs.YValues = append(cs.YValues, y)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	series := make([]chart.Series, 0, len(players))
	for i, name := range players {
		cs := byPlayer[name]
		cs.Style = lineStyle(chart.GetDefaultColor(i))
		series = append(series, *cs)
	}

	ticks := make([]chart.Tick, 0, len(qids))
	for i, id := range qids {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: id})
	}

	ch := chart.Chart{
		Title:      p.Header,
		Width:      s.Width,
		Height:     s.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "question", Ticks: ticks, Range: padRange(0, float64(len(qids)-1))},
		YAxis:      chart.YAxis{Name: "points", Range: padRange(math.Min(minY, 0), math.Max(maxY, 0))},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// Scatter 每个 (轮次, 主题) 一个点，横轴得分、纵轴失分，按轮次分色
func (s *ChartService) Scatter(w io.Writer, points []scoresheet.ScatterPoint) error {
	if len(points) == 0 {
		return util.ErrNoChartData
	}

	byRound := make(map[string]*chart.ContinuousSeries)
	var rounds []string
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, pt := range points {
		cs := byRound[pt.Round]
		if cs == nil {
			cs = &chart.ContinuousSeries{Name: "round " + pt.Round}
			byRound[pt.Round] = cs
			rounds = append(rounds, pt.Round)
		}
		x, y := float64(pt.Gained), float64(pt.Lost)
		cs.XValues = append(cs.XValues, x)
		cs.YValues = append(cs.YValues, y)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	sort.SliceStable(rounds, func(i, j int) bool { return roundNumber(rounds[i]) < roundNumber(rounds[j]) })

	series := make([]chart.Series, 0, len(rounds))
	for i, r := range rounds {
		cs := byRound[r]
		cs.Style = pointStyle(chart.GetDefaultColor(i))
		series = append(series, *cs)
	}

	ch := chart.Chart{
		Title:      "points gained / lost by topic",
		Width:      s.Width,
		Height:     s.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "gained", Range: padRange(minX, maxX)},
		YAxis:      chart.YAxis{Name: "lost", Range: padRange(minY, maxY)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}
