// 把记分表导出为长表，便于在表格软件里复核
//
// 用法:
//
//	go run scripts/export_answers.go -round 1 -format csv data/cup-2022/1.csv
//	go run scripts/export_answers.go -series cup-2022 -format json

package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"strconv"

	"league_stats/internal/config"
	"league_stats/internal/scoresheet"
	"league_stats/internal/service"
	"league_stats/pkg/logger"
)

var csvHeader = []string{
	"topic", "topic_label", "question_id", "question_label", "price",
	"game", "player", "note", "raw_value", "outcome", "outcome_symbol",
	"points", "points_gained", "points_lost", "round", "game_round_id",
}

func writeCSV(w io.Writer, answers []scoresheet.Answer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range answers {
		rec := []string{
			strconv.Itoa(a.Topic), a.TopicLabel, a.QuestionID, a.QuestionLabel, strconv.Itoa(a.Price),
			a.Game, a.Player, a.Note, strconv.Itoa(a.RawValue), a.Outcome.String(), a.Symbol,
			strconv.Itoa(a.Points), strconv.Itoa(a.PointsGained), strconv.Itoa(a.PointsLost),
			a.Round, a.GameRoundID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fromFile(path, round string) []scoresheet.Answer {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("无法打开文件: %v", err)
	}
	defer f.Close()

	table, err := scoresheet.ReadCSV(f)
	if err != nil {
		log.Fatalf("读取表格失败: %v", err)
	}
	if round != "" {
		if round, err = service.NormalizeRound(round); err != nil {
			log.Fatalf("轮次无效: %v", err)
		}
	}
	answers, err := scoresheet.Transform(table, round)
	if err != nil {
		log.Fatalf("转换失败: %v", err)
	}
	return answers
}

func fromSeries(configDir, slug string) []scoresheet.Answer {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger.InitLogger(cfg)

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		log.Fatalf("初始化存储失败: %v", err)
	}
	cache := service.NewCacheService(service.NewMemoryStore(), cfg.Cache.Prefix)
	sources := service.NewSourceService(storage, service.NewHTTPSource(cfg.Storage.HTTPTimeout, cache, cfg.Cache.SourceTTL))
	series := service.NewSeriesService(cfg, sources, cache)

	snap, err := series.Load(context.Background(), slug)
	if err != nil {
		log.Fatalf("加载系列失败: %v", err)
	}
	log.Printf("系列 %s: %d 轮, %d 行", slug, len(snap.Rounds), len(snap.Answers))
	return snap.Answers
}

func main() {
	round := flag.String("round", "", "轮次号（单文件模式）")
	slug := flag.String("series", "", "按配置加载整个系列")
	configDir := flag.String("config", "configs", "配置文件目录")
	format := flag.String("format", "csv", "输出格式: csv | json")
	flag.Parse()

	var answers []scoresheet.Answer
	switch {
	case *slug != "":
		answers = fromSeries(*configDir, *slug)
	case flag.NArg() == 1:
		answers = fromFile(flag.Arg(0), *round)
	default:
		log.Fatal("用法: export_answers [-round N] [-format csv|json] <file.csv> 或 -series <slug>")
	}

	var err error
	switch *format {
	case "csv":
		err = writeCSV(os.Stdout, answers)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(answers)
	default:
		log.Fatalf("未知格式: %s", *format)
	}
	if err != nil {
		log.Fatalf("写出失败: %v", err)
	}
}
