// @title 联赛统计 API
// @version 1.0
// @description 知识竞赛记分表的转换与统计服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"league_stats/internal/app"
	"league_stats/internal/config"
	"league_stats/internal/util"
	"league_stats/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	checkOnly := flag.Bool("check-config", false, "只校验配置，完成后退出")
	issueFor := flag.String("issue-token", "", "用 jwt.secret 为指定账号签发管理令牌并输出到 stdout")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "签发令牌的有效期")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *issueFor != "" {
		token, err := util.IssueAdminToken(*issueFor, cfg.JWT.Secret, *tokenTTL)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	if *checkOnly {
		log.Printf("配置校验通过，共 %d 个系列", len(cfg.Series))
		return
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
