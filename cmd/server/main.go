package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/gang-ground/internal/app"
	"github.com/gang-ground/internal/config"
	"github.com/gang-ground/internal/logger"
	"github.com/gang-ground/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
	ansiRed   = "\033[91m"
)

func main() {
	// 解析命令行参数
	var rawMode string
	flag.StringVar(&rawMode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	mode, err := app.ParseMode(rawMode)
	if err != nil {
		stdLog.Fatalf("启动参数错误: %v", err)
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug"); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if err := models.CloseDB(); err != nil {
			stdLog.Printf("关闭数据库失败: %v", err)
		}
	}()

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Printf("服务运行失败: %v", err)
		os.Exit(1)
	}
}

func printStartupBanner() {
	fmt.Println(ansiRed + "╔══════════════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiRed + "║             GANG GROUND storefront API               ║" + ansiReset)
	fmt.Println(ansiRed + "╚══════════════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + " ██████╗  ██████╗ " + ansiReset)
	fmt.Println(ansiCyan + "██╔════╝ ██╔════╝ " + ansiReset)
	fmt.Println(ansiCyan + "██║  ███╗██║  ███╗" + ansiReset)
	fmt.Println(ansiCyan + "██║   ██║██║   ██║" + ansiReset)
	fmt.Println(ansiCyan + "╚██████╔╝╚██████╔╝" + ansiReset)
	fmt.Println(ansiCyan + " ╚═════╝  ╚═════╝ " + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "cart · catalog · checkout" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}
