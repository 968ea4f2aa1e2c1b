package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/AlexMcLaughlin1/sessions/internal/calendar"
	"github.com/AlexMcLaughlin1/sessions/internal/config"
	"github.com/AlexMcLaughlin1/sessions/internal/importer"
	"github.com/AlexMcLaughlin1/sessions/internal/server"
	"github.com/AlexMcLaughlin1/sessions/internal/service/store"
	"github.com/AlexMcLaughlin1/sessions/internal/service/tracker"
	"github.com/AlexMcLaughlin1/sessions/internal/state"
	"github.com/AlexMcLaughlin1/sessions/internal/util"
)

var (
	port      = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode   = flag.Bool("dev", false, "开发模式")
	dataDir   = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	planPath  = flag.String("plan", "", "训练计划文件 CSV/XLSX (覆盖配置文件)")
	statePath = flag.String("state", "", "状态文件路径 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	banner := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)

	banner.Println("==========================================")
	banner.Println("  Training Plan Tracker")
	banner.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *planPath != "" {
		cfg.Data.PlanPath = *planPath
	}
	if *statePath != "" {
		cfg.Data.StateFile = *statePath
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		warn.Printf("创建数据目录失败: %v\n", err)
	} else {
		fmt.Printf("数据目录: %s\n", dir)
	}

	// 计划文件结构错误直接退出
	plan, err := importer.LoadPlan(cfg.Data.PlanPath, importer.LoadOptions{Sheet: cfg.Plan.Sheet})
	if err != nil {
		log.Fatalf("读取训练计划失败: %v", err)
	}
	starts := plan.WeekStarts()
	fmt.Printf("训练计划: %s (%d 周, %d 列)\n", plan.SourcePath, len(plan.Rows), len(plan.SessionColumns))
	if len(starts) > 0 {
		fmt.Printf("计划周期: %s ~ %s\n",
			calendar.FormatISO(starts[0]), calendar.FormatISO(calendar.WeekEnd(starts[len(starts)-1])))
	}

	repo, err := state.Open(cfg.Data.Backend, config.StatePath(cfg))
	if err != nil {
		log.Fatalf("打开状态存储失败: %v", err)
	}
	defer func() { _ = repo.Close() }()
	fmt.Printf("状态存储: %s (%s)\n", repo.Location(), cfg.Data.Backend)

	t := tracker.NewTracker(plan, store.NewSessionStore(), repo, tracker.Options{})
	stats := t.Stats()
	fmt.Printf("已完成 %d/%d (%s)，游泳 %s，骑行 %s，跑步 %s\n",
		stats.CompletedCount, stats.TotalSessions, util.FormatPercent(stats.CompletedPct),
		util.FormatKm(stats.Distances.Swim), util.FormatKm(stats.Distances.Bike), util.FormatKm(stats.Distances.Run))

	srv := server.NewServer(t, config.ExportsDir(cfg), cfg.Server.DevMode)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			warn.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.SaveNow(); err != nil {
		warn.Printf("退出前保存失败: %v\n", err)
	}
}
