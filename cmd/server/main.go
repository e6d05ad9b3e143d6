package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/internal/config"
	"github.com/Daniel-Thornton/Solitaire98/server/host"
	uihost "github.com/Daniel-Thornton/Solitaire98/ui/host"
)

// 命令行参数，非零值覆盖配置文件
var configPath = flag.String("config", "", "YAML 配置文件路径")
var addr = flag.String("addr", "", "监听地址，例如 :8080")
var variant = flag.String("variant", "", "默认玩法")
var seed = flag.Int64("seed", 0, "洗牌种子（0 表示随机）")
var dashboard = flag.Bool("tui", false, "显示服务器控制台")

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	cfg, err := loadConfig()
	if err != nil {
		klog.Errorf("[配置] 加载失败 | 错误=%v", err)
		os.Exit(1)
	}

	srv := host.NewServer(cfg)

	if *dashboard {
		if err := uihost.Start(srv, cfg.Addr); err != nil {
			klog.Errorf("[服务器] 控制台退出 | 错误=%v", err)
			os.Exit(1)
		}
		return
	}

	// 启动服务器主循环（处理注册、注销、消息路由）
	go srv.Run()

	httpServer := &http.Server{Addr: cfg.Addr, Handler: srv.Handler()}
	go handleSignals(httpServer, srv)

	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║        Solitaire 98 游戏服务器         ║")
	fmt.Println("╚════════════════════════════════════════╝")
	klog.Infof("[服务器] 启动 | 地址=%s | 默认玩法=%s | 历史局数=%d", cfg.Addr, cfg.Variant, cfg.HistorySize)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		klog.Errorf("[服务器] 错误 | 错误=%v", err)
		os.Exit(1)
	}
	klog.Info("[服务器] 已关闭")
}

// loadConfig 读取配置文件，再应用命令行覆盖
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *variant != "" {
		cfg.Variant = *variant
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 命令行未指定 -v 时使用配置中的日志级别
	if v := flag.Lookup("v"); v != nil && v.Value.String() == "0" && cfg.LogVerbosity > 0 {
		flag.Set("v", strconv.Itoa(cfg.LogVerbosity))
	}
	return cfg, nil
}

// handleSignals 处理系统信号，优雅关闭服务器
func handleSignals(httpServer *http.Server, srv *host.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	klog.Info("[服务器] 正在关闭")
	srv.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		klog.Warningf("[服务器] 关闭超时 | 错误=%v", err)
	}
}
