package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"

	"github.com/Daniel-Thornton/Solitaire98/internal/config"
	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
	uiclient "github.com/Daniel-Thornton/Solitaire98/ui/client"
)

// 命令行参数
var configPath = flag.String("config", "", "YAML 配置文件路径")
var server = flag.String("server", "", "服务器地址，例如 localhost:8080")
var local = flag.Bool("local", false, "不连接服务器，在本地开局")
var seed = flag.Int64("seed", 0, "本地模式的洗牌种子（0 表示随机）")

func main() {
	// 界面占用终端，日志默认写入临时文件
	klog.InitFlags(nil)
	flag.Set("logtostderr", "false")
	flag.Set("log_file", filepath.Join(os.TempDir(), "solitaire98-client.log"))
	flag.Parse()
	defer klog.Flush()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	var backend uiclient.Backend
	if *local {
		stats := game.NewStatsManager()
		opts := append(cfg.SessionOptions(), game.WithStats(stats))
		backend = uiclient.NewLocalBackend(opts...)
		klog.Infof("[客户端] 本地模式 | 种子=%d", cfg.Seed)
	} else {
		backend = uiclient.NewRemoteBackend(cfg.ServerURL)
		klog.Infof("[客户端] 远程模式 | 地址=%s", cfg.ServerURL)
	}

	p := tea.NewProgram(uiclient.NewModel(backend), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI 运行错误: %v\n", err)
		os.Exit(1)
	}
	backend.Close()
}
