package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Daniel-Thornton/Solitaire98/pkg/game"
)

// Config 服务器和客户端共用的配置
type Config struct {
	Addr         string `yaml:"addr"`          // 服务器监听地址
	Variant      string `yaml:"variant"`       // 默认玩法
	Seed         int64  `yaml:"seed"`          // 洗牌种子，0 表示按时间随机
	HistorySize  int    `yaml:"history_size"`  // 保留的历史牌局数
	LogVerbosity int    `yaml:"log_verbosity"` // klog 日志级别
	ServerURL    string `yaml:"server_url"`    // 客户端连接的服务器地址
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Addr:         ":8080",
		Variant:      game.Klondike.String(),
		HistorySize:  game.DefaultHistorySize,
		LogVerbosity: 0,
		ServerURL:    "ws://localhost:8080/ws",
	}
}

// Load 在默认配置上叠加 YAML 文件中的设置，path 为空时直接返回默认配置
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if _, err := game.ParseVariant(c.Variant); err != nil {
		return err
	}
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history_size must not be negative, got %d", c.HistorySize)
	}
	if c.LogVerbosity < 0 {
		return fmt.Errorf("log_verbosity must not be negative, got %d", c.LogVerbosity)
	}
	return nil
}

// DefaultVariant 返回解析后的默认玩法
func (c *Config) DefaultVariant() game.Variant {
	v, err := game.ParseVariant(c.Variant)
	if err != nil {
		return game.Klondike
	}
	return v
}

// SessionOptions 根据配置生成会话选项
func (c *Config) SessionOptions() []game.Option {
	var opts []game.Option
	if c.Seed != 0 {
		opts = append(opts, game.WithSeed(c.Seed))
	}
	return opts
}
