package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 出错后的处理方式
const (
	OnErrorExit     = "exit"     // 终止进程 (默认)
	OnErrorContinue = "continue" // 记录日志，等待下一轮
)

// Config 对应 config.yaml 的根结构
type Config struct {
	Sync   SyncConfig   `yaml:"sync"`
	System SystemConfig `yaml:"system"`
}

// SyncConfig 同步相关配置
type SyncConfig struct {
	SourceDir  string `yaml:"source_dir"`
	ReplicaDir string `yaml:"replica_dir"`
	Interval   string `yaml:"interval"`
	OnError    string `yaml:"on_error"`
	// 也就是解析后的 duration，不导出到 yaml
	IntervalDuration time.Duration `yaml:"-"`
}

// SystemConfig 系统配置
type SystemConfig struct {
	// LogDir 审计日志目录，log.txt 写在这里
	LogDir string `yaml:"log_dir"`
	// LogLevel/LogFile 控制诊断日志 (slog)，与审计日志无关
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			OnError: OnErrorExit,
		},
		System: SystemConfig{
			LogLevel: "info",
		},
	}
}

// LoadConfig 读取并解析配置文件，path 为空时返回默认配置
// 返回的配置还需要调用 Validate
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析 YAML 格式错误: %w", err)
	}
	return cfg, nil
}

// Validate 校验配置并填充派生字段
func (c *Config) Validate() error {
	if c.Sync.SourceDir == "" {
		return fmt.Errorf("缺少源目录 (sync.source_dir)")
	}
	if c.Sync.ReplicaDir == "" {
		return fmt.Errorf("缺少副本目录 (sync.replica_dir)")
	}
	if c.System.LogDir == "" {
		return fmt.Errorf("缺少日志目录 (system.log_dir)")
	}

	duration, err := time.ParseDuration(c.Sync.Interval)
	if err != nil {
		return fmt.Errorf("无效的同步间隔格式 (sync.interval): %w", err)
	}
	if duration <= 0 {
		return fmt.Errorf("同步间隔必须为正数 (sync.interval): %s", c.Sync.Interval)
	}
	c.Sync.IntervalDuration = duration

	if c.Sync.OnError == "" {
		c.Sync.OnError = OnErrorExit
	}
	c.Sync.OnError = strings.ToLower(c.Sync.OnError)
	if c.Sync.OnError != OnErrorExit && c.Sync.OnError != OnErrorContinue {
		return fmt.Errorf("未知的出错策略 (sync.on_error): %s", c.Sync.OnError)
	}

	switch strings.ToLower(c.System.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("未知的日志等级 (system.log_level): %s", c.System.LogLevel)
	}
	return nil
}

// ContinueOnError 出错后是否继续下一轮
func (c *Config) ContinueOnError() bool {
	return c.Sync.OnError == OnErrorContinue
}
