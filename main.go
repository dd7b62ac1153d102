package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"foldersync/internal/audit"
	"foldersync/internal/config"
	"foldersync/internal/fs/local"
	"foldersync/internal/scheduler"
	syncer "foldersync/internal/sync"
	"foldersync/pkg/logger"
)

// errInterrupted 收到 SIGINT/SIGTERM
var errInterrupted = errors.New("interrupted")

func main() {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errInterrupted):
		fmt.Println("Synchronization terminated.")
		os.Exit(130)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	logLevel   string
	logFile    string
	onError    string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "foldersync <source> <replica> <interval-seconds> <log-dir>",
		Short: "Periodically mirror a source folder onto a replica folder",
		Long: "foldersync keeps a replica folder identical to a source folder. " +
			"Every interval it removes replica entries that are not in the source, " +
			"copies every source file and creates missing folders. " +
			"Each operation is appended to <log-dir>/log.txt and echoed to stdout.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && f.configPath != "" {
				return nil
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML config file; positional arguments override it")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "optional diagnostic log file (separate from the audit log)")
	cmd.Flags().StringVar(&f.onError, "on-error", "", "what to do when a pass fails: exit or continue")
	return cmd
}

// loadConfig 合并配置文件、位置参数和命令行选项
func loadConfig(f flags, args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	if len(args) == 4 {
		seconds, err := strconv.Atoi(args[2])
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("同步间隔必须为正整数 (秒): %q", args[2])
		}
		cfg.Sync.SourceDir = args[0]
		cfg.Sync.ReplicaDir = args[1]
		cfg.Sync.Interval = (time.Duration(seconds) * time.Second).String()
		cfg.System.LogDir = args[3]
	}
	if f.logLevel != "" {
		cfg.System.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		cfg.System.LogFile = f.logFile
	}
	if f.onError != "" {
		cfg.Sync.OnError = f.onError
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	closer, err := logger.Setup(cfg.System.LogLevel, cfg.System.LogFile)
	if err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	defer closer.Close()

	slog.Info("foldersync 启动中",
		"source", cfg.Sync.SourceDir,
		"replica", cfg.Sync.ReplicaDir,
		"interval", cfg.Sync.IntervalDuration,
		"log_dir", cfg.System.LogDir,
		"on_error", cfg.Sync.OnError,
	)

	osFs := afero.NewOsFs()
	if err := prepareDirs(osFs, cfg); err != nil {
		return err
	}

	// 审计日志由顶层持有，任何退出路径都会关闭
	auditLog, err := audit.Open(osFs, cfg.System.LogDir, cfg.Sync.SourceDir, cfg.Sync.ReplicaDir, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := auditLog.Close(); err != nil {
			slog.Error("关闭审计日志失败", "err", err)
		}
	}()

	engine := syncer.NewEngine(&syncer.EngineOptions{
		FS:       local.NewAdapter(osFs),
		Recorder: auditLog,
	})

	sched := scheduler.New(func(ctx context.Context) error {
		_, err := engine.Run(ctx, cfg.Sync.SourceDir, cfg.Sync.ReplicaDir)
		return err
	}, scheduler.Options{
		Interval:        cfg.Sync.IntervalDuration,
		ContinueOnError: cfg.ContinueOnError(),
	})

	g, gctx := errgroup.WithContext(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	g.Go(func() error {
		select {
		case sig := <-sigChan:
			slog.Info("接收到信号，准备退出...", "signal", sig)
			return errInterrupted
		case <-gctx.Done():
			return nil
		}
	})

	g.Go(func() error {
		if err := sched.Run(gctx); err != nil {
			slog.Error("同步失败，程序退出", "err", err)
			return err
		}
		return nil
	})

	return g.Wait()
}

// prepareDirs 检查源目录，副本目录不存在时创建
func prepareDirs(fsys afero.Fs, cfg *config.Config) error {
	isDir, err := afero.IsDir(fsys, cfg.Sync.SourceDir)
	if err != nil {
		return fmt.Errorf("无法访问源目录 %s: %w", cfg.Sync.SourceDir, err)
	}
	if !isDir {
		return fmt.Errorf("源路径不是目录: %s", cfg.Sync.SourceDir)
	}

	if err := fsys.MkdirAll(cfg.Sync.ReplicaDir, 0755); err != nil {
		return fmt.Errorf("无法创建副本目录 %s: %w", cfg.Sync.ReplicaDir, err)
	}
	return nil
}
