package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel 解析日志等级
// levelStr: "debug", "info", "warn", "error"，无法识别时为 info
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup 初始化全局诊断日志
// 输出到 stderr，stdout 留给审计记录的实时回显
// logPath: 额外的诊断日志文件 (为空则只输出到控制台)
// 返回的 Closer 用于在退出时关闭日志文件
func Setup(levelStr string, logPath string) (io.Closer, error) {
	level := ParseLevel(levelStr)

	var writer io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if logPath != "" {
		// 确保日志目录存在
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, err
		}

		// 打开日志文件 (追加模式)
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, err
		}

		writer = io.MultiWriter(os.Stderr, file)
		closer = file
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug, // 仅在 Debug 模式下显示文件名和行号
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(writer, opts)))
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
