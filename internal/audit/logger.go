package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileName 审计日志文件名，位于日志目录下
const FileName = "log.txt"

// Op 审计记录的操作类型
type Op int

const (
	OpDelete    Op = iota // 删除副本中的文件或目录树
	OpCopy                // 从源目录复制文件
	OpCreateDir           // 在副本中创建目录
)

func (o Op) String() string {
	switch o {
	case OpDelete:
		return "delete"
	case OpCopy:
		return "copy"
	case OpCreateDir:
		return "create_dir"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Record 一条审计记录，对应一次已完成的文件系统变更
type Record struct {
	Op          Op
	Name        string // 条目名称 (不含路径)
	SourcePath  string // 源目录
	ReplicaPath string // 副本目录
}

// String 返回写入日志的文本行，格式属于对外接口，不可随意修改
func (r Record) String() string {
	switch r.Op {
	case OpDelete:
		return fmt.Sprintf("Removed %s from %s.", r.Name, r.ReplicaPath)
	case OpCopy:
		return fmt.Sprintf("Copied %s from %s to %s.", r.Name, r.SourcePath, r.ReplicaPath)
	case OpCreateDir:
		return fmt.Sprintf("Created the %s folder on %s.", r.Name, r.ReplicaPath)
	}
	return fmt.Sprintf("Unknown operation %s on %s in %s.", r.Op, r.Name, r.ReplicaPath)
}

// Header 新建日志文件时写入的首行
func Header(source, replica string) string {
	return fmt.Sprintf("Synchronization log for %s -> %s.", source, replica)
}

// Logger 只追加的审计日志
// 每行同时写入日志文件和实时输出流 (通常是 stdout)
// 由顶层调用方持有，所有退出路径上都必须 Close
type Logger struct {
	file afero.File
	out  io.Writer
}

// Open 打开 <logDir>/log.txt，不存在时创建并写入首行
// echo 为 nil 时只写文件
func Open(fsys afero.Fs, logDir, source, replica string, echo io.Writer) (*Logger, error) {
	if err := fsys.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}

	path := filepath.Join(logDir, FileName)
	fresh := false
	if _, err := fsys.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("读取日志文件状态失败: %w", err)
		}
		fresh = true
	}

	f, err := fsys.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}

	l := &Logger{file: f, out: f}
	if echo != nil {
		l.out = io.MultiWriter(f, echo)
	}

	if fresh {
		if err := l.writeLine(Header(source, replica)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return l, nil
}

// Record 追加一条审计记录
func (l *Logger) Record(r Record) error {
	return l.writeLine(r.String())
}

func (l *Logger) writeLine(line string) error {
	if _, err := fmt.Fprintln(l.out, line); err != nil {
		return fmt.Errorf("写入审计日志失败: %w", err)
	}
	return nil
}

// Close 刷盘并关闭日志文件
func (l *Logger) Close() error {
	if err := l.file.Sync(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
