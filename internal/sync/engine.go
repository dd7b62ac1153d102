package sync

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"foldersync/internal/audit"
	"foldersync/internal/fs"
)

// Recorder 接收每一次已完成变更的审计记录
type Recorder interface {
	Record(r audit.Record) error
}

// EngineOptions 初始化选项
type EngineOptions struct {
	FS       fs.FileSystem
	Recorder Recorder
}

// Engine 单向镜像引擎: 让副本目录树与源目录树保持一致
// 不保存任何跨轮次状态，每次访问目录都重新扫描
type Engine struct {
	opts *EngineOptions
}

func NewEngine(opts *EngineOptions) *Engine {
	return &Engine{opts: opts}
}

// Run 执行一次完整的同步
// 任何错误都会中止本轮剩余部分并原样返回，不做重试
func (e *Engine) Run(ctx context.Context, sourcePath, replicaPath string) (Stats, error) {
	start := time.Now()
	var stats Stats

	err := e.reconcile(ctx, sourcePath, replicaPath, &stats)

	slog.Info("同步检查完成",
		"source", sourcePath,
		"replica", replicaPath,
		"deleted", stats.Deleted,
		"copied", stats.Copied,
		"created", stats.Created,
		"elapsed", time.Since(start),
		"ok", err == nil,
	)
	return stats, err
}

// reconcile 协调一对目录，然后深度优先递归
func (e *Engine) reconcile(ctx context.Context, src, dst string, stats *Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// 1. 两侧都重新扫描
	srcSnap, err := e.opts.FS.Scan(src)
	if err != nil {
		return classify(opScan, src, err)
	}
	dstSnap, err := e.opts.FS.Scan(dst)
	if err != nil {
		return classify(opScan, dst, err)
	}

	plan := compare(srcSnap, dstSnap)
	slog.Debug("目录计划",
		"source", src,
		"deleteFiles", len(plan.DeleteFiles),
		"deleteDirs", len(plan.DeleteDirs),
		"copy", len(plan.CopyFiles),
		"create", len(plan.CreateDirs),
	)

	// 2. 删除
	for _, name := range plan.DeleteFiles {
		target := filepath.Join(dst, name)
		if err := e.opts.FS.RemoveFile(target); err != nil {
			return classify(opDelete, target, err)
		}
		if err := e.record(audit.OpDelete, name, src, dst, stats); err != nil {
			return err
		}
	}
	for _, name := range plan.DeleteDirs {
		target := filepath.Join(dst, name)
		if err := e.opts.FS.RemoveAll(target); err != nil {
			return classify(opDelete, target, err)
		}
		if err := e.record(audit.OpDelete, name, src, dst, stats); err != nil {
			return err
		}
	}

	// 3. 无条件复制全部文件
	for _, name := range plan.CopyFiles {
		from := filepath.Join(src, name)
		if err := e.opts.FS.CopyFile(from, filepath.Join(dst, name)); err != nil {
			return classify(opCopy, from, err)
		}
		if err := e.record(audit.OpCopy, name, src, dst, stats); err != nil {
			return err
		}
	}

	// 4. 先创建目录，保证递归时目标已存在
	for _, name := range plan.CreateDirs {
		target := filepath.Join(dst, name)
		if err := e.opts.FS.Mkdir(filepath.Join(src, name), target); err != nil {
			return classify(opMkdir, target, err)
		}
		if err := e.record(audit.OpCreateDir, name, src, dst, stats); err != nil {
			return err
		}
	}

	// 5. 递归所有源子目录，无论新建还是已存在
	for _, name := range plan.Recurse {
		if err := e.reconcile(ctx, filepath.Join(src, name), filepath.Join(dst, name), stats); err != nil {
			return err
		}
	}
	return nil
}

// record 写入审计记录并计数
func (e *Engine) record(op audit.Op, name, src, dst string, stats *Stats) error {
	r := audit.Record{Op: op, Name: name, SourcePath: src, ReplicaPath: dst}
	if err := e.opts.Recorder.Record(r); err != nil {
		return &PartialFailure{Op: opRecord, Path: filepath.Join(dst, name), Err: err}
	}

	switch op {
	case audit.OpDelete:
		stats.Deleted++
	case audit.OpCopy:
		stats.Copied++
	case audit.OpCreateDir:
		stats.Created++
	}
	return nil
}
