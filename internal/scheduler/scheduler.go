package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Pass 一轮同步
type Pass func(ctx context.Context) error

// Options 调度选项
type Options struct {
	Interval time.Duration
	// ContinueOnError 为 true 时，本轮失败只记录日志，等待下一轮
	// 为 false 时，第一个错误直接返回，由调用方终止进程
	ContinueOnError bool
	// Clock 为 nil 时使用真实时钟
	Clock clockwork.Clock
}

// Scheduler 按固定间隔顺序执行同步，上一轮结束前不会开始下一轮
type Scheduler struct {
	pass Pass
	opts Options
}

func New(pass Pass, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Scheduler{pass: pass, opts: opts}
}

// Run 立即执行一轮，之后每隔 Interval 执行一轮，直到 ctx 被取消
// ctx 取消时返回 nil
func (s *Scheduler) Run(ctx context.Context) error {
	for round := 1; ; round++ {
		slog.Info(">>> 开始同步", "round", round)
		err := s.pass(ctx)
		if ctx.Err() != nil {
			slog.Warn("同步被中断", "round", round)
			return nil
		}
		if err != nil {
			if !s.opts.ContinueOnError {
				return err
			}
			slog.Error("同步错误，等待下一轮", "round", round, "err", err)
		}
		slog.Info("<<< 同步结束", "round", round, "next", s.opts.Interval)

		select {
		case <-ctx.Done():
			return nil
		case <-s.opts.Clock.After(s.opts.Interval):
		}
	}
}
