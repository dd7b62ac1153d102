package sync

import (
	"errors"
	"fmt"
	"os"
)

// 错误中使用的操作名
const (
	opScan   = "scan"
	opDelete = "delete"
	opCopy   = "copy"
	opMkdir  = "mkdir"
	opRecord = "record"
)

// NotFoundError 路径不存在或在同步过程中消失
type NotFoundError struct {
	Op   string
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: path not found: %v", e.Op, e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// AccessError 权限不足或被锁定
type AccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: access denied: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// PartialFailure 本轮中某个操作失败，该子树未完成同步
type PartialFailure struct {
	Op   string
	Path string
	Err  error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// classify 按底层错误归类，保证每个错误都能对应到具体路径和操作
func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &NotFoundError{Op: op, Path: path, Err: err}
	case errors.Is(err, os.ErrPermission):
		return &AccessError{Op: op, Path: path, Err: err}
	default:
		return &PartialFailure{Op: op, Path: path, Err: err}
	}
}
