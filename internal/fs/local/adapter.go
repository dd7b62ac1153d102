package local

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"foldersync/internal/fs"
)

// Adapter 本地文件系统适配器
// 底层使用 afero.Fs，生产环境为 OsFs，测试中替换为 MemMapFs
type Adapter struct {
	fs afero.Fs
}

// NewAdapter 基于给定的 afero.Fs 创建适配器
func NewAdapter(fsys afero.Fs) *Adapter {
	return &Adapter{fs: fsys}
}

// Scan 列出 dir 的直接子项
// 符号链接按其指向的类型分类并记入 Links
// 无法解析的链接、指向自身祖先目录的链接只记入 Links
func (a *Adapter) Scan(dir string) (*fs.Snapshot, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}

	snap := &fs.Snapshot{
		Files: make(fs.NameSet, len(entries)),
		Dirs:  make(fs.NameSet),
		Links: make(fs.NameSet),
	}
	for _, info := range entries {
		name := info.Name()

		if info.Mode()&os.ModeSymlink != 0 {
			snap.Links[name] = struct{}{}

			resolved, err := a.fs.Stat(filepath.Join(dir, name))
			if err != nil {
				slog.Warn("无法解析符号链接", "dir", dir, "name", name, "err", err)
				continue
			}
			if resolved.IsDir() && a.isAncestor(dir, resolved) {
				slog.Warn("符号链接指向上级目录，不递归", "dir", dir, "name", name)
				continue
			}
			info = resolved
		}

		if info.IsDir() {
			snap.Dirs[name] = struct{}{}
		} else {
			snap.Files[name] = struct{}{}
		}
	}
	return snap, nil
}

// isAncestor 判断 target 是否为 dir 本身或其任一上级目录
func (a *Adapter) isAncestor(dir string, target os.FileInfo) bool {
	p, err := filepath.Abs(dir)
	if err != nil {
		p = filepath.Clean(dir)
	}
	for {
		if info, err := a.fs.Stat(p); err == nil && os.SameFile(info, target) {
			return true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return false
		}
		p = parent
	}
}

// RemoveFile 删除单个文件
func (a *Adapter) RemoveFile(path string) error {
	return a.fs.Remove(path)
}

// RemoveAll 删除整个目录树
func (a *Adapter) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

// Mkdir 创建单个目录 (父目录必须已存在)
// 权限位取自源目录，并保留属主读写执行位以便写入子项
func (a *Adapter) Mkdir(src, dst string) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm() | 0700
	if err := a.fs.Mkdir(dst, perm); err != nil {
		return err
	}
	// Mkdir 受 umask 影响，显式设置一次
	return a.fs.Chmod(dst, perm)
}

// CopyFile 将 src 复制到 dst，覆盖已有文件
// 复制完成后恢复源文件的权限位和修改时间
func (a *Adapter) CopyFile(src, dst string) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return err
	}
	perm := info.Mode().Perm()

	in, err := a.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// 副本中的符号链接不能跟随写入，先删除链接本身
	if err := a.removeLink(dst); err != nil {
		return err
	}

	// 上一轮复制过来的只读文件无法直接覆盖，先加上写权限
	if old, err := a.fs.Stat(dst); err == nil && !old.IsDir() && old.Mode().Perm()&0200 == 0 {
		if err := a.fs.Chmod(dst, old.Mode().Perm()|0200); err != nil {
			return err
		}
	}

	out, err := a.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0200)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("写入数据失败: %w", err)
	}

	// 关闭文件以刷入磁盘，之后再修改元数据
	if err := out.Close(); err != nil {
		return err
	}

	if err := a.fs.Chmod(dst, perm); err != nil {
		return err
	}
	if err := a.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		slog.Warn("无法修改文件时间", "path", dst, "err", err)
	}
	return nil
}

// removeLink 若 path 是符号链接则删除链接本身
func (a *Adapter) removeLink(path string) error {
	lstater, ok := a.fs.(afero.Lstater)
	if !ok {
		return nil
	}
	info, _, err := lstater.LstatIfPossible(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return a.fs.Remove(path)
}
