package fs

import "sort"

// NameSet 目录项名称集合
type NameSet map[string]struct{}

// NewNameSet 由名称列表构造集合
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has 判断名称是否在集合中
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Minus 返回 s 中存在而 other 中不存在的名称 (已排序)
func (s NameSet) Minus(other NameSet) []string {
	out := make([]string, 0, len(s))
	for n := range s {
		if !other.Has(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Union 返回 s 与 other 的并集 (已排序)
func (s NameSet) Union(other NameSet) []string {
	out := make([]string, 0, len(s)+len(other))
	for n := range s {
		out = append(out, n)
	}
	for n := range other {
		if !s.Has(n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// Sorted 返回排序后的名称列表
func (s NameSet) Sorted() []string {
	return s.Minus(nil)
}

// Snapshot 某一时刻某个目录的直接子项
// 每次访问目录时重新生成，不跨轮次缓存
type Snapshot struct {
	Files NameSet // 文件名
	Dirs  NameSet // 子目录名
	// Links 所有符号链接的名称，包括无法解析的
	// 可解析的链接同时按指向的类型出现在 Files 或 Dirs 中
	Links NameSet
}

// FileSystem 同步引擎所需的文件系统操作
// 路径均为本地系统路径
type FileSystem interface {
	// Scan 列出目录的直接子项，按文件/目录分类
	Scan(dir string) (*Snapshot, error)

	// RemoveFile 删除单个文件
	RemoveFile(path string) error

	// RemoveAll 递归删除整个目录树
	RemoveAll(path string) error

	// CopyFile 无条件覆盖复制，保留权限位和修改时间
	CopyFile(src, dst string) error

	// Mkdir 在 dst 创建单个目录，权限位取自源目录 src
	Mkdir(src, dst string) error
}
