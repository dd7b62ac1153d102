package sync

// Plan 一对目录的协调计划，由两侧的新鲜快照计算得出
// 执行顺序: 删除文件 -> 删除目录树 -> 复制文件 -> 创建目录 -> 递归
type Plan struct {
	DeleteFiles []string // 副本有、源没有的文件
	DeleteDirs  []string // 副本有、源没有的目录 (整棵删除)
	CopyFiles   []string // 源中的全部文件 (无条件复制)
	CreateDirs  []string // 源有、副本没有的目录
	Recurse     []string // 源中的全部目录
}

// Stats 一轮同步的变更计数
type Stats struct {
	Deleted int
	Copied  int
	Created int
}

// Total 本轮变更总数，等于写入的审计记录数
func (s Stats) Total() int {
	return s.Deleted + s.Copied + s.Created
}

