package sync

import "foldersync/internal/fs"

// compare 决策函数: 根据源和副本的快照生成协调计划
// 名称在一侧是文件、另一侧是目录时，旧条目会先被删除再复制/创建
// 副本中的符号链接一律视为多余条目删除 (删除链接本身)，
// 避免复制或递归时跟随链接写到副本之外
func compare(source, replica *fs.Snapshot) Plan {
	replicaFiles := fs.NewNameSet(replica.Files.Minus(replica.Links)...)
	replicaDirs := fs.NewNameSet(replica.Dirs.Minus(replica.Links)...)
	staleFiles := fs.NewNameSet(replicaFiles.Minus(source.Files)...)

	return Plan{
		DeleteFiles: staleFiles.Union(replica.Links),
		DeleteDirs:  replicaDirs.Minus(source.Dirs),
		CopyFiles:   source.Files.Sorted(),
		CreateDirs:  source.Dirs.Minus(replicaDirs),
		Recurse:     source.Dirs.Sorted(),
	}
}
