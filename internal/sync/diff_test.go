package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"foldersync/internal/fs"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		source  fs.Snapshot
		replica fs.Snapshot
		exp     Plan
	}{
		{
			name:    "EmptyReplica",
			source:  fs.Snapshot{Files: fs.NewNameSet("b.txt", "a.txt"), Dirs: fs.NewNameSet("sub")},
			replica: fs.Snapshot{Files: fs.NewNameSet(), Dirs: fs.NewNameSet()},
			exp: Plan{
				DeleteFiles: []string{},
				DeleteDirs:  []string{},
				CopyFiles:   []string{"a.txt", "b.txt"},
				CreateDirs:  []string{"sub"},
				Recurse:     []string{"sub"},
			},
		},
		{
			name:    "ExtraReplicaEntries",
			source:  fs.Snapshot{Files: fs.NewNameSet("a.txt"), Dirs: fs.NewNameSet("keep")},
			replica: fs.Snapshot{Files: fs.NewNameSet("a.txt", "junk.txt"), Dirs: fs.NewNameSet("keep", "stale")},
			exp: Plan{
				DeleteFiles: []string{"junk.txt"},
				DeleteDirs:  []string{"stale"},
				CopyFiles:   []string{"a.txt"},
				CreateDirs:  []string{},
				Recurse:     []string{"keep"},
			},
		},
		{
			name:    "DirBecameFile",
			source:  fs.Snapshot{Files: fs.NewNameSet("dirA"), Dirs: fs.NewNameSet()},
			replica: fs.Snapshot{Files: fs.NewNameSet(), Dirs: fs.NewNameSet("dirA")},
			exp: Plan{
				DeleteFiles: []string{},
				DeleteDirs:  []string{"dirA"},
				CopyFiles:   []string{"dirA"},
				CreateDirs:  []string{},
				Recurse:     []string{},
			},
		},
		{
			name:    "FileBecameDir",
			source:  fs.Snapshot{Files: fs.NewNameSet(), Dirs: fs.NewNameSet("x")},
			replica: fs.Snapshot{Files: fs.NewNameSet("x"), Dirs: fs.NewNameSet()},
			exp: Plan{
				DeleteFiles: []string{"x"},
				DeleteDirs:  []string{},
				CopyFiles:   []string{},
				CreateDirs:  []string{"x"},
				Recurse:     []string{"x"},
			},
		},
		{
			name:   "ReplicaLinks",
			source: fs.Snapshot{Files: fs.NewNameSet("a.txt"), Dirs: fs.NewNameSet("d")},
			replica: fs.Snapshot{
				Files: fs.NewNameSet("a.txt"),
				Dirs:  fs.NewNameSet("d", "elsewhere"),
				Links: fs.NewNameSet("a.txt", "d", "elsewhere", "junk"),
			},
			exp: Plan{
				DeleteFiles: []string{"a.txt", "d", "elsewhere", "junk"},
				DeleteDirs:  []string{},
				CopyFiles:   []string{"a.txt"},
				CreateDirs:  []string{"d"},
				Recurse:     []string{"d"},
			},
		},
		{
			name: "SourceLinksFollowed",
			source: fs.Snapshot{
				Files: fs.NewNameSet("link.txt"),
				Dirs:  fs.NewNameSet("linkdir"),
				Links: fs.NewNameSet("link.txt", "linkdir", "dangling"),
			},
			replica: fs.Snapshot{Files: fs.NewNameSet("link.txt"), Dirs: fs.NewNameSet("linkdir")},
			exp: Plan{
				DeleteFiles: []string{},
				DeleteDirs:  []string{},
				CopyFiles:   []string{"link.txt"},
				CreateDirs:  []string{},
				Recurse:     []string{"linkdir"},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, compare(&test.source, &test.replica))
		})
	}
}
