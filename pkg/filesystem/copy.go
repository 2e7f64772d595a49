package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/sprout-sh/sprout/pkg/types"
)

// CopyFile copies src to dst through fsys, creating dst's parent
// directories as needed. The destination keeps the source's permission
// bits; an existing destination is overwritten.
func CopyFile(fsys types.FS, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	data, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	perm := info.Mode().Perm()
	if perm == 0 {
		perm = fs.FileMode(0644)
	}
	return fsys.WriteFile(dst, data, perm)
}
