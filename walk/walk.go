// Package walk lists regular files under a directory whose extension
// matches a target, case-insensitively.
package walk

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/coralbyte/typeprint/typeerr"
)

// ByExtension returns the paths of every file under dir, at any depth,
// whose extension, uppercased, equals ext (also uppercased before
// comparing). Every non-directory entry is considered, symlinks
// included; symlinks are listed as found and not followed.
func ByExtension(dir, ext string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, typeerr.Wrap(typeerr.InvalidInput, err, "sample directory "+dir)
	}

	want := strings.ToUpper(strings.TrimPrefix(ext, "."))
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		got := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
		if got == want {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, typeerr.Wrap(typeerr.IOFailed, err, "listing "+dir)
	}
	return out, nil
}
