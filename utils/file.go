// Package utils contains shared helpers for the scenedata module.
package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FindFilesWithExtension recursively collects every file under root whose name
// ends in ext (e.g. ".glb"). The result is in traversal order, which is not
// guaranteed stable across platforms; callers must not attach meaning to it.
func FindFilesWithExtension(root, ext string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("extension must be non-empty")
	}
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error searching %q for %q files", root, ext)
	}
	return found, nil
}
