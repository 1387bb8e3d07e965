package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ArchiveFile moves src into dstDir and returns the new path. An existing file
// with the same name is kept; the moved file gets a timestamp suffix instead.
// An empty dstDir leaves src untouched.
func ArchiveFile(src, dstDir string) (string, error) {
	if dstDir == "" {
		return src, nil
	}
	if err := EnsureDir(dstDir); err != nil {
		return "", fmt.Errorf("create archive dir %s: %w", dstDir, err)
	}

	base := filepath.Base(src)
	dst := filepath.Join(dstDir, base)

	if _, err := os.Stat(dst); err == nil {
		ext := filepath.Ext(base)
		name := base[:len(base)-len(ext)]
		dst = filepath.Join(
			dstDir,
			fmt.Sprintf("%s_%s%s", name, time.Now().Format("20060102_150405.000000000"), ext),
		)
	}

	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("archive %s: %w", src, err)
	}
	return dst, nil
}
