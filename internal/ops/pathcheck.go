package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/metbands/internal/errors"
	"github.com/hpungsan/metbands/internal/report"
)

// ValidateOutputPath checks a report target before anything is written:
// 1. No directory traversal (.. components)
// 2. Extension matches the report format (.db for sqlite)
// 3. Parent directory, when it exists, is a real directory and not a symlink
// 4. Target, when it exists, is not a symlink or directory
//
// The parent may not exist yet; it is created when reports are staged.
func ValidateOutputPath(path, format string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewInvalidRequest("output path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("output path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	want := report.Extension(format)
	if !strings.EqualFold(filepath.Ext(cleaned), want) {
		return errors.NewInvalidRequest(fmt.Sprintf("%s report path must have %s extension: %s", format, want, path))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid output path: %v", err))
	}

	parentDir := filepath.Dir(absPath)
	if info, err := os.Lstat(parentDir); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("output directory must not be a symlink")
		}
		if !info.IsDir() {
			return errors.NewInvalidRequest(fmt.Sprintf("output directory is not a directory: %s", parentDir))
		}
	}

	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("output path must not be a symlink")
		}
		if info.IsDir() {
			return errors.NewInvalidRequest(fmt.Sprintf("output path is a directory: %s", path))
		}
	}

	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
