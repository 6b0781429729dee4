// Package pathutil turns file system paths into the lines a corpus ranks.
//
// Candidate lines are root-relative and always use forward slashes, so a
// query such as "cmd/main" behaves the same on every platform and the
// separator heat of '/' applies uniformly.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" || !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	relPath, err := filepath.Rel(filepath.Clean(rootDir), absPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}
	return relPath
}

// ToLine returns the candidate line for path: relative to rootDir when it
// lies inside it, with forward slashes.
func ToLine(path, rootDir string) string {
	return filepath.ToSlash(ToRelative(path, rootDir))
}

// ToLines maps ToLine over paths. The input slice is not modified.
func ToLines(paths []string, rootDir string) []string {
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = ToLine(p, rootDir)
	}
	return lines
}
