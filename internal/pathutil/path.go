package pathutil

import (
	"os"
	"path/filepath"
)

// Resolve returns p unchanged when it is absolute, otherwise p joined to base.
// The result is cleaned.
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// SamePath reports whether a and b name the same file. Paths are compared
// lexically after conversion to absolute form; when both exist, os.SameFile
// also catches hard links and symlinked directories.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
