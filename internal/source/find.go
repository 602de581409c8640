package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Find returns the files matching a pattern, sorted.
// A directory matches every CSV file in it, compressed or not.
// A path that exists is returned as-is, even if it contains glob metacharacters.
func Find(pattern string) ([]string, error) {
	info, err := os.Stat(pattern)
	if err == nil && !info.IsDir() {
		return []string{pattern}, nil
	}
	if err == nil && info.IsDir() {
		pattern = filepath.Join(pattern, "*.csv*")
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Resolve returns the single file a pattern refers to.
func Resolve(pattern string) (string, error) {
	matches, err := Find(pattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, pattern)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrAmbiguous, pattern, strings.Join(matches, ", "))
	}
}
