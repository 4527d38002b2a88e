package analyzer

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/propscan/pkg/parser"
)

// DefaultInclude lists the file patterns analyzed by default.
var DefaultInclude = []string{"**/*.jsx", "**/*.tsx", "**/*.js", "**/*.mjs", "**/*.cjs"}

// DefaultExclude lists directories never analyzed by default.
var DefaultExclude = []string{
	"node_modules/**",
	"**/node_modules/**",
	".git/**",
	"dist/**",
	"build/**",
	".next/**",
	"coverage/**",
	"out/**",
}

// ValidatePatterns checks include/exclude globs.
func ValidatePatterns(include, exclude []string) error {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// walkDir is replaced in tests to inject walk errors.
var walkDir = filepath.WalkDir

// DiscoverFiles walks rootDir applying include/exclude globs (matched against
// slash-separated paths relative to rootDir). Files in languages the parser
// does not support are dropped. Returns a sorted slice of absolute paths and
// the entries below rootDir that could not be read. An unreadable rootDir is
// an error.
func DiscoverFiles(rootDir string, include, exclude []string) ([]string, []SkippedFile, error) {
	if err := ValidatePatterns(include, exclude); err != nil {
		return nil, nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	var unreadable []SkippedFile

	err = walkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if walkErr != nil {
			if relPath == "." {
				return walkErr
			}
			isDir := d != nil && d.IsDir()
			if !matchAny(exclude, relPath) && (isDir || wanted(include, relPath, path)) {
				unreadable = append(unreadable, skippedFrom(path, NewFileReadError(path, walkErr)))
			}
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}
		if relPath == "." {
			return nil
		}

		if matchAny(exclude, relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if !wanted(include, relPath, path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Strings(files)
	return files, unreadable, nil
}

// wanted reports whether a file passes the include globs and has a
// supported grammar.
func wanted(include []string, relPath, path string) bool {
	if len(include) > 0 && !matchAny(include, relPath) {
		return false
	}
	_, ok := parser.DetectGrammar(path)
	return ok
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
			return true
		}
	}
	return false
}
