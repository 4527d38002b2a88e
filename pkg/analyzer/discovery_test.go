package analyzer

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFiles_Defaults(t *testing.T) {
	root := writeTree(t, projectFiles)

	files, unreadable, err := DiscoverFiles(root, DefaultInclude, DefaultExclude)
	require.NoError(t, err)
	assert.Empty(t, unreadable)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"src/App.tsx",
		"src/Button.tsx",
		"src/Form.jsx",
		"src/nested/deep/Card.mjs",
	}, rel)
}

func TestDiscoverFiles_CustomPatterns(t *testing.T) {
	root := writeTree(t, projectFiles)

	files, unreadable, err := DiscoverFiles(root, []string{"src/**/*.ts", "src/**/*.tsx"}, []string{"src/Button.tsx"})
	require.NoError(t, err)
	assert.Empty(t, unreadable)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(root, "src", "App.tsx"), files[0])
	assert.Equal(t, filepath.Join(root, "src", "types.ts"), files[1])
}

func TestDiscoverFiles_UnsupportedExtensionsDropped(t *testing.T) {
	root := writeTree(t, projectFiles)

	files, unreadable, err := DiscoverFiles(root, []string{"**/*"}, DefaultExclude)
	require.NoError(t, err)
	assert.Empty(t, unreadable)
	for _, f := range files {
		assert.NotEqual(t, ".css", filepath.Ext(f))
	}
}

func TestDiscoverFiles_InvalidPattern(t *testing.T) {
	_, _, err := DiscoverFiles(t.TempDir(), []string{"[bad"}, nil)
	assert.ErrorContains(t, err, "invalid include pattern")

	_, _, err = DiscoverFiles(t.TempDir(), nil, []string{"[bad"})
	assert.ErrorContains(t, err, "invalid exclude pattern")
}

// failDirs makes the walk report a permission error for directories with
// the given base names, as WalkDir does when ReadDir fails.
func failDirs(t *testing.T, names ...string) {
	t.Helper()
	orig := walkDir
	t.Cleanup(func() { walkDir = orig })
	walkDir = func(root string, fn fs.WalkDirFunc) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() && path != root {
				for _, name := range names {
					if d.Name() == name {
						if ferr := fn(path, d, fs.ErrPermission); ferr != nil {
							return ferr
						}
						return filepath.SkipDir
					}
				}
			}
			return fn(path, d, err)
		})
	}
}

func TestDiscoverFiles_ReportsUnreadableEntries(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.tsx":            `<App />`,
		"src/locked/Hidden.tsx":  `<Hidden />`,
		"src/private/Secret.tsx": `<Secret />`,
	})
	failDirs(t, "locked", "private")
	exclude := append([]string{"**/private"}, DefaultExclude...)

	files, unreadable, err := DiscoverFiles(root, DefaultInclude, exclude)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "App.tsx")}, files)

	// Excluded directories are never reported.
	require.Len(t, unreadable, 1)
	assert.Equal(t, filepath.Join(root, "src", "locked"), unreadable[0].File)
	assert.Equal(t, ErrorTypeFileRead, unreadable[0].Reason)
	assert.Contains(t, unreadable[0].Error, "permission denied")
}

func TestDiscoverFiles_UnreadableFilesOutsideIncludeIgnored(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.tsx":   `<App />`,
		"src/Lost.tsx":  `<Lost />`,
		"src/README.md": "# docs",
	})
	orig := walkDir
	t.Cleanup(func() { walkDir = orig })
	walkDir = func(root string, fn fs.WalkDirFunc) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if d != nil && !d.IsDir() && d.Name() != "App.tsx" {
				return fn(path, d, fs.ErrPermission)
			}
			return fn(path, d, err)
		})
	}

	files, unreadable, err := DiscoverFiles(root, DefaultInclude, DefaultExclude)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "App.tsx")}, files)
	require.Len(t, unreadable, 1)
	assert.Equal(t, filepath.Join(root, "src", "Lost.tsx"), unreadable[0].File)
}

func TestDiscoverFiles_UnreadableRootFails(t *testing.T) {
	orig := walkDir
	t.Cleanup(func() { walkDir = orig })
	walkDir = func(root string, fn fs.WalkDirFunc) error {
		return fn(root, nil, fs.ErrPermission)
	}

	_, _, err := DiscoverFiles(t.TempDir(), DefaultInclude, DefaultExclude)
	assert.ErrorIs(t, err, fs.ErrPermission)
}
