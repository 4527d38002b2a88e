package analyzer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/propscan/pkg/parser"
)

// Invalidator drops cached state for a file.
type Invalidator interface {
	Invalidate(path string)
}

// FileWatcher evicts cached per-file results when source files change.
//
// Usage:
//
//	watcher, err := NewFileWatcher(engine.Cache(), cfg.Exclude, logger)
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start(root); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
type FileWatcher struct {
	watcher *fsnotify.Watcher
	target  Invalidator
	exclude []string
	logger  *slog.Logger

	root string

	// Lifecycle
	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a watcher invalidating entries of target.
func NewFileWatcher(target Invalidator, exclude []string, logger *slog.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := ValidatePatterns(nil, exclude); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  watcher,
		target:   target,
		exclude:  exclude,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start watches rootPath and every non-excluded directory below it.
// It may be called once.
func (fw *FileWatcher) Start(rootPath string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if fw.started {
		return fmt.Errorf("watcher already started")
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}
	fw.root = root

	if err := fw.addTree(root); err != nil {
		return err
	}

	fw.started = true
	fw.logger.Info("file watcher started", "root", root)
	go fw.eventLoop()
	return nil
}

// addTree adds dir and its non-excluded subdirectories.
func (fw *FileWatcher) addTree(dir string) error {
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() || path == dir {
			return nil
		}
		if fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher. Safe to call multiple times.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	started := fw.started
	close(fw.stopChan)
	fw.mu.Unlock()

	err := fw.watcher.Close()
	if started {
		<-fw.done
	}
	fw.logger.Info("file watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	defer close(fw.done)
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if fw.shouldIgnore(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := fw.addTree(path); err != nil {
				fw.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	// Plain .ts results never hold components; the content hash still
	// guards their cache entries.
	if !parser.CanContainJSX(path) {
		return
	}

	fw.logger.Debug("file event", "op", event.Op.String(), "file", path)
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		fw.target.Invalidate(path)
	}
}

// shouldIgnore matches path against the exclude globs relative to the root.
func (fw *FileWatcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(fw.root, path)
	if err != nil {
		return false
	}
	return matchAny(fw.exclude, filepath.ToSlash(rel))
}
