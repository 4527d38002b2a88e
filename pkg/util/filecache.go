package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/edsrzf/mmap-go"
)

// FileCache provides read access to source files through memory maps.
//
// A cache lives for one analysis run: files are mapped on first Read and
// stay mapped until Close, so byte slices returned by Read are only valid
// until then. Files that cannot be mapped (or that would exceed the limits)
// are read with os.ReadFile instead and are not retained.
//
// Safe for concurrent use.
type FileCache interface {
	// Read returns the full contents of filePath.
	Read(filePath string) ([]byte, error)

	// Size returns the number of currently mapped files.
	Size() int

	// Stats returns counters for the cache lifetime.
	Stats() FileCacheStats

	// Close unmaps every file. Slices returned by Read become invalid.
	Close() error
}

// FileCacheConfig controls FileCache behavior.
type FileCacheConfig struct {
	// MaxFiles caps the number of simultaneously mapped files. 0 = unlimited.
	MaxFiles int

	// MaxMappedBytes caps the total mapped size. 0 = unlimited.
	MaxMappedBytes int64

	// Logger for warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultFileCacheConfig returns limits suitable for a single repository scan.
func DefaultFileCacheConfig() FileCacheConfig {
	return FileCacheConfig{
		MaxFiles:       10000,
		MaxMappedBytes: 2 << 30,
	}
}

// FileCacheStats tracks cache behavior.
type FileCacheStats struct {
	// Mapped is the number of files served from a memory map.
	Mapped int64
	// Fallbacks is the number of reads served by os.ReadFile.
	Fallbacks int64
	// Hits counts repeated reads of an already mapped file.
	Hits int64
	// MappedBytes is the current total mapped size.
	MappedBytes int64
}

type mappedFile struct {
	data mmap.MMap
	file *os.File
}

type fileCache struct {
	config FileCacheConfig
	logger *slog.Logger

	mu          sync.RWMutex
	files       map[string]*mappedFile
	mappedBytes int64
	closed      bool

	mapped    atomic.Int64
	fallbacks atomic.Int64
	hits      atomic.Int64
}

// NewFileCache creates a FileCache with the given config.
func NewFileCache(config FileCacheConfig) FileCache {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCache{
		config: config,
		logger: logger,
		files:  make(map[string]*mappedFile),
	}
}

func (fc *fileCache) Read(filePath string) ([]byte, error) {
	fc.mu.RLock()
	if fc.closed {
		fc.mu.RUnlock()
		return nil, errors.New("file cache is closed")
	}
	if mf, ok := fc.files[filePath]; ok {
		fc.mu.RUnlock()
		fc.hits.Add(1)
		return mf.data, nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if mf, ok := fc.files[filePath]; ok {
		fc.hits.Add(1)
		return mf.data, nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", filePath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %q: %w", filePath, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%q is a directory", filePath)
	}

	// Empty files cannot be mapped; over-limit files are read but not retained.
	if info.Size() == 0 || !fc.withinLimitsLocked(info.Size()) {
		f.Close()
		return fc.readFallback(filePath)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		fc.logger.Debug("mmap failed, reading file instead", "file", filePath, "error", err)
		return fc.readFallback(filePath)
	}

	fc.files[filePath] = &mappedFile{data: data, file: f}
	fc.mappedBytes += int64(len(data))
	fc.mapped.Add(1)
	return data, nil
}

func (fc *fileCache) withinLimitsLocked(size int64) bool {
	if fc.config.MaxFiles > 0 && len(fc.files) >= fc.config.MaxFiles {
		return false
	}
	if fc.config.MaxMappedBytes > 0 && fc.mappedBytes+size > fc.config.MaxMappedBytes {
		return false
	}
	return true
}

func (fc *fileCache) readFallback(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", filePath, err)
	}
	fc.fallbacks.Add(1)
	return data, nil
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

func (fc *fileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	mappedBytes := fc.mappedBytes
	fc.mu.RUnlock()

	return FileCacheStats{
		Mapped:      fc.mapped.Load(),
		Fallbacks:   fc.fallbacks.Load(),
		Hits:        fc.hits.Load(),
		MappedBytes: mappedBytes,
	}
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.files {
		if err := mf.data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap %q: %w", path, err))
		}
		if err := mf.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", path, err))
		}
	}
	fc.files = make(map[string]*mappedFile)
	fc.mappedBytes = 0
	fc.closed = true

	return errors.Join(errs...)
}
