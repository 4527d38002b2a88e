// Package parser wraps the tree-sitter JavaScript and TypeScript grammars
// behind a pooled, concurrency-safe parse API.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/propscan/pkg/util"
)

// ErrUnsupportedFile is returned by ParseFile for extensions without a grammar.
var ErrUnsupportedFile = errors.New("unsupported file extension")

// ParserManager manages tree-sitter parsers for the JS/TS grammars with lazy
// initialization and thread-safe concurrent access.
//
// Memory Management:
//   - Pools are created on first use per grammar and owned by the manager.
//   - Callers own the returned Tree and must call tree.Close().
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile("src/App.tsx", source)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Grammar]*parserPool
	mu       sync.RWMutex
	poolSize int
	logger   *slog.Logger

	parses       atomic.Int64
	syntaxErrors atomic.Int64
}

// Option configures a ParserManager.
type Option func(*ParserManager)

// WithPoolSize overrides the per-grammar parser count. Zero keeps the
// CPU-based default, which must stay equal to the analyzer worker count so
// workers never wait on parsers.
func WithPoolSize(n int) Option {
	return func(pm *ParserManager) {
		pm.poolSize = util.GetOptimalPoolSizeWithOverride(n)
	}
}

// NewParserManager creates a new ParserManager. It must be closed via Close().
func NewParserManager(logger *slog.Logger, opts ...Option) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	pm := &ParserManager{
		pools:    make(map[Grammar]*parserPool),
		poolSize: util.GetOptimalPoolSize(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(pm)
	}
	return pm
}

// Parse parses source with the given grammar.
//
// Trees containing syntax errors are still returned: tree-sitter recovers
// with ERROR nodes and the partial tree is useful for prop extraction.
func (pm *ParserManager) Parse(source []byte, grammar Grammar) (*ts.Tree, error) {
	if grammar.Language == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}
	pm.parses.Add(1)

	pool, err := pm.getOrCreatePool(grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", grammar, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree for %s source", grammar)
	}

	if tree.RootNode().HasError() {
		pm.syntaxErrors.Add(1)
		pm.logger.Debug("parse tree contains errors", "grammar", grammar.String())
	}
	return tree, nil
}

// ParseFile detects the grammar from filePath and parses source with it.
func (pm *ParserManager) ParseFile(filePath string, source []byte) (*ts.Tree, error) {
	grammar, ok := DetectGrammar(filePath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filePath)
	}
	return pm.Parse(source, grammar)
}

// Close releases all parser pools. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	closed := 0
	for _, pool := range pm.pools {
		closed += pool.close()
	}
	pm.pools = make(map[Grammar]*parserPool)

	pm.logger.Debug("closed ParserManager",
		"parsers_closed", closed,
		"parses", pm.parses.Load(),
		"syntax_errors", pm.syntaxErrors.Load())
	return nil
}

func (pm *ParserManager) getOrCreatePool(grammar Grammar) (*parserPool, error) {
	pm.mu.RLock()
	pool, ok := pm.pools[grammar]
	pm.mu.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pool, ok = pm.pools[grammar]; ok {
		return pool, nil
	}

	langPtr, err := languagePointer(grammar)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(grammar, langPtr, pm.poolSize, pm.logger)
	pm.pools[grammar] = pool

	pm.logger.Debug("created parser pool", "grammar", grammar.String(), "max_size", pm.poolSize)
	return pool, nil
}

func languagePointer(grammar Grammar) (unsafe.Pointer, error) {
	switch grammar.Language {
	case LanguageTypeScript:
		if grammar.TSX {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", grammar.Language)
	}
}

// Stats returns parser usage statistics.
func (pm *ParserManager) Stats() ParserStats {
	pm.mu.RLock()
	created := 0
	for _, pool := range pm.pools {
		created += pool.createdCount()
	}
	pm.mu.RUnlock()

	return ParserStats{
		ParsersCreated: created,
		Parses:         pm.parses.Load(),
		SyntaxErrors:   pm.syntaxErrors.Load(),
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	Parses         int64
	// SyntaxErrors counts parses whose tree contained ERROR nodes.
	SyntaxErrors int64
}
