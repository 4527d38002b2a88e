package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers bound to a single grammar.
//
// Parsers are not safe for concurrent use, so each in-flight parse holds one
// exclusively. Parsers are created lazily up to maxSize; once that many exist
// acquire blocks until one is released.
type parserPool struct {
	pool    chan *ts.Parser
	langPtr unsafe.Pointer
	grammar Grammar
	maxSize int

	mu      sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(grammar Grammar, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		langPtr: langPtr,
		grammar: grammar,
		maxSize: maxSize,
		logger:  logger,
	}
}

// acquire returns an idle parser, creating one if the pool has headroom.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created >= p.maxSize {
		p.mu.Unlock()
		return <-p.pool, nil
	}

	parser := ts.NewParser()
	if parser == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to create %s parser", p.grammar)
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.langPtr)); err != nil {
		parser.Close()
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to set %s language: %w", p.grammar, err)
	}
	p.created++
	created := p.created
	p.mu.Unlock()

	p.logger.Debug("created parser", "grammar", p.grammar.String(), "pool_size", created)
	return parser, nil
}

// release puts a parser back. A parser that does not fit is closed.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "grammar", p.grammar.String())
	}
}

// close drains and closes every idle parser. The pool is unusable afterwards.
func (p *parserPool) close() int {
	close(p.pool)
	count := 0
	for parser := range p.pool {
		parser.Close()
		count++
	}
	return count
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
