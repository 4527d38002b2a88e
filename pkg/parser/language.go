package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a grammar family understood by the parser manager.
type Language int

const (
	// LanguageTypeScript covers .ts, .mts, .cts and .tsx sources.
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js, .jsx, .mjs and .cjs sources (JSX enabled).
	LanguageJavaScript
	// LanguageUnknown marks an unsupported extension.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Grammar describes which tree-sitter grammar a file needs.
type Grammar struct {
	Language Language
	// TSX selects the TSX dialect of the TypeScript grammar.
	TSX bool
}

// String returns e.g. "typescript", "tsx" or "javascript".
func (g Grammar) String() string {
	if g.Language == LanguageTypeScript && g.TSX {
		return "tsx"
	}
	return g.Language.String()
}

// DetectGrammar maps a file path to its grammar by extension.
// The second return value is false for unsupported extensions.
func DetectGrammar(filePath string) (Grammar, bool) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx":
		return Grammar{Language: LanguageTypeScript, TSX: true}, true
	case ".ts", ".mts", ".cts":
		return Grammar{Language: LanguageTypeScript}, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return Grammar{Language: LanguageJavaScript}, true
	default:
		return Grammar{Language: LanguageUnknown}, false
	}
}

// CanContainJSX reports whether files with this path's extension may hold
// JSX syntax. Plain .ts files cannot: their grammar reads <T>x as a cast.
func CanContainJSX(filePath string) bool {
	g, ok := DetectGrammar(filePath)
	if !ok {
		return false
	}
	return g.Language == LanguageJavaScript || g.TSX
}
