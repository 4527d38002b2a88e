package analyzer

import (
	"errors"
	"fmt"

	"github.com/gnana997/propscan/pkg/props"
)

// ErrorType classifies analysis failures.
type ErrorType string

const (
	// Per-file failures; the file is skipped.
	ErrorTypeParse    ErrorType = "parse"
	ErrorTypeFileRead ErrorType = "file_read"

	// Request failures; nothing is analyzed.
	ErrorTypeInvalidPath     ErrorType = "invalid_path"
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"

	// Per-node failures; the node is skipped.
	ErrorTypeAnalyzer ErrorType = "analyzer"
)

// ErrInvalidArgument is returned (wrapped) when a required argument is missing.
var ErrInvalidArgument = errors.New("invalid argument")

func missingArgument(name string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
}

// ParseError means no syntax tree could be produced for a file.
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Underlying error
}

// NewParseError creates a parse error for path.
func NewParseError(path string, err error) *ParseError {
	return &ParseError{Type: ErrorTypeParse, FilePath: path, Underlying: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.FilePath, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// FileReadError is an I/O failure reading a file.
type FileReadError struct {
	Type       ErrorType
	FilePath   string
	Underlying error
}

// NewFileReadError creates a read error for path.
func NewFileReadError(path string, err error) *FileReadError {
	return &FileReadError{Type: ErrorTypeFileRead, FilePath: path, Underlying: err}
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.FilePath, e.Underlying)
}

func (e *FileReadError) Unwrap() error { return e.Underlying }

// InvalidPathError rejects the root path of a request.
type InvalidPathError struct {
	Type       ErrorType
	Path       string
	Reason     string
	Underlying error
}

// NewInvalidPathError creates an invalid path error.
func NewInvalidPathError(path, reason string, err error) *InvalidPathError {
	return &InvalidPathError{Type: ErrorTypeInvalidPath, Path: path, Reason: reason, Underlying: err}
}

func (e *InvalidPathError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("invalid path %q: %s: %v", e.Path, e.Reason, e.Underlying)
	}
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Unwrap() error { return e.Underlying }

// AnalyzerError wraps a node the extractor skipped.
type AnalyzerError struct {
	Type ErrorType
	Node props.NodeError
}

// NewAnalyzerError wraps a skipped node.
func NewAnalyzerError(node props.NodeError) *AnalyzerError {
	return &AnalyzerError{Type: ErrorTypeAnalyzer, Node: node}
}

func (e *AnalyzerError) Error() string {
	return "analyzer: " + e.Node.Error()
}

func (e *AnalyzerError) Unwrap() error { return &e.Node }

// SkippedFile records a file left out of a result.
type SkippedFile struct {
	File   string    `json:"file"`
	Reason ErrorType `json:"reason"`
	Error  string    `json:"error"`
}

// skippedFrom converts a per-file error into a SkippedFile.
func skippedFrom(path string, err error) SkippedFile {
	reason := ErrorTypeFileRead
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		reason = ErrorTypeParse
	}
	return SkippedFile{File: path, Reason: reason, Error: err.Error()}
}

// ErrorTypeOf returns the ErrorType of err, or "" when err is not one of
// the typed errors of this package.
func ErrorTypeOf(err error) ErrorType {
	var (
		parseErr    *ParseError
		readErr     *FileReadError
		pathErr     *InvalidPathError
		analyzerErr *AnalyzerError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return ErrorTypeInvalidArgument
	case errors.As(err, &pathErr):
		return ErrorTypeInvalidPath
	case errors.As(err, &parseErr):
		return ErrorTypeParse
	case errors.As(err, &readErr):
		return ErrorTypeFileRead
	case errors.As(err, &analyzerErr):
		return ErrorTypeAnalyzer
	}
	return ""
}
