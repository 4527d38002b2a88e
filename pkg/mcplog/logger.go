// Package mcplog writes one JSON line per MCP tool call.
package mcplog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// LogEntry is the schema for one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	// IsError is set for protocol errors and for tool error results.
	IsError bool    `json:"is_error"`
	Error   *string `json:"error"`
}

// NewEntry describes a finished tool call.
func NewEntry(req mcp.CallToolRequest, start time.Time, result *mcp.CallToolResult, callErr error) LogEntry {
	entry := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          req.Params.Name,
		Params:        SanitizeParams(req.GetArguments()),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: ResponseBytes(result),
	}
	switch {
	case callErr != nil:
		msg := callErr.Error()
		entry.IsError, entry.Error = true, &msg
	case result != nil && result.IsError:
		entry.IsError = true
		if msg := errorText(result); msg != "" {
			entry.Error = &msg
		}
	}
	return entry
}

func errorText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// Logger serializes entries to an underlying writer. Safe for concurrent
// use. A nil *Logger discards everything.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	enc *json.Encoder
}

// New returns a Logger writing to w. Close closes w when it is an io.Closer.
func New(w io.Writer) *Logger {
	return &Logger{w: w, enc: json.NewEncoder(w)}
}

// Open appends to the file at path, creating it and its parent directories.
// An empty path returns nil, nil: logging is disabled.
func Open(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return New(f), nil
}

// Write appends one entry.
func (l *Logger) Write(entry LogEntry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close releases the underlying writer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// shortStringMax keeps absolute project paths and identifiers intact.
const shortStringMax = 256

// SanitizeParams copies args, replacing strings longer than shortStringMax
// bytes with a "{key}_len" length.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		s, ok := v.(string)
		if ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
			continue
		}
		out[k] = v
	}
	return out
}

// ResponseBytes is the serialized size of a result's content; 0 for nil.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Now is a replaceable clock for testing.
var Now = time.Now
