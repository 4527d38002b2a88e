// Package props extracts prop usages from JSX/TSX syntax trees and resolves
// the declared props type of components within a single file.
package props

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind is the literal category of a prop value.
type ValueKind string

const (
	KindString     ValueKind = "string"
	KindNumber     ValueKind = "number"
	KindBoolean    ValueKind = "boolean"
	KindExpression ValueKind = "expression"
	KindNull       ValueKind = "null"
)

// PropValue is the value passed to a prop. Only the field matching Kind is
// meaningful; Text holds the source text for every kind except boolean.
type PropValue struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
}

// StringValue returns a string literal value.
func StringValue(s string) PropValue { return PropValue{Kind: KindString, Text: s} }

// NumberValue returns a number literal value with its source text.
func NumberValue(n float64, text string) PropValue {
	return PropValue{Kind: KindNumber, Number: n, Text: text}
}

// BoolValue returns a boolean literal value.
func BoolValue(b bool) PropValue { return PropValue{Kind: KindBoolean, Bool: b} }

// ExpressionValue returns a (possibly truncated) expression value.
func ExpressionValue(text string) PropValue { return PropValue{Kind: KindExpression, Text: text} }

// NullValue returns the null value. text is "null" or "undefined".
func NullValue(text string) PropValue { return PropValue{Kind: KindNull, Text: text} }

// String renders the value the way it would appear in source.
func (v PropValue) String() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Text)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		if v.Text != "" {
			return v.Text
		}
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	default:
		return v.Text
	}
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...} where value
// carries the natural JSON type of the literal.
func (v PropValue) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind  ValueKind `json:"kind"`
		Value any       `json:"value"`
	}{Kind: v.Kind}

	switch v.Kind {
	case KindString, KindExpression:
		out.Value = v.Text
	case KindNumber:
		out.Value = v.Number
	case KindBoolean:
		out.Value = v.Bool
	case KindNull:
		out.Value = nil
	default:
		return nil, fmt.Errorf("unknown prop value kind %q", v.Kind)
	}
	return json.Marshal(out)
}

// PropUsage is one attribute on one JSX element. It is comparable; two
// usages are equal iff every field matches.
type PropUsage struct {
	File          string    `json:"file,omitempty"`
	PropName      string    `json:"prop_name"`
	ComponentName string    `json:"component_name"`
	Line          int       `json:"line"`   // 1-based
	Column        int       `json:"column"` // 1-based
	Value         PropValue `json:"value"`
	IsSpread      bool      `json:"is_spread"`
}

// ComponentAnalysis groups the props of one component instance.
type ComponentAnalysis struct {
	ComponentName  string      `json:"component_name"`
	File           string      `json:"file"`
	Line           int         `json:"line"`
	Column         int         `json:"column"`
	Props          []PropUsage `json:"props"`
	PropsInterface string      `json:"props_interface,omitempty"`
	DeclaredIn     string      `json:"declared_in,omitempty"`
	HasSpread      bool        `json:"has_spread"`
}

// NamedProps returns the names of the non-spread props, in source order.
func (c *ComponentAnalysis) NamedProps() []string {
	names := make([]string, 0, len(c.Props))
	for _, p := range c.Props {
		if !p.IsSpread {
			names = append(names, p.PropName)
		}
	}
	return names
}

// IdentityMode selects what ComponentName refers to.
type IdentityMode int

const (
	// IdentityUsageSite names each instance after the invoked tag.
	IdentityUsageSite IdentityMode = iota
	// IdentityDeclaration groups instances under the nearest enclosing
	// component declaration, falling back to the tag name.
	IdentityDeclaration
)

// String returns the mode name.
func (m IdentityMode) String() string {
	if m == IdentityDeclaration {
		return "declaration"
	}
	return "usage"
}

// ParseIdentityMode parses "usage" or "declaration". Empty means usage.
func ParseIdentityMode(s string) (IdentityMode, error) {
	switch s {
	case "", "usage":
		return IdentityUsageSite, nil
	case "declaration":
		return IdentityDeclaration, nil
	}
	return IdentityUsageSite, fmt.Errorf("unknown identity mode %q (valid: usage, declaration)", s)
}

// DefaultMaxExpressionLength is the rune limit for expression text.
const DefaultMaxExpressionLength = 100

// Options controls extraction.
type Options struct {
	Identity IdentityMode

	// IncludeIntrinsic keeps lower-case host elements such as <div>.
	IncludeIntrinsic bool

	// ResolveTypes enables the props-type resolver.
	ResolveTypes bool

	// MaxExpressionLength truncates expression text. 0 uses the default.
	MaxExpressionLength int
}

// DefaultOptions returns usage-site identity with type resolution enabled.
func DefaultOptions() Options {
	return Options{
		Identity:            IdentityUsageSite,
		ResolveTypes:        true,
		MaxExpressionLength: DefaultMaxExpressionLength,
	}
}

// Fingerprint identifies the options for caching extraction results.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("%s|%t|%t|%d", o.Identity, o.IncludeIntrinsic, o.ResolveTypes, o.maxExpr())
}

func (o Options) maxExpr() int {
	if o.MaxExpressionLength <= 0 {
		return DefaultMaxExpressionLength
	}
	return o.MaxExpressionLength
}

// NodeError describes a syntax node the extractor could not interpret.
// The node is skipped; the rest of the file is still analyzed.
type NodeError struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	NodeKind string `json:"node_kind"`
	Reason   string `json:"reason"`
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s:%d:%d: skipped %s: %s", e.File, e.Line, e.Column, e.NodeKind, e.Reason)
}

// FileResult is the extraction output for one file.
type FileResult struct {
	File       string
	Components []ComponentAnalysis

	// Declarations maps component declaration names to their props type.
	// Empty when type resolution is disabled.
	Declarations map[string]string

	// Skipped lists nodes that were not understood.
	Skipped []NodeError

	// HasSyntaxErrors reports whether the tree contained ERROR nodes.
	HasSyntaxErrors bool
}

// PropCount returns the number of prop usages in the file.
func (r *FileResult) PropCount() int {
	n := 0
	for i := range r.Components {
		n += len(r.Components[i].Props)
	}
	return n
}
