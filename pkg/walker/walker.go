// Package walker implements a deterministic pre-order traversal over
// tree-sitter JavaScript/TypeScript syntax trees with typed callbacks.
//
// Every node is classified into a closed set of categories. Nodes in
// CategoryOther are traversed but produce no callback, so grammars that
// introduce new node kinds never cause a failure.
package walker

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Category is the syntactic category of a node as far as prop analysis cares.
type Category int

const (
	// CategoryOther is every node kind without a callback.
	CategoryOther Category = iota
	// CategoryJSXOpening is a JSX opening tag or self-closing element.
	CategoryJSXOpening
	// CategoryFunction is any function-like declaration or expression.
	CategoryFunction
	// CategoryClass is a class declaration or class expression.
	CategoryClass
	// CategoryTypeDecl is a type alias or interface declaration.
	CategoryTypeDecl
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryJSXOpening:
		return "jsx_opening"
	case CategoryFunction:
		return "function"
	case CategoryClass:
		return "class"
	case CategoryTypeDecl:
		return "type_decl"
	default:
		return "other"
	}
}

var categories = map[string]Category{
	"jsx_opening_element":            CategoryJSXOpening,
	"jsx_self_closing_element":       CategoryJSXOpening,
	"function_declaration":           CategoryFunction,
	"generator_function_declaration": CategoryFunction,
	"function_expression":            CategoryFunction,
	"function":                       CategoryFunction,
	"generator_function":             CategoryFunction,
	"arrow_function":                 CategoryFunction,
	"method_definition":              CategoryFunction,
	"class_declaration":              CategoryClass,
	"abstract_class_declaration":     CategoryClass,
	"class":                          CategoryClass,
	"type_alias_declaration":         CategoryTypeDecl,
	"interface_declaration":          CategoryTypeDecl,
}

// Classify returns the category of a node kind.
func Classify(kind string) Category {
	return categories[kind]
}

// Visitor holds one optional callback per category. Nil callbacks are skipped.
type Visitor struct {
	JSXOpening func(node *ts.Node)
	Function   func(node *ts.Node)
	Class      func(node *ts.Node)
	TypeDecl   func(node *ts.Node)
}

func (v *Visitor) dispatch(node *ts.Node) {
	var fn func(*ts.Node)
	switch Classify(node.Kind()) {
	case CategoryJSXOpening:
		fn = v.JSXOpening
	case CategoryFunction:
		fn = v.Function
	case CategoryClass:
		fn = v.Class
	case CategoryTypeDecl:
		fn = v.TypeDecl
	}
	if fn != nil {
		fn(node)
	}
}

// Walk visits root and all of its descendants in pre-order: a parent before
// its children, children in source order. Each node is visited at most once.
// It returns the number of nodes visited.
func Walk(root *ts.Node, v Visitor) int {
	if root == nil {
		return 0
	}

	cursor := root.Walk()
	defer cursor.Close()

	visited := make(map[uintptr]struct{})
	stack := []*ts.Node{root}
	var children []*ts.Node
	count := 0

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := node.Id()
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		count++

		v.dispatch(node)

		children = appendChildren(children[:0], cursor, node)
		// Push in reverse so the first child is popped first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return count
}

// appendChildren appends the children of node to dst in source order.
// Sibling steps on a cursor are constant time, unlike Node.Child(i).
func appendChildren(dst []*ts.Node, cursor *ts.TreeCursor, node *ts.Node) []*ts.Node {
	cursor.Reset(*node)
	if !cursor.GotoFirstChild() {
		return dst
	}
	for {
		if child := cursor.Node(); child != nil {
			dst = append(dst, child)
		}
		if !cursor.GotoNextSibling() {
			return dst
		}
	}
}
