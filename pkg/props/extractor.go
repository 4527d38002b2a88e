package props

import (
	"strconv"
	"strings"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/propscan/pkg/walker"
)

// ExtractFile walks one parsed file and returns its component instances.
//
// Declarations and JSX elements are collected in a single walk; elements are
// processed afterwards so that a props type declared below its usage still
// resolves.
func ExtractFile(root *ts.Node, source []byte, file string, opts Options) *FileResult {
	result := &FileResult{File: file}
	if root == nil {
		return result
	}
	result.HasSyntaxErrors = root.HasError()

	res := newResolver(source)
	var openings []*ts.Node

	walker.Walk(root, walker.Visitor{
		JSXOpening: func(n *ts.Node) { openings = append(openings, n) },
		Function:   res.addFunction,
		Class:      res.addClass,
		TypeDecl:   res.addTypeDecl,
	})

	if opts.ResolveTypes {
		result.Declarations = res.resolve()
	}

	x := &extraction{
		file:   file,
		source: source,
		opts:   opts,
		types:  result.Declarations,
		result: result,
		groups: make(map[uintptr]int),
	}
	for _, n := range openings {
		x.element(n)
	}
	return result
}

type extraction struct {
	file   string
	source []byte
	opts   Options
	types  map[string]string
	result *FileResult

	// groups maps an enclosing declaration node to its ComponentAnalysis
	// index in declaration identity mode.
	groups map[uintptr]int
}

func (x *extraction) element(node *ts.Node) {
	nameNode := tagNameNode(node)
	if nameNode == nil {
		// Fragment.
		return
	}
	tag := nameNode.Utf8Text(x.source)
	isMember := nameNode.Kind() == "member_expression"
	if !isMember && !isComponentName(tag) && !x.opts.IncludeIntrinsic {
		return
	}

	decl, declName := enclosingDeclaration(node, x.source)
	line, col := position(node)

	componentName := tag
	if x.opts.Identity == IdentityDeclaration && decl != nil {
		componentName = declName
	}

	props := x.attributes(node, nameNode, componentName)

	if x.opts.Identity == IdentityDeclaration && decl != nil {
		if idx, ok := x.groups[decl.Id()]; ok {
			ca := &x.result.Components[idx]
			ca.Props = append(ca.Props, props...)
			ca.HasSpread = ca.HasSpread || hasSpread(props)
			return
		}
		x.groups[decl.Id()] = len(x.result.Components)
		line, col = position(decl)
	}

	x.result.Components = append(x.result.Components, ComponentAnalysis{
		ComponentName:  componentName,
		File:           x.file,
		Line:           line,
		Column:         col,
		Props:          props,
		PropsInterface: x.types[componentName],
		DeclaredIn:     declName,
		HasSpread:      hasSpread(props),
	})
}

// attributes converts the attributes of an opening element into usages.
func (x *extraction) attributes(node, nameNode *ts.Node, componentName string) []PropUsage {
	props := make([]PropUsage, 0, node.NamedChildCount())

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Id() == nameNode.Id() {
			continue
		}
		line, col := position(child)

		switch child.Kind() {
		case "jsx_attribute":
			name, value, ok := x.namedAttribute(child)
			if !ok {
				x.skip(child, "attribute has no name")
				continue
			}
			props = append(props, PropUsage{
				PropName:      name,
				ComponentName: componentName,
				Line:          line,
				Column:        col,
				Value:         value,
			})

		case "jsx_expression":
			spread := firstNamedChild(child)
			if spread == nil || spread.Kind() != "spread_element" {
				x.skip(child, "expression attribute is not a spread")
				continue
			}
			arg := firstNamedChild(spread)
			argText := ""
			if arg != nil {
				argText = arg.Utf8Text(x.source)
			}
			props = append(props, PropUsage{
				PropName:      x.truncate(spread.Utf8Text(x.source)),
				ComponentName: componentName,
				Line:          line,
				Column:        col,
				Value:         ExpressionValue(x.truncate(argText)),
				IsSpread:      true,
			})

		case "comment", "type_arguments", "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			// Type arguments and stray name parts are not attributes.

		default:
			x.skip(child, "unrecognized attribute node")
		}
	}
	return props
}

func (x *extraction) namedAttribute(attr *ts.Node) (string, PropValue, bool) {
	nameNode := firstNamedChild(attr)
	if nameNode == nil {
		return "", PropValue{}, false
	}
	switch nameNode.Kind() {
	case "property_identifier", "jsx_namespace_name", "identifier":
	default:
		return "", PropValue{}, false
	}
	name := nameNode.Utf8Text(x.source)

	var valueNode *ts.Node
	for i := uint(0); i < attr.NamedChildCount(); i++ {
		if child := attr.NamedChild(i); child.Id() != nameNode.Id() && child.Kind() != "comment" {
			valueNode = child
			break
		}
	}
	if valueNode == nil {
		// <Button disabled />
		return name, BoolValue(true), true
	}
	return name, x.value(valueNode), true
}

// value classifies an attribute value node.
func (x *extraction) value(node *ts.Node) PropValue {
	switch node.Kind() {
	case "string":
		return StringValue(unquote(node.Utf8Text(x.source)))
	case "jsx_expression":
		inner := firstNamedChild(node)
		if inner == nil {
			return ExpressionValue("")
		}
		return x.literal(inner)
	default:
		// Nested JSX element or fragment.
		return ExpressionValue(x.truncate(node.Utf8Text(x.source)))
	}
}

func (x *extraction) literal(node *ts.Node) PropValue {
	text := node.Utf8Text(x.source)
	switch node.Kind() {
	case "string":
		return StringValue(unquote(text))
	case "number":
		if n, ok := parseNumber(text); ok {
			return NumberValue(n, text)
		}
	case "unary_expression":
		if n, ok := signedNumber(node, x.source); ok {
			return NumberValue(n, text)
		}
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	case "null", "undefined":
		return NullValue(text)
	case "template_string":
		if findKind(node, "template_substitution") == nil {
			return StringValue(unquote(text))
		}
	case "identifier":
		if text == "undefined" {
			return NullValue(text)
		}
	}
	return ExpressionValue(x.truncate(text))
}

func (x *extraction) truncate(s string) string {
	limit := x.opts.maxExpr()
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

func (x *extraction) skip(node *ts.Node, reason string) {
	line, col := position(node)
	x.result.Skipped = append(x.result.Skipped, NodeError{
		File:     x.file,
		Line:     line,
		Column:   col,
		NodeKind: node.Kind(),
		Reason:   reason,
	})
}

// tagNameNode returns the name node of an opening or self-closing element,
// or nil for fragments.
func tagNameNode(node *ts.Node) *ts.Node {
	if name := node.ChildByFieldName("name"); name != nil {
		return name
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			return child
		}
	}
	return nil
}

// enclosingDeclaration walks up from node to the nearest named component
// declaration. Anonymous and lower-case functions are walked through; a
// class method resolves to its class.
func enclosingDeclaration(node *ts.Node, source []byte) (*ts.Node, string) {
	for n := node.Parent(); n != nil; n = n.Parent() {
		switch walker.Classify(n.Kind()) {
		case walker.CategoryFunction:
			if n.Kind() == "method_definition" {
				continue
			}
			if name, _, _ := functionBinding(n, source); isComponentName(name) {
				return n, name
			}
		case walker.CategoryClass:
			if name := classBinding(n, source); isComponentName(name) {
				return n, name
			}
		}
	}
	return nil, ""
}

func firstNamedChild(node *ts.Node) *ts.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child.Kind() != "comment" {
			return child
		}
	}
	return nil
}

func position(node *ts.Node) (int, int) {
	p := node.StartPosition()
	return int(p.Row) + 1, int(p.Column) + 1
}

func hasSpread(props []PropUsage) bool {
	for _, p := range props {
		if p.IsSpread {
			return true
		}
	}
	return false
}

// unquote strips the delimiters of a string or template literal. Escape
// sequences are kept as written.
func unquote(text string) string {
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// signedNumber reads -1 or +2.5: a sign applied directly to a number literal.
func signedNumber(node *ts.Node, source []byte) (float64, bool) {
	op, arg := node.ChildByFieldName("operator"), node.ChildByFieldName("argument")
	if op == nil || arg == nil || arg.Kind() != "number" {
		return 0, false
	}
	n, ok := parseNumber(arg.Utf8Text(source))
	if !ok {
		return 0, false
	}
	switch op.Kind() {
	case "-":
		return -n, true
	case "+":
		return n, true
	}
	return 0, false
}

// parseNumber parses a JavaScript numeric literal. BigInt literals are not
// numbers here.
func parseNumber(text string) (float64, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(clean, "n") {
		return 0, false
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return f, true
	}
	// 0x, 0o and 0b prefixes.
	if i, err := strconv.ParseInt(strings.ToLower(clean), 0, 64); err == nil {
		return float64(i), true
	}
	return 0, false
}
