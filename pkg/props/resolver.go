package props

import (
	"unicode"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// resolver maps component declarations in one file to their props type.
// Matching is by declared identifier only; imports are never followed.
type resolver struct {
	source []byte

	functions []*ts.Node
	classes   []*ts.Node
	typeNames map[string]bool
}

func newResolver(source []byte) *resolver {
	return &resolver{source: source, typeNames: make(map[string]bool)}
}

func (r *resolver) addFunction(node *ts.Node) { r.functions = append(r.functions, node) }
func (r *resolver) addClass(node *ts.Node)    { r.classes = append(r.classes, node) }

func (r *resolver) addTypeDecl(node *ts.Node) {
	if name := node.ChildByFieldName("name"); name != nil {
		r.typeNames[name.Utf8Text(r.source)] = true
	}
}

// resolve returns declaration name → props type name. Declarations whose
// props type cannot be determined are present with an empty value. The first
// declaration of a name wins.
func (r *resolver) resolve() map[string]string {
	out := make(map[string]string)

	for _, fn := range r.functions {
		if fn.Kind() == "method_definition" {
			continue
		}
		name, wrappers, declarator := functionBinding(fn, r.source)
		if !isComponentName(name) {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		typeName, annotated := forwardRefTypeArg(wrappers, r.source)
		if !annotated {
			typeName, annotated = declaredComponentType(declarator, r.source)
		}
		if !annotated {
			typeName, annotated = paramsType(fn, r.source)
		}
		out[name] = r.withFallback(name, typeName, annotated)
	}

	for _, cls := range r.classes {
		name := classBinding(cls, r.source)
		if !isComponentName(name) {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		typeName, annotated := heritageType(cls, r.source)
		out[name] = r.withFallback(name, typeName, annotated)
	}

	return out
}

// withFallback applies the <Name>Props adjacency rule to unannotated
// declarations.
func (r *resolver) withFallback(name, typeName string, annotated bool) string {
	if annotated {
		return typeName
	}
	if candidate := name + "Props"; r.typeNames[candidate] {
		return candidate
	}
	return ""
}

// functionBinding returns the identifier a function is declared or bound
// under, any forwardRef/memo calls wrapping it (innermost first) and the
// variable_declarator binding it, if there is one.
func functionBinding(fn *ts.Node, source []byte) (string, []*ts.Node, *ts.Node) {
	if name := fn.ChildByFieldName("name"); name != nil {
		return name.Utf8Text(source), nil, nil
	}

	var wrappers []*ts.Node
	node := fn
	for {
		parent := node.Parent()
		if parent == nil {
			return "", wrappers, nil
		}
		switch parent.Kind() {
		case "parenthesized_expression":
			node = parent
			continue
		case "arguments":
			call := parent.Parent()
			if call == nil || !isWrapperCall(call, source) {
				return "", wrappers, nil
			}
			wrappers = append(wrappers, call)
			node = call
			continue
		case "variable_declarator":
			if value := parent.ChildByFieldName("value"); value == nil || value.Id() != node.Id() {
				return "", wrappers, nil
			}
			if name := parent.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				return name.Utf8Text(source), wrappers, parent
			}
		}
		return "", wrappers, nil
	}
}

func classBinding(cls *ts.Node, source []byte) string {
	if name := cls.ChildByFieldName("name"); name != nil {
		return name.Utf8Text(source)
	}
	if parent := cls.Parent(); parent != nil && parent.Kind() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
			return name.Utf8Text(source)
		}
	}
	return ""
}

// getCallExpressionCallee returns the callee text of a call_expression.
func getCallExpressionCallee(node *ts.Node, source []byte) string {
	if node == nil || node.Kind() != "call_expression" {
		return ""
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	return fn.Utf8Text(source)
}

func isForwardRefCall(node *ts.Node, source []byte) bool {
	callee := getCallExpressionCallee(node, source)
	return callee == "forwardRef" || callee == "React.forwardRef"
}

func isMemoCall(node *ts.Node, source []byte) bool {
	callee := getCallExpressionCallee(node, source)
	return callee == "memo" || callee == "React.memo"
}

func isWrapperCall(node *ts.Node, source []byte) bool {
	return isForwardRefCall(node, source) || isMemoCall(node, source)
}

// forwardRefTypeArg reads Props from forwardRef<El, Props>(...).
func forwardRefTypeArg(wrappers []*ts.Node, source []byte) (string, bool) {
	for _, call := range wrappers {
		if !isForwardRefCall(call, source) {
			continue
		}
		args := call.ChildByFieldName("type_arguments")
		if args == nil {
			for i := uint(0); i < call.ChildCount(); i++ {
				if child := call.Child(i); child.Kind() == "type_arguments" {
					args = child
					break
				}
			}
		}
		if args == nil || args.NamedChildCount() < 2 {
			continue
		}
		return typeName(args.NamedChild(1), source), true
	}
	return "", false
}

// functionComponentTypes take the props type as their first type argument.
var functionComponentTypes = map[string]bool{
	"FC":                      true,
	"React.FC":                true,
	"FunctionComponent":       true,
	"React.FunctionComponent": true,
}

// declaredComponentType reads Props from `const X: React.FC<Props> = ...`.
func declaredComponentType(declarator *ts.Node, source []byte) (string, bool) {
	if declarator == nil {
		return "", false
	}
	anno := declarator.ChildByFieldName("type")
	if anno == nil {
		return "", false
	}
	var generic *ts.Node
	for i := uint(0); i < anno.NamedChildCount(); i++ {
		if child := anno.NamedChild(i); child.Kind() != "comment" {
			generic = child
			break
		}
	}
	if generic == nil || generic.Kind() != "generic_type" {
		return "", false
	}
	name := generic.ChildByFieldName("name")
	if name == nil || !functionComponentTypes[name.Utf8Text(source)] {
		return "", false
	}
	args := generic.ChildByFieldName("type_arguments")
	if args == nil {
		args = findKind(generic, "type_arguments")
	}
	if args == nil {
		return "", false
	}
	for i := uint(0); i < args.NamedChildCount(); i++ {
		if arg := args.NamedChild(i); arg.Kind() != "comment" {
			return typeName(arg, source), true
		}
	}
	return "", false
}

// paramsType reads the annotation of the first parameter. annotated is false
// when there is a first parameter without a type annotation.
func paramsType(fn *ts.Node, source []byte) (name string, annotated bool) {
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		// Arrow function with a single bare parameter.
		return "", fn.ChildByFieldName("parameter") == nil
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		param := params.NamedChild(i)
		switch param.Kind() {
		case "comment":
			continue
		case "required_parameter", "optional_parameter":
			anno := param.ChildByFieldName("type")
			if anno == nil {
				return "", false
			}
			return annotationType(anno, source), true
		default:
			// JavaScript parameters carry no annotation.
			return "", false
		}
	}
	return "", true
}

// annotationType unwraps a type_annotation node.
func annotationType(anno *ts.Node, source []byte) string {
	for i := uint(0); i < anno.NamedChildCount(); i++ {
		if child := anno.NamedChild(i); child.Kind() != "comment" {
			return typeName(child, source)
		}
	}
	return ""
}

// typeName names a type node. Inline object types and predefined types have
// no name.
func typeName(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	switch node.Kind() {
	case "type_identifier", "nested_type_identifier":
		return node.Utf8Text(source)
	case "generic_type":
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Utf8Text(source)
		}
		return findFirstTypeIdentifier(node, source)
	case "union_type", "intersection_type", "parenthesized_type", "readonly_type":
		return findFirstTypeIdentifier(node, source)
	}
	return ""
}

// findFirstTypeIdentifier returns the first type_identifier below node in
// source order, not descending into inline object types.
func findFirstTypeIdentifier(node *ts.Node, source []byte) string {
	if node == nil || node.Kind() == "object_type" {
		return ""
	}
	if node.Kind() == "type_identifier" {
		return node.Utf8Text(source)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if result := findFirstTypeIdentifier(node.Child(i), source); result != "" {
			return result
		}
	}
	return ""
}

// heritageType reads Props from `extends Component<Props>`.
func heritageType(cls *ts.Node, source []byte) (string, bool) {
	for i := uint(0); i < cls.ChildCount(); i++ {
		child := cls.Child(i)
		if child.Kind() != "class_heritage" {
			continue
		}
		args := findKind(child, "type_arguments")
		if args == nil {
			return "", false
		}
		for j := uint(0); j < args.NamedChildCount(); j++ {
			if arg := args.NamedChild(j); arg.Kind() != "comment" {
				return typeName(arg, source), true
			}
		}
	}
	return "", false
}

// findKind returns the first descendant of node (pre-order) with the given kind.
func findKind(node *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
		if found := findKind(child, kind); found != nil {
			return found
		}
	}
	return nil
}

// isComponentName reports whether name starts with an upper-case letter.
func isComponentName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
