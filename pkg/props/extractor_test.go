package props

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propscan/pkg/parser"
	"github.com/gnana997/propscan/pkg/util"
)

func extract(t *testing.T, file, code string, opts Options) *FileResult {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger())
	t.Cleanup(func() { pm.Close() })

	source := []byte(code)
	tree, err := pm.ParseFile(file, source)
	require.NoError(t, err)
	defer tree.Close()

	return ExtractFile(tree.RootNode(), source, file, opts)
}

func TestExtractFile_ButtonScenario(t *testing.T) {
	res := extract(t, "App.tsx", `const fn = () => {}
export const App = () => <Button variant="primary" onClick={fn} />
`, DefaultOptions())

	require.Len(t, res.Components, 1)
	c := res.Components[0]
	assert.Equal(t, "Button", c.ComponentName)
	assert.Equal(t, "App", c.DeclaredIn)
	assert.False(t, c.HasSpread)
	require.Len(t, c.Props, 2)

	assert.Equal(t, PropUsage{
		PropName: "variant", ComponentName: "Button", Line: 2, Column: 34,
		Value: StringValue("primary"),
	}, c.Props[0])
	assert.Equal(t, "onClick", c.Props[1].PropName)
	assert.Equal(t, ExpressionValue("fn"), c.Props[1].Value)
	assert.False(t, c.Props[1].IsSpread)
	assert.Empty(t, res.Skipped)
}

func TestExtractFile_Spread(t *testing.T) {
	res := extract(t, "App.tsx", `function App(rest) { return <Button {...rest} /> }`, DefaultOptions())

	require.Len(t, res.Components, 1)
	c := res.Components[0]
	assert.True(t, c.HasSpread)
	assert.Empty(t, c.NamedProps())
	require.Len(t, c.Props, 1)
	assert.Equal(t, "...rest", c.Props[0].PropName)
	assert.Equal(t, ExpressionValue("rest"), c.Props[0].Value)
	assert.True(t, c.Props[0].IsSpread)
}

func TestExtractFile_LiteralKinds(t *testing.T) {
	code := "<X a={1.5} b={true} c={false} d={null} e={undefined} f={'s'} g={`t`} h={`a${b}`} i={0x10} j k=\"v\" l={<Icon />} />"
	res := extract(t, "x.jsx", code, DefaultOptions())

	require.Len(t, res.Components, 2, "X and the nested Icon")
	x := res.Components[0]
	got := make(map[string]PropValue, len(x.Props))
	for _, p := range x.Props {
		got[p.PropName] = p.Value
	}

	assert.Equal(t, NumberValue(1.5, "1.5"), got["a"])
	assert.Equal(t, BoolValue(true), got["b"])
	assert.Equal(t, BoolValue(false), got["c"])
	assert.Equal(t, NullValue("null"), got["d"])
	assert.Equal(t, NullValue("undefined"), got["e"])
	assert.Equal(t, StringValue("s"), got["f"])
	assert.Equal(t, StringValue("t"), got["g"])
	assert.Equal(t, KindExpression, got["h"].Kind)
	assert.Equal(t, NumberValue(16, "0x10"), got["i"])
	assert.Equal(t, BoolValue(true), got["j"])
	assert.Equal(t, StringValue("v"), got["k"])
	assert.Equal(t, ExpressionValue("<Icon />"), got["l"])

	assert.Equal(t, "Icon", res.Components[1].ComponentName)
}

func TestExtractFile_SignedNumbers(t *testing.T) {
	code := `<Slider min={-1} max={10} step={+0.5} scale={-0x10} offset={-x} neg={!1} />`
	res := extract(t, "slider.tsx", code, DefaultOptions())

	require.Len(t, res.Components, 1)
	got := make(map[string]PropValue)
	for _, p := range res.Components[0].Props {
		got[p.PropName] = p.Value
	}

	assert.Equal(t, NumberValue(-1, "-1"), got["min"])
	assert.Equal(t, NumberValue(10, "10"), got["max"])
	assert.Equal(t, NumberValue(0.5, "+0.5"), got["step"])
	assert.Equal(t, NumberValue(-16, "-0x10"), got["scale"])
	assert.Equal(t, ExpressionValue("-x"), got["offset"])
	assert.Equal(t, ExpressionValue("!1"), got["neg"])

	data, err := json.Marshal(got["min"])
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"number","value":-1}`, string(data))
}

func TestExtractFile_ZeroAttributes(t *testing.T) {
	res := extract(t, "a.tsx", `<Card />`, DefaultOptions())
	require.Len(t, res.Components, 1)
	assert.Equal(t, "Card", res.Components[0].ComponentName)
	assert.Empty(t, res.Components[0].Props)
	assert.Equal(t, 0, res.PropCount())
}

func TestExtractFile_Intrinsic(t *testing.T) {
	code := `<div className="x"><Button /><UI.Select size="sm" /></div>`

	res := extract(t, "a.jsx", code, DefaultOptions())
	var names []string
	for _, c := range res.Components {
		names = append(names, c.ComponentName)
	}
	assert.Equal(t, []string{"Button", "UI.Select"}, names)

	opts := DefaultOptions()
	opts.IncludeIntrinsic = true
	res = extract(t, "a.jsx", code, opts)
	require.Len(t, res.Components, 3)
	assert.Equal(t, "div", res.Components[0].ComponentName)
	assert.Equal(t, "className", res.Components[0].Props[0].PropName)
}

func TestExtractFile_FragmentsSkipped(t *testing.T) {
	res := extract(t, "a.tsx", `<><Item key="1" /></>`, DefaultOptions())
	require.Len(t, res.Components, 1)
	assert.Equal(t, "Item", res.Components[0].ComponentName)
}

func TestExtractFile_TruncatesExpressions(t *testing.T) {
	long := strings.Repeat("a", 150)
	res := extract(t, "a.tsx", `<Button onClick={`+long+`} />`, DefaultOptions())

	require.Len(t, res.Components, 1)
	text := res.Components[0].Props[0].Value.Text
	assert.Equal(t, strings.Repeat("a", DefaultMaxExpressionLength)+"...", text)

	opts := DefaultOptions()
	opts.MaxExpressionLength = 10
	res = extract(t, "a.tsx", `<Button onClick={`+long+`} />`, opts)
	assert.Equal(t, strings.Repeat("a", 10)+"...", res.Components[0].Props[0].Value.Text)
}

func TestExtractFile_MalformedAttributeSkipped(t *testing.T) {
	res := extract(t, "a.jsx", `<Button {foo} size="sm" />`, DefaultOptions())

	require.Len(t, res.Components, 1)
	c := res.Components[0]
	require.Len(t, c.Props, 1)
	assert.Equal(t, "size", c.Props[0].PropName)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "jsx_expression", res.Skipped[0].NodeKind)
	assert.Equal(t, 1, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Error(), "a.jsx:1:9")
}

func TestExtractFile_SyntaxErrorsStillExtract(t *testing.T) {
	res := extract(t, "a.tsx", "const x = (\n<Button size=\"sm\" />", DefaultOptions())
	assert.True(t, res.HasSyntaxErrors)
}

func TestExtractFile_DeclarationIdentity(t *testing.T) {
	code := `function App() {
  const renderItem = () => <Item id={1} />
  return <Layout title="x">{renderItem()}</Layout>
}
<Orphan a="b" />
`
	opts := DefaultOptions()
	opts.Identity = IdentityDeclaration
	res := extract(t, "App.tsx", code, opts)

	require.Len(t, res.Components, 2)
	app := res.Components[0]
	assert.Equal(t, "App", app.ComponentName)
	assert.Equal(t, "App", app.DeclaredIn)
	assert.Equal(t, 1, app.Line)
	require.Len(t, app.Props, 2)
	assert.Equal(t, "id", app.Props[0].PropName)
	assert.Equal(t, "title", app.Props[1].PropName)
	for _, p := range app.Props {
		assert.Equal(t, "App", p.ComponentName)
	}

	orphan := res.Components[1]
	assert.Equal(t, "Orphan", orphan.ComponentName)
	assert.Empty(t, orphan.DeclaredIn)
}

func TestExtractFile_UsageIdentityKeepsEachSite(t *testing.T) {
	code := `function App() {
  return <Layout><Item id={1} /><Item id={2} /></Layout>
}`
	res := extract(t, "App.tsx", code, DefaultOptions())

	require.Len(t, res.Components, 3)
	assert.Equal(t, "Item", res.Components[1].ComponentName)
	assert.Equal(t, "Item", res.Components[2].ComponentName)
	assert.NotEqual(t, res.Components[1].Column, res.Components[2].Column)
	for _, c := range res.Components {
		assert.Equal(t, "App", c.DeclaredIn)
	}
}

func TestPropValue_JSON(t *testing.T) {
	tests := []struct {
		value PropValue
		want  string
	}{
		{StringValue("primary"), `{"kind":"string","value":"primary"}`},
		{NumberValue(2, "2"), `{"kind":"number","value":2}`},
		{BoolValue(true), `{"kind":"boolean","value":true}`},
		{NullValue("null"), `{"kind":"null","value":null}`},
		{ExpressionValue("fn"), `{"kind":"expression","value":"fn"}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.value)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(data))
	}

	_, err := json.Marshal(PropValue{Kind: "bogus"})
	assert.Error(t, err)
}

func TestPropValue_String(t *testing.T) {
	assert.Equal(t, `"primary"`, StringValue("primary").String())
	assert.Equal(t, "0x10", NumberValue(16, "0x10").String())
	assert.Equal(t, "false", BoolValue(false).String())
	assert.Equal(t, "fn()", ExpressionValue("fn()").String())
}

func TestParseIdentityMode(t *testing.T) {
	m, err := ParseIdentityMode("declaration")
	require.NoError(t, err)
	assert.Equal(t, IdentityDeclaration, m)

	m, err = ParseIdentityMode("")
	require.NoError(t, err)
	assert.Equal(t, IdentityUsageSite, m)

	_, err = ParseIdentityMode("definition")
	assert.Error(t, err)
}

func TestOptions_Fingerprint(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.IncludeIntrinsic = true
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := DefaultOptions()
	c.MaxExpressionLength = 0
	assert.Equal(t, a.Fingerprint(), c.Fingerprint())
}
