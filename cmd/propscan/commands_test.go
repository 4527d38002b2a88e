package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propscan/pkg/analyzer"
)

var cliProject = map[string]string{
	"src/App.tsx": `import { Button } from "./Button";

export function App({ extra }: AppProps) {
  return (
    <main>
      <Button variant="primary" onClick={() => save()} />
      <Button {...extra} />
    </main>
  );
}
`,
	"src/Form.jsx": `export const Form = () => (
  <form>
    <Button size="sm" />
    <Input name="email" required />
  </form>
);
`,
	"node_modules/ui/index.jsx": `<Button variant="vendor" />`,
}

// runCLI executes the root command in a fresh project directory and
// returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func cliTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range cliProject {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	t.Chdir(root)
	t.Setenv(envLogLevel, "")
	t.Setenv(envWorkers, "")
	return root
}

func TestAnalyzeCmd(t *testing.T) {
	root := cliTree(t)

	out, err := runCLI(t, "analyze", root)
	require.NoError(t, err)

	var got analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary.TotalFiles)
	assert.Equal(t, 4, got.Summary.TotalComponents)
	assert.NotContains(t, got.PropUsagesByFile, filepath.Join(root, "node_modules", "ui", "index.jsx"))
}

func TestAnalyzeCmd_RelativePathAndFilters(t *testing.T) {
	cliTree(t)

	out, err := runCLI(t, "analyze", "src", "--component", "Button", "--prop", "variant")
	require.NoError(t, err)

	var got analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Summary.TotalComponents)
	assert.Equal(t, 1, got.Summary.TotalProps)
}

func TestAnalyzeCmd_GlobalFlags(t *testing.T) {
	root := cliTree(t)

	out, err := runCLI(t, "analyze", root, "--intrinsic", "--include", "**/*.jsx", "--workers", "1")
	require.NoError(t, err)

	var got analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	// Form.jsx: form, Button, Input
	assert.Equal(t, 1, got.Summary.TotalFiles)
	assert.Equal(t, 3, got.Summary.TotalComponents)

	out, err = runCLI(t, "analyze", root, "--identity", "declaration")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	var names []string
	for _, c := range got.Components {
		names = append(names, c.ComponentName)
	}
	assert.ElementsMatch(t, []string{"App", "Form"}, names)
}

func TestUsageCmd(t *testing.T) {
	root := cliTree(t)

	out, err := runCLI(t, "usage", "size", root)
	require.NoError(t, err)

	var got analyzer.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Summary.TotalProps)
	require.Len(t, got.Components, 1)
	assert.Equal(t, 3, got.Components[0].Line)
}

func TestComponentCmd(t *testing.T) {
	root := cliTree(t)

	out, err := runCLI(t, "component", "Button", root)
	require.NoError(t, err)

	var got analyzer.ComponentPropsResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.TotalInstances)
	assert.Len(t, got.ByFile, 2)
}

func TestMissingCmd(t *testing.T) {
	root := cliTree(t)

	out, err := runCLI(t, "missing", "Button", "variant", root)
	require.NoError(t, err)
	var got analyzer.MissingPropResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 3, got.Summary.TotalInstances)
	assert.Equal(t, 1, got.Summary.MissingPropCount)
	assert.Equal(t, 1, got.Summary.AssumedBySpread)

	out, err = runCLI(t, "missing", "Button", "variant", root, "--no-assume-spread")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary.MissingPropCount)
}

func TestCommands_Errors(t *testing.T) {
	root := cliTree(t)

	_, err := runCLI(t, "analyze", filepath.Join(root, "does-not-exist"))
	assert.Error(t, err)

	_, err = runCLI(t, "usage", "size")
	assert.Error(t, err)

	_, err = runCLI(t, "analyze", root, "--log-level", "loud")
	assert.Error(t, err)
}

func TestInitCmd(t *testing.T) {
	root := cliTree(t)

	out, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, defaultConfigPath)

	cfg, err := loadProjectConfig(filepath.Join(root, defaultConfigPath))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	_, err = runCLI(t, "init")
	assert.Error(t, err)
	_, err = runCLI(t, "init", "--force")
	assert.NoError(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "propscan "+Version+"\n", out)
}
