package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/keypath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaSource = `
[server.port]
type = "int64"
required = true

[server.host]
type = "string"
default = "0.0.0.0"

[server.ratio]
type = "float64"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.cfg", schemaSource)
	good := writeFile(t, dir, "good.cfg", "[server]\nport = 8080\n")
	goodYAML := writeFile(t, dir, "good.yaml", "server:\n  port: 8080\n  ratio: 1\n")
	invalid := writeFile(t, dir, "invalid.cfg", "[server]\nport = \"80\"\nextra = 1\n")
	broken := writeFile(t, dir, "broken.cfg", "[server]\nport = 1\nport = 2\n")

	out, err := execute(t, "check", "--schema", schemaPath, good, goodYAML)
	require.NoError(t, err)
	assert.Equal(t, "ok   "+good+"\nok   "+goodYAML+"\n", out)

	out, err = execute(t, "check", "--schema", schemaPath, "--strict", good, invalid, broken)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "ok   "+good+"\n")
	assert.Contains(t, out, "FAIL "+invalid+"\n     server.extra: unknown key\n     server.port: expected int64, found string\n")
	assert.Contains(t, out, "FAIL "+broken+"\n")
	assert.Contains(t, out, `duplicate key "server.port"`)
	assert.Contains(t, out, "2 of 3 files failed\n")
}

func TestCheck_WithoutSchemaOnlyParses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "any.cfg", "anything = [1, \"two\", { three = 3.0 }]\n")

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Equal(t, "ok   "+path+"\n", out)

	_, err = execute(t, "check", "--strict", path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errCheckFailed)
}

func TestGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "schema.cfg", schemaSource)
	path := writeFile(t, dir, "app.cfg", "[server]\nport = 8080\nname = \"edge\"\ntags = [\"a\", \"b\"]\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "int", args: []string{path, "server.port"}, want: "8080\n"},
		{name: "string", args: []string{path, "server.name"}, want: "\"edge\"\n"},
		{name: "array", args: []string{path, "server.tags"}, want: "[\"a\", \"b\"]\n"},
		{name: "widened", args: []string{path, "server.port", "--kind", "float64"}, want: "8080.0\n"},
		{name: "default", args: []string{path, "server.host", "--schema", schemaPath}, want: "\"0.0.0.0\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(t, append([]string{"get"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "app.cfg", "port = 8080\n")

	_, err := execute(t, "get", path, "host")
	require.ErrorIs(t, err, cfgerr.ErrMissingKey)

	_, err = execute(t, "get", path, "port", "--kind", "string")
	require.ErrorIs(t, err, cfgerr.ErrTypeMismatch)

	_, err = execute(t, "get", path, "port..x")
	require.ErrorIs(t, err, keypath.ErrInvalidPath)

	_, err = execute(t, "get", path)
	require.Error(t, err)
}

func TestSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "app.cfg", "[server]\nport = 8080\n")

	out, err := execute(t, "set", path, "server.port", "9090")
	require.NoError(t, err)
	assert.Equal(t, "[server]\nport = 9090\n", out)

	_, err = execute(t, "set", path, "server.port", `"9090"`)
	require.ErrorIs(t, err, cfgerr.ErrTypeMismatch)

	out, err = execute(t, "set", path, "server.port", `"9090"`, "--retype")
	require.NoError(t, err)
	assert.Equal(t, "[server]\nport = \"9090\"\n", out)

	_, err = execute(t, "set", "-w", path, "server.tls.enabled", "true")
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[server]\nport = 8080\n\n[server.tls]\nenabled = true\n", string(written))
}

func TestSet_InPlaceRequiresNativeGrammar(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "app.yaml", "port: 1\n")

	_, err := execute(t, "set", "-w", path, "port", "2")
	require.ErrorIs(t, err, errNotNative)

	out, err := execute(t, "set", path, "port", "2")
	require.NoError(t, err)
	assert.Equal(t, "port = 2\n", out)
}

func TestFmt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	messy := "# comment\nb   =   1\n[s]\n  a=\"x\" # trailing\n"
	path := writeFile(t, dir, "app.cfg", messy)

	out, err := execute(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "b = 1\n\n[s]\na = \"x\"\n", out)

	out, err = execute(t, "fmt", "--diff", path)
	require.NoError(t, err)
	assert.Contains(t, out, "-b   =   1\n")
	assert.Contains(t, out, "+b = 1\n")
	assert.Contains(t, out, "-  a=\"x\" # trailing\n")
	assert.Contains(t, out, "+a = \"x\"\n")

	_, err = execute(t, "fmt", "-w", path)
	require.NoError(t, err)

	out, err = execute(t, "fmt", "--diff", path)
	require.NoError(t, err)
	assert.Empty(t, out, "a formatted file has no diff")
}

func TestFmt_ConvertsOtherFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "app.toml", "[server]\nport = 8080\nhost = \"h\"\n")

	out, err := execute(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "[server]\nhost = \"h\"\nport = 8080\n", out)

	_, err = execute(t, "fmt", "-w", path)
	require.ErrorIs(t, err, errNotNative)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "strictcfg dev (commit none, built unknown)\n", out)
}

func TestServe_LoadFailure(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "broken.cfg", "[server\n")

	_, err := execute(t, "serve", "--addr", "127.0.0.1:1", path)
	require.ErrorIs(t, err, cfgerr.ErrParse)
}
