package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/config"
	filefetcher "github.com/0xalexb/strictcfg/config/fetcher/file"
	"github.com/0xalexb/strictcfg/config/parser/text"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "native",
			file:    "app.conf",
			content: "port = 8080\n[db]\nhost = \"localhost\"\n",
		},
		{
			name:    "yaml",
			file:    "app.yaml",
			content: "port: 8080\ndb:\n  host: localhost\n",
		},
		{
			name:    "yml",
			file:    "app.YML",
			content: "port: 8080\ndb:\n  host: localhost\n",
		},
		{
			name:    "toml",
			file:    "app.toml",
			content: "port = 8080\n[db]\nhost = \"localhost\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, tt.file, tt.content)

			doc, err := config.Load(path)
			require.NoError(t, err)
			assert.Equal(t, path, doc.Origin())

			port, err := config.Get[int64](doc, "port")
			require.NoError(t, err)
			assert.Equal(t, int64(8080), port)

			host, err := config.Get[string](doc, "db.host")
			require.NoError(t, err)
			assert.Equal(t, "localhost", host)
		})
	}
}

func TestLoad_ParseErrorCarriesOrigin(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "app.conf", "a = 1\na = 2\n")

	_, err := config.Load(path)
	require.ErrorIs(t, err, cfgerr.ErrParse)
	require.ErrorIs(t, err, cfgerr.ErrDuplicateKey)

	var parseErr *cfgerr.ParseError

	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Origin)
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, "a", cfgerr.Path(err))
}

func TestLoad_WithSchema(t *testing.T) {
	t.Parallel()

	s, err := schema.NewBuilder().
		Require("timeout", value.KindInt).
		Require("name", value.KindString).
		StrictKeys().
		Build()
	require.NoError(t, err)

	path := writeConfig(t, "app.conf", "name = 1\nextra = true\n")

	_, err = config.Load(path, config.WithSchema(s))
	require.ErrorIs(t, err, cfgerr.ErrMissingKey)
	require.ErrorIs(t, err, cfgerr.ErrTypeMismatch)
	require.ErrorIs(t, err, cfgerr.ErrUnknownKey)

	good := writeConfig(t, "good.conf", "timeout = 30\nname = \"svc\"\n")

	doc, err := config.Load(good, config.WithSchema(s))
	require.NoError(t, err)
	assert.Same(t, s, doc.Schema())
}

func TestLoad_Options(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "app.yaml", "port = 8080\n")

	_, err := config.Load(path)
	require.ErrorIs(t, err, cfgerr.ErrParse, "yaml parser rejects the native grammar")

	doc, err := config.Load(path, config.WithParser(text.NewParser()))
	require.NoError(t, err)
	assert.Equal(t, int64(8080), config.GetOr(doc, "port", int64(0)))

	_, err = config.Load(path, config.WithMaxSize(4))
	require.ErrorIs(t, err, filefetcher.ErrFileTooLarge)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.conf"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Error(t *testing.T) {
	t.Parallel()

	doc, err := config.Parse("a = \"unterminated\n")
	require.ErrorIs(t, err, cfgerr.ErrParse)
	assert.Nil(t, doc)
}

func TestSerialize_RoundTrip(t *testing.T) {
	t.Parallel()

	src := `title = "svc"
ratio = 1.5
tags = ["a", "b"]

[db]
host = "localhost"
port = 5432
`

	doc := mustParse(t, src)
	assert.Equal(t, src, config.Serialize(doc))

	again := mustParse(t, config.Serialize(doc))
	assert.True(t, value.Equal(doc.Root(), again.Root()))
}

func TestLoadSchema(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "schema.cfg", `
[server.port]
type = "int64"
required = true

[server.ratio]
type = "float64"
default = 1
`)

	s, err := config.LoadSchema(path, schema.WithStrictKeys())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.StrictKeys())

	entry, ok := s.Lookup("server.ratio")
	require.True(t, ok)
	assert.Equal(t, value.Float(1), entry.Default)

	bad := writeConfig(t, "bad.cfg", "[server.port]\ntype = \"uint8\"\n")

	_, err = config.LoadSchema(bad)
	require.ErrorIs(t, err, schema.ErrInvalidEntry)

	_, err = config.LoadSchema(writeConfig(t, "broken.cfg", "[server\n"))
	require.ErrorIs(t, err, cfgerr.ErrParse)
}
