package config_test

import (
	"testing"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolConfig struct {
	Size int `cfg:"size"`
}

type databaseConfig struct {
	Host  string     `cfg:"host"`
	Port  uint16     `cfg:"port"`
	Ratio float64    `cfg:"ratio"`
	Tags  []string   `cfg:"tags"`
	Pool  poolConfig `cfg:"pool"`
	TLS   *bool      `cfg:"tls"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
[db]
host = "localhost"
port = 5432
ratio = 1
tags = ["primary", "eu"]
tls = true

[db.pool]
size = 4
`)

	var cfg databaseConfig

	require.NoError(t, config.Decode(doc, "db", &cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, uint16(5432), cfg.Port)
	assert.InDelta(t, 1.0, cfg.Ratio, 0)
	assert.Equal(t, []string{"primary", "eu"}, cfg.Tags)
	assert.Equal(t, 4, cfg.Pool.Size)
	require.NotNil(t, cfg.TLS)
	assert.True(t, *cfg.TLS)
}

func TestDecode_WholeDocumentIntoMap(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "a = 1\n[b]\nc = \"x\"\n")

	out := map[string]any{}

	require.NoError(t, config.Decode(doc, "", &out))
	assert.Equal(t, map[string]any{"a": int64(1), "b": map[string]any{"c": "x"}}, out)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
		msg     string
	}{
		{
			name:    "float into int",
			input:   "[db]\nport = 5432.5\n",
			wantErr: cfgerr.ErrTypeMismatch,
			msg:     "port",
		},
		{
			name:    "string into int",
			input:   "[db]\nport = \"5432\"\n",
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "int into string",
			input:   "[db]\nhost = 1\n",
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "string into bool pointer",
			input:   "[db]\ntls = \"yes\"\n",
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:  "unknown key",
			input: "[db]\nhots = \"typo\"\n",
			msg:   "hots",
		},
		{
			name:    "section is not a table",
			input:   "db = 1\n",
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "missing section",
			input:   "other = 1\n",
			wantErr: cfgerr.ErrMissingKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg databaseConfig

			err := config.Decode(mustParse(t, tt.input), "db", &cfg)
			require.Error(t, err)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}

			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

type sizedConfig struct {
	Small int8    `cfg:"small"`
	Count uint32  `cfg:"count"`
	Ratio float32 `cfg:"ratio"`
}

func TestDecode_RangeChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "in range", input: "small = -128\ncount = 4294967295\nratio = 2.5\n"},
		{name: "int widens into float32", input: "ratio = 3\n"},
		{name: "infinity into float32", input: "ratio = inf\n"},
		{name: "int8 overflow", input: "small = 300\n", wantErr: true},
		{name: "int8 underflow", input: "small = -129\n", wantErr: true},
		{name: "negative into unsigned", input: "count = -1\n", wantErr: true},
		{name: "uint32 overflow", input: "count = 4294967296\n", wantErr: true},
		{name: "float32 overflow", input: "ratio = 1e300\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg sizedConfig

			err := config.Decode(mustParse(t, tt.input), "", &cfg)
			if !tt.wantErr {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, cfgerr.ErrTypeMismatch)
			assert.Contains(t, err.Error(), "does not fit")
		})
	}
}

func TestDecode_SchemaDefaults(t *testing.T) {
	t.Parallel()

	s, err := schema.NewBuilder().
		Default("db.port", value.KindInt, value.Int(5432)).
		Default("db.pool.size", value.KindInt, value.Int(8)).
		Default("other", value.KindString, value.String("ignored")).
		Build()
	require.NoError(t, err)

	doc := mustParse(t, "[db]\nhost = \"h\"\n").WithSchema(s)

	var cfg databaseConfig

	require.NoError(t, config.Decode(doc, "db", &cfg))
	assert.Equal(t, uint16(5432), cfg.Port)
	assert.Equal(t, 8, cfg.Pool.Size)

	_, ok := config.Lookup(doc, "db.port")
	assert.False(t, ok)

	var onlyDefaults databaseConfig

	empty := mustParse(t, "").WithSchema(s)
	require.NoError(t, config.Decode(empty, "db", &onlyDefaults))
	assert.Equal(t, uint16(5432), onlyDefaults.Port)
}
