package config_test

import (
	"math"
	"testing"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *config.Document {
	t.Helper()

	doc, err := config.Parse(src)
	require.NoError(t, err)

	return doc
}

func TestGet_TypedReads(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "port = 8080\n[db]\nhost = \"localhost\"\nport = 5432\n")

	port, err := config.Get[int64](doc, "port")
	require.NoError(t, err)
	assert.Equal(t, int64(8080), port)

	dbPort, err := config.Get[int64](doc, "db.port")
	require.NoError(t, err)
	assert.Equal(t, int64(5432), dbPort)

	_, err = config.Get[string](doc, "port")

	var mismatch *cfgerr.TypeMismatchError

	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "port", mismatch.Path)
	assert.Equal(t, value.KindString, mismatch.Expected)
	assert.Equal(t, value.KindInt, mismatch.Actual)
}

func TestGet_Rules(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `
flag = true
count = 3
ratio = 0.5
name = "svc"
list = [1, 2]
limit = inf

[db]
host = "h"
`)

	tests := []struct {
		name    string
		read    func() (any, error)
		want    any
		wantErr error
	}{
		{
			name: "int widens to float",
			read: func() (any, error) { return config.Get[float64](doc, "count") },
			want: float64(3),
		},
		{
			name:    "float never narrows",
			read:    func() (any, error) { return config.Get[int64](doc, "ratio") },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "bool is not an int",
			read:    func() (any, error) { return config.Get[int64](doc, "flag") },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "string is not a bool",
			read:    func() (any, error) { return config.Get[bool](doc, "name") },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "table is not an array",
			read:    func() (any, error) { return config.Get[value.Array](doc, "db") },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name: "non-finite float",
			read: func() (any, error) { return config.Get[float64](doc, "limit") },
			want: math.Inf(1),
		},
		{
			name:    "absent",
			read:    func() (any, error) { return config.Get[string](doc, "db.user") },
			wantErr: cfgerr.ErrMissingKey,
		},
		{
			name:    "through a scalar",
			read:    func() (any, error) { return config.Get[string](doc, "name.first") },
			wantErr: cfgerr.ErrMissingKey,
		},
		{
			name:    "invalid path",
			read:    func() (any, error) { return config.Get[string](doc, "db..host") },
			wantErr: keypath.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.read()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_ContainersAreCopies(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "list = [1, 2]\n[db]\nhost = \"h\"\n")

	list, err := config.Get[value.Array](doc, "list")
	require.NoError(t, err)

	list[0] = value.Int(99)

	db, err := config.Get[*value.Table](doc, "db")
	require.NoError(t, err)

	db.Put("host", value.String("changed"))

	first, ok := config.Lookup(doc, "list")
	require.True(t, ok)
	assert.True(t, value.Equal(value.ArrayOf(value.Int(1), value.Int(2)), first))
	assert.Equal(t, "h", config.GetOr(doc, "db.host", ""))
}

func TestGetOr(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "port = 8080\n")

	assert.Equal(t, int64(8080), config.GetOr(doc, "port", int64(1)))
	assert.Equal(t, int64(1), config.GetOr(doc, "missing", int64(1)))
	assert.Equal(t, "fallback", config.GetOr(doc, "port", "fallback"))
	assert.Equal(t, "fallback", config.GetOr(doc, "", "fallback"))
}

func TestGet_SchemaDefaults(t *testing.T) {
	t.Parallel()

	s, err := schema.NewBuilder().
		Default("db.port", value.KindInt, value.Int(5432)).
		Default("ratio", value.KindFloat, value.Int(1)).
		Optional("exact", value.KindFloat).Strict().
		Build()
	require.NoError(t, err)

	doc := mustParse(t, "exact = 2\n[db]\nhost = \"h\"\n").WithSchema(s)

	port, err := config.Get[int64](doc, "db.port")
	require.NoError(t, err)
	assert.Equal(t, int64(5432), port)

	ratio, err := config.Get[float64](doc, "ratio")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 0)

	_, err = config.Get[float64](doc, "exact")
	require.ErrorIs(t, err, cfgerr.ErrTypeMismatch)

	_, ok := config.Lookup(doc, "db.port")
	assert.False(t, ok, "defaults are never written into the tree")
	assert.Equal(t, "exact = 2\n\n[db]\nhost = \"h\"\n", config.Serialize(doc))
}

func TestSet_RetypeFlag(t *testing.T) {
	t.Parallel()

	m := mustParse(t, "port = 8080\n").Edit()

	err := config.Set(m, "port", "eighty")

	var mismatch *cfgerr.TypeMismatchError

	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "port", mismatch.Path)
	assert.Equal(t, value.KindInt, mismatch.Expected)
	assert.Equal(t, value.KindString, mismatch.Actual)

	port, err := config.Get[int64](m, "port")
	require.NoError(t, err)
	assert.Equal(t, int64(8080), port, "a failed write leaves the node untouched")

	require.NoError(t, config.Set(m, "port", "eighty", config.Retype()))

	_, err = config.Get[int64](m, "port")
	require.ErrorIs(t, err, cfgerr.ErrTypeMismatch)

	name, err := config.Get[string](m, "port")
	require.NoError(t, err)
	assert.Equal(t, "eighty", name)
}

func TestSet_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		write   func(m *config.Mutable) error
		want    string
		wantErr error
	}{
		{
			name:  "overwrite same kind keeps position",
			input: "a = 1\nb = 2\n",
			write: func(m *config.Mutable) error { return config.Set(m, "a", int64(5)) },
			want:  "a = 5\nb = 2\n",
		},
		{
			name:  "creates intermediate tables",
			input: "a = 1\n",
			write: func(m *config.Mutable) error { return config.Set(m, "db.pool.size", int64(4)) },
			want:  "a = 1\n\n[db.pool]\nsize = 4\n",
		},
		{
			name:  "int over float is widened",
			input: "ratio = 0.5\n",
			write: func(m *config.Mutable) error { return config.Set(m, "ratio", int64(2)) },
			want:  "ratio = 2.0\n",
		},
		{
			name:    "float over int",
			input:   "port = 80\n",
			write:   func(m *config.Mutable) error { return config.Set(m, "port", 80.0) },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "through a scalar",
			input:   "name = \"x\"\n",
			write:   func(m *config.Mutable) error { return config.Set(m, "name.first", "y") },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "through a scalar with retype",
			input:   "name = \"x\"\n",
			write:   func(m *config.Mutable) error { return config.Set(m, "name.first", "y", config.Retype()) },
			wantErr: cfgerr.ErrTypeMismatch,
		},
		{
			name:    "nil value",
			input:   "a = 1\n",
			write:   func(m *config.Mutable) error { return m.SetValue("a", nil) },
			wantErr: config.ErrNilValue,
		},
		{
			name:  "table value",
			input: "a = 1\n",
			write: func(m *config.Mutable) error {
				tbl := value.NewTable()
				tbl.Put("x", value.Bool(true))

				return m.SetValue("b", tbl)
			},
			want: "a = 1\n\n[b]\nx = true\n",
		},
		{
			name:  "invalid key inside the value",
			input: "a = 1\n",
			write: func(m *config.Mutable) error {
				tbl := value.NewTable()
				tbl.Put("not valid", value.Bool(true))

				return m.SetValue("b", value.ArrayOf(tbl))
			},
			wantErr: keypath.ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, tt.input)
			m := doc.Edit()

			err := tt.write(m)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, config.Serialize(doc), config.Serialize(m.Document()), "failed writes change nothing")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, config.Serialize(m.Document()))
		})
	}
}

func TestSet_IntermediateMismatchPath(t *testing.T) {
	t.Parallel()

	m := mustParse(t, "[a]\nb = 1\n").Edit()

	err := config.Set(m, "a.b.c", true)

	var mismatch *cfgerr.TypeMismatchError

	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "a.b", mismatch.Path)
	assert.Equal(t, value.KindTable, mismatch.Expected)
	assert.Equal(t, value.KindInt, mismatch.Actual)
}

func TestSet_SchemaKinds(t *testing.T) {
	t.Parallel()

	s, err := schema.NewBuilder().
		Optional("db.port", value.KindInt).
		Optional("ratio", value.KindFloat).
		Optional("exact", value.KindFloat).Strict().
		Build()
	require.NoError(t, err)

	m := mustParse(t, "").WithSchema(s).Edit()

	require.ErrorIs(t, config.Set(m, "db.port", "5432"), cfgerr.ErrTypeMismatch)
	assert.False(t, m.Document().Root().Has("db"), "no intermediate tables are left behind")

	require.NoError(t, config.Set(m, "ratio", int64(3)))
	require.ErrorIs(t, config.Set(m, "exact", int64(3)), cfgerr.ErrTypeMismatch)
	require.NoError(t, config.Set(m, "exact", int64(3), config.Retype()))

	ratio, ok := config.Lookup(m, "ratio")
	require.True(t, ok)
	assert.Equal(t, value.Float(3), ratio)
}

func TestSet_StoresCopies(t *testing.T) {
	t.Parallel()

	m := mustParse(t, "").Edit()
	list := value.ArrayOf(value.Int(1))

	require.NoError(t, config.Set(m, "a", list))
	require.NoError(t, config.Set(m, "b", list))

	list[0] = value.Int(7)

	a, err := config.Get[value.Array](m, "a")
	require.NoError(t, err)
	assert.Equal(t, value.ArrayOf(value.Int(1)), a)
}

func TestMutable_Delete(t *testing.T) {
	t.Parallel()

	m := mustParse(t, "a = 1\nname = \"x\"\n[db]\nhost = \"h\"\nport = 1\n").Edit()

	require.NoError(t, m.Delete("db.port"))
	require.NoError(t, m.Delete("a"))
	require.ErrorIs(t, m.Delete("a"), cfgerr.ErrMissingKey)
	require.ErrorIs(t, m.Delete("name.first"), cfgerr.ErrMissingKey)
	require.ErrorIs(t, m.Delete(""), keypath.ErrInvalidPath)

	assert.Equal(t, "name = \"x\"\n\n[db]\nhost = \"h\"\n", config.Serialize(m.Document()))
}

func TestDocument_Isolation(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "a = 1\n")
	m := doc.Edit()

	require.NoError(t, config.Set(m, "a", int64(2)))

	snapshot := m.Document()

	require.NoError(t, config.Set(m, "a", int64(3)))

	assert.Equal(t, int64(1), config.GetOr(doc, "a", int64(0)))
	assert.Equal(t, int64(2), config.GetOr(snapshot, "a", int64(0)))
	assert.Equal(t, int64(3), config.GetOr(m, "a", int64(0)))

	root := doc.Root()
	root.Put("a", value.Int(9))
	assert.Equal(t, int64(1), config.GetOr(doc, "a", int64(0)))
}

func TestNewDocument(t *testing.T) {
	t.Parallel()

	root := value.NewTable()
	root.Put("a", value.Int(1))

	doc, err := config.NewDocument(root, "memory")
	require.NoError(t, err)
	assert.Equal(t, "memory", doc.Origin())

	root.Put("a", value.Int(2))
	assert.Equal(t, int64(1), config.GetOr(doc, "a", int64(0)))

	empty, err := config.NewDocument(nil, "")
	require.NoError(t, err)
	assert.Zero(t, empty.Len())

	bad := value.NewTable()
	bad.Put("a b", value.Int(1))

	_, err = config.NewDocument(bad, "")
	require.ErrorIs(t, err, keypath.ErrInvalidPath)
}

func TestValidate_MissingRequired(t *testing.T) {
	t.Parallel()

	s, err := schema.NewBuilder().Require("timeout", value.KindInt).Build()
	require.NoError(t, err)

	doc := mustParse(t, "port = 8080\n")

	violations := config.Validate(doc, s)
	require.Len(t, violations, 1)
	assert.Equal(t, &cfgerr.MissingKeyError{Path: "timeout"}, violations[0])

	assert.Empty(t, config.Validate(doc, nil), "no schema, no violations")
	assert.Len(t, config.Validate(doc.WithSchema(s), nil), 1)
}
