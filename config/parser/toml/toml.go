package toml

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"

	"github.com/pelletier/go-toml/v2/unstable"
)

// ErrUnsupportedValue is wrapped by parse errors for TOML values the value model cannot hold.
var ErrUnsupportedValue = errors.New("unsupported toml value")

// Parser implements config.Parser for TOML data.
type Parser struct{}

// NewParser creates a new TOML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a TOML document into a table.
func (p *Parser) Parse(data []byte, origin string) (*value.Table, error) {
	b := newBuilder(data, origin)

	err := b.build()
	if err != nil {
		return nil, err
	}

	return b.root, nil
}

// slot names the key of a table holding an array of tables.
type slot struct {
	table *value.Table
	key   string
}

type builder struct {
	data   []byte
	origin string
	root   *value.Table

	current     *value.Table
	currentPath keypath.Path

	// headers holds tables opened by a [table] header.
	headers map[*value.Table]struct{}
	// dotted holds tables created by dotted keys, which no header may open.
	dotted map[*value.Table]struct{}
	// sealed holds inline tables, which cannot be extended afterwards.
	sealed map[*value.Table]struct{}
	// arrays holds the arrays created by [[array]] headers.
	arrays map[slot]struct{}
}

func newBuilder(data []byte, origin string) *builder {
	root := value.NewTable()

	return &builder{
		data:    data,
		origin:  origin,
		root:    root,
		current: root,
		headers: make(map[*value.Table]struct{}),
		dotted:  make(map[*value.Table]struct{}),
		sealed:  make(map[*value.Table]struct{}),
		arrays:  make(map[slot]struct{}),
	}
}

func (b *builder) build() error {
	var p unstable.Parser

	p.Reset(b.data)

	for p.NextExpression() {
		expr := p.Expression()

		var err error

		switch expr.Kind { //nolint:exhaustive // comments are not kept
		case unstable.KeyValue:
			err = b.keyval(b.current, b.currentPath, expr)
		case unstable.Table:
			err = b.openTable(expr)
		case unstable.ArrayTable:
			err = b.appendTable(expr)
		}

		if err != nil {
			return err
		}
	}

	err := p.Error()
	if err == nil {
		return nil
	}

	var parserErr *unstable.ParserError
	if errors.As(err, &parserErr) {
		line, col := b.position(parserErr.Highlight)

		return &cfgerr.ParseError{Origin: b.origin, Line: line, Column: col, Message: parserErr.Message, Err: err}
	}

	return &cfgerr.ParseError{Origin: b.origin, Message: err.Error(), Err: err}
}

func (b *builder) openTable(expr *unstable.Node) error {
	path, first, err := b.key(expr.Key())
	if err != nil {
		return err
	}

	parent, err := b.walk(path.Parent(), path, first)
	if err != nil {
		return err
	}

	last := path.Last()

	existing, ok := parent.Get(last)
	if !ok {
		child := value.NewTable()
		_ = parent.Insert(last, child)
		b.headers[child] = struct{}{}
		b.current, b.currentPath = child, path

		return nil
	}

	child, isTable := existing.(*value.Table)
	if !isTable || b.isDefined(child) {
		return b.duplicate(path, first)
	}

	b.headers[child] = struct{}{}
	b.current, b.currentPath = child, path

	return nil
}

func (b *builder) appendTable(expr *unstable.Node) error {
	path, first, err := b.key(expr.Key())
	if err != nil {
		return err
	}

	parent, err := b.walk(path.Parent(), path, first)
	if err != nil {
		return err
	}

	last := path.Last()
	child := value.NewTable()

	existing, ok := parent.Get(last)
	if !ok {
		_ = parent.Insert(last, value.ArrayOf(child))
		b.arrays[slot{parent, last}] = struct{}{}
		b.current, b.currentPath = child, path

		return nil
	}

	arr, isArray := existing.(value.Array)
	if _, created := b.arrays[slot{parent, last}]; !isArray || !created {
		return b.duplicate(path, first)
	}

	parent.Put(last, append(arr, child))
	b.current, b.currentPath = child, path

	return nil
}

// walk follows the intermediate segments of a header from the root, creating missing tables and
// entering the last element of arrays of tables.
func (b *builder) walk(segments, full keypath.Path, at []byte) (*value.Table, error) {
	table := b.root

	for i, seg := range segments {
		existing, ok := table.Get(seg)
		if !ok {
			child := value.NewTable()
			_ = table.Insert(seg, child)
			table = child

			continue
		}

		switch x := existing.(type) {
		case *value.Table:
			if b.isSealed(x) {
				return nil, b.duplicate(full[:i+1], at)
			}

			table = x
		case value.Array:
			if _, created := b.arrays[slot{table, seg}]; !created || len(x) == 0 {
				return nil, b.duplicate(full[:i+1], at)
			}

			last, isTable := x[len(x)-1].(*value.Table)
			if !isTable {
				return nil, b.duplicate(full[:i+1], at)
			}

			table = last
		default:
			return nil, b.duplicate(full[:i+1], at)
		}
	}

	return table, nil
}

func (b *builder) keyval(table *value.Table, base keypath.Path, expr *unstable.Node) error {
	rel, first, err := b.key(expr.Key())
	if err != nil {
		return err
	}

	full := base.Append(rel...)

	for i, seg := range rel.Parent() {
		existing, ok := table.Get(seg)
		if !ok {
			child := value.NewTable()
			_ = table.Insert(seg, child)
			b.dotted[child] = struct{}{}
			table = child

			continue
		}

		child, isTable := existing.(*value.Table)
		if !isTable || b.isSealed(child) || b.isHeader(child) {
			return b.duplicate(base.Append(rel[:i+1]...), first)
		}

		table = child
	}

	v, err := b.value(expr.Value(), full)
	if err != nil {
		return err
	}

	if table.Insert(rel.Last(), v) != nil {
		return b.duplicate(full, first)
	}

	return nil
}

func (b *builder) value(n *unstable.Node, path keypath.Path) (value.Value, error) {
	switch n.Kind { //nolint:exhaustive // remaining kinds are dates and times
	case unstable.Bool:
		return value.Bool(string(n.Data) == "true"), nil
	case unstable.String:
		return value.String(string(n.Data)), nil
	case unstable.Integer:
		i, err := parseInteger(string(n.Data))
		if err != nil {
			return nil, b.errorAt(n.Data, "%s: %v", path, err)
		}

		return value.Int(i), nil
	case unstable.Float:
		f, err := parseFloat(string(n.Data))
		if err != nil {
			return nil, b.errorAt(n.Data, "%s: %v", path, err)
		}

		return value.Float(f), nil
	case unstable.Array:
		out := value.Array{}

		for it := n.Children(); it.Next(); {
			v, err := b.value(it.Node(), path)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil
	case unstable.InlineTable:
		table := value.NewTable()

		for it := n.Children(); it.Next(); {
			err := b.keyval(table, path, it.Node())
			if err != nil {
				return nil, err
			}
		}

		b.sealed[table] = struct{}{}

		return table, nil
	default:
		err := fmt.Errorf("%w: %s: %s", ErrUnsupportedValue, path, n.Kind)
		line, col := b.position(n.Data)

		return nil, &cfgerr.ParseError{Origin: b.origin, Line: line, Column: col, Message: err.Error(), Err: err}
	}
}

// key collects the parts of a key and returns them with the raw bytes of the first part.
func (b *builder) key(it unstable.Iterator) (keypath.Path, []byte, error) {
	var (
		path  keypath.Path
		first []byte
	)

	for it.Next() {
		part := it.Node().Data
		if first == nil {
			first = part
		}

		if !keypath.ValidSegment(string(part)) {
			return nil, nil, b.errorAt(part, "invalid key %q", part)
		}

		path = append(path, string(part))
	}

	return path, first, nil
}

func (b *builder) isDefined(t *value.Table) bool {
	return b.isHeader(t) || b.isDotted(t) || b.isSealed(t)
}

func (b *builder) isHeader(t *value.Table) bool {
	_, ok := b.headers[t]

	return ok
}

func (b *builder) isDotted(t *value.Table) bool {
	_, ok := b.dotted[t]

	return ok
}

func (b *builder) isSealed(t *value.Table) bool {
	_, ok := b.sealed[t]

	return ok
}

// position returns the 1-based line and column of sub, which must be a slice of the input.
func (b *builder) position(sub []byte) (int, int) {
	offset := cap(b.data) - cap(sub)
	if cap(sub) == 0 || offset < 0 || offset > len(b.data) || !bytes.HasPrefix(b.data[offset:], sub) {
		return 0, 0
	}

	before := b.data[:offset]

	return bytes.Count(before, []byte{'\n'}) + 1, offset - bytes.LastIndexByte(before, '\n')
}

func (b *builder) errorAt(at []byte, format string, args ...any) error {
	line, col := b.position(at)

	return &cfgerr.ParseError{Origin: b.origin, Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

func (b *builder) duplicate(path keypath.Path, at []byte) error {
	line, col := b.position(at)

	return &cfgerr.ParseError{
		Origin:  b.origin,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf("duplicate key %q", path.String()),
		Err:     &cfgerr.DuplicateKeyError{Path: path.String(), Line: line, Column: col},
	}
}

func parseInteger(raw string) (int64, error) {
	s := strings.ReplaceAll(raw, "_", "")

	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && digits[1] >= '0' && digits[1] <= '9' {
		return 0, fmt.Errorf("integer %q has a leading zero", raw)
	}

	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", raw, err)
	}

	return i, nil
}

func parseFloat(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, "_", "")

	if strings.TrimLeft(s, "+-") == "nan" {
		return math.NaN(), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q: %w", raw, err)
	}

	return f, nil
}
