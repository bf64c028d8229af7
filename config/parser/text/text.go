package text

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"
)

// maxDepth bounds nesting of arrays and inline tables.
const maxDepth = 256

//nolint:gochecknoglobals // compiled once.
var (
	intPattern    = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern  = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Parser implements config.Parser for the native grammar.
type Parser struct{}

// NewParser creates a new native grammar parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements config.Parser.
func (*Parser) Parse(data []byte, origin string) (*value.Table, error) {
	return Parse(data, origin)
}

// Parse parses a whole document. The origin names the source in error messages.
func Parse(data []byte, origin string) (*value.Table, error) {
	p := newParser(data, origin)

	err := p.document()
	if err != nil {
		return nil, err
	}

	return p.root, nil
}

// ParseValue parses a single value literal such as `8080`, `"eighty"` or `[1, 2]`.
func ParseValue(literal string) (value.Value, error) {
	p := newParser([]byte(literal), "<literal>")
	p.skipInsignificant()

	v, err := p.value(nil, 0)
	if err != nil {
		return nil, err
	}

	p.skipInsignificant()

	if c, ok := p.peek(); ok {
		return nil, p.errorf("unexpected %q after value", c)
	}

	return v, nil
}

type parser struct {
	origin    string
	src       []byte
	pos       int
	line      int
	lineStart int

	root        *value.Table
	current     *value.Table
	currentPath keypath.Path

	// defined holds tables opened by an explicit section header.
	defined map[*value.Table]struct{}
	// sealed holds inline tables, which cannot be extended afterwards.
	sealed map[*value.Table]struct{}
}

func newParser(data []byte, origin string) *parser {
	p := &parser{
		origin:  origin,
		src:     data,
		line:    1,
		root:    value.NewTable(),
		defined: make(map[*value.Table]struct{}),
		sealed:  make(map[*value.Table]struct{}),
	}
	p.current = p.root

	if bytes.HasPrefix(data, byteOrderMark) {
		p.pos = len(byteOrderMark)
		p.lineStart = p.pos
	}

	return p
}

func (p *parser) document() error {
	for {
		p.skipBlank()

		c, ok := p.peek()
		if !ok {
			return nil
		}

		switch {
		case c == '\n':
			p.newline()

			continue
		case c == '#':
			p.skipComment()

			continue
		case c == '[':
			err := p.header()
			if err != nil {
				return err
			}
		case keypath.IsKeyByte(c):
			err := p.keyval(p.current, p.currentPath, 0)
			if err != nil {
				return err
			}
		default:
			return p.errorf("unexpected character %q", c)
		}

		err := p.endOfLine()
		if err != nil {
			return err
		}
	}
}

func (p *parser) header() error {
	line, col := p.line, p.col()
	p.pos++

	p.skipBlank()

	path, err := p.key()
	if err != nil {
		return err
	}

	p.skipBlank()

	if c, ok := p.peek(); !ok || c != ']' {
		return p.errorf("expected ']' to close section header")
	}

	p.pos++

	table, err := p.openSection(path, line, col)
	if err != nil {
		return err
	}

	p.current = table
	p.currentPath = path

	return nil
}

func (p *parser) openSection(path keypath.Path, line, col int) (*value.Table, error) {
	table := p.root

	for i, seg := range path {
		last := i == len(path)-1

		existing, ok := table.Get(seg)
		if !ok {
			child := value.NewTable()
			_ = table.Insert(seg, child)

			if last {
				p.defined[child] = struct{}{}
			}

			table = child

			continue
		}

		child, isTable := existing.(*value.Table)
		if !isTable || p.isSealed(child) {
			return nil, p.duplicate(path[:i+1], line, col)
		}

		if last {
			if _, done := p.defined[child]; done {
				return nil, p.duplicate(path, line, col)
			}

			p.defined[child] = struct{}{}
		}

		table = child
	}

	return table, nil
}

func (p *parser) keyval(table *value.Table, base keypath.Path, depth int) error {
	line, col := p.line, p.col()

	key, err := p.key()
	if err != nil {
		return err
	}

	p.skipBlank()

	if c, ok := p.peek(); !ok || c != '=' {
		return p.errorf("expected '=' after key %q", key.String())
	}

	p.pos++
	p.skipBlank()

	parent, err := p.descend(table, base, key.Parent(), line, col)
	if err != nil {
		return err
	}

	full := base.Append(key...)

	v, err := p.value(full, depth)
	if err != nil {
		return err
	}

	if parent.Insert(key.Last(), v) != nil {
		return p.duplicate(full, line, col)
	}

	return nil
}

// descend walks the intermediate segments of a dotted key, creating missing tables.
func (p *parser) descend(table *value.Table, base, rel keypath.Path, line, col int) (*value.Table, error) {
	for i, seg := range rel {
		existing, ok := table.Get(seg)
		if !ok {
			child := value.NewTable()
			_ = table.Insert(seg, child)
			table = child

			continue
		}

		child, isTable := existing.(*value.Table)
		if !isTable || p.isSealed(child) {
			return nil, p.duplicate(base.Append(rel[:i+1]...), line, col)
		}

		table = child
	}

	return table, nil
}

func (p *parser) key() (keypath.Path, error) {
	var path keypath.Path

	for {
		start := p.pos
		for p.pos < len(p.src) && keypath.IsKeyByte(p.src[p.pos]) {
			p.pos++
		}

		if p.pos == start {
			if len(path) == 0 {
				return nil, p.errorf("expected key")
			}

			return nil, p.errorf("empty segment in dotted key")
		}

		path = append(path, string(p.src[start:p.pos]))

		if c, ok := p.peek(); !ok || c != '.' {
			return path, nil
		}

		p.pos++
	}
}

func (p *parser) value(path keypath.Path, depth int) (value.Value, error) {
	if depth > maxDepth {
		return nil, p.errorf("values nested deeper than %d levels", maxDepth)
	}

	c, ok := p.peek()
	if !ok || c == '\n' || c == '#' {
		return nil, p.errorf("missing value")
	}

	switch c {
	case '"':
		return p.str()
	case '[':
		return p.array(path, depth)
	case '{':
		return p.inlineTable(path, depth)
	default:
		return p.literal()
	}
}

func (p *parser) literal() (value.Value, error) {
	line, col := p.line, p.col()
	start := p.pos

	for p.pos < len(p.src) && isLiteralByte(p.src[p.pos]) {
		p.pos++
	}

	word := string(p.src[start:p.pos])
	if word == "" {
		return nil, p.errorf("unexpected character %q, expected a value", p.src[p.pos])
	}

	switch word {
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	case "inf", "+inf":
		return value.Float(math.Inf(1)), nil
	case "-inf":
		return value.Float(math.Inf(-1)), nil
	case "nan", "+nan", "-nan":
		return value.Float(math.NaN()), nil
	}

	if intPattern.MatchString(word) {
		i, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return nil, p.errorAt(line, col, "integer %s out of int64 range", word)
		}

		return value.Int(i), nil
	}

	if floatPattern.MatchString(word) && strings.ContainsAny(word, ".eE") {
		f, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return nil, p.errorAt(line, col, "float %s out of range", word)
		}

		return value.Float(f), nil
	}

	return nil, p.errorAt(line, col, "invalid value %q", word)
}

func (p *parser) str() (value.Value, error) {
	line, col := p.line, p.col()
	p.pos++

	var sb strings.Builder

	for {
		if p.pos >= len(p.src) {
			return nil, p.errorAt(line, col, "unterminated string")
		}

		c := p.src[p.pos]

		switch {
		case c == '"':
			p.pos++

			return value.String(sb.String()), nil
		case c == '\n':
			return nil, p.errorAt(line, col, "unterminated string")
		case c == '\\':
			err := p.escape(&sb)
			if err != nil {
				return nil, err
			}
		case c < 0x20 && c != '\t':
			return nil, p.errorf("control character %q in string", c)
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(p.src[p.pos:])
			if r == utf8.RuneError && size <= 1 {
				return nil, p.errorf("invalid UTF-8 in string")
			}

			sb.Write(p.src[p.pos : p.pos+size])
			p.pos += size
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) escape(sb *strings.Builder) error {
	p.pos++

	c, ok := p.peek()
	if !ok {
		return p.errorf("unterminated escape sequence")
	}

	switch c {
	case '"', '\\':
		sb.WriteByte(c)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'u', 'U':
		width := 4
		if c == 'U' {
			width = 8
		}

		if p.pos+1+width > len(p.src) {
			return p.errorf("truncated unicode escape")
		}

		digits := string(p.src[p.pos+1 : p.pos+1+width])

		code, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return p.errorf("invalid unicode escape \\%c%s", c, digits)
		}

		sb.WriteRune(rune(code))
		p.pos += width
	default:
		return p.errorf("invalid escape sequence \\%c", c)
	}

	p.pos++

	return nil
}

func (p *parser) array(path keypath.Path, depth int) (value.Value, error) {
	line, col := p.line, p.col()
	p.pos++

	arr := value.Array{}

	for {
		p.skipInsignificant()

		c, ok := p.peek()
		if !ok {
			return nil, p.errorAt(line, col, "unterminated array")
		}

		if c == ']' {
			p.pos++

			return arr, nil
		}

		elem, err := p.value(path, depth+1)
		if err != nil {
			return nil, err
		}

		arr = append(arr, elem)

		p.skipInsignificant()

		c, ok = p.peek()
		if !ok {
			return nil, p.errorAt(line, col, "unterminated array")
		}

		switch c {
		case ',':
			p.pos++
		case ']':
			p.pos++

			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array, found %q", c)
		}
	}
}

func (p *parser) inlineTable(path keypath.Path, depth int) (value.Value, error) {
	line, col := p.line, p.col()
	p.pos++

	table := value.NewTable()

	p.skipBlank()

	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		p.sealed[table] = struct{}{}

		return table, nil
	}

	for {
		p.skipBlank()

		err := p.keyval(table, path, depth+1)
		if err != nil {
			return nil, err
		}

		p.skipBlank()

		c, ok := p.peek()
		if !ok || c == '\n' {
			return nil, p.errorAt(line, col, "unterminated inline table")
		}

		if c == '}' {
			p.pos++

			break
		}

		if c != ',' {
			return nil, p.errorf("expected ',' or '}' in inline table, found %q", c)
		}

		p.pos++
		p.skipBlank()

		if c, ok := p.peek(); ok && c == '}' {
			p.pos++

			break
		}
	}

	p.sealed[table] = struct{}{}

	return table, nil
}

func (p *parser) endOfLine() error {
	p.skipBlank()

	c, ok := p.peek()
	if !ok {
		return nil
	}

	if c == '#' {
		p.skipComment()

		return nil
	}

	if c != '\n' {
		return p.errorf("unexpected %q at end of line", c)
	}

	p.newline()

	return nil
}

func (p *parser) isSealed(t *value.Table) bool {
	_, ok := p.sealed[t]

	return ok
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}

	return p.src[p.pos], true
}

func (p *parser) col() int {
	return p.pos - p.lineStart + 1
}

func (p *parser) newline() {
	p.pos++
	p.line++
	p.lineStart = p.pos
}

// skipBlank skips spaces, tabs and carriage returns.
func (p *parser) skipBlank() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) skipComment() {
	for p.pos < len(p.src) && p.src[p.pos] != '\n' {
		p.pos++
	}
}

// skipInsignificant skips blanks, newlines and comments inside arrays.
func (p *parser) skipInsignificant() {
	for {
		p.skipBlank()

		c, ok := p.peek()

		switch {
		case !ok:
			return
		case c == '\n':
			p.newline()
		case c == '#':
			p.skipComment()
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return p.errorAt(p.line, p.col(), format, args...)
}

func (p *parser) errorAt(line, col int, format string, args ...any) error {
	return &cfgerr.ParseError{
		Origin:  p.origin,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *parser) duplicate(path keypath.Path, line, col int) error {
	return &cfgerr.ParseError{
		Origin:  p.origin,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf("duplicate key %q", path.String()),
		Err:     &cfgerr.DuplicateKeyError{Path: path.String(), Line: line, Column: col},
	}
}

func isLiteralByte(c byte) bool {
	return keypath.IsKeyByte(c) || c == '+' || c == '.'
}
