package encode

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"
)

// ErrInvalidKey is returned when a table key cannot be written as a bare key.
var ErrInvalidKey = errors.New("key is not representable")

// Option configures an Encoder.
type Option func(*options)

type options struct {
	headerComment []string
	compact       bool
}

// WithHeaderComment writes the given text as '#' comment lines at the top of the output.
func WithHeaderComment(text string) Option {
	return func(o *options) {
		o.headerComment = append(o.headerComment, strings.Split(text, "\n")...)
	}
}

// WithCompact drops the blank line written before each section header.
func WithCompact() Option {
	return func(o *options) {
		o.compact = true
	}
}

// Encoder writes documents to an io.Writer.
type Encoder struct {
	w    io.Writer
	opts options
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	var o options

	for _, apply := range opts {
		apply(&o)
	}

	return &Encoder{w: w, opts: o}
}

// Encode writes root and everything below it.
func (e *Encoder) Encode(root *value.Table) error {
	buf := bufio.NewWriter(e.w)
	state := &writer{buf: buf, opts: e.opts}

	for _, line := range e.opts.headerComment {
		state.printf("# %s\n", line)
	}

	err := state.table(root, nil, false)
	if err != nil {
		return err
	}

	if state.err != nil {
		return state.err
	}

	return buf.Flush() //nolint:wrapcheck
}

// Serialize renders root as text.
func Serialize(root *value.Table, opts ...Option) (string, error) {
	var sb strings.Builder

	err := NewEncoder(&sb, opts...).Encode(root)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FormatValue renders a single value the way it appears on the right-hand side of `key = value`.
func FormatValue(v value.Value) (string, error) {
	var sb strings.Builder

	err := writeInline(&sb, v)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

type writer struct {
	buf     *bufio.Writer
	opts    options
	written bool
	err     error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}

	_, w.err = fmt.Fprintf(w.buf, format, args...)
	w.written = true
}

func (w *writer) table(t *value.Table, path keypath.Path, header bool) error {
	if header && needsHeader(t) {
		if w.written && !w.opts.compact {
			w.printf("\n")
		}

		w.printf("[%s]\n", path)
	}

	for k, v := range t.All() {
		if _, isTable := v.(*value.Table); isTable {
			continue
		}

		if !keypath.ValidSegment(k) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, k)
		}

		var sb strings.Builder

		err := writeInline(&sb, v)
		if err != nil {
			return fmt.Errorf("%s: %w", path.Append(k), err)
		}

		w.printf("%s = %s\n", k, sb.String())
	}

	for k, v := range t.All() {
		sub, isTable := v.(*value.Table)
		if !isTable {
			continue
		}

		if !keypath.ValidSegment(k) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, k)
		}

		err := w.table(sub, path.Append(k), true)
		if err != nil {
			return err
		}
	}

	return nil
}

// needsHeader reports whether a section must be written for t. Tables holding only sub-tables
// are created implicitly by their children's headers.
func needsHeader(t *value.Table) bool {
	if t.Len() == 0 {
		return true
	}

	for _, v := range t.All() {
		if _, isTable := v.(*value.Table); !isTable {
			return true
		}
	}

	return false
}

func writeInline(sb *strings.Builder, v value.Value) error {
	switch x := v.(type) {
	case value.Bool:
		sb.WriteString(strconv.FormatBool(bool(x)))
	case value.Int:
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	case value.Float:
		sb.WriteString(formatFloat(float64(x)))
	case value.String:
		quote(sb, string(x))
	case value.Array:
		sb.WriteByte('[')

		for i, elem := range x {
			if i > 0 {
				sb.WriteString(", ")
			}

			err := writeInline(sb, elem)
			if err != nil {
				return err
			}
		}

		sb.WriteByte(']')
	case *value.Table:
		if x.Len() == 0 {
			sb.WriteString("{}")

			return nil
		}

		sb.WriteString("{ ")

		first := true

		for k, elem := range x.All() {
			if !keypath.ValidSegment(k) {
				return fmt.Errorf("%w: %q", ErrInvalidKey, k)
			}

			if !first {
				sb.WriteString(", ")
			}

			first = false

			sb.WriteString(k)
			sb.WriteString(" = ")

			err := writeInline(sb, elem)
			if err != nil {
				return err
			}
		}

		sb.WriteString(" }")
	default:
		return fmt.Errorf("cannot encode %s value", value.KindOf(v))
	}

	return nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

func quote(sb *strings.Builder, s string) {
	sb.WriteByte('"')

	for i := range len(s) {
		c := s[i]

		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if c < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, c)

				continue
			}

			sb.WriteByte(c)
		}
	}

	sb.WriteByte('"')
}
