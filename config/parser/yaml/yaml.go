package yaml

import (
	"errors"
	"fmt"
	"math"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

// ErrUnsupportedNode is wrapped by parse errors for YAML constructs the value model cannot hold.
var ErrUnsupportedNode = errors.New("unsupported yaml node")

// Parser implements config.Parser for YAML data.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a YAML document into a table. An empty document yields an empty table.
func (p *Parser) Parse(data []byte, origin string) (*value.Table, error) {
	file, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, syntaxError(origin, err)
	}

	if len(file.Docs) > 1 {
		return nil, nodeError(origin, file.Docs[1], "multiple documents are not supported")
	}

	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return value.NewTable(), nil
	}

	c := &converter{origin: origin, anchors: make(map[string]value.Value)}

	root, err := c.convert(file.Docs[0].Body, nil)
	if err != nil {
		return nil, err
	}

	table, isTable := root.(*value.Table)
	if !isTable {
		return nil, nodeError(origin, file.Docs[0].Body, "top level must be a mapping, found "+root.Kind().String())
	}

	return table, nil
}

type converter struct {
	origin  string
	anchors map[string]value.Value
}

func (c *converter) convert(node ast.Node, path keypath.Path) (value.Value, error) {
	switch n := node.(type) {
	case *ast.MappingNode:
		return c.mapping(n.Values, path)
	case *ast.MappingValueNode:
		return c.mapping([]*ast.MappingValueNode{n}, path)
	case *ast.SequenceNode:
		out := make(value.Array, 0, len(n.Values))

		for _, elem := range n.Values {
			v, err := c.convert(elem, path)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil
	case *ast.StringNode:
		return value.String(n.Value), nil
	case *ast.LiteralNode:
		return value.String(n.Value.Value), nil
	case *ast.BoolNode:
		return value.Bool(n.Value), nil
	case *ast.IntegerNode:
		return c.integer(n)
	case *ast.FloatNode:
		return value.Float(n.Value), nil
	case *ast.InfinityNode:
		return value.Float(n.Value), nil
	case *ast.NanNode:
		return value.Float(math.NaN()), nil
	case *ast.AnchorNode:
		v, err := c.convert(n.Value, path)
		if err != nil {
			return nil, err
		}

		c.anchors[n.Name.GetToken().Value] = v

		return value.Clone(v), nil
	case *ast.AliasNode:
		name := n.Value.GetToken().Value

		v, ok := c.anchors[name]
		if !ok {
			return nil, nodeError(c.origin, n, fmt.Sprintf("unknown anchor %q", name))
		}

		return value.Clone(v), nil
	case *ast.TagNode:
		return c.convert(n.Value, path)
	case *ast.NullNode:
		return nil, c.unsupported(n, path, "null")
	default:
		return nil, c.unsupported(node, path, node.Type().String())
	}
}

func (c *converter) mapping(pairs []*ast.MappingValueNode, path keypath.Path) (value.Value, error) {
	table := value.NewTable()

	for _, pair := range pairs {
		if pair.Key.IsMergeKey() {
			return nil, c.unsupported(pair.Key, path, "merge key")
		}

		key := pair.Key.GetToken().Value
		if !keypath.ValidSegment(key) {
			return nil, nodeError(c.origin, pair.Key, fmt.Sprintf("invalid key %q", key))
		}

		v, err := c.convert(pair.Value, path.Append(key))
		if err != nil {
			return nil, err
		}

		err = table.Insert(key, v)
		if err != nil {
			pos := position(pair.Key)
			dup := &cfgerr.DuplicateKeyError{Path: path.Append(key).String(), Line: pos.Line, Column: pos.Column}

			return nil, &cfgerr.ParseError{
				Origin:  c.origin,
				Line:    pos.Line,
				Column:  pos.Column,
				Message: dup.Error(),
				Err:     dup,
			}
		}
	}

	return table, nil
}

func (c *converter) integer(n *ast.IntegerNode) (value.Value, error) {
	switch i := n.Value.(type) {
	case int64:
		return value.Int(i), nil
	case uint64:
		if i > math.MaxInt64 {
			return nil, nodeError(c.origin, n, fmt.Sprintf("integer %d overflows int64", i))
		}

		return value.Int(int64(i)), nil
	default:
		return nil, nodeError(c.origin, n, fmt.Sprintf("unexpected integer %v", n.Value))
	}
}

func (c *converter) unsupported(node ast.Node, path keypath.Path, what string) error {
	pos := position(node)

	return &cfgerr.ParseError{
		Origin:  c.origin,
		Line:    pos.Line,
		Column:  pos.Column,
		Message: fmt.Sprintf("%s: %s is not supported", displayPath(path), what),
		Err:     ErrUnsupportedNode,
	}
}

func nodeError(origin string, node ast.Node, msg string) error {
	pos := position(node)

	return &cfgerr.ParseError{Origin: origin, Line: pos.Line, Column: pos.Column, Message: msg}
}

func syntaxError(origin string, err error) error {
	var syntax *yaml.SyntaxError
	if errors.As(err, &syntax) && syntax.Token != nil && syntax.Token.Position != nil {
		return &cfgerr.ParseError{
			Origin:  origin,
			Line:    syntax.Token.Position.Line,
			Column:  syntax.Token.Position.Column,
			Message: syntax.Message,
			Err:     err,
		}
	}

	return &cfgerr.ParseError{Origin: origin, Message: err.Error(), Err: err}
}

func position(node ast.Node) token.Position {
	if node == nil {
		return token.Position{}
	}

	tk := node.GetToken()
	if tk == nil || tk.Position == nil {
		return token.Position{}
	}

	return *tk.Position
}

func displayPath(p keypath.Path) string {
	if p.IsRoot() {
		return "<root>"
	}

	return p.String()
}
