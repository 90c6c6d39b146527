package csvcopy

import (
	"bytes"
	"errors"
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-csvcopy/internal/parser"
)

// Parse parses decoded text into an AST under the input dialect of opts.
//
// Returns an *ast.ArrayDataNode of records, each an *ast.ArrayDataNode of
// *ast.LiteralNode fields with trimmed string values. Parse follows the same
// rules as Reader; use it for documents already in memory.
//
// Example:
//
//	opts := csvcopy.DefaultOptions()
//	opts.Delimiter = ';'
//	node, err := csvcopy.Parse("a;b\nc;d\n", opts)
func Parse(text string, opts Options) (ast.SchemaNode, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.AutoDelimiter {
		opts.Delimiter = sampleDelimiter([]byte(text), opts.Quote, opts.Escape)
	}
	node, err := parser.NewParserWithOptions(text, opts.parserOptions()).Parse()
	if err != nil {
		return nil, fromSyntaxError(err)
	}
	return node, nil
}

// Convert performs a whole run in memory: it decodes data, parses it into an
// AST, applies the field count policy and renders the accepted records. The
// output is byte-identical to what Run writes for the same input.
//
// Unlike Run, Convert returns no output when it fails.
func Convert(data []byte, opts Options) ([]byte, Stats, error) {
	if err := opts.Validate(); err != nil {
		return nil, Stats{}, err
	}

	text, err := decodeAll(data, opts.Encoding)
	if err != nil {
		return nil, Stats{}, err
	}
	if opts.AutoDelimiter {
		opts.Delimiter = sampleDelimiter(text, opts.Quote, opts.Escape)
	}

	p := parser.NewParserWithOptions(string(text), opts.parserOptions())
	node, err := p.Parse()
	if err != nil {
		return nil, Stats{}, fromSyntaxError(err)
	}
	records, err := Records(node)
	if err != nil {
		return nil, Stats{}, err
	}
	lines := p.RecordLines()

	var stats Stats
	policy := opts.policy()
	accepted := make([]ast.SchemaNode, 0, len(records))
	for i, fields := range records {
		stats.Read++
		shaped, ok := policy.Shape(fields)
		if !ok {
			stats.Dropped++
			if opts.OnDrop != nil {
				opts.OnDrop(lines[i], fields)
			}
			continue
		}
		accepted = append(accepted, recordNode(shaped))
	}

	out, err := Render(ast.NewArrayDataNode(accepted, ast.ZeroPosition()), opts.writerOptions())
	if err != nil {
		return nil, stats, err
	}
	stats.Written = int64(len(accepted))
	return out, stats, nil
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{
		Delimiter: o.Delimiter,
		Quote:     o.Quote,
		Escape:    o.Escape,
	}
}

// recordNode builds a record AST from field values.
func recordNode(fields []string) *ast.ArrayDataNode {
	elems := make([]ast.SchemaNode, len(fields))
	for i, f := range fields {
		elems[i] = ast.NewLiteralNode(f, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(elems, ast.ZeroPosition())
}

// decodeAll decodes data completely. A decode failure is reported as a
// *ParseError positioned after the last decoded character.
func decodeAll(data []byte, label string) ([]byte, error) {
	r, err := NewDecodeReader(bytes.NewReader(data), label)
	if err != nil {
		return nil, err
	}
	text, err := io.ReadAll(r)
	if err != nil {
		line, col := endPosition(text)
		return nil, &ParseError{StartLine: line, Line: line, Column: col, Err: err}
	}
	return text, nil
}

// endPosition returns the 1-indexed line and column just past the end of text.
func endPosition(text []byte) (line, column int) {
	line, column = 1, 1
	for i, c := range text {
		switch {
		case c == '\n' && i > 0 && text[i-1] == '\r':
		case c == '\n' || c == '\r':
			line++
			column = 1
		default:
			column++
		}
	}
	return line, column
}

// fromSyntaxError converts a parser error into a *ParseError.
func fromSyntaxError(err error) error {
	var se *parser.SyntaxError
	if !errors.As(err, &se) {
		return err
	}
	return &ParseError{StartLine: se.StartLine, Line: se.Line, Column: se.Column, Err: se.Err}
}
