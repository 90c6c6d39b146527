package csvcopy

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Render converts a file AST to canonical CSV bytes.
//
// The node should be the result of Parse, or any *ast.ArrayDataNode of
// records where each record is an *ast.ArrayDataNode of *ast.LiteralNode
// fields. Rendering applies the same quoting rules as Writer, so rendering
// the records of a run yields the bytes Run would write.
//
// Example:
//
//	node, _ := csvcopy.Parse("a;b\nc;d\n", opts)
//	out, _ := csvcopy.Render(node, csvcopy.DefaultWriterOptions())
//	// out: a,b\nc,d\n
func Render(node ast.SchemaNode, opts WriterOptions) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	file, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unsupported node type for CSV rendering: %T", node)
	}

	buf := make([]byte, 0, 1024)
	width := -1
	fields := make([]string, 0, 16)

	for i, elem := range file.Elements() {
		var err error
		if fields, err = recordFields(fields[:0], elem); err != nil {
			return nil, err
		}
		if !opts.Flexible {
			if width < 0 {
				width = len(fields)
			} else if len(fields) != width {
				return nil, &WriteError{Record: int64(i + 1), Err: ErrFieldCount}
			}
		}
		buf = appendRecord(buf, fields, opts.Comma, opts.UseCRLF)
	}

	return buf, nil
}

// Records extracts field values from a file AST.
func Records(node ast.SchemaNode) ([][]string, error) {
	if node == nil {
		return [][]string{}, nil
	}
	file, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("expected *ast.ArrayDataNode, got %T", node)
	}

	records := make([][]string, 0, file.Len())
	for _, elem := range file.Elements() {
		fields, err := recordFields(nil, elem)
		if err != nil {
			return nil, err
		}
		records = append(records, fields)
	}
	return records, nil
}

// recordFields appends the string values of a record node to dst.
func recordFields(dst []string, node ast.SchemaNode) ([]string, error) {
	record, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unexpected record node type: %T", node)
	}
	for _, elem := range record.Elements() {
		lit, ok := elem.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("unexpected field node type: %T", elem)
		}
		dst = append(dst, literalString(lit))
	}
	return dst, nil
}

// literalString returns a literal's value as a field string.
func literalString(node *ast.LiteralNode) string {
	switch v := node.Value().(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
