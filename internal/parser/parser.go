// Package parser implements LL(1) recursive descent parsing of delimited text
// into Shape's AST. Each production rule in the grammar below corresponds to
// a parse function.
//
// Grammar (D = delimiter, Q = quote, E = escape):
//
//	File          = { BlankLine | Record } ;
//	Record        = Field { D Field } [ Newline ] ;
//	Field         = QuotedField | UnquotedField ;
//	QuotedField   = Q { QuotedChar | EscapedChar } Q { Trailing } ;
//	EscapedChar   = Q Q          (doubled mode)
//	              | E <any>      (prefix mode) ;
//	UnquotedField = { <any except D, Newline> } ;
//
// Every field is trimmed of surrounding white space.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-csvcopy/internal/tokenizer"
)

// ErrUnterminatedQuote indicates a quoted field still open at end of input.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

// SyntaxError reports a structural failure with its position.
type SyntaxError struct {
	// StartLine is the line where the failing record started (1-indexed).
	StartLine int
	// Line is the line of the last token examined (1-indexed).
	Line int
	// Column is the column of the last token examined (1-indexed).
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Options configures the parser dialect.
type Options = tokenizer.Options

// DefaultOptions returns the default dialect: comma, double quote, doubled-quote escaping.
func DefaultOptions() Options {
	return tokenizer.DefaultOptions()
}

// Parser implements LL(1) recursive descent parsing for delimited text.
// It maintains a single token lookahead for predictive parsing.
type Parser struct {
	tokenizer *shapetokenizer.Tokenizer
	current   *shapetokenizer.Token
	hasToken  bool
	opts      Options

	// Position of the most recent token, kept for errors at end of input.
	lastRow    int
	lastColumn int

	recordLines []int
}

// NewParser creates a parser for input with the default dialect.
func NewParser(input string) *Parser {
	return NewParserWithOptions(input, DefaultOptions())
}

// NewParserWithOptions creates a parser for input with a custom dialect.
func NewParserWithOptions(input string, opts Options) *Parser {
	return newParserWithStream(shapetokenizer.NewStream(input), opts)
}

func newParserWithStream(stream shapetokenizer.Stream, opts Options) *Parser {
	tok := tokenizer.NewTokenizerWithStream(stream, opts)

	p := &Parser{
		tokenizer:  &tok,
		opts:       opts,
		lastRow:    1,
		lastColumn: 1,
	}
	p.advance() // Load first token
	return p
}

// Parse parses the input and returns an AST representing the file.
//
// Returns *ast.ArrayDataNode - an array of records, where each record is an
// ArrayDataNode of LiteralNode fields holding string values.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	records := make([]ast.SchemaNode, 0, 16)
	p.recordLines = p.recordLines[:0]

	for p.hasToken {
		// Skip blank lines
		if p.peekKind() == tokenizer.TokenNewline {
			p.advance()
			continue
		}

		p.recordLines = append(p.recordLines, p.current.Row())
		record, err := p.parseRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return ast.NewArrayDataNode(records, ast.ZeroPosition()), nil
}

// RecordLines returns the starting line of each record produced by the last
// call to Parse, in order.
func (p *Parser) RecordLines() []int {
	return p.recordLines
}

// parseRecord parses a single record.
//
// Grammar:
//
//	Record = Field { D Field } [ Newline ] ;
func (p *Parser) parseRecord() (*ast.ArrayDataNode, error) {
	startPos := p.position()
	startRow := p.lastRow
	fields := make([]ast.SchemaNode, 0, 8)

	field, err := p.parseField(startRow)
	if err != nil {
		return nil, err
	}
	fields = append(fields, field)

	for p.peekKind() == tokenizer.TokenDelimiter {
		p.advance() // consume delimiter

		field, err := p.parseField(startRow)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	// Consume line terminator (newline or EOF)
	if p.peekKind() == tokenizer.TokenNewline {
		p.advance()
	}

	return ast.NewArrayDataNode(fields, startPos), nil
}

// parseField parses a single field.
//
// Grammar:
//
//	Field = QuotedField | UnquotedField ;
func (p *Parser) parseField(startRow int) (*ast.LiteralNode, error) {
	startPos := p.position()

	var value string
	if p.peekKind() == tokenizer.TokenQuote {
		var err error
		if value, err = p.parseQuotedField(startRow); err != nil {
			return nil, err
		}
	} else {
		value = p.parseUnquotedField()
	}

	return ast.NewLiteralNode(strings.TrimSpace(value), startPos), nil
}

// parseQuotedField parses a quoted field.
//
// Grammar:
//
//	QuotedField = Q { QuotedChar | EscapedChar } Q { Trailing } ;
//
// Delimiters and newlines inside quotes are literal. Content following the
// closing quote up to the next delimiter is appended literally.
func (p *Parser) parseQuotedField(startRow int) (string, error) {
	p.advance() // consume opening quote

	var value strings.Builder
	prefix := p.opts.PrefixEscape()

	for {
		if !p.hasToken {
			return "", p.unterminated(startRow)
		}

		switch p.peekKind() {
		case tokenizer.TokenQuote:
			p.advance()
			if !prefix && p.peekKind() == tokenizer.TokenQuote {
				value.WriteByte(p.opts.Quote)
				p.advance()
				continue
			}
			p.appendUntilBoundary(&value)
			return value.String(), nil

		case tokenizer.TokenEscape:
			p.advance()
			if !p.hasToken {
				return "", p.unterminated(startRow)
			}
			value.WriteString(p.current.ValueString())
			p.advance()

		default:
			value.WriteString(p.current.ValueString())
			p.advance()
		}
	}
}

// parseUnquotedField parses an unquoted field. Quote and escape tokens are
// literal here.
//
// Grammar:
//
//	UnquotedField = { <any except D, Newline> } ;
func (p *Parser) parseUnquotedField() string {
	var value strings.Builder
	p.appendUntilBoundary(&value)
	return value.String()
}

// appendUntilBoundary appends token text up to the next delimiter, newline or EOF.
func (p *Parser) appendUntilBoundary(value *strings.Builder) {
	for p.hasToken {
		kind := p.peekKind()
		if kind == tokenizer.TokenDelimiter || kind == tokenizer.TokenNewline {
			return
		}
		value.WriteString(p.current.ValueString())
		p.advance()
	}
}

func (p *Parser) unterminated(startRow int) error {
	return &SyntaxError{
		StartLine: startRow,
		Line:      p.lastRow,
		Column:    p.lastColumn,
		Err:       ErrUnterminatedQuote,
	}
}

// Helper methods

// peekKind returns the kind of the current token, or "" at EOF.
func (p *Parser) peekKind() string {
	if !p.hasToken || p.current == nil {
		return ""
	}
	return p.current.Kind()
}

// advance moves to next token.
func (p *Parser) advance() {
	token, ok := p.tokenizer.NextToken()
	if ok {
		p.current = token
		p.hasToken = true
		p.lastRow = token.Row()
		p.lastColumn = token.Column()
	} else {
		p.hasToken = false
		p.current = nil
	}
}

// position returns current position for AST nodes.
func (p *Parser) position() ast.Position {
	if p.hasToken && p.current != nil {
		return ast.NewPosition(
			p.current.Offset(),
			p.current.Row(),
			p.current.Column(),
		)
	}
	return ast.ZeroPosition()
}
