package csvcopy

import (
	"bufio"
	"io"
	"strings"
)

// readState is the position of the reader within the current field.
type readState int

const (
	stateFieldStart readState = iota
	stateUnquoted
	stateQuoted
	stateEscaped       // after the prefix escape byte inside quotes
	stateQuoteInQuoted // after a quote byte inside quotes
	stateAfterQuoted   // after a closing quote, before the delimiter
)

// Reader reads records from decoded UTF-8 text one at a time.
//
// Every line is a data record; blank lines are skipped. Records may have
// any number of fields. Each field is unquoted, unescaped and trimmed of
// surrounding white space before it is returned.
//
// Example:
//
//	r, err := csvcopy.NewReader(strings.NewReader("a;b\nc;d\n"), opts)
//	if err != nil {
//	    // invalid options
//	}
//	for {
//	    fields, err := r.Read()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // *ParseError
//	    }
//	    // use fields
//	}
type Reader struct {
	br *bufio.Reader
	d  dialect

	line       int
	col        int
	lastCR     bool
	recordLine int

	field []byte
	width int
	err   error
}

// NewReader creates a Reader over already-decoded text. Only the input
// delimiter, quote and escape settings of opts are used.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return newReader(r, opts.dialect()), nil
}

func newReader(r io.Reader, d dialect) *Reader {
	return &Reader{
		br:    bufio.NewReader(r),
		d:     d,
		line:  1,
		field: make([]byte, 0, 64),
	}
}

// Read returns the next record. It returns io.EOF when the input is
// exhausted. Any other error is a *ParseError and is returned again by
// every later call.
func (r *Reader) Read() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	fields, err := r.readRecord()
	if err != nil {
		r.err = err
		return nil, err
	}
	r.width = len(fields)
	return fields, nil
}

// Line returns the line on which the most recently read record started.
func (r *Reader) Line() int {
	return r.recordLine
}

func (r *Reader) readRecord() ([]string, error) {
	if err := r.skipBlankLines(); err != nil {
		return nil, err
	}

	r.recordLine = r.line
	fields := make([]string, 0, r.width)
	r.field = r.field[:0]
	state := stateFieldStart

	for {
		c, err := r.readByte()
		if err != nil {
			if err != io.EOF {
				return nil, r.fail(err)
			}
			if state == stateQuoted || state == stateEscaped {
				return nil, r.fail(ErrUnterminatedQuote)
			}
			return r.appendField(fields), nil
		}

		switch state {
		case stateQuoted:
			switch {
			case r.d.escape == escapePrefix && c == r.d.esc:
				state = stateEscaped
			case c == r.d.quote:
				state = stateQuoteInQuoted
			default:
				r.field = append(r.field, c)
			}
			continue
		case stateEscaped:
			r.field = append(r.field, c)
			state = stateQuoted
			continue
		case stateQuoteInQuoted:
			if r.d.escape == escapeDoubled && c == r.d.quote {
				r.field = append(r.field, c)
				state = stateQuoted
				continue
			}
			state = stateAfterQuoted
		case stateFieldStart:
			if r.d.quoted && c == r.d.quote {
				state = stateQuoted
				continue
			}
			state = stateUnquoted
		}

		// Unquoted content, or trailing content after a closing quote.
		switch c {
		case r.d.delim:
			fields = r.appendField(fields)
			state = stateFieldStart
		case '\n', '\r':
			// A \n following \r is skipped as a blank line by the next call.
			return r.appendField(fields), nil
		default:
			r.field = append(r.field, c)
		}
	}
}

// skipBlankLines consumes line terminators preceding the next record.
// It returns io.EOF when nothing but terminators remain.
func (r *Reader) skipBlankLines() error {
	for {
		next, err := r.br.Peek(1)
		if len(next) == 0 {
			if err == io.EOF {
				return io.EOF
			}
			r.recordLine = r.line
			return r.fail(err)
		}
		if next[0] != '\n' && next[0] != '\r' {
			return nil
		}
		if _, err := r.readByte(); err != nil {
			return r.fail(err)
		}
	}
}

// readByte reads one byte and advances the line and column counters.
func (r *Reader) readByte() (byte, error) {
	c, err := r.br.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case c == '\n' && r.lastCR:
		// Second half of \r\n, already counted.
	case c == '\n' || c == '\r':
		r.line++
		r.col = 0
	default:
		r.col++
	}
	r.lastCR = c == '\r'
	return c, nil
}

func (r *Reader) appendField(fields []string) []string {
	fields = append(fields, strings.TrimSpace(string(r.field)))
	r.field = r.field[:0]
	return fields
}

func (r *Reader) fail(err error) error {
	return &ParseError{
		StartLine: r.recordLine,
		Line:      r.line,
		Column:    r.col + 1,
		Err:       err,
	}
}
