package csvcopy

import (
	"io"
	"strings"
)

// WriterOptions configures canonical CSV output.
type WriterOptions struct {
	// Comma is the field delimiter.
	// Default: ','
	Comma byte

	// UseCRLF controls whether to use \r\n (true) or \n (false) as the line terminator.
	// Default: false (use \n)
	UseCRLF bool

	// Flexible permits records of differing widths. When false every record
	// must have the width of the first record written.
	// Default: true
	Flexible bool
}

// DefaultWriterOptions returns the default writer configuration.
func DefaultWriterOptions() WriterOptions {
	return WriterOptions{
		Comma:    ',',
		UseCRLF:  false,
		Flexible: true,
	}
}

// Validate checks if the writer options are valid.
func (o WriterOptions) Validate() error {
	if !validDelim(o.Comma) || o.Comma == '"' {
		return &OptionsError{Field: "Comma", Message: "invalid delimiter"}
	}
	return nil
}

// Writer emits records as canonical CSV: fields are separated by the
// configured delimiter, quoted with '"' when needed, and quotes inside
// quoted fields are doubled. Each record is serialised in full and handed
// to the destination in a single Write call.
type Writer struct {
	dst   io.Writer
	opts  WriterOptions
	buf   []byte
	width int
	count int64
	err   error
}

// NewWriter creates a Writer. It panics if dst is nil.
func NewWriter(dst io.Writer, opts WriterOptions) *Writer {
	if dst == nil {
		panic("csvcopy: writer destination cannot be nil")
	}
	return &Writer{
		dst:   dst,
		opts:  opts,
		buf:   make([]byte, 0, 256),
		width: -1,
	}
}

// Write emits a single record followed by one line terminator.
// Sink failures are returned as *WriteError and are sticky.
func (w *Writer) Write(record []string) error {
	if w.err != nil {
		return w.err
	}
	if !w.opts.Flexible {
		if w.width < 0 {
			w.width = len(record)
		} else if len(record) != w.width {
			return &WriteError{Record: w.count + 1, Err: ErrFieldCount}
		}
	}

	w.buf = appendRecord(w.buf[:0], record, w.opts.Comma, w.opts.UseCRLF)
	n, err := w.dst.Write(w.buf)
	if err == nil && n < len(w.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = &WriteError{Record: w.count + 1, Err: err}
		return w.err
	}
	w.count++
	return nil
}

// Count returns the number of records written successfully.
func (w *Writer) Count() int64 {
	return w.count
}

// Flush flushes the destination if it buffers (for example a *bufio.Writer).
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	f, ok := w.dst.(interface{ Flush() error })
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		w.err = &WriteError{Record: w.count, Err: err}
		return w.err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	return w.err
}

// appendRecord appends the canonical encoding of record to buf.
func appendRecord(buf []byte, record []string, comma byte, crlf bool) []byte {
	// An empty record or a lone empty field is written as "" so the record
	// does not read back as a blank line.
	if len(record) == 0 || (len(record) == 1 && record[0] == "") {
		buf = append(buf, '"', '"')
	} else {
		for i, field := range record {
			if i > 0 {
				buf = append(buf, comma)
			}
			buf = appendField(buf, field, comma)
		}
	}
	if crlf {
		return append(buf, '\r', '\n')
	}
	return append(buf, '\n')
}

// appendField appends a field, quoting it when it contains the delimiter,
// a quote, or a line break.
func appendField(buf []byte, field string, comma byte) []byte {
	if !fieldNeedsQuotes(field, comma) {
		return append(buf, field...)
	}
	buf = append(buf, '"')
	for {
		i := strings.IndexByte(field, '"')
		if i < 0 {
			break
		}
		buf = append(buf, field[:i+1]...)
		buf = append(buf, '"')
		field = field[i+1:]
	}
	buf = append(buf, field...)
	return append(buf, '"')
}

func fieldNeedsQuotes(field string, comma byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case comma, '"', '\n', '\r':
			return true
		}
	}
	return false
}
