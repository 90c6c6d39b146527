// Package csvcopy rewrites delimited text exports as canonical CSV that is
// safe to load with a bulk `COPY ... WITH FORMAT CSV` command.
//
// A run is a pull-based pipeline of three stages, driven one record at a
// time:
//
//   - Decoding: NewDecodeReader turns raw bytes into UTF-8 text, either by
//     sniffing a byte order mark (defaulting to strict UTF-8) or by decoding
//     with a forced encoding label such as "latin1" or "windows-1252".
//   - Parsing: Reader splits the text into records under a configurable
//     delimiter, quote and escape byte. Rows may be ragged and every field is
//     trimmed of surrounding white space.
//   - Shaping and emitting: Shaper applies the FieldCountPolicy (Exact drops
//     short rows and truncates long ones, Unconstrained passes everything)
//     and Writer serialises accepted records as canonical CSV.
//
// Nothing is buffered beyond the record in flight.
//
// # Thread Safety
//
// A run owns its Decoder, Reader, Shaper and Writer exclusively. Run and
// Convert are safe to call concurrently with independent streams.
//
// # Errors
//
// The first failure aborts the run and is returned intact:
//
//   - *OptionsError for invalid configuration, before any input is read
//   - *ParseError for malformed input; a decode failure is a *ParseError
//     wrapping a *DecodeError
//   - *WriteError for output sink failures
//
// Records already written stay written. Rows dropped by an Exact policy are
// not errors; they are counted in Stats and reported to Options.OnDrop.
//
// # Example usage with Run:
//
//	opts := csvcopy.DefaultOptions()
//	opts.Delimiter = ';'
//	opts.Encoding = "latin1"
//	opts.Policy = csvcopy.ExactFields(3)
//
//	stats, err := csvcopy.Run(os.Stdin, os.Stdout, opts)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(stats.Dropped, "rows dropped")
package csvcopy

import (
	"bufio"
	"io"
)

// Run decodes, parses, shapes and writes src to dst under opts.
//
// dst receives one Write per accepted record. If dst has a Flush method
// (for example a *bufio.Writer) it is flushed after the last record, and
// also when the run fails part way.
//
// Example:
//
//	var out bytes.Buffer
//	_, err := csvcopy.Run(strings.NewReader("foo;bar;baz\n"), &out, opts)
func Run(src io.Reader, dst io.Writer, opts Options) (Stats, error) {
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}

	text, err := NewDecodeReader(src, opts.Encoding)
	if err != nil {
		return Stats{}, err
	}

	if opts.AutoDelimiter {
		br := bufio.NewReaderSize(text, sniffSize)
		opts.Delimiter = sniffDelimiter(br, opts.Quote, opts.Escape)
		text = br
	}

	reader := newReader(text, opts.dialect())
	shaper := NewShaper(reader, opts.policy(), opts.OnDrop)
	writer := NewWriter(dst, opts.writerOptions())

	stats, err := pump(shaper, writer)
	// Records accepted before a failure stay written.
	if ferr := writer.Flush(); err == nil {
		err = ferr
	}
	return stats, err
}

// pump moves accepted records from s to w until the input ends or a stage fails.
func pump(s *Shaper, w *Writer) (Stats, error) {
	var err error
	for {
		var fields []string
		if fields, err = s.Read(); err != nil {
			break
		}
		if err = w.Write(fields); err != nil {
			break
		}
	}
	if err == io.EOF {
		err = nil
	}

	stats := s.Stats()
	stats.Written = w.Count()
	return stats, err
}
