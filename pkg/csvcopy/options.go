package csvcopy

import "strconv"

// Options configures a conversion run.
//
// Start from DefaultOptions; the zero value is not valid because a zero
// delimiter is rejected.
type Options struct {
	// Policy is the field count policy. Nil means Unconstrained.
	Policy FieldCountPolicy

	// Delimiter is the input field separator.
	// Default: ','
	Delimiter byte

	// AutoDelimiter replaces Delimiter with one detected from the start of
	// the decoded input (see Sniffer).
	AutoDelimiter bool

	// OutputDelimiter is the output field separator.
	// Default: ','
	OutputDelimiter byte

	// Quote is the input quote byte. Zero disables quoting on input.
	// Default: '"'
	Quote byte

	// Escape is the input escape byte. When equal to Quote, a doubled quote
	// inside a quoted field is a literal quote. Otherwise Escape followed by
	// any byte inside a quoted field yields that byte literally.
	// Default: '"'
	Escape byte

	// Encoding forces the input encoding by label (for example "latin1",
	// "ISO-8859-1", "windows-1252", "utf-8"). Empty means autodetect from a
	// byte order mark, defaulting to UTF-8.
	Encoding string

	// UseCRLF terminates output records with \r\n instead of \n.
	UseCRLF bool

	// OnDrop, if set, is called for every record dropped by the policy.
	OnDrop DropHandler
}

// DefaultOptions returns the default configuration: canonical CSV in and
// out, autodetected encoding, no field count constraint.
func DefaultOptions() Options {
	return Options{
		Policy:          Unconstrained{},
		Delimiter:       ',',
		OutputDelimiter: ',',
		Quote:           '"',
		Escape:          '"',
	}
}

// policy returns the configured policy, defaulting to Unconstrained.
func (o Options) policy() FieldCountPolicy {
	if o.Policy == nil {
		return Unconstrained{}
	}
	return o.Policy
}

// validDelim reports whether b is usable as a field delimiter.
func validDelim(b byte) bool {
	return b != 0 && b != '\r' && b != '\n' && b < 0x80
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if !o.AutoDelimiter && !validDelim(o.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter " + strconv.QuoteRune(rune(o.Delimiter))}
	}
	if !validDelim(o.OutputDelimiter) || o.OutputDelimiter == '"' {
		return &OptionsError{Field: "OutputDelimiter", Message: "invalid delimiter " + strconv.QuoteRune(rune(o.OutputDelimiter))}
	}
	if o.Quote >= 0x80 || o.Quote == '\r' || o.Quote == '\n' {
		return &OptionsError{Field: "Quote", Message: "invalid quote character"}
	}
	if !o.AutoDelimiter && o.Quote != 0 && o.Quote == o.Delimiter {
		return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
	}
	if o.Escape >= 0x80 || o.Escape == '\r' || o.Escape == '\n' {
		return &OptionsError{Field: "Escape", Message: "invalid escape character"}
	}
	if !o.AutoDelimiter && o.Escape != o.Quote && o.Escape == o.Delimiter {
		return &OptionsError{Field: "Escape", Message: "escape character same as delimiter"}
	}
	if p, ok := o.Policy.(Exact); ok && p.N < 0 {
		return &OptionsError{Field: "Policy", Message: "field count must not be negative"}
	}
	if o.Encoding != "" {
		if _, err := LookupEncoding(o.Encoding); err != nil {
			return &OptionsError{Field: "Encoding", Message: err.Error()}
		}
	}
	return nil
}

// dialect is the input parsing configuration resolved once per run.
type dialect struct {
	delim  byte
	quote  byte
	quoted bool
	escape escapeMode
	// esc is the prefix escape byte; only meaningful when escape is escapePrefix.
	esc byte
}

// escapeMode selects how a literal quote is written inside quoted content.
type escapeMode int

const (
	// escapeDoubled treats "" inside a quoted field as one literal quote.
	escapeDoubled escapeMode = iota
	// escapePrefix treats the escape byte as a prefix making the next byte literal.
	escapePrefix
)

func (o Options) writerOptions() WriterOptions {
	return WriterOptions{
		Comma:    o.OutputDelimiter,
		UseCRLF:  o.UseCRLF,
		Flexible: o.policy().Flexible(),
	}
}

func (o Options) dialect() dialect {
	d := dialect{
		delim:  o.Delimiter,
		quote:  o.Quote,
		quoted: o.Quote != 0,
		escape: escapeDoubled,
	}
	if o.Quote != o.Escape {
		d.escape = escapePrefix
		d.esc = o.Escape
	}
	return d
}
