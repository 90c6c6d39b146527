package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Options configures the tokenizer behavior.
type Options struct {
	// Delimiter is the field separator. Default: ','
	Delimiter byte
	// Quote is the quote byte. Zero disables quote tokens. Default: '"'
	Quote byte
	// Escape is the prefix escape byte. It produces tokens only when quoting
	// is enabled and it differs from Quote. Default: '"'
	Escape byte
}

// DefaultOptions returns default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
		Escape:    '"',
	}
}

// PrefixEscape reports whether the options select prefix-escape mode.
func (o Options) PrefixEscape() bool {
	return o.Quote != 0 && o.Escape != o.Quote
}

// NewTokenizer creates a tokenizer with the default dialect.
func NewTokenizer() tokenizer.Tokenizer {
	return NewTokenizerWithOptions(DefaultOptions())
}

// NewTokenizerWithOptions creates a tokenizer for the given dialect.
//
// Matchers are ordered by specificity:
// 1. Newlines (CRLF before LF and CR to match the longer sequence first)
// 2. Delimiter
// 3. Quote and escape, when enabled
// 4. Field content (everything else)
func NewTokenizerWithOptions(opts Options) tokenizer.Tokenizer {
	matchers := []tokenizer.Matcher{
		tokenizer.StringMatcherFunc(TokenNewline, "\r\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\r"),
		tokenizer.StringMatcherFunc(TokenDelimiter, string(rune(opts.Delimiter))),
	}
	if opts.Quote != 0 {
		matchers = append(matchers, tokenizer.StringMatcherFunc(TokenQuote, string(rune(opts.Quote))))
	}
	if opts.PrefixEscape() {
		matchers = append(matchers, tokenizer.StringMatcherFunc(TokenEscape, string(rune(opts.Escape))))
	}
	matchers = append(matchers, FieldContentMatcher(opts))

	return tokenizer.NewTokenizerWithoutWhitespace(matchers...)
}

// NewTokenizerWithStream creates a tokenizer over a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream, opts Options) tokenizer.Tokenizer {
	tok := NewTokenizerWithOptions(opts)
	tok.InitializeFromStream(stream)
	return tok
}

// FieldContentMatcher creates a matcher for runs of characters that are not
// structural under opts: not the delimiter, CR, LF, or an enabled quote or
// escape byte.
//
// Grammar:
//
//	Field = Character+ ;
//	Character = <any character except delimiter, quote, escape, CR, LF> ;
//
// Performance: Uses ByteStream for fast scanning when available. All
// structural bytes are ASCII, so they never occur inside a multi-byte
// UTF-8 sequence.
func FieldContentMatcher(opts Options) tokenizer.Matcher {
	stops := stopSet(opts)
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if byteStream, ok := stream.(tokenizer.ByteStream); ok {
			return fieldContentMatcherByte(byteStream, &stops)
		}
		return fieldContentMatcherRune(stream, &stops)
	}
}

// stopSet marks the ASCII bytes that end a field content run.
func stopSet(opts Options) [128]bool {
	var stops [128]bool
	stops['\r'] = true
	stops['\n'] = true
	stops[opts.Delimiter&0x7F] = true
	if opts.Quote != 0 {
		stops[opts.Quote&0x7F] = true
	}
	if opts.PrefixEscape() {
		stops[opts.Escape&0x7F] = true
	}
	return stops
}

// fieldContentMatcherByte uses ByteStream for optimal performance.
func fieldContentMatcherByte(stream tokenizer.ByteStream, stops *[128]bool) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok {
			break
		}
		if b < 128 && stops[b] {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenField, []rune(string(value)))
}

// fieldContentMatcherRune is the fallback rune-based implementation.
func fieldContentMatcherRune(stream tokenizer.Stream, stops *[128]bool) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok {
			break
		}
		if r < 128 && stops[r] {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenField, value)
}
