//go:build go1.18
// +build go1.18

package parser

import (
	"testing"
	"unicode/utf8"
)

// FuzzParser tests the parser with random inputs to find edge cases and panics.
// Run with: go test -fuzz=FuzzParser -fuzztime=30s ./internal/parser
func FuzzParser(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"a;b;c",
		"a;b\nc;d",
		"\"quoted\"",
		"\"with;delimiter\"",
		"\"with\"\"quote\"",
		"\"with\\\"escape\"",
		"\"multi\nline\"",
		"\r\n",
		"a\rb",
		";;",
		"\"\"",
		"\"",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	dialects := []Options{
		{Delimiter: ';', Quote: '"', Escape: '"'},
		{Delimiter: ';', Quote: '"', Escape: '\\'},
		{Delimiter: ';', Quote: 0, Escape: '\\'},
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip()
		}
		// The parser should never panic, regardless of input
		for _, opts := range dialects {
			_, _ = NewParserWithOptions(input, opts).Parse()
		}
	})
}
