//go:build go1.18
// +build go1.18

package tokenizer

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzTokenizer checks that tokenizing never panics and that concatenated
// token values reproduce the input.
// Run with: go test -fuzz=FuzzTokenizer -fuzztime=30s ./internal/tokenizer
func FuzzTokenizer(f *testing.F) {
	seeds := []string{
		"",
		"a",
		",",
		"\n",
		"\r\n",
		"\r",
		"\"",
		"\"\"",
		"a,b,c",
		"\"with\\\"escape\"",
		"\"with\"\"quote\"",
		"a\nb\nc",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip()
		}
		tok := NewTokenizerWithOptions(Options{Delimiter: ',', Quote: '"', Escape: '\\'})
		tok.Initialize(input)

		var sb strings.Builder
		for {
			token, ok := tok.NextToken()
			if !ok {
				break
			}
			sb.WriteString(token.ValueString())
		}
		if sb.String() != input {
			t.Errorf("tokens reassemble to %q, want %q", sb.String(), input)
		}
	})
}
