package csvcopy_test

import (
	"bytes"
	"testing"

	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

// FuzzConvertMatchesRun checks that the streaming and in-memory paths agree
// on success, output and counts for arbitrary input.
func FuzzConvertMatchesRun(f *testing.F) {
	seeds := []string{
		asciiSemicolon,
		latin1Semicolon,
		flexibleSemicolon,
		doubleQuoted,
		prefixEscaped,
		"",
		"\"",
		"a,\"b\nc\"d,e\r\n\r\n",
		"\xef\xbb\xbf\"x\"\"\",y",
		"\xff\xfe;\x00",
		"a\\\"b;\"c\\",
	}
	for _, s := range seeds {
		f.Add([]byte(s), byte(';'), byte('"'), byte('"'), 2)
		f.Add([]byte(s), byte(','), byte('"'), byte('\\'), -1)
		f.Add([]byte(s), byte(';'), byte(0), byte('\\'), 3)
	}

	f.Fuzz(func(t *testing.T, data []byte, delim, quote, escape byte, n int) {
		opts := csvcopy.DefaultOptions()
		opts.Delimiter = delim
		opts.Quote = quote
		opts.Escape = escape
		if n >= 0 {
			opts.Policy = csvcopy.ExactFields(n % 8)
		}
		if opts.Validate() != nil {
			return
		}

		var out bytes.Buffer
		runStats, runErr := csvcopy.Run(bytes.NewReader(data), &out, opts)
		convOut, convStats, convErr := csvcopy.Convert(data, opts)

		if (runErr == nil) != (convErr == nil) {
			t.Fatalf("Run error = %v, Convert error = %v", runErr, convErr)
		}
		if runErr != nil {
			return
		}
		if !bytes.Equal(convOut, out.Bytes()) {
			t.Errorf("Convert = %q, Run = %q", convOut, out.Bytes())
		}
		if convStats != runStats {
			t.Errorf("Convert stats = %+v, Run stats = %+v", convStats, runStats)
		}
	})
}
