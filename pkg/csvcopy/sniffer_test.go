package csvcopy_test

import (
	"testing"

	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

func TestSnifferDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		quote    byte
		expected byte
	}{
		{
			name:     "comma delimited",
			sample:   "a,b,c\n1,2,3\n4,5,6",
			quote:    '"',
			expected: ',',
		},
		{
			name:     "tab delimited",
			sample:   "a\tb\tc\n1\t2\t3\n4\t5\t6",
			quote:    '"',
			expected: '\t',
		},
		{
			name:     "semicolon delimited",
			sample:   "foo;bar;baz\r\nabc;déf;ghi\r\n",
			quote:    '"',
			expected: ';',
		},
		{
			name:     "pipe delimited",
			sample:   "a|b|c\n1|2|3\n4|5|6",
			quote:    '"',
			expected: '|',
		},
		{
			name:     "empty sample defaults to comma",
			sample:   "",
			quote:    '"',
			expected: ',',
		},
		{
			name:     "comma quote defaults to tab",
			sample:   "abc",
			quote:    ',',
			expected: '\t',
		},
		{
			name:     "mixed but more commas",
			sample:   "a,b,c\n1,2,3\n4;5;6",
			quote:    '"',
			expected: ',',
		},
		{
			name:     "quoted delimiters ignored",
			sample:   "\"a;b;c;d\",e,f\n\"g;h\",i,j",
			quote:    '"',
			expected: ',',
		},
		{
			name:     "quoting disabled counts every byte",
			sample:   "'a;b;c',d\n'e;f;g',h",
			quote:    0,
			expected: ';',
		},
		{
			name:     "consistency beats frequency",
			sample:   "a;b,c,d,e\nf;g,h\ni;j",
			quote:    '"',
			expected: ';',
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sniffer := csvcopy.NewSniffer(tt.sample, tt.quote)
			got := sniffer.DetectDelimiter()
			if got != tt.expected {
				t.Errorf("DetectDelimiter() = %q, want %q", got, tt.expected)
			}
			if again := sniffer.DetectDelimiter(); again != got {
				t.Errorf("second DetectDelimiter() = %q, want %q", again, got)
			}
		})
	}
}
