package csvcopy

import (
	"bufio"
	"bytes"
	"strings"
)

// sniffSize is how much decoded text is sampled for delimiter detection.
const sniffSize = 64 * 1024

// candidateDelimiters are checked in order; earlier wins a tie.
var candidateDelimiters = []byte{',', '\t', ';', '|'}

// Sniffer detects the field delimiter of a text sample.
type Sniffer struct {
	sample    string
	quote     byte
	// escape is a prefix escape byte that may not become the delimiter; zero for none.
	escape    byte
	delimiter byte
	analyzed  bool
}

// NewSniffer creates a Sniffer for sample. quote is the quote byte of the
// input (zero when quoting is disabled); delimiters inside quotes are ignored.
// For best results, provide at least 2-3 lines of data.
func NewSniffer(sample string, quote byte) *Sniffer {
	return &Sniffer{
		sample: sample,
		quote:  quote,
	}
}

// newDialectSniffer creates a Sniffer that also never picks the prefix
// escape byte of the dialect.
func newDialectSniffer(sample string, quote, escape byte) *Sniffer {
	s := NewSniffer(sample, quote)
	if escape != quote {
		s.escape = escape
	}
	return s
}

// DetectDelimiter returns the detected field delimiter.
// Common delimiters checked: comma, tab, semicolon, pipe. It returns the
// first candidate that is neither the quote nor the escape byte when nothing
// scores.
func (s *Sniffer) DetectDelimiter() byte {
	if !s.analyzed {
		s.delimiter = s.detectDelimiter()
		s.analyzed = true
	}
	return s.delimiter
}

// detectDelimiter scores each candidate by its count on the first line,
// multiplied by ten when every non-empty line has the same count.
func (s *Sniffer) detectDelimiter() byte {
	lines := strings.Split(s.sample, "\n")

	best := byte(0)
	bestScore := 0

	for _, delim := range candidateDelimiters {
		if s.excluded(delim) {
			continue
		}

		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			line = strings.TrimSuffix(line, "\r")
			if line == "" {
				continue
			}
			counts = append(counts, s.countDelimiter(line, delim))
		}
		if len(counts) == 0 || counts[0] == 0 {
			continue
		}

		score := counts[0] * 10
		for _, c := range counts[1:] {
			if c != counts[0] {
				score = counts[0]
				break
			}
		}
		if score > bestScore {
			best = delim
			bestScore = score
		}
	}

	if best == 0 {
		for _, delim := range candidateDelimiters {
			if !s.excluded(delim) {
				return delim
			}
		}
	}
	return best
}

// excluded reports whether delim clashes with the quote or escape byte.
func (s *Sniffer) excluded(delim byte) bool {
	return delim == s.quote || (s.escape != 0 && delim == s.escape)
}

// countDelimiter counts occurrences of a delimiter, ignoring quoted sections.
func (s *Sniffer) countDelimiter(line string, delim byte) int {
	count := 0
	inQuotes := false

	for i := 0; i < len(line); i++ {
		switch ch := line[i]; {
		case s.quote != 0 && ch == s.quote:
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			count++
		}
	}

	return count
}

// sniffDelimiter peeks at the start of text without consuming it and
// returns the detected delimiter. Read errors are left for the parser to
// report.
func sniffDelimiter(text *bufio.Reader, quote, escape byte) byte {
	sample, _ := text.Peek(sniffSize)
	return sampleDelimiter(sample, quote, escape)
}

// sampleDelimiter detects the delimiter from at most sniffSize bytes of text.
func sampleDelimiter(text []byte, quote, escape byte) byte {
	sample := text
	if len(sample) >= sniffSize {
		sample = sample[:sniffSize]
		// Drop the partial last line of a full sample.
		if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
			sample = sample[:i]
		}
	}
	return newDialectSniffer(string(sample), quote, escape).DetectDelimiter()
}
