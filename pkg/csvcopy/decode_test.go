package csvcopy_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

func decode(t *testing.T, input, label string) (string, error) {
	t.Helper()
	r, err := csvcopy.NewDecodeReader(strings.NewReader(input), label)
	if err != nil {
		t.Fatalf("NewDecodeReader(%q) error = %v", label, err)
	}
	out, err := io.ReadAll(r)
	return string(out), err
}

func TestLookupEncoding_Latin1Family(t *testing.T) {
	labels := []string{"latin1", "LATIN1", "ISO-8859-1", "iso_8859_1", "ISO_8859_1", "windows-1252", "WINDOWS_1252", "cp1252", "ascii", " us-ascii "}
	for _, label := range labels {
		got, err := decode(t, "d\xe9f \x80", label)
		if err != nil {
			t.Errorf("%s: error = %v", label, err)
			continue
		}
		if got != "déf €" {
			t.Errorf("%s: decoded %q, want %q", label, got, "déf €")
		}
	}
}

func TestLookupEncoding_Unknown(t *testing.T) {
	for _, label := range []string{"", "klingon", "utf-9"} {
		_, err := csvcopy.LookupEncoding(label)
		if !errors.Is(err, csvcopy.ErrUnknownEncoding) {
			t.Errorf("LookupEncoding(%q) error = %v, want ErrUnknownEncoding", label, err)
		}
	}
	if _, err := csvcopy.NewDecodeReader(strings.NewReader(""), "klingon"); !errors.Is(err, csvcopy.ErrUnknownEncoding) {
		t.Errorf("NewDecodeReader() error = %v", err)
	}
}

func TestNewDecodeReader_Autodetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no bom", "a,b\n", "a,b\n"},
		{"utf-8 bom", "\xef\xbb\xbfa,\xc3\xa9\n", "a,é\n"},
		{"utf-16le bom", "\xff\xfea\x00,\x00\xe9\x00\n\x00", "a,é\n"},
		{"utf-16be bom", "\xfe\xff\x00a\x00,\x00\xe9\x00\n", "a,é\n"},
		{"short input", "a", "a"},
		{"empty", "", ""},
		{"bom only", "\xef\xbb\xbf", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(t, tt.input, "")
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decoded %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewDecodeReader_ForcedStripsBOM(t *testing.T) {
	tests := []struct {
		name  string
		input string
		label string
		want  string
	}{
		{"utf-8 bom under latin1", "\xef\xbb\xbfd\xe9f", "latin1", "déf"},
		{"utf-16 bom under latin1", "\xff\xfed\xe9f", "latin1", "déf"},
		{"utf-8 bom under utf-8", "\xef\xbb\xbfd\xc3\xa9f", "utf-8", "déf"},
		{"no bom", "d\xe9f", "windows-1252", "déf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(t, tt.input, tt.label)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decoded %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewDecodeReader_ForcedUTF8DoesNotSniff(t *testing.T) {
	// A UTF-16 BOM is stripped but does not switch the decoder to UTF-16.
	got, err := decode(t, "\xff\xfea\x00", "utf-8")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if got != "a\x00" {
		t.Errorf("decoded %q, want %q", got, "a\x00")
	}
}

func TestNewDecodeReader_InvalidUTF8(t *testing.T) {
	got, err := decode(t, "\xef\xbb\xbfab\xffc", "")

	var decodeErr *csvcopy.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if decodeErr.Offset != 5 {
		t.Errorf("Offset = %d, want 5", decodeErr.Offset)
	}
	if !strings.Contains(err.Error(), "invalid UTF-8") {
		t.Errorf("message = %q", err.Error())
	}
	if got != "ab" {
		t.Errorf("text before failure = %q, want %q", got, "ab")
	}
}
