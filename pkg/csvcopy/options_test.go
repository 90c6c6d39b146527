package csvcopy_test

import (
	"errors"
	"testing"

	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*csvcopy.Options)
		field  string
	}{
		{"default", func(*csvcopy.Options) {}, ""},
		{"nil policy", func(o *csvcopy.Options) { o.Policy = nil }, ""},
		{"null quote", func(o *csvcopy.Options) { o.Quote = 0; o.Escape = '\\' }, ""},
		{"auto delimiter", func(o *csvcopy.Options) { o.Delimiter = 0; o.AutoDelimiter = true }, ""},
		{"zero delimiter", func(o *csvcopy.Options) { o.Delimiter = 0 }, "Delimiter"},
		{"newline delimiter", func(o *csvcopy.Options) { o.Delimiter = '\n' }, "Delimiter"},
		{"non-ascii delimiter", func(o *csvcopy.Options) { o.Delimiter = 0xa7 }, "Delimiter"},
		{"quote output delimiter", func(o *csvcopy.Options) { o.OutputDelimiter = '"' }, "OutputDelimiter"},
		{"cr output delimiter", func(o *csvcopy.Options) { o.OutputDelimiter = '\r' }, "OutputDelimiter"},
		{"quote equals delimiter", func(o *csvcopy.Options) { o.Quote = ',' }, "Quote"},
		{"newline quote", func(o *csvcopy.Options) { o.Quote = '\n' }, "Quote"},
		{"newline escape", func(o *csvcopy.Options) { o.Escape = '\n' }, "Escape"},
		{"escape equals delimiter", func(o *csvcopy.Options) { o.Escape = ',' }, "Escape"},
		{"negative field count", func(o *csvcopy.Options) { o.Policy = csvcopy.ExactFields(-1) }, "Policy"},
		{"unknown encoding", func(o *csvcopy.Options) { o.Encoding = "ebcdic-klingon" }, "Encoding"},
		{"known encoding", func(o *csvcopy.Options) { o.Encoding = "ISO_8859_1" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := csvcopy.DefaultOptions()
			tt.modify(&opts)
			err := opts.Validate()

			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			var optErr *csvcopy.OptionsError
			if !errors.As(err, &optErr) {
				t.Fatalf("Validate() error = %v, want *OptionsError", err)
			}
			if optErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", optErr.Field, tt.field)
			}
		})
	}
}
