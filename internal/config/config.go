// Package config loads csvcopy run profiles.
//
// A profile is a YAML file named by the --config flag or, when the flag is
// absent, the CSVCOPY_CONFIG environment variable. There is no automatic
// discovery: without either, no profile is loaded.
//
// Example profile:
//
//	field_count: 3
//	delimiter: ";"
//	encoding: latin1
//	crlf: false
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

// EnvVar names the environment variable consulted when no --config flag is given.
const EnvVar = "CSVCOPY_CONFIG"

// Profile is a stored set of run settings. Unset keys leave the
// corresponding option at its default.
type Profile struct {
	// FieldCount selects Exact(n). Absent means unconstrained.
	FieldCount *int `yaml:"field_count,omitempty"`

	// Delimiter is the input delimiter, or "auto" to detect it.
	Delimiter string `yaml:"delimiter,omitempty"`

	OutputDelimiter string `yaml:"output_delimiter,omitempty"`
	Quote           string `yaml:"quote,omitempty"`
	Escape          string `yaml:"escape,omitempty"`

	// Encoding forces an input encoding label.
	Encoding string `yaml:"encoding,omitempty"`

	CRLF bool `yaml:"crlf,omitempty"`
}

// Path returns the profile path to load: flagValue if set, otherwise the
// value of EnvVar. An empty result means no profile.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads and parses the profile at path. Unknown keys are rejected.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	var p Profile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &p, nil
}

// Apply copies every key set in p onto opts.
func (p *Profile) Apply(opts *csvcopy.Options) error {
	if p.FieldCount != nil {
		opts.Policy = csvcopy.ExactFields(*p.FieldCount)
	}
	if p.Delimiter != "" {
		if p.Delimiter == "auto" {
			opts.AutoDelimiter = true
		} else {
			b, err := ParseByte(p.Delimiter)
			if err != nil {
				return fmt.Errorf("delimiter: %w", err)
			}
			opts.Delimiter = b
			opts.AutoDelimiter = false
		}
	}
	for _, s := range []struct {
		name  string
		value string
		dst   *byte
	}{
		{"output_delimiter", p.OutputDelimiter, &opts.OutputDelimiter},
		{"quote", p.Quote, &opts.Quote},
		{"escape", p.Escape, &opts.Escape},
	} {
		if s.value == "" {
			continue
		}
		b, err := ParseByte(s.value)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = b
	}
	if p.Encoding != "" {
		opts.Encoding = p.Encoding
	}
	if p.CRLF {
		opts.UseCRLF = true
	}
	return nil
}

// ParseByte parses a single-byte setting. It accepts exactly one ASCII
// character or one of the escapes \t, \0 and \\.
func ParseByte(s string) (byte, error) {
	switch s {
	case `\t`:
		return '\t', nil
	case `\0`:
		return 0, nil
	case `\\`:
		return '\\', nil
	}
	if len(s) != 1 || s[0] >= 0x80 {
		return 0, fmt.Errorf("%q is not a single ASCII character", s)
	}
	return s[0], nil
}
