package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/shapestone/shape-csvcopy/internal/config"
	"github.com/shapestone/shape-csvcopy/internal/source"
	"github.com/shapestone/shape-csvcopy/pkg/csvcopy"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const outputBufferSize = 64 * 1024

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// usageError marks invalid flags or configuration.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

type flags struct {
	fieldCount      int
	delimiter       string
	outputDelimiter string
	quote           string
	escape          string
	encoding        string
	crlf            bool
	configPath      string
	input           string
	verbose         bool
	version         bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("csvcopy", pflag.ContinueOnError)
	flagSet.IntVarP(&f.fieldCount, "number-of-fields", "n", 0, "exact number of fields per row (truncates longer rows, drops shorter ones)")
	flagSet.StringVarP(&f.delimiter, "delimiter", "d", ",", `input delimiter, or "auto" to detect it`)
	flagSet.StringVarP(&f.outputDelimiter, "output-delimiter", "o", ",", "output delimiter")
	flagSet.StringVarP(&f.quote, "quote", "q", `"`, `input quote character (\0 disables quoting)`)
	flagSet.StringVar(&f.escape, "escape", `"`, "input escape character")
	flagSet.StringVar(&f.encoding, "encoding", "", "input encoding label (default: detect byte order mark, else UTF-8)")
	flagSet.BoolVar(&f.crlf, "crlf", false, "terminate output records with CRLF")
	flagSet.StringVar(&f.configPath, "config", "", "YAML profile (default: $"+config.EnvVar+")")
	flagSet.StringVarP(&f.input, "input", "i", "-", "input file (- for stdin)")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log debug details to stderr")
	flagSet.BoolVar(&f.version, "version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var f flags
	flagSet := newFlagSet(&f)
	flagSet.SetOutput(stderr)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet, stderr)
			return nil
		}
		return &usageError{err: err}
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return nil
	}
	if f.version {
		fmt.Fprintf(stdout, "csvcopy %s\n", version)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return usagef("unexpected argument: %s", rest[0])
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts, err := resolveOptions(flagSet, &f)
	if err != nil {
		return err
	}
	opts.OnDrop = func(line int, fields []string) {
		logger.Debug("dropped record", "line", line, "fields", len(fields))
	}
	logger.Debug("resolved options",
		"policy", opts.Policy.String(),
		"delimiter", delimiterAttr(opts),
		"output_delimiter", string(opts.OutputDelimiter),
		"quote", fmt.Sprintf("%q", opts.Quote),
		"escape", fmt.Sprintf("%q", opts.Escape),
		"encoding", opts.Encoding,
		"crlf", opts.UseCRLF,
	)

	var in io.ReadCloser
	var compression source.Compression
	if f.input == "-" || f.input == "" {
		in, compression, err = source.NewReader(stdin)
	} else {
		in, compression, err = source.Open(f.input)
	}
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()
	if compression != source.None {
		logger.Debug("decompressing input", "compression", compression.String())
	}

	out := bufio.NewWriterSize(stdout, outputBufferSize)
	stats, err := csvcopy.Run(in, out, opts)
	logger.Debug("run finished", "read", stats.Read, "written", stats.Written, "dropped", stats.Dropped)
	if err != nil {
		return err
	}
	if stats.Dropped > 0 {
		logger.Info("dropped short records",
			"dropped", stats.Dropped,
			"written", stats.Written,
			"policy", opts.Policy.String(),
		)
	}
	return nil
}

// resolveOptions layers defaults, the optional profile and explicitly set
// flags, in that order.
func resolveOptions(flagSet *pflag.FlagSet, f *flags) (csvcopy.Options, error) {
	opts := csvcopy.DefaultOptions()

	if path := config.Path(f.configPath); path != "" {
		profile, err := config.Load(path)
		if err != nil {
			return opts, &usageError{err: err}
		}
		if err := profile.Apply(&opts); err != nil {
			return opts, usagef("config %s: %w", path, err)
		}
	}

	if flagSet.Changed("number-of-fields") {
		opts.Policy = csvcopy.ExactFields(f.fieldCount)
	}
	if flagSet.Changed("delimiter") {
		if f.delimiter == "auto" {
			opts.AutoDelimiter = true
		} else {
			b, err := config.ParseByte(f.delimiter)
			if err != nil {
				return opts, usagef("--delimiter: %w", err)
			}
			opts.Delimiter = b
			opts.AutoDelimiter = false
		}
	}
	for _, s := range []struct {
		name string
		dst  *byte
		val  string
	}{
		{"output-delimiter", &opts.OutputDelimiter, f.outputDelimiter},
		{"quote", &opts.Quote, f.quote},
		{"escape", &opts.Escape, f.escape},
	} {
		if !flagSet.Changed(s.name) {
			continue
		}
		b, err := config.ParseByte(s.val)
		if err != nil {
			return opts, usagef("--%s: %w", s.name, err)
		}
		*s.dst = b
	}
	if flagSet.Changed("encoding") {
		opts.Encoding = f.encoding
	}
	if flagSet.Changed("crlf") {
		opts.UseCRLF = f.crlf
	}

	if err := opts.Validate(); err != nil {
		return opts, &usageError{err: err}
	}
	return opts, nil
}

func delimiterAttr(opts csvcopy.Options) string {
	if opts.AutoDelimiter {
		return "auto"
	}
	return fmt.Sprintf("%q", opts.Delimiter)
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `csvcopy: convert a delimited text export to canonical CSV for PostgreSQL COPY.

Reads stdin (or --input) and writes to stdout. The output always uses
DELIMITER ',' QUOTE '"' ESCAPE '"' ENCODING 'UTF8' unless
--output-delimiter or --crlf say otherwise.

Usage:
  csvcopy [flags] < input > output

Examples:
  # Semicolon-separated Latin-1 export, exactly three columns
  csvcopy -n 3 -d ';' --encoding latin1 < export.csv

  # Backslash-escaped values with quoting disabled
  csvcopy -q '\0' --escape '\\' -i export.csv.gz

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
