// Command csvcopy rewrites a delimited text export as canonical CSV ready for
// `COPY ... FROM STDIN WITH FORMAT CSV`.
//
// It reads stdin (or --input), decodes it under the selected encoding,
// parses it with the given delimiter, quote and escape, optionally forces
// every row to an exact field count, and writes comma-separated,
// double-quoted UTF-8 to stdout. Gzip, zstd and LZ4 input is decompressed
// transparently.
//
// Usage:
//
//	csvcopy -n 3 -d ';' --encoding latin1 < export.csv > clean.csv
//
// Settings may also come from a YAML profile named by --config or the
// CSVCOPY_CONFIG environment variable; flags given on the command line win.
//
// Exit status is 0 on success, 1 when the conversion fails and 2 for
// invalid flags or configuration.
package main
