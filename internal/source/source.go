// Package source opens the raw byte stream of a run and transparently
// removes a gzip, zstd or lz4 frame layer, so compressed exports can be fed
// to the decoder unchanged.
//
// Detection is by magic number only. Anything else passes through untouched.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the compression layer of an input.
type Compression int

const (
	// None means the input is used as-is.
	None Compression = iota
	// Gzip is RFC 1952 gzip, possibly multi-member.
	Gzip
	// Zstd is a Zstandard frame.
	Zstd
	// LZ4 is an LZ4 frame.
	LZ4
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the human-readable name of a compression layer.
func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Detect returns the compression layer announced by the first bytes of an input.
func Detect(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, magicZstd):
		return Zstd
	case bytes.HasPrefix(head, magicLZ4):
		return LZ4
	case bytes.HasPrefix(head, magicGzip):
		return Gzip
	default:
		return None
	}
}

// NewReader returns a reader over the decompressed content of r and the
// layer that was detected. Closing the result releases decompressor
// resources; it does not close r.
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(magicZstd))
	if err != nil && err != io.EOF {
		return nil, None, err
	}

	switch c := Detect(head); c {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("gzip: %w", err)
		}
		return zr, c, nil
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), c, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(br)), c, nil
	default:
		return io.NopCloser(br), None, nil
	}
}

// Open opens path ("-" or empty for stdin) and wraps it with NewReader.
// Closing the result closes the file as well.
func Open(path string) (io.ReadCloser, Compression, error) {
	var f *os.File
	if path == "" || path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, None, err
		}
	}

	rc, c, err := NewReader(f)
	if err != nil {
		if f != os.Stdin {
			f.Close()
		}
		return nil, c, err
	}
	if f == os.Stdin {
		return rc, c, nil
	}
	return &fileReader{ReadCloser: rc, file: f}, c, nil
}

// fileReader closes both the decompressor and the underlying file.
type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (r *fileReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}
