package csvcopy

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// LookupEncoding resolves an encoding label.
//
// Labels are matched case-insensitively with '_' treated as '-', first
// against the WHATWG label set and then against IANA names. Under WHATWG
// rules "latin1", "ISO-8859-1", "ISO_8859_1", "ascii" and "windows-1252"
// all name the Windows-1252 table.
func LookupEncoding(label string) (encoding.Encoding, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), "_", "-")
	if normalized == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
	}
	if enc, err := htmlindex.Get(normalized); err == nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(normalized); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, label)
}

// encodingName returns the canonical name of enc.
func encodingName(enc encoding.Encoding) string {
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	if name, err := ianaindex.IANA.Name(enc); err == nil {
		return strings.ToLower(name)
	}
	return fmt.Sprint(enc)
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == unicode.UTF8 || encodingName(enc) == "utf-8"
}

// NewDecodeReader returns a reader producing UTF-8 text decoded from r.
//
// With an empty label a leading byte order mark selects UTF-8, UTF-16LE or
// UTF-16BE and is consumed; without one the input is validated as UTF-8.
// With a label, BOM sniffing is disabled: a leading BOM byte sequence is
// stripped and every remaining byte is decoded with the named encoding.
//
// Decoding is lazy. Undecodable bytes surface as a *DecodeError from Read
// once the text before them has been delivered.
func NewDecodeReader(r io.Reader, label string) (io.Reader, error) {
	var forced encoding.Encoding
	if label != "" {
		enc, err := LookupEncoding(label)
		if err != nil {
			return nil, err
		}
		forced = enc
	}

	br := bufio.NewReader(r)
	head, err := br.Peek(len(bomUTF8))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		// Let the failure surface from Read at the point it happened.
		head = nil
	}

	var t transform.Transformer
	var name string
	var bomLen int

	switch {
	case forced != nil:
		bomLen = bomLength(head)
		name = encodingName(forced)
		if isUTF8(forced) {
			t = encoding.UTF8Validator
		} else {
			t = forced.NewDecoder()
		}
	case bytes.HasPrefix(head, bomUTF8):
		bomLen, name, t = len(bomUTF8), "utf-8", encoding.UTF8Validator
	case bytes.HasPrefix(head, bomUTF16LE):
		bomLen, name = len(bomUTF16LE), "utf-16le"
		t = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case bytes.HasPrefix(head, bomUTF16BE):
		bomLen, name = len(bomUTF16BE), "utf-16be"
		t = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		name, t = "utf-8", encoding.UTF8Validator
	}

	if bomLen > 0 {
		if _, err := br.Discard(bomLen); err != nil {
			return nil, err
		}
	}

	return transform.NewReader(br, &strictDecoder{t: t, name: name, base: int64(bomLen)}), nil
}

// bomLength returns the length of a BOM byte sequence at the start of head.
func bomLength(head []byte) int {
	switch {
	case bytes.HasPrefix(head, bomUTF8):
		return len(bomUTF8)
	case bytes.HasPrefix(head, bomUTF16LE), bytes.HasPrefix(head, bomUTF16BE):
		return len(bomUTF16LE)
	}
	return 0
}

// strictDecoder turns transformer failures into *DecodeError values carrying
// the raw byte offset of the failure.
type strictDecoder struct {
	t    transform.Transformer
	name string
	base int64
	read int64
}

func (d *strictDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	nDst, nSrc, err = d.t.Transform(dst, src, atEOF)
	d.read += int64(nSrc)
	if err != nil && err != transform.ErrShortDst && err != transform.ErrShortSrc {
		err = &DecodeError{Encoding: d.name, Offset: d.base + d.read, Err: err}
	}
	return nDst, nSrc, err
}

func (d *strictDecoder) Reset() {
	d.t.Reset()
	d.read = 0
}
